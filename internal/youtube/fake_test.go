package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
	"ytcomments/internal/session"
	"ytcomments/internal/telemetry"

	"github.com/stretchr/testify/require"
)

const testVideoUrl = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type fakeReply struct {
	status int
	body   string
	err    error
}

type transportCall struct {
	Method  string
	URL     string
	Query   map[string]string
	Token   string
	Payload map[string]any
}

// fakeTransport serves pages by url and continuation responses by token.
// The last reply queued for a token repeats.
type fakeTransport struct {
	t           testing.TB
	pages       map[string]session.Response
	consentPage string
	replies     map[string][]fakeReply
	calls       []transportCall
}

func newFakeTransport(t testing.TB) *fakeTransport {
	return &fakeTransport{
		t:       t,
		pages:   map[string]session.Response{},
		replies: map[string][]fakeReply{},
	}
}

func mustParseUrl(t testing.TB, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func (f *fakeTransport) servePage(pageUrl, body string) {
	f.pages[pageUrl] = session.Response{URL: mustParseUrl(f.t, pageUrl), Body: body}
}

func (f *fakeTransport) reply(token string, replies ...fakeReply) {
	f.replies[token] = append(f.replies[token], replies...)
}

func (f *fakeTransport) replyJSON(token, body string) {
	f.reply(token, fakeReply{status: 200, body: body})
}

func (f *fakeTransport) Get(_ context.Context, pageUrl string) (session.Response, error) {
	f.calls = append(f.calls, transportCall{Method: "GET", URL: pageUrl})
	res, ok := f.pages[pageUrl]
	if !ok {
		return session.Response{}, fmt.Errorf("no page registered for %s", pageUrl)
	}
	return res, nil
}

func (f *fakeTransport) PostQuery(_ context.Context, endpoint string, query map[string]string) (session.Response, error) {
	f.calls = append(f.calls, transportCall{Method: "POST_QUERY", URL: endpoint, Query: query})
	return session.Response{URL: mustParseUrl(f.t, testVideoUrl), Body: f.consentPage}, nil
}

func (f *fakeTransport) PostJSON(
	ctx context.Context,
	endpoint string,
	query map[string]string,
	payload any,
	_ time.Duration,
) (int, map[string]any, error) {
	p := payload.(map[string]any)
	token, _ := p["continuation"].(string)
	f.calls = append(f.calls, transportCall{
		Method:  "POST_JSON",
		URL:     endpoint,
		Query:   query,
		Token:   token,
		Payload: p,
	})

	queue := f.replies[token]
	if len(queue) == 0 {
		f.t.Errorf("unexpected continuation %q", token)
		return 403, nil, nil
	}
	r := queue[0]
	if len(queue) > 1 {
		f.replies[token] = queue[1:]
	}

	if r.err != nil {
		return 0, nil, r.err
	}
	if r.status != 200 {
		return r.status, nil, nil
	}
	decoder := json.NewDecoder(bytes.NewReader([]byte(r.body)))
	decoder.UseNumber()
	var body map[string]any
	err := decoder.Decode(&body)
	require.NoError(f.t, err)
	return 200, body, nil
}

// tokens lists the continuations requested so far, in order.
func (f *fakeTransport) tokens() []string {
	var out []string
	for _, c := range f.calls {
		if c.Method == "POST_JSON" {
			out = append(out, c.Token)
		}
	}
	return out
}

func (f *fakeTransport) count(method string) int {
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// fixture reads a json file from testdata with all insignificant whitespace
// removed.
func fixture(t testing.TB, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	if filepath.Ext(name) != ".json" {
		return string(raw)
	}
	var buf bytes.Buffer
	err = json.Compact(&buf, raw)
	require.NoError(t, err)
	return buf.String()
}

func watchPage(cfg, initialData string) string {
	return fmt.Sprintf(
		`<!DOCTYPE html><html><head><script>ytcfg.set(%s);window.ytcfg.set("EXPERIMENT_FLAGS", 1);</script></head>`+
			`<body><script>var ytInitialData = %s;</script><script>var meta = 1;</script></body></html>`,
		cfg,
		initialData,
	)
}

func newTestDownloader(t testing.TB, transport session.Transport, opts Options) (*Downloader, *telemetry.Recorder) {
	t.Helper()
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Millisecond
	}
	if opts.PageDelay == 0 {
		opts.PageDelay = time.Nanosecond
	}
	tel := &telemetry.Recorder{}
	return New(transport, tel, opts), tel
}

func collect[T any](t testing.TB, seq iter.Seq2[T, error]) ([]T, error) {
	t.Helper()
	var out []T
	for item, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

type memoryOutput map[string]string

func (m memoryOutput) Write(id, contents string) {
	m[id] = contents
}

func compact(t testing.TB, doc string) string {
	t.Helper()
	var buf bytes.Buffer
	err := json.Compact(&buf, []byte(doc))
	require.NoError(t, err)
	return buf.String()
}

func sessionResponse(t testing.TB, finalUrl, body string) session.Response {
	return session.Response{URL: mustParseUrl(t, finalUrl), Body: body}
}
