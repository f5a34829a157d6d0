package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"
	"ytcomments/internal/assert"
	"ytcomments/internal/restyutil"
	"ytcomments/internal/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/79.0.3945.130 Safari/537.36"

const (
	report_session_new       = "session.new"
	report_session_post_json = "session.post-json"
)

type Options struct {
	// UserAgent defaults to DefaultUserAgent.
	UserAgent string
	// Timeout bounds page fetches, 0 means 60 seconds.
	Timeout time.Duration
	// RequestsPerSecond throttles every request when positive.
	RequestsPerSecond float64
	CloudflareBypass  bool
	// CookiesFile is a Netscape cookies.txt export, a missing file only
	// produces a warning.
	CookiesFile string
	// Debug receives a dump of every http exchange when set.
	Debug restyutil.InstrumentOutput
}

// Session is a browser-like HTTP session against youtube, it keeps cookies
// across every request it makes and is not safe for concurrent runs.
type Session struct {
	http *resty.Client
	jar  http.CookieJar
	tel  telemetry.API
}

func New(opts Options, tel telemetry.API) (*Session, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("session", tel)

	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	jar.SetCookies(youtubeUrl, []*http.Cookie{{
		Name:   "CONSENT",
		Value:  "YES+cb",
		Domain: ".youtube.com",
		Path:   "/",
	}})

	if opts.CookiesFile != "" {
		err = LoadCookies(jar, opts.CookiesFile)
		if os.IsNotExist(err) {
			tel.ReportWarning(
				report_session_new,
				fmt.Errorf("cookies file not found, continuing without it: %w", err),
				opts.CookiesFile,
			)
		} else if err != nil {
			return nil, fmt.Errorf("load cookies: %w", err)
		}
	}

	client := resty.New()
	client.SetCookieJar(jar)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return waitLimiter(req.Context(), rateLimiter)
		})
	}

	telemetry.InstrumentResty(client, "ytcomments/session", tel)
	restyutil.InstrumentClient(client, opts.Debug)

	return &Session{
		http: client,
		jar:  jar,
		tel:  tel,
	}, nil
}

// waitLimiter blocks until limiter allows a request. A wait that cannot end
// before the deadline of ctx counts as a timeout.
func waitLimiter(ctx context.Context, limiter *rate.Limiter) error {
	err := limiter.Wait(ctx)
	if err == nil || ctx.Err() != nil {
		return err
	}
	if _, ok := ctx.Deadline(); ok {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return err
}

var youtubeUrl = &url.URL{Scheme: "https", Host: "www.youtube.com", Path: "/"}

// Cookies returns the cookies the session would send to u.
func (s *Session) Cookies(u *url.URL) []*http.Cookie {
	return s.jar.Cookies(u)
}

func finalResponse(res *resty.Response) Response {
	out := Response{Body: string(res.Body())}
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		out.URL = res.RawResponse.Request.URL
	}
	return out
}

func (s *Session) Get(ctx context.Context, url string) (Response, error) {
	res, err := s.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return Response{}, fmt.Errorf("get %s: %w", url, err)
	}
	return finalResponse(res), nil
}

func (s *Session) PostQuery(ctx context.Context, url string, query map[string]string) (Response, error) {
	res, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Post(url)
	if err != nil {
		return Response{}, fmt.Errorf("post %s: %w", url, err)
	}
	return finalResponse(res), nil
}

func (s *Session) PostJSON(
	ctx context.Context,
	url string,
	query map[string]string,
	payload any,
	timeout time.Duration,
) (int, map[string]any, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetHeader("content-type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		return 0, nil, fmt.Errorf("post %s: %w", url, err)
	}
	if res.StatusCode() != http.StatusOK {
		return res.StatusCode(), nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(res.Body()))
	decoder.UseNumber()
	var body map[string]any
	err = decoder.Decode(&body)
	if err != nil {
		s.tel.ReportWarning(
			report_session_post_json,
			fmt.Errorf("decode response: %w", err),
			url,
		)
		return res.StatusCode(), nil, fmt.Errorf("decode response from %s: %w", url, err)
	}
	return res.StatusCode(), body, nil
}
