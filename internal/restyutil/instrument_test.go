package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput map[string]string

func (m memoryOutput) Write(id, contents string) {
	m[id] = contents
}

func TestInstrumentClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	out := memoryOutput{}
	client := resty.New()
	InstrumentClient(client, out)

	_, err := client.R().
		SetBody(map[string]string{"continuation": "abc"}).
		Post(srv.URL + "/youtubei/v1/next")
	require.NoError(t, err)

	require.Len(t, out, 1)
	message := out["http_0001.txt"]
	require.True(t, strings.HasPrefix(message, "---- REQUEST ----"))
	require.Contains(t, message, "POST "+srv.URL+"/youtubei/v1/next")
	require.Contains(t, message, `"continuation":"abc"`)
	require.Contains(t, message, `{"ok":true}`)
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug", "run")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	out.Write("ytcfg.json", "{}")

	contents, err := os.ReadFile(filepath.Join(dir, "ytcfg.json"))
	require.NoError(t, err)
	require.Equal(t, "{}", string(contents))
}

func TestFormatHttpMessageSortsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Zeta", "1")
		w.Header().Set("X-Alpha", "2")
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	out := memoryOutput{}
	client := resty.New()
	InstrumentClient(client, out)
	_, err := client.R().Get(srv.URL)
	require.NoError(t, err)

	message := out["http_0001.txt"]
	require.Contains(t, message, "<no body>")
	require.Contains(t, message, "418 "+srv.URL)
	require.Less(t, strings.Index(message, "X-Alpha: 2"), strings.Index(message, "X-Zeta: 1"))
}
