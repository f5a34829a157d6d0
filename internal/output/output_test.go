package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	CID  string `json:"cid"`
	Text string `json:"text"`
}

func TestLines(t *testing.T) {
	var buf bytes.Buffer
	w := New[record](&buf, false, "comments")
	require.NoError(t, w.Write(record{CID: "a", Text: "<b>&</b>"}))
	require.NoError(t, w.Write(record{CID: "b", Text: "ünïcode"}))
	require.NoError(t, w.Close())

	require.Equal(t,
		`{"cid":"a","text":"<b>&</b>"}`+"\n"+`{"cid":"b","text":"ünïcode"}`+"\n",
		buf.String(),
	)
	require.Equal(t, 2, w.Count())
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	w := New[record](&buf, true, "comments")
	require.NoError(t, w.Write(record{CID: "a", Text: "x"}))
	require.NoError(t, w.Write(record{CID: "b", Text: "y"}))
	require.NoError(t, w.Close())

	expected := strings.Join([]string{
		`{`,
		`    "comments": [`,
		`        {`,
		`            "cid": "a",`,
		`            "text": "x"`,
		`        },`,
		`        {`,
		`            "cid": "b",`,
		`            "text": "y"`,
		`        }`,
		`    ]`,
		`}`,
		``,
	}, "\n")
	require.Equal(t, expected, buf.String())

	var doc map[string][]record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, []record{{CID: "a", Text: "x"}, {CID: "b", Text: "y"}}, doc["comments"])
}

func TestPrettyEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := New[record](&buf, true, "posts")
	require.NoError(t, w.Close())

	var doc map[string][]record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Contains(t, doc, "posts")
	require.Empty(t, doc["posts"])
}

func TestCreateMakesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "comments.json")
	w, err := Create[record](path, false, "comments")
	require.NoError(t, err)
	require.NoError(t, w.Write(record{CID: "a"}))
	require.NoError(t, w.Close())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{"cid":"a","text":""}`+"\n", string(contents))
}
