package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"ytcomments/internal/chrono"
	"ytcomments/internal/telemetry"

	"github.com/stretchr/testify/require"
)

func TestDownloadSinkFailureLeavesNoOutput(t *testing.T) {
	env := &environment{
		tel:   &telemetry.Recorder{},
		clock: chrono.FixedTime(time.Unix(1719835200, 0)),
	}
	path := filepath.Join(t.TempDir(), "comments.json")
	flags := outputFlags{
		output:  path,
		natsUrl: "nats://127.0.0.1:1",
	}

	err := download(context.Background(), env, flags, job[string]{
		kind:   "comments",
		noun:   "comment(s)",
		target: "dQw4w9WgXcQ",
		fetch: func(yield func(string, error) bool) {
			t.Fatal("fetch must not start when a sink is unavailable")
		},
	})
	require.Error(t, err)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
