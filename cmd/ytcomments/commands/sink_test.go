package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"ytcomments/internal/output"

	"github.com/stretchr/testify/require"
)

func TestSinkBatchesStoreWrites(t *testing.T) {
	var buf bytes.Buffer
	var batches []int
	s := &sink[int]{
		writer: output.New[int](&buf, false, "comments"),
		save: func(ctx context.Context, batch []int) error {
			batches = append(batches, len(batch))
			return nil
		},
	}

	ctx := context.Background()
	for i := 0; i < 250; i++ {
		require.NoError(t, s.Write(ctx, i))
	}
	require.Equal(t, []int{100, 100}, batches)

	require.NoError(t, s.Close(ctx))
	require.Equal(t, []int{100, 100, 50}, batches)
	require.Equal(t, 250, s.Count())
	require.Equal(t, 250, strings.Count(buf.String(), "\n"))
}

func TestSinkWithoutStore(t *testing.T) {
	var buf bytes.Buffer
	s := &sink[string]{writer: output.New[string](&buf, true, "posts")}
	require.NoError(t, s.Write(context.Background(), "a"))
	require.NoError(t, s.Close(context.Background()))
	require.Contains(t, buf.String(), `"posts": [`)
}
