package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("youtube", NewScopedAPI("comments", rec))

	scoped.ReportBroken("executor.execute", "boom")
	scoped.ReportWarning("normalizer.normalize", 1, 2)
	scoped.ReportDebug("seed")
	scoped.ReportCount("comments", 3)

	broken := rec.Reports("broken")
	require.Len(t, broken, 1)
	require.Equal(t, "comments: youtube: executor.execute", broken[0].ID)
	require.Equal(t, []any{"boom"}, broken[0].Params)

	warnings := rec.Reports("warning")
	require.Len(t, warnings, 1)
	require.Equal(t, []any{1, 2}, warnings[0].Params)

	require.Equal(t, "comments: youtube: seed", rec.Reports("debug")[0].ID)
	require.Equal(t, []any{int64(3)}, rec.Reports("count")[0].Params)
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
