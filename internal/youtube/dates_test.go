package youtube

import (
	"testing"
	"time"
	"ytcomments/internal/chrono"

	"github.com/stretchr/testify/require"
)

func TestPublishedText(t *testing.T) {
	require.Equal(t, "2 days ago", publishedText("2 days ago (edited)"))
	require.Equal(t, "3 weeks ago", publishedText("3 weeks ago"))
	require.Equal(t, "", publishedText("(edited)"))
}

func TestEpochSeconds(t *testing.T) {
	ts := time.Date(2024, 7, 1, 12, 0, 0, 250_000_000, time.UTC)
	require.Equal(t, float64(ts.Unix())+0.25, epochSeconds(ts))
}

func TestNaturalDateParser(t *testing.T) {
	now := time.Date(2024, 7, 10, 15, 0, 0, 0, time.UTC)
	parse := NaturalDateParser(chrono.FixedTime(now))

	parsed, ok := parse("2 days ago", "en")
	require.True(t, ok)
	require.Equal(t, 2024, parsed.UTC().Year())
	require.Equal(t, time.July, parsed.UTC().Month())
	require.Equal(t, 8, parsed.UTC().Day())

	_, ok = parse("   ", "en")
	require.False(t, ok)
}
