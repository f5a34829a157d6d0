package youtube

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPageCacheKey(t *testing.T) {
	require.Equal(
		t,
		pageCacheKey("https://www.youtube.com/watch?v=dQw4w9WgXcQ&a=1"),
		pageCacheKey("https://WWW.YouTube.com/watch?a=1&v=dQw4w9WgXcQ#comments"),
	)
	require.NotEqual(
		t,
		pageCacheKey("https://www.youtube.com/watch?v=dQw4w9WgXcQ"),
		pageCacheKey("https://www.youtube.com/watch?v=aaaaaaaaaaa"),
	)
}

func TestPageCache(t *testing.T) {
	disabled := newPageCache(0)
	disabled.add("https://www.youtube.com/", "<html>")
	_, ok := disabled.get("https://www.youtube.com/")
	require.False(t, ok)

	cache := newPageCache(time.Minute)
	cache.add("https://www.youtube.com/watch?v=dQw4w9WgXcQ", "<html>")
	html, ok := cache.get("https://www.youtube.com/watch?v=dQw4w9WgXcQ#x")
	require.True(t, ok)
	require.Equal(t, "<html>", html)
}
