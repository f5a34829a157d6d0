package youtube

import (
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const pageCacheSize = 64

// pageCache keeps the html of recently fetched pages so repeated runs over
// the same video skip the page fetch and the consent dance. A nil cache
// stores nothing.
type pageCache struct {
	lru *expirable.LRU[string, string]
}

func newPageCache(ttl time.Duration) *pageCache {
	if ttl <= 0 {
		return nil
	}
	return &pageCache{
		lru: expirable.NewLRU[string, string](pageCacheSize, nil, ttl),
	}
}

func pageCacheKey(pageUrl string) string {
	normalized, err := purell.NormalizeURLString(
		pageUrl,
		purell.FlagsUsuallySafeGreedy|purell.FlagSortQuery|purell.FlagRemoveFragment,
	)
	if err != nil {
		return pageUrl
	}
	return normalized
}

func (c *pageCache) get(pageUrl string) (string, bool) {
	if c == nil {
		return "", false
	}
	return c.lru.Get(pageCacheKey(pageUrl))
}

func (c *pageCache) add(pageUrl, html string) {
	if c == nil {
		return
	}
	c.lru.Add(pageCacheKey(pageUrl), html)
}
