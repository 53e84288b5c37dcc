package crawler

import (
	"context"
	"strconv"
	"time"

	"sjsage522/clienreader/helpers"
	"sjsage522/clienreader/pkg/errors"
	"sjsage522/clienreader/services/cache"
)

// DefaultBlockTime is how long requests stay suspended after the forum rate limits us
const DefaultBlockTime = 500 * time.Second

// BaseCrawler provides page fetching shared by the repository and the link previewer
type BaseCrawler struct {
	Fetcher   Fetcher
	BaseURL   string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
}

// fetchWithCache fetches and parses url unless the forum recently rate limited us.
// A rate-limit response suspends further requests for BlockTime.
func (c *BaseCrawler) fetchWithCache(ctx context.Context, url string) (*Document, error) {
	// Check if the crawler is rate limited
	if c.CacheSvc != nil && c.CacheKey != "" {
		if _, err := c.CacheSvc.Get(c.CacheKey); err == nil {
			return nil, errors.NewRateLimit(c.CacheKey, c.BlockTime)
		}
	}

	body, err := c.Fetcher.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, errors.ErrorTypeRateLimit) && c.CacheSvc != nil && c.CacheKey != "" {
			// Set rate limiting cache
			c.CacheSvc.Set(c.CacheKey, []byte(strconv.Itoa(int(c.BlockTime/time.Second))), c.BlockTime)
		}
		return nil, err
	}

	return Parse(body, c.BaseURL), nil
}

// ResolveURL converts href to an absolute URL on the forum origin
func (c *BaseCrawler) ResolveURL(href string) string {
	return helpers.ResolveURL(c.BaseURL, href)
}
