package translate

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedDetector memoizes detection results per exact text. Failures are not
// cached.
type CachedDetector struct {
	next  Detector
	cache *gocache.Cache
}

func NewCachedDetector(next Detector, ttl time.Duration) *CachedDetector {
	return &CachedDetector{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *CachedDetector) Detect(ctx context.Context, text string) (string, error) {
	key := strings.TrimSpace(text)
	if v, ok := c.cache.Get(key); ok {
		return v.(string), nil
	}

	lang, err := c.next.Detect(ctx, text)
	if err != nil {
		return "", err
	}
	c.cache.SetDefault(key, lang)
	return lang, nil
}
