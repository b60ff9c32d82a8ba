package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gxlcyy/TradeLab"
)

// DefaultTTL bounds how long a cached price is served before the source is
// asked again.
const DefaultTTL = 60 * time.Second

type entry struct {
	price     tradelab.Money
	fetchedAt time.Time
}

// Cache memoizes prices from a Source with a per-instance time-to-live, so
// that a burst of metric computations costs at most one source call per
// ticker. Failures are never cached: the next call retries the source.
//
// The cache also forwards the fundamentals calls of the Source, which makes
// it satisfy tradelab.Quoter on its own.
//
// A Cache is safe for use from multiple goroutines; independent instances do
// not interfere.
type Cache struct {
	source Source
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewCache wraps source with a TTL cache. A non-positive ttl falls back to
// DefaultTTL.
func NewCache(source Source, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		source:  source,
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Price returns the ticker's latest close, rounded to two decimal places.
// Within the TTL of a prior successful fetch the cached price is returned
// without consulting the source. A source failure is returned as
// tradelab.ErrPriceUnavailable and leaves the cache untouched.
func (c *Cache) Price(ctx context.Context, ticker string) (tradelab.Money, error) {
	ticker = tradelab.CanonicalTicker(ticker)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if cached, ok := c.entries[ticker]; ok && now.Sub(cached.fetchedAt) < c.ttl {
		return cached.price, nil
	}

	raw, err := c.source.LatestClose(ctx, ticker)
	if err != nil {
		return tradelab.Money{}, fmt.Errorf("fetching %s: %w", ticker, err)
	}
	price := tradelab.M(raw).Round()
	c.entries[ticker] = entry{price: price, fetchedAt: now}
	return price, nil
}

// Invalidate drops the given tickers from the cache, or every entry when
// called without arguments. It takes effect immediately for subsequent
// Price calls.
func (c *Cache) Invalidate(tickers ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(tickers) == 0 {
		c.entries = make(map[string]entry)
		return
	}
	for _, ticker := range tickers {
		delete(c.entries, tradelab.CanonicalTicker(ticker))
	}
}

// TrailingPE forwards to the source; fundamentals are not cached.
func (c *Cache) TrailingPE(ctx context.Context, ticker string) (float64, bool) {
	return c.source.TrailingPE(ctx, tradelab.CanonicalTicker(ticker))
}

// Sector forwards to the source.
func (c *Cache) Sector(ctx context.Context, ticker string) string {
	return c.source.Sector(ctx, tradelab.CanonicalTicker(ticker))
}

// Beta forwards to the source.
func (c *Cache) Beta(ctx context.Context, ticker string) (float64, bool) {
	return c.source.Beta(ctx, tradelab.CanonicalTicker(ticker))
}

// DailyReturns forwards to the source.
func (c *Cache) DailyReturns(ctx context.Context, ticker string) ([]float64, error) {
	return c.source.DailyReturns(ctx, tradelab.CanonicalTicker(ticker))
}

var _ tradelab.Quoter = (*Cache)(nil)
