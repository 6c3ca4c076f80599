// Package store provides the in-memory price cache and the sqlite
// opportunity history.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/britej3/Furocombo-V2/internal/market"
	"github.com/shopspring/decimal"
)

// Metric identifies which value a cache entry holds for a pair.
type Metric int

const (
	// MetricPrice is the last quoted price of the pair
	MetricPrice Metric = iota
	// MetricLiquidity is the last known USD liquidity of the pair
	MetricLiquidity
)

// String renders the metric the way cache keys are logged ("-liq" suffix).
func (m Metric) String() string {
	if m == MetricLiquidity {
		return "liq"
	}
	return "price"
}

// Key identifies one cached value: a pair identity plus a metric kind.
type Key struct {
	// Pair is the pair identity (e.g. "WETH/USDC")
	Pair string

	// Metric is the value kind stored under this key
	Metric Metric
}

// PriceKey returns the price cache key for a base/quote pair.
func PriceKey(base, quote string) Key {
	return Key{Pair: fmt.Sprintf("%s/%s", base, quote), Metric: MetricPrice}
}

// LiquidityKey returns the liquidity cache key for a base/quote pair.
func LiquidityKey(base, quote string) Key {
	return Key{Pair: fmt.Sprintf("%s/%s", base, quote), Metric: MetricLiquidity}
}

// CachedPrice is a cached value with its capture timestamp and source label.
type CachedPrice struct {
	Value     decimal.Decimal
	Timestamp time.Time
	Source    string
}

// StaleAt reports whether the entry is older than maxAge as of now.
// An entry exactly maxAge old is not stale.
func (c CachedPrice) StaleAt(now time.Time, maxAge time.Duration) bool {
	return now.Sub(c.Timestamp) > maxAge
}

// Stale reports whether the entry is older than maxAge.
func (c CachedPrice) Stale(maxAge time.Duration) bool {
	return c.StaleAt(time.Now(), maxAge)
}

// PriceCache holds the last-known value per pair key and the most recent
// full pair-list snapshot. Safe for concurrent use: readers share the lock,
// the refresh writer replaces everything under one write lock so no reader
// ever observes a half-updated snapshot.
type PriceCache struct {
	mu      sync.RWMutex
	entries map[Key]CachedPrice
	pairs   []market.TradingPair
}

// NewPriceCache creates an empty PriceCache.
func NewPriceCache() *PriceCache {
	return &PriceCache{
		entries: make(map[Key]CachedPrice),
	}
}

// Get returns the cached entry for key, if present. Staleness is the
// caller's concern.
func (c *PriceCache) Get(key Key) (CachedPrice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	return entry, ok
}

// Snapshot returns a copy of the most recent pair-list snapshot.
func (c *PriceCache) Snapshot() []market.TradingPair {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pairs := make([]market.TradingPair, len(c.pairs))
	copy(pairs, c.pairs)
	return pairs
}

// Len returns the number of cached entries.
func (c *PriceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// SetSnapshot replaces only the pair-list snapshot. Used by the lazy
// warm-up path, which does not rebuild per-pair entries.
func (c *PriceCache) SetSnapshot(pairs []market.TradingPair) {
	copied := make([]market.TradingPair, len(pairs))
	copy(copied, pairs)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pairs = copied
}

// Replace atomically swaps in a new snapshot and rebuilds the price and
// liquidity entry for every pair, all timestamped at replacement time.
func (c *PriceCache) Replace(pairs []market.TradingPair, source string) {
	copied := make([]market.TradingPair, len(pairs))
	copy(copied, pairs)

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pairs = copied
	for _, pair := range copied {
		label := fmt.Sprintf("%s - %s", source, pair.Exchange.Name)

		c.entries[PriceKey(pair.Base.Symbol, pair.Quote.Symbol)] = CachedPrice{
			Value:     pair.Price,
			Timestamp: now,
			Source:    label,
		}
		c.entries[LiquidityKey(pair.Base.Symbol, pair.Quote.Symbol)] = CachedPrice{
			Value:     pair.LiquidityUSD,
			Timestamp: now,
			Source:    label,
		}
	}
}
