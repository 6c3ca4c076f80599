package store

import (
	"testing"
	"time"

	"github.com/britej3/Furocombo-V2/internal/market"
	"github.com/shopspring/decimal"
)

func testPair(base, quote, exchange string, price int64) market.TradingPair {
	return market.NewTradingPair(
		market.NewToken(base, base, 18, "0x1"),
		market.NewToken(quote, quote, 18, "0x2"),
		market.NewExchange(exchange, "Metis", "0x3"),
		decimal.NewFromInt(price),
		decimal.NewFromInt(500000),
		decimal.NewFromInt(100),
		decimal.NewFromInt(100),
	)
}

func TestStaleness(t *testing.T) {
	now := time.Now()
	entry := CachedPrice{
		Value:     decimal.NewFromInt(1800),
		Timestamp: now.Add(-120 * time.Second),
		Source:    "test",
	}

	if !entry.StaleAt(now, 60*time.Second) {
		t.Error("120s old entry should be stale under 60s max age")
	}
	if entry.StaleAt(now, 180*time.Second) {
		t.Error("120s old entry should not be stale under 180s max age")
	}

	// Boundary: exactly max age old is not stale (strict >)
	if entry.StaleAt(now, 120*time.Second) {
		t.Error("entry exactly max age old must not be stale")
	}
}

func TestReplaceRebuildsEntries(t *testing.T) {
	cache := NewPriceCache()

	cache.Replace([]market.TradingPair{
		testPair("WETH", "USDC", "netswap", 1850),
	}, "DEX Screener")

	price, ok := cache.Get(PriceKey("WETH", "USDC"))
	if !ok {
		t.Fatal("expected price entry after Replace")
	}
	if !price.Value.Equal(decimal.NewFromInt(1850)) {
		t.Errorf("expected price 1850, got %s", price.Value)
	}
	if price.Source != "DEX Screener - netswap" {
		t.Errorf("unexpected source label: %s", price.Source)
	}

	liq, ok := cache.Get(LiquidityKey("WETH", "USDC"))
	if !ok {
		t.Fatal("expected liquidity entry after Replace")
	}
	if !liq.Value.Equal(decimal.NewFromInt(500000)) {
		t.Errorf("expected liquidity 500000, got %s", liq.Value)
	}

	if len(cache.Snapshot()) != 1 {
		t.Errorf("expected 1 pair in snapshot, got %d", len(cache.Snapshot()))
	}

	// Replace overwrites the prior snapshot wholesale
	cache.Replace([]market.TradingPair{
		testPair("METIS", "USDC", "tethys", 85),
	}, "DEX Screener")

	snapshot := cache.Snapshot()
	if len(snapshot) != 1 || snapshot[0].PairID() != "METIS/USDC" {
		t.Errorf("expected snapshot replaced with METIS/USDC, got %v", snapshot)
	}
}

func TestKeySeparation(t *testing.T) {
	// Price and liquidity entries for the same pair must not collide
	if PriceKey("WETH", "USDC") == LiquidityKey("WETH", "USDC") {
		t.Error("price and liquidity keys must differ")
	}
	if PriceKey("WETH", "USDC").Pair != "WETH/USDC" {
		t.Errorf("unexpected pair identity: %s", PriceKey("WETH", "USDC").Pair)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	cache := NewPriceCache()
	cache.SetSnapshot([]market.TradingPair{
		testPair("WETH", "USDC", "netswap", 1850),
	})

	snapshot := cache.Snapshot()
	snapshot[0] = testPair("FAKE", "FAKE", "fake", 1)

	if cache.Snapshot()[0].PairID() != "WETH/USDC" {
		t.Error("mutating a snapshot must not affect the cache")
	}
}
