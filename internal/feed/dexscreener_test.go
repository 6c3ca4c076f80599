package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/britej3/Furocombo-V2/internal/config"
	"github.com/britej3/Furocombo-V2/internal/store"
	"github.com/shopspring/decimal"
)

// searchResponse is a canned DEX Screener payload covering the filtering
// and rejection rules: wrong chain, disallowed dex, missing price, zero
// price, thin liquidity, and two valid Metis pairs.
const searchResponse = `{
	"pairs": [
		{
			"chainId": "metis", "dexId": "netswap", "pairAddress": "0xaaa",
			"baseToken": {"address": "0x1", "name": "Wrapped Ether", "symbol": "WETH"},
			"quoteToken": {"address": "0x2", "name": "USD Coin", "symbol": "USDC"},
			"priceUsd": "1850.25",
			"liquidity": {"usd": 500000, "base": 270, "quote": 500000}
		},
		{
			"chainId": "metis", "dexId": "tethys", "pairAddress": "0xbbb",
			"baseToken": {"address": "0x1", "name": "Wrapped Ether", "symbol": "WETHX"},
			"quoteToken": {"address": "0x2", "name": "USD Coin", "symbol": "USDC"},
			"priceNative": "1852",
			"liquidity": {"usd": 350000, "base": 189, "quote": 350000}
		},
		{
			"chainId": "ethereum", "dexId": "netswap", "pairAddress": "0xccc",
			"baseToken": {"address": "0x3", "name": "Wrong Chain", "symbol": "WRONG"},
			"quoteToken": {"address": "0x2", "name": "USD Coin", "symbol": "USDC"},
			"priceUsd": "10",
			"liquidity": {"usd": 900000}
		},
		{
			"chainId": "metis", "dexId": "sushiswap", "pairAddress": "0xddd",
			"baseToken": {"address": "0x4", "name": "Wrong Dex", "symbol": "WDEX"},
			"quoteToken": {"address": "0x2", "name": "USD Coin", "symbol": "USDC"},
			"priceUsd": "10",
			"liquidity": {"usd": 900000}
		},
		{
			"chainId": "metis", "dexId": "netswap", "pairAddress": "0xeee",
			"baseToken": {"address": "0x5", "name": "No Price", "symbol": "NOPX"},
			"quoteToken": {"address": "0x2", "name": "USD Coin", "symbol": "USDC"},
			"liquidity": {"usd": 900000}
		},
		{
			"chainId": "metis", "dexId": "netswap", "pairAddress": "0xfff",
			"baseToken": {"address": "0x6", "name": "Zero Price", "symbol": "ZERO"},
			"quoteToken": {"address": "0x2", "name": "USD Coin", "symbol": "USDC"},
			"priceUsd": "0",
			"liquidity": {"usd": 900000}
		},
		{
			"chainId": "metis", "dexId": "netswap", "pairAddress": "0x999",
			"baseToken": {"address": "0x7", "name": "Thin Pool", "symbol": "THIN"},
			"quoteToken": {"address": "0x2", "name": "USD Coin", "symbol": "USDC"},
			"priceUsd": "5",
			"liquidity": {"usd": 999}
		}
	]
}`

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		DexScreenerURL:     baseURL,
		SearchTerms:        []string{"metis", "netswap", "tethys"},
		RequestTimeout:     5 * time.Second,
		ChainID:            "metis",
		AllowedDexes:       []string{"netswap", "tethys"},
		MinLiquidityUSD:    1000,
		SpreadThresholdPct: 0.5,
		PriceMaxAge:        60 * time.Second,
	}
}

func newSearchServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, searchResponse)
	}))
}

func TestRefreshFiltersAndConverts(t *testing.T) {
	server := newSearchServer(t)
	defer server.Close()

	cache := store.NewPriceCache()
	f := NewDexScreenerFeed(testConfig(server.URL), cache)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	pairs := f.TradingPairs(context.Background())
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs after filtering, got %d: %v", len(pairs), pairs)
	}

	byFullID := make(map[string]bool)
	for _, p := range pairs {
		byFullID[p.FullID()] = true
	}
	if !byFullID["netswap:WETH/USDC"] {
		t.Error("expected netswap:WETH/USDC in snapshot")
	}
	if !byFullID["tethys:WETHX/USDC"] {
		t.Error("expected tethys:WETHX/USDC (native price fallback) in snapshot")
	}

	// Fresh entry within the 60s window is returned
	price, ok := f.Price(context.Background(), "WETH", "USDC")
	if !ok {
		t.Fatal("expected fresh price for WETH/USDC")
	}
	if !price.Equal(decimal.RequireFromString("1850.25")) {
		t.Errorf("expected price 1850.25, got %s", price)
	}

	liq, ok := f.Liquidity(context.Background(), "WETH", "USDC")
	if !ok || !liq.Equal(decimal.NewFromInt(500000)) {
		t.Errorf("expected liquidity 500000, got %s (ok=%v)", liq, ok)
	}

	if _, ok := f.Price(context.Background(), "THIN", "USDC"); ok {
		t.Error("rejected pair must not be cached")
	}
}

func TestRefreshDeduplicatesAcrossTerms(t *testing.T) {
	// The same payload is served for all three search terms; each FullID
	// must still appear exactly once, first seen wins.
	server := newSearchServer(t)
	defer server.Close()

	cache := store.NewPriceCache()
	f := NewDexScreenerFeed(testConfig(server.URL), cache)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	counts := make(map[string]int)
	for _, p := range f.TradingPairs(context.Background()) {
		counts[p.FullID()]++
	}
	for fullID, n := range counts {
		if n != 1 {
			t.Errorf("expected %s exactly once, got %d", fullID, n)
		}
	}
}

func TestRefreshIdempotent(t *testing.T) {
	server := newSearchServer(t)
	defer server.Close()

	cache := store.NewPriceCache()
	f := NewDexScreenerFeed(testConfig(server.URL), cache)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	first := f.TradingPairs(context.Background())

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	second := f.TradingPairs(context.Background())

	if len(first) != len(second) {
		t.Fatalf("expected identical snapshots, got %d then %d pairs", len(first), len(second))
	}
	for i := range first {
		if first[i].FullID() != second[i].FullID() {
			t.Errorf("snapshot order changed at %d: %s vs %s",
				i, first[i].FullID(), second[i].FullID())
		}
	}
}

func TestPerTermFailuresAreNonFatal(t *testing.T) {
	// All terms return 500: refresh succeeds with an empty snapshot
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	cache := store.NewPriceCache()
	f := NewDexScreenerFeed(testConfig(server.URL), cache)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("per-term failures must not fail refresh, got: %v", err)
	}
	if got := len(cache.Snapshot()); got != 0 {
		t.Errorf("expected empty snapshot, got %d pairs", got)
	}
}

func TestBrokenClientPreservesCache(t *testing.T) {
	server := newSearchServer(t)
	defer server.Close()

	cache := store.NewPriceCache()
	good := NewDexScreenerFeed(testConfig(server.URL), cache)
	if err := good.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	before := cache.Snapshot()
	if len(before) == 0 {
		t.Fatal("expected a populated cache before the failure")
	}

	// A malformed base URL means requests cannot be constructed at all:
	// Refresh must error and the prior snapshot must survive.
	bad := NewDexScreenerFeed(testConfig("://not-a-url"), cache)
	if err := bad.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail with a broken client")
	}

	after := bad.TradingPairs(context.Background())
	if len(after) != len(before) {
		t.Fatalf("cache changed after failed refresh: %d vs %d pairs", len(after), len(before))
	}
}
