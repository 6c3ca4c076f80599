package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/britej3/Furocombo-V2/internal/config"
	"github.com/britej3/Furocombo-V2/internal/market"
	"github.com/britej3/Furocombo-V2/internal/store"
	"github.com/shopspring/decimal"
)

// sourceLabel identifies this feed in cache entries.
const sourceLabel = "DEX Screener"

// dexScreenerResponse is the envelope returned by the search endpoint.
type dexScreenerResponse struct {
	Pairs []dexScreenerPair `json:"pairs"`
}

// dexScreenerPair is one raw pair record from DEX Screener.
type dexScreenerPair struct {
	ChainID     string             `json:"chainId"`
	DexID       string             `json:"dexId"`
	PairAddress string             `json:"pairAddress"`
	BaseToken   dexScreenerToken   `json:"baseToken"`
	QuoteToken  dexScreenerToken   `json:"quoteToken"`
	PriceUSD    string             `json:"priceUsd"`
	PriceNative string             `json:"priceNative"`
	Liquidity   *dexScreenerLiquid `json:"liquidity"`
}

type dexScreenerToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type dexScreenerLiquid struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// DexScreenerFeed fetches Metis trading pairs from the DEX Screener search
// API and is the sole writer to its price cache.
type DexScreenerFeed struct {
	cfg          *config.Config
	client       *http.Client
	cache        *store.PriceCache
	minLiquidity decimal.Decimal
}

// NewDexScreenerFeed creates a feed backed by the given cache. The cache is
// shared with downstream readers; only the feed writes to it.
func NewDexScreenerFeed(cfg *config.Config, cache *store.PriceCache) *DexScreenerFeed {
	return &DexScreenerFeed{
		cfg:          cfg,
		client:       &http.Client{Timeout: cfg.RequestTimeout},
		cache:        cache,
		minLiquidity: decimal.NewFromFloat(cfg.MinLiquidityUSD),
	}
}

// TradingPairs returns the cached snapshot, fetching once if the cache is
// still empty. Fetch failures on the warm-up path are logged, not returned.
func (f *DexScreenerFeed) TradingPairs(ctx context.Context) []market.TradingPair {
	if pairs := f.cache.Snapshot(); len(pairs) > 0 {
		return pairs
	}

	pairs, err := f.fetchPairs(ctx)
	if err != nil {
		slog.Error("pair_fetch_failed", "error", err)
		return nil
	}

	f.cache.SetSnapshot(pairs)
	return pairs
}

// Price returns the cached price for base/quote, but only while the entry
// is within the configured freshness window. An absent or stale entry
// returns false; the caller is expected to Refresh.
func (f *DexScreenerFeed) Price(_ context.Context, base, quote string) (decimal.Decimal, bool) {
	entry, ok := f.cache.Get(store.PriceKey(base, quote))
	if !ok || entry.Stale(f.cfg.PriceMaxAge) {
		return decimal.Decimal{}, false
	}
	return entry.Value, true
}

// Liquidity returns the cached USD liquidity for base/quote. Unlike Price
// it applies no staleness check.
func (f *DexScreenerFeed) Liquidity(_ context.Context, base, quote string) (decimal.Decimal, bool) {
	entry, ok := f.cache.Get(store.LiquidityKey(base, quote))
	if !ok {
		return decimal.Decimal{}, false
	}
	return entry.Value, true
}

// Refresh performs a full fetch-and-replace cycle. Per-term network and
// decode failures are skipped; an error is returned only when the fetch
// itself cannot run, in which case the prior cache contents are kept.
func (f *DexScreenerFeed) Refresh(ctx context.Context) error {
	slog.Debug("refreshing_price_feed")

	pairs, err := f.fetchPairs(ctx)
	if err != nil {
		return err
	}

	f.cache.Replace(pairs, sourceLabel)
	slog.Info("price_feed_refreshed", "pairs", len(pairs), "entries", f.cache.Len())
	return nil
}

// fetchPairs queries the search endpoint once per configured term,
// filters to the target chain and allow-listed exchanges, converts and
// deduplicates. Each term is best-effort.
func (f *DexScreenerFeed) fetchPairs(ctx context.Context) ([]market.TradingPair, error) {
	var all []market.TradingPair
	seen := make(map[string]bool)

	for _, term := range f.cfg.SearchTerms {
		endpoint := fmt.Sprintf("%s/search?q=%s", f.cfg.DexScreenerURL, url.QueryEscape(term))
		slog.Debug("fetching_pairs", "url", endpoint)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			// Request construction failing means the feed itself is
			// misconfigured, not a transient per-term problem.
			return nil, fmt.Errorf("create request failed: %w", err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			slog.Warn("term_fetch_failed", "term", term, "error", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			slog.Warn("term_fetch_bad_status", "term", term, "status", resp.StatusCode)
			resp.Body.Close()
			continue
		}

		var data dexScreenerResponse
		err = json.NewDecoder(resp.Body).Decode(&data)
		resp.Body.Close()
		if err != nil {
			slog.Warn("term_decode_failed", "term", term, "error", err)
			continue
		}

		slog.Debug("term_pairs_found", "term", term, "count", len(data.Pairs))

		for _, raw := range data.Pairs {
			if raw.ChainID != f.cfg.ChainID {
				continue
			}
			if !f.cfg.DexAllowed(raw.DexID) {
				continue
			}

			pair, err := f.convertPair(raw)
			if err != nil {
				// Expected high-frequency filtering, keep it quiet
				slog.Debug("pair_skipped", "error", err)
				continue
			}

			// Later duplicates from subsequent search terms are dropped
			if seen[pair.FullID()] {
				continue
			}
			seen[pair.FullID()] = true
			all = append(all, pair)
		}
	}

	slog.Info("pairs_fetched", "total", len(all))
	return all, nil
}

// convertPair validates one raw record and maps it into the domain model.
func (f *DexScreenerFeed) convertPair(raw dexScreenerPair) (market.TradingPair, error) {
	// Prefer the USD price, fall back to native units
	priceStr := raw.PriceUSD
	if priceStr == "" {
		priceStr = raw.PriceNative
	}
	if priceStr == "" {
		return market.TradingPair{}, fmt.Errorf("no price data")
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		price = decimal.Zero
	}
	if !price.IsPositive() {
		return market.TradingPair{}, fmt.Errorf("invalid price: %s", priceStr)
	}

	liquidityUSD := decimal.Zero
	reserveBase := decimal.Zero
	reserveQuote := decimal.Zero
	if raw.Liquidity != nil {
		liquidityUSD = decimal.NewFromFloat(raw.Liquidity.USD)
		reserveBase = decimal.NewFromFloat(raw.Liquidity.Base)
		reserveQuote = decimal.NewFromFloat(raw.Liquidity.Quote)
	}

	if liquidityUSD.LessThan(f.minLiquidity) {
		return market.TradingPair{}, fmt.Errorf("liquidity too low: $%s", liquidityUSD)
	}

	// Decimal precision defaults to 18 until a token metadata lookup exists
	base := market.NewToken(raw.BaseToken.Symbol, raw.BaseToken.Name, 18, raw.BaseToken.Address)
	quote := market.NewToken(raw.QuoteToken.Symbol, raw.QuoteToken.Name, 18, raw.QuoteToken.Address)
	exchange := market.NewExchange(raw.DexID, "Metis", raw.PairAddress)

	return market.NewTradingPair(base, quote, exchange,
		price, liquidityUSD, reserveBase, reserveQuote), nil
}
