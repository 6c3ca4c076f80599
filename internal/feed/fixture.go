package feed

import (
	"context"
	"log/slog"

	"github.com/britej3/Furocombo-V2/internal/market"
	"github.com/shopspring/decimal"
)

// FixtureFeed is a deterministic in-memory feed for testing and development.
type FixtureFeed struct {
	pairs []market.TradingPair
}

// NewFixtureFeed creates a feed with a fixed set of Metis pairs.
func NewFixtureFeed() *FixtureFeed {
	weth := market.NewToken("WETH", "Wrapped Ether", 18, "0x420000000000000000000000000000000000000a")
	usdc := market.NewToken("USDC", "USD Coin", 6, "0xEA32A96608495e54156Ae48931A7c20f0dcc1a21")
	metis := market.NewToken("METIS", "Metis Token", 18, "0xDeadDeAddeAddEAddeadDEaDDEAdDeaDDeAD0000")

	netswap := market.NewExchange("netswap", "Metis", "0x1E876cCe41B7b844FDe09E38Fa1cf00f213bFf56")
	tethys := market.NewExchange("tethys", "Metis", "0x81b9FA50D5f5155Ee17817C21702C3AE4780AD09")

	pairs := []market.TradingPair{
		market.NewTradingPair(weth, usdc, netswap,
			decimal.NewFromInt(1850),
			decimal.NewFromInt(500000),
			decimal.NewFromInt(270),
			decimal.NewFromInt(500000)),
		market.NewTradingPair(weth, usdc, tethys,
			decimal.NewFromInt(1852),
			decimal.NewFromInt(350000),
			decimal.NewFromInt(189),
			decimal.NewFromInt(350000)),
		market.NewTradingPair(metis, usdc, netswap,
			decimal.NewFromInt(85),
			decimal.NewFromInt(200000),
			decimal.NewFromInt(2353),
			decimal.NewFromInt(200000)),
		market.NewTradingPair(metis, usdc, tethys,
			decimal.NewFromInt(84),
			decimal.NewFromInt(150000),
			decimal.NewFromInt(1786),
			decimal.NewFromInt(150000)),
	}

	return &FixtureFeed{pairs: pairs}
}

// TradingPairs returns the fixture pairs.
func (f *FixtureFeed) TradingPairs(_ context.Context) []market.TradingPair {
	pairs := make([]market.TradingPair, len(f.pairs))
	copy(pairs, f.pairs)
	return pairs
}

// Price returns the price of the first fixture pair matching base/quote.
func (f *FixtureFeed) Price(_ context.Context, base, quote string) (decimal.Decimal, bool) {
	for _, p := range f.pairs {
		if p.Base.Symbol == base && p.Quote.Symbol == quote {
			return p.Price, true
		}
	}
	return decimal.Decimal{}, false
}

// Liquidity returns the liquidity of the first fixture pair matching base/quote.
func (f *FixtureFeed) Liquidity(_ context.Context, base, quote string) (decimal.Decimal, bool) {
	for _, p := range f.pairs {
		if p.Base.Symbol == base && p.Quote.Symbol == quote {
			return p.LiquidityUSD, true
		}
	}
	return decimal.Decimal{}, false
}

// Refresh is a no-op for the fixture feed.
func (f *FixtureFeed) Refresh(_ context.Context) error {
	slog.Debug("fixture_feed_refresh_noop")
	return nil
}
