// Package feed provides price feed implementations for the arbitrage scanner.
package feed

import (
	"context"

	"github.com/britej3/Furocombo-V2/internal/market"
	"github.com/shopspring/decimal"
)

// PriceFeed is the contract any price data provider satisfies.
type PriceFeed interface {
	// TradingPairs returns the most recently cached pair snapshot. If no
	// snapshot exists yet it fetches one; otherwise callers must Refresh
	// explicitly to force an update.
	TradingPairs(ctx context.Context) []market.TradingPair

	// Price returns the cached price for base/quote if present and fresh.
	Price(ctx context.Context, base, quote string) (decimal.Decimal, bool)

	// Liquidity returns the cached USD liquidity for base/quote if present.
	Liquidity(ctx context.Context, base, quote string) (decimal.Decimal, bool)

	// Refresh performs a full fetch-and-replace cycle. The replace is
	// all-or-nothing: a failed refresh leaves the previous snapshot intact.
	Refresh(ctx context.Context) error
}
