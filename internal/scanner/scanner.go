// Package scanner detects cross-exchange price divergence in a pair snapshot.
package scanner

import (
	"time"

	"github.com/britej3/Furocombo-V2/internal/config"
	"github.com/britej3/Furocombo-V2/internal/market"
	"github.com/shopspring/decimal"
)

// Opportunity is a detected price divergence for one pair identity.
// Position sizing, gas cost and net profit are left to a later phase.
type Opportunity struct {
	// PairID is the pair identity (e.g. "METIS/USDC")
	PairID string `json:"pair_id"`

	// SpreadPct is the relative spread between the extremes, in percent
	SpreadPct decimal.Decimal `json:"spread_pct"`

	// LowExchange and LowPrice are the cheapest listing
	LowExchange string          `json:"low_exchange"`
	LowPrice    decimal.Decimal `json:"low_price"`

	// HighExchange and HighPrice are the most expensive listing
	HighExchange string          `json:"high_exchange"`
	HighPrice    decimal.Decimal `json:"high_price"`

	// DetectedAt is when the divergence was observed
	DetectedAt time.Time `json:"detected_at"`
}

// Scanner groups a snapshot by pair identity and flags spreads above a
// fixed percentage threshold.
type Scanner struct {
	threshold decimal.Decimal
}

// NewScanner creates a Scanner with the configured spread threshold.
func NewScanner(cfg *config.Config) *Scanner {
	return &Scanner{
		threshold: decimal.NewFromFloat(cfg.SpreadThresholdPct),
	}
}

// Scan inspects the snapshot and returns every divergence above the
// threshold. Pairs are grouped by symbol identity: two tokens sharing a
// symbol across exchanges are treated as the same instrument.
func (s *Scanner) Scan(pairs []market.TradingPair) []Opportunity {
	groups := make(map[string][]market.TradingPair)
	order := make([]string, 0, len(pairs))

	for _, pair := range pairs {
		id := pair.PairID()
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], pair)
	}

	var opportunities []Opportunity
	now := time.Now()

	for _, id := range order {
		listings := groups[id]
		if len(listings) < 2 {
			// A single listing has nothing to arbitrage against
			continue
		}

		low := listings[0]
		high := listings[0]
		for _, listing := range listings[1:] {
			if listing.Price.LessThan(low.Price) {
				low = listing
			}
			if listing.Price.GreaterThan(high.Price) {
				high = listing
			}
		}

		if !low.Price.IsPositive() {
			continue
		}

		spread := high.Price.Sub(low.Price).Div(low.Price).Mul(decimal.NewFromInt(100))
		if spread.GreaterThan(s.threshold) {
			opportunities = append(opportunities, Opportunity{
				PairID:       id,
				SpreadPct:    spread,
				LowExchange:  low.Exchange.Name,
				LowPrice:     low.Price,
				HighExchange: high.Exchange.Name,
				HighPrice:    high.Price,
				DetectedAt:   now,
			})
		}
	}

	return opportunities
}
