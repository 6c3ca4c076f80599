package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestOpportunityLog(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "opportunities.db")

	log, err := OpenOpportunityLog(dbPath)
	if err != nil {
		t.Fatalf("failed to open log: %v", err)
	}
	defer log.Close()

	first := OpportunityRecord{
		PairID:       "METIS/USDC",
		SpreadPct:    decimal.RequireFromString("6.25"),
		LowExchange:  "tethys",
		LowPrice:     decimal.NewFromInt(80),
		HighExchange: "netswap",
		HighPrice:    decimal.NewFromInt(85),
		DetectedAt:   time.Now().Add(-time.Minute),
	}
	second := OpportunityRecord{
		PairID:       "WETH/USDC",
		SpreadPct:    decimal.RequireFromString("0.9"),
		LowExchange:  "netswap",
		LowPrice:     decimal.NewFromInt(1840),
		HighExchange: "tethys",
		HighPrice:    decimal.NewFromInt(1857),
		DetectedAt:   time.Now(),
	}

	if err := log.Insert(first); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := log.Insert(second); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	count, err := log.Count()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 records, got %d", count)
	}

	records, err := log.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Newest first
	if records[0].PairID != "WETH/USDC" {
		t.Errorf("expected WETH/USDC first, got %s", records[0].PairID)
	}
	if !records[1].SpreadPct.Equal(decimal.RequireFromString("6.25")) {
		t.Errorf("expected spread 6.25, got %s", records[1].SpreadPct)
	}
	if records[1].LowExchange != "tethys" || records[1].HighExchange != "netswap" {
		t.Errorf("unexpected exchanges: %s / %s", records[1].LowExchange, records[1].HighExchange)
	}
}
