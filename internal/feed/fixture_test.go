package feed

import (
	"context"
	"testing"
)

func TestFixtureFeedPairs(t *testing.T) {
	f := NewFixtureFeed()

	pairs := f.TradingPairs(context.Background())
	if len(pairs) == 0 {
		t.Fatal("expected fixture pairs")
	}

	found := false
	for _, p := range pairs {
		if p.Base.Symbol == "WETH" {
			found = true
		}
	}
	if !found {
		t.Error("expected a WETH pair in the fixture set")
	}
}

func TestFixtureFeedPrice(t *testing.T) {
	f := NewFixtureFeed()

	price, ok := f.Price(context.Background(), "WETH", "USDC")
	if !ok {
		t.Fatal("expected WETH/USDC price")
	}
	if !price.IsPositive() {
		t.Errorf("expected positive price, got %s", price)
	}

	if _, ok := f.Price(context.Background(), "DOGE", "USDC"); ok {
		t.Error("expected no price for unknown pair")
	}
}

func TestFixtureFeedRefresh(t *testing.T) {
	f := NewFixtureFeed()
	if err := f.Refresh(context.Background()); err != nil {
		t.Errorf("fixture refresh must be a no-op, got error: %v", err)
	}
}
