package ui

import (
	"fmt"

	"github.com/britej3/Furocombo-V2/internal/market"
	"github.com/rivo/tview"
	"github.com/shopspring/decimal"
)

// maxPairRows caps how many pairs the table renders.
const maxPairRows = 20

// PairsTableView displays the current trading pair snapshot.
type PairsTableView struct {
	table        *tview.Table
	minLiquidity decimal.Decimal
}

// NewPairsTableView creates a pairs table that hides listings below the
// given display liquidity floor.
func NewPairsTableView(minLiquidity decimal.Decimal) *PairsTableView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)

	table.SetTitle(" Trading Pairs ").SetBorder(true)

	v := &PairsTableView{
		table:        table,
		minLiquidity: minLiquidity,
	}
	v.setHeader()
	return v
}

// Widget returns the tview primitive.
func (v *PairsTableView) Widget() tview.Primitive {
	return v.table
}

func (v *PairsTableView) setHeader() {
	headers := []string{"Pair", "Exchange", "Price (USD)", "Liquidity (USD)"}
	for col, header := range headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false).
			SetExpansion(1)
		v.table.SetCell(0, col, cell)
	}
}

// Update refreshes the table with a new snapshot.
func (v *PairsTableView) Update(pairs []market.TradingPair) {
	v.table.Clear()
	v.setHeader()

	shown := 0
	for _, pair := range pairs {
		if pair.LiquidityUSD.LessThan(v.minLiquidity) {
			continue
		}
		if shown >= maxPairRows {
			break
		}
		shown++

		price, _ := pair.Price.Round(4).Float64()
		liquidity, _ := pair.LiquidityUSD.Round(2).Float64()

		cells := []string{
			pair.PairID(),
			pair.Exchange.Name,
			fmt.Sprintf("%.4f", price),
			fmt.Sprintf("$%.2f", liquidity),
		}
		for col, text := range cells {
			cell := tview.NewTableCell(text).
				SetAlign(tview.AlignLeft).
				SetExpansion(1)
			v.table.SetCell(shown, col, cell)
		}
	}

	v.table.SetTitle(fmt.Sprintf(" Trading Pairs (%d total, %d shown) ", len(pairs), shown))
}
