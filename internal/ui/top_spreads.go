package ui

import (
	"fmt"
	"sort"

	"github.com/britej3/Furocombo-V2/internal/metrics"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TopSpreadsView displays the pairs with the widest observed spreads.
type TopSpreadsView struct {
	table *tview.Table
}

// NewTopSpreadsView creates a new top spreads view.
func NewTopSpreadsView() *TopSpreadsView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)

	table.SetTitle(" Top Spreads ").SetBorder(true)

	headers := []string{"Pair", "Best", "Last", "Hits"}
	for col, header := range headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		table.SetCell(0, col, cell)
	}

	return &TopSpreadsView{
		table: table,
	}
}

// Widget returns the tview primitive.
func (v *TopSpreadsView) Widget() tview.Primitive {
	return v.table
}

// Update refreshes the top spreads display.
func (v *TopSpreadsView) Update(snapshot metrics.Snapshot) {
	v.table.Clear()

	headers := []string{"Pair", "Best", "Last", "Hits"}
	for col, header := range headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		v.table.SetCell(0, col, cell)
	}

	pairs := make([]*metrics.PairStats, 0, len(snapshot.PairStats))
	for _, stats := range snapshot.PairStats {
		pairs = append(pairs, stats)
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].BestSpreadPct > pairs[j].BestSpreadPct
	})

	limit := 10
	if len(pairs) < limit {
		limit = len(pairs)
	}

	if limit == 0 {
		cell := tview.NewTableCell("No detections yet...").
			SetAlign(tview.AlignCenter).
			SetExpansion(1)
		v.table.SetCell(1, 0, cell)
		return
	}

	for i, stats := range pairs[:limit] {
		row := i + 1

		cell := tview.NewTableCell(stats.PairID).SetAlign(tview.AlignLeft)
		v.table.SetCell(row, 0, cell)

		cell = tview.NewTableCell(fmt.Sprintf("%.2f%%", stats.BestSpreadPct)).
			SetAlign(tview.AlignRight).
			SetTextColor(tcell.ColorGreen)
		v.table.SetCell(row, 1, cell)

		cell = tview.NewTableCell(fmt.Sprintf("%.2f%%", stats.LastSpreadPct)).
			SetAlign(tview.AlignRight)
		v.table.SetCell(row, 2, cell)

		cell = tview.NewTableCell(fmt.Sprintf("%d", stats.Opportunities)).
			SetAlign(tview.AlignRight)
		v.table.SetCell(row, 3, cell)
	}
}
