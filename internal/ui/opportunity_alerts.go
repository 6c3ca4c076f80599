package ui

import (
	"fmt"

	"github.com/britej3/Furocombo-V2/internal/scanner"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// OpportunityAlertsView displays detected price divergences, newest first.
type OpportunityAlertsView struct {
	list          *tview.List
	opportunities []scanner.Opportunity
	maxItems      int
}

// NewOpportunityAlertsView creates a new alerts view.
func NewOpportunityAlertsView() *OpportunityAlertsView {
	list := tview.NewList().
		ShowSecondaryText(true)

	list.SetTitle(" 💡 Opportunities ").SetBorder(true)
	list.SetMainTextColor(tcell.ColorWhite)

	return &OpportunityAlertsView{
		list:          list,
		opportunities: make([]scanner.Opportunity, 0, 50),
		maxItems:      50,
	}
}

// Widget returns the tview primitive.
func (v *OpportunityAlertsView) Widget() tview.Primitive {
	return v.list
}

// AddOpportunity prepends a new detection.
func (v *OpportunityAlertsView) AddOpportunity(op scanner.Opportunity) {
	v.opportunities = append([]scanner.Opportunity{op}, v.opportunities...)

	if len(v.opportunities) > v.maxItems {
		v.opportunities = v.opportunities[:v.maxItems]
	}

	v.rebuildList()
}

// Refresh redraws the list.
func (v *OpportunityAlertsView) Refresh() {
	v.rebuildList()
}

func (v *OpportunityAlertsView) rebuildList() {
	v.list.Clear()

	if len(v.opportunities) == 0 {
		v.list.AddItem("No opportunities detected yet", "", 0, nil)
		return
	}

	for _, op := range v.opportunities {
		mainText, secondaryText := formatOpportunity(op)
		v.list.AddItem(mainText, secondaryText, 0, nil)
	}

	v.list.SetTitle(fmt.Sprintf(" 💡 Opportunities (%d) ", len(v.opportunities)))
}

// formatOpportunity formats one detection for display.
func formatOpportunity(op scanner.Opportunity) (string, string) {
	timeStr := op.DetectedAt.Format("15:04:05")

	spread, _ := op.SpreadPct.Round(2).Float64()
	low, _ := op.LowPrice.Round(4).Float64()
	high, _ := op.HighPrice.Round(4).Float64()

	mainText := fmt.Sprintf("%s 💡 %s | Spread: %.2f%%", timeStr, op.PairID, spread)
	secondaryText := fmt.Sprintf("Buy on %s @ $%.4f → Sell on %s @ $%.4f",
		op.LowExchange, low, op.HighExchange, high)

	return mainText, secondaryText
}
