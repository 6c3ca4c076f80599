// Package ui provides terminal user interface components.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/britej3/Furocombo-V2/internal/market"
	"github.com/britej3/Furocombo-V2/internal/metrics"
	"github.com/britej3/Furocombo-V2/internal/scanner"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/shopspring/decimal"
)

// App is the main TUI application.
type App struct {
	app    *tview.Application
	layout *tview.Flex

	// Views
	pairsTable *PairsTableView
	alerts     *OpportunityAlertsView
	stats      *StatsDashboardView
	topSpreads *TopSpreadsView

	// Data channels
	pairsChan       <-chan []market.TradingPair
	opportunityChan <-chan scanner.Opportunity
	tracker         *metrics.Tracker

	refreshRate time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates a new TUI application.
func NewApp(pairsChan <-chan []market.TradingPair, opportunityChan <-chan scanner.Opportunity,
	tracker *metrics.Tracker, displayMinLiquidity decimal.Decimal, refreshRate time.Duration) *App {

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		app:             tview.NewApplication(),
		pairsChan:       pairsChan,
		opportunityChan: opportunityChan,
		tracker:         tracker,
		refreshRate:     refreshRate,
		ctx:             ctx,
		cancel:          cancel,
	}

	app.pairsTable = NewPairsTableView(displayMinLiquidity)
	app.alerts = NewOpportunityAlertsView()
	app.stats = NewStatsDashboardView()
	app.topSpreads = NewTopSpreadsView()

	app.setupLayout()
	app.setupKeyboard()

	return app
}

// setupLayout creates the 4-panel layout.
func (a *App) setupLayout() {
	// Top row: Trading Pairs (left) | Opportunities (right)
	topRow := tview.NewFlex().
		AddItem(a.pairsTable.Widget(), 0, 2, false).
		AddItem(a.alerts.Widget(), 0, 2, false)

	// Bottom row: Stats Dashboard (left) | Top Spreads (right)
	bottomRow := tview.NewFlex().
		AddItem(a.stats.Widget(), 0, 1, false).
		AddItem(a.topSpreads.Widget(), 0, 1, false)

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 3, false).
		AddItem(bottomRow, 0, 2, false)

	a.app.SetRoot(a.layout, true)
}

// setupKeyboard configures keyboard shortcuts.
func (a *App) setupKeyboard() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			a.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q', 'Q':
				a.Stop()
				return nil
			case 'r', 'R':
				a.refresh()
				return nil
			}
		}
		return event
	})
}

// Run starts the TUI application (blocking).
func (a *App) Run() error {
	go a.processPairs()
	go a.processOpportunities()
	go a.updateLoop()

	if err := a.app.Run(); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// processPairs reads pair snapshots and updates the pairs table.
func (a *App) processPairs() {
	for {
		select {
		case <-a.ctx.Done():
			return
		case pairs, ok := <-a.pairsChan:
			if !ok {
				return
			}

			a.app.QueueUpdateDraw(func() {
				a.pairsTable.Update(pairs)
			})
		}
	}
}

// processOpportunities reads detections and updates the alerts list.
func (a *App) processOpportunities() {
	for {
		select {
		case <-a.ctx.Done():
			return
		case op, ok := <-a.opportunityChan:
			if !ok {
				return
			}

			a.app.QueueUpdateDraw(func() {
				a.alerts.AddOpportunity(op)
			})
		}
	}
}

// updateLoop periodically refreshes metric-driven views.
func (a *App) updateLoop() {
	ticker := time.NewTicker(a.refreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			snapshot := a.tracker.Snapshot()

			a.app.QueueUpdateDraw(func() {
				a.stats.Update(snapshot)
				a.topSpreads.Update(snapshot)
			})
		}
	}
}

// refresh manually refreshes all views.
func (a *App) refresh() {
	snapshot := a.tracker.Snapshot()

	a.app.QueueUpdateDraw(func() {
		a.alerts.Refresh()
		a.stats.Update(snapshot)
		a.topSpreads.Update(snapshot)
	})
}
