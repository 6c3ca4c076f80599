// Package main is the entry point for the Metis arbitrage scanner.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/britej3/Furocombo-V2/internal/broadcast"
	"github.com/britej3/Furocombo-V2/internal/config"
	"github.com/britej3/Furocombo-V2/internal/feed"
	"github.com/britej3/Furocombo-V2/internal/market"
	"github.com/britej3/Furocombo-V2/internal/metrics"
	"github.com/britej3/Furocombo-V2/internal/scanner"
	"github.com/britej3/Furocombo-V2/internal/store"
	"github.com/britej3/Furocombo-V2/internal/ui"
	"github.com/shopspring/decimal"
)

const (
	// PairsChannelBuffer is the size of the buffered snapshot channel
	PairsChannelBuffer = 8
	// OpportunityChannelBuffer is the size of the buffered opportunity channel
	OpportunityChannelBuffer = 100
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger
	logger := setupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	slog.Info("scanner starting", "version", "2.0.0")

	slog.Info("config_loaded",
		"dexscreener_url", cfg.DexScreenerURL,
		"chain_id", cfg.ChainID,
		"allowed_dexes", strings.Join(cfg.AllowedDexes, ","),
		"search_terms", strings.Join(cfg.SearchTerms, ","),
		"min_liquidity_usd", cfg.MinLiquidityUSD,
		"spread_threshold_pct", cfg.SpreadThresholdPct,
		"scan_interval", cfg.ScanInterval,
		"db_path", cfg.DBPath,
		"broadcast_port", cfg.BroadcastPort,
		"enable_tui", cfg.EnableTUI,
	)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create channels
	pairsChan := make(chan []market.TradingPair, PairsChannelBuffer)
	opportunityChan := make(chan scanner.Opportunity, OpportunityChannelBuffer)

	// Initialize metrics tracker with periodic cleanup
	tracker := metrics.NewTracker()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tracker.Cleanup()
			}
		}
	}()

	// Price cache + network feed: the feed is the only writer to the cache
	cache := store.NewPriceCache()
	priceFeed := feed.NewDexScreenerFeed(cfg, cache)

	scan := scanner.NewScanner(cfg)

	// Opportunity history (best-effort; the scanner runs without it)
	var history *store.OpportunityLog
	if cfg.DBPath != "" {
		history, err = store.OpenOpportunityLog(cfg.DBPath)
		if err != nil {
			slog.Warn("failed to open opportunity log, history disabled", "error", err)
		} else {
			defer history.Close()
			slog.Info("opportunity_log_opened", "db_path", cfg.DBPath)
		}
	}

	// Websocket broadcaster
	var caster *broadcast.Broadcaster
	if cfg.BroadcastPort > 0 {
		caster = broadcast.NewBroadcaster()
		go func() {
			if err := caster.ListenAndServe(cfg.BroadcastPort); err != nil {
				slog.Error("broadcast_server_failed", "error", err)
			}
		}()
	}

	// Initial data fetch; the loop will retry on failure
	slog.Info("fetching_initial_market_data")
	if err := priceFeed.Refresh(ctx); err != nil {
		slog.Error("initial_fetch_failed", "error", err)
		slog.Warn("will retry in the scan loop")
		tracker.RecordRefreshFailure()
	}

	// Start the scan loop
	go scanLoop(ctx, cfg, priceFeed, scan, tracker, history, caster, pairsChan, opportunityChan)

	slog.Info("engine_started",
		"status", "scanning for divergence",
		"interval", cfg.ScanInterval,
		"tui_enabled", cfg.EnableTUI,
	)

	if cfg.EnableTUI {
		// TUI mode (blocking)
		slog.Info("starting_tui")
		app := ui.NewApp(pairsChan, opportunityChan, tracker,
			decimal.NewFromFloat(cfg.DisplayMinLiquidityUSD), cfg.UIRefreshRate)

		go func() {
			if err := app.Run(); err != nil {
				slog.Error("tui_error", "error", err)
				cancel()
			}
		}()

		select {
		case sig := <-sigChan:
			slog.Info("shutdown_signal_received", "signal", sig.String())
			app.Stop()
		case <-ctx.Done():
			app.Stop()
		}
	} else {
		// Background mode - just wait for signal
		sig := <-sigChan
		slog.Info("shutdown_signal_received", "signal", sig.String())
	}

	cancel()
	slog.Info("shutdown_complete")
}

// scanLoop drives the refresh -> snapshot -> scan cycle at a fixed interval.
func scanLoop(ctx context.Context, cfg *config.Config, priceFeed feed.PriceFeed,
	scan *scanner.Scanner, tracker *metrics.Tracker, history *store.OpportunityLog,
	caster *broadcast.Broadcaster, pairsChan chan<- []market.TradingPair,
	opportunityChan chan<- scanner.Opportunity) {

	ticker := time.NewTicker(cfg.ScanInterval)
	defer ticker.Stop()

	var scanCount uint64

	for {
		select {
		case <-ctx.Done():
			slog.Info("scan_loop_stopped")
			return
		case <-ticker.C:
		}

		scanCount++
		slog.Info("scan_refreshing", "scan", scanCount)

		if err := priceFeed.Refresh(ctx); err != nil {
			slog.Error("scan_refresh_failed", "scan", scanCount, "error", err)
			tracker.RecordRefreshFailure()
			continue
		}

		pairs := priceFeed.TradingPairs(ctx)
		tracker.RecordScan(len(pairs))
		slog.Info("scan_complete", "scan", scanCount, "pairs", len(pairs))

		select {
		case pairsChan <- pairs:
		default:
			// UI is behind, drop the snapshot
		}

		opportunities := scan.Scan(pairs)
		for _, op := range opportunities {
			reportOpportunity(op, tracker, history, caster, opportunityChan)
		}
		if len(opportunities) == 0 {
			slog.Debug("no_divergence_detected", "scan", scanCount)
		} else {
			slog.Info("opportunities_detected", "scan", scanCount, "count", len(opportunities))
		}

		// Stats every 10 scans
		if scanCount%10 == 0 {
			snapshot := tracker.Snapshot()
			slog.Info("scan_stats",
				"scans", snapshot.ScansTotal,
				"opportunities", snapshot.OpportunitiesTotal,
				"refresh_failures", snapshot.RefreshFailures,
			)
		}
	}
}

// reportOpportunity logs, records, persists and broadcasts one detection.
func reportOpportunity(op scanner.Opportunity, tracker *metrics.Tracker,
	history *store.OpportunityLog, caster *broadcast.Broadcaster,
	opportunityChan chan<- scanner.Opportunity) {

	spread, _ := op.SpreadPct.Round(2).Float64()
	slog.Info("opportunity",
		"pair", op.PairID,
		"spread_pct", spread,
		"buy", op.LowExchange,
		"buy_price", op.LowPrice.String(),
		"sell", op.HighExchange,
		"sell_price", op.HighPrice.String(),
	)

	spreadPct, _ := op.SpreadPct.Float64()
	tracker.RecordOpportunity(op.PairID, spreadPct)

	if history != nil {
		if err := history.Insert(store.OpportunityRecord{
			PairID:       op.PairID,
			SpreadPct:    op.SpreadPct,
			LowExchange:  op.LowExchange,
			LowPrice:     op.LowPrice,
			HighExchange: op.HighExchange,
			HighPrice:    op.HighPrice,
			DetectedAt:   op.DetectedAt,
		}); err != nil {
			slog.Warn("opportunity_persist_failed", "error", err)
		}
	}

	if caster != nil {
		caster.Publish(op)
	}

	select {
	case opportunityChan <- op:
	default:
		slog.Warn("opportunity_channel_full", "pair", op.PairID)
	}
}

// setupLogger creates a structured logger with the specified level.
func setupLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format("2006-01-02 15:04:05"))
				}
			}
			return a
		},
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}
