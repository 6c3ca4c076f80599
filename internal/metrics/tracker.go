// Package metrics provides real-time metrics tracking for the scanner.
package metrics

import (
	"sync"
	"time"
)

// PairStats tracks detection activity for one pair identity.
type PairStats struct {
	PairID        string
	Opportunities int
	BestSpreadPct float64
	LastSpreadPct float64
	LastSeen      time.Time
}

// Snapshot is a point-in-time view of scanner metrics.
type Snapshot struct {
	ScansTotal         int64
	RefreshFailures    int64
	PairsInSnapshot    int
	OpportunitiesTotal int64
	PairStats          map[string]*PairStats
	FeedStatus         string
	LastRefresh        time.Time
	Uptime             time.Duration
}

// Tracker provides thread-safe metrics tracking.
type Tracker struct {
	mu                 sync.RWMutex
	scansTotal         int64
	refreshFailures    int64
	pairsInSnapshot    int
	opportunitiesTotal int64
	pairStats          map[string]*PairStats
	feedStatus         string
	lastRefresh        time.Time
	startTime          time.Time
}

// NewTracker creates a new Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		pairStats:  make(map[string]*PairStats),
		feedStatus: "idle",
		startTime:  time.Now(),
	}
}

// RecordScan records one completed scan cycle and its snapshot size.
func (t *Tracker) RecordScan(pairCount int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.scansTotal++
	t.pairsInSnapshot = pairCount
	t.lastRefresh = time.Now()
	t.feedStatus = "ok"
}

// RecordRefreshFailure records a failed refresh cycle.
func (t *Tracker) RecordRefreshFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refreshFailures++
	t.feedStatus = "failing"
}

// RecordOpportunity records one detected divergence for a pair.
func (t *Tracker) RecordOpportunity(pairID string, spreadPct float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.opportunitiesTotal++

	stats, ok := t.pairStats[pairID]
	if !ok {
		stats = &PairStats{PairID: pairID}
		t.pairStats[pairID] = stats
	}

	stats.Opportunities++
	stats.LastSpreadPct = spreadPct
	if spreadPct > stats.BestSpreadPct {
		stats.BestSpreadPct = spreadPct
	}
	stats.LastSeen = time.Now()
}

// Snapshot returns a point-in-time copy of all metrics.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	statsCopy := make(map[string]*PairStats, len(t.pairStats))
	for id, stats := range t.pairStats {
		copied := *stats
		statsCopy[id] = &copied
	}

	return Snapshot{
		ScansTotal:         t.scansTotal,
		RefreshFailures:    t.refreshFailures,
		PairsInSnapshot:    t.pairsInSnapshot,
		OpportunitiesTotal: t.opportunitiesTotal,
		PairStats:          statsCopy,
		FeedStatus:         t.feedStatus,
		LastRefresh:        t.lastRefresh,
		Uptime:             time.Since(t.startTime),
	}
}

// Cleanup drops pairs with no detections in the last hour.
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-60 * time.Minute)
	for id, stats := range t.pairStats {
		if stats.LastSeen.Before(cutoff) {
			delete(t.pairStats, id)
		}
	}
}
