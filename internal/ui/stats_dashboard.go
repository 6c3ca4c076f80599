package ui

import (
	"fmt"
	"time"

	"github.com/britej3/Furocombo-V2/internal/metrics"
	"github.com/rivo/tview"
)

// StatsDashboardView displays system health and scan statistics.
type StatsDashboardView struct {
	textView *tview.TextView
}

// NewStatsDashboardView creates a new stats dashboard view.
func NewStatsDashboardView() *StatsDashboardView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)

	textView.SetTitle(" Stats Dashboard ").SetBorder(true)

	return &StatsDashboardView{
		textView: textView,
	}
}

// Widget returns the tview primitive.
func (v *StatsDashboardView) Widget() tview.Primitive {
	return v.textView
}

// Update refreshes the stats display.
func (v *StatsDashboardView) Update(snapshot metrics.Snapshot) {
	v.textView.Clear()

	uptime := formatDuration(snapshot.Uptime)

	feedColor := "red"
	if snapshot.FeedStatus == "ok" {
		feedColor = "green"
	} else if snapshot.FeedStatus == "idle" {
		feedColor = "yellow"
	}

	lastRefresh := "never"
	if !snapshot.LastRefresh.IsZero() {
		lastRefresh = formatTimeAgo(snapshot.LastRefresh)
	}

	text := fmt.Sprintf(`[yellow]System Status[-]
Uptime: %s
Feed: [%s]%s[-]
Last Refresh: %s

[yellow]Scan Stats[-]
Scans: %d
Refresh Failures: %d
Pairs in Snapshot: %d

[yellow]Detections[-]
Opportunities: %d
Active Pairs: %d
`,
		uptime,
		feedColor, snapshot.FeedStatus,
		lastRefresh,
		snapshot.ScansTotal,
		snapshot.RefreshFailures,
		snapshot.PairsInSnapshot,
		snapshot.OpportunitiesTotal,
		len(snapshot.PairStats),
	)

	fmt.Fprint(v.textView, text)
}

// formatDuration formats a duration in human-readable form.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// formatTimeAgo formats a time as "X ago".
func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	elapsed := time.Since(t)

	if elapsed < time.Minute {
		return fmt.Sprintf("%.0fs ago", elapsed.Seconds())
	}
	if elapsed < time.Hour {
		return fmt.Sprintf("%.0fm ago", elapsed.Minutes())
	}
	if elapsed < 24*time.Hour {
		return fmt.Sprintf("%.0fh ago", elapsed.Hours())
	}
	return fmt.Sprintf("%.0fd ago", elapsed.Hours()/24)
}
