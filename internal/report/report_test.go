package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/albapepper/dotalens/internal/benchmark"
	"github.com/albapepper/dotalens/internal/engine"
	"github.com/albapepper/dotalens/internal/itemtiming"
	"github.com/albapepper/dotalens/internal/phase"
	"github.com/albapepper/dotalens/internal/projection"
	"github.com/albapepper/dotalens/internal/rolling"
)

func TestPrintWindowsWithTrend(t *testing.T) {
	var buf bytes.Buffer
	PrintWindows(&buf, []rolling.WindowStats{
		{Size: 5, Count: 5, WinRate: 60, KDA: 3.25, GoldPerMin: 512},
		{Size: 10, Count: 10, WinRate: 50, KDA: 2.5, GoldPerMin: 480},
	}, &rolling.Delta{From: 5, To: 10, WinRate: 10, KDA: 0.75, GoldPerMin: 32})

	out := buf.String()
	assert.Contains(t, out, "last 5")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "5 vs 10")
	assert.Contains(t, out, "+0.75")
}

func TestPrintComparisonMarksImprovementAreas(t *testing.T) {
	var buf bytes.Buffer
	PrintComparison(&buf, benchmark.Comparison{
		Role: "carry",
		Metrics: []benchmark.MetricResult{
			{Metric: "gold_per_min", Value: 420, P50: 500, P75: 560, P90: 620, Percentile: 25, GapPercent: -16},
			{Metric: "kda", Value: 4.1, P50: 3, P75: 4, P90: 5, Percentile: 75, GapPercent: 36.7},
		},
		ImprovementAreas: []benchmark.ImprovementArea{{Metric: "gold_per_min", Current: 420, Reference: 500}},
	})

	out := buf.String()
	assert.Contains(t, out, "* ")
	assert.Contains(t, out, "gold_per_min")
	assert.Contains(t, out, "-16.0")
}

func TestPrintProjectionIncludesCombined(t *testing.T) {
	var buf bytes.Buffer
	scenarios := []projection.Scenario{{Name: "gold_per_min", WinRateChange: 2.5, ProjectedWinRate: 52.5, Confidence: "high"}}
	r := projection.Result{
		BaseWinRate: 50,
		Ceiling:     70,
		Scenarios:   scenarios,
		Combined:    &projection.Scenario{Name: "combined", WinRateChange: 25, ProjectedWinRate: 70, Confidence: "low", Capped: true},
	}
	PrintProjection(&buf, r)

	out := buf.String()
	assert.Contains(t, out, "Base win rate 50.0%, ceiling 70.0%")
	assert.Contains(t, out, "combined")
	assert.Contains(t, out, "(capped)")
	assert.Len(t, r.Scenarios, 1, "combined row must not leak into the scenario slice")
}

func TestPrintOverviewInsufficientData(t *testing.T) {
	var buf bytes.Buffer
	PrintOverview(&buf, &engine.Overview{Meta: engine.Meta{AccountID: 42, InsufficientData: true}, Role: "carry"})
	assert.Contains(t, buf.String(), "No recent matches found.")
}

func TestPrintOverview(t *testing.T) {
	var buf bytes.Buffer
	PrintOverview(&buf, &engine.Overview{
		Meta:    engine.Meta{AccountID: 42, MatchesRequested: 10, MatchesEnriched: 9},
		Role:    "mid",
		Windows: []rolling.WindowStats{{Size: 5, Count: 5, WinRate: 40}},
		Phases:  phase.Average{Matches: 9, Kills: [3]float64{1.5, 3, 2}},
		Heroes:  []engine.HeroUsage{{HeroID: 1, Name: "Anti-Mage", Matches: 4, Wins: 3, WinRate: 75}},
	})

	out := buf.String()
	assert.Contains(t, out, "Matches: 9/10 enriched")
	assert.Contains(t, out, "Anti-Mage")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "1.5")
}

func TestPrintItemTimings(t *testing.T) {
	var buf bytes.Buffer
	PrintItemTimings(&buf, &engine.ItemTimingReport{
		MatchID:  7000,
		HeroName: "Anti-Mage",
		Duration: 2400,
		Items: []itemtiming.Estimate{
			{Slot: 0, Name: "Power Treads", Cost: 1400, Second: 545, Tier: itemtiming.TierLog, Timing: "on_time"},
			{Slot: 1, Reserve: true, Name: "Blink Dagger", Cost: 2250, Second: -30, Tier: itemtiming.TierEstimated},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Duration: 40:00")
	assert.Contains(t, out, "9:05")
	assert.Contains(t, out, "r1")
	assert.Contains(t, out, "-0:30")
}

func TestClock(t *testing.T) {
	assert.Equal(t, "0:00", clock(0))
	assert.Equal(t, "12:07", clock(727))
	assert.Equal(t, "-1:05", clock(-65))
}
