// Package report renders analysis results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/albapepper/dotalens/internal/benchmark"
	"github.com/albapepper/dotalens/internal/engine"
	"github.com/albapepper/dotalens/internal/phase"
	"github.com/albapepper/dotalens/internal/projection"
	"github.com/albapepper/dotalens/internal/rolling"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintOverview writes every section of an overview.
func PrintOverview(w io.Writer, o *engine.Overview) {
	fmt.Fprintf(w, "\nAccount: %d  |  Role: %s  |  Matches: %d/%d enriched  |  Analysis: %s\n",
		o.Meta.AccountID, roleLabel(o.Role, o.RoleInferred), o.Meta.MatchesEnriched, o.Meta.MatchesRequested, o.Meta.AnalysisID)
	if o.Meta.InsufficientData {
		fmt.Fprintln(w, "\nNo recent matches found.")
		return
	}

	fmt.Fprintln(w, "\nRolling windows")
	PrintWindows(w, o.Windows, o.Trend)

	fmt.Fprintln(w, "\nAverage phase profile")
	PrintPhaseAverage(w, o.Phases)

	fmt.Fprintln(w, "\nHeroes")
	PrintHeroes(w, o.Heroes)

	fmt.Fprintln(w, "\nBenchmark")
	PrintComparison(w, o.Comparison)

	fmt.Fprintln(w, "\nProjections")
	PrintProjection(w, o.Projection)
}

func roleLabel(role string, inferred bool) string {
	if inferred {
		return role + " (inferred)"
	}
	return role
}

// PrintWindows writes one row per window, plus a trend row when present.
func PrintWindows(w io.Writer, windows []rolling.WindowStats, trend *rolling.Delta) {
	table := newTable(w)
	table.Header("WINDOW", "N", "WIN%", "KDA", "GPM", "XPM", "DEATHS", "LH", "HERO_DMG")
	for _, ws := range windows {
		table.Append(
			"last "+strconv.Itoa(ws.Size),
			strconv.Itoa(ws.Count),
			fmt.Sprintf("%.1f%%", ws.WinRate),
			fmt.Sprintf("%.2f", ws.KDA),
			fmt.Sprintf("%.0f", ws.GoldPerMin),
			fmt.Sprintf("%.0f", ws.XPPerMin),
			fmt.Sprintf("%.1f", ws.Deaths),
			fmt.Sprintf("%.0f", ws.LastHits),
			fmt.Sprintf("%.0f", ws.HeroDamage),
		)
	}
	if trend != nil {
		table.Append(
			fmt.Sprintf("%d vs %d", trend.From, trend.To),
			"",
			fmt.Sprintf("%+.1f", trend.WinRate),
			fmt.Sprintf("%+.2f", trend.KDA),
			fmt.Sprintf("%+.0f", trend.GoldPerMin),
			fmt.Sprintf("%+.0f", trend.XPPerMin),
			fmt.Sprintf("%+.1f", trend.Deaths),
			fmt.Sprintf("%+.0f", trend.LastHits),
			fmt.Sprintf("%+.0f", trend.HeroDamage),
		)
	}
	table.Render()
}

// PrintPhaseAverage writes the per-phase means, one column per phase.
func PrintPhaseAverage(w io.Writer, a phase.Average) {
	table := newTable(w)
	table.Header("STAT", "EARLY", "MID", "LATE")
	rows := []struct {
		name string
		v    [3]float64
	}{
		{"kills", a.Kills},
		{"deaths", a.Deaths},
		{"assists", a.Assists},
		{"last hits", a.LastHits},
		{"denies", a.Denies},
		{"gold", a.Gold},
		{"xp", a.XP},
	}
	for _, r := range rows {
		table.Append(r.name, fmt.Sprintf("%.1f", r.v[0]), fmt.Sprintf("%.1f", r.v[1]), fmt.Sprintf("%.1f", r.v[2]))
	}
	table.Render()
}

// PrintPhases writes one row per match with kills/deaths/assists split by phase.
func PrintPhases(w io.Writer, matches []phase.Breakdown) {
	table := newTable(w)
	table.Header("MATCH", "MIN", "KILLS E/M/L", "DEATHS E/M/L", "ASSISTS E/M/L", "SOURCE")
	for _, b := range matches {
		table.Append(
			strconv.FormatInt(b.MatchID, 10),
			strconv.Itoa(b.Duration/60),
			split(b.Kills),
			split(b.Deaths),
			split(b.Assists),
			b.Kills.Source,
		)
	}
	table.Render()
}

func split(c phase.Counter) string {
	return fmt.Sprintf("%d/%d/%d", c.Early, c.Mid, c.Late)
}

// PrintHeroes writes hero usage.
func PrintHeroes(w io.Writer, heroes []engine.HeroUsage) {
	table := newTable(w)
	table.Header("HERO", "MATCHES", "WINS", "WIN%")
	for _, h := range heroes {
		table.Append(h.Name, strconv.Itoa(h.Matches), strconv.Itoa(h.Wins), fmt.Sprintf("%.1f%%", h.WinRate))
	}
	table.Render()
}

// PrintComparison writes each metric against the role percentiles and marks
// improvement areas with "*".
func PrintComparison(w io.Writer, c benchmark.Comparison) {
	weak := make(map[string]bool, len(c.ImprovementAreas))
	for _, a := range c.ImprovementAreas {
		weak[a.Metric] = true
	}

	table := newTable(w)
	table.Header(" ", "METRIC", "VALUE", "P50", "P75", "P90", "PCTL", "GAP%")
	for _, m := range c.Metrics {
		marker := " "
		if weak[m.Metric] {
			marker = "*"
		}
		table.Append(
			marker,
			m.Metric,
			fmt.Sprintf("%.2f", m.Value),
			fmt.Sprintf("%.2f", m.P50),
			fmt.Sprintf("%.2f", m.P75),
			fmt.Sprintf("%.2f", m.P90),
			strconv.Itoa(m.Percentile),
			fmt.Sprintf("%+.1f", m.GapPercent),
		)
	}
	table.Render()
}

// PrintProjection writes each scenario and the combined projection.
func PrintProjection(w io.Writer, r projection.Result) {
	fmt.Fprintf(w, "Base win rate %.1f%%, ceiling %.1f%%\n", r.BaseWinRate, r.Ceiling)
	table := newTable(w)
	table.Header("SCENARIO", "CHANGE", "PROJECTED", "CONFIDENCE")
	rows := r.Scenarios
	if r.Combined != nil {
		rows = append(rows[:len(rows):len(rows)], *r.Combined)
	}
	for _, s := range rows {
		projected := fmt.Sprintf("%.1f%%", s.ProjectedWinRate)
		if s.Capped {
			projected += " (capped)"
		}
		table.Append(s.Name, fmt.Sprintf("%+.1f", s.WinRateChange), projected, s.Confidence)
	}
	table.Render()
}

// PrintItemTimings writes the resolved purchase time of each item.
func PrintItemTimings(w io.Writer, r *engine.ItemTimingReport) {
	fmt.Fprintf(w, "\nMatch: %d  |  Hero: %s  |  Duration: %s  |  GPM: %.0f\n\n",
		r.MatchID, r.HeroName, clock(r.Duration), r.GoldPerMin)
	table := newTable(w)
	table.Header("SLOT", "ITEM", "COST", "BOUGHT", "SOURCE", "TIMING")
	for _, it := range r.Items {
		slot := strconv.Itoa(it.Slot)
		if it.Reserve {
			slot = "r" + slot
		}
		table.Append(slot, it.Name, strconv.Itoa(it.Cost), clock(it.Second), it.Tier, it.Timing)
	}
	table.Render()
}

func clock(sec int) string {
	sign := ""
	if sec < 0 {
		sign, sec = "-", -sec
	}
	return fmt.Sprintf("%s%d:%02d", sign, sec/60, sec%60)
}
