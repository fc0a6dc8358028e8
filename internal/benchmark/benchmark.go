// Package benchmark scores a player's windowed aggregates against
// role-specific reference thresholds.
package benchmark

import (
	"sort"
	"strings"

	"github.com/albapepper/dotalens/internal/rolling"
)

// Roles.
const (
	RoleCarry   = "carry"
	RoleMid     = "mid"
	RoleOfflane = "offlane"
	RoleSupport = "support"
)

// DefaultRole is used when a role label is not recognized.
const DefaultRole = RoleCarry

// Metric names, shared with the projection simulator.
const (
	MetricGoldPerMin = "gold_per_min"
	MetricXPPerMin   = "xp_per_min"
	MetricKDA        = "kda"
	MetricDeaths     = "deaths"
	MetricHeroDamage = "hero_damage"
	MetricLastHits   = "last_hits"
)

// Metrics lists every benchmarked metric in report order.
var Metrics = []string{
	MetricGoldPerMin, MetricXPPerMin, MetricKDA, MetricDeaths, MetricHeroDamage, MetricLastHits,
}

// LowerIsBetter reports whether smaller values of metric are better.
func LowerIsBetter(metric string) bool {
	return metric == MetricDeaths
}

// Percentile buckets.
const (
	Bucket90 = 90
	Bucket75 = 75
	Bucket50 = 50
	Bucket25 = 25
)

// ImprovementAreaCount is how many weakest metrics are surfaced.
const ImprovementAreaCount = 3

// Thresholds are the 50th, 75th and 90th percentile reference values. For
// lower-is-better metrics P90 is the smallest value.
type Thresholds struct {
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// RoleBenchmark is one role's reference values and metric priority.
type RoleBenchmark struct {
	Role     string                `json:"role"`
	Metrics  map[string]Thresholds `json:"metrics"`
	Priority []string              `json:"priority"`
}

// Table maps role names to benchmarks.
type Table map[string]RoleBenchmark

// DefaultTable returns a fresh copy of the built-in benchmarks.
func DefaultTable() Table {
	return Table{
		RoleCarry: {
			Role: RoleCarry,
			Metrics: map[string]Thresholds{
				MetricGoldPerMin: {P50: 500, P75: 600, P90: 700},
				MetricXPPerMin:   {P50: 550, P75: 650, P90: 750},
				MetricKDA:        {P50: 3.0, P75: 4.0, P90: 5.5},
				MetricDeaths:     {P50: 6, P75: 4.5, P90: 3},
				MetricHeroDamage: {P50: 18000, P75: 25000, P90: 32000},
				MetricLastHits:   {P50: 200, P75: 260, P90: 320},
			},
			Priority: []string{MetricGoldPerMin, MetricLastHits, MetricDeaths, MetricKDA, MetricXPPerMin, MetricHeroDamage},
		},
		RoleMid: {
			Role: RoleMid,
			Metrics: map[string]Thresholds{
				MetricGoldPerMin: {P50: 520, P75: 610, P90: 700},
				MetricXPPerMin:   {P50: 620, P75: 700, P90: 780},
				MetricKDA:        {P50: 3.5, P75: 4.5, P90: 6.0},
				MetricDeaths:     {P50: 6, P75: 4.5, P90: 3},
				MetricHeroDamage: {P50: 22000, P75: 28000, P90: 35000},
				MetricLastHits:   {P50: 180, P75: 230, P90: 280},
			},
			Priority: []string{MetricXPPerMin, MetricHeroDamage, MetricKDA, MetricGoldPerMin, MetricLastHits, MetricDeaths},
		},
		RoleOfflane: {
			Role: RoleOfflane,
			Metrics: map[string]Thresholds{
				MetricGoldPerMin: {P50: 420, P75: 500, P90: 580},
				MetricXPPerMin:   {P50: 500, P75: 580, P90: 660},
				MetricKDA:        {P50: 3.0, P75: 4.0, P90: 5.0},
				MetricDeaths:     {P50: 7, P75: 5.5, P90: 4},
				MetricHeroDamage: {P50: 15000, P75: 20000, P90: 26000},
				MetricLastHits:   {P50: 120, P75: 160, P90: 200},
			},
			Priority: []string{MetricDeaths, MetricKDA, MetricXPPerMin, MetricHeroDamage, MetricGoldPerMin, MetricLastHits},
		},
		RoleSupport: {
			Role: RoleSupport,
			Metrics: map[string]Thresholds{
				MetricGoldPerMin: {P50: 280, P75: 340, P90: 400},
				MetricXPPerMin:   {P50: 380, P75: 450, P90: 520},
				MetricKDA:        {P50: 3.0, P75: 4.0, P90: 5.5},
				MetricDeaths:     {P50: 7, P75: 5.5, P90: 4},
				MetricHeroDamage: {P50: 9000, P75: 13000, P90: 17000},
				MetricLastHits:   {P50: 30, P75: 50, P90: 70},
			},
			Priority: []string{MetricKDA, MetricDeaths, MetricXPPerMin, MetricHeroDamage, MetricGoldPerMin, MetricLastHits},
		},
	}
}

// MetricResult is one metric scored against its benchmark.
type MetricResult struct {
	Metric        string  `json:"metric"`
	Value         float64 `json:"value"`
	P50           float64 `json:"p50"`
	P75           float64 `json:"p75"`
	P90           float64 `json:"p90"`
	Gap           float64 `json:"gap"`
	GapPercent    float64 `json:"gap_percent"`
	Percentile    int     `json:"percentile"`
	LowerIsBetter bool    `json:"lower_is_better,omitempty"`
}

// adjustedGap is the gap percent signed so negative always means worse.
func (m MetricResult) adjustedGap() float64 {
	if m.LowerIsBetter {
		return -m.GapPercent
	}
	return m.GapPercent
}

// ImprovementArea is the minimal numeric contract handed to coaching-text
// consumers.
type ImprovementArea struct {
	Metric     string  `json:"metric"`
	Current    float64 `json:"current"`
	Reference  float64 `json:"reference"`
	GapPercent float64 `json:"gap_percent"`
}

// Comparison is the result of Compare.
type Comparison struct {
	Role             string            `json:"role"`
	RequestedRole    string            `json:"requested_role,omitempty"`
	Metrics          []MetricResult    `json:"metrics"`
	ImprovementAreas []ImprovementArea `json:"improvement_areas"`
}

// Metric returns the result for one metric name.
func (c Comparison) Metric(name string) (MetricResult, bool) {
	for _, m := range c.Metrics {
		if m.Metric == name {
			return m, true
		}
	}
	return MetricResult{}, false
}

// Comparator scores aggregates against a benchmark table.
type Comparator struct {
	table Table
}

// NewComparator creates a Comparator over table. A nil table uses the
// built-in benchmarks.
func NewComparator(table Table) *Comparator {
	if table == nil {
		table = DefaultTable()
	}
	return &Comparator{table: table}
}

// Benchmark returns the benchmark for role, falling back to the default role.
func (c *Comparator) Benchmark(role string) RoleBenchmark {
	if r, ok := NormalizeRole(role); ok {
		if b, ok := c.table[r]; ok {
			return b
		}
	}
	return c.table[DefaultRole]
}

// Compare scores stats for role.
func (c *Comparator) Compare(stats rolling.WindowStats, role string) Comparison {
	b := c.Benchmark(role)
	out := Comparison{Role: b.Role}
	if role != "" && !strings.EqualFold(role, b.Role) {
		out.RequestedRole = role
	}

	values := Values(stats)
	for _, metric := range Metrics {
		th, ok := b.Metrics[metric]
		if !ok {
			continue
		}
		out.Metrics = append(out.Metrics, score(metric, values[metric], th))
	}
	out.ImprovementAreas = improvementAreas(out.Metrics, b.Priority)
	return out
}

// Values extracts the benchmarked metrics from window stats.
func Values(s rolling.WindowStats) map[string]float64 {
	return map[string]float64{
		MetricGoldPerMin: s.GoldPerMin,
		MetricXPPerMin:   s.XPPerMin,
		MetricKDA:        s.KDA,
		MetricDeaths:     s.Deaths,
		MetricHeroDamage: s.HeroDamage,
		MetricLastHits:   s.LastHits,
	}
}

func score(metric string, value float64, th Thresholds) MetricResult {
	r := MetricResult{
		Metric:        metric,
		Value:         value,
		P50:           th.P50,
		P75:           th.P75,
		P90:           th.P90,
		Gap:           value - th.P50,
		LowerIsBetter: LowerIsBetter(metric),
	}
	if th.P50 != 0 {
		r.GapPercent = r.Gap / th.P50 * 100
	}
	r.Percentile = Bucket(value, th, r.LowerIsBetter)
	return r
}

// Bucket assigns the threshold bucket for value. There is no bucket below
// 25.
func Bucket(value float64, th Thresholds, lowerIsBetter bool) int {
	better := func(v, ref float64) bool {
		if lowerIsBetter {
			return v <= ref
		}
		return v >= ref
	}
	switch {
	case better(value, th.P90):
		return Bucket90
	case better(value, th.P75):
		return Bucket75
	case better(value, th.P50):
		return Bucket50
	default:
		return Bucket25
	}
}

// improvementAreas picks the weakest metrics by direction-adjusted gap,
// breaking ties by the role's priority order.
func improvementAreas(results []MetricResult, priority []string) []ImprovementArea {
	rank := make(map[string]int, len(priority))
	for i, m := range priority {
		rank[m] = i
	}
	prio := func(m string) int {
		if r, ok := rank[m]; ok {
			return r
		}
		return len(priority)
	}

	sorted := append([]MetricResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		gi, gj := sorted[i].adjustedGap(), sorted[j].adjustedGap()
		if gi != gj {
			return gi < gj
		}
		return prio(sorted[i].Metric) < prio(sorted[j].Metric)
	})

	n := min(ImprovementAreaCount, len(sorted))
	out := make([]ImprovementArea, 0, n)
	for _, m := range sorted[:n] {
		out = append(out, ImprovementArea{
			Metric:     m.Metric,
			Current:    m.Value,
			Reference:  m.P50,
			GapPercent: m.GapPercent,
		})
	}
	return out
}
