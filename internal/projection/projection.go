// Package projection estimates how much a player's win rate would move if
// they improved specific metrics.
//
// Each metric has a fixed linear sensitivity (win-rate points per unit of
// change) with a cap. This is a coaching heuristic, not a fitted model: the
// confidence tier only says how far the requested change strays from the
// range the sensitivities were read from.
package projection

import (
	"fmt"
	"math"
	"sort"

	"github.com/albapepper/dotalens/internal/benchmark"
)

// Confidence tiers.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// WinRateCeiling is the highest projected win rate reported, unless the
// player is already above it.
const WinRateCeiling = 70.0

// CombinedScenario names the scenario that applies every delta at once.
const CombinedScenario = "combined"

// Sensitivity describes how one metric moves win rate.
type Sensitivity struct {
	// PointsPerUnit is win-rate points per unit of metric change. Negative
	// for metrics where a decrease helps.
	PointsPerUnit float64 `json:"points_per_unit"`
	// MaxPoints caps the absolute change one metric may contribute.
	MaxPoints float64 `json:"max_points"`
	// SafeDelta is the largest change considered well supported.
	SafeDelta float64 `json:"safe_delta"`
}

// Sensitivities maps metric names to their sensitivity.
type Sensitivities map[string]Sensitivity

// DefaultSensitivities returns a fresh copy of the built-in coefficients.
func DefaultSensitivities() Sensitivities {
	return Sensitivities{
		benchmark.MetricGoldPerMin: {PointsPerUnit: 0.05, MaxPoints: 5, SafeDelta: 50},
		benchmark.MetricXPPerMin:   {PointsPerUnit: 0.04, MaxPoints: 4, SafeDelta: 50},
		benchmark.MetricKDA:        {PointsPerUnit: 5.0, MaxPoints: 5, SafeDelta: 0.5},
		benchmark.MetricDeaths:     {PointsPerUnit: -2.5, MaxPoints: 5, SafeDelta: 1},
		benchmark.MetricLastHits:   {PointsPerUnit: 0.1, MaxPoints: 4, SafeDelta: 20},
		benchmark.MetricHeroDamage: {PointsPerUnit: 0.00075, MaxPoints: 3, SafeDelta: 2000},
	}
}

// DefaultDeltas returns the change simulated for a metric when the caller
// does not specify one.
func DefaultDeltas() map[string]float64 {
	return map[string]float64{
		benchmark.MetricGoldPerMin: 50,
		benchmark.MetricXPPerMin:   50,
		benchmark.MetricKDA:        0.5,
		benchmark.MetricDeaths:     -1,
		benchmark.MetricLastHits:   20,
		benchmark.MetricHeroDamage: 2000,
	}
}

// Scenario is one hypothetical change and its projected effect.
type Scenario struct {
	Name             string             `json:"name"`
	Deltas           map[string]float64 `json:"deltas"`
	WinRateChange    float64            `json:"win_rate_change"`
	ProjectedWinRate float64            `json:"projected_win_rate"`
	Confidence       string             `json:"confidence"`
	Capped           bool               `json:"capped,omitempty"`
}

// Result holds every single-metric scenario plus the combined one.
type Result struct {
	BaseWinRate float64    `json:"base_win_rate"`
	Ceiling     float64    `json:"ceiling"`
	Scenarios   []Scenario `json:"scenarios"`
	Combined    *Scenario  `json:"combined,omitempty"`
}

// Simulator applies a sensitivity table.
type Simulator struct {
	sens     Sensitivities
	defaults map[string]float64
}

// NewSimulator creates a Simulator. Nil arguments use the built-in tables.
func NewSimulator(sens Sensitivities, defaults map[string]float64) *Simulator {
	if sens == nil {
		sens = DefaultSensitivities()
	}
	if defaults == nil {
		defaults = DefaultDeltas()
	}
	return &Simulator{sens: sens, defaults: defaults}
}

// Simulate projects win rate for each delta. When deltas is empty the
// default delta of every improvement area is simulated instead. Metrics with
// no sensitivity are ignored.
func (s *Simulator) Simulate(baseWinRate float64, areas []benchmark.ImprovementArea, deltas map[string]float64) Result {
	ceiling := math.Max(WinRateCeiling, baseWinRate)
	res := Result{BaseWinRate: baseWinRate, Ceiling: ceiling, Scenarios: []Scenario{}}

	for _, metric := range s.plan(areas, deltas) {
		delta := deltas[metric]
		if len(deltas) == 0 {
			delta = s.defaults[metric]
		}
		change, capped := s.change(metric, delta)
		res.Scenarios = append(res.Scenarios, Scenario{
			Name:             fmt.Sprintf("%s %+g", metric, delta),
			Deltas:           map[string]float64{metric: delta},
			WinRateChange:    change,
			ProjectedWinRate: clamp(baseWinRate+change, 0, ceiling),
			Confidence:       s.confidence(metric, delta),
			Capped:           capped,
		})
	}

	if len(res.Scenarios) == 0 {
		return res
	}
	combined := Scenario{
		Name:       CombinedScenario,
		Deltas:     map[string]float64{},
		Confidence: ConfidenceHigh,
	}
	for _, sc := range res.Scenarios {
		for m, d := range sc.Deltas {
			combined.Deltas[m] = d
		}
		combined.WinRateChange += sc.WinRateChange
		combined.Capped = combined.Capped || sc.Capped
		combined.Confidence = lowest(combined.Confidence, sc.Confidence)
	}
	combined.ProjectedWinRate = clamp(baseWinRate+combined.WinRateChange, 0, ceiling)
	res.Combined = &combined
	return res
}

// plan lists the metrics to simulate in a stable order.
func (s *Simulator) plan(areas []benchmark.ImprovementArea, deltas map[string]float64) []string {
	var metrics []string
	if len(deltas) > 0 {
		for m := range deltas {
			if _, ok := s.sens[m]; ok {
				metrics = append(metrics, m)
			}
		}
		order := make(map[string]int, len(benchmark.Metrics))
		for i, m := range benchmark.Metrics {
			order[m] = i
		}
		sort.Slice(metrics, func(i, j int) bool {
			oi, iok := order[metrics[i]]
			oj, jok := order[metrics[j]]
			if iok != jok {
				return iok
			}
			if oi != oj {
				return oi < oj
			}
			return metrics[i] < metrics[j]
		})
		return metrics
	}
	seen := map[string]bool{}
	for _, a := range areas {
		if _, ok := s.sens[a.Metric]; !ok || seen[a.Metric] {
			continue
		}
		if _, ok := s.defaults[a.Metric]; !ok {
			continue
		}
		seen[a.Metric] = true
		metrics = append(metrics, a.Metric)
	}
	return metrics
}

// change returns the win-rate points for delta and whether the cap applied.
func (s *Simulator) change(metric string, delta float64) (float64, bool) {
	sens := s.sens[metric]
	pts := delta * sens.PointsPerUnit
	if sens.MaxPoints > 0 && math.Abs(pts) > sens.MaxPoints {
		return math.Copysign(sens.MaxPoints, pts), true
	}
	return pts, false
}

func (s *Simulator) confidence(metric string, delta float64) string {
	safe := s.sens[metric].SafeDelta
	if safe <= 0 {
		return ConfidenceMedium
	}
	ratio := math.Abs(delta) / safe
	switch {
	case ratio <= 1:
		return ConfidenceHigh
	case ratio <= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

var confidenceRank = map[string]int{ConfidenceLow: 0, ConfidenceMedium: 1, ConfidenceHigh: 2}

func lowest(a, b string) string {
	if confidenceRank[b] < confidenceRank[a] {
		return b
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
