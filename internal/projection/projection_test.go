package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dotalens/internal/benchmark"
)

func areas(metrics ...string) []benchmark.ImprovementArea {
	out := make([]benchmark.ImprovementArea, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, benchmark.ImprovementArea{Metric: m})
	}
	return out
}

func TestCombinedThreeAreas(t *testing.T) {
	sim := NewSimulator(nil, nil)
	res := sim.Simulate(48, areas(benchmark.MetricGoldPerMin, benchmark.MetricKDA, benchmark.MetricDeaths), nil)

	require.Len(t, res.Scenarios, 3)
	for _, sc := range res.Scenarios {
		assert.InDelta(t, 2.5, sc.WinRateChange, 1e-9, sc.Name)
		assert.InDelta(t, 50.5, sc.ProjectedWinRate, 1e-9)
		assert.Equal(t, ConfidenceHigh, sc.Confidence)
	}
	require.NotNil(t, res.Combined)
	assert.InDelta(t, 7.5, res.Combined.WinRateChange, 1e-9)
	assert.InDelta(t, 55.5, res.Combined.ProjectedWinRate, 1e-9)
	assert.Equal(t, ConfidenceHigh, res.Combined.Confidence)
	assert.Len(t, res.Combined.Deltas, 3)
}

func TestCeilingClamp(t *testing.T) {
	sim := NewSimulator(nil, nil)
	res := sim.Simulate(66, nil, map[string]float64{
		benchmark.MetricGoldPerMin: 100,
		benchmark.MetricKDA:        1,
	})
	require.NotNil(t, res.Combined)
	assert.Equal(t, 10.0, res.Combined.WinRateChange)
	assert.Equal(t, WinRateCeiling, res.Combined.ProjectedWinRate)

	// Already above the ceiling: never projected downward by the clamp.
	res = sim.Simulate(75, nil, map[string]float64{benchmark.MetricGoldPerMin: 50})
	assert.Equal(t, 75.0, res.Ceiling)
	assert.Equal(t, 75.0, res.Scenarios[0].ProjectedWinRate)
}

func TestPerMetricCap(t *testing.T) {
	sim := NewSimulator(nil, nil)
	res := sim.Simulate(50, nil, map[string]float64{benchmark.MetricGoldPerMin: 400})
	sc := res.Scenarios[0]
	assert.Equal(t, 5.0, sc.WinRateChange)
	assert.True(t, sc.Capped)
	assert.Equal(t, ConfidenceLow, sc.Confidence)
}

func TestConfidenceTiers(t *testing.T) {
	sim := NewSimulator(nil, nil)
	cases := []struct {
		delta float64
		want  string
	}{
		{25, ConfidenceHigh},
		{50, ConfidenceHigh},
		{80, ConfidenceMedium},
		{100, ConfidenceMedium},
		{101, ConfidenceLow},
		{-60, ConfidenceMedium},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sim.confidence(benchmark.MetricGoldPerMin, tc.delta), "delta %v", tc.delta)
	}
}

func TestCombinedTakesLowestConfidence(t *testing.T) {
	sim := NewSimulator(nil, nil)
	res := sim.Simulate(40, nil, map[string]float64{
		benchmark.MetricGoldPerMin: 20,
		benchmark.MetricDeaths:     -3,
	})
	require.NotNil(t, res.Combined)
	assert.Equal(t, ConfidenceLow, res.Combined.Confidence)
	// Deaths -3 * -2.5 = 7.5, capped at 5.
	assert.Equal(t, 6.0, res.Combined.WinRateChange)
}

func TestNegativeDeltaLowersWinRate(t *testing.T) {
	sim := NewSimulator(nil, nil)
	res := sim.Simulate(2, nil, map[string]float64{benchmark.MetricDeaths: 2})
	assert.Equal(t, -5.0, res.Scenarios[0].WinRateChange)
	assert.Equal(t, 0.0, res.Scenarios[0].ProjectedWinRate)
}

func TestUnknownMetricsIgnored(t *testing.T) {
	sim := NewSimulator(nil, nil)
	res := sim.Simulate(50, areas("wards_placed"), nil)
	assert.Empty(t, res.Scenarios)
	assert.Nil(t, res.Combined)

	res = sim.Simulate(50, nil, map[string]float64{"stuns": 10, benchmark.MetricXPPerMin: 25})
	require.Len(t, res.Scenarios, 1)
	assert.Equal(t, 1.0, res.Scenarios[0].WinRateChange)
}

func TestScenarioOrderIsStable(t *testing.T) {
	sim := NewSimulator(nil, nil)
	res := sim.Simulate(50, nil, map[string]float64{
		benchmark.MetricLastHits:   10,
		benchmark.MetricGoldPerMin: 10,
		benchmark.MetricKDA:        0.1,
	})
	var names []string
	for _, sc := range res.Scenarios {
		names = append(names, sc.Name)
	}
	assert.Equal(t, []string{"gold_per_min +10", "kda +0.1", "last_hits +10"}, names)
}
