package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dotalens/internal/match"
	"github.com/albapepper/dotalens/internal/rolling"
)

func TestCompareCarry(t *testing.T) {
	stats := rolling.WindowStats{
		GoldPerMin: 450, XPPerMin: 700, KDA: 3.2,
		Deaths: 8, HeroDamage: 33000, LastHits: 150,
	}
	got := NewComparator(nil).Compare(stats, "carry")
	assert.Equal(t, RoleCarry, got.Role)
	assert.Empty(t, got.RequestedRole)
	require.Len(t, got.Metrics, len(Metrics))

	gpm, _ := got.Metric(MetricGoldPerMin)
	assert.Equal(t, -50.0, gpm.Gap)
	assert.Equal(t, -10.0, gpm.GapPercent)
	assert.Equal(t, Bucket25, gpm.Percentile)

	xpm, _ := got.Metric(MetricXPPerMin)
	assert.Equal(t, Bucket75, xpm.Percentile)

	dmg, _ := got.Metric(MetricHeroDamage)
	assert.Equal(t, Bucket90, dmg.Percentile)

	deaths, _ := got.Metric(MetricDeaths)
	assert.True(t, deaths.LowerIsBetter)
	assert.InDelta(t, 33.33, deaths.GapPercent, 0.01)
	assert.Equal(t, Bucket25, deaths.Percentile)

	// last_hits -25%, deaths +33% (worse), gpm -10%.
	require.Len(t, got.ImprovementAreas, 3)
	assert.Equal(t, MetricDeaths, got.ImprovementAreas[0].Metric)
	assert.Equal(t, MetricLastHits, got.ImprovementAreas[1].Metric)
	assert.Equal(t, MetricGoldPerMin, got.ImprovementAreas[2].Metric)
	assert.Equal(t, ImprovementArea{Metric: MetricLastHits, Current: 150, Reference: 200, GapPercent: -25}, got.ImprovementAreas[1])
}

func TestUnknownRoleFallsBackToCarry(t *testing.T) {
	got := NewComparator(nil).Compare(rolling.WindowStats{GoldPerMin: 500}, "jungler")
	assert.Equal(t, RoleCarry, got.Role)
	assert.Equal(t, "jungler", got.RequestedRole)
	gpm, _ := got.Metric(MetricGoldPerMin)
	assert.Equal(t, 0.0, gpm.GapPercent)
	assert.Equal(t, Bucket50, gpm.Percentile)
}

func TestRoleAliases(t *testing.T) {
	cases := map[string]string{
		"Mid":          RoleMid,
		"pos 3":        RoleOfflane,
		"Position-5":   RoleSupport,
		"hard_support": RoleSupport,
		"safelane":     RoleCarry,
	}
	for label, want := range cases {
		got, ok := NormalizeRole(label)
		assert.True(t, ok, label)
		assert.Equal(t, want, got, label)
	}
	_, ok := NormalizeRole("roamer")
	assert.False(t, ok)
}

func TestZeroBenchmarkGuard(t *testing.T) {
	table := Table{RoleCarry: {
		Role:    RoleCarry,
		Metrics: map[string]Thresholds{MetricKDA: {}},
	}}
	got := NewComparator(table).Compare(rolling.WindowStats{KDA: 2}, "")
	kda, ok := got.Metric(MetricKDA)
	require.True(t, ok)
	assert.Equal(t, 2.0, kda.Gap)
	assert.Equal(t, 0.0, kda.GapPercent)
	assert.Len(t, got.ImprovementAreas, 1)
}

func TestBucketIsNonDecreasing(t *testing.T) {
	for _, role := range []string{RoleCarry, RoleMid, RoleOfflane, RoleSupport} {
		b := DefaultTable()[role]
		for _, metric := range Metrics {
			th := b.Metrics[metric]
			lower := LowerIsBetter(metric)
			prev := 0
			for v := 0.0; v <= th.P50*3+1; v += th.P50 / 200 {
				x := v
				if lower {
					// Walk from worst to best.
					x = th.P50*3 - v
				}
				got := Bucket(x, th, lower)
				assert.GreaterOrEqual(t, got, prev, "%s/%s at %v", role, metric, x)
				prev = got
			}
		}
	}
}

func TestImprovementTieBreakUsesPriority(t *testing.T) {
	table := Table{RoleSupport: {
		Role: RoleSupport,
		Metrics: map[string]Thresholds{
			MetricGoldPerMin: {P50: 100, P75: 150, P90: 200},
			MetricXPPerMin:   {P50: 100, P75: 150, P90: 200},
			MetricKDA:        {P50: 1, P75: 2, P90: 3},
			MetricLastHits:   {P50: 100, P75: 150, P90: 200},
		},
		Priority: []string{MetricLastHits, MetricKDA, MetricXPPerMin, MetricGoldPerMin},
	}}
	stats := rolling.WindowStats{GoldPerMin: 50, XPPerMin: 50, LastHits: 50, KDA: 0.5}
	got := NewComparator(table).Compare(stats, RoleSupport)
	require.Len(t, got.ImprovementAreas, 3)
	assert.Equal(t, []string{MetricLastHits, MetricKDA, MetricXPPerMin}, []string{
		got.ImprovementAreas[0].Metric, got.ImprovementAreas[1].Metric, got.ImprovementAreas[2].Metric,
	})
}

func withRecord(lane, lastHits, duration, wards int) match.EnrichedMatch {
	m := match.NewEnrichedMatch(match.MatchSummary{LaneRole: lane, LastHits: lastHits, Duration: duration})
	m.Record = &match.PlayerRecord{ObsPlaced: wards}
	return m
}

func TestInferRole(t *testing.T) {
	assert.Equal(t, DefaultRole, InferRole(nil))

	mids := []match.EnrichedMatch{withRecord(2, 250, 2400, 0), withRecord(2, 300, 2400, 0), withRecord(1, 280, 2400, 0)}
	assert.Equal(t, RoleMid, InferRole(mids))

	offs := []match.EnrichedMatch{withRecord(3, 150, 2400, 1), withRecord(3, 120, 2400, 0)}
	assert.Equal(t, RoleOfflane, InferRole(offs))

	supports := []match.EnrichedMatch{withRecord(1, 40, 2400, 10), withRecord(3, 30, 2400, 12)}
	assert.Equal(t, RoleSupport, InferRole(supports))

	noLane := []match.EnrichedMatch{withRecord(0, 300, 2400, 0)}
	assert.Equal(t, RoleCarry, InferRole(noLane))
}
