package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dotalens/internal/match"
)

func TestRatiosThirtyMinutes(t *testing.T) {
	e, m, l := Ratios(1800)
	assert.InDelta(t, 0.3333, e, 1e-4)
	assert.InDelta(t, 0.5, m, 1e-12)
	assert.InDelta(t, 0.1667, l, 1e-4)
	assert.Equal(t, 1.0, e+m+l)
}

func TestRatiosSumToOne(t *testing.T) {
	for d := -5; d <= 20000; d++ {
		e, m, l := Ratios(d)
		if !assert.Equal(t, 1.0, e+m+l, "duration %d", d) {
			return
		}
		assert.GreaterOrEqual(t, e, 0.0)
		assert.GreaterOrEqual(t, m, 0.0)
		assert.GreaterOrEqual(t, l, 0.0)
	}
}

func TestRatiosShortMatch(t *testing.T) {
	e, m, l := Ratios(480)
	assert.Equal(t, 1.0, e)
	assert.Equal(t, 0.0, m)
	assert.Equal(t, 0.0, l)

	// 20 minutes: early 0.5, mid limited to the remaining half.
	e, m, l = Ratios(1200)
	assert.Equal(t, 0.5, e)
	assert.Equal(t, 0.5, m)
	assert.Equal(t, 0.0, l)
}

func TestSplitSumsToTotal(t *testing.T) {
	for _, d := range []int{300, 900, 1234, 1800, 2700, 4000} {
		e, m, _ := Ratios(d)
		for c := 0; c <= 60; c++ {
			parts := Split(c, e, m)
			assert.Equal(t, c, parts[0]+parts[1]+parts[2], "duration %d counter %d", d, c)
			for _, p := range parts {
				assert.GreaterOrEqual(t, p, 0)
			}
		}
	}
}

func TestSplitResidualAbsorbsRounding(t *testing.T) {
	// 1800s: 5 * 1/3 = 1.67 -> 2, 5 * 0.5 = 2.5 -> 3, late 0.
	assert.Equal(t, [3]int{2, 3, 0}, Split(5, 1.0/3, 0.5))
	// Rounding both up would exceed the total; mid is capped.
	assert.Equal(t, [3]int{1, 0, 0}, Split(1, 0.5, 0.5))
}

func TestSeconds(t *testing.T) {
	e, m, l := Seconds(1800)
	assert.Equal(t, []int{600, 900, 300}, []int{e, m, l})
	e, m, l = Seconds(420)
	assert.Equal(t, []int{420, 0, 0}, []int{e, m, l})
}

func TestEstimateProportional(t *testing.T) {
	m := match.NewEnrichedMatch(match.MatchSummary{
		MatchID: 1, Duration: 1800, Kills: 9, Deaths: 3, Assists: 12,
		LastHits: 300, Denies: 10, GoldPerMin: 600, XPPerMin: 720,
	})
	b := Estimate(&m)

	assert.Equal(t, SourceProportional, b.Kills.Source)
	for _, c := range []Counter{b.Kills, b.Deaths, b.Assists, b.LastHits, b.Denies} {
		assert.Equal(t, c.Total, c.Early+c.Mid+c.Late)
	}
	assert.Equal(t, 100, b.LastHits.Early)
	assert.Equal(t, 150, b.LastHits.Mid)
	assert.Equal(t, 50, b.LastHits.Late)

	assert.Equal(t, 6000.0, b.Segments[0].Gold)
	assert.Equal(t, 9000.0, b.Segments[1].Gold)
	assert.Equal(t, 3000.0, b.Segments[2].Gold)
	assert.Equal(t, 3600.0, b.Segments[2].XP)
	assert.Nil(t, b.EventCounts)
}

func TestEstimateEventLogOverride(t *testing.T) {
	m := match.NewEnrichedMatch(match.MatchSummary{MatchID: 2, PlayerSlot: 3, Duration: 2400, Kills: 3, Assists: 5})
	m.Events = []match.LogEvent{
		{Time: 120, Type: match.EventKill, PlayerSlot: 3},
		{Time: 200, Type: match.EventWard, PlayerSlot: 3},
		{Time: 1700, Type: match.EventKill, PlayerSlot: 3},
		{Time: 1800, Type: match.EventKill, PlayerSlot: 3},
		{Time: 1900, Type: match.EventKill, PlayerSlot: 4},
		{Time: 700, Type: match.EventAssist, PlayerSlot: 3},
		{Time: 800, Type: "building_kill", PlayerSlot: 3},
	}
	b := Estimate(&m)

	// Complete kill log replaces the estimate.
	assert.Equal(t, SourceEventLog, b.Kills.Source)
	assert.Equal(t, [3]int{1, 0, 2}, b.Kills.Values())

	// One assist event for five assists: proportional stays.
	assert.Equal(t, SourceProportional, b.Assists.Source)
	assert.Equal(t, 5, b.Assists.Early+b.Assists.Mid+b.Assists.Late)

	require.NotNil(t, b.EventCounts)
	assert.Equal(t, [3]int{1, 0, 0}, b.EventCounts[match.EventWard])
	assert.Equal(t, [3]int{0, 1, 0}, b.EventCounts[match.EventAssist])
	_, hasBuilding := b.EventCounts["building_kill"]
	assert.False(t, hasBuilding)
}

func TestEstimateAll(t *testing.T) {
	matches := []match.EnrichedMatch{
		match.NewEnrichedMatch(match.MatchSummary{Duration: 1800, Kills: 6, GoldPerMin: 600}),
		match.NewEnrichedMatch(match.MatchSummary{Duration: 1800, Kills: 0, GoldPerMin: 400}),
		match.NewEnrichedMatch(match.MatchSummary{Duration: 0, Kills: 30}),
	}
	out, avg := EstimateAll(matches)
	assert.Len(t, out, 2)
	assert.Equal(t, 2, avg.Matches)
	assert.Equal(t, 3.0, avg.Kills[0]+avg.Kills[1]+avg.Kills[2])
	assert.Equal(t, 5000.0, avg.Gold[0])
}

func TestPhaseOf(t *testing.T) {
	assert.Equal(t, 0, PhaseOf(-60))
	assert.Equal(t, 0, PhaseOf(599))
	assert.Equal(t, 1, PhaseOf(600))
	assert.Equal(t, 2, PhaseOf(1500))
}
