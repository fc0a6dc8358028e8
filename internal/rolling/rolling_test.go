package rolling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dotalens/internal/match"
)

func enriched(slot int, radiantWin bool, k, d, a int, gpm float64) match.EnrichedMatch {
	return match.NewEnrichedMatch(match.MatchSummary{
		PlayerSlot: slot, RadiantWin: radiantWin,
		Kills: k, Deaths: d, Assists: a,
		GoldPerMin: gpm, XPPerMin: gpm + 50,
	})
}

func TestWinRateFiveMatches(t *testing.T) {
	matches := []match.EnrichedMatch{
		enriched(0, true, 5, 2, 5, 500),
		enriched(1, true, 5, 2, 5, 500),
		enriched(2, true, 5, 2, 5, 500),
		enriched(3, false, 1, 5, 2, 300),
		enriched(4, false, 1, 5, 2, 300),
	}
	res := Aggregate(matches, []int{5})
	w, ok := res.Window(5)
	require.True(t, ok)
	assert.Equal(t, 5, w.Count)
	assert.Equal(t, 3, w.Wins)
	assert.Equal(t, 60.0, w.WinRate)
	assert.InDelta(t, (3*5.0+2*0.6)/5, w.KDA, 1e-9)
	assert.Equal(t, 420.0, w.GoldPerMin)
	assert.Equal(t, 470.0, w.XPPerMin)
	assert.Nil(t, res.Trend)
}

func TestDireSlotWins(t *testing.T) {
	res := Aggregate([]match.EnrichedMatch{
		enriched(129, false, 0, 0, 0, 0),
		enriched(130, true, 0, 0, 0, 0),
	}, []int{2})
	assert.Equal(t, 50.0, res.Windows[0].WinRate)
}

func TestZeroDeathsKDA(t *testing.T) {
	res := Aggregate([]match.EnrichedMatch{enriched(0, true, 7, 0, 3, 0)}, []int{1})
	assert.Equal(t, 10.0, res.Windows[0].KDA)
}

func TestEmptyInput(t *testing.T) {
	res := Aggregate(nil, []int{5, 10})
	assert.True(t, res.Empty)
	require.Len(t, res.Windows, 2)
	for _, w := range res.Windows {
		assert.Equal(t, 0, w.Count)
		assert.Equal(t, 0.0, w.WinRate)
		assert.Equal(t, 0.0, w.KDA)
		assert.Equal(t, 0.0, w.GoldPerMin)
	}
	require.NotNil(t, res.Trend)
	assert.Equal(t, Delta{From: 5, To: 10}, *res.Trend)
}

func TestTrendRecentMinusWider(t *testing.T) {
	var matches []match.EnrichedMatch
	for i := 0; i < 5; i++ {
		matches = append(matches, enriched(0, true, 6, 2, 6, 600))
	}
	for i := 0; i < 5; i++ {
		matches = append(matches, enriched(0, false, 2, 6, 2, 400))
	}
	res := Aggregate(matches, []int{10, 5})
	require.NotNil(t, res.Trend)
	assert.Equal(t, 5, res.Trend.From)
	assert.Equal(t, 10, res.Trend.To)
	assert.Equal(t, 50.0, res.Trend.WinRate)
	assert.Equal(t, 100.0, res.Trend.GoldPerMin)
	assert.Greater(t, res.Trend.KDA, 0.0)
	assert.Less(t, res.Trend.Deaths, 0.0)
}

func TestWindowLargerThanHistory(t *testing.T) {
	res := Aggregate([]match.EnrichedMatch{enriched(0, true, 1, 1, 1, 200)}, []int{10})
	assert.Equal(t, 10, res.Windows[0].Size)
	assert.Equal(t, 1, res.Windows[0].Count)
	assert.Equal(t, 100.0, res.Windows[0].WinRate)
}

func TestNormalizeWindows(t *testing.T) {
	assert.Equal(t, []int{5, 10}, normalizeWindows(nil))
	assert.Equal(t, []int{3, 20}, normalizeWindows([]int{20, 0, 3, -1, 20}))
}
