package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKDA(t *testing.T) {
	tests := []struct {
		name                   string
		kills, deaths, assists int
		want                   float64
	}{
		{"zero deaths floors to one", 7, 0, 5, 12},
		{"regular", 10, 4, 6, 4},
		{"all zero", 0, 0, 0, 0},
		{"negative deaths floors to one", 2, -3, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KDA(tt.kills, tt.deaths, tt.assists))
		})
	}
}

func TestWon(t *testing.T) {
	assert.True(t, Won(0, true))
	assert.True(t, Won(4, true))
	assert.False(t, Won(128, true))
	assert.True(t, Won(132, false))
	assert.False(t, Won(3, false))
}

func TestMatchDetailLookups(t *testing.T) {
	d := MatchDetail{
		Players: []PlayerRecord{{PlayerSlot: 0, HeroID: 1}, {PlayerSlot: 130, HeroID: 44}},
		Events: []LogEvent{
			{Time: 10, Type: EventKill, PlayerSlot: 130},
			{Time: 20, Type: EventRune, PlayerSlot: 0},
			{Time: 30, Type: EventWard, PlayerSlot: 130},
		},
	}

	assert.Equal(t, 44, d.PlayerBySlot(130).HeroID)
	assert.Nil(t, d.PlayerBySlot(4))
	assert.Len(t, d.EventsForSlot(130), 2)

	em := NewEnrichedMatch(MatchSummary{PlayerSlot: 130})
	em.Events = d.Events
	assert.Len(t, em.SubjectEvents(), 2)
	assert.Equal(t, ResolvedByNone, em.ResolvedBy)
}
