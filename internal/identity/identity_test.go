package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dotalens/internal/match"
)

func sampleDetail() *match.MatchDetail {
	return &match.MatchDetail{
		MatchID: 1,
		Players: []match.PlayerRecord{
			{AccountID: 111, PlayerSlot: 0, HeroID: 1},
			{AccountID: match.AnonymousAccountID, PlayerSlot: 1, HeroID: 2},
			{AccountID: 0, PlayerSlot: 2, HeroID: 3},
			{AccountID: 444, PlayerSlot: 128, HeroID: 4},
			{AccountID: 0, PlayerSlot: 129, HeroID: 3},
		},
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		subject    Subject
		wantSlot   int
		wantMethod string
	}{
		{"account id wins", Subject{AccountID: 444, PlayerSlot: 0, HasSlot: true}, 128, match.ResolvedByAccountID},
		{"hidden account falls back to slot", Subject{AccountID: 999, PlayerSlot: 1, HasSlot: true}, 1, match.ResolvedByPlayerSlot},
		{"anonymous id is never matched", Subject{AccountID: match.AnonymousAccountID, PlayerSlot: 2, HasSlot: true}, 2, match.ResolvedByPlayerSlot},
		{"slot zero is valid", Subject{PlayerSlot: 0, HasSlot: true}, 0, match.ResolvedByPlayerSlot},
		{"hero id restricted to side", Subject{PlayerSlot: 5, HeroID: 3, HasSlot: true}, 2, match.ResolvedByHeroID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, method := Resolve(sampleDetail(), tt.subject)
			require.NotNil(t, p)
			assert.Equal(t, tt.wantSlot, p.PlayerSlot)
			assert.Equal(t, tt.wantMethod, method)
		})
	}
}

func TestResolveAmbiguousHero(t *testing.T) {
	// Hero 3 appears on both sides and no slot is known.
	p, method := Resolve(sampleDetail(), Subject{HeroID: 3})
	assert.Nil(t, p)
	assert.Equal(t, match.ResolvedByNone, method)
}

func TestResolveNilDetail(t *testing.T) {
	p, method := Resolve(nil, Subject{AccountID: 1})
	assert.Nil(t, p)
	assert.Equal(t, match.ResolvedByNone, method)
}
