// Package identity locates a subject's PlayerRecord inside a MatchDetail.
//
// The provider hides account ids for private profiles, so the lookup walks a
// fallback chain: account id, then player slot, then hero id. The slot from
// the subject's own match list is the authoritative join key when the account
// is hidden; the account id step only short-circuits it when visible.
package identity

import "github.com/albapepper/dotalens/internal/match"

// Subject identifies whose record to find. Zero fields are skipped.
type Subject struct {
	AccountID  int64
	PlayerSlot int
	HeroID     int
	// HasSlot distinguishes slot 0 (a valid radiant slot) from "unknown".
	HasSlot bool
}

// SubjectFromSummary builds the lookup key for one list entry.
func SubjectFromSummary(accountID int64, s match.MatchSummary) Subject {
	return Subject{
		AccountID:  accountID,
		PlayerSlot: s.PlayerSlot,
		HeroID:     s.HeroID,
		HasSlot:    true,
	}
}

type step func(d *match.MatchDetail, s Subject) *match.PlayerRecord

var chain = []struct {
	method string
	fn     step
}{
	{match.ResolvedByAccountID, byAccountID},
	{match.ResolvedByPlayerSlot, byPlayerSlot},
	{match.ResolvedByHeroID, byHeroID},
}

// Resolve returns the subject's record and the method that found it. The
// record is nil and the method is match.ResolvedByNone when nothing matched.
func Resolve(d *match.MatchDetail, s Subject) (*match.PlayerRecord, string) {
	if d == nil {
		return nil, match.ResolvedByNone
	}
	for _, c := range chain {
		if p := c.fn(d, s); p != nil {
			return p, c.method
		}
	}
	return nil, match.ResolvedByNone
}

func byAccountID(d *match.MatchDetail, s Subject) *match.PlayerRecord {
	if s.AccountID <= 0 || s.AccountID == match.AnonymousAccountID {
		return nil
	}
	for i := range d.Players {
		if d.Players[i].AccountID == s.AccountID {
			return &d.Players[i]
		}
	}
	return nil
}

func byPlayerSlot(d *match.MatchDetail, s Subject) *match.PlayerRecord {
	if !s.HasSlot {
		return nil
	}
	return d.PlayerBySlot(s.PlayerSlot)
}

// byHeroID accepts only an unambiguous holder of the hero. When the slot is
// known the search is restricted to the subject's side.
func byHeroID(d *match.MatchDetail, s Subject) *match.PlayerRecord {
	if s.HeroID == 0 {
		return nil
	}
	var found *match.PlayerRecord
	for i := range d.Players {
		p := &d.Players[i]
		if p.HeroID != s.HeroID {
			continue
		}
		if s.HasSlot && match.IsRadiant(p.PlayerSlot) != match.IsRadiant(s.PlayerSlot) {
			continue
		}
		if found != nil {
			return nil
		}
		found = p
	}
	return found
}
