package match

// Resolution methods reported by the identity resolver.
const (
	ResolvedByAccountID  = "account_id"
	ResolvedByPlayerSlot = "player_slot"
	ResolvedByHeroID     = "hero_id"
	ResolvedByNone       = "none"
)

// EnrichedMatch joins a MatchSummary with its resolved PlayerRecord. It is
// the only mutable record in the pipeline: it starts as a copy of the
// summary and is filled in as the detail fetch resolves.
type EnrichedMatch struct {
	MatchSummary

	// Record is nil when enrichment failed or the subject was not found.
	Record     *PlayerRecord `json:"-"`
	Events     []LogEvent    `json:"-"`
	Enriched   bool          `json:"enriched"`
	ResolvedBy string        `json:"resolved_by"`
}

// NewEnrichedMatch seeds an EnrichedMatch from the summary's own fields.
func NewEnrichedMatch(s MatchSummary) EnrichedMatch {
	return EnrichedMatch{
		MatchSummary: s,
		ResolvedBy:   ResolvedByNone,
	}
}

// KDA returns the match's kill-death-assist ratio.
func (m *EnrichedMatch) KDA() float64 {
	return KDA(m.Kills, m.Deaths, m.Assists)
}

// SubjectEvents returns the events attributable to the subject's slot.
func (m *EnrichedMatch) SubjectEvents() []LogEvent {
	var out []LogEvent
	for _, e := range m.Events {
		if e.PlayerSlot == m.PlayerSlot {
			out = append(out, e)
		}
	}
	return out
}
