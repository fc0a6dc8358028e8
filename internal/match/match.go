// Package match defines the request-scoped records the analytics engine
// passes between stages. MatchSummary and MatchDetail are the two upstream
// shapes and are never modified after decoding; EnrichedMatch is the single
// merge target built from both.
package match

// RadiantSlotLimit is the first player slot on the dire side. Slots 0-4 are
// radiant, 128-132 are dire.
const RadiantSlotLimit = 128

// AnonymousAccountID is reported by the provider for players with a
// private profile.
const AnonymousAccountID int64 = 4294967295

// IsRadiant reports whether a player slot belongs to the radiant side.
func IsRadiant(slot int) bool {
	return slot < RadiantSlotLimit
}

// Won reports whether a player in slot won a match with the given outcome.
func Won(slot int, radiantWin bool) bool {
	return IsRadiant(slot) == radiantWin
}

// KDA returns (kills + assists) / deaths with deaths floored to 1.
func KDA(kills, deaths, assists int) float64 {
	if deaths < 1 {
		deaths = 1
	}
	return float64(kills+assists) / float64(deaths)
}

// MatchSummary is one subject's entry from the recent-matches list.
// Rate fields may be stale or zero; Duration and HeroID are 0 when absent.
type MatchSummary struct {
	MatchID    int64   `json:"match_id"`
	PlayerSlot int     `json:"player_slot"`
	RadiantWin bool    `json:"radiant_win"`
	Kills      int     `json:"kills"`
	Deaths     int     `json:"deaths"`
	Assists    int     `json:"assists"`
	GoldPerMin float64 `json:"gold_per_min"`
	XPPerMin   float64 `json:"xp_per_min"`
	StartTime  int64   `json:"start_time"`
	Duration   int     `json:"duration"`
	HeroID     int     `json:"hero_id"`
	LastHits   int     `json:"last_hits"`
	Denies     int     `json:"denies"`
	HeroDamage int     `json:"hero_damage"`
	LaneRole   int     `json:"lane_role"`
}

// Won reports whether the subject won this match.
func (s MatchSummary) Won() bool {
	return Won(s.PlayerSlot, s.RadiantWin)
}

// PurchaseEntry is one line of a player's authoritative purchase log.
type PurchaseEntry struct {
	Key  string `json:"key"`
	Time int    `json:"time"`
}

// Event types recognized in the generic match event log.
const (
	EventKill      = "kill"
	EventDeath     = "death"
	EventAssist    = "assist"
	EventWard      = "ward"
	EventRune      = "rune"
	EventCampStack = "camp_stack"
	EventBuyback   = "buyback"
	EventItem      = "item"
)

// NoSlot marks an event that is not attributable to a single player.
const NoSlot = -1

// LogEvent is one entry in a match's generic event log.
type LogEvent struct {
	Time       int    `json:"time"`
	Type       string `json:"type"`
	Key        string `json:"key,omitempty"`
	PlayerSlot int    `json:"player_slot"`
}

// Reserve (backpack) slot count alongside the six active item slots.
const (
	ActiveItemSlots  = 6
	ReserveItemSlots = 3
)

// PlayerRecord is one participant's telemetry inside a MatchDetail.
type PlayerRecord struct {
	AccountID    int64                 `json:"account_id"`
	PlayerSlot   int                   `json:"player_slot"`
	HeroID       int                   `json:"hero_id"`
	Items        [ActiveItemSlots]int  `json:"items"`
	Backpack     [ReserveItemSlots]int `json:"backpack"`
	NeutralItem  int                   `json:"neutral_item"`
	Kills        int                   `json:"kills"`
	Deaths       int                   `json:"deaths"`
	Assists      int                   `json:"assists"`
	LastHits     int                   `json:"last_hits"`
	Denies       int                   `json:"denies"`
	GoldPerMin   float64               `json:"gold_per_min"`
	XPPerMin     float64               `json:"xp_per_min"`
	TotalGold    int                   `json:"total_gold"`
	TotalXP      int                   `json:"total_xp"`
	HeroDamage   int                   `json:"hero_damage"`
	TowerDamage  int                   `json:"tower_damage"`
	HeroHealing  int                   `json:"hero_healing"`
	ObsPlaced    int                   `json:"obs_placed"`
	SenPlaced    int                   `json:"sen_placed"`
	CampsStacked int                   `json:"camps_stacked"`
	BuybackCount int                   `json:"buyback_count"`
	LaneRole     int                   `json:"lane_role"`
	PurchaseLog  []PurchaseEntry       `json:"purchase_log,omitempty"`
}

// HasPurchaseLog reports whether the record carries an authoritative log.
func (p *PlayerRecord) HasPurchaseLog() bool {
	return len(p.PurchaseLog) > 0
}

// MatchDetail is the full payload for one match.
type MatchDetail struct {
	MatchID    int64          `json:"match_id"`
	Duration   int            `json:"duration"`
	RadiantWin bool           `json:"radiant_win"`
	StartTime  int64          `json:"start_time"`
	Players    []PlayerRecord `json:"players"`
	Events     []LogEvent     `json:"events,omitempty"`
}

// PlayerBySlot returns the participant in slot, or nil.
func (d *MatchDetail) PlayerBySlot(slot int) *PlayerRecord {
	for i := range d.Players {
		if d.Players[i].PlayerSlot == slot {
			return &d.Players[i]
		}
	}
	return nil
}

// EventsForSlot returns the events attributable to one player slot, in log order.
func (d *MatchDetail) EventsForSlot(slot int) []LogEvent {
	var out []LogEvent
	for _, e := range d.Events {
		if e.PlayerSlot == slot {
			out = append(out, e)
		}
	}
	return out
}
