package opendota

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/albapepper/dotalens/internal/match"
	"github.com/albapepper/dotalens/internal/provider"
)

// listProjection asks the list endpoint for the rate and farm fields it
// omits by default. Older deployments ignore it, which is why every field is
// optional on decode.
var listProjection = []string{
	"match_id", "player_slot", "radiant_win", "kills", "deaths", "assists",
	"gold_per_min", "xp_per_min", "start_time", "duration", "hero_id",
	"last_hits", "denies", "hero_damage", "lane_role",
}

// --------------------------------------------------------------------------
// Recent matches
// --------------------------------------------------------------------------

type matchListRaw struct {
	MatchID    provider.Number `json:"match_id"`
	PlayerSlot provider.Number `json:"player_slot"`
	RadiantWin *bool           `json:"radiant_win"`
	Kills      provider.Number `json:"kills"`
	Deaths     provider.Number `json:"deaths"`
	Assists    provider.Number `json:"assists"`
	GoldPerMin provider.Number `json:"gold_per_min"`
	XPPerMin   provider.Number `json:"xp_per_min"`
	StartTime  provider.Number `json:"start_time"`
	Duration   provider.Number `json:"duration"`
	HeroID     provider.Number `json:"hero_id"`
	LastHits   provider.Number `json:"last_hits"`
	Denies     provider.Number `json:"denies"`
	HeroDamage provider.Number `json:"hero_damage"`
	LaneRole   provider.Number `json:"lane_role"`
}

// RecentMatches returns up to limit of the account's most recent matches,
// most recent first.
func (c *Client) RecentMatches(ctx context.Context, accountID int64, limit int) ([]match.MatchSummary, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	for _, f := range listProjection {
		params.Add("project", f)
	}

	var raw []matchListRaw
	path := fmt.Sprintf("/players/%d/matches", accountID)
	if err := c.get(ctx, path, params, &raw); err != nil {
		return nil, fmt.Errorf("fetch recent matches for %d: %w", accountID, err)
	}

	out := make([]match.MatchSummary, 0, len(raw))
	for _, r := range raw {
		if !r.MatchID.Valid {
			continue
		}
		out = append(out, normalizeSummary(r))
	}
	// The list endpoint is newest-first already; enforce it for the aggregator.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime > out[j].StartTime
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func normalizeSummary(r matchListRaw) match.MatchSummary {
	s := match.MatchSummary{
		MatchID:    r.MatchID.Int64(),
		PlayerSlot: r.PlayerSlot.Int(),
		Kills:      r.Kills.Int(),
		Deaths:     r.Deaths.Int(),
		Assists:    r.Assists.Int(),
		GoldPerMin: r.GoldPerMin.Float(),
		XPPerMin:   r.XPPerMin.Float(),
		StartTime:  r.StartTime.Int64(),
		Duration:   r.Duration.Int(),
		HeroID:     r.HeroID.Int(),
		LastHits:   r.LastHits.Int(),
		Denies:     r.Denies.Int(),
		HeroDamage: r.HeroDamage.Int(),
		LaneRole:   r.LaneRole.Int(),
	}
	if r.RadiantWin != nil {
		s.RadiantWin = *r.RadiantWin
	}
	return s
}

// --------------------------------------------------------------------------
// Full match
// --------------------------------------------------------------------------

type timedKeyRaw struct {
	Time provider.Number `json:"time"`
	Key  interface{}     `json:"key"`
}

type playerRaw struct {
	AccountID    provider.Number `json:"account_id"`
	PlayerSlot   provider.Number `json:"player_slot"`
	HeroID       provider.Number `json:"hero_id"`
	Item0        provider.Number `json:"item_0"`
	Item1        provider.Number `json:"item_1"`
	Item2        provider.Number `json:"item_2"`
	Item3        provider.Number `json:"item_3"`
	Item4        provider.Number `json:"item_4"`
	Item5        provider.Number `json:"item_5"`
	Backpack0    provider.Number `json:"backpack_0"`
	Backpack1    provider.Number `json:"backpack_1"`
	Backpack2    provider.Number `json:"backpack_2"`
	ItemNeutral  provider.Number `json:"item_neutral"`
	Kills        provider.Number `json:"kills"`
	Deaths       provider.Number `json:"deaths"`
	Assists      provider.Number `json:"assists"`
	LastHits     provider.Number `json:"last_hits"`
	Denies       provider.Number `json:"denies"`
	GoldPerMin   provider.Number `json:"gold_per_min"`
	XPPerMin     provider.Number `json:"xp_per_min"`
	TotalGold    provider.Number `json:"total_gold"`
	TotalXP      provider.Number `json:"total_xp"`
	HeroDamage   provider.Number `json:"hero_damage"`
	TowerDamage  provider.Number `json:"tower_damage"`
	HeroHealing  provider.Number `json:"hero_healing"`
	ObsPlaced    provider.Number `json:"obs_placed"`
	SenPlaced    provider.Number `json:"sen_placed"`
	CampsStacked provider.Number `json:"camps_stacked"`
	BuybackCount provider.Number `json:"buyback_count"`
	LaneRole     provider.Number `json:"lane_role"`

	PurchaseLog       []timedKeyRaw              `json:"purchase_log"`
	KillsLog          []timedKeyRaw              `json:"kills_log"`
	RunesLog          []timedKeyRaw              `json:"runes_log"`
	BuybackLog        []timedKeyRaw              `json:"buyback_log"`
	ObsLog            []timedKeyRaw              `json:"obs_log"`
	SenLog            []timedKeyRaw              `json:"sen_log"`
	FirstPurchaseTime map[string]provider.Number `json:"first_purchase_time"`
}

type objectiveRaw struct {
	Time       provider.Number `json:"time"`
	Type       string          `json:"type"`
	Key        interface{}     `json:"key"`
	Slot       provider.Number `json:"slot"`
	PlayerSlot provider.Number `json:"player_slot"`
}

type matchRaw struct {
	MatchID    provider.Number `json:"match_id"`
	Duration   provider.Number `json:"duration"`
	RadiantWin *bool           `json:"radiant_win"`
	StartTime  provider.Number `json:"start_time"`
	Players    []playerRaw     `json:"players"`
	Objectives []objectiveRaw  `json:"objectives"`
}

// Match fetches the full payload for one match.
func (c *Client) Match(ctx context.Context, matchID int64) (*match.MatchDetail, error) {
	var raw matchRaw
	if err := c.get(ctx, fmt.Sprintf("/matches/%d", matchID), nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch match %d: %w", matchID, err)
	}
	if !raw.MatchID.Valid {
		return nil, fmt.Errorf("fetch match %d: %w", matchID, ErrNotFound)
	}
	return normalizeMatch(raw), nil
}

func normalizeMatch(raw matchRaw) *match.MatchDetail {
	d := &match.MatchDetail{
		MatchID:   raw.MatchID.Int64(),
		Duration:  raw.Duration.Int(),
		StartTime: raw.StartTime.Int64(),
		Players:   make([]match.PlayerRecord, 0, len(raw.Players)),
	}
	if raw.RadiantWin != nil {
		d.RadiantWin = *raw.RadiantWin
	}

	for _, p := range raw.Players {
		rec := normalizePlayer(p)
		d.Players = append(d.Players, rec)
		d.Events = append(d.Events, playerEvents(rec.PlayerSlot, p)...)
	}
	for _, o := range raw.Objectives {
		d.Events = append(d.Events, objectiveEvent(o))
	}

	sort.SliceStable(d.Events, func(i, j int) bool {
		return d.Events[i].Time < d.Events[j].Time
	})
	return d
}

func normalizePlayer(p playerRaw) match.PlayerRecord {
	rec := match.PlayerRecord{
		AccountID:    p.AccountID.Int64(),
		PlayerSlot:   p.PlayerSlot.Int(),
		HeroID:       p.HeroID.Int(),
		Items:        [match.ActiveItemSlots]int{p.Item0.Int(), p.Item1.Int(), p.Item2.Int(), p.Item3.Int(), p.Item4.Int(), p.Item5.Int()},
		Backpack:     [match.ReserveItemSlots]int{p.Backpack0.Int(), p.Backpack1.Int(), p.Backpack2.Int()},
		NeutralItem:  p.ItemNeutral.Int(),
		Kills:        p.Kills.Int(),
		Deaths:       p.Deaths.Int(),
		Assists:      p.Assists.Int(),
		LastHits:     p.LastHits.Int(),
		Denies:       p.Denies.Int(),
		GoldPerMin:   p.GoldPerMin.Float(),
		XPPerMin:     p.XPPerMin.Float(),
		TotalGold:    p.TotalGold.Int(),
		TotalXP:      p.TotalXP.Int(),
		HeroDamage:   p.HeroDamage.Int(),
		TowerDamage:  p.TowerDamage.Int(),
		HeroHealing:  p.HeroHealing.Int(),
		ObsPlaced:    p.ObsPlaced.Int(),
		SenPlaced:    p.SenPlaced.Int(),
		CampsStacked: p.CampsStacked.Int(),
		BuybackCount: p.BuybackCount.Int(),
		LaneRole:     p.LaneRole.Int(),
	}
	for _, e := range p.PurchaseLog {
		key := keyString(e.Key)
		if key == "" {
			continue
		}
		rec.PurchaseLog = append(rec.PurchaseLog, match.PurchaseEntry{Key: key, Time: e.Time.Int()})
	}
	return rec
}

// playerEvents flattens the per-player logs into the generic event log.
func playerEvents(slot int, p playerRaw) []match.LogEvent {
	var out []match.LogEvent
	add := func(typ string, entries []timedKeyRaw, fixedKey string) {
		for _, e := range entries {
			key := fixedKey
			if key == "" {
				key = keyString(e.Key)
			}
			out = append(out, match.LogEvent{Time: e.Time.Int(), Type: typ, Key: key, PlayerSlot: slot})
		}
	}
	add(match.EventKill, p.KillsLog, "")
	add(match.EventRune, p.RunesLog, "")
	add(match.EventBuyback, p.BuybackLog, "")
	add(match.EventWard, p.ObsLog, "observer")
	add(match.EventWard, p.SenLog, "sentry")

	keys := make([]string, 0, len(p.FirstPurchaseTime))
	for k := range p.FirstPurchaseTime {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t := p.FirstPurchaseTime[k]
		if !t.Valid {
			continue
		}
		out = append(out, match.LogEvent{Time: t.Int(), Type: "item_first_purchase", Key: k, PlayerSlot: slot})
	}
	return out
}

func objectiveEvent(o objectiveRaw) match.LogEvent {
	slot := match.NoSlot
	switch {
	case o.PlayerSlot.Valid:
		slot = o.PlayerSlot.Int()
	case o.Slot.Valid:
		// Objective "slot" is the 0-9 index; convert to a player slot.
		idx := o.Slot.Int()
		if idx >= 5 {
			idx = match.RadiantSlotLimit + idx - 5
		}
		slot = idx
	}
	typ := strings.ToLower(strings.TrimPrefix(o.Type, "CHAT_MESSAGE_"))
	return match.LogEvent{Time: o.Time.Int(), Type: typ, Key: keyString(o.Key), PlayerSlot: slot}
}

// keyString renders a log key that may be a string or a number.
func keyString(v interface{}) string {
	switch k := v.(type) {
	case string:
		return k
	case nil:
		return ""
	default:
		if f, ok := provider.ExtractValue(k); ok {
			return strconv.FormatInt(int64(f), 10)
		}
		return fmt.Sprint(k)
	}
}
