// Package itemtiming determines when each owned item was bought.
//
// The provider only sometimes ships an authoritative purchase log, so each
// item is resolved through a short chain of resolvers, first hit wins:
// purchase log, then the generic event log, then a deterministic gold-curve
// estimate. Each result is also classified against a reference timing.
package itemtiming

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/albapepper/dotalens/internal/catalog"
	"github.com/albapepper/dotalens/internal/match"
)

// Resolution tiers.
const (
	TierLog       = "log"
	TierInferred  = "inferred"
	TierEstimated = "estimated"
)

// Timing classifications.
const (
	TimingEarly   = "early"
	TimingOnTime  = "on_time"
	TimingLate    = "late"
	TimingUnknown = "unknown"
)

// Gold-curve model constants.
const (
	BaselineGold      = 600
	DefaultGoldPerMin = 300
)

// Classification band around the optimum.
const (
	earlyFactor = 0.7
	lateFactor  = 1.3
)

// ItemLookup resolves item ids to reference entries. Unknown ids must still
// return a usable (placeholder) entry.
type ItemLookup interface {
	Item(id int) catalog.Item
}

// OptimalTimings maps an internal item name (no "item_" prefix) to its
// reference purchase second.
type OptimalTimings map[string]int

// DefaultOptimalTimings returns a fresh copy of the built-in reference table.
func DefaultOptimalTimings() OptimalTimings {
	return OptimalTimings{
		"power_treads":     420,
		"phase_boots":      420,
		"arcane_boots":     420,
		"tranquil_boots":   480,
		"magic_wand":       360,
		"bracer":           300,
		"wraith_band":      300,
		"null_talisman":    300,
		"hand_of_midas":    600,
		"battle_fury":      960,
		"bfury":            960,
		"maelstrom":        780,
		"blink":            900,
		"force_staff":      1080,
		"glimmer_cape":     1080,
		"blade_mail":       1020,
		"desolator":        1020,
		"echo_sabre":       840,
		"manta":            1200,
		"black_king_bar":   1500,
		"ultimate_scepter": 1500,
		"sange_and_yasha":  1260,
		"radiance":         1260,
		"orchid":           1080,
		"mekansm":          1080,
		"pipe":             1380,
		"guardian_greaves": 1620,
		"skadi":            1980,
		"butterfly":        2100,
		"satanic":          2040,
		"assault":          2100,
		"heart":            2160,
		"greater_crit":     1920,
		"monkey_king_bar":  1980,
		"abyssal_blade":    2100,
		"sheepstick":       1980,
		"refresher":        2280,
		"shivas_guard":     1920,
		"octarine_core":    1920,
		"aether_lens":      1080,
		"vanguard":         720,
		"crimson_guard":    1380,
		"lotus_orb":        1500,
		"spirit_vessel":    1200,
		"urn_of_shadows":   600,
		"solar_crest":      1380,
		"hurricane_pike":   1680,
		"silver_edge":      1800,
		"invis_sword":      1200,
		"diffusal_blade":   1080,
		"heavens_halberd":  1500,
		"eternal_shroud":   1560,
		"kaya":             960,
		"yasha":            900,
		"sange":            900,
		"mjollnir":         1500,
		"travel_boots":     1800,
		"linken_sphere":    1740,
		"sphere":           1740,
		"nullifier":        2100,
		"bloodthorn":       2220,
		"ethereal_blade":   1740,
		"wind_waker":       2040,
		"cyclone":          1140,
		"holy_locket":      1500,
		"veil_of_discord":  900,
		"rod_of_atos":      1020,
		"gungir":           1800,
		"witch_blade":      900,
		"falcon_blade":     720,
		"mask_of_madness":  720,
		"armlet":           720,
	}
}

// Estimate is the resolved purchase time of one owned item.
type Estimate struct {
	ItemID        int    `json:"item_id"`
	Key           string `json:"key"`
	Name          string `json:"name"`
	Cost          int    `json:"cost"`
	Slot          int    `json:"slot"`
	Reserve       bool   `json:"reserve"`
	Second        int    `json:"second"`
	Tier          string `json:"tier"`
	Timing        string `json:"timing"`
	OptimalSecond int    `json:"optimal_second,omitempty"`
}

// Input is everything the resolver needs about one player in one match.
type Input struct {
	Record     *match.PlayerRecord
	Events     []match.LogEvent
	Duration   int
	GoldPerMin float64
}

// Resolver resolves item purchase times against a fixed reference table.
type Resolver struct {
	items   ItemLookup
	optimal OptimalTimings
}

// NewResolver creates a Resolver. optimal may be nil, in which case every
// item classifies as unknown.
func NewResolver(items ItemLookup, optimal OptimalTimings) *Resolver {
	return &Resolver{items: items, optimal: optimal}
}

// owned is one item the player holds, with its identity candidates.
type owned struct {
	slot    int
	reserve bool
	item    catalog.Item
	names   []string // normalized internal-name candidates
	idStr   string
}

// resolverFunc returns the purchase second of an item, if this tier knows it.
type resolverFunc func(it *owned) (int, bool)

// Resolve returns one estimate per owned item, ordered by purchase second.
// Neutral items are not purchased and are skipped.
func (r *Resolver) Resolve(in Input) []Estimate {
	if in.Record == nil {
		return nil
	}
	items := r.ownedItems(in.Record)
	if len(items) == 0 {
		return []Estimate{}
	}

	chain := []struct {
		tier string
		fn   resolverFunc
	}{
		{TierLog, fromPurchaseLog(in.Record.PurchaseLog)},
		{TierInferred, fromEventLog(in.Events, in.Record.PlayerSlot)},
	}

	out := make([]Estimate, len(items))
	var pending []int
	for i := range items {
		it := &items[i]
		out[i] = Estimate{
			ItemID:  it.item.ID,
			Key:     it.item.Key,
			Name:    it.item.DisplayName,
			Cost:    it.item.Cost,
			Slot:    it.slot,
			Reserve: it.reserve,
		}
		resolved := false
		for _, c := range chain {
			if sec, ok := c.fn(it); ok {
				out[i].Second, out[i].Tier = sec, c.tier
				resolved = true
				break
			}
		}
		if !resolved {
			pending = append(pending, i)
		}
	}

	if len(pending) > 0 {
		est := goldCurve(items, pending, in.Duration, in.GoldPerMin)
		for _, i := range pending {
			out[i].Second, out[i].Tier = est[i], TierEstimated
		}
	}

	for i := range out {
		out[i].Timing, out[i].OptimalSecond = r.classify(out[i])
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Second < out[b].Second
	})
	return out
}

func (r *Resolver) ownedItems(rec *match.PlayerRecord) []owned {
	var out []owned
	add := func(id, slot int, reserve bool) {
		if id <= 0 {
			return
		}
		it := r.items.Item(id)
		out = append(out, owned{
			slot:    slot,
			reserve: reserve,
			item:    it,
			names:   nameCandidates(it),
			idStr:   strconv.Itoa(id),
		})
	}
	for i, id := range rec.Items {
		add(id, i, false)
	}
	for i, id := range rec.Backpack {
		add(id, match.ActiveItemSlots+i, true)
	}
	return out
}

// nameCandidates lists the normalized names a log key may use for an item:
// its internal name and a transliteration of its display name.
func nameCandidates(it catalog.Item) []string {
	var out []string
	if !it.Placeholder && it.Key != "" {
		out = append(out, catalog.NormalizeKey(it.Key))
	}
	if !it.Placeholder {
		if t := Transliterate(it.DisplayName); t != "" && (len(out) == 0 || out[0] != t) {
			out = append(out, t)
		}
	}
	return out
}

// Transliterate derives an internal-style name from a display name:
// "Eul's Scepter of Divinity" becomes "euls_scepter_of_divinity".
func Transliterate(display string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(display) {
		switch {
		case r == '\'' || r == '’':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			underscore = false
		default:
			if b.Len() > 0 && !underscore {
				b.WriteByte('_')
				underscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// matchesKey reports whether a log key refers to the item, by name
// candidate or by numeric id substring.
func (it *owned) matchesKey(key string) bool {
	k := catalog.NormalizeKey(key)
	for _, n := range it.names {
		if k == n {
			return true
		}
	}
	return containsID(key, it.idStr)
}

// containsID matches id as a whole digit run inside s, so id 1 does not
// match "116".
func containsID(s, id string) bool {
	for i := 0; i < len(s); {
		if s[i] < '0' || s[i] > '9' {
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if s[i:j] == id {
			return true
		}
		i = j
	}
	return false
}

// fromPurchaseLog resolves from the authoritative log. Each entry is used at
// most once, so two copies of an item map to two purchases.
func fromPurchaseLog(log []match.PurchaseEntry) resolverFunc {
	used := make([]bool, len(log))
	return func(it *owned) (int, bool) {
		for i, e := range log {
			if used[i] || !it.matchesKey(e.Key) {
				continue
			}
			used[i] = true
			return max(e.Time, 0), true
		}
		return 0, false
	}
}

// fromEventLog infers a purchase from item events of the owning slot. An
// event naming this item (by name or numeric id) wins; otherwise the first
// item-typed event with no concrete key is taken. Each event is used once.
func fromEventLog(events []match.LogEvent, slot int) resolverFunc {
	var candidates []match.LogEvent
	for _, e := range events {
		if e.PlayerSlot == slot && isItemEvent(e) {
			candidates = append(candidates, e)
		}
	}
	used := make([]bool, len(candidates))
	take := func(i int) (int, bool) {
		used[i] = true
		return max(candidates[i].Time, 0), true
	}
	return func(it *owned) (int, bool) {
		for i, e := range candidates {
			if !used[i] && it.matchesKey(e.Key) {
				return take(i)
			}
		}
		for i, e := range candidates {
			if !used[i] && refersToItem(e.Type) && genericKey(e.Key) {
				return take(i)
			}
		}
		return 0, false
	}
}

// nonItemEvents are typed events whose keys never name an item.
var nonItemEvents = map[string]bool{
	match.EventKill:      true,
	match.EventDeath:     true,
	match.EventAssist:    true,
	match.EventWard:      true,
	match.EventRune:      true,
	match.EventCampStack: true,
	match.EventBuyback:   true,
}

// isItemEvent reports whether an event can describe a purchase. An untyped
// event counts when its key carries digits; a typed one when its key is a
// bare item id and the type is not one of the tracked non-item events.
func isItemEvent(e match.LogEvent) bool {
	if refersToItem(e.Type) || refersToItem(e.Key) {
		return true
	}
	if e.Type == "" {
		return strings.ContainsAny(e.Key, "0123456789")
	}
	return allDigits(e.Key) && !nonItemEvents[e.Type]
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func refersToItem(s string) bool {
	return strings.Contains(strings.ToLower(s), "item")
}

func genericKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", "item", "purchase":
		return true
	}
	return false
}

// goldCurve estimates purchase seconds for the pending item indexes. Items
// are bought in ascending cost order against a running affordable-gold
// counter starting at the baseline.
func goldCurve(items []owned, pending []int, duration int, goldPerMin float64) map[int]int {
	if goldPerMin <= 0 {
		goldPerMin = DefaultGoldPerMin
	}
	gps := goldPerMin / 60

	order := append([]int(nil), pending...)
	sort.SliceStable(order, func(a, b int) bool {
		return items[order[a]].item.Cost < items[order[b]].item.Cost
	})

	out := make(map[int]int, len(order))
	counter := float64(BaselineGold)
	last := 0.0
	for _, i := range order {
		cost := float64(items[i].item.Cost)
		var t float64
		if counter >= cost {
			t = (cost - BaselineGold) / gps
		} else {
			t = last + (cost-counter)/gps
			counter = cost
		}
		t = clamp(t, 0, float64(duration))
		last = t
		out[i] = int(math.Round(t))
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if hi > lo && v > hi {
		return hi
	}
	return v
}

// classify places a purchase second relative to the item's reference.
func (r *Resolver) classify(e Estimate) (string, int) {
	opt, ok := r.optimal[catalog.NormalizeKey(e.Key)]
	if !ok || opt <= 0 {
		return TimingUnknown, 0
	}
	return Classify(e.Second, opt), opt
}

// Classify compares a purchase second against an optimum: within 30% is on
// time, below 70% early, above 130% late.
func Classify(second, optimal int) string {
	if optimal <= 0 {
		return TimingUnknown
	}
	ratio := float64(second) / float64(optimal)
	switch {
	case ratio < earlyFactor:
		return TimingEarly
	case ratio > lateFactor:
		return TimingLate
	default:
		return TimingOnTime
	}
}
