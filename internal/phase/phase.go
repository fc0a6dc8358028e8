// Package phase splits a match's cumulative counters into early, mid and
// late segments.
//
// Counters are allocated in proportion to how much of the match each phase
// covers, with the late phase taking the residual so the three values always
// add back to the total. When the match's event log carries enough typed
// events for a counter, the per-phase event counts replace the proportional
// split for that counter.
package phase

import (
	"math"

	"github.com/albapepper/dotalens/internal/match"
)

// Phase boundaries in seconds.
const (
	EarlyEnd = 600
	MidEnd   = 1500
)

// Phase names.
const (
	Early = "early"
	Mid   = "mid"
	Late  = "late"
)

// Counter sources.
const (
	SourceProportional = "proportional"
	SourceEventLog     = "event_log"
)

// Window is one fixed phase. End is -1 for the open-ended late phase.
type Window struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Windows lists the three phases in order.
var Windows = [3]Window{
	{Name: Early, Start: 0, End: EarlyEnd},
	{Name: Mid, Start: EarlyEnd, End: MidEnd},
	{Name: Late, Start: MidEnd, End: -1},
}

// Ratios returns the share of a match of duration seconds that falls in each
// phase. The shares always sum to 1; a non-positive duration counts as
// entirely early.
func Ratios(duration int) (early, mid, late float64) {
	if duration <= 0 {
		return 1, 0, 0
	}
	d := float64(duration)
	early = math.Min(1, EarlyEnd/d)
	mid = math.Min(1-early, (MidEnd-EarlyEnd)/d)
	// Subtract the rounded early+mid sum so the three shares add back to
	// exactly 1.
	late = 1 - (early + mid)
	if late < 0 {
		late = 0
	}
	return early, mid, late
}

// Seconds returns how many seconds of the match fall in each phase.
func Seconds(duration int) (early, mid, late int) {
	if duration <= 0 {
		return 0, 0, 0
	}
	early = min(duration, EarlyEnd)
	mid = min(duration, MidEnd) - early
	late = duration - early - mid
	return early, mid, late
}

// Split allocates a cumulative counter across phases. Early and mid are
// rounded independently; late is the residual, so the parts sum to total.
func Split(total int, early, mid float64) [3]int {
	e := int(math.Round(float64(total) * early))
	if e > total {
		e = total
	}
	m := int(math.Round(float64(total) * mid))
	if m > total-e {
		m = total - e
	}
	return [3]int{e, m, total - e - m}
}

// PhaseOf returns the index (0 early, 1 mid, 2 late) of the phase containing
// second t. Pre-horn times count as early.
func PhaseOf(t int) int {
	switch {
	case t < EarlyEnd:
		return 0
	case t < MidEnd:
		return 1
	default:
		return 2
	}
}

// Counter is one counter's per-phase allocation.
type Counter struct {
	Total  int    `json:"total"`
	Early  int    `json:"early"`
	Mid    int    `json:"mid"`
	Late   int    `json:"late"`
	Source string `json:"source"`
}

// Values returns the three phase values in order.
func (c Counter) Values() [3]int {
	return [3]int{c.Early, c.Mid, c.Late}
}

func newCounter(total int, parts [3]int, source string) Counter {
	return Counter{Total: total, Early: parts[0], Mid: parts[1], Late: parts[2], Source: source}
}

// Segment is one phase of a single match breakdown.
type Segment struct {
	Window
	Seconds int     `json:"seconds"`
	Ratio   float64 `json:"ratio"`
	Gold    float64 `json:"gold"`
	XP      float64 `json:"xp"`
}

// Breakdown is the phase estimate for one match.
type Breakdown struct {
	MatchID  int64      `json:"match_id"`
	Duration int        `json:"duration"`
	Segments [3]Segment `json:"segments"`

	Kills    Counter `json:"kills"`
	Deaths   Counter `json:"deaths"`
	Assists  Counter `json:"assists"`
	LastHits Counter `json:"last_hits"`
	Denies   Counter `json:"denies"`

	// EventCounts holds per-phase counts of typed events found in the log,
	// keyed by event type. Nil when no usable log was present.
	EventCounts map[string][3]int `json:"event_counts,omitempty"`
}

// counterEvents maps a cumulative counter to the event type that
// reconstructs it.
var counterEvents = []struct {
	event string
	get   func(b *Breakdown) *Counter
}{
	{match.EventKill, func(b *Breakdown) *Counter { return &b.Kills }},
	{match.EventDeath, func(b *Breakdown) *Counter { return &b.Deaths }},
	{match.EventAssist, func(b *Breakdown) *Counter { return &b.Assists }},
}

// trackedEvents are the event types counted per phase.
var trackedEvents = map[string]bool{
	match.EventKill:      true,
	match.EventDeath:     true,
	match.EventAssist:    true,
	match.EventWard:      true,
	match.EventRune:      true,
	match.EventCampStack: true,
}

// Estimate computes the phase breakdown for one match.
func Estimate(m *match.EnrichedMatch) Breakdown {
	re, rm, rl := Ratios(m.Duration)
	se, sm, sl := Seconds(m.Duration)
	b := Breakdown{MatchID: m.MatchID, Duration: m.Duration}

	ratios := [3]float64{re, rm, rl}
	secs := [3]int{se, sm, sl}
	for i, w := range Windows {
		b.Segments[i] = Segment{
			Window:  w,
			Seconds: secs[i],
			Ratio:   ratios[i],
			Gold:    m.GoldPerMin * float64(secs[i]) / 60,
			XP:      m.XPPerMin * float64(secs[i]) / 60,
		}
	}

	b.Kills = newCounter(m.Kills, Split(m.Kills, re, rm), SourceProportional)
	b.Deaths = newCounter(m.Deaths, Split(m.Deaths, re, rm), SourceProportional)
	b.Assists = newCounter(m.Assists, Split(m.Assists, re, rm), SourceProportional)
	b.LastHits = newCounter(m.LastHits, Split(m.LastHits, re, rm), SourceProportional)
	b.Denies = newCounter(m.Denies, Split(m.Denies, re, rm), SourceProportional)

	counts := CountEvents(m.SubjectEvents())
	if len(counts) == 0 {
		return b
	}
	b.EventCounts = counts
	for _, ce := range counterEvents {
		per, ok := counts[ce.event]
		if !ok {
			continue
		}
		c := ce.get(&b)
		// Only a complete log replaces the estimate; a partial one would
		// undercount.
		if per[0]+per[1]+per[2] == c.Total {
			*c = newCounter(c.Total, per, SourceEventLog)
		}
	}
	return b
}

// CountEvents tallies tracked event types per phase.
func CountEvents(events []match.LogEvent) map[string][3]int {
	var out map[string][3]int
	for _, e := range events {
		if !trackedEvents[e.Type] {
			continue
		}
		if out == nil {
			out = make(map[string][3]int)
		}
		c := out[e.Type]
		c[PhaseOf(e.Time)]++
		out[e.Type] = c
	}
	return out
}

// Average is the mean per-phase profile over several matches.
type Average struct {
	Matches  int        `json:"matches"`
	Kills    [3]float64 `json:"kills"`
	Deaths   [3]float64 `json:"deaths"`
	Assists  [3]float64 `json:"assists"`
	LastHits [3]float64 `json:"last_hits"`
	Denies   [3]float64 `json:"denies"`
	Gold     [3]float64 `json:"gold"`
	XP       [3]float64 `json:"xp"`
}

// EstimateAll returns the per-match breakdowns and their mean profile.
// Matches with no duration are skipped.
func EstimateAll(matches []match.EnrichedMatch) ([]Breakdown, Average) {
	out := make([]Breakdown, 0, len(matches))
	var avg Average
	for i := range matches {
		if matches[i].Duration <= 0 {
			continue
		}
		b := Estimate(&matches[i])
		out = append(out, b)
		addInts(&avg.Kills, b.Kills.Values())
		addInts(&avg.Deaths, b.Deaths.Values())
		addInts(&avg.Assists, b.Assists.Values())
		addInts(&avg.LastHits, b.LastHits.Values())
		addInts(&avg.Denies, b.Denies.Values())
		for p, s := range b.Segments {
			avg.Gold[p] += s.Gold
			avg.XP[p] += s.XP
		}
	}
	avg.Matches = len(out)
	if avg.Matches == 0 {
		return out, avg
	}
	n := float64(avg.Matches)
	for _, arr := range []*[3]float64{&avg.Kills, &avg.Deaths, &avg.Assists, &avg.LastHits, &avg.Denies, &avg.Gold, &avg.XP} {
		for p := range arr {
			arr[p] /= n
		}
	}
	return out, avg
}

func addInts(dst *[3]float64, v [3]int) {
	for i := range v {
		dst[i] += float64(v[i])
	}
}
