// Package rolling computes windowed means over a most-recent-first match
// sequence and the trend between the two smallest windows.
package rolling

import (
	"sort"

	"github.com/albapepper/dotalens/internal/match"
)

// DefaultWindows are the window sizes used when the caller gives none.
var DefaultWindows = []int{5, 10}

// WindowStats holds the means over the most recent Size matches. Count is
// the number of matches actually available, which may be less than Size.
type WindowStats struct {
	Size          int     `json:"size"`
	Count         int     `json:"count"`
	Wins          int     `json:"wins"`
	WinRate       float64 `json:"win_rate"`
	KDA           float64 `json:"kda"`
	GoldPerMin    float64 `json:"gold_per_min"`
	XPPerMin      float64 `json:"xp_per_min"`
	Deaths        float64 `json:"deaths"`
	LastHits      float64 `json:"last_hits"`
	HeroDamage    float64 `json:"hero_damage"`
	EnrichedCount int     `json:"enriched_count"`
}

// Delta is the difference of each mean between two windows. Positive means
// the more recent window is higher.
type Delta struct {
	From       int     `json:"from"`
	To         int     `json:"to"`
	WinRate    float64 `json:"win_rate"`
	KDA        float64 `json:"kda"`
	GoldPerMin float64 `json:"gold_per_min"`
	XPPerMin   float64 `json:"xp_per_min"`
	Deaths     float64 `json:"deaths"`
	LastHits   float64 `json:"last_hits"`
	HeroDamage float64 `json:"hero_damage"`
}

// Result is the output of Aggregate.
type Result struct {
	Windows []WindowStats `json:"windows"`
	// Trend is nil when fewer than two distinct windows were requested.
	Trend *Delta `json:"trend,omitempty"`
	Empty bool   `json:"empty"`
}

// Window returns the stats for a window size, if computed.
func (r Result) Window(size int) (WindowStats, bool) {
	for _, w := range r.Windows {
		if w.Size == size {
			return w, true
		}
	}
	return WindowStats{}, false
}

// Aggregate computes stats for each window size over matches, which must be
// ordered most recent first. Non-positive and duplicate sizes are dropped;
// the remaining windows are reported in ascending size order.
func Aggregate(matches []match.EnrichedMatch, windows []int) Result {
	sizes := normalizeWindows(windows)
	res := Result{
		Windows: make([]WindowStats, 0, len(sizes)),
		Empty:   len(matches) == 0,
	}
	for _, size := range sizes {
		res.Windows = append(res.Windows, windowStats(matches, size))
	}
	if len(res.Windows) >= 2 {
		d := diff(res.Windows[0], res.Windows[1])
		res.Trend = &d
	}
	return res
}

func normalizeWindows(windows []int) []int {
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	seen := make(map[int]bool, len(windows))
	out := make([]int, 0, len(windows))
	for _, w := range windows {
		if w <= 0 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}

func windowStats(matches []match.EnrichedMatch, size int) WindowStats {
	ws := WindowStats{Size: size}
	n := size
	if n > len(matches) {
		n = len(matches)
	}
	if n == 0 {
		return ws
	}

	var kda, gpm, xpm, deaths, lastHits, damage float64
	for i := 0; i < n; i++ {
		m := &matches[i]
		if m.Won() {
			ws.Wins++
		}
		if m.Enriched {
			ws.EnrichedCount++
		}
		kda += m.KDA()
		gpm += m.GoldPerMin
		xpm += m.XPPerMin
		deaths += float64(m.Deaths)
		lastHits += float64(m.LastHits)
		damage += float64(m.HeroDamage)
	}

	count := float64(n)
	ws.Count = n
	ws.WinRate = float64(ws.Wins) / count * 100
	ws.KDA = kda / count
	ws.GoldPerMin = gpm / count
	ws.XPPerMin = xpm / count
	ws.Deaths = deaths / count
	ws.LastHits = lastHits / count
	ws.HeroDamage = damage / count
	return ws
}

func diff(recent, wider WindowStats) Delta {
	return Delta{
		From:       recent.Size,
		To:         wider.Size,
		WinRate:    recent.WinRate - wider.WinRate,
		KDA:        recent.KDA - wider.KDA,
		GoldPerMin: recent.GoldPerMin - wider.GoldPerMin,
		XPPerMin:   recent.XPPerMin - wider.XPPerMin,
		Deaths:     recent.Deaths - wider.Deaths,
		LastHits:   recent.LastHits - wider.LastHits,
		HeroDamage: recent.HeroDamage - wider.HeroDamage,
	}
}
