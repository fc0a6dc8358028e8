package benchmark

import (
	"strings"

	"github.com/albapepper/dotalens/internal/match"
)

var roleAliases = map[string]string{
	"carry":       RoleCarry,
	"safelane":    RoleCarry,
	"safe":        RoleCarry,
	"pos1":        RoleCarry,
	"1":           RoleCarry,
	"mid":         RoleMid,
	"midlane":     RoleMid,
	"middle":      RoleMid,
	"pos2":        RoleMid,
	"2":           RoleMid,
	"offlane":     RoleOfflane,
	"offlaner":    RoleOfflane,
	"off":         RoleOfflane,
	"pos3":        RoleOfflane,
	"3":           RoleOfflane,
	"support":     RoleSupport,
	"softsupport": RoleSupport,
	"hardsupport": RoleSupport,
	"pos4":        RoleSupport,
	"pos5":        RoleSupport,
	"4":           RoleSupport,
	"5":           RoleSupport,
}

// NormalizeRole maps a caller-supplied label onto a known role.
func NormalizeRole(label string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	key = strings.Replace(key, "position", "pos", 1)
	r, ok := roleAliases[key]
	return r, ok
}

// Provider lane_role values.
const (
	laneSafe   = 1
	laneMid    = 2
	laneOff    = 3
	laneJungle = 4
)

// supportLastHitsPerMin is the farm rate below which a player is treated as
// a support regardless of lane.
const supportLastHitsPerMin = 2.0

// InferRole guesses the subject's role from recent matches: low farm means
// support, otherwise the most common lane decides. Falls back to DefaultRole.
func InferRole(matches []match.EnrichedMatch) string {
	var lastHits, minutes float64
	var wards int
	lanes := map[int]int{}
	for i := range matches {
		m := &matches[i]
		if m.Duration > 0 {
			lastHits += float64(m.LastHits)
			minutes += float64(m.Duration) / 60
		}
		if m.Record != nil {
			wards += m.Record.ObsPlaced + m.Record.SenPlaced
		}
		if m.LaneRole > 0 {
			lanes[m.LaneRole]++
		}
	}
	if len(matches) == 0 {
		return DefaultRole
	}
	if minutes > 0 && lastHits/minutes < supportLastHitsPerMin {
		return RoleSupport
	}
	if float64(wards)/float64(len(matches)) >= 8 {
		return RoleSupport
	}

	best, bestCount := 0, 0
	for _, lane := range []int{laneSafe, laneMid, laneOff, laneJungle} {
		if lanes[lane] > bestCount {
			best, bestCount = lane, lanes[lane]
		}
	}
	switch best {
	case laneMid:
		return RoleMid
	case laneOff:
		return RoleOfflane
	case laneJungle:
		return RoleSupport
	default:
		return DefaultRole
	}
}
