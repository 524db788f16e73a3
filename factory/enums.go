package factory

import (
	"fmt"
	"strings"

	"github.com/warp/roster-engine/roster"
)

// normalize folds case and drops separators: "Shift Leader", "shift_leader"
// and "SHIFT-LEADER" all become "shiftleader".
func normalize(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

var staffTypes = map[string]roster.StaffType{
	"":          roster.StaffLocal,
	"local":     roster.StaffLocal,
	"permanent": roster.StaffLocal,
	"roster":    roster.StaffRoster,
	"contract":  roster.StaffRoster,
}

var capabilities = map[string]roster.Capability{
	"shiftleader":  roster.CapShiftLeader,
	"sl":           roster.CapShiftLeader,
	"loadcontrol":  roster.CapLoadControl,
	"lc":           roster.CapLoadControl,
	"ramp":         roster.CapRamp,
	"operations":   roster.CapOperations,
	"ops":          roster.CapOperations,
	"lostandfound": roster.CapLostAndFound,
	"lostfound":    roster.CapLostAndFound,
	"lnf":          roster.CapLostAndFound,
}

var leaveKinds = map[string]roster.LeaveKind{
	"annual":      roster.LeaveAnnual,
	"al":          roster.LeaveAnnual,
	"dayoff":      roster.LeaveDayOff,
	"do":          roster.LeaveDayOff,
	"rosterleave": roster.LeaveRoster,
	"rl":          roster.LeaveRoster,
	"sick":        roster.LeaveSick,
	"lieu":        roster.LeaveLieu,
}

// ParseStaffType maps a staff type spelling. Empty defaults to Local.
func ParseStaffType(s string) (roster.StaffType, error) {
	if t, ok := staffTypes[normalize(s)]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown staff type %q", s)
}

// ParseCapability maps a capability spelling.
func ParseCapability(s string) (roster.Capability, error) {
	if c, ok := capabilities[normalize(s)]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown capability %q", s)
}

// ParseLeaveKind maps a leave kind spelling. Unknown kinds are kept verbatim.
func ParseLeaveKind(s string) roster.LeaveKind {
	if k, ok := leaveKinds[normalize(s)]; ok {
		return k
	}
	return roster.LeaveKind(strings.TrimSpace(s))
}
