package roster

// =============================================================================
// ENTITLEMENT CALCULATOR - Duty-days a person can supply over a window
// =============================================================================

// Credit returns how many duty-days staff can supply over the duration days
// starting at windowStart, net of leave. Never negative.
//
// Local staff work 5 of every 7 days: floor(d*5/7) for windows of a week or
// more, ceil(d*0.75) for shorter windows. Roster staff supply the days where
// the window meets their contract window. Leave overlap is subtracted per
// leave range; overlapping ranges for one person are each counted.
func Credit(staff Staff, windowStart Date, duration int, leave []LeaveRequest) int {
	if duration <= 0 {
		return 0
	}
	window := WindowFrom(windowStart, duration)

	var available DateRange
	var base int
	switch staff.Type {
	case StaffRoster:
		contract, ok := staff.Contract()
		if !ok {
			return 0
		}
		overlap, ok := window.Intersect(contract)
		if !ok {
			return 0
		}
		available = overlap
		base = overlap.Len()
	default:
		available = window
		base = localBase(duration)
	}

	credit := base - LeaveDays(staff.ID, available, leave)
	if credit < 0 {
		return 0
	}
	return credit
}

// localBase is the Local staff entitlement before leave.
func localBase(duration int) int {
	if duration >= 7 {
		return duration * 5 / 7
	}
	// ceil(duration * 0.75)
	return (duration*3 + 3) / 4
}

// LeaveDays sums, over every leave range of staffID, the days it shares with
// window. Ranges are not merged.
func LeaveDays(staffID StaffID, window DateRange, leave []LeaveRequest) int {
	total := 0
	for _, l := range leave {
		if l.StaffID != staffID {
			continue
		}
		r, ok := l.Range()
		if !ok {
			continue
		}
		total += window.OverlapDays(r)
	}
	return total
}

// StaffCredit is one row of a credit breakdown.
type StaffCredit struct {
	StaffID StaffID
	Type    StaffType
	Credit  int
}

// Credits computes Credit for every staff member in id order.
func Credits(snap *Snapshot, windowStart Date, duration int) []StaffCredit {
	return creditsFor(snap.SortedStaff(), windowStart, duration, snap.Leave)
}

// creditsFor returns one row per entry of staff, in the same order.
func creditsFor(staff []Staff, windowStart Date, duration int, leave []LeaveRequest) []StaffCredit {
	out := make([]StaffCredit, 0, len(staff))
	for _, s := range staff {
		out = append(out, StaffCredit{
			StaffID: s.ID,
			Type:    s.Type,
			Credit:  Credit(s, windowStart, duration, leave),
		})
	}
	return out
}
