package roster

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REST INTERVAL RESOLVER
// =============================================================================

// PriorDuty describes the duty a rest gap was measured from.
type PriorDuty struct {
	End    DateTime
	SlotID SlotID // empty when the duty came from the incoming rest-lock log
}

// RestHours returns the hours between the staff member's previous duty end
// and a duty picked up on targetDate at targetPickup.
//
// Programs are scanned backward from the day before targetDate and the first
// day that assigns the staff member decides the answer, even when its duty
// cannot be resolved. Only when no program day matches is the incoming
// rest-lock log consulted. nil means no known prior duty. The result is not
// clamped: inconsistent data can produce a negative gap.
func RestHours(snap *Snapshot, staffID StaffID, targetDate Date, targetPickup string) *decimal.Decimal {
	start, ok := Combine(targetDate, targetPickup)
	if !ok {
		return nil
	}
	prior, ok := ResolvePriorDuty(snap, staffID, targetDate)
	if !ok {
		return nil
	}
	rest := HoursBetween(prior.End, start)
	return &rest
}

// ResolvePriorDuty finds the duty preceding targetDate for staffID.
func ResolvePriorDuty(snap *Snapshot, staffID StaffID, targetDate Date) (PriorDuty, bool) {
	if prior, matched, ok := priorFromPrograms(snap, staffID, targetDate); matched {
		return prior, ok
	}
	return priorFromIncoming(snap.Incoming, staffID, targetDate)
}

type datedProgram struct {
	date    Date
	program DailyProgram
}

// priorFromPrograms returns matched=true once a program day assigns the
// staff member. ok then reports whether that day's duty end resolved.
func priorFromPrograms(snap *Snapshot, staffID StaffID, targetDate Date) (prior PriorDuty, matched, ok bool) {
	var earlier []datedProgram
	for _, p := range snap.Programs {
		d, valid := ParseDate(p.Date)
		if valid && d.Before(targetDate) {
			earlier = append(earlier, datedProgram{date: d, program: p})
		}
	}
	sort.SliceStable(earlier, func(i, j int) bool { return earlier[i].date.After(earlier[j].date) })

	for _, dp := range earlier {
		if !dp.program.Assigned(staffID) {
			continue
		}
		// First match wins. Several duties on that day: the latest end governs.
		for _, a := range dp.program.Assignments {
			if a.StaffID != staffID {
				continue
			}
			end, resolved := assignmentEnd(snap, a, dp.date)
			if !resolved {
				continue
			}
			if !ok || end.After(prior.End) {
				prior = PriorDuty{End: end, SlotID: a.SlotID}
				ok = true
			}
		}
		return prior, true, ok
	}
	return PriorDuty{}, false, false
}

// assignmentEnd resolves the end of the slot behind an assignment. The slot's
// own pickup date wins; the program date fills in when it is missing.
func assignmentEnd(snap *Snapshot, a Assignment, programDate Date) (DateTime, bool) {
	slot, ok := snap.SlotByID(a.SlotID)
	if !ok {
		return DateTime{}, false
	}
	pickupDate, ok := ParseDate(slot.PickupDate)
	if !ok {
		pickupDate = programDate
	}
	endDate, ok := InferEndDate(pickupDate, slot.PickupTime, slot.EndTime, slot.EndDate)
	if !ok {
		return DateTime{}, false
	}
	return Combine(endDate, slot.EndTime)
}

// priorFromIncoming picks the latest rest lock strictly before targetDate.
// Ties on date go to the later end time.
func priorFromIncoming(incoming []IncomingDuty, staffID StaffID, targetDate Date) (PriorDuty, bool) {
	var best DateTime
	found := false
	for _, in := range incoming {
		if in.StaffID != staffID {
			continue
		}
		d, ok := ParseDate(in.Date)
		if !ok || !d.Before(targetDate) {
			continue
		}
		end, ok := Combine(d, in.EndTime)
		if !ok {
			continue
		}
		if !found || end.After(best) {
			best = end
			found = true
		}
	}
	return PriorDuty{End: best}, found
}
