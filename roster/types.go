/*
Package roster provides the Roster Compliance & Capacity Engine.

PURPOSE:
  Evaluates a ground-handling roster that already exists. Given an immutable
  snapshot of staff, duty slots, daily programs, leave and incoming rest locks
  it answers four questions:
  - How long did this person rest before this duty? (rest.go)
  - How many duty-days can this person supply over a window? (credit.go)
  - What is everyone doing on every day? (status.go)
  - What is wrong with this roster, and how much slack is there? (audit.go,
    capacity.go)

KEY CONCEPTS IN THIS FILE (types.go):
  - Staff: a person, Local or Roster (contracted for a date window)
  - DutySlot: a time-boxed duty with headcount range and capability quotas
  - DailyProgram: one day's assignment list
  - LeaveRequest / IncomingDuty: absence and carried-over rest
  - Snapshot: everything above, handed to the engine per call

DESIGN PRINCIPLES:
  1. Pure: no I/O, no logging, no shared state. Safe to call concurrently.
  2. Read-only: the engine never mutates a Snapshot.
  3. Degrade, don't fail: malformed dates and times yield nil/zero results.
     Only structural problems (see Validate) return errors.
  4. Deterministic: identical input produces byte-identical output.

USAGE:
  report, err := roster.Audit(snap, roster.DefaultAuditOptions())
  forecast, err := roster.Forecast(snap, snap.Window())

SEE ALSO:
  - time.go: date/clock parsing and overnight inference
  - audit.go: rule battery
  - capacity.go: supply vs demand
*/
package roster

import (
	"sort"
)

// =============================================================================
// IDENTIFIERS AND ENUMS
// =============================================================================

type StaffID string
type SlotID string

// StaffType separates permanent station staff from contracted roster staff.
type StaffType string

const (
	StaffLocal  StaffType = "Local"
	StaffRoster StaffType = "Roster"
)

// Capability is a qualification a staff member holds and a duty slot may
// request through its quota map.
type Capability string

const (
	CapShiftLeader  Capability = "ShiftLeader"
	CapLoadControl  Capability = "LoadControl"
	CapRamp         Capability = "Ramp"
	CapOperations   Capability = "Operations"
	CapLostAndFound Capability = "LostAndFound"
)

// Capabilities lists every capability in reporting order.
var Capabilities = []Capability{
	CapShiftLeader,
	CapLoadControl,
	CapRamp,
	CapOperations,
	CapLostAndFound,
}

// LeaveKind is the declared type of a leave request.
type LeaveKind string

const (
	LeaveAnnual LeaveKind = "Annual"
	LeaveDayOff LeaveKind = "Day-off"
	LeaveRoster LeaveKind = "Roster-leave"
	LeaveSick   LeaveKind = "Sick"
	LeaveLieu   LeaveKind = "Lieu"
)

// =============================================================================
// ENTITIES
// =============================================================================

// Staff is a member of the station workforce.
// WorkFrom/WorkTo are only meaningful for StaffRoster and are inclusive
// "YYYY-MM-DD" dates. Empty means no contract window.
type Staff struct {
	ID           StaffID
	Name         string
	Initials     string
	Type         StaffType
	Capabilities []Capability
	PowerRate    int // productivity weight 0-100, informational only
	WorkFrom     string
	WorkTo       string
}

// Has reports whether the staff member holds capability c.
func (s Staff) Has(c Capability) bool {
	for _, have := range s.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// Contract returns the parsed contract window. ok is false when either bound
// is missing or malformed.
func (s Staff) Contract() (DateRange, bool) {
	from, okFrom := ParseDate(s.WorkFrom)
	to, okTo := ParseDate(s.WorkTo)
	if !okFrom || !okTo || to.Before(from) {
		return DateRange{}, false
	}
	return DateRange{Start: from, End: to}, true
}

// InContract reports whether d lies inside the contract window. Staff
// without a usable window are never in contract.
func (s Staff) InContract(d Date) bool {
	window, ok := s.Contract()
	return ok && window.Contains(d)
}

// DutySlot is a duty on a specific pickup date. EndDate is optional; when
// EndTime is earlier than PickupTime the end rolls to the next day.
type DutySlot struct {
	ID         SlotID
	Name       string
	PickupDate string
	PickupTime string
	EndDate    string
	EndTime    string
	MinStaff   int
	MaxStaff   int
	Quota      map[Capability]int
}

// End resolves the wall-clock end of the duty.
func (d DutySlot) End() (DateTime, bool) {
	pickup, ok := ParseDate(d.PickupDate)
	if !ok {
		return DateTime{}, false
	}
	endDate, ok := InferEndDate(pickup, d.PickupTime, d.EndTime, d.EndDate)
	if !ok {
		return DateTime{}, false
	}
	return Combine(endDate, d.EndTime)
}

// Assignment binds a staff member to a duty slot with an optional role label.
type Assignment struct {
	StaffID StaffID
	SlotID  SlotID
	Role    string
}

// DailyProgram is the assignment list for one calendar day.
type DailyProgram struct {
	Day         int
	Date        string
	Assignments []Assignment
}

// Assigned reports whether staff holds any assignment in the program.
func (p DailyProgram) Assigned(id StaffID) bool {
	for _, a := range p.Assignments {
		if a.StaffID == id {
			return true
		}
	}
	return false
}

// Headcount returns the unique staff assigned to slot, sorted by id.
// Several role labels for one person count once.
func (p DailyProgram) Headcount(slot SlotID) []StaffID {
	seen := make(map[StaffID]bool)
	var ids []StaffID
	for _, a := range p.Assignments {
		if a.SlotID != slot || seen[a.StaffID] {
			continue
		}
		seen[a.StaffID] = true
		ids = append(ids, a.StaffID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LeaveRequest covers [StartDate, EndDate] inclusive.
type LeaveRequest struct {
	StaffID   StaffID
	StartDate string
	EndDate   string
	Kind      LeaveKind
}

// Range returns the parsed leave range.
func (l LeaveRequest) Range() (DateRange, bool) {
	from, okFrom := ParseDate(l.StartDate)
	to, okTo := ParseDate(l.EndDate)
	if !okFrom || !okTo || to.Before(from) {
		return DateRange{}, false
	}
	return DateRange{Start: from, End: to}, true
}

// IncomingDuty is a rest lock: a duty that ended on Date at EndTime, before
// the visible roster window.
type IncomingDuty struct {
	StaffID StaffID
	Date    string
	EndTime string
}

// =============================================================================
// SNAPSHOT - Immutable input for a single engine call
// =============================================================================

// Snapshot is the complete roster handed to the engine. Callers own it; the
// engine only reads.
type Snapshot struct {
	Staff    []Staff
	Slots    []DutySlot
	Programs []DailyProgram
	Leave    []LeaveRequest
	Incoming []IncomingDuty
}

// StaffByID returns the staff member with the given id.
func (s *Snapshot) StaffByID(id StaffID) (Staff, bool) {
	for _, st := range s.Staff {
		if st.ID == id {
			return st, true
		}
	}
	return Staff{}, false
}

// SlotByID returns the duty slot with the given id.
func (s *Snapshot) SlotByID(id SlotID) (DutySlot, bool) {
	for _, sl := range s.Slots {
		if sl.ID == id {
			return sl, true
		}
	}
	return DutySlot{}, false
}

// SlotsOn returns the slots whose pickup date is d, sorted by id.
func (s *Snapshot) SlotsOn(d Date) []DutySlot {
	var slots []DutySlot
	for _, sl := range s.Slots {
		if pickup, ok := ParseDate(sl.PickupDate); ok && pickup.Equal(d) {
			slots = append(slots, sl)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].ID < slots[j].ID })
	return slots
}

// ProgramOn returns the program for date d. A missing program is returned as
// an empty program for that date.
func (s *Snapshot) ProgramOn(d Date) DailyProgram {
	for _, p := range s.Programs {
		if pd, ok := ParseDate(p.Date); ok && pd.Equal(d) {
			return p
		}
	}
	return DailyProgram{Date: d.String()}
}

// SortedStaff returns staff ordered by id.
func (s *Snapshot) SortedStaff() []Staff {
	out := make([]Staff, len(s.Staff))
	copy(out, s.Staff)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Window returns the date range spanned by the programs. ok is false when
// no program carries a parseable date.
func (s *Snapshot) Window() (DateRange, bool) {
	var window DateRange
	found := false
	for _, p := range s.Programs {
		d, ok := ParseDate(p.Date)
		if !ok {
			continue
		}
		if !found {
			window = DateRange{Start: d, End: d}
			found = true
			continue
		}
		if d.Before(window.Start) {
			window.Start = d
		}
		if d.After(window.End) {
			window.End = d
		}
	}
	return window, found
}

// Validate checks the structural invariants the engine relies on. Data
// quality gaps (unknown slots, bad clock times) are not structural.
func (s *Snapshot) Validate() error {
	if s == nil {
		return ErrNilSnapshot
	}
	if s.Programs == nil {
		return ErrMissingPrograms
	}
	seen := make(map[Date]int)
	for i, p := range s.Programs {
		d, ok := ParseDate(p.Date)
		if !ok {
			return &ProgramDateError{Index: i, Date: p.Date, Err: ErrMalformedProgramDate}
		}
		if prev, dup := seen[d]; dup {
			return &ProgramDateError{Index: i, Date: p.Date, Previous: prev, Err: ErrDuplicateProgramDate}
		}
		seen[d] = i
	}
	return nil
}
