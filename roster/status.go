package roster

// =============================================================================
// DAY-STATUS CLASSIFIER
// =============================================================================

// DayStatus is the single category a staff member falls into on a day.
type DayStatus string

const (
	StatusWork        DayStatus = "WORK"
	StatusResting     DayStatus = "RESTING"
	StatusDaysOff     DayStatus = "DAYS_OFF"
	StatusRosterLeave DayStatus = "ROSTER_LEAVE"
	StatusAnnualLeave DayStatus = "ANNUAL_LEAVE"
	StatusStandby     DayStatus = "STANDBY"
)

// Statuses lists every category in reporting order.
var Statuses = []DayStatus{
	StatusWork,
	StatusResting,
	StatusDaysOff,
	StatusRosterLeave,
	StatusAnnualLeave,
	StatusStandby,
}

// Classify returns the status of staff on date. First match wins:
//
//	WORK          assigned in the day's program
//	RESTING       an incoming rest lock sits on the date
//	leave bucket  a leave range covers the date (kind selects the bucket)
//	ROSTER_LEAVE  Roster staff outside their contract window
//	DAYS_OFF      Local staff, otherwise
//	STANDBY       Roster staff, otherwise
func Classify(staff Staff, date Date, program DailyProgram, incoming []IncomingDuty, leave []LeaveRequest) DayStatus {
	if program.Assigned(staff.ID) {
		return StatusWork
	}
	for _, in := range incoming {
		if in.StaffID != staff.ID {
			continue
		}
		if d, ok := ParseDate(in.Date); ok && d.Equal(date) {
			return StatusResting
		}
	}
	for _, l := range leave {
		if l.StaffID != staff.ID {
			continue
		}
		if r, ok := l.Range(); ok && r.Contains(date) {
			return leaveBucket(l.Kind)
		}
	}
	if staff.Type == StaffRoster {
		if !staff.InContract(date) {
			return StatusRosterLeave
		}
		return StatusStandby
	}
	return StatusDaysOff
}

func leaveBucket(kind LeaveKind) DayStatus {
	switch kind {
	case LeaveDayOff:
		return StatusDaysOff
	case LeaveRoster:
		return StatusRosterLeave
	default:
		return StatusAnnualLeave
	}
}

// ClassifyOn classifies staff on date using the snapshot's program for that
// date.
func ClassifyOn(snap *Snapshot, staff Staff, date Date) DayStatus {
	return Classify(staff, date, snap.ProgramOn(date), snap.Incoming, snap.Leave)
}

// ConsecutiveCount returns how many days in a row, ending at date and
// including it, staff has been classified as status. Days before floor are
// not examined. A zero floor stops at the first program date, or at date
// itself when it comes earlier. Returns 0 when date itself is not classified
// as status.
func ConsecutiveCount(snap *Snapshot, staff Staff, date Date, status DayStatus, floor Date) int {
	if floor.IsZero() {
		floor = date
		if span, ok := snap.Window(); ok && span.Start.Before(date) {
			floor = span.Start
		}
	}
	count := 0
	for d := date; d.AfterOrEqual(floor); d = d.AddDays(-1) {
		if ClassifyOn(snap, staff, d) != status {
			break
		}
		count++
	}
	return count
}

// =============================================================================
// ABSENCE & REST REGISTRY
// =============================================================================

// RegistryCell is one staff member on one day.
type RegistryCell struct {
	Date        Date
	Status      DayStatus
	Consecutive int // run length of Status ending on Date, within the window
}

// RegistryRow is one staff member across the window.
type RegistryRow struct {
	StaffID StaffID
	Name    string
	Type    StaffType
	Cells   []RegistryCell
	Totals  map[DayStatus]int
}

// Registry is the classification of every staff member for every day.
type Registry struct {
	Window DateRange
	Rows   []RegistryRow
	Totals map[DayStatus]int
}

// BuildRegistry classifies every staff member on every day of window. Each
// cell's Consecutive equals ConsecutiveCount with floor window.Start, carried
// forward from the previous cell instead of walking back from every day.
func BuildRegistry(snap *Snapshot, window DateRange) *Registry {
	reg := &Registry{
		Window: window,
		Totals: make(map[DayStatus]int, len(Statuses)),
	}
	days := window.Days()
	for _, st := range snap.SortedStaff() {
		row := RegistryRow{
			StaffID: st.ID,
			Name:    st.Name,
			Type:    st.Type,
			Cells:   make([]RegistryCell, 0, len(days)),
			Totals:  make(map[DayStatus]int, len(Statuses)),
		}
		for i, d := range days {
			status := ClassifyOn(snap, st, d)
			run := 1
			if i > 0 && row.Cells[i-1].Status == status {
				run = row.Cells[i-1].Consecutive + 1
			}
			row.Cells = append(row.Cells, RegistryCell{Date: d, Status: status, Consecutive: run})
			row.Totals[status]++
			reg.Totals[status]++
		}
		reg.Rows = append(reg.Rows, row)
	}
	return reg
}
