package roster_test

import (
	"fmt"

	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(s string) roster.Date {
	return roster.MustParseDate(s)
}

func local(id string, caps ...roster.Capability) roster.Staff {
	return roster.Staff{ID: roster.StaffID(id), Name: "Local " + id, Type: roster.StaffLocal, Capabilities: caps}
}

func contracted(id, from, to string, caps ...roster.Capability) roster.Staff {
	return roster.Staff{
		ID:           roster.StaffID(id),
		Name:         "Roster " + id,
		Type:         roster.StaffRoster,
		Capabilities: caps,
		WorkFrom:     from,
		WorkTo:       to,
	}
}

func slot(id, day, pickup, end string, minStaff, maxStaff int) roster.DutySlot {
	return roster.DutySlot{
		ID:         roster.SlotID(id),
		PickupDate: day,
		PickupTime: pickup,
		EndTime:    end,
		MinStaff:   minStaff,
		MaxStaff:   maxStaff,
	}
}

func assign(staff, slotID string) roster.Assignment {
	return roster.Assignment{StaffID: roster.StaffID(staff), SlotID: roster.SlotID(slotID)}
}

func program(day int, d string, assignments ...roster.Assignment) roster.DailyProgram {
	return roster.DailyProgram{Day: day, Date: d, Assignments: assignments}
}

// week returns seven consecutive dates starting at start.
func week(start string) []string {
	first := date(start)
	out := make([]string, 7)
	for i := range out {
		out[i] = first.AddDays(i).String()
	}
	return out
}

// fiveOfSeven builds Scenario D: one Local staff member assigned on the
// first worked days of a week with one 08:00-16:00 slot per worked day.
func fiveOfSeven(worked int) *roster.Snapshot {
	snap := &roster.Snapshot{Staff: []roster.Staff{local("S3", roster.CapRamp)}}
	for i, d := range week("2024-03-04") {
		p := program(i+1, d)
		if i < worked {
			id := fmt.Sprintf("RAMP-%d", i+1)
			snap.Slots = append(snap.Slots, slot(id, d, "08:00", "16:00", 1, 1))
			p.Assignments = append(p.Assignments, assign("S3", id))
		}
		snap.Programs = append(snap.Programs, p)
	}
	return snap
}

// twoSlotDay builds Scenario C: two slots of max 10 filled aFill and bFill,
// every staff member assigned so no other rule fires.
func twoSlotDay(aFill, bFill int) *roster.Snapshot {
	const d = "2024-05-01"
	snap := &roster.Snapshot{
		Slots: []roster.DutySlot{
			slot("A", d, "06:00", "14:00", 0, 10),
			slot("B", d, "14:00", "22:00", 0, 10),
		},
	}
	p := program(1, d)
	n := 0
	for _, fill := range []struct {
		slot  string
		count int
	}{{"A", aFill}, {"B", bFill}} {
		for i := 0; i < fill.count; i++ {
			n++
			id := fmt.Sprintf("L%02d", n)
			snap.Staff = append(snap.Staff, local(id, roster.CapRamp))
			p.Assignments = append(p.Assignments, assign(id, fill.slot))
		}
	}
	snap.Programs = []roster.DailyProgram{p}
	return snap
}

func violationsOf(report *roster.AuditReport, rule roster.Rule) []roster.Violation {
	var out []roster.Violation
	for _, v := range report.Violations {
		if v.Rule == rule {
			out = append(out, v)
		}
	}
	return out
}
