package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/roster"
)

func TestClassify_Precedence(t *testing.T) {
	d := date("2024-02-10")
	worked := program(1, "2024-02-10", assign("L1", "X"), assign("R1", "X"))
	empty := program(1, "2024-02-10")
	incoming := []roster.IncomingDuty{{StaffID: "L1", Date: "2024-02-10", EndTime: "02:00"}}
	leave := []roster.LeaveRequest{
		{StaffID: "L1", StartDate: "2024-02-09", EndDate: "2024-02-11", Kind: roster.LeaveAnnual},
		{StaffID: "L2", StartDate: "2024-02-10", EndDate: "2024-02-10", Kind: roster.LeaveDayOff},
		{StaffID: "L3", StartDate: "2024-02-10", EndDate: "2024-02-10", Kind: roster.LeaveRoster},
		{StaffID: "L4", StartDate: "2024-02-10", EndDate: "2024-02-10", Kind: roster.LeaveSick},
	}
	r1 := contracted("R1", "2024-02-01", "2024-02-05")

	tests := []struct {
		name    string
		staff   roster.Staff
		program roster.DailyProgram
		want    roster.DayStatus
	}{
		{"assignment beats everything", local("L1"), worked, roster.StatusWork},
		{"assignment beats contract", r1, worked, roster.StatusWork},
		{"rest lock beats leave", local("L1"), empty, roster.StatusResting},
		{"day-off leave", local("L2"), empty, roster.StatusDaysOff},
		{"roster leave", local("L3"), empty, roster.StatusRosterLeave},
		{"sick falls into annual bucket", local("L4"), empty, roster.StatusAnnualLeave},
		{"roster outside contract", r1, empty, roster.StatusRosterLeave},
		{"roster inside contract", contracted("R2", "2024-02-01", "2024-02-28"), empty, roster.StatusStandby},
		{"roster without contract", contracted("R3", "", ""), empty, roster.StatusRosterLeave},
		{"local default", local("L5"), empty, roster.StatusDaysOff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roster.Classify(tt.staff, d, tt.program, incoming, leave))
		})
	}
}

func TestConsecutiveCount_SelfInclusive(t *testing.T) {
	snap := fiveOfSeven(5)
	s3 := snap.Staff[0]
	floor := date("2024-03-04")

	// First off day after five worked days
	assert.Equal(t, 1, roster.ConsecutiveCount(snap, s3, date("2024-03-09"), roster.StatusDaysOff, floor))
	assert.Equal(t, 2, roster.ConsecutiveCount(snap, s3, date("2024-03-10"), roster.StatusDaysOff, floor))
	assert.Equal(t, 5, roster.ConsecutiveCount(snap, s3, date("2024-03-08"), roster.StatusWork, floor))
	assert.Equal(t, 0, roster.ConsecutiveCount(snap, s3, date("2024-03-08"), roster.StatusDaysOff, floor))
}

func TestBuildRegistry_RowsAndTotals(t *testing.T) {
	snap := fiveOfSeven(5)
	snap.Staff = append(snap.Staff, contracted("R1", "2024-03-06", "2024-03-31"))
	window, ok := snap.Window()
	require.True(t, ok)

	reg := roster.BuildRegistry(snap, window)

	require.Len(t, reg.Rows, 2)
	r1, s3 := reg.Rows[0], reg.Rows[1]
	assert.Equal(t, roster.StaffID("R1"), r1.StaffID)
	assert.Equal(t, 2, r1.Totals[roster.StatusRosterLeave])
	assert.Equal(t, 5, r1.Totals[roster.StatusStandby])
	assert.Equal(t, 5, r1.Cells[6].Consecutive)

	assert.Equal(t, 5, s3.Totals[roster.StatusWork])
	assert.Equal(t, 2, s3.Totals[roster.StatusDaysOff])
	assert.Equal(t, 5, s3.Cells[4].Consecutive)
	assert.Equal(t, 1, s3.Cells[5].Consecutive)
	assert.Equal(t, 14, reg.Totals[roster.StatusWork]+reg.Totals[roster.StatusDaysOff]+
		reg.Totals[roster.StatusRosterLeave]+reg.Totals[roster.StatusStandby])
}

func TestConsecutiveCount_ZeroFloorStopsAtFirstProgram(t *testing.T) {
	// GIVEN: A Local staff member is DAYS_OFF on every day before the week
	snap := fiveOfSeven(5)
	s3 := snap.Staff[0]

	assert.Equal(t, 2, roster.ConsecutiveCount(snap, s3, date("2024-03-10"), roster.StatusDaysOff, roster.Date{}))
	assert.Equal(t, 1, roster.ConsecutiveCount(snap, s3, date("2024-03-01"), roster.StatusDaysOff, roster.Date{}))
}

func TestBuildRegistry_MatchesConsecutiveCount(t *testing.T) {
	snap := fiveOfSeven(5)
	snap.Staff = append(snap.Staff, contracted("R1", "2024-03-06", "2024-03-31"))
	window := roster.WindowFrom(date("2024-03-06"), 5)

	reg := roster.BuildRegistry(snap, window)

	staff := snap.SortedStaff()
	require.Len(t, reg.Rows, len(staff))
	for i, row := range reg.Rows {
		for _, cell := range row.Cells {
			want := roster.ConsecutiveCount(snap, staff[i], cell.Date, cell.Status, window.Start)
			assert.Equal(t, want, cell.Consecutive, "%s %s", row.StaffID, cell.Date)
		}
	}
}
