package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/roster-engine/roster"
)

func TestCredit_LocalFiveOfSeven(t *testing.T) {
	s := local("L1")
	start := date("2024-01-01")

	assert.Equal(t, 5, roster.Credit(s, start, 7, nil))
	assert.Equal(t, 21, roster.Credit(s, start, 30, nil))
	assert.Equal(t, 10, roster.Credit(s, start, 14, nil))
}

func TestCredit_LocalShortWindowRoundsUp(t *testing.T) {
	// ceil(d * 0.75) below a week, kept as-is
	s := local("L1")
	start := date("2024-01-01")

	for duration, want := range map[int]int{1: 1, 2: 2, 3: 3, 4: 3, 5: 4, 6: 5} {
		assert.Equal(t, want, roster.Credit(s, start, duration, nil), "duration %d", duration)
	}
	assert.Equal(t, 0, roster.Credit(s, start, 0, nil))
}

func TestCredit_LocalLeaveSubtractedAndClamped(t *testing.T) {
	s := local("L1")
	start := date("2024-01-01")
	leave := []roster.LeaveRequest{
		{StaffID: "L1", StartDate: "2023-12-30", EndDate: "2024-01-02", Kind: roster.LeaveAnnual}, // 2 days inside
		{StaffID: "L2", StartDate: "2024-01-01", EndDate: "2024-01-07", Kind: roster.LeaveAnnual}, // someone else
	}
	assert.Equal(t, 3, roster.Credit(s, start, 7, leave))

	allWeek := []roster.LeaveRequest{{StaffID: "L1", StartDate: "2024-01-01", EndDate: "2024-01-07", Kind: roster.LeaveSick}}
	assert.Equal(t, 0, roster.Credit(s, start, 7, allWeek))
}

func TestCredit_OverlappingLeaveCountedTwice(t *testing.T) {
	// GIVEN: Two leave ranges for the same person covering the same 2 days
	// THEN: 4 days subtracted, ranges are not merged

	s := local("L1")
	leave := []roster.LeaveRequest{
		{StaffID: "L1", StartDate: "2024-01-03", EndDate: "2024-01-04", Kind: roster.LeaveAnnual},
		{StaffID: "L1", StartDate: "2024-01-03", EndDate: "2024-01-04", Kind: roster.LeaveLieu},
	}

	assert.Equal(t, 1, roster.Credit(s, date("2024-01-01"), 7, leave))
}

func TestCredit_RosterContractIntersection(t *testing.T) {
	// Scenario B
	s := contracted("S2", "2024-01-10", "2024-01-20")

	assert.Equal(t, 11, roster.Credit(s, date("2024-01-01"), 31, nil))
}

func TestCredit_RosterLeaveInsideContract(t *testing.T) {
	s := contracted("S2", "2024-01-10", "2024-01-20")
	leave := []roster.LeaveRequest{
		{StaffID: "S2", StartDate: "2024-01-05", EndDate: "2024-01-11", Kind: roster.LeaveRoster}, // 2 days in contract
		{StaffID: "S2", StartDate: "2024-01-25", EndDate: "2024-01-26", Kind: roster.LeaveAnnual}, // outside contract
	}

	assert.Equal(t, 9, roster.Credit(s, date("2024-01-01"), 31, leave))
}

func TestCredit_RosterOutsideOrWithoutContractIsZero(t *testing.T) {
	start := date("2024-01-01")

	assert.Equal(t, 0, roster.Credit(contracted("S2", "2024-03-01", "2024-03-31"), start, 31, nil))
	assert.Equal(t, 0, roster.Credit(contracted("S2", "", ""), start, 31, nil))
	assert.Equal(t, 0, roster.Credit(contracted("S2", "2024-01-10", ""), start, 31, nil))
	assert.Equal(t, 0, roster.Credit(contracted("S2", "2024-01-20", "2024-01-10"), start, 31, nil))
}

func TestCredits_OrderedByStaffID(t *testing.T) {
	snap := &roster.Snapshot{Staff: []roster.Staff{local("B"), contracted("A", "2024-01-01", "2024-01-03")}}

	credits := roster.Credits(snap, date("2024-01-01"), 7)

	assert.Equal(t, []roster.StaffCredit{
		{StaffID: "A", Type: roster.StaffRoster, Credit: 3},
		{StaffID: "B", Type: roster.StaffLocal, Credit: 5},
	}, credits)
}
