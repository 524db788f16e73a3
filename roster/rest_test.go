package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/roster"
)

func scenarioA() *roster.Snapshot {
	return &roster.Snapshot{
		Staff: []roster.Staff{local("S1", roster.CapRamp)},
		Slots: []roster.DutySlot{
			slot("EVE-1", "2024-01-01", "15:00", "23:00", 1, 1),
			slot("AM-2", "2024-01-02", "06:00", "14:00", 1, 1),
		},
		Programs: []roster.DailyProgram{
			program(1, "2024-01-01", assign("S1", "EVE-1")),
			program(2, "2024-01-02", assign("S1", "AM-2")),
		},
	}
}

func TestRestHours_PreviousEveningToEarlyPickup(t *testing.T) {
	// GIVEN: S1 finishes at 23:00 on day 1
	// WHEN: Picking up at 06:00 on day 2
	// THEN: 7 hours of rest

	rest := roster.RestHours(scenarioA(), "S1", date("2024-01-02"), "06:00")

	require.NotNil(t, rest)
	assert.Equal(t, "7.0", rest.StringFixed(1))
}

func TestRestHours_NoPriorDutyIsNil(t *testing.T) {
	snap := scenarioA()

	assert.Nil(t, roster.RestHours(snap, "S1", date("2024-01-01"), "15:00"))
	assert.Nil(t, roster.RestHours(snap, "NOBODY", date("2024-01-02"), "06:00"))
}

func TestRestHours_FirstMatchWinsEvenWhenUnresolvable(t *testing.T) {
	// GIVEN: Day 2 duty has a broken end time, day 1 duty is fine
	// WHEN: Resolving rest before day 3
	// THEN: nil, the scan stops at day 2 and never reaches day 1

	snap := &roster.Snapshot{
		Slots: []roster.DutySlot{
			slot("D1", "2024-01-01", "06:00", "14:00", 1, 1),
			slot("D2", "2024-01-02", "06:00", "??", 1, 1),
		},
		Programs: []roster.DailyProgram{
			program(1, "2024-01-01", assign("S1", "D1")),
			program(2, "2024-01-02", assign("S1", "D2")),
			program(3, "2024-01-03"),
		},
	}

	assert.Nil(t, roster.RestHours(snap, "S1", date("2024-01-03"), "06:00"))
}

func TestRestHours_ScansDescendingRegardlessOfInputOrder(t *testing.T) {
	snap := &roster.Snapshot{
		Slots: []roster.DutySlot{
			slot("D1", "2024-01-01", "06:00", "10:00", 1, 1),
			slot("D2", "2024-01-02", "06:00", "18:00", 1, 1),
		},
		Programs: []roster.DailyProgram{
			program(2, "2024-01-02", assign("S1", "D2")),
			program(1, "2024-01-01", assign("S1", "D1")),
		},
	}

	rest := roster.RestHours(snap, "S1", date("2024-01-03"), "06:00")

	require.NotNil(t, rest)
	assert.Equal(t, "12", rest.String())
}

func TestRestHours_FallsBackToIncomingLog(t *testing.T) {
	// GIVEN: No in-window duty, two rest locks on the same latest date
	// THEN: The later end time on the latest date wins

	snap := &roster.Snapshot{
		Programs: []roster.DailyProgram{program(1, "2024-01-05")},
		Incoming: []roster.IncomingDuty{
			{StaffID: "S1", Date: "2024-01-03", EndTime: "23:30"},
			{StaffID: "S1", Date: "2024-01-04", EndTime: "18:00"},
			{StaffID: "S1", Date: "2024-01-04", EndTime: "20:00"},
			{StaffID: "S1", Date: "2024-01-05", EndTime: "01:00"}, // not strictly before
			{StaffID: "S2", Date: "2024-01-04", EndTime: "23:00"},
		},
	}

	rest := roster.RestHours(snap, "S1", date("2024-01-05"), "06:00")

	require.NotNil(t, rest)
	assert.Equal(t, "10", rest.String())
}

func TestRestHours_InWindowMatchShadowsIncomingLog(t *testing.T) {
	snap := scenarioA()
	snap.Incoming = []roster.IncomingDuty{{StaffID: "S1", Date: "2024-01-01", EndTime: "23:59"}}

	rest := roster.RestHours(snap, "S1", date("2024-01-02"), "06:00")

	require.NotNil(t, rest)
	assert.Equal(t, "7", rest.String())
}

func TestRestHours_OvernightOverlapIsNegative(t *testing.T) {
	// GIVEN: A night duty ending 04:00 on day 2 and a 02:00 pickup on day 2
	// THEN: -2 hours, surfaced as-is

	snap := &roster.Snapshot{
		Slots: []roster.DutySlot{slot("NIGHT", "2024-01-01", "20:00", "04:00", 1, 1)},
		Programs: []roster.DailyProgram{
			program(1, "2024-01-01", assign("S1", "NIGHT")),
		},
	}

	rest := roster.RestHours(snap, "S1", date("2024-01-02"), "02:00")

	require.NotNil(t, rest)
	assert.True(t, rest.IsNegative())
	assert.Equal(t, "-2", rest.String())
}

func TestRestHours_MalformedPickupIsNil(t *testing.T) {
	assert.Nil(t, roster.RestHours(scenarioA(), "S1", date("2024-01-02"), ""))
}

func TestRestHours_LatestDutyOfMatchedDayGoverns(t *testing.T) {
	snap := &roster.Snapshot{
		Slots: []roster.DutySlot{
			slot("LATE", "2024-01-01", "14:00", "22:00", 1, 1),
			slot("EARLY", "2024-01-01", "05:00", "09:00", 1, 1),
		},
		Programs: []roster.DailyProgram{
			program(1, "2024-01-01", assign("S1", "LATE"), assign("S1", "EARLY")),
		},
	}

	rest := roster.RestHours(snap, "S1", date("2024-01-02"), "08:00")

	require.NotNil(t, rest)
	assert.Equal(t, "10", rest.String())
}
