package roster_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// SCENARIOS
// =============================================================================

func TestAudit_ScenarioA_SingleFatigueViolation(t *testing.T) {
	// GIVEN: S1 ends 23:00 day 1, picks up 06:00 day 2, 12h minimum
	// THEN: Exactly one CRITICAL fatigue violation citing 7.0

	report, err := roster.Audit(scenarioA(), roster.DefaultAuditOptions())
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, roster.RuleFatigue, v.Rule)
	assert.Equal(t, roster.SeverityCritical, v.Severity)
	assert.Equal(t, roster.StaffID("S1"), v.StaffID)
	assert.Equal(t, "7.0", v.Value.StringFixed(1))
	assert.Contains(t, v.Message, "7.0h rest")
	assert.Equal(t, 1, report.Counts[roster.SeverityCritical])
}

func TestAudit_FatigueThresholdIsCallerSupplied(t *testing.T) {
	opts := roster.DefaultAuditOptions()
	opts.MinRestHours = decimal.NewFromInt(7)

	report, err := roster.Audit(scenarioA(), opts)
	require.NoError(t, err)

	assert.Empty(t, violationsOf(report, roster.RuleFatigue), "7h rest meets a 7h minimum")
}

func TestAudit_ScenarioC_Equity(t *testing.T) {
	report, err := roster.Audit(twoSlotDay(8, 4), roster.DefaultAuditOptions())
	require.NoError(t, err)

	equity := violationsOf(report, roster.RuleEquity)
	require.Len(t, equity, 1)
	assert.Equal(t, roster.SeverityEquity, equity[0].Severity)
	assert.True(t, equity[0].Value.Equal(decimal.NewFromInt(40)), "gap %s", equity[0].Value)
	assert.Len(t, report.Violations, 1)

	report, err = roster.Audit(twoSlotDay(8, 7), roster.DefaultAuditOptions())
	require.NoError(t, err)
	assert.Empty(t, violationsOf(report, roster.RuleEquity), "gap 10 is within 20")
}

func TestAudit_ScenarioD_LegalFiveTwo(t *testing.T) {
	report, err := roster.Audit(fiveOfSeven(5), roster.DefaultAuditOptions())
	require.NoError(t, err)
	assert.Empty(t, violationsOf(report, roster.RuleLegalDaysOff))

	report, err = roster.Audit(fiveOfSeven(6), roster.DefaultAuditOptions())
	require.NoError(t, err)
	legal := violationsOf(report, roster.RuleLegalDaysOff)
	require.Len(t, legal, 1)
	assert.Equal(t, roster.StaffID("S3"), legal[0].StaffID)
	assert.Equal(t, roster.SeverityLegal, legal[0].Severity)
	assert.Contains(t, legal[0].Message, "S3")
	assert.Equal(t, "1", legal[0].Value.String())
}

func TestAudit_LegalAdjustsForLeave(t *testing.T) {
	// GIVEN: A week with 4 days annual leave, 2 days worked, 1 day off
	// THEN: Entitlement scales to floor(2 * 3/7) = 0, so 1 day off is a mismatch

	snap := fiveOfSeven(2)
	snap.Leave = []roster.LeaveRequest{{StaffID: "S3", StartDate: "2024-03-06", EndDate: "2024-03-09", Kind: roster.LeaveAnnual}}

	report, err := roster.Audit(snap, roster.DefaultAuditOptions())
	require.NoError(t, err)

	require.Len(t, violationsOf(report, roster.RuleLegalDaysOff), 1)
	assert.Equal(t, 0, roster.RequiredDaysOff(7, 4))
	assert.Equal(t, 2, roster.RequiredDaysOff(7, 0))
	assert.Equal(t, 9, roster.RequiredDaysOff(30, 0))
	assert.Equal(t, 0, roster.RequiredDaysOff(7, 7))
}

// =============================================================================
// SLOT RULES
// =============================================================================

func TestAudit_QualificationGapAndHeadcountFireIndependently(t *testing.T) {
	// GIVEN: Slot needs 1 ShiftLeader and 2 heads, one Ramp agent assigned
	// THEN: One qualification gap and one headcount violation

	lead := slot("LEAD", "2024-04-01", "06:00", "14:00", 2, 3)
	lead.Quota = map[roster.Capability]int{roster.CapShiftLeader: 1, roster.CapRamp: 1}
	snap := &roster.Snapshot{
		Staff:    []roster.Staff{local("L1", roster.CapRamp)},
		Slots:    []roster.DutySlot{lead},
		Programs: []roster.DailyProgram{program(1, "2024-04-01", assign("L1", "LEAD"), assign("L1", "LEAD"))},
	}

	report, err := roster.Audit(snap, roster.DefaultAuditOptions())
	require.NoError(t, err)

	gaps := violationsOf(report, roster.RuleQualificationGap)
	require.Len(t, gaps, 1)
	assert.Equal(t, roster.CapShiftLeader, gaps[0].Capability)
	assert.Equal(t, roster.SeverityCritical, gaps[0].Severity)

	heads := violationsOf(report, roster.RuleMinHeadcount)
	require.Len(t, heads, 1, "duplicate role rows count one head")
	assert.Equal(t, "1", heads[0].Value.String())

	// Qualification gap is reported before headcount within the slot
	assert.Equal(t, roster.RuleQualificationGap, report.Violations[0].Rule)
	assert.Equal(t, roster.RuleMinHeadcount, report.Violations[1].Rule)
}

func TestAudit_ContractBreach(t *testing.T) {
	snap := &roster.Snapshot{
		Staff: []roster.Staff{contracted("R1", "2024-04-02", "2024-04-30", roster.CapRamp)},
		Slots: []roster.DutySlot{slot("RAMP", "2024-04-01", "06:00", "14:00", 1, 1)},
		Programs: []roster.DailyProgram{
			program(1, "2024-04-01", assign("R1", "RAMP")),
		},
	}

	report, err := roster.Audit(snap, roster.DefaultAuditOptions())
	require.NoError(t, err)

	breaches := violationsOf(report, roster.RuleContractBreach)
	require.Len(t, breaches, 1)
	assert.Equal(t, roster.StaffID("R1"), breaches[0].StaffID)
	assert.Equal(t, roster.SeverityCritical, breaches[0].Severity)
}

func TestAudit_ContractBreach_AnySlotReference(t *testing.T) {
	// GIVEN: R1 (contract 2024-01-10..20) sits in the 01-01 program on a slot
	//        dated 01-02 and in the 01-02 program on a slot nobody defined
	// WHEN: The roster is audited
	// THEN: Both days classify as WORK and both raise a contract breach
	snap := &roster.Snapshot{
		Staff: []roster.Staff{contracted("R1", "2024-01-10", "2024-01-20")},
		Slots: []roster.DutySlot{slot("AM", "2024-01-02", "06:00", "14:00", 0, 1)},
		Programs: []roster.DailyProgram{
			program(1, "2024-01-01", assign("R1", "AM")),
			program(2, "2024-01-02", assign("R1", "GHOST"), assign("R1", "GHOST")),
		},
	}
	r1 := snap.Staff[0]
	assert.Equal(t, roster.StatusWork, roster.ClassifyOn(snap, r1, date("2024-01-01")))
	assert.Equal(t, roster.StatusWork, roster.ClassifyOn(snap, r1, date("2024-01-02")))

	report, err := roster.Audit(snap, roster.DefaultAuditOptions())
	require.NoError(t, err)

	breaches := violationsOf(report, roster.RuleContractBreach)
	require.Len(t, breaches, 2)
	assert.Equal(t, "2024-01-01", breaches[0].Date.String())
	assert.Equal(t, roster.SlotID("AM"), breaches[0].SlotID)
	assert.Equal(t, "2024-01-02", breaches[1].Date.String())
	assert.Equal(t, roster.SlotID("GHOST"), breaches[1].SlotID)
	assert.Contains(t, breaches[1].Message, "assigned to GHOST outside")
	for _, b := range breaches {
		assert.Equal(t, roster.SeverityCritical, b.Severity)
		assert.Equal(t, roster.StaffID("R1"), b.StaffID)
	}
}

func TestAudit_ContractBreach_OncePerStaffPerDay(t *testing.T) {
	snap := &roster.Snapshot{
		Staff: []roster.Staff{
			contracted("R2", "2024-04-02", "2024-04-30"),
			contracted("R1", "2024-04-02", "2024-04-30"),
		},
		Slots: []roster.DutySlot{
			slot("B", "2024-04-01", "14:00", "22:00", 0, 2),
			slot("A", "2024-04-01", "06:00", "14:00", 0, 2),
		},
		Programs: []roster.DailyProgram{
			program(1, "2024-04-01", assign("R2", "B"), assign("R1", "B"), assign("R1", "A")),
		},
	}

	report, err := roster.Audit(snap, roster.DefaultAuditOptions())
	require.NoError(t, err)

	breaches := violationsOf(report, roster.RuleContractBreach)
	require.Len(t, breaches, 2)
	assert.Equal(t, roster.StaffID("R1"), breaches[0].StaffID)
	assert.Equal(t, roster.SlotID("A"), breaches[0].SlotID)
	assert.Contains(t, breaches[0].Message, "assigned to A, B outside")
	assert.Equal(t, roster.StaffID("R2"), breaches[1].StaffID)
}

func TestAudit_AssetLeakage(t *testing.T) {
	// GIVEN: R1 in contract but idle while the only slot is under max
	snap := &roster.Snapshot{
		Staff: []roster.Staff{
			contracted("R1", "2024-04-01", "2024-04-30"),
			contracted("R2", "2024-04-01", "2024-04-30"),
		},
		Slots:    []roster.DutySlot{slot("RAMP", "2024-04-01", "06:00", "14:00", 1, 3)},
		Programs: []roster.DailyProgram{program(1, "2024-04-01", assign("R2", "RAMP"))},
	}

	report, err := roster.Audit(snap, roster.DefaultAuditOptions())
	require.NoError(t, err)

	assets := violationsOf(report, roster.RuleAssetLeakage)
	require.Len(t, assets, 1)
	assert.Equal(t, roster.SeverityAsset, assets[0].Severity)
	assert.Contains(t, assets[0].Message, "R1")
	assert.NotContains(t, assets[0].Message, "R2")

	// Fill the slot to max: no leakage
	snap.Slots[0].MaxStaff = 1
	report, err = roster.Audit(snap, roster.DefaultAuditOptions())
	require.NoError(t, err)
	assert.Empty(t, violationsOf(report, roster.RuleAssetLeakage))
}

// =============================================================================
// DETERMINISM AND STRUCTURE
// =============================================================================

func TestAudit_IdempotentAndOrdered(t *testing.T) {
	snap := fiveOfSeven(6)
	snap.Staff = append(snap.Staff, contracted("R1", "2024-03-01", "2024-03-31"))
	extra := slot("EXTRA", "2024-03-05", "06:00", "14:00", 2, 4)
	extra.Quota = map[roster.Capability]int{roster.CapLoadControl: 1}
	snap.Slots = append(snap.Slots, extra)

	first, err := roster.Audit(snap, roster.DefaultAuditOptions())
	require.NoError(t, err)
	second, err := roster.Audit(snap, roster.DefaultAuditOptions())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("audit not idempotent (-first +second):\n%s", diff)
	}

	// Dated violations ascend; window-wide LEGAL findings come last
	var last roster.Date
	sawWindowWide := false
	for _, v := range first.Violations {
		if v.Date.IsZero() {
			sawWindowWide = true
			continue
		}
		assert.False(t, sawWindowWide, "dated violation after window-wide one: %s", v.Message)
		assert.False(t, v.Date.Before(last), "out of order: %s", v.Message)
		last = v.Date
	}
	assert.True(t, sawWindowWide)
}

func TestAudit_GapInProgramsAuditedAsEmptyDay(t *testing.T) {
	snap := &roster.Snapshot{
		Staff: []roster.Staff{contracted("R1", "2024-04-01", "2024-04-30")},
		Slots: []roster.DutySlot{slot("MID", "2024-04-02", "06:00", "14:00", 1, 1)},
		Programs: []roster.DailyProgram{
			program(1, "2024-04-01"),
			program(3, "2024-04-03"),
		},
	}

	report, err := roster.Audit(snap, roster.DefaultAuditOptions())
	require.NoError(t, err)

	heads := violationsOf(report, roster.RuleMinHeadcount)
	require.Len(t, heads, 1)
	assert.Equal(t, "2024-04-02", heads[0].Date.String())
	assert.Equal(t, 3, report.Window.Len())
}

func TestAudit_StructuralErrors(t *testing.T) {
	_, err := roster.Audit(nil, roster.DefaultAuditOptions())
	assert.ErrorIs(t, err, roster.ErrNilSnapshot)

	_, err = roster.Audit(&roster.Snapshot{}, roster.DefaultAuditOptions())
	assert.ErrorIs(t, err, roster.ErrMissingPrograms)

	_, err = roster.Audit(&roster.Snapshot{Programs: []roster.DailyProgram{program(1, "01/02/2024")}}, roster.DefaultAuditOptions())
	assert.ErrorIs(t, err, roster.ErrMalformedProgramDate)

	_, err = roster.Audit(&roster.Snapshot{Programs: []roster.DailyProgram{
		program(1, "2024-01-02"),
		program(2, "2024-01-02"),
	}}, roster.DefaultAuditOptions())
	var dateErr *roster.ProgramDateError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, 1, dateErr.Index)
	assert.Equal(t, 0, dateErr.Previous)
	assert.True(t, roster.IsClientError(err))
}

func TestAudit_EmptyProgramListIsNotAnError(t *testing.T) {
	report, err := roster.Audit(&roster.Snapshot{Programs: []roster.DailyProgram{}}, roster.DefaultAuditOptions())
	require.NoError(t, err)
	assert.Empty(t, report.Violations)
}
