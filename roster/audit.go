/*
audit.go - Compliance Auditor

PURPOSE:
  Runs a fixed battery of rules over a multi-day roster and reports every
  finding as data. A CRITICAL finding never stops the pass.

RULE BATTERY (per day: per duty slot, then per assigned staff member):
  qualification_gap  CRITICAL  quota asks for a capability nobody assigned holds
  min_headcount      CRITICAL  unique staff below MinStaff
  fatigue            CRITICAL  rest before the duty below MinRestHours
  contract_breach    CRITICAL  Roster staff in the day's program outside their
                               contract window, whatever slot they point at
  equity             EQUITY    fill % spread across the day's slots too wide
  asset_leakage      ASSET     Roster staff on standby while a slot is under max
  legal_5_2          LEGAL     Local staff days off differ from the 5/2 entitlement
                               (window-wide, emitted after the last day)

ORDERING:
  Days ascending, slots by id, staff by id, capabilities in Capabilities
  order. Contract breaches follow the day's slot rules. The repair workflow
  selects violations by index, so the same input must always produce the
  same list.
*/
package roster

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// VIOLATION
// =============================================================================

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityLegal    Severity = "LEGAL"
	SeverityWarning  Severity = "WARNING"
	SeverityEquity   Severity = "EQUITY"
	SeverityAsset    Severity = "ASSET"
)

// Rule identifies which check produced a violation.
type Rule string

const (
	RuleQualificationGap Rule = "qualification_gap"
	RuleMinHeadcount     Rule = "min_headcount"
	RuleFatigue          Rule = "fatigue"
	RuleContractBreach   Rule = "contract_breach"
	RuleLegalDaysOff     Rule = "legal_5_2"
	RuleEquity           Rule = "equity"
	RuleAssetLeakage     Rule = "asset_leakage"
)

// Violation is one finding. Date is zero for window-wide rules.
type Violation struct {
	Rule       Rule
	Severity   Severity
	Date       Date
	SlotID     SlotID
	StaffID    StaffID
	Capability Capability
	Value      decimal.Decimal // rest hours, fill gap or days off, per rule
	Message    string
}

// Key identifies a violation independent of its message wording. Used to
// diff audits before and after a repair.
func (v Violation) Key() string {
	date := ""
	if !v.Date.IsZero() {
		date = v.Date.String()
	}
	return strings.Join([]string{string(v.Rule), date, string(v.SlotID), string(v.StaffID), string(v.Capability)}, "|")
}

// =============================================================================
// OPTIONS AND REPORT
// =============================================================================

// AuditOptions are the caller-supplied thresholds.
type AuditOptions struct {
	MinRestHours     decimal.Decimal
	EquityGapPercent decimal.Decimal
}

// DefaultAuditOptions returns a 12 hour rest minimum and a 20 point equity gap.
func DefaultAuditOptions() AuditOptions {
	return AuditOptions{
		MinRestHours:     decimal.NewFromInt(12),
		EquityGapPercent: decimal.NewFromInt(20),
	}
}

// AuditReport is the ordered result of an audit pass.
type AuditReport struct {
	Window     DateRange
	Violations []Violation
	Counts     map[Severity]int
}

// Messages returns every violation message in report order.
func (r *AuditReport) Messages() []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.Message
	}
	return out
}

// =============================================================================
// AUDITOR
// =============================================================================

// Audit runs the rule battery over every day spanned by the snapshot's
// programs. Days inside the span without a program are audited as empty.
// Only structural problems return an error.
func Audit(snap *Snapshot, opts AuditOptions) (*AuditReport, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	report := &AuditReport{Counts: make(map[Severity]int)}
	window, ok := snap.Window()
	if !ok {
		return report, nil
	}
	report.Window = window

	a := &auditor{snap: snap, opts: opts, report: report}
	for _, day := range window.Days() {
		a.auditDay(day)
	}
	a.auditLegalDaysOff(window)
	return report, nil
}

type auditor struct {
	snap   *Snapshot
	opts   AuditOptions
	report *AuditReport
}

func (a *auditor) add(v Violation) {
	a.report.Violations = append(a.report.Violations, v)
	a.report.Counts[v.Severity]++
}

func (a *auditor) auditDay(day Date) {
	program := a.snap.ProgramOn(day)
	slots := a.snap.SlotsOn(day)

	for _, slot := range slots {
		assigned := program.Headcount(slot.ID)
		a.checkQualifications(day, slot, assigned)
		a.checkHeadcount(day, slot, assigned)
		for _, id := range assigned {
			a.checkFatigue(day, slot, id)
		}
	}
	a.checkContracts(day, program)
	a.checkEquity(day, program, slots)
	a.checkAssetLeakage(day, program, slots)
}

func (a *auditor) checkQualifications(day Date, slot DutySlot, assigned []StaffID) {
	for _, c := range quotaOrder(slot.Quota) {
		if slot.Quota[c] <= 0 {
			continue
		}
		holders := 0
		for _, id := range assigned {
			if st, ok := a.snap.StaffByID(id); ok && st.Has(c) {
				holders++
			}
		}
		if holders > 0 {
			continue
		}
		a.add(Violation{
			Rule:       RuleQualificationGap,
			Severity:   SeverityCritical,
			Date:       day,
			SlotID:     slot.ID,
			Capability: c,
			Value:      decimal.NewFromInt(int64(slot.Quota[c])),
			Message: fmt.Sprintf("%s %s: qualification gap, %d %s required but none assigned",
				day, slotLabel(slot), slot.Quota[c], c),
		})
	}
}

func (a *auditor) checkHeadcount(day Date, slot DutySlot, assigned []StaffID) {
	if len(assigned) >= slot.MinStaff {
		return
	}
	a.add(Violation{
		Rule:     RuleMinHeadcount,
		Severity: SeverityCritical,
		Date:     day,
		SlotID:   slot.ID,
		Value:    decimal.NewFromInt(int64(len(assigned))),
		Message: fmt.Sprintf("%s %s: understaffed, %d assigned, minimum %d",
			day, slotLabel(slot), len(assigned), slot.MinStaff),
	})
}

func (a *auditor) checkFatigue(day Date, slot DutySlot, id StaffID) {
	rest := RestHours(a.snap, id, day, slot.PickupTime)
	if rest == nil || !rest.LessThan(a.opts.MinRestHours) {
		return
	}
	a.add(Violation{
		Rule:     RuleFatigue,
		Severity: SeverityCritical,
		Date:     day,
		SlotID:   slot.ID,
		StaffID:  id,
		Value:    *rest,
		Message: fmt.Sprintf("%s %s: fatigue risk for %s, %sh rest before pickup %s (minimum %sh)",
			day, slotLabel(slot), a.staffLabel(id), rest.StringFixed(1), slot.PickupTime, a.opts.MinRestHours.StringFixed(1)),
	})
}

// checkContracts covers every assignment in the program, including ones whose
// slot is unknown or dated on another day.
func (a *auditor) checkContracts(day Date, program DailyProgram) {
	slotsOf := make(map[StaffID][]string)
	var ids []StaffID
	for _, as := range program.Assignments {
		slots, seen := slotsOf[as.StaffID]
		if !seen {
			ids = append(ids, as.StaffID)
		}
		if !slices.Contains(slots, string(as.SlotID)) {
			slotsOf[as.StaffID] = append(slots, string(as.SlotID))
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		st, ok := a.snap.StaffByID(id)
		if !ok || st.Type != StaffRoster || st.InContract(day) {
			continue
		}
		slots := slotsOf[id]
		sort.Strings(slots)
		a.add(Violation{
			Rule:     RuleContractBreach,
			Severity: SeverityCritical,
			Date:     day,
			SlotID:   SlotID(slots[0]),
			StaffID:  id,
			Message: fmt.Sprintf("%s: %s assigned to %s outside contract window [%s, %s]",
				day, a.staffLabel(id), strings.Join(slots, ", "), st.WorkFrom, st.WorkTo),
		})
	}
}

func (a *auditor) checkEquity(day Date, program DailyProgram, slots []DutySlot) {
	hundred := decimal.NewFromInt(100)
	var (
		minFill, maxFill decimal.Decimal
		minSlot, maxSlot DutySlot
		counted          int
	)
	for _, slot := range slots {
		if slot.MaxStaff <= 0 {
			continue
		}
		fill := decimal.NewFromInt(int64(len(program.Headcount(slot.ID)))).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(slot.MaxStaff)))
		if counted == 0 || fill.LessThan(minFill) {
			minFill, minSlot = fill, slot
		}
		if counted == 0 || fill.GreaterThan(maxFill) {
			maxFill, maxSlot = fill, slot
		}
		counted++
	}
	if counted < 2 {
		return
	}
	gap := maxFill.Sub(minFill)
	if !gap.GreaterThan(a.opts.EquityGapPercent) {
		return
	}
	a.add(Violation{
		Rule:     RuleEquity,
		Severity: SeverityEquity,
		Date:     day,
		Value:    gap,
		Message: fmt.Sprintf("%s: shortages unevenly spread, fill ranges %s%% (%s) to %s%% (%s), gap %s > %s",
			day, minFill.Round(1), slotLabel(minSlot), maxFill.Round(1), slotLabel(maxSlot),
			gap.Round(1), a.opts.EquityGapPercent),
	})
}

func (a *auditor) checkAssetLeakage(day Date, program DailyProgram, slots []DutySlot) {
	var underMax []string
	for _, slot := range slots {
		if len(program.Headcount(slot.ID)) < slot.MaxStaff {
			underMax = append(underMax, slotLabel(slot))
		}
	}
	if len(underMax) == 0 {
		return
	}
	var idle []string
	for _, st := range a.snap.SortedStaff() {
		if st.Type != StaffRoster {
			continue
		}
		if Classify(st, day, program, a.snap.Incoming, a.snap.Leave) == StatusStandby {
			idle = append(idle, a.staffLabel(st.ID))
		}
	}
	if len(idle) == 0 {
		return
	}
	a.add(Violation{
		Rule:     RuleAssetLeakage,
		Severity: SeverityAsset,
		Date:     day,
		Value:    decimal.NewFromInt(int64(len(idle))),
		Message: fmt.Sprintf("%s: %d roster staff on standby (%s) while %d slot(s) under max (%s)",
			day, len(idle), strings.Join(idle, ", "), len(underMax), strings.Join(underMax, ", ")),
	})
}

// auditLegalDaysOff compares each Local staff member's DAYS_OFF count with the
// 5/2 entitlement for the window, scaled down by non day-off leave.
func (a *auditor) auditLegalDaysOff(window DateRange) {
	n := window.Len()
	for _, st := range a.snap.SortedStaff() {
		if st.Type != StaffLocal {
			continue
		}
		off, onLeave := 0, 0
		for _, d := range window.Days() {
			switch ClassifyOn(a.snap, st, d) {
			case StatusDaysOff:
				off++
			case StatusAnnualLeave, StatusRosterLeave:
				onLeave++
			}
		}
		required := RequiredDaysOff(n, onLeave)
		if off == required {
			continue
		}
		a.add(Violation{
			Rule:     RuleLegalDaysOff,
			Severity: SeverityLegal,
			StaffID:  st.ID,
			Value:    decimal.NewFromInt(int64(off)),
			Message: fmt.Sprintf("%s: %d day(s) off over %d days %s, 5/2 rule requires %d",
				a.staffLabel(st.ID), off, n, window, required),
		})
	}
}

// RequiredDaysOff is the 5/2 days-off entitlement for a window of n days of
// which leaveDays are already spent on leave: the days a Local worker is not
// credited with, reduced in proportion to the leave taken.
func RequiredDaysOff(n, leaveDays int) int {
	if n <= 0 {
		return 0
	}
	base := n - localBase(n)
	working := n - leaveDays
	if working <= 0 {
		return 0
	}
	return base * working / n
}

// =============================================================================
// HELPERS
// =============================================================================

// quotaOrder returns the quota's capabilities in Capabilities order, followed
// by any unknown keys sorted by name.
func quotaOrder(quota map[Capability]int) []Capability {
	known := make(map[Capability]bool, len(Capabilities))
	var out []Capability
	for _, c := range Capabilities {
		known[c] = true
		if _, ok := quota[c]; ok {
			out = append(out, c)
		}
	}
	var extra []Capability
	for c := range quota {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

func slotLabel(slot DutySlot) string {
	if slot.Name == "" {
		return string(slot.ID)
	}
	return fmt.Sprintf("%s (%s)", slot.Name, slot.ID)
}

func (a *auditor) staffLabel(id StaffID) string {
	if st, ok := a.snap.StaffByID(id); ok && st.Name != "" {
		return fmt.Sprintf("%s (%s)", st.Name, id)
	}
	return string(id)
}
