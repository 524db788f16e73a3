/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Engine types carry
  roster.Date and decimal.Decimal values; DTOs flatten them to strings so
  clients see "2024-01-02" and "7.0" verbatim.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Audit:     ViolationDTO, AuditReportDTO, AuditDiffDTO, RepairRequest
  Capacity:  ForecastDTO, FiguresDTO, CapabilityFiguresDTO, CreditDTO
  Registry:  RegistryDTO, RegistryRowDTO, RegistryCellDTO
  Rest:      RestRequest, RestDTO
  Rosters:   RosterDTO, SaveRosterRequest, AuditRunDTO
  Scenarios: ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/snapshot.go: SnapshotJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/factory"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// RestRequest asks for the rest before one pickup.
type RestRequest struct {
	Snapshot     factory.SnapshotJSON `json:"snapshot"`
	StaffID      string               `json:"staff_id"`
	Date         string               `json:"date"`
	PickupTime   string               `json:"pickup_time"`
	MinRestHours *float64             `json:"min_rest_hours,omitempty"`
}

// DiffRequest compares a roster before and after a repair.
type DiffRequest struct {
	Before factory.SnapshotJSON `json:"before"`
	After  factory.SnapshotJSON `json:"after"`
}

// RepairRequest selects violations of a snapshot's audit by index.
type RepairRequest struct {
	Snapshot factory.SnapshotJSON `json:"snapshot"`
	Indices  []int                `json:"indices"`
}

// SaveRosterRequest stores a snapshot. ID is generated when empty.
type SaveRosterRequest struct {
	ID       string               `json:"id,omitempty"`
	Name     string               `json:"name"`
	Snapshot factory.SnapshotJSON `json:"snapshot"`
}

// LoadScenarioRequest selects a demo roster.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// AUDIT
// =============================================================================

type ViolationDTO struct {
	Index      int    `json:"index"`
	Rule       string `json:"rule"`
	Severity   string `json:"severity"`
	Date       string `json:"date,omitempty"`
	SlotID     string `json:"slot_id,omitempty"`
	StaffID    string `json:"staff_id,omitempty"`
	Capability string `json:"capability,omitempty"`
	Value      string `json:"value"`
	Message    string `json:"message"`
}

type SeverityCountDTO struct {
	Severity string `json:"severity"`
	Count    int    `json:"count"`
}

type AuditReportDTO struct {
	Start      string             `json:"start,omitempty"`
	End        string             `json:"end,omitempty"`
	Violations []ViolationDTO     `json:"violations"`
	Summary    []SeverityCountDTO `json:"summary"`
}

type AuditDiffDTO struct {
	Resolved   []ViolationDTO `json:"resolved"`
	Introduced []ViolationDTO `json:"introduced"`
	Persisting []ViolationDTO `json:"persisting"`
}

type RepairDTO struct {
	Selected     []ViolationDTO `json:"selected"`
	Instructions []string       `json:"instructions"`
}

// =============================================================================
// CAPACITY
// =============================================================================

type FiguresDTO struct {
	Supply         int     `json:"supply"`
	Demand         int     `json:"demand"`
	NetBalance     int     `json:"net_balance"`
	SafeDailyLeave int     `json:"safe_daily_leave"`
	Coverage       *string `json:"coverage_percent"`
}

type CapabilityFiguresDTO struct {
	Capability string `json:"capability"`
	FiguresDTO
}

type CreditDTO struct {
	StaffID string `json:"staff_id"`
	Type    string `json:"type"`
	Credit  int    `json:"credit"`
}

type ForecastDTO struct {
	Start        string                 `json:"start"`
	End          string                 `json:"end"`
	Duration     int                    `json:"duration"`
	Total        FiguresDTO             `json:"total"`
	ByCapability []CapabilityFiguresDTO `json:"by_capability"`
	Credits      []CreditDTO            `json:"credits"`
}

// =============================================================================
// REGISTRY
// =============================================================================

type RegistryCellDTO struct {
	Date        string `json:"date"`
	Status      string `json:"status"`
	Consecutive int    `json:"consecutive"`
}

type RegistryRowDTO struct {
	StaffID string            `json:"staff_id"`
	Name    string            `json:"name"`
	Type    string            `json:"type"`
	Cells   []RegistryCellDTO `json:"cells"`
	Totals  map[string]int    `json:"totals"`
}

type RegistryDTO struct {
	Start  string           `json:"start"`
	End    string           `json:"end"`
	Rows   []RegistryRowDTO `json:"rows"`
	Totals map[string]int   `json:"totals"`
}

// =============================================================================
// REST
// =============================================================================

type RestDTO struct {
	StaffID      string  `json:"staff_id"`
	Date         string  `json:"date"`
	PickupTime   string  `json:"pickup_time"`
	RestHours    *string `json:"rest_hours"`
	PriorEnd     string  `json:"prior_end,omitempty"`
	PriorSlotID  string  `json:"prior_slot_id,omitempty"`
	MinRestHours string  `json:"min_rest_hours"`
	Compliant    *bool   `json:"compliant"`
}

// =============================================================================
// ROSTERS
// =============================================================================

type RosterDTO struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Start     string                `json:"start,omitempty"`
	End       string                `json:"end,omitempty"`
	Staff     int                   `json:"staff"`
	CreatedAt string                `json:"created_at"`
	UpdatedAt string                `json:"updated_at"`
	Snapshot  *factory.SnapshotJSON `json:"snapshot,omitempty"`
}

type AuditRunDTO struct {
	ID       string `json:"id"`
	RosterID string `json:"roster_id"`
	RanAt    string `json:"ran_at"`
	Critical int    `json:"critical"`
	Legal    int    `json:"legal"`
	Warnings int    `json:"warnings"`
	Error    string `json:"error,omitempty"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Expect      string `json:"expect"`
}

// ErrorResponse is the error envelope for every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func dateString(d roster.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func decimalPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func toViolationDTOs(violations []roster.Violation) []ViolationDTO {
	out := make([]ViolationDTO, 0, len(violations))
	for i, v := range violations {
		out = append(out, ViolationDTO{
			Index:      i,
			Rule:       string(v.Rule),
			Severity:   string(v.Severity),
			Date:       dateString(v.Date),
			SlotID:     string(v.SlotID),
			StaffID:    string(v.StaffID),
			Capability: string(v.Capability),
			Value:      v.Value.String(),
			Message:    v.Message,
		})
	}
	return out
}

func NewAuditReportDTO(report *roster.AuditReport) AuditReportDTO {
	summary := []SeverityCountDTO{}
	for _, c := range roster.CountBySeverity(report.Violations) {
		summary = append(summary, SeverityCountDTO{Severity: string(c.Severity), Count: c.Count})
	}
	return AuditReportDTO{
		Start:      dateString(report.Window.Start),
		End:        dateString(report.Window.End),
		Violations: toViolationDTOs(report.Violations),
		Summary:    summary,
	}
}

func toFiguresDTO(f roster.CapacityFigures) FiguresDTO {
	return FiguresDTO{
		Supply:         f.Supply,
		Demand:         f.Demand,
		NetBalance:     f.NetBalance,
		SafeDailyLeave: f.SafeDailyLeave,
		Coverage:       decimalPtr(f.Coverage),
	}
}

func NewForecastDTO(f *roster.CapacityForecast) ForecastDTO {
	dto := ForecastDTO{
		Start:        dateString(f.Window.Start),
		End:          dateString(f.Window.End),
		Duration:     f.Duration,
		Total:        toFiguresDTO(f.Total),
		ByCapability: make([]CapabilityFiguresDTO, 0, len(f.ByCapability)),
		Credits:      make([]CreditDTO, 0, len(f.Credits)),
	}
	for _, c := range f.ByCapability {
		dto.ByCapability = append(dto.ByCapability, CapabilityFiguresDTO{
			Capability: string(c.Capability),
			FiguresDTO: toFiguresDTO(c.CapacityFigures),
		})
	}
	for _, c := range f.Credits {
		dto.Credits = append(dto.Credits, CreditDTO{StaffID: string(c.StaffID), Type: string(c.Type), Credit: c.Credit})
	}
	return dto
}

func statusTotals(m map[roster.DayStatus]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func NewRegistryDTO(reg *roster.Registry) RegistryDTO {
	dto := RegistryDTO{
		Start:  dateString(reg.Window.Start),
		End:    dateString(reg.Window.End),
		Rows:   make([]RegistryRowDTO, 0, len(reg.Rows)),
		Totals: statusTotals(reg.Totals),
	}
	for _, row := range reg.Rows {
		r := RegistryRowDTO{
			StaffID: string(row.StaffID),
			Name:    row.Name,
			Type:    string(row.Type),
			Cells:   make([]RegistryCellDTO, 0, len(row.Cells)),
			Totals:  statusTotals(row.Totals),
		}
		for _, c := range row.Cells {
			r.Cells = append(r.Cells, RegistryCellDTO{Date: c.Date.String(), Status: string(c.Status), Consecutive: c.Consecutive})
		}
		dto.Rows = append(dto.Rows, r)
	}
	return dto
}

func toRosterDTO(r roster.StoredRoster, withSnapshot bool) RosterDTO {
	dto := RosterDTO{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
	}
	if r.Snapshot != nil {
		dto.Staff = len(r.Snapshot.Staff)
		if window, ok := r.Snapshot.Window(); ok {
			dto.Start = window.Start.String()
			dto.End = window.End.String()
		}
		if withSnapshot {
			sj := factory.FromSnapshot(r.Snapshot)
			dto.Snapshot = &sj
		}
	}
	return dto
}

func toAuditRunDTO(run roster.AuditRun) AuditRunDTO {
	return AuditRunDTO{
		ID:       run.ID,
		RosterID: run.RosterID,
		RanAt:    run.RanAt.Format(time.RFC3339),
		Critical: run.Critical,
		Legal:    run.Legal,
		Warnings: run.Warnings,
		Error:    run.Err,
	}
}
