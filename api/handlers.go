/*
handlers.go - HTTP API handlers for the roster compliance engine

PURPOSE:
  Exposes the roster engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the roster package.

ENDPOINTS:
  Stateless evaluation (snapshot in the body):
    POST   /api/audit                  Audit a snapshot
    POST   /api/capacity               Capacity forecast (?start=&days=)
    POST   /api/registry               Absence & Rest Registry (?start=&days=)
    POST   /api/rest                   Rest hours before one pickup
    POST   /api/audit/diff             Re-audit comparison (before/after)
    POST   /api/repair/instructions    Selected violations as fix instructions

  Stored rosters:
    GET    /api/rosters                List stored rosters
    POST   /api/rosters                Store a roster
    GET    /api/rosters/{id}           Get roster with snapshot
    DELETE /api/rosters/{id}           Delete roster
    GET    /api/rosters/{id}/audit     Audit stored roster (records a run)
    GET    /api/rosters/{id}/capacity  Forecast stored roster
    GET    /api/rosters/{id}/registry  Registry of stored roster
    GET    /api/audit-runs             Audit history (?roster_id=)

  Scenarios:
    GET    /api/scenarios              List demo rosters
    POST   /api/scenarios/load         Store a demo roster

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: roster.SnapshotStore (sqlite or memory)
  - Logger: zap, one line per evaluation with severity counts
  - Options: audit defaults from config

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, structural snapshot errors, bad window/selection
  - 404: Unknown roster
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo roster loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/factory"
	"github.com/warp/roster-engine/roster"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; a month of programs fits comfortably.
const maxBodyBytes = 8 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   roster.SnapshotStore
	Logger  *zap.Logger
	Options roster.AuditOptions

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store roster.SnapshotStore, logger *zap.Logger, opts roster.AuditOptions) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:   store,
		Logger:  logger,
		Options: opts,
	}
}

// =============================================================================
// STATELESS EVALUATION
// =============================================================================

// Audit runs every compliance rule over the posted snapshot.
// POST /api/audit?min_rest=12
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	snap, err := decodeSnapshot(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid snapshot", err)
		return
	}
	opts, err := h.auditOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid audit options", err)
		return
	}

	report, err := roster.Audit(snap, opts)
	if err != nil {
		h.writeEngineError(w, "Audit failed", err)
		return
	}
	h.logReport(r, "", report)

	writeJSON(w, http.StatusOK, NewAuditReportDTO(report))
}

// Capacity forecasts supply against demand.
// POST /api/capacity?start=2024-01-01&days=7
func (h *Handler) Capacity(w http.ResponseWriter, r *http.Request) {
	snap, err := decodeSnapshot(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid snapshot", err)
		return
	}
	h.writeForecast(w, r, snap)
}

// Registry classifies every staff member on every day of the window.
// POST /api/registry?start=2024-01-01&days=7
func (h *Handler) Registry(w http.ResponseWriter, r *http.Request) {
	snap, err := decodeSnapshot(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid snapshot", err)
		return
	}
	h.writeRegistry(w, r, snap)
}

// Rest returns the rest between a staff member's prior duty and a pickup.
// POST /api/rest
func (h *Handler) Rest(w http.ResponseWriter, r *http.Request) {
	var req RestRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	snap, err := req.Snapshot.ToSnapshot()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid snapshot", err)
		return
	}
	date, ok := roster.ParseDate(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid date", fmt.Errorf("date %q is not YYYY-MM-DD", req.Date))
		return
	}

	minRest := h.Options.MinRestHours
	if req.MinRestHours != nil {
		if *req.MinRestHours <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid min_rest_hours", fmt.Errorf("must be positive"))
			return
		}
		minRest = decimal.NewFromFloat(*req.MinRestHours)
	}

	resp := RestDTO{
		StaffID:      req.StaffID,
		Date:         date.String(),
		PickupTime:   req.PickupTime,
		MinRestHours: minRest.String(),
	}
	if rest := roster.RestHours(snap, roster.StaffID(req.StaffID), date, req.PickupTime); rest != nil {
		s := rest.StringFixed(1)
		compliant := rest.GreaterThanOrEqual(minRest)
		resp.RestHours = &s
		resp.Compliant = &compliant
	}
	if prior, ok := roster.ResolvePriorDuty(snap, roster.StaffID(req.StaffID), date); ok {
		resp.PriorEnd = prior.End.String()
		resp.PriorSlotID = string(prior.SlotID)
	}

	writeJSON(w, http.StatusOK, resp)
}

// AuditDiff audits a before and after snapshot and reports which violations
// the change resolved, introduced or left in place.
// POST /api/audit/diff
func (h *Handler) AuditDiff(w http.ResponseWriter, r *http.Request) {
	var req DiffRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	before, err := req.Before.ToSnapshot()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid before snapshot", err)
		return
	}
	after, err := req.After.ToSnapshot()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid after snapshot", err)
		return
	}
	opts, err := h.auditOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid audit options", err)
		return
	}

	beforeReport, err := roster.Audit(before, opts)
	if err != nil {
		h.writeEngineError(w, "Audit of before snapshot failed", err)
		return
	}
	afterReport, err := roster.Audit(after, opts)
	if err != nil {
		h.writeEngineError(w, "Audit of after snapshot failed", err)
		return
	}

	diff := roster.DiffAudits(beforeReport, afterReport)
	h.Logger.Info("re-audit",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Int("resolved", len(diff.Resolved)),
		zap.Int("introduced", len(diff.Introduced)),
		zap.Int("persisting", len(diff.Persisting)),
	)

	writeJSON(w, http.StatusOK, AuditDiffDTO{
		Resolved:   toViolationDTOs(diff.Resolved),
		Introduced: toViolationDTOs(diff.Introduced),
		Persisting: toViolationDTOs(diff.Persisting),
	})
}

// RepairInstructions audits the snapshot and turns the selected violations
// into the instruction list handed to the repair generator.
// POST /api/repair/instructions
func (h *Handler) RepairInstructions(w http.ResponseWriter, r *http.Request) {
	var req RepairRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	snap, err := req.Snapshot.ToSnapshot()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid snapshot", err)
		return
	}
	opts, err := h.auditOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid audit options", err)
		return
	}

	report, err := roster.Audit(snap, opts)
	if err != nil {
		h.writeEngineError(w, "Audit failed", err)
		return
	}
	selected, err := roster.SelectViolations(report.Violations, req.Indices)
	if err != nil {
		h.writeEngineError(w, "Invalid selection", err)
		return
	}

	writeJSON(w, http.StatusOK, RepairDTO{
		Selected:     toViolationDTOs(selected),
		Instructions: roster.RepairInstructions(selected),
	})
}

// =============================================================================
// STORED ROSTERS
// =============================================================================

// ListRosters returns stored rosters without their snapshots.
// GET /api/rosters
func (h *Handler) ListRosters(w http.ResponseWriter, r *http.Request) {
	rosters, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rosters", err)
		return
	}

	dtos := make([]RosterDTO, 0, len(rosters))
	for _, ro := range rosters {
		dtos = append(dtos, toRosterDTO(ro, false))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRoster stores a snapshot. The snapshot must pass structural
// validation so the sweeper never trips on it.
// POST /api/rosters
func (h *Handler) CreateRoster(w http.ResponseWriter, r *http.Request) {
	var req SaveRosterRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}
	snap, err := req.Snapshot.ToSnapshot()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid snapshot", err)
		return
	}
	if err := snap.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid snapshot", err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	if err := h.Store.Save(r.Context(), roster.StoredRoster{ID: id, Name: req.Name, Snapshot: snap}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save roster", err)
		return
	}

	stored, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload roster", err)
		return
	}
	h.Logger.Info("roster saved", zap.String("roster_id", id), zap.Int("staff", len(snap.Staff)))

	writeJSON(w, http.StatusCreated, toRosterDTO(*stored, false))
}

// GetRoster returns a stored roster with its snapshot.
// GET /api/rosters/{id}
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	stored, ok := h.loadRoster(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toRosterDTO(*stored, true))
}

// DeleteRoster removes a stored roster.
// DELETE /api/rosters/{id}
func (h *Handler) DeleteRoster(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if roster.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Roster not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete roster", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// AuditRoster audits a stored roster and records the run.
// GET /api/rosters/{id}/audit
func (h *Handler) AuditRoster(w http.ResponseWriter, r *http.Request) {
	stored, ok := h.loadRoster(w, r)
	if !ok {
		return
	}
	opts, err := h.auditOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid audit options", err)
		return
	}

	report, err := roster.Audit(stored.Snapshot, opts)
	if err != nil {
		h.writeEngineError(w, "Audit failed", err)
		return
	}
	h.logReport(r, stored.ID, report)

	run := roster.NewAuditRun(uuid.NewString(), stored.ID, time.Now().UTC(), report)
	if err := h.Store.RecordAuditRun(r.Context(), run); err != nil {
		h.Logger.Warn("failed to record audit run", zap.String("roster_id", stored.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, NewAuditReportDTO(report))
}

// RosterCapacity forecasts a stored roster.
// GET /api/rosters/{id}/capacity?start=&days=
func (h *Handler) RosterCapacity(w http.ResponseWriter, r *http.Request) {
	stored, ok := h.loadRoster(w, r)
	if !ok {
		return
	}
	h.writeForecast(w, r, stored.Snapshot)
}

// RosterRegistry builds the registry of a stored roster.
// GET /api/rosters/{id}/registry?start=&days=
func (h *Handler) RosterRegistry(w http.ResponseWriter, r *http.Request) {
	stored, ok := h.loadRoster(w, r)
	if !ok {
		return
	}
	h.writeRegistry(w, r, stored.Snapshot)
}

// ListAuditRuns returns audit history.
// GET /api/audit-runs?roster_id=
func (h *Handler) ListAuditRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListAuditRuns(r.Context(), r.URL.Query().Get("roster_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get audit runs", err)
		return
	}

	dtos := make([]AuditRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toAuditRunDTO(run))
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": dtos})
}

// =============================================================================
// SHARED
// =============================================================================

func (h *Handler) loadRoster(w http.ResponseWriter, r *http.Request) (*roster.StoredRoster, bool) {
	id := chi.URLParam(r, "id")
	stored, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if roster.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Roster not found", err)
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get roster", err)
		return nil, false
	}
	return stored, true
}

func (h *Handler) writeForecast(w http.ResponseWriter, r *http.Request, snap *roster.Snapshot) {
	window, err := resolveWindow(r, snap)
	if err != nil {
		h.writeEngineError(w, "Invalid window", err)
		return
	}
	forecast, err := roster.Forecast(snap, window)
	if err != nil {
		h.writeEngineError(w, "Forecast failed", err)
		return
	}
	writeJSON(w, http.StatusOK, NewForecastDTO(forecast))
}

func (h *Handler) writeRegistry(w http.ResponseWriter, r *http.Request, snap *roster.Snapshot) {
	window, err := resolveWindow(r, snap)
	if err != nil {
		h.writeEngineError(w, "Invalid window", err)
		return
	}
	writeJSON(w, http.StatusOK, NewRegistryDTO(roster.BuildRegistry(snap, window)))
}

// auditOptions applies ?min_rest= and ?equity_gap= over the configured defaults.
func (h *Handler) auditOptions(r *http.Request) (roster.AuditOptions, error) {
	opts := h.Options
	q := r.URL.Query()
	if v := q.Get("min_rest"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || !d.IsPositive() {
			return opts, fmt.Errorf("min_rest %q must be a positive number", v)
		}
		opts.MinRestHours = d
	}
	if v := q.Get("equity_gap"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || !d.IsPositive() {
			return opts, fmt.Errorf("equity_gap %q must be a positive number", v)
		}
		opts.EquityGapPercent = d
	}
	return opts, nil
}

func (h *Handler) logReport(r *http.Request, rosterID string, report *roster.AuditReport) {
	fields := []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("window", report.Window.String()),
		zap.Int("violations", len(report.Violations)),
	}
	if rosterID != "" {
		fields = append(fields, zap.String("roster_id", rosterID))
	}
	for _, c := range roster.CountBySeverity(report.Violations) {
		fields = append(fields, zap.Int(string(c.Severity), c.Count))
	}
	h.Logger.Info("audit", fields...)
}

// writeEngineError maps roster errors onto HTTP statuses.
func (h *Handler) writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case roster.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case roster.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		h.Logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// resolveWindow reads ?start=YYYY-MM-DD&days=N. Missing parameters fall back
// to the span of the snapshot's programs.
func resolveWindow(r *http.Request, snap *roster.Snapshot) (roster.DateRange, error) {
	q := r.URL.Query()
	days := 0
	if s := q.Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return roster.DateRange{}, fmt.Errorf("%w: days %q", roster.ErrInvalidWindow, s)
		}
		days = n
	}
	return roster.ResolveWindow(snap, q.Get("start"), days)
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func decodeSnapshot(w http.ResponseWriter, r *http.Request) (*roster.Snapshot, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return factory.ParseJSON(data)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
