/*
scenarios.go - Demo roster loaders for testing and demonstrations

PURPOSE:

	Provides pre-built rosters that reproduce the reference compliance
	scenarios. Each one is stored as a regular roster so every stored-roster
	endpoint (audit, capacity, registry) and the re-audit sweeper see it.

AVAILABLE SCENARIOS:

	fatigue-breach:  23:00 finish then 06:00 pickup, one 7.0h CRITICAL finding
	contract-credit: Roster staff with a 10-20 Jan contract, 11 credit days in January
	equity-gap:      Two slots filled 80% and 40%, one EQUITY finding
	five-two:        A week worked 6 of 7 days, one LEGAL finding

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "fatigue-breach"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description, expectation
 2. Add a builder to 'scenarioBuilders'

NOTE:

	Loading a scenario overwrites the roster stored as scenario-<id>.

SEE ALSO:
  - handlers.go: Stored roster endpoints
*/
package api

import (
	"fmt"
	"net/http"

	"github.com/warp/roster-engine/roster"
	"go.uber.org/zap"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "fatigue-breach",
		Name:        "Fatigue Breach",
		Description: "Late duty ends 23:00, next pickup 06:00 the following day",
		Expect:      "1 CRITICAL fatigue violation citing 7.0h rest",
	},
	{
		ID:          "contract-credit",
		Name:        "Contract Credit",
		Description: "Roster staff contracted 2024-01-10 to 2024-01-20 inside a January window",
		Expect:      "capacity credit 11 for S2",
	},
	{
		ID:          "equity-gap",
		Name:        "Equity Gap",
		Description: "Two slots on one day, filled 8/10 and 4/10",
		Expect:      "1 EQUITY violation, gap 40",
	},
	{
		ID:          "five-two",
		Name:        "Five-Two Rule",
		Description: "Local agent assigned on 6 of 7 days",
		Expect:      "1 LEGAL violation naming S3",
	},
}

var scenarioBuilders = map[string]func() *roster.Snapshot{
	"fatigue-breach":  fatigueBreachScenario,
	"contract-credit": contractCreditScenario,
	"equity-gap":      equityGapScenario,
	"five-two":        fiveTwoScenario,
}

// ScenarioRosterID is the roster id a scenario is stored under.
func ScenarioRosterID(scenarioID string) string {
	return "scenario-" + scenarioID
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario stores a demo roster.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	build, ok := scenarioBuilders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	var name string
	for _, s := range scenarios {
		if s.ID == req.ScenarioID {
			name = s.Name
		}
	}

	id := ScenarioRosterID(req.ScenarioID)
	if err := h.Store.Save(r.Context(), roster.StoredRoster{ID: id, Name: name, Snapshot: build()}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	stored, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()
	h.Logger.Info("scenario loaded", zap.String("scenario", req.ScenarioID), zap.String("roster_id", id))

	writeJSON(w, http.StatusOK, toRosterDTO(*stored, false))
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

func rampSlot(id, date, pickup, end string, minStaff, maxStaff int) roster.DutySlot {
	return roster.DutySlot{
		ID:         roster.SlotID(id),
		Name:       "Ramp " + id,
		PickupDate: date,
		PickupTime: pickup,
		EndTime:    end,
		MinStaff:   minStaff,
		MaxStaff:   maxStaff,
	}
}

func fatigueBreachScenario() *roster.Snapshot {
	return &roster.Snapshot{
		Staff: []roster.Staff{
			{ID: "S1", Name: "Ana Silva", Initials: "AS", Type: roster.StaffLocal, Capabilities: []roster.Capability{roster.CapRamp}},
		},
		Slots: []roster.DutySlot{
			rampSlot("PM-1", "2024-01-01", "15:00", "23:00", 1, 1),
			rampSlot("AM-2", "2024-01-02", "06:00", "14:00", 1, 1),
		},
		Programs: []roster.DailyProgram{
			{Day: 1, Date: "2024-01-01", Assignments: []roster.Assignment{{StaffID: "S1", SlotID: "PM-1", Role: "Ramp"}}},
			{Day: 2, Date: "2024-01-02", Assignments: []roster.Assignment{{StaffID: "S1", SlotID: "AM-2", Role: "Ramp"}}},
		},
	}
}

func contractCreditScenario() *roster.Snapshot {
	snap := &roster.Snapshot{
		Staff: []roster.Staff{
			{ID: "S2", Name: "Rui Costa", Initials: "RC", Type: roster.StaffRoster,
				Capabilities: []roster.Capability{roster.CapLoadControl}, WorkFrom: "2024-01-10", WorkTo: "2024-01-20"},
		},
		Programs: []roster.DailyProgram{},
	}
	start := roster.NewDate(2024, 1, 1)
	for i := 0; i < 31; i++ {
		snap.Programs = append(snap.Programs, roster.DailyProgram{Day: i + 1, Date: start.AddDays(i).String()})
	}
	return snap
}

func equityGapScenario() *roster.Snapshot {
	const date = "2024-05-01"
	snap := &roster.Snapshot{
		Slots: []roster.DutySlot{
			rampSlot("A", date, "06:00", "14:00", 4, 10),
			rampSlot("B", date, "14:00", "22:00", 4, 10),
		},
	}
	program := roster.DailyProgram{Day: 1, Date: date}
	for i := 1; i <= 12; i++ {
		id := roster.StaffID(fmt.Sprintf("E%02d", i))
		snap.Staff = append(snap.Staff, roster.Staff{ID: id, Name: fmt.Sprintf("Agent %02d", i), Type: roster.StaffLocal})
		slot := roster.SlotID("A")
		if i > 8 {
			slot = "B"
		}
		program.Assignments = append(program.Assignments, roster.Assignment{StaffID: id, SlotID: slot})
	}
	snap.Programs = []roster.DailyProgram{program}
	return snap
}

func fiveTwoScenario() *roster.Snapshot {
	snap := &roster.Snapshot{
		Staff: []roster.Staff{
			{ID: "S3", Name: "Marta Reis", Initials: "MR", Type: roster.StaffLocal, Capabilities: []roster.Capability{roster.CapRamp}},
		},
	}
	start := roster.NewDate(2024, 3, 4)
	for i := 0; i < 7; i++ {
		date := start.AddDays(i).String()
		program := roster.DailyProgram{Day: i + 1, Date: date}
		if i < 6 {
			id := fmt.Sprintf("RAMP-%d", i+1)
			snap.Slots = append(snap.Slots, rampSlot(id, date, "08:00", "16:00", 1, 1))
			program.Assignments = []roster.Assignment{{StaffID: "S3", SlotID: roster.SlotID(id)}}
		}
		snap.Programs = append(snap.Programs, program)
	}
	return snap
}
