/*
Package factory provides JSON/YAML to Go roster snapshot conversion.

PURPOSE:
  Converts the wire representation of a roster (as saved by the persistence
  layer or returned by the roster generator) into a roster.Snapshot, and back.
  The engine has no serialization format of its own; this package is the one
  the host application uses.

JSON SCHEMA:
  {
    "staff": [
      {"id": "S1", "name": "Ana Silva", "initials": "AS", "type": "Local",
       "capabilities": ["ShiftLeader", "Ramp"], "power_rate": 80},
      {"id": "S2", "type": "Roster", "work_from": "2024-01-10", "work_to": "2024-01-20"}
    ],
    "duty_slots": [
      {"id": "AM-1", "name": "Morning ramp", "pickup_date": "2024-01-10",
       "pickup_time": "06:00", "end_time": "14:00", "min_staff": 2, "max_staff": 4,
       "quota": {"ShiftLeader": 1, "Ramp": 2}}
    ],
    "programs": [
      {"day": 1, "date": "2024-01-10",
       "assignments": [{"staff_id": "S1", "slot_id": "AM-1", "role": "SL"}]}
    ],
    "leave_requests": [
      {"staff_id": "S1", "start_date": "2024-01-12", "end_date": "2024-01-13", "kind": "Annual"}
    ],
    "incoming_duties": [
      {"staff_id": "S1", "date": "2024-01-09", "end_time": "23:00"}
    ]
  }

NORMALIZATION:
  - Staff type, capability and leave kind accept common spellings
    ("day_off", "Day-off", "DAY OFF" are all roster.LeaveDayOff).
  - Unknown staff types and capabilities are rejected.
  - Unknown leave kinds pass through; the engine files them as annual leave.
  - Dates and clock times are NOT validated here. Malformed values degrade
    inside the engine.
  - An absent "programs" key stays nil so the engine rejects it; an empty
    list is a valid, empty roster.

SEE ALSO:
  - roster/types.go: Snapshot definition
  - api/handlers.go: Decodes request bodies through this package
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warp/roster-engine/roster"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// SCHEMA TYPES
// =============================================================================

// SnapshotJSON is the JSON/YAML representation of a roster snapshot.
type SnapshotJSON struct {
	Staff    []StaffJSON        `json:"staff" yaml:"staff"`
	Slots    []DutySlotJSON     `json:"duty_slots" yaml:"duty_slots"`
	Programs []DailyProgramJSON `json:"programs" yaml:"programs"`
	Leave    []LeaveJSON        `json:"leave_requests,omitempty" yaml:"leave_requests,omitempty"`
	Incoming []IncomingJSON     `json:"incoming_duties,omitempty" yaml:"incoming_duties,omitempty"`
}

type StaffJSON struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Initials     string   `json:"initials,omitempty" yaml:"initials,omitempty"`
	Type         string   `json:"type" yaml:"type"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	PowerRate    int      `json:"power_rate,omitempty" yaml:"power_rate,omitempty"`
	WorkFrom     string   `json:"work_from,omitempty" yaml:"work_from,omitempty"`
	WorkTo       string   `json:"work_to,omitempty" yaml:"work_to,omitempty"`
}

type DutySlotJSON struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name,omitempty" yaml:"name,omitempty"`
	PickupDate string         `json:"pickup_date" yaml:"pickup_date"`
	PickupTime string         `json:"pickup_time" yaml:"pickup_time"`
	EndDate    string         `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	EndTime    string         `json:"end_time" yaml:"end_time"`
	MinStaff   int            `json:"min_staff" yaml:"min_staff"`
	MaxStaff   int            `json:"max_staff" yaml:"max_staff"`
	Quota      map[string]int `json:"quota,omitempty" yaml:"quota,omitempty"`
}

type DailyProgramJSON struct {
	Day         int              `json:"day" yaml:"day"`
	Date        string           `json:"date" yaml:"date"`
	Assignments []AssignmentJSON `json:"assignments" yaml:"assignments"`
}

type AssignmentJSON struct {
	StaffID string `json:"staff_id" yaml:"staff_id"`
	SlotID  string `json:"slot_id" yaml:"slot_id"`
	Role    string `json:"role,omitempty" yaml:"role,omitempty"`
}

type LeaveJSON struct {
	StaffID   string `json:"staff_id" yaml:"staff_id"`
	StartDate string `json:"start_date" yaml:"start_date"`
	EndDate   string `json:"end_date" yaml:"end_date"`
	Kind      string `json:"kind" yaml:"kind"`
}

type IncomingJSON struct {
	StaffID string `json:"staff_id" yaml:"staff_id"`
	Date    string `json:"date" yaml:"date"`
	EndTime string `json:"end_time" yaml:"end_time"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseJSON decodes a JSON snapshot. Unknown fields are rejected.
func ParseJSON(data []byte) (*roster.Snapshot, error) {
	var sj SnapshotJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sj); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return sj.ToSnapshot()
}

// ParseYAML decodes a YAML snapshot.
func ParseYAML(data []byte) (*roster.Snapshot, error) {
	var sj SnapshotJSON
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sj); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return sj.ToSnapshot()
}

// ParseFile decodes a snapshot file, choosing YAML for .yaml/.yml and JSON
// otherwise.
func ParseFile(path string) (*roster.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ToSnapshot converts the schema into engine types.
func (sj SnapshotJSON) ToSnapshot() (*roster.Snapshot, error) {
	snap := &roster.Snapshot{}

	for i, s := range sj.Staff {
		staffType, err := ParseStaffType(s.Type)
		if err != nil {
			return nil, fmt.Errorf("staff[%d] %s: %w", i, s.ID, err)
		}
		var caps []roster.Capability
		for _, raw := range s.Capabilities {
			c, err := ParseCapability(raw)
			if err != nil {
				return nil, fmt.Errorf("staff[%d] %s: %w", i, s.ID, err)
			}
			caps = append(caps, c)
		}
		snap.Staff = append(snap.Staff, roster.Staff{
			ID:           roster.StaffID(s.ID),
			Name:         s.Name,
			Initials:     s.Initials,
			Type:         staffType,
			Capabilities: caps,
			PowerRate:    s.PowerRate,
			WorkFrom:     s.WorkFrom,
			WorkTo:       s.WorkTo,
		})
	}

	for i, d := range sj.Slots {
		var quota map[roster.Capability]int
		if len(d.Quota) > 0 {
			quota = make(map[roster.Capability]int, len(d.Quota))
		}
		for raw, n := range d.Quota {
			c, err := ParseCapability(raw)
			if err != nil {
				return nil, fmt.Errorf("duty_slots[%d] %s: quota: %w", i, d.ID, err)
			}
			quota[c] += n
		}
		snap.Slots = append(snap.Slots, roster.DutySlot{
			ID:         roster.SlotID(d.ID),
			Name:       d.Name,
			PickupDate: d.PickupDate,
			PickupTime: d.PickupTime,
			EndDate:    d.EndDate,
			EndTime:    d.EndTime,
			MinStaff:   d.MinStaff,
			MaxStaff:   d.MaxStaff,
			Quota:      quota,
		})
	}

	if sj.Programs != nil {
		snap.Programs = make([]roster.DailyProgram, 0, len(sj.Programs))
	}
	for _, p := range sj.Programs {
		program := roster.DailyProgram{Day: p.Day, Date: p.Date}
		for _, a := range p.Assignments {
			program.Assignments = append(program.Assignments, roster.Assignment{
				StaffID: roster.StaffID(a.StaffID),
				SlotID:  roster.SlotID(a.SlotID),
				Role:    a.Role,
			})
		}
		snap.Programs = append(snap.Programs, program)
	}

	for _, l := range sj.Leave {
		snap.Leave = append(snap.Leave, roster.LeaveRequest{
			StaffID:   roster.StaffID(l.StaffID),
			StartDate: l.StartDate,
			EndDate:   l.EndDate,
			Kind:      ParseLeaveKind(l.Kind),
		})
	}

	for _, in := range sj.Incoming {
		snap.Incoming = append(snap.Incoming, roster.IncomingDuty{
			StaffID: roster.StaffID(in.StaffID),
			Date:    in.Date,
			EndTime: in.EndTime,
		})
	}

	return snap, nil
}

// =============================================================================
// ENCODING
// =============================================================================

// FromSnapshot converts engine types back into the schema.
func FromSnapshot(snap *roster.Snapshot) SnapshotJSON {
	var sj SnapshotJSON
	for _, s := range snap.Staff {
		var caps []string
		for _, c := range s.Capabilities {
			caps = append(caps, string(c))
		}
		sj.Staff = append(sj.Staff, StaffJSON{
			ID:           string(s.ID),
			Name:         s.Name,
			Initials:     s.Initials,
			Type:         string(s.Type),
			Capabilities: caps,
			PowerRate:    s.PowerRate,
			WorkFrom:     s.WorkFrom,
			WorkTo:       s.WorkTo,
		})
	}
	for _, d := range snap.Slots {
		var quota map[string]int
		if len(d.Quota) > 0 {
			quota = make(map[string]int, len(d.Quota))
		}
		for c, n := range d.Quota {
			quota[string(c)] = n
		}
		sj.Slots = append(sj.Slots, DutySlotJSON{
			ID:         string(d.ID),
			Name:       d.Name,
			PickupDate: d.PickupDate,
			PickupTime: d.PickupTime,
			EndDate:    d.EndDate,
			EndTime:    d.EndTime,
			MinStaff:   d.MinStaff,
			MaxStaff:   d.MaxStaff,
			Quota:      quota,
		})
	}
	sj.Programs = make([]DailyProgramJSON, 0, len(snap.Programs))
	for _, p := range snap.Programs {
		program := DailyProgramJSON{Day: p.Day, Date: p.Date, Assignments: []AssignmentJSON{}}
		for _, a := range p.Assignments {
			program.Assignments = append(program.Assignments, AssignmentJSON{
				StaffID: string(a.StaffID),
				SlotID:  string(a.SlotID),
				Role:    a.Role,
			})
		}
		sj.Programs = append(sj.Programs, program)
	}
	for _, l := range snap.Leave {
		sj.Leave = append(sj.Leave, LeaveJSON{
			StaffID:   string(l.StaffID),
			StartDate: l.StartDate,
			EndDate:   l.EndDate,
			Kind:      string(l.Kind),
		})
	}
	for _, in := range snap.Incoming {
		sj.Incoming = append(sj.Incoming, IncomingJSON{
			StaffID: string(in.StaffID),
			Date:    in.Date,
			EndTime: in.EndTime,
		})
	}
	return sj
}

// EncodeJSON serializes a snapshot for storage.
func EncodeJSON(snap *roster.Snapshot) ([]byte, error) {
	return json.Marshal(FromSnapshot(snap))
}
