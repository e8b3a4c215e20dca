/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario is an embedded JSON seed
	document (scenarios/*.json) parsed by factory.ScenarioFactory.

AVAILABLE SCENARIOS:

	consulting-team:  Lead plus two crew, ranks, mixed statuses and assigners
	default-calendar: Firm without calendar settings, untimed task

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Parse the embedded JSON via factory
 3. Write firm, ranks, people, team and tasks in one transaction

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "consulting-team"}

	GET /api/team-reports/{team_id}/project/{project_id}

ADDING NEW SCENARIOS:
 1. Add the JSON file under scenarios/
 2. Add to 'scenarios' slice with ID, file, name, description and the ids
    worth querying

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase
  - factory/scenario.go: Seed document schema
*/
package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

//go:embed scenarios/*.json
var scenarioFiles embed.FS

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenarioDef struct {
	ScenarioDTO
	file string
}

var scenarios = []scenarioDef{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "consulting-team",
			Name:        "Consulting Team",
			Description: "Lead with two crew; in-progress and peer-assigned work feed supervision only",
			TeamID:      "64a000000000000000000020",
			ProjectID:   "64a000000000000000000030",
			CrewID:      "64a000000000000000000011",
		},
		file: "scenarios/consulting-team.json",
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "default-calendar",
			Name:        "Default Calendar",
			Description: "Firm without holiday settings or office timing; costs use 251 days of 8h30m",
			TeamID:      "64b000000000000000000020",
			ProjectID:   "64b000000000000000000030",
			CrewID:      "64b000000000000000000011",
		},
		file: "scenarios/default-calendar.json",
	},
}

func findScenario(id string) (scenarioDef, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenarioDef{}, false
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	s, ok := findScenario(h.getCurrentScenario())
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, s.ScenarioDTO)
}

// LoadScenario resets the database and loads the selected scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	def, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err := h.loadScenario(r.Context(), def); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "loaded", "scenario": def.ScenarioDTO})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// LoadScenarioByID resets the database and loads a scenario without going
// through HTTP. Used by the server's -scenario flag.
func (h *Handler) LoadScenarioByID(ctx context.Context, id string) error {
	def, ok := findScenario(id)
	if !ok {
		return fmt.Errorf("unknown scenario %q", id)
	}
	return h.loadScenario(ctx, def)
}

func (h *Handler) loadScenario(ctx context.Context, def scenarioDef) error {
	data, err := scenarioFiles.ReadFile(def.file)
	if err != nil {
		return fmt.Errorf("read %s: %w", def.file, err)
	}
	sc, err := h.ScenarioFactory.ParseScenario(string(data))
	if err != nil {
		return err
	}

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		return fmt.Errorf("reset database: %w", err)
	}
	h.setCurrentScenario("")

	if err := h.Store.SaveScenario(ctx, sc); err != nil {
		return err
	}
	h.setCurrentScenario(def.ID)

	log.Printf("[Scenario] Loaded %s: %d people, %d teams, %d tasks",
		def.ID, len(sc.Persons), len(sc.Teams), len(sc.Tasks))
	return nil
}

func (h *Handler) setCurrentScenario(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentScenario = id
}

func (h *Handler) getCurrentScenario() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentScenario
}
