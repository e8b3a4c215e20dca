/*
handlers.go - HTTP API handlers for the work-time cost engine

PURPOSE:

	Exposes the attribution engine via REST API. Handles HTTP request and
	response, identifier parsing and JSON serialization, and delegates the
	computation to worktime.Engine.

ENDPOINTS:

	Reports:
	  GET    /api/team-reports/{teamId}/project/{projectId}      Team cost report
	  GET    /api/team-reports/crew/{crewId}/tasks/{projectId}   Crew task details

	  Both accept ?year=YYYY to cost against another year's calendar.

	Scenarios:
	  GET    /api/scenarios              List demo scenarios
	  GET    /api/scenarios/current      Currently loaded scenario
	  POST   /api/scenarios/load         Load a demo scenario
	  POST   /api/scenarios/reset        Clear the database

	Health:
	  GET    /api/health                 Database ping

ERROR HANDLING:

	Errors are returned as JSON with appropriate HTTP status:
	- 400: Malformed identifier or year
	- 404: Team, firm or person not found
	- 500: Internal errors

SECURITY NOTE:

	Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/warp/workcost-engine/factory"
	"github.com/warp/workcost-engine/store/sqlite"
	"github.com/warp/workcost-engine/worktime"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           *sqlite.Store
	Engine          *worktime.Engine
	ScenarioFactory *factory.ScenarioFactory

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler. The engine reads from the same store.
func NewHandler(store *sqlite.Store, engine *worktime.Engine) *Handler {
	return &Handler{
		Store:           store,
		Engine:          engine,
		ScenarioFactory: factory.NewScenarioFactory(),
	}
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// TeamProjectReport returns the cost/time report for a team on a project.
func (h *Handler) TeamProjectReport(w http.ResponseWriter, r *http.Request) {
	teamID, err := worktime.ParseID("team", chi.URLParam(r, "teamId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid team id", err)
		return
	}
	projectID, err := worktime.ParseID("project", chi.URLParam(r, "projectId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project id", err)
		return
	}
	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	report, err := h.Engine.BuildTeamProjectReport(r.Context(), teamID, projectID, year)
	if err != nil {
		writeEngineError(w, "Failed to build team report", err)
		return
	}

	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// CrewTaskDetails returns one person's attributed tasks on a project.
func (h *Handler) CrewTaskDetails(w http.ResponseWriter, r *http.Request) {
	crewID, err := worktime.ParseID("crew", chi.URLParam(r, "crewId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid crew id", err)
		return
	}
	projectID, err := worktime.ParseID("project", chi.URLParam(r, "projectId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project id", err)
		return
	}
	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	details, err := h.Engine.CrewTaskDetails(r.Context(), crewID, projectID, year)
	if err != nil {
		writeEngineError(w, "Failed to load crew tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, toCrewTasksDTO(crewID, projectID, h.Engine.Year(year), details))
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// Health pings the database.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.setCurrentScenario("")

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// parseYear reads ?year=. Absent means 0, which the engine treats as the
// current year.
func parseYear(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("year must be between 1 and 9999, got %q", raw)
	}
	return year, nil
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

// writeEngineError maps engine errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	var nf *worktime.NotFoundError
	switch {
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found", nf.Kind), err)
	case worktime.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case worktime.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
