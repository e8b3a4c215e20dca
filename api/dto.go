/*
dto.go - Data Transfer Objects for API responses

PURPOSE:

	Defines the JSON structures for API communication. These types decouple
	the worktime report model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:

	Costs are whole currency units (the engine rounds per task), sent as
	integers. *_display fields carry the same amount with digit grouping
	for UIs that render it directly.

SEE ALSO:
  - handlers.go: Uses these types
  - worktime/report.go: Report, PersonRow, TaskDetail
*/
package api

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/warp/workcost-engine/worktime"
)

// =============================================================================
// REPORT TYPES
// =============================================================================

// ReportDTO is the team/project cost report.
type ReportDTO struct {
	TeamID    string         `json:"team_id"`
	TeamName  string         `json:"team_name"`
	ProjectID string         `json:"project_id"`
	Calendar  CalendarDTO    `json:"calendar"`
	Lead      PersonRowDTO   `json:"lead"`
	Members   []PersonRowDTO `json:"members"`
	Totals    TotalsDTO      `json:"totals"`
	Defaults  []string       `json:"defaults_applied"`
}

// CalendarDTO is the working calendar the report was costed against.
type CalendarDTO struct {
	Year             int    `json:"year"`
	TotalWorkingDays int    `json:"total_working_days"`
	SalaryTimeHours  string `json:"salary_time_hours"`
}

// PersonRowDTO is one person's rollup.
type PersonRowDTO struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Role           string          `json:"role"`
	Designation    string          `json:"designation"`
	MonthlySalary  string          `json:"monthly_salary"`
	TotalTime      string          `json:"total_time"`
	TotalSeconds   int64           `json:"total_seconds"`
	TotalCost      int64           `json:"total_cost"`
	CostDisplay    string          `json:"total_cost_display"`
	CompletedTasks int             `json:"completed_tasks"`
	Supervision    *SupervisionDTO `json:"supervision,omitempty"`
}

// SupervisionDTO is the lead's oversight share, already included in the
// lead row's totals.
type SupervisionDTO struct {
	Time          string `json:"time"`
	Seconds       int64  `json:"seconds"`
	Cost          int64  `json:"cost"`
	ActiveMembers int    `json:"active_members"`
	MemberTime    string `json:"member_time"`
}

// TotalsDTO sums every row.
type TotalsDTO struct {
	TotalTime      string `json:"total_time"`
	TotalSeconds   int64  `json:"total_seconds"`
	TotalCost      int64  `json:"total_cost"`
	CostDisplay    string `json:"total_cost_display"`
	CompletedTasks int    `json:"completed_tasks"`
}

// CrewTasksDTO lists one person's attributed tasks on a project.
type CrewTasksDTO struct {
	CrewID      string          `json:"crew_id"`
	ProjectID   string          `json:"project_id"`
	Year        int             `json:"year"`
	Tasks       []TaskDetailDTO `json:"tasks"`
	TotalTime   string          `json:"total_time"`
	TotalCost   int64           `json:"total_cost"`
	CostDisplay string          `json:"total_cost_display"`
}

// TaskDetailDTO is one priced task.
type TaskDetailDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	RemarkStatus string `json:"remark_status,omitempty"`
	TimeTaken    string `json:"time_taken"`
	Seconds      int64  `json:"seconds"`
	Cost         int64  `json:"cost"`
	AssignerID   string `json:"assigner_id"`
	AssignerName string `json:"assigner_name"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TeamID      string `json:"team_id"`
	ProjectID   string `json:"project_id"`
	CrewID      string `json:"crew_id"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toReportDTO(r *worktime.Report) ReportDTO {
	dto := ReportDTO{
		TeamID:    r.TeamID.Hex(),
		TeamName:  r.TeamName,
		ProjectID: r.ProjectID.Hex(),
		Calendar: CalendarDTO{
			Year:             r.Calendar.Year,
			TotalWorkingDays: r.Calendar.TotalWorkingDays,
			SalaryTimeHours:  r.Calendar.SalaryTimeHours.StringFixed(2),
		},
		Lead:     toPersonRowDTO(r.Lead),
		Members:  make([]PersonRowDTO, 0, len(r.Members)),
		Defaults: r.Defaults,
		Totals: TotalsDTO{
			TotalTime:      r.Totals.TotalTime(),
			TotalSeconds:   r.Totals.TotalSeconds,
			TotalCost:      r.Totals.TotalCost.IntPart(),
			CostDisplay:    displayCost(r.Totals.TotalCost),
			CompletedTasks: r.Totals.CompletedTasks,
		},
	}
	if dto.Defaults == nil {
		dto.Defaults = []string{}
	}
	for _, m := range r.Members {
		dto.Members = append(dto.Members, toPersonRowDTO(m))
	}
	return dto
}

func toPersonRowDTO(row worktime.PersonRow) PersonRowDTO {
	dto := PersonRowDTO{
		ID:             row.PersonID.Hex(),
		Name:           row.Name,
		Role:           string(row.Role),
		Designation:    row.Designation,
		MonthlySalary:  row.MonthlySalary.String(),
		TotalTime:      row.TotalTime(),
		TotalSeconds:   row.TotalSeconds,
		TotalCost:      row.TotalCost.IntPart(),
		CostDisplay:    displayCost(row.TotalCost),
		CompletedTasks: row.CompletedTasks,
	}
	if s := row.Supervision; s != nil {
		dto.Supervision = &SupervisionDTO{
			Time:          s.Duration(),
			Seconds:       s.Seconds,
			Cost:          s.Cost.IntPart(),
			ActiveMembers: s.ActiveMembers,
			MemberTime:    worktime.DurationOf(s.MemberSeconds),
		}
	}
	return dto
}

func toCrewTasksDTO(crewID, projectID worktime.ID, year int, details []worktime.TaskDetail) CrewTasksDTO {
	dto := CrewTasksDTO{
		CrewID:    crewID.Hex(),
		ProjectID: projectID.Hex(),
		Year:      year,
		Tasks:     make([]TaskDetailDTO, 0, len(details)),
	}
	var (
		seconds int64
		cost    = decimal.Zero
	)
	for _, d := range details {
		seconds += d.Seconds
		cost = cost.Add(d.Cost)
		td := TaskDetailDTO{
			ID:           d.TaskID.Hex(),
			Title:        d.Title,
			Status:       string(d.Status),
			RemarkStatus: string(d.RemarkStatus),
			TimeTaken:    d.TimeTaken,
			Seconds:      d.Seconds,
			Cost:         d.Cost.IntPart(),
			AssignerID:   d.AssignerID.Hex(),
			AssignerName: d.AssignerName,
		}
		if !d.CreatedAt.IsZero() {
			td.CreatedAt = d.CreatedAt.Format(time.RFC3339)
		}
		dto.Tasks = append(dto.Tasks, td)
	}
	dto.TotalTime = worktime.DurationOf(seconds)
	dto.TotalCost = cost.IntPart()
	dto.CostDisplay = displayCost(cost)
	return dto
}

// displayCost groups digits: 1234567 -> "1,234,567".
func displayCost(d decimal.Decimal) string {
	return humanize.Comma(d.Round(0).IntPart())
}
