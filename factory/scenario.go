package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/workcost-engine/worktime"
)

// =============================================================================
// SCENARIO JSON SCHEMA
// =============================================================================
//
// A scenario is a self-contained seed document: one firm, its ranks, the
// manager and crew collections, teams and tasks.
//
//	{
//	  "firm":     {"id": "...", "name": "...", "holiday_settings": [...], "office_timing": {...}},
//	  "ranks":    [{"id": "...", "label": "Senior Associate"}],
//	  "managers": [{"id": "...", "name": "...", "monthly_salary": "60000", "rank_id": "..."}],
//	  "crew":     [{"id": "...", "name": "...", "monthly_salary": 30000}],
//	  "teams":    [{"id": "...", "name": "...", "lead": "...", "members": ["..."], "projects": ["..."]}],
//	  "tasks":    [{"id": "...", "project_id": "...", "assignee": "...", "assigner": "...",
//	                "assigner_model": "Manager", "status": "Completed", "time_taken": "01:30:00"}]
//	}

// ScenarioJSON is the root seed document.
type ScenarioJSON struct {
	Firm     FirmJSON     `json:"firm"`
	Ranks    []RankJSON   `json:"ranks"`
	Managers []PersonJSON `json:"managers"`
	Crew     []PersonJSON `json:"crew"`
	Teams    []TeamJSON   `json:"teams"`
	Tasks    []TaskJSON   `json:"tasks"`
}

type FirmJSON struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	HolidaySettings []HolidaySettingJSON `json:"holiday_settings,omitempty"`
	OfficeTiming    json.RawMessage      `json:"office_timing,omitempty"`
}

type RankJSON struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// PersonJSON is a manager or crew record. Salary may be a number or a string.
type PersonJSON struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	RankID        string          `json:"rank_id,omitempty"`
}

type TeamJSON struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Lead     worktime.PersonRef   `json:"lead"`
	Members  []worktime.PersonRef `json:"members"`
	Projects []string             `json:"projects"`
}

// TaskJSON is one task record. assignee_model and assigner_model tag the
// collection the reference lives in when the reference itself does not.
type TaskJSON struct {
	ID            string             `json:"id"`
	ProjectID     string             `json:"project_id"`
	Title         string             `json:"title"`
	Assignee      worktime.PersonRef `json:"assignee"`
	AssigneeModel string             `json:"assignee_model,omitempty"`
	Assigner      worktime.PersonRef `json:"assigner"`
	AssignerModel string             `json:"assigner_model,omitempty"`
	Status        string             `json:"status"`
	RemarkStatus  string             `json:"remark_status,omitempty"`
	TimeTaken     string             `json:"time_taken,omitempty"`
	CreatedAt     *time.Time         `json:"created_at,omitempty"`
}

// Scenario is a parsed seed document in domain form.
type Scenario struct {
	Firm    worktime.Firm
	Ranks   []worktime.Rank
	Persons []worktime.Person
	Teams   []worktime.Team
	Tasks   []worktime.Task
}

// =============================================================================
// SCENARIO FACTORY
// =============================================================================

// ScenarioFactory builds Scenarios from JSON.
type ScenarioFactory struct {
	// Now stamps tasks that carry no created_at.
	Now func() time.Time
}

func NewScenarioFactory() *ScenarioFactory {
	return &ScenarioFactory{Now: time.Now}
}

// ParseScenario parses a JSON string into a Scenario.
func (f *ScenarioFactory) ParseScenario(jsonStr string) (*Scenario, error) {
	var sj ScenarioJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts the schema types into domain records. Ranks, teams and
// people inherit the firm's id.
func (f *ScenarioFactory) FromJSON(sj ScenarioJSON) (*Scenario, error) {
	firmID, err := worktime.ParseID("firm.id", sj.Firm.ID)
	if err != nil {
		return nil, err
	}
	timing, err := parseOfficeTiming(sj.Firm.OfficeTiming)
	if err != nil {
		return nil, err
	}

	sc := &Scenario{
		Firm: worktime.Firm{
			ID:           firmID,
			Name:         sj.Firm.Name,
			OfficeTiming: timing,
		},
	}
	for _, hs := range sj.Firm.HolidaySettings {
		sc.Firm.HolidaySettings = append(sc.Firm.HolidaySettings, worktime.WorkingYear{
			Year:             hs.Year,
			TotalWorkingDays: hs.TotalWorkingDays,
		})
	}

	for i, rj := range sj.Ranks {
		id, err := worktime.ParseID(fmt.Sprintf("ranks[%d].id", i), rj.ID)
		if err != nil {
			return nil, err
		}
		sc.Ranks = append(sc.Ranks, worktime.Rank{ID: id, FirmID: firmID, Label: rj.Label})
	}

	for _, group := range []struct {
		kind    worktime.PersonKind
		field   string
		records []PersonJSON
	}{
		{worktime.KindManager, "managers", sj.Managers},
		{worktime.KindCrew, "crew", sj.Crew},
	} {
		for i, pj := range group.records {
			p, err := personFromJSON(pj, group.kind, fmt.Sprintf("%s[%d]", group.field, i))
			if err != nil {
				return nil, err
			}
			sc.Persons = append(sc.Persons, p)
		}
	}

	for i, tj := range sj.Teams {
		t, err := teamFromJSON(tj, firmID, fmt.Sprintf("teams[%d]", i))
		if err != nil {
			return nil, err
		}
		sc.Teams = append(sc.Teams, t)
	}

	for i, tj := range sj.Tasks {
		t, err := f.taskFromJSON(tj, fmt.Sprintf("tasks[%d]", i))
		if err != nil {
			return nil, err
		}
		sc.Tasks = append(sc.Tasks, t)
	}

	return sc, nil
}

func personFromJSON(pj PersonJSON, kind worktime.PersonKind, field string) (worktime.Person, error) {
	id, err := worktime.ParseID(field+".id", pj.ID)
	if err != nil {
		return worktime.Person{}, err
	}
	p := worktime.Person{
		ID:            id,
		Kind:          kind,
		Name:          pj.Name,
		MonthlySalary: pj.MonthlySalary,
	}
	if strings.TrimSpace(pj.RankID) != "" {
		rankID, err := worktime.ParseID(field+".rank_id", pj.RankID)
		if err != nil {
			return worktime.Person{}, err
		}
		p.RankID = &rankID
	}
	return p, nil
}

func teamFromJSON(tj TeamJSON, firmID worktime.ID, field string) (worktime.Team, error) {
	id, err := worktime.ParseID(field+".id", tj.ID)
	if err != nil {
		return worktime.Team{}, err
	}
	t := worktime.Team{
		ID:      id,
		FirmID:  firmID,
		Name:    tj.Name,
		Lead:    tj.Lead,
		Members: tj.Members,
	}
	if t.Lead.IsZero() {
		return worktime.Team{}, &worktime.InvalidIDError{Field: field + ".lead", Value: ""}
	}
	for j, raw := range tj.Projects {
		pid, err := worktime.ParseID(fmt.Sprintf("%s.projects[%d]", field, j), raw)
		if err != nil {
			return worktime.Team{}, err
		}
		t.Projects = append(t.Projects, pid)
	}
	return t, nil
}

func (f *ScenarioFactory) taskFromJSON(tj TaskJSON, field string) (worktime.Task, error) {
	id, err := worktime.ParseID(field+".id", tj.ID)
	if err != nil {
		return worktime.Task{}, err
	}
	projectID, err := worktime.ParseID(field+".project_id", tj.ProjectID)
	if err != nil {
		return worktime.Task{}, err
	}

	t := worktime.Task{
		ID:           id,
		ProjectID:    projectID,
		Title:        tj.Title,
		Assignee:     withKind(tj.Assignee, tj.AssigneeModel),
		Assigner:     withKind(tj.Assigner, tj.AssignerModel),
		Status:       worktime.ParseTaskStatus(tj.Status),
		RemarkStatus: worktime.ParseRemarkStatus(tj.RemarkStatus),
		TimeTaken:    worktime.NormalizeDuration(tj.TimeTaken),
	}
	switch {
	case tj.CreatedAt != nil:
		t.CreatedAt = tj.CreatedAt.UTC()
	case f.Now != nil:
		t.CreatedAt = f.Now().UTC()
	}
	return t, nil
}

// withKind applies a model tag to a reference that carries none.
func withKind(ref worktime.PersonRef, model string) worktime.PersonRef {
	if ref.Kind == worktime.KindUnknown {
		ref.Kind = worktime.ParsePersonKind(model)
	}
	return ref
}
