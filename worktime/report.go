/*
report.go - Team/member work-time aggregation

PURPOSE:

	Builds the per-person cost/time report for one team on one project, and
	the per-task breakdown for a single person.

REPORT FLOW:
 1. Fetch team and project tasks (concurrently)
 2. Fetch firm, rank table and team people (concurrently)
 3. Filter tasks assigned by the lead and completed
 4. Lead row:   own attributed tasks + supervision share
 5. Member rows: each member's tasks from the attributed set only
 6. Totals:     sums of row seconds, costs and task counts

FAILURE:

	Missing team, firm, lead or member aborts with a NotFoundError. No partial
	report is ever returned. Missing optional fields fall back to defaults,
	which are listed in Report.Defaults.

SEE ALSO:
  - attribution.go: Task selection
  - supervision.go: Lead oversight share
  - cost.go: Rate chain
*/
package worktime

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// REPORT TYPES
// =============================================================================

type Role string

const (
	RoleLead   Role = "lead"
	RoleMember Role = "member"
)

// PersonRow is one person's rollup.
type PersonRow struct {
	PersonID       ID
	Name           string
	Role           Role
	MonthlySalary  decimal.Decimal
	TotalSeconds   int64
	TotalCost      decimal.Decimal
	CompletedTasks int
	Designation    string

	// Lead only: the share of TotalSeconds/TotalCost that is supervision.
	Supervision *Supervision
}

func (r PersonRow) TotalTime() string { return DurationOf(r.TotalSeconds) }

// ProjectTotals sums every row of a report.
type ProjectTotals struct {
	TotalSeconds   int64
	TotalCost      decimal.Decimal
	CompletedTasks int
}

func (t ProjectTotals) TotalTime() string { return DurationOf(t.TotalSeconds) }

// Report is the team/project rollup.
type Report struct {
	TeamID    ID
	TeamName  string
	ProjectID ID
	Calendar  Calendar
	Lead      PersonRow
	Members   []PersonRow
	Totals    ProjectTotals

	// Defaults names every documented default applied while building.
	Defaults []string
}

// Rows returns the lead row followed by member rows.
func (r Report) Rows() []PersonRow {
	return append([]PersonRow{r.Lead}, r.Members...)
}

// TaskDetail is one attributed task priced for its assignee.
type TaskDetail struct {
	TaskID       ID
	Title        string
	Status       TaskStatus
	RemarkStatus RemarkStatus
	TimeTaken    string
	Seconds      int64
	Cost         decimal.Decimal
	AssignerID   ID
	AssignerName string
	CreatedAt    time.Time
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine builds reports. It keeps no state between calls.
type Engine struct {
	Store    Store
	Resolver *PersonResolver
	Defaults CalendarDefaults
	Labels   Labels

	// Now supplies the current year when none is requested.
	Now    func() time.Time
	Logger *log.Logger
}

func NewEngine(store Store) *Engine {
	return &Engine{
		Store:    store,
		Resolver: NewPersonResolver(store),
		Defaults: DefaultCalendarDefaults(),
		Labels:   DefaultLabels(),
		Now:      time.Now,
	}
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Year returns requested, or the current year when requested <= 0.
func (e *Engine) Year(requested int) int {
	if requested > 0 {
		return requested
	}
	if e.Now == nil {
		return time.Now().Year()
	}
	return e.Now().Year()
}

// BuildTeamProjectReport builds the cost/time report for a team on a
// project. year <= 0 uses the current year's calendar.
func (e *Engine) BuildTeamProjectReport(ctx context.Context, teamID, projectID ID, year int) (*Report, error) {
	var (
		team  *Team
		tasks []Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if team, err = e.Store.GetTeam(gctx, teamID); err != nil {
			return fmt.Errorf("load team %s: %w", teamID.Hex(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tasks, err = e.Store.ListTasksForProject(gctx, projectID); err != nil {
			return fmt.Errorf("list tasks for project %s: %w", projectID.Hex(), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if team == nil {
		return nil, &NotFoundError{Kind: "team", ID: teamID}
	}

	memberRefs := team.memberRefs()
	var (
		firm    *Firm
		ranks   []Rank
		persons map[ID]Person
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if firm, err = e.Store.GetFirm(gctx, team.FirmID); err != nil {
			return fmt.Errorf("load firm %s: %w", team.FirmID.Hex(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if ranks, err = e.Store.ListRanksForFirm(gctx, team.FirmID); err != nil {
			return fmt.Errorf("list ranks for firm %s: %w", team.FirmID.Hex(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if persons, err = e.Resolver.ResolveAll(gctx, append([]PersonRef{team.Lead}, memberRefs...)); err != nil {
			return fmt.Errorf("resolve team %s people: %w", teamID.Hex(), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if firm == nil {
		return nil, &NotFoundError{Kind: "firm", ID: team.FirmID}
	}

	lead, ok := persons[team.Lead.ID]
	if !ok {
		return nil, &NotFoundError{Kind: "person", ID: team.Lead.ID}
	}
	for _, ref := range memberRefs {
		if _, ok := persons[ref.ID]; !ok {
			return nil, &NotFoundError{Kind: "person", ID: ref.ID}
		}
	}

	cal, defaults := firm.CalendarFor(e.Year(year), e.Defaults)
	if n := countMissingTime(tasks); n > 0 {
		defaults = append(defaults, fmt.Sprintf("time_taken=%s for %d tasks", ZeroDuration, n))
	}
	rankTable := NewRankTable(ranks)
	attributed := AttributedTo(tasks, lead.ID)

	report := &Report{
		TeamID:    team.ID,
		TeamName:  team.Name,
		ProjectID: projectID,
		Calendar:  cal,
	}

	// Lead: own attributed work plus supervision over the full task list.
	own := CostOfTasks(AssignedTo(attributed, lead.ID), lead.MonthlySalary, cal)
	memberIDs := make([]ID, len(memberRefs))
	for i, ref := range memberRefs {
		memberIDs[i] = ref.ID
	}
	sup := DistributeSupervision(tasks, memberIDs, lead.MonthlySalary, cal)
	leadTotal := own.Add(sup.AsCost())
	report.Lead = PersonRow{
		PersonID:       lead.ID,
		Name:           lead.Name,
		Role:           RoleLead,
		MonthlySalary:  lead.MonthlySalary,
		TotalSeconds:   leadTotal.Seconds,
		TotalCost:      leadTotal.Amount,
		CompletedTasks: len(AssignedTo(attributed, lead.ID)),
		Designation:    rankTable.Designation(lead, e.Labels.Lead, e.Labels.UnknownRank),
		Supervision:    &sup,
	}

	for _, ref := range memberRefs {
		m := persons[ref.ID]
		mine := AssignedTo(attributed, m.ID)
		c := CostOfTasks(mine, m.MonthlySalary, cal)
		report.Members = append(report.Members, PersonRow{
			PersonID:       m.ID,
			Name:           m.Name,
			Role:           RoleMember,
			MonthlySalary:  m.MonthlySalary,
			TotalSeconds:   c.Seconds,
			TotalCost:      c.Amount,
			CompletedTasks: len(mine),
			Designation:    rankTable.Designation(m, e.Labels.Member, e.Labels.UnknownRank),
		})
	}

	report.Totals = SumRows(report.Rows())
	report.Defaults = defaults

	if len(defaults) > 0 {
		e.logf("[Report] team=%s project=%s defaults applied: %v", team.ID.Hex(), projectID.Hex(), defaults)
	}
	e.logf("[Report] team=%s project=%s rows=%d tasks=%d attributed=%d total_cost=%s",
		team.ID.Hex(), projectID.Hex(), len(report.Members)+1, len(tasks), len(attributed), report.Totals.TotalCost)
	return report, nil
}

// SumRows totals time, cost and completed-task counts across rows.
func SumRows(rows []PersonRow) ProjectTotals {
	totals := ProjectTotals{TotalCost: decimal.Zero}
	for _, r := range rows {
		totals.TotalSeconds += r.TotalSeconds
		totals.TotalCost = totals.TotalCost.Add(r.TotalCost)
		totals.CompletedTasks += r.CompletedTasks
	}
	totals.TotalCost = totals.TotalCost.Round(0)
	return totals
}

// memberRefs returns the members with the lead and duplicates removed.
func (t Team) memberRefs() []PersonRef {
	seen := map[ID]bool{t.Lead.ID: true}
	var refs []PersonRef
	for _, m := range t.Members {
		if m.IsZero() || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		refs = append(refs, m)
	}
	return refs
}

func countMissingTime(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.TimeTaken == "" {
			n++
		}
	}
	return n
}

// =============================================================================
// CREW TASK DETAILS
// =============================================================================

// CrewTaskDetails lists a person's tasks on a project that their team lead
// assigned and that are completed, each priced at the person's salary.
// year <= 0 uses the current year's calendar.
func (e *Engine) CrewTaskDetails(ctx context.Context, personID, projectID ID, year int) ([]TaskDetail, error) {
	var (
		person *Person
		teams  []Team
		tasks  []Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if person, err = e.Resolver.Resolve(gctx, PersonRef{ID: personID}); err != nil {
			return fmt.Errorf("load person %s: %w", personID.Hex(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if teams, err = e.Store.ListTeamsForPerson(gctx, personID); err != nil {
			return fmt.Errorf("list teams for person %s: %w", personID.Hex(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tasks, err = e.Store.ListTasksForAssigneeAndProject(gctx, personID, projectID); err != nil {
			return fmt.Errorf("list tasks for person %s project %s: %w", personID.Hex(), projectID.Hex(), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if person == nil {
		return nil, &NotFoundError{Kind: "person", ID: personID}
	}
	team := pickTeam(teams, projectID)
	if team == nil {
		return nil, &NotFoundError{Kind: "team for person", ID: personID}
	}

	firm, err := e.Store.GetFirm(ctx, team.FirmID)
	if err != nil {
		return nil, fmt.Errorf("load firm %s: %w", team.FirmID.Hex(), err)
	}
	if firm == nil {
		return nil, &NotFoundError{Kind: "firm", ID: team.FirmID}
	}
	cal, defaults := firm.CalendarFor(e.Year(year), e.Defaults)
	if len(defaults) > 0 {
		e.logf("[Report] person=%s project=%s defaults applied: %v", personID.Hex(), projectID.Hex(), defaults)
	}

	mine := AssignedTo(AttributedTo(tasks, team.Lead.ID), personID)

	assigners := make([]PersonRef, len(mine))
	for i, t := range mine {
		assigners[i] = t.Assigner
	}
	names, err := e.Resolver.ResolveAll(ctx, assigners)
	if err != nil {
		return nil, err
	}

	details := make([]TaskDetail, 0, len(mine))
	for _, t := range mine {
		c := CostOf(t.TimeTaken, person.MonthlySalary, cal)
		name := e.Labels.UnknownPerson
		if p, ok := names[t.Assigner.ID]; ok {
			name = p.Name
		}
		details = append(details, TaskDetail{
			TaskID:       t.ID,
			Title:        t.Title,
			Status:       t.Status,
			RemarkStatus: t.RemarkStatus,
			TimeTaken:    NormalizeDuration(t.TimeTaken),
			Seconds:      c.Seconds,
			Cost:         c.Amount,
			AssignerID:   t.Assigner.ID,
			AssignerName: name,
			CreatedAt:    t.CreatedAt,
		})
	}
	return details, nil
}

// pickTeam prefers a team assigned to the project, else the first team.
func pickTeam(teams []Team, projectID ID) *Team {
	for i := range teams {
		if teams[i].CoversProject(projectID) {
			return &teams[i]
		}
	}
	if len(teams) > 0 {
		return &teams[0]
	}
	return nil
}
