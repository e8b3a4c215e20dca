package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workcost-engine/factory"
	"github.com/warp/workcost-engine/worktime"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err, "Failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

var (
	firmID    = worktime.MustParseID("660000000000000000000001")
	rankID    = worktime.MustParseID("660000000000000000000002")
	leadID    = worktime.MustParseID("660000000000000000000010")
	memberID  = worktime.MustParseID("660000000000000000000011")
	member2ID = worktime.MustParseID("660000000000000000000012")
	teamID    = worktime.MustParseID("660000000000000000000020")
	projectID = worktime.MustParseID("660000000000000000000030")
)

func TestFirm_SaveAndGet(t *testing.T) {
	// GIVEN: A firm with a calendar
	store := newTestStore(t)
	ctx := context.Background()
	firm := worktime.Firm{
		ID:              firmID,
		Name:            "Northwind",
		HolidaySettings: []worktime.WorkingYear{{Year: 2025, TotalWorkingDays: 250}},
		OfficeTiming:    &worktime.OfficeTiming{Hours: 8, Minutes: 30},
	}

	// WHEN: Saving and loading it
	require.NoError(t, store.SaveFirm(ctx, firm))
	got, err := store.GetFirm(ctx, firmID)

	// THEN: The calendar survives the settings column
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, firm, *got)
}

func TestFirm_MissingReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetFirm(context.Background(), worktime.NewID())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTeam_MembersKeepOrderAndKind(t *testing.T) {
	// GIVEN: A team with two members and one project
	store := newTestStore(t)
	ctx := context.Background()
	team := worktime.Team{
		ID:     teamID,
		FirmID: firmID,
		Name:   "Platform",
		Lead:   worktime.PersonRef{ID: leadID, Kind: worktime.KindManager},
		Members: []worktime.PersonRef{
			{ID: member2ID, Kind: worktime.KindCrew},
			{ID: memberID},
		},
		Projects: []worktime.ID{projectID},
	}
	require.NoError(t, store.SaveTeam(ctx, team))

	// WHEN: Loading it
	got, err := store.GetTeam(ctx, teamID)

	// THEN: Everything round-trips
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, team, *got)
}

func TestTeam_SaveReplacesMembers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	team := worktime.Team{
		ID:      teamID,
		FirmID:  firmID,
		Lead:    worktime.PersonRef{ID: leadID},
		Members: []worktime.PersonRef{{ID: memberID}, {ID: member2ID}},
	}
	require.NoError(t, store.SaveTeam(ctx, team))

	team.Members = []worktime.PersonRef{{ID: member2ID}}
	require.NoError(t, store.SaveTeam(ctx, team))

	got, err := store.GetTeam(ctx, teamID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	assert.Equal(t, member2ID, got.Members[0].ID)
}

func TestListTeamsForPerson_LeadAndMember(t *testing.T) {
	// GIVEN: Two teams, the person leads one and is a member of the other
	store := newTestStore(t)
	ctx := context.Background()
	other := worktime.MustParseID("660000000000000000000021")
	require.NoError(t, store.SaveTeam(ctx, worktime.Team{
		ID: teamID, FirmID: firmID, Lead: worktime.PersonRef{ID: leadID},
		Members: []worktime.PersonRef{{ID: memberID}},
	}))
	require.NoError(t, store.SaveTeam(ctx, worktime.Team{
		ID: other, FirmID: firmID, Lead: worktime.PersonRef{ID: memberID},
	}))

	// WHEN: Listing teams for each person
	forMember, err := store.ListTeamsForPerson(ctx, memberID)
	require.NoError(t, err)
	forLead, err := store.ListTeamsForPerson(ctx, leadID)
	require.NoError(t, err)
	forNobody, err := store.ListTeamsForPerson(ctx, worktime.NewID())
	require.NoError(t, err)

	// THEN: Membership and leadership both count
	assert.Len(t, forMember, 2)
	require.Len(t, forLead, 1)
	assert.Equal(t, teamID, forLead[0].ID)
	assert.Empty(t, forNobody)
}

func TestPersons_CollectionsAreSeparate(t *testing.T) {
	// GIVEN: A manager and a crew member
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SavePerson(ctx, worktime.Person{
		ID: leadID, Kind: worktime.KindManager, Name: "Lena",
		MonthlySalary: decimal.RequireFromString("60000.50"), RankID: &rankID,
	}))
	require.NoError(t, store.SavePerson(ctx, worktime.Person{
		ID: memberID, Kind: worktime.KindCrew, Name: "Ade",
		MonthlySalary: decimal.NewFromInt(30000),
	}))

	// WHEN: Looking each up in both collections
	mgr, err := store.GetPersonByID(ctx, leadID, worktime.KindManager)
	require.NoError(t, err)
	wrong, err := store.GetPersonByID(ctx, leadID, worktime.KindCrew)
	require.NoError(t, err)
	crew, err := store.ListPersonsByIDs(ctx, []worktime.ID{leadID, memberID}, worktime.KindCrew)
	require.NoError(t, err)

	// THEN: Each lives only in its own collection
	require.NotNil(t, mgr)
	assert.Equal(t, "Lena", mgr.Name)
	assert.Equal(t, worktime.KindManager, mgr.Kind)
	assert.True(t, mgr.MonthlySalary.Equal(decimal.RequireFromString("60000.5")))
	require.NotNil(t, mgr.RankID)
	assert.Equal(t, rankID, *mgr.RankID)
	assert.Nil(t, wrong)

	require.Len(t, crew, 1)
	assert.Equal(t, memberID, crew[0].ID)
	assert.Equal(t, worktime.KindCrew, crew[0].Kind)
	assert.Nil(t, crew[0].RankID)
}

func TestListPersonsByIDs_Empty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.ListPersonsByIDs(context.Background(), nil, worktime.KindManager)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTasks_FilteredAndOrdered(t *testing.T) {
	// GIVEN: Tasks on two projects, one without time logged
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	otherProject := worktime.NewID()

	first := worktime.Task{
		ID: worktime.NewID(), ProjectID: projectID, Title: "second created",
		Assignee: worktime.PersonRef{ID: memberID, Kind: worktime.KindCrew},
		Assigner: worktime.PersonRef{ID: leadID, Kind: worktime.KindManager},
		Status:   worktime.StatusCompleted, RemarkStatus: "approved",
		TimeTaken: "01:00:00", CreatedAt: base.Add(time.Hour),
	}
	second := worktime.Task{
		ID: worktime.NewID(), ProjectID: projectID, Title: "first created",
		Assignee: worktime.PersonRef{ID: member2ID},
		Assigner: worktime.PersonRef{ID: leadID},
		Status:   worktime.StatusPending, CreatedAt: base,
	}
	elsewhere := worktime.Task{
		ID: worktime.NewID(), ProjectID: otherProject,
		Assignee: worktime.PersonRef{ID: memberID}, Assigner: worktime.PersonRef{ID: leadID},
		Status: worktime.StatusCompleted, TimeTaken: "02:00:00", CreatedAt: base,
	}
	for _, task := range []worktime.Task{first, second, elsewhere} {
		require.NoError(t, store.SaveTask(ctx, task))
	}

	// WHEN: Listing by project and by assignee
	onProject, err := store.ListTasksForProject(ctx, projectID)
	require.NoError(t, err)
	mine, err := store.ListTasksForAssigneeAndProject(ctx, memberID, projectID)
	require.NoError(t, err)

	// THEN: Creation order is kept and the missing duration stays empty
	require.Len(t, onProject, 2)
	assert.Equal(t, "first created", onProject[0].Title)
	assert.Equal(t, "", onProject[0].TimeTaken)
	assert.Equal(t, first, onProject[1])

	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)
}

func TestSaveScenario_ThenReset(t *testing.T) {
	// GIVEN: A parsed scenario
	store := newTestStore(t)
	ctx := context.Background()
	sc := &factory.Scenario{
		Firm:    worktime.Firm{ID: firmID, Name: "Northwind"},
		Ranks:   []worktime.Rank{{ID: rankID, FirmID: firmID, Label: "Principal"}},
		Persons: []worktime.Person{{ID: leadID, Kind: worktime.KindManager, Name: "Lena", MonthlySalary: decimal.NewFromInt(1)}},
		Teams:   []worktime.Team{{ID: teamID, FirmID: firmID, Lead: worktime.PersonRef{ID: leadID}}},
		Tasks: []worktime.Task{{
			ID: worktime.NewID(), ProjectID: projectID,
			Assignee: worktime.PersonRef{ID: leadID}, Assigner: worktime.PersonRef{ID: leadID},
			Status: worktime.StatusCompleted, TimeTaken: "00:30:00",
		}},
	}

	// WHEN: Saving it
	require.NoError(t, store.SaveScenario(ctx, sc))

	// THEN: Every collection is populated
	firm, err := store.GetFirm(ctx, firmID)
	require.NoError(t, err)
	assert.NotNil(t, firm)
	ranks, err := store.ListRanksForFirm(ctx, firmID)
	require.NoError(t, err)
	assert.Len(t, ranks, 1)
	tasks, err := store.ListTasksForProject(ctx, projectID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	// AND: Reset empties them
	require.NoError(t, store.Reset(ctx))
	firm, err = store.GetFirm(ctx, firmID)
	require.NoError(t, err)
	assert.Nil(t, firm)
	team, err := store.GetTeam(ctx, teamID)
	require.NoError(t, err)
	assert.Nil(t, team)
}

// leadAndMemberScenario has a lead and a member with one attributed task each.
func leadAndMemberScenario() *factory.Scenario {
	return &factory.Scenario{
		Firm: worktime.Firm{
			ID:              firmID,
			HolidaySettings: []worktime.WorkingYear{{Year: 2025, TotalWorkingDays: 250}},
			OfficeTiming:    &worktime.OfficeTiming{Hours: 8},
		},
		Persons: []worktime.Person{
			{ID: leadID, Kind: worktime.KindManager, Name: "Lena", MonthlySalary: decimal.NewFromInt(60000)},
			{ID: memberID, Kind: worktime.KindCrew, Name: "Ade", MonthlySalary: decimal.NewFromInt(30000)},
		},
		Teams: []worktime.Team{{
			ID: teamID, FirmID: firmID,
			Lead:     worktime.PersonRef{ID: leadID, Kind: worktime.KindManager},
			Members:  []worktime.PersonRef{{ID: memberID, Kind: worktime.KindCrew}},
			Projects: []worktime.ID{projectID},
		}},
		Tasks: []worktime.Task{
			{
				ID: worktime.NewID(), ProjectID: projectID,
				Assignee: worktime.PersonRef{ID: leadID}, Assigner: worktime.PersonRef{ID: leadID},
				Status: worktime.StatusCompleted, TimeTaken: "01:00:00",
			},
			{
				ID: worktime.NewID(), ProjectID: projectID,
				Assignee: worktime.PersonRef{ID: memberID}, Assigner: worktime.PersonRef{ID: leadID},
				Status: worktime.StatusCompleted, TimeTaken: "02:00:00",
			},
		},
	}
}

func TestEngine_ReportOverSQLite(t *testing.T) {
	// GIVEN: A lead and a member with one attributed task each
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveScenario(ctx, leadAndMemberScenario()))

	// WHEN: Building the report for 2025
	report, err := worktime.NewEngine(store).BuildTeamProjectReport(ctx, teamID, projectID, 2025)

	// THEN: 6/min lead, 3/min member; supervision is the member's 2h
	require.NoError(t, err)
	assert.Equal(t, "03:00:00", report.Lead.TotalTime())
	assert.True(t, report.Lead.TotalCost.Equal(decimal.NewFromInt(1080)), "lead %s", report.Lead.TotalCost)
	require.Len(t, report.Members, 1)
	assert.True(t, report.Members[0].TotalCost.Equal(decimal.NewFromInt(360)), "member %s", report.Members[0].TotalCost)
	assert.True(t, report.Totals.TotalCost.Equal(decimal.NewFromInt(1440)))
	assert.Equal(t, 2, report.Totals.CompletedTasks)
}

func TestEngine_CorruptAssignerSkipsOnlyThatTask(t *testing.T) {
	// GIVEN: The member's task points at an assigner id that no longer parses
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveScenario(ctx, leadAndMemberScenario()))
	_, err := store.db.ExecContext(ctx,
		"UPDATE tasks SET assigner_id = 'deleted-user' WHERE assignee_id = ?", memberID.Hex())
	require.NoError(t, err)

	// WHEN: Building the report
	report, err := worktime.NewEngine(store).BuildTeamProjectReport(ctx, teamID, projectID, 2025)

	// THEN: The report builds; the task still feeds supervision but is not attributed
	require.NoError(t, err)
	assert.Equal(t, "03:00:00", report.Lead.TotalTime())
	assert.True(t, report.Lead.TotalCost.Equal(decimal.NewFromInt(1080)), "lead %s", report.Lead.TotalCost)
	require.Len(t, report.Members, 1)
	assert.True(t, report.Members[0].TotalCost.IsZero(), "member %s", report.Members[0].TotalCost)
	assert.Equal(t, 0, report.Members[0].CompletedTasks)
	assert.True(t, report.Totals.TotalCost.Equal(decimal.NewFromInt(1080)))
	assert.Equal(t, 1, report.Totals.CompletedTasks)
}

func TestListTasks_CorruptAssigneeKeepsRow(t *testing.T) {
	// GIVEN: A task whose assignee id is garbage
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveScenario(ctx, leadAndMemberScenario()))
	_, err := store.db.ExecContext(ctx,
		"UPDATE tasks SET assignee_id = 'x' WHERE assignee_id = ?", memberID.Hex())
	require.NoError(t, err)

	// WHEN: Listing the project's tasks
	tasks, err := store.ListTasksForProject(ctx, projectID)

	// THEN: Both rows come back, the bad one with an empty assignee
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	var empty int
	for _, task := range tasks {
		if task.Assignee.IsZero() {
			empty++
			assert.Equal(t, leadID, task.Assigner.ID)
		}
	}
	assert.Equal(t, 1, empty)
}

func TestEngine_CorruptTaskIDIsServerError(t *testing.T) {
	// GIVEN: A task row whose own id is corrupt
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveScenario(ctx, leadAndMemberScenario()))
	_, err := store.db.ExecContext(ctx,
		"UPDATE tasks SET id = 'bad' WHERE assignee_id = ?", memberID.Hex())
	require.NoError(t, err)

	// WHEN: Building the report
	_, err = worktime.NewEngine(store).BuildTeamProjectReport(ctx, teamID, projectID, 2025)

	// THEN: It fails, but not as the caller's fault
	require.Error(t, err)
	assert.False(t, worktime.IsClientError(err))
	assert.Contains(t, err.Error(), "list tasks for project")
	assert.Contains(t, err.Error(), "corrupt row tasks.id")
}
