/*
Package sqlite provides a SQLite-backed implementation of worktime.Store.

PURPOSE:

	Persists the records the attribution engine reads: firms with their
	working calendar, ranks, the manager and crew collections, teams and
	tasks. The engine itself never writes; the Save* methods exist for
	seeding (demo scenarios, imports, tests).

INTERFACES IMPLEMENTED:

	worktime.TeamStore:   Teams by id and by person
	worktime.FirmStore:   Firms and rank tables
	worktime.TaskStore:   Project and assignee task lists
	worktime.PersonStore: Manager/Crew lookups, single and bulk

KEY TABLES:

	firms:         Firm name plus settings_json (holiday settings, office timing)
	ranks:         Firm-scoped designations
	managers/crew: The two person collections, same shape
	teams:         Lead reference per team
	team_members:  Ordered member references
	team_projects: Projects a team is assigned to
	tasks:         Logged work with assignee/assigner references

INDEXES:
  - idx_tasks_project: Team report (all tasks on a project)
  - idx_tasks_assignee_project: Crew task details
  - idx_team_members_person: Team lookup by person

NOT FOUND:

	Single-record getters return (nil, nil) when no row matches. The engine
	turns that into a worktime.NotFoundError.

CONCURRENCY:

	Uses sync.RWMutex for thread-safety, the same as the in-memory store.

USAGE:

	store, err := sqlite.New("./data/workcost.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

	engine := worktime.NewEngine(store)

SEE ALSO:
  - worktime/store.go: Interface definitions
  - worktime/store/memory.go: In-memory implementation for testing
  - factory/scenario.go: Seed documents loaded via SaveScenario
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/workcost-engine/factory"
	"github.com/warp/workcost-engine/worktime"
)

// Store implements worktime.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ worktime.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Firms; settings_json holds holiday settings and office timing
	CREATE TABLE IF NOT EXISTS firms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		settings_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ranks (
		id TEXT PRIMARY KEY,
		firm_id TEXT NOT NULL,
		label TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ranks_firm
		ON ranks(firm_id);

	-- Person collections
	CREATE TABLE IF NOT EXISTS managers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		monthly_salary TEXT NOT NULL DEFAULT '0',
		rank_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS crew (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		monthly_salary TEXT NOT NULL DEFAULT '0',
		rank_id TEXT,
		created_at TEXT NOT NULL
	);

	-- Teams
	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		firm_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		lead_id TEXT NOT NULL,
		lead_kind TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_teams_lead
		ON teams(lead_id);

	CREATE TABLE IF NOT EXISTS team_members (
		team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		person_id TEXT NOT NULL,
		person_kind TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		PRIMARY KEY (team_id, person_id)
	);

	CREATE INDEX IF NOT EXISTS idx_team_members_person
		ON team_members(person_id);

	CREATE TABLE IF NOT EXISTS team_projects (
		team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		project_id TEXT NOT NULL,
		PRIMARY KEY (team_id, project_id)
	);

	-- Tasks; time_taken is NULL when never logged
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		assignee_id TEXT NOT NULL,
		assignee_kind TEXT NOT NULL DEFAULT '',
		assigner_id TEXT NOT NULL,
		assigner_kind TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		remark_status TEXT NOT NULL DEFAULT '',
		time_taken TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project
		ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_assignee_project
		ON tasks(assignee_id, project_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SEEDING
// =============================================================================

// SaveFirm upserts a firm and its calendar settings.
func (s *Store) SaveFirm(ctx context.Context, f worktime.Firm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveFirm(ctx, s.db, f)
}

func saveFirm(ctx context.Context, db execer, f worktime.Firm) error {
	settings, err := factory.EncodeFirmSettings(f)
	if err != nil {
		return fmt.Errorf("failed to encode firm settings: %w", err)
	}

	query := `
		INSERT INTO firms (id, name, settings_json, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			settings_json = excluded.settings_json
	`
	_, err = db.ExecContext(ctx, query, f.ID.Hex(), f.Name, string(settings), now())
	if err != nil {
		return fmt.Errorf("failed to save firm: %w", err)
	}
	return nil
}

// SaveRank upserts a rank.
func (s *Store) SaveRank(ctx context.Context, r worktime.Rank) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveRank(ctx, s.db, r)
}

func saveRank(ctx context.Context, db execer, r worktime.Rank) error {
	query := `
		INSERT INTO ranks (id, firm_id, label) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			firm_id = excluded.firm_id,
			label = excluded.label
	`
	_, err := db.ExecContext(ctx, query, r.ID.Hex(), r.FirmID.Hex(), r.Label)
	if err != nil {
		return fmt.Errorf("failed to save rank: %w", err)
	}
	return nil
}

// SavePerson upserts p into the collection named by p.Kind. Untagged people
// are stored as managers.
func (s *Store) SavePerson(ctx context.Context, p worktime.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return savePerson(ctx, s.db, p)
}

func savePerson(ctx context.Context, db execer, p worktime.Person) error {
	var rankID sql.NullString
	if p.RankID != nil {
		rankID = nullString(p.RankID.Hex())
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, monthly_salary, rank_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			monthly_salary = excluded.monthly_salary,
			rank_id = excluded.rank_id
	`, personTable(p.Kind))

	_, err := db.ExecContext(ctx, query, p.ID.Hex(), p.Name, p.MonthlySalary.String(), rankID, now())
	if err != nil {
		return fmt.Errorf("failed to save person: %w", err)
	}
	return nil
}

// SaveTeam upserts a team, replacing its members and projects.
func (s *Store) SaveTeam(ctx context.Context, t worktime.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveTeam(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit()
}

func saveTeam(ctx context.Context, db execer, t worktime.Team) error {
	query := `
		INSERT INTO teams (id, firm_id, name, lead_id, lead_kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			firm_id = excluded.firm_id,
			name = excluded.name,
			lead_id = excluded.lead_id,
			lead_kind = excluded.lead_kind
	`
	if _, err := db.ExecContext(ctx, query,
		t.ID.Hex(), t.FirmID.Hex(), t.Name, t.Lead.ID.Hex(), string(t.Lead.Kind), now(),
	); err != nil {
		return fmt.Errorf("failed to save team: %w", err)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM team_members WHERE team_id = ?", t.ID.Hex()); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM team_projects WHERE team_id = ?", t.ID.Hex()); err != nil {
		return err
	}

	for i, m := range t.Members {
		if _, err := db.ExecContext(ctx,
			"INSERT OR IGNORE INTO team_members (team_id, person_id, person_kind, position) VALUES (?, ?, ?, ?)",
			t.ID.Hex(), m.ID.Hex(), string(m.Kind), i,
		); err != nil {
			return fmt.Errorf("failed to save team member: %w", err)
		}
	}
	for _, p := range t.Projects {
		if _, err := db.ExecContext(ctx,
			"INSERT OR IGNORE INTO team_projects (team_id, project_id) VALUES (?, ?)",
			t.ID.Hex(), p.Hex(),
		); err != nil {
			return fmt.Errorf("failed to save team project: %w", err)
		}
	}
	return nil
}

// SaveTask upserts a task. An empty TimeTaken is stored as NULL.
func (s *Store) SaveTask(ctx context.Context, t worktime.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveTask(ctx, s.db, t)
}

func saveTask(ctx context.Context, db execer, t worktime.Task) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO tasks
		(id, project_id, title, assignee_id, assignee_kind, assigner_id, assigner_kind,
		 status, remark_status, time_taken, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			title = excluded.title,
			assignee_id = excluded.assignee_id,
			assignee_kind = excluded.assignee_kind,
			assigner_id = excluded.assigner_id,
			assigner_kind = excluded.assigner_kind,
			status = excluded.status,
			remark_status = excluded.remark_status,
			time_taken = excluded.time_taken
	`
	_, err := db.ExecContext(ctx, query,
		t.ID.Hex(), t.ProjectID.Hex(), t.Title,
		t.Assignee.ID.Hex(), string(t.Assignee.Kind),
		t.Assigner.ID.Hex(), string(t.Assigner.Kind),
		string(t.Status), string(t.RemarkStatus),
		nullString(t.TimeTaken),
		createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// SaveScenario writes every record of a parsed scenario atomically.
func (s *Store) SaveScenario(ctx context.Context, sc *factory.Scenario) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveFirm(ctx, tx, sc.Firm); err != nil {
		return err
	}
	for _, r := range sc.Ranks {
		if err := saveRank(ctx, tx, r); err != nil {
			return err
		}
	}
	for _, p := range sc.Persons {
		if err := savePerson(ctx, tx, p); err != nil {
			return err
		}
	}
	for _, t := range sc.Teams {
		if err := saveTeam(ctx, tx, t); err != nil {
			return err
		}
	}
	for _, t := range sc.Tasks {
		if err := saveTask(ctx, tx, t); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// =============================================================================
// TEAM STORE (worktime.TeamStore interface)
// =============================================================================

// GetTeam returns the team with its ordered members and projects.
func (s *Store) GetTeam(ctx context.Context, teamID worktime.ID) (*worktime.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getTeam(ctx, teamID.Hex())
}

func (s *Store) getTeam(ctx context.Context, id string) (*worktime.Team, error) {
	var (
		t                      worktime.Team
		teamID, firmID, leadID string
		leadKind               string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, firm_id, name, lead_id, lead_kind FROM teams WHERE id = ?",
		id,
	).Scan(&teamID, &firmID, &t.Name, &leadID, &leadKind)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if t.ID, err = parseStoredID("teams.id", teamID); err != nil {
		return nil, err
	}
	if t.FirmID, err = parseStoredID("teams.firm_id", firmID); err != nil {
		return nil, err
	}
	lead, err := parseStoredID("teams.lead_id", leadID)
	if err != nil {
		return nil, err
	}
	t.Lead = worktime.PersonRef{ID: lead, Kind: worktime.PersonKind(leadKind)}

	rows, err := s.db.QueryContext(ctx,
		"SELECT person_id, person_kind FROM team_members WHERE team_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var pid, kind string
		if err := rows.Scan(&pid, &kind); err != nil {
			return nil, err
		}
		mid, err := parseStoredID("team_members.person_id", pid)
		if err != nil {
			return nil, err
		}
		t.Members = append(t.Members, worktime.PersonRef{ID: mid, Kind: worktime.PersonKind(kind)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := s.db.QueryContext(ctx,
		"SELECT project_id FROM team_projects WHERE team_id = ? ORDER BY project_id",
		id,
	)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var raw string
		if err := prows.Scan(&raw); err != nil {
			return nil, err
		}
		pid, err := parseStoredID("team_projects.project_id", raw)
		if err != nil {
			return nil, err
		}
		t.Projects = append(t.Projects, pid)
	}
	return &t, prows.Err()
}

// ListTeamsForPerson returns every team the person leads or belongs to.
func (s *Store) ListTeamsForPerson(ctx context.Context, personID worktime.ID) ([]worktime.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM teams WHERE lead_id = ?
		UNION
		SELECT team_id FROM team_members WHERE person_id = ?
		ORDER BY 1
	`, personID.Hex(), personID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var teams []worktime.Team
	for _, id := range ids {
		t, err := s.getTeam(ctx, id)
		if err != nil {
			return nil, err
		}
		if t != nil {
			teams = append(teams, *t)
		}
	}
	return teams, nil
}

// =============================================================================
// FIRM STORE (worktime.FirmStore interface)
// =============================================================================

// GetFirm returns the firm with its decoded calendar settings.
func (s *Store) GetFirm(ctx context.Context, firmID worktime.ID) (*worktime.Firm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		f        worktime.Firm
		id       string
		settings sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, settings_json FROM firms WHERE id = ?",
		firmID.Hex(),
	).Scan(&id, &f.Name, &settings)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if f.ID, err = parseStoredID("firms.id", id); err != nil {
		return nil, err
	}
	f.HolidaySettings, f.OfficeTiming, err = factory.ParseFirmSettings([]byte(settings.String))
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListRanksForFirm returns the firm's ranks.
func (s *Store) ListRanksForFirm(ctx context.Context, firmID worktime.ID) ([]worktime.Rank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, label FROM ranks WHERE firm_id = ? ORDER BY label",
		firmID.Hex(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranks: %w", err)
	}
	defer rows.Close()

	var ranks []worktime.Rank
	for rows.Next() {
		var raw string
		r := worktime.Rank{FirmID: firmID}
		if err := rows.Scan(&raw, &r.Label); err != nil {
			return nil, err
		}
		if r.ID, err = parseStoredID("ranks.id", raw); err != nil {
			return nil, err
		}
		ranks = append(ranks, r)
	}
	return ranks, rows.Err()
}

// =============================================================================
// TASK STORE (worktime.TaskStore interface)
// =============================================================================

const taskColumns = `id, project_id, title, assignee_id, assignee_kind, assigner_id, assigner_kind,
	status, remark_status, time_taken, created_at`

// ListTasksForProject returns all tasks on a project in creation order.
func (s *Store) ListTasksForProject(ctx context.Context, projectID worktime.ID) ([]worktime.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + taskColumns + ` FROM tasks
		WHERE project_id = ?
		ORDER BY created_at ASC, rowid ASC`
	return s.queryTasks(ctx, query, projectID.Hex())
}

// ListTasksForAssigneeAndProject returns one person's tasks on a project.
func (s *Store) ListTasksForAssigneeAndProject(ctx context.Context, personID, projectID worktime.ID) ([]worktime.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + taskColumns + ` FROM tasks
		WHERE assignee_id = ? AND project_id = ?
		ORDER BY created_at ASC, rowid ASC`
	return s.queryTasks(ctx, query, personID.Hex(), projectID.Hex())
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]worktime.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []worktime.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(rows *sql.Rows) (worktime.Task, error) {
	var (
		t                         worktime.Task
		id, projectID             string
		assigneeID, assigneeKind  string
		assignerID, assignerKind  string
		status, remark, createdAt string
		timeTaken                 sql.NullString
	)
	err := rows.Scan(
		&id, &projectID, &t.Title,
		&assigneeID, &assigneeKind, &assignerID, &assignerKind,
		&status, &remark, &timeTaken, &createdAt,
	)
	if err != nil {
		return t, fmt.Errorf("failed to scan task: %w", err)
	}

	if t.ID, err = parseStoredID("tasks.id", id); err != nil {
		return t, err
	}
	if t.ProjectID, err = parseStoredID("tasks.project_id", projectID); err != nil {
		return t, err
	}
	t.Assignee = storedPersonRef(t.ID, "tasks.assignee_id", assigneeID, assigneeKind)
	t.Assigner = storedPersonRef(t.ID, "tasks.assigner_id", assignerID, assignerKind)
	t.Status = worktime.ParseTaskStatus(status)
	t.RemarkStatus = worktime.RemarkStatus(remark)
	t.TimeTaken = timeTaken.String
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

// =============================================================================
// PERSON STORE (worktime.PersonStore interface)
// =============================================================================

// GetPersonByID looks id up in the collection named by kind.
func (s *Store) GetPersonByID(ctx context.Context, id worktime.ID, kind worktime.PersonKind) (*worktime.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := fmt.Sprintf("SELECT id, name, monthly_salary, rank_id FROM %s WHERE id = ?", personTable(kind))
	rows, err := s.db.QueryContext(ctx, query, id.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to query person: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	p, err := scanPerson(rows, kind)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPersonsByIDs returns the people in one collection whose ids are listed.
// Missing ids are skipped.
func (s *Store) ListPersonsByIDs(ctx context.Context, ids []worktime.ID, kind worktime.PersonKind) ([]worktime.Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id.Hex()
	}

	query := fmt.Sprintf("SELECT id, name, monthly_salary, rank_id FROM %s WHERE id IN (%s) ORDER BY id",
		personTable(kind), placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query persons: %w", err)
	}
	defer rows.Close()

	var persons []worktime.Person
	for rows.Next() {
		p, err := scanPerson(rows, kind)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func scanPerson(rows *sql.Rows, kind worktime.PersonKind) (worktime.Person, error) {
	var (
		p          worktime.Person
		id, salary string
		rankID     sql.NullString
	)
	if err := rows.Scan(&id, &p.Name, &salary, &rankID); err != nil {
		return p, fmt.Errorf("failed to scan person: %w", err)
	}

	var err error
	if p.ID, err = parseStoredID("person.id", id); err != nil {
		return p, err
	}
	p.Kind = collectionKind(kind)
	if p.MonthlySalary, err = decimal.NewFromString(salary); err != nil {
		return p, fmt.Errorf("invalid salary %q for person %s: %w", salary, id, err)
	}
	if rankID.Valid && rankID.String != "" {
		rid, err := parseStoredID("person.rank_id", rankID.String)
		if err != nil {
			return p, err
		}
		p.RankID = &rid
	}
	return p, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"tasks", "team_projects", "team_members", "teams", "crew", "managers", "ranks", "firms"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

// personTable maps a kind onto its table. Untagged references live with
// the managers.
func personTable(kind worktime.PersonKind) string {
	if kind == worktime.KindCrew {
		return "crew"
	}
	return "managers"
}

func collectionKind(kind worktime.PersonKind) worktime.PersonKind {
	if kind == worktime.KindCrew {
		return worktime.KindCrew
	}
	return worktime.KindManager
}

// parseStoredID does not wrap the parse error: a bad stored id is a server
// fault, not an invalid argument from the caller.
func parseStoredID(column, raw string) (worktime.ID, error) {
	id, err := worktime.ParseID(column, raw)
	if err != nil {
		return worktime.NilID, fmt.Errorf("corrupt row %s: %v", column, err)
	}
	return id, nil
}

// storedPersonRef keeps a task whose person id no longer parses. The zero
// ref never resolves, so the task is skipped by attribution and supervision
// instead of failing every report on its project.
func storedPersonRef(taskID worktime.ID, column, raw, kind string) worktime.PersonRef {
	id, err := worktime.ParseID(column, raw)
	if err != nil {
		log.Printf("[Store] task %s: ignoring corrupt %s %q", taskID.Hex(), column, raw)
		return worktime.PersonRef{}
	}
	return worktime.PersonRef{ID: id, Kind: worktime.PersonKind(kind)}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
