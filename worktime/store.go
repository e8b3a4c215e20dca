/*
store.go - Read-only collaborator interfaces

PURPOSE:

	The engine owns no persistence. Teams, firms, ranks, tasks and people are
	fetched through these interfaces; every method is a read.

NOT FOUND CONTRACT:

	Single-record getters return (nil, nil) when the record does not exist.
	The engine decides whether absence is fatal (team, firm, lead) or
	degrades to a placeholder (an assigner on one task record).

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - worktime/store/memory.go: In-memory for tests

SEE ALSO:
  - resolver.go: Two-collection person resolution on top of PersonStore
*/
package worktime

import "context"

// TeamStore reads teams.
type TeamStore interface {
	GetTeam(ctx context.Context, teamID ID) (*Team, error)

	// ListTeamsForPerson returns teams where the person is lead or member.
	ListTeamsForPerson(ctx context.Context, personID ID) ([]Team, error)
}

// FirmStore reads firms and their rank tables.
type FirmStore interface {
	GetFirm(ctx context.Context, firmID ID) (*Firm, error)
	ListRanksForFirm(ctx context.Context, firmID ID) ([]Rank, error)
}

// TaskStore reads tasks.
type TaskStore interface {
	ListTasksForProject(ctx context.Context, projectID ID) ([]Task, error)
	ListTasksForAssigneeAndProject(ctx context.Context, personID, projectID ID) ([]Task, error)
}

// PersonStore reads the two disjoint person collections.
type PersonStore interface {
	// GetPersonByID returns nil when id is not in the kind's collection.
	GetPersonByID(ctx context.Context, id ID, kind PersonKind) (*Person, error)

	// ListPersonsByIDs is the bulk form. Missing ids are simply absent.
	ListPersonsByIDs(ctx context.Context, ids []ID, kind PersonKind) ([]Person, error)
}

// Store bundles every collaborator the report engine reads from.
type Store interface {
	TeamStore
	FirmStore
	TaskStore
	PersonStore
}
