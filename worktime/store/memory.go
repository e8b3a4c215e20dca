// Package store provides in-memory implementations of the worktime
// collaborator interfaces.
package store

import (
	"context"
	"sync"

	"github.com/warp/workcost-engine/worktime"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	teams    map[worktime.ID]worktime.Team
	firms    map[worktime.ID]worktime.Firm
	ranks    map[worktime.ID][]worktime.Rank
	tasks    []worktime.Task
	managers map[worktime.ID]worktime.Person
	crew     map[worktime.ID]worktime.Person
}

var _ worktime.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		teams:    make(map[worktime.ID]worktime.Team),
		firms:    make(map[worktime.ID]worktime.Firm),
		ranks:    make(map[worktime.ID][]worktime.Rank),
		managers: make(map[worktime.ID]worktime.Person),
		crew:     make(map[worktime.ID]worktime.Person),
	}
}

// =============================================================================
// SEEDING
// =============================================================================

func (m *Memory) PutTeam(t worktime.Team) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[t.ID] = t
}

func (m *Memory) PutFirm(f worktime.Firm) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.firms[f.ID] = f
}

func (m *Memory) PutRank(r worktime.Rank) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ranks[r.FirmID] = append(m.ranks[r.FirmID], r)
}

// PutTask appends a task. Tasks keep insertion order.
func (m *Memory) PutTask(t worktime.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, t)
}

// PutPerson stores p in the collection named by p.Kind.
func (m *Memory) PutPerson(p worktime.Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Kind == worktime.KindCrew {
		m.crew[p.ID] = p
		return
	}
	m.managers[p.ID] = p
}

// =============================================================================
// READS
// =============================================================================

func (m *Memory) GetTeam(_ context.Context, teamID worktime.ID) (*worktime.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.teams[teamID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *Memory) ListTeamsForPerson(_ context.Context, personID worktime.ID) ([]worktime.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []worktime.Team
	for _, t := range m.teams {
		if t.HasPerson(personID) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *Memory) GetFirm(_ context.Context, firmID worktime.ID) (*worktime.Firm, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.firms[firmID]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (m *Memory) ListRanksForFirm(_ context.Context, firmID worktime.ID) ([]worktime.Rank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]worktime.Rank, len(m.ranks[firmID]))
	copy(result, m.ranks[firmID])
	return result, nil
}

func (m *Memory) ListTasksForProject(_ context.Context, projectID worktime.ID) ([]worktime.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []worktime.Task
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *Memory) ListTasksForAssigneeAndProject(_ context.Context, personID, projectID worktime.ID) ([]worktime.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []worktime.Task
	for _, t := range m.tasks {
		if t.ProjectID == projectID && t.Assignee.ID == personID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *Memory) GetPersonByID(_ context.Context, id worktime.ID, kind worktime.PersonKind) (*worktime.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.collection(kind)[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) ListPersonsByIDs(_ context.Context, ids []worktime.ID, kind worktime.PersonKind) ([]worktime.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll := m.collection(kind)
	var result []worktime.Person
	for _, id := range ids {
		if p, ok := coll[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *Memory) collection(kind worktime.PersonKind) map[worktime.ID]worktime.Person {
	if kind == worktime.KindCrew {
		return m.crew
	}
	return m.managers
}
