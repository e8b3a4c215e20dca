package worktime

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// =============================================================================
// PERSON RESOLVER - Manager | Crew disambiguation
// =============================================================================

// PersonResolver resolves PersonRefs against the Manager and Crew
// collections. A ref's Kind is a hint: the tagged collection wins, the other
// collection is the fallback, and KindUnknown probes both.
type PersonResolver struct {
	Persons PersonStore
}

func NewPersonResolver(persons PersonStore) *PersonResolver {
	return &PersonResolver{Persons: persons}
}

// Resolve looks up a single ref, probing the tagged collection first.
// Returns nil when neither collection has the id.
func (r *PersonResolver) Resolve(ctx context.Context, ref PersonRef) (*Person, error) {
	for _, kind := range probeOrder(ref.Kind) {
		p, err := r.Persons.GetPersonByID(ctx, ref.ID, kind)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", ref, err)
		}
		if p != nil {
			return p, nil
		}
	}
	return nil, nil
}

// ResolveAll resolves every distinct ref with exactly two bulk lookups, one
// per collection, issued concurrently. Refs that resolve nowhere are absent
// from the result.
func (r *PersonResolver) ResolveAll(ctx context.Context, refs []PersonRef) (map[ID]Person, error) {
	ids := distinctIDs(refs)
	result := make(map[ID]Person, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var managers, crew []Person
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		managers, err = r.Persons.ListPersonsByIDs(gctx, ids, KindManager)
		return err
	})
	g.Go(func() error {
		var err error
		crew, err = r.Persons.ListPersonsByIDs(gctx, ids, KindCrew)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bulk person lookup: %w", err)
	}

	byKind := map[PersonKind]map[ID]Person{
		KindManager: indexPersons(managers),
		KindCrew:    indexPersons(crew),
	}

	hint := make(map[ID]PersonKind, len(ids))
	for _, ref := range refs {
		if _, seen := hint[ref.ID]; !seen || hint[ref.ID] == KindUnknown {
			hint[ref.ID] = ref.Kind
		}
	}

	for _, id := range ids {
		for _, kind := range probeOrder(hint[id]) {
			if p, ok := byKind[kind][id]; ok {
				result[id] = p
				break
			}
		}
	}
	return result, nil
}

func probeOrder(kind PersonKind) []PersonKind {
	if kind == KindCrew {
		return []PersonKind{KindCrew, KindManager}
	}
	return []PersonKind{KindManager, KindCrew}
}

func indexPersons(persons []Person) map[ID]Person {
	m := make(map[ID]Person, len(persons))
	for _, p := range persons {
		m[p.ID] = p
	}
	return m
}

func distinctIDs(refs []PersonRef) []ID {
	seen := make(map[ID]bool, len(refs))
	var ids []ID
	for _, ref := range refs {
		if ref.IsZero() || seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		ids = append(ids, ref.ID)
	}
	return ids
}
