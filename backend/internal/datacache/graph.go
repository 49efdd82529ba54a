package datacache

import (
	"cmp"
	"slices"
	"strings"

	"familymap/backend/internal/constants"
	"familymap/backend/internal/model"
	apperrors "familymap/backend/pkg/errors"
)

// ancestorWalk is a depth-first walk up parent links, mother branch before
// father branch, visiting each person after both of their branches.
type ancestorWalk struct {
	people map[string]model.Person
	visit  func(model.Person)
	onPath map[string]bool
	done   map[string]bool
	err    error
}

func newAncestorWalk(people map[string]model.Person, visit func(model.Person)) *ancestorWalk {
	return &ancestorWalk{
		people: people,
		visit:  visit,
		onPath: make(map[string]bool),
		done:   make(map[string]bool),
	}
}

// from walks personID and everything above it. Unresolvable IDs end their
// branch silently; a person met again on its own path records a cycle and ends
// that branch. Shared ancestors are expanded once.
func (w *ancestorWalk) from(personID string) {
	p, ok := w.people[personID]
	if !ok || w.done[personID] {
		return
	}
	if w.onPath[personID] {
		if w.err == nil {
			w.err = apperrors.NewCycleDetected(personID)
		}
		return
	}

	w.onPath[personID] = true
	w.from(p.MotherID)
	w.from(p.FatherID)
	delete(w.onPath, personID)

	w.done[personID] = true
	w.visit(p)
}

// Ancestors returns every resolvable ancestor of personID in walk order:
// for each person, the mother's line, then the father's line, then the person.
func (c *Cache) Ancestors(personID string) ([]model.Person, error) {
	p, ok := c.people[personID]
	if !ok {
		return []model.Person{}, nil
	}

	ancestors := []model.Person{}
	w := newAncestorWalk(c.people, func(a model.Person) {
		ancestors = append(ancestors, a)
	})
	w.onPath[p.ID] = true
	w.from(p.MotherID)
	w.from(p.FatherID)
	return ancestors, w.err
}

// LifeEvents returns a person's stored events in timeline order. Unknown
// people and people without events get an empty slice.
func (c *Cache) LifeEvents(personID string) []model.Event {
	return timeline(c.events, personID)
}

func timeline(events map[string]model.Event, personID string) []model.Event {
	lifeEvents := []model.Event{}
	for _, e := range events {
		if e.PersonID == personID {
			lifeEvents = append(lifeEvents, e)
		}
	}
	slices.SortFunc(lifeEvents, compareLifeEvents)
	return lifeEvents
}

// compareLifeEvents orders births first and deaths last, everything else by
// year, then by case-folded event type, then by ID.
func compareLifeEvents(a, b model.Event) int {
	if r := cmp.Compare(timelineRank(a), timelineRank(b)); r != 0 {
		return r
	}
	if r := cmp.Compare(a.Year, b.Year); r != 0 {
		return r
	}
	if r := strings.Compare(strings.ToLower(a.EventType), strings.ToLower(b.EventType)); r != 0 {
		return r
	}
	return strings.Compare(a.ID, b.ID)
}

func timelineRank(e model.Event) int {
	switch {
	case e.Is(constants.EventTypeBirth):
		return 0
	case e.Is(constants.EventTypeDeath):
		return 2
	}
	return 1
}

// Family returns father, mother and spouse (each when resolvable) followed by
// the person's children ordered by ID. The person never appears in the result.
func (c *Cache) Family(personID string) []model.Person {
	family := []model.Person{}
	p, ok := c.people[personID]
	if !ok {
		return family
	}

	for _, id := range []string{p.FatherID, p.MotherID, p.SpouseID} {
		if relative, ok := c.people[id]; ok && id != personID {
			family = append(family, relative)
		}
	}

	children := []model.Person{}
	for id, child := range c.people {
		if id == personID {
			continue
		}
		if child.FatherID == personID || child.MotherID == personID {
			children = append(children, child)
		}
	}
	slices.SortFunc(children, byPersonID)

	return append(family, children...)
}

func byPersonID(a, b model.Person) int {
	return strings.Compare(a.ID, b.ID)
}

func byEventID(a, b model.Event) int {
	return strings.Compare(a.ID, b.ID)
}
