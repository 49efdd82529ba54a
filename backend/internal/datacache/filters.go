package datacache

import (
	"slices"

	"go.uber.org/zap"

	"familymap/backend/internal/constants"
	"familymap/backend/internal/model"
	apperrors "familymap/backend/pkg/errors"
)

var (
	eventFilterLabels = constants.DefaultEventFilters()
	lineFilterLabels  = constants.DefaultLineFilters()
)

// EventFilters returns the active event filter labels in activation order
func (c *Cache) EventFilters() []string {
	return slices.Clone(c.eventFilters)
}

// LineFilters returns the active line filter labels in activation order
func (c *Cache) LineFilters() []string {
	return slices.Clone(c.lineFilters)
}

// HasEventFilter reports whether an event filter is active
func (c *Cache) HasEventFilter(label string) bool {
	return slices.Contains(c.eventFilters, label)
}

// HasLineFilter reports whether a line filter is active
func (c *Cache) HasLineFilter(label string) bool {
	return slices.Contains(c.lineFilters, label)
}

// EventsUpToDate is false from an event filter or focal user change until AcknowledgeUpdate
func (c *Cache) EventsUpToDate() bool {
	return c.eventsUpToDate
}

// LinesUpToDate is false from a line filter change until AcknowledgeUpdate
func (c *Cache) LinesUpToDate() bool {
	return c.linesUpToDate
}

// AcknowledgeUpdate records that the presentation layer has redrawn
func (c *Cache) AcknowledgeUpdate() {
	c.eventsUpToDate = true
	c.linesUpToDate = true
}

// SetEventFilter toggles an event filter and recomputes the visible subset
func (c *Cache) SetEventFilter(label string, enabled bool) error {
	if !slices.Contains(eventFilterLabels, label) {
		return apperrors.NewInvalidInput("event filter", "unknown label "+label)
	}
	c.eventsUpToDate = false
	c.eventFilters = toggle(c.eventFilters, label, enabled)
	return c.refresh()
}

// SetLineFilter toggles a line filter. The visible subset is unaffected.
func (c *Cache) SetLineFilter(label string, enabled bool) error {
	if !slices.Contains(lineFilterLabels, label) {
		return apperrors.NewInvalidInput("line filter", "unknown label "+label)
	}
	c.linesUpToDate = false
	c.lineFilters = toggle(c.lineFilters, label, enabled)
	c.notify(UpdateLines)
	return nil
}

// SetFocalUser anchors filtering on a stored person and recomputes the visible subset
func (c *Cache) SetFocalUser(personID string) error {
	if _, ok := c.people[personID]; !ok {
		return apperrors.NewNotFound("person", personID)
	}
	c.focalUserID = personID
	c.eventsUpToDate = false
	return c.recompute()
}

func toggle(labels []string, label string, enabled bool) []string {
	i := slices.Index(labels, label)
	switch {
	case enabled && i < 0:
		return append(labels, label)
	case !enabled && i >= 0:
		return slices.Delete(labels, i, i+1)
	}
	return labels
}

// recompute rebuilds the visible subset from the focal user's perspective. A
// parent cycle cuts only the branch that closes it; the error is returned once
// the rest of the subset is built.
func (c *Cache) recompute() error {
	people := make(map[string]model.Person)
	var walkErr error

	if user, ok := c.people[c.focalUserID]; ok {
		people[user.ID] = user
		if spouse, ok := c.people[user.SpouseID]; ok {
			people[spouse.ID] = spouse
		}

		walk := newAncestorWalk(c.people, func(p model.Person) {
			people[p.ID] = p
		})
		if c.HasEventFilter(constants.FilterFather) {
			walk.from(user.FatherID)
		}
		if c.HasEventFilter(constants.FilterMother) {
			walk.from(user.MotherID)
		}
		walkErr = walk.err
	}

	male := c.HasEventFilter(constants.FilterMale)
	female := c.HasEventFilter(constants.FilterFemale)
	switch {
	case male && !female:
		keepGender(people, model.GenderMale)
	case female && !male:
		keepGender(people, model.GenderFemale)
	case !male && !female:
		clear(people)
	}

	events := make(map[string]model.Event)
	for id, e := range c.events {
		if _, ok := people[e.PersonID]; ok {
			events[id] = e
		}
	}

	c.visiblePeople = people
	c.visibleEvents = events

	c.logger.Debug("Visible subset recomputed",
		zap.String("focal_user", c.focalUserID),
		zap.Strings("event_filters", c.eventFilters),
		zap.Int("people", len(people)),
		zap.Int("events", len(events)),
	)
	if walkErr != nil {
		c.logger.Warn("Ancestor cycle cut during recompute", zap.Error(walkErr))
	}
	c.notify(UpdateEvents)
	return walkErr
}

func keepGender(people map[string]model.Person, g model.Gender) {
	for id, p := range people {
		if p.Gender != g {
			delete(people, id)
		}
	}
}
