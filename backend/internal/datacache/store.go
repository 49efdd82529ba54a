package datacache

import (
	"fmt"
	"maps"

	"go.uber.org/zap"

	"familymap/backend/internal/model"
	apperrors "familymap/backend/pkg/errors"
)

// IngestPeople upserts a batch of people by ID. A record replaces any stored
// record with the same ID outright. A nil batch or an invalid record rejects
// the whole batch before anything is stored; any error means nothing changed.
// A parent cycle closed by the batch is logged, and the batch stays stored.
func (c *Cache) IngestPeople(records []model.Person) error {
	if records == nil {
		return apperrors.NewInvalidInput("people", "batch is absent")
	}
	for i, p := range records {
		if err := p.Validate(); err != nil {
			return invalidRecord("people", i, err)
		}
	}

	for _, p := range records {
		c.people[p.ID] = p
	}
	c.logger.Debug("People ingested",
		zap.Int("batch", len(records)),
		zap.Int("stored", len(c.people)),
	)
	return c.refreshAfterIngest()
}

// IngestEvents upserts a batch of events by ID, with the same rules as IngestPeople
func (c *Cache) IngestEvents(records []model.Event) error {
	if records == nil {
		return apperrors.NewInvalidInput("events", "batch is absent")
	}
	for i, e := range records {
		if err := e.Validate(); err != nil {
			return invalidRecord("events", i, err)
		}
	}

	for _, e := range records {
		c.events[e.ID] = e
	}
	c.logger.Debug("Events ingested",
		zap.Int("batch", len(records)),
		zap.Int("stored", len(c.events)),
	)
	return c.refreshAfterIngest()
}

func (c *Cache) refreshAfterIngest() error {
	if err := c.refresh(); err != nil {
		if !apperrors.IsErrorType(err, apperrors.ErrorTypeGraph) {
			return err
		}
		c.logger.Warn("Ingested batch closes an ancestor cycle", zap.Error(err))
	}
	return nil
}

func invalidRecord(field string, index int, err error) error {
	in := apperrors.NewInvalidInput(fmt.Sprintf("%s[%d]", field, index), "record rejected")
	in.Err = err
	return in
}

// People returns a copy of every stored person
func (c *Cache) People() map[string]model.Person {
	return maps.Clone(c.people)
}

// Events returns a copy of every stored event
func (c *Cache) Events() map[string]model.Event {
	return maps.Clone(c.events)
}

// Person looks up a stored person by ID
func (c *Cache) Person(id string) (model.Person, bool) {
	p, ok := c.people[id]
	return p, ok
}

// Event looks up a stored event by ID
func (c *Cache) Event(id string) (model.Event, bool) {
	e, ok := c.events[id]
	return e, ok
}

// refresh rebuilds the visible subset after the store changed. Without a
// focal user there is no perspective to filter from, so everything is visible.
func (c *Cache) refresh() error {
	if c.focalUserID == "" {
		c.visiblePeople = maps.Clone(c.people)
		c.visibleEvents = maps.Clone(c.events)
		return nil
	}
	return c.recompute()
}
