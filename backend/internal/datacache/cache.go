// Package datacache holds one session's people and events, the filtered view
// derived from them, and the queries the presentation layer runs against both.
//
// A Cache does no locking. Callers must serialise access to it; the session
// package does this with one mutex per session.
package datacache

import (
	"maps"

	"go.uber.org/zap"

	"familymap/backend/internal/constants"
	"familymap/backend/internal/model"
	"familymap/backend/pkg/logger"
)

// UpdateKind names what changed when observers are notified
type UpdateKind string

const (
	UpdateEvents UpdateKind = "events"
	UpdateLines  UpdateKind = "lines"
)

// Update is delivered to observers after the visible subset is recomputed or
// a line filter changes.
type Update struct {
	Kind          UpdateKind
	VisiblePeople int
	VisibleEvents int
}

// Cache is the data cache of one logged-in session
type Cache struct {
	logger *zap.Logger
	colors *ColorTable

	people map[string]model.Person
	events map[string]model.Event

	visiblePeople map[string]model.Person
	visibleEvents map[string]model.Event

	eventFilters []string
	lineFilters  []string

	focalUserID    string
	loggedIn       bool
	eventsUpToDate bool
	linesUpToDate  bool

	observers []func(Update)
}

// New creates an empty cache. colors is shared between sessions; nil gets a
// private table with the default palette. A nil log falls back to the process logger.
func New(colors *ColorTable, log *zap.Logger) *Cache {
	if colors == nil {
		colors = NewColorTable(constants.DefaultPaletteSize)
	}
	if log == nil {
		log = logger.For("datacache")
	}
	c := &Cache{
		logger: log,
		colors: colors,
	}
	c.reset()
	return c
}

func (c *Cache) reset() {
	c.people = make(map[string]model.Person)
	c.events = make(map[string]model.Event)
	c.visiblePeople = make(map[string]model.Person)
	c.visibleEvents = make(map[string]model.Event)
	c.eventFilters = constants.DefaultEventFilters()
	c.lineFilters = constants.DefaultLineFilters()
	c.focalUserID = ""
	c.loggedIn = false
	c.eventsUpToDate = true
	c.linesUpToDate = true
}

// Clear empties the store and the visible subset and restores session-start
// filters, flags and focal user. The color table is left alone.
func (c *Cache) Clear() {
	c.reset()
	c.logger.Debug("Cache cleared")
}

// Login marks the session as logged in
func (c *Cache) Login() {
	c.loggedIn = true
}

// Logout marks the session as logged out and clears the cache
func (c *Cache) Logout() {
	c.Clear()
}

// IsLoggedIn reports whether Login ran since the last Logout
func (c *Cache) IsLoggedIn() bool {
	return c.loggedIn
}

// FocalUser returns the focal user, if one is set and still stored
func (c *Cache) FocalUser() (model.Person, bool) {
	if c.focalUserID == "" {
		return model.Person{}, false
	}
	p, ok := c.people[c.focalUserID]
	return p, ok
}

// Colors returns the color table this cache assigns from
func (c *Cache) Colors() *ColorTable {
	return c.colors
}

// ColorFor returns the color slot for an event type or line kind
func (c *Cache) ColorFor(label string) string {
	return c.colors.ColorFor(label)
}

// VisiblePeople returns a copy of the people passing the current filters
func (c *Cache) VisiblePeople() map[string]model.Person {
	return maps.Clone(c.visiblePeople)
}

// VisibleEvents returns a copy of the events passing the current filters
func (c *Cache) VisibleEvents() map[string]model.Event {
	return maps.Clone(c.visibleEvents)
}

// Observe registers fn to be called after every recomputation and line filter change
func (c *Cache) Observe(fn func(Update)) {
	if fn != nil {
		c.observers = append(c.observers, fn)
	}
}

func (c *Cache) notify(kind UpdateKind) {
	u := Update{
		Kind:          kind,
		VisiblePeople: len(c.visiblePeople),
		VisibleEvents: len(c.visibleEvents),
	}
	for _, fn := range c.observers {
		fn(u)
	}
}
