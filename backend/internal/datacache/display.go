package datacache

import (
	"fmt"

	"familymap/backend/internal/constants"
)

// PersonFullName returns "First Last", or the placeholder for an unknown ID
func (c *Cache) PersonFullName(personID string) string {
	p, ok := c.people[personID]
	if !ok {
		return constants.Placeholder
	}
	return p.FullName()
}

// EventDetails returns "Type: City, Country (Year)", or the placeholder for an unknown ID
func (c *Cache) EventDetails(eventID string) string {
	e, ok := c.events[eventID]
	if !ok {
		return constants.Placeholder
	}
	return fmt.Sprintf("%s: %s, %s (%d)", e.EventType, e.City, e.Country, e.Year)
}
