package datacache

import (
	"slices"
	"strconv"
	"strings"

	"familymap/backend/internal/model"
	apperrors "familymap/backend/pkg/errors"
)

// SearchPeople matches query, case-insensitively, against first and last
// names across the full store. A nil query is an input error; a blank one
// matches nothing.
func (c *Cache) SearchPeople(query *string) ([]model.Person, error) {
	q, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	found := []model.Person{}
	if q == "" {
		return found, nil
	}
	for _, p := range c.people {
		if containsFold(p.FirstName, q) || containsFold(p.LastName, q) {
			found = append(found, p)
		}
	}
	slices.SortFunc(found, byPersonID)
	return found, nil
}

// SearchEvents matches query against event type, country, city and the
// decimal year across the full store, with the same query rules as SearchPeople.
func (c *Cache) SearchEvents(query *string) ([]model.Event, error) {
	q, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	found := []model.Event{}
	if q == "" {
		return found, nil
	}
	for _, e := range c.events {
		if containsFold(e.EventType, q) ||
			containsFold(e.Country, q) ||
			containsFold(e.City, q) ||
			strings.Contains(strconv.Itoa(e.Year), q) {
			found = append(found, e)
		}
	}
	slices.SortFunc(found, byEventID)
	return found, nil
}

func normalizeQuery(query *string) (string, error) {
	if query == nil {
		return "", apperrors.NewInvalidInput("query", "search text is absent")
	}
	if strings.TrimSpace(*query) == "" {
		return "", nil
	}
	return strings.ToLower(*query), nil
}

// containsFold expects needle already lower-cased
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
