package datacache

import (
	"familymap/backend/internal/constants"
	"familymap/backend/internal/model"
	apperrors "familymap/backend/pkg/errors"
)

// Endpoint is one end of a connection line
type Endpoint struct {
	EventID   string  `json:"eventID"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Line connects two visible events. Kind is a line filter label and Color its slot.
type Line struct {
	Kind  string   `json:"kind"`
	From  Endpoint `json:"from"`
	To    Endpoint `json:"to"`
	Width int      `json:"width"`
	Color string   `json:"color"`
}

func endpoint(e model.Event) Endpoint {
	return Endpoint{EventID: e.ID, Latitude: e.Latitude, Longitude: e.Longitude}
}

// Lines returns the connection lines for a selected visible event, limited to
// the active line filters and to events in the visible subset:
//   - life_story joins consecutive events of the owner's timeline
//   - family_tree joins the event to each parent's first event, then recurses
//     from there with a thinner line per generation
//   - spouse joins the event to the spouse's first event
func (c *Cache) Lines(eventID string) ([]Line, error) {
	selected, ok := c.visibleEvents[eventID]
	if !ok {
		return nil, apperrors.NewNotFound("visible event", eventID)
	}

	lines := []Line{}
	person, ok := c.people[selected.PersonID]
	if !ok {
		return lines, nil
	}

	if c.HasLineFilter(constants.LineLifeStory) {
		story := timeline(c.visibleEvents, person.ID)
		for i := 0; i+1 < len(story); i++ {
			lines = append(lines, c.line(constants.LineLifeStory, story[i], story[i+1], constants.DefaultLineWidth))
		}
	}

	var err error
	if c.HasLineFilter(constants.LineFamilyTree) {
		onPath := map[string]bool{person.ID: true}
		err = c.familyTreeLines(&lines, selected, person, constants.DefaultLineWidth, onPath)
	}

	if c.HasLineFilter(constants.LineSpouse) && person.SpouseID != "" {
		if spouseEvents := timeline(c.visibleEvents, person.SpouseID); len(spouseEvents) > 0 {
			lines = append(lines, c.line(constants.LineSpouse, selected, spouseEvents[0], constants.DefaultLineWidth))
		}
	}

	return lines, err
}

func (c *Cache) familyTreeLines(lines *[]Line, from model.Event, person model.Person, width int, onPath map[string]bool) error {
	var firstErr error
	for _, parentID := range []string{person.MotherID, person.FatherID} {
		parent, ok := c.people[parentID]
		if !ok {
			continue
		}
		if onPath[parentID] {
			if firstErr == nil {
				firstErr = apperrors.NewCycleDetected(parentID)
			}
			continue
		}
		parentEvents := timeline(c.visibleEvents, parentID)
		if len(parentEvents) == 0 {
			continue
		}

		*lines = append(*lines, c.line(constants.LineFamilyTree, from, parentEvents[0], width))

		onPath[parentID] = true
		err := c.familyTreeLines(lines, parentEvents[0], parent, max(width-constants.GenerationWidthStep, constants.MinLineWidth), onPath)
		delete(onPath, parentID)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Cache) line(kind string, from, to model.Event, width int) Line {
	return Line{
		Kind:  kind,
		From:  endpoint(from),
		To:    endpoint(to),
		Width: width,
		Color: c.colors.ColorFor(kind),
	}
}
