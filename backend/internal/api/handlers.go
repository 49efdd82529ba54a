package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"familymap/backend/internal/datacache"
	"familymap/backend/internal/model"
	apperrors "familymap/backend/pkg/errors"
)

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.sessions.Count()})
}

func (h *Handler) color(c *gin.Context) {
	label := c.Param("label")
	c.JSON(http.StatusOK, gin.H{"label": label, "color": h.sessions.Colors().ColorFor(label)})
}

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.sessions.Login(c.Request.Context(), req.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": s.ID,
		"username":   s.Username,
		"person_id":  s.PersonID,
	})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listPeople(c *gin.Context) {
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		return gin.H{"people": sortedPeople(cache.People())}, nil
	})
}

func (h *Handler) listEvents(c *gin.Context) {
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		return gin.H{"events": sortedEvents(cache.Events())}, nil
	})
}

func (h *Handler) listVisiblePeople(c *gin.Context) {
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		return gin.H{"people": sortedPeople(cache.VisiblePeople())}, nil
	})
}

func (h *Handler) listVisibleEvents(c *gin.Context) {
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		events := sortedEvents(cache.VisibleEvents())
		colors := make(map[string]string, len(events))
		for _, e := range events {
			colors[e.ID] = cache.ColorFor(e.EventType)
		}
		return gin.H{"events": events, "colors": colors}, nil
	})
}

func (h *Handler) getPerson(c *gin.Context) {
	personID := c.Param("personID")
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		p, ok := cache.Person(personID)
		if !ok {
			return nil, apperrors.NewNotFound("person", personID)
		}
		return gin.H{"person": p, "full_name": cache.PersonFullName(personID)}, nil
	})
}

func (h *Handler) timeline(c *gin.Context) {
	personID := c.Param("personID")
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		events := cache.LifeEvents(personID)
		details := make([]string, len(events))
		for i, e := range events {
			details[i] = cache.EventDetails(e.ID)
		}
		return gin.H{"events": events, "details": details}, nil
	})
}

func (h *Handler) family(c *gin.Context) {
	personID := c.Param("personID")
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		return gin.H{"people": cache.Family(personID)}, nil
	})
}

func (h *Handler) ancestors(c *gin.Context) {
	personID := c.Param("personID")
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		people, err := cache.Ancestors(personID)
		body := gin.H{"people": people}
		if err != nil {
			body["warning"] = err.Error()
		}
		return body, nil
	})
}

func (h *Handler) getEvent(c *gin.Context) {
	eventID := c.Param("eventID")
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		e, ok := cache.Event(eventID)
		if !ok {
			return nil, apperrors.NewNotFound("event", eventID)
		}
		return gin.H{
			"event":     e,
			"details":   cache.EventDetails(eventID),
			"full_name": cache.PersonFullName(e.PersonID),
			"color":     cache.ColorFor(e.EventType),
		}, nil
	})
}

func (h *Handler) lines(c *gin.Context) {
	eventID := c.Param("eventID")
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		lines, err := cache.Lines(eventID)
		if err != nil && !apperrors.IsErrorType(err, apperrors.ErrorTypeGraph) {
			return nil, err
		}
		body := gin.H{"lines": lines}
		if err != nil {
			body["warning"] = err.Error()
		}
		return body, nil
	})
}

func (h *Handler) searchPeople(c *gin.Context) {
	query := queryParam(c, "q")
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		people, err := cache.SearchPeople(query)
		if err != nil {
			return nil, err
		}
		return gin.H{"people": people}, nil
	})
}

func (h *Handler) searchEvents(c *gin.Context) {
	query := queryParam(c, "q")
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		events, err := cache.SearchEvents(query)
		if err != nil {
			return nil, err
		}
		return gin.H{"events": events}, nil
	})
}

func (h *Handler) filters(c *gin.Context) {
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		return filterBody(cache), nil
	})
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (h *Handler) setEventFilter(c *gin.Context) {
	h.setFilter(c, (*datacache.Cache).SetEventFilter)
}

func (h *Handler) setLineFilter(c *gin.Context) {
	h.setFilter(c, (*datacache.Cache).SetLineFilter)
}

func (h *Handler) setFilter(c *gin.Context, set func(*datacache.Cache, string, bool) error) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	label := c.Param("label")

	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		err := set(cache, label, *req.Enabled)
		if err != nil && !apperrors.IsErrorType(err, apperrors.ErrorTypeGraph) {
			return nil, err
		}
		body := filterBody(cache)
		if err != nil {
			body["warning"] = err.Error()
		}
		return body, nil
	})
}

func (h *Handler) updates(c *gin.Context) {
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		return gin.H{
			"events_up_to_date": cache.EventsUpToDate(),
			"lines_up_to_date":  cache.LinesUpToDate(),
		}, nil
	})
}

func (h *Handler) acknowledge(c *gin.Context) {
	h.withCache(c, func(cache *datacache.Cache) (any, error) {
		cache.AcknowledgeUpdate()
		return gin.H{"events_up_to_date": true, "lines_up_to_date": true}, nil
	})
}

// Helpers

// withCache runs fn against the session's cache under the session lock and writes its result
func (h *Handler) withCache(c *gin.Context, fn func(cache *datacache.Cache) (any, error)) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var body any
	err = s.Do(func(cache *datacache.Cache) error {
		var err error
		body, err = fn(cache)
		return err
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsInvalidInput(err):
		status = http.StatusBadRequest
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case apperrors.IsErrorType(err, apperrors.ErrorTypeGraph),
		apperrors.IsErrorType(err, apperrors.ErrorTypeFixture):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// queryParam distinguishes an absent parameter (nil) from an empty one
func queryParam(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	return &v
}

func filterBody(cache *datacache.Cache) gin.H {
	return gin.H{
		"event_filters": cache.EventFilters(),
		"line_filters":  cache.LineFilters(),
	}
}

func sortedPeople(people map[string]model.Person) []model.Person {
	out := make([]model.Person, 0, len(people))
	for _, p := range people {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b model.Person) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func sortedEvents(events map[string]model.Event) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b model.Event) int { return strings.Compare(a.ID, b.ID) })
	return out
}
