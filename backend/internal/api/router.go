// Package api exposes sessions over HTTP for the presentation layer.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"familymap/backend/internal/session"
	"familymap/backend/pkg/logger"
)

// Handler serves the session API
type Handler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(sessions *session.Manager, log *zap.Logger) *Handler {
	if log == nil {
		log = logger.For("api")
	}
	return &Handler{sessions: sessions, logger: log}
}

// NewRouter builds the gin engine with logging, recovery and CORS middleware
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(h.logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	h.Register(router)
	return router
}

// Register mounts every route on router
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/health", h.health)

	api := router.Group("/api")
	{
		api.GET("/colors/:label", h.color)

		api.POST("/sessions", h.login)
		api.DELETE("/sessions/:id", h.logout)

		s := api.Group("/sessions/:id")
		{
			s.GET("/people", h.listPeople)
			s.GET("/events", h.listEvents)
			s.GET("/visible/people", h.listVisiblePeople)
			s.GET("/visible/events", h.listVisibleEvents)

			s.GET("/people/:personID", h.getPerson)
			s.GET("/people/:personID/timeline", h.timeline)
			s.GET("/people/:personID/family", h.family)
			s.GET("/people/:personID/ancestors", h.ancestors)

			s.GET("/events/:eventID", h.getEvent)
			s.GET("/events/:eventID/lines", h.lines)

			s.GET("/search/people", h.searchPeople)
			s.GET("/search/events", h.searchEvents)

			s.GET("/filters", h.filters)
			s.PUT("/filters/events/:label", h.setEventFilter)
			s.PUT("/filters/lines/:label", h.setLineFilter)

			s.GET("/updates", h.updates)
			s.POST("/updates/ack", h.acknowledge)
		}
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
