// Package session owns one data cache per logged-in user and serialises
// access to each of them.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"familymap/backend/internal/datacache"
	"familymap/backend/internal/model"
	apperrors "familymap/backend/pkg/errors"
	"familymap/backend/pkg/logger"
)

// Fetcher loads one user's family data. Implemented by graph.Repository and fixture.Source.
type Fetcher interface {
	FetchUser(ctx context.Context, username string) (string, error)
	FetchPeople(ctx context.Context, username string) ([]model.Person, error)
	FetchEvents(ctx context.Context, username string) ([]model.Event, error)
}

// Session is one logged-in user and their cache
type Session struct {
	ID        string
	Username  string
	PersonID  string
	CreatedAt time.Time

	mu    sync.Mutex
	cache *datacache.Cache
}

// Do runs fn with exclusive access to the session's cache
func (s *Session) Do(fn func(c *datacache.Cache) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.cache)
}

// Manager creates, looks up and ends sessions
type Manager struct {
	fetcher Fetcher
	colors  *datacache.ColorTable
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. Every session assigns colors from the shared table.
func NewManager(fetcher Fetcher, colors *datacache.ColorTable, timeout time.Duration, log *zap.Logger) *Manager {
	if log == nil {
		log = logger.For("session")
	}
	return &Manager{
		fetcher:  fetcher,
		colors:   colors,
		timeout:  timeout,
		logger:   log,
		sessions: make(map[string]*Session),
	}
}

// Colors returns the table shared by all sessions
func (m *Manager) Colors() *datacache.ColorTable {
	return m.colors
}

// Login fetches a user's people and events, loads them into a fresh cache
// anchored on the user's person, and registers the session.
func (m *Manager) Login(ctx context.Context, username string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.NewInvalidInput("username", "cannot be empty")
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	personID, err := m.fetcher.FetchUser(ctx, username)
	if err != nil {
		return nil, err
	}

	var (
		people []model.Person
		events []model.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		people, err = m.fetcher.FetchPeople(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = m.fetcher.FetchEvents(gctx, username)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cache := datacache.New(m.colors, m.logger.Named("cache").With(zap.String("username", username)))
	if err := cache.IngestPeople(people); err != nil {
		return nil, err
	}
	if err := cache.IngestEvents(events); err != nil {
		return nil, err
	}
	if err := cache.SetFocalUser(personID); err != nil {
		if !apperrors.IsErrorType(err, apperrors.ErrorTypeGraph) {
			return nil, err
		}
		// A parent cycle only cuts one branch of the view; the session stays usable.
		m.logger.Warn("Family data contains an ancestor cycle",
			zap.String("username", username),
			zap.Error(err),
		)
	}
	cache.Login()

	s := &Session{
		ID:        uuid.NewString(),
		Username:  username,
		PersonID:  personID,
		CreatedAt: time.Now(),
		cache:     cache,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("Session started",
		zap.String("session_id", s.ID),
		zap.String("username", username),
		zap.Int("people", len(people)),
		zap.Int("events", len(events)),
	)
	return s, nil
}

// Get returns a live session
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewNotFound("session", id)
	}
	return s, nil
}

// Logout ends a session and clears its cache
func (m *Manager) Logout(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return apperrors.NewNotFound("session", id)
	}

	_ = s.Do(func(c *datacache.Cache) error {
		c.Logout()
		return nil
	})
	m.logger.Info("Session ended",
		zap.String("session_id", id),
		zap.String("username", s.Username),
	)
	return nil
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
