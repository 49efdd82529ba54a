// Package fixture serves family data from a JSON file, for running the
// server without Neo4j.
package fixture

import (
	"context"
	"encoding/json"
	"os"
	"slices"

	"familymap/backend/internal/model"
	apperrors "familymap/backend/pkg/errors"
)

// User maps a login name to the person it represents
type User struct {
	Username string `json:"username"`
	PersonID string `json:"personID"`
}

// File is the on-disk fixture layout
type File struct {
	Users   []User         `json:"users"`
	Persons []model.Person `json:"persons"`
	Events  []model.Event  `json:"events"`
}

// Source answers fetches from a decoded fixture file
type Source struct {
	users   map[string]string
	persons []model.Person
	events  []model.Event
}

// Load reads and decodes a fixture file
func Load(path string) (*Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewFixtureLoadFailed(path, err)
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, apperrors.NewFixtureLoadFailed(path, err)
	}
	return New(f), nil
}

// New builds a source from an already decoded fixture
func New(f File) *Source {
	users := make(map[string]string, len(f.Users))
	for _, u := range f.Users {
		users[u.Username] = u.PersonID
	}
	return &Source{users: users, persons: f.Persons, events: f.Events}
}

// Usernames lists the users in the fixture, sorted
func (s *Source) Usernames() []string {
	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FetchUser returns the person ID a username logs in as
func (s *Source) FetchUser(ctx context.Context, username string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	personID, ok := s.users[username]
	if !ok {
		return "", apperrors.NewNotFound("user", username)
	}
	return personID, nil
}

// FetchPeople returns every person associated with username
func (s *Source) FetchPeople(ctx context.Context, username string) ([]model.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	people := []model.Person{}
	for _, p := range s.persons {
		if p.AssociatedUsername == username {
			people = append(people, p)
		}
	}
	return people, nil
}

// FetchEvents returns every event associated with username
func (s *Source) FetchEvents(ctx context.Context, username string) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events := []model.Event{}
	for _, e := range s.events {
		if e.AssociatedUsername == username {
			events = append(events, e)
		}
	}
	return events, nil
}
