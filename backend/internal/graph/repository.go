package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"familymap/backend/internal/model"
	apperrors "familymap/backend/pkg/errors"
	"familymap/backend/pkg/logger"
)

// Repository reads and writes family data in Neo4j.
//
// Schema:
//
//	(:User   {username, person_id})
//	(:Person {id, associated_username, first_name, last_name, gender, father_id, mother_id, spouse_id})
//	(:Event  {id, associated_username, person_id, event_type, year, city, country, latitude, longitude})
//	(:Event)-[:EVENT_OF]->(:Person)
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.For("graph"),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// FetchUser returns the person ID a username logs in as
func (r *Repository) FetchUser(ctx context.Context, username string) (string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {username: $username})
		RETURN u.person_id AS person_id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"username": username,
	})
	if err != nil {
		return "", apperrors.NewGraphQueryFailed("fetch user", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return "", apperrors.NewGraphQueryFailed("fetch user", err)
		}
		return "", apperrors.NewNotFound("user", username)
	}

	personID := getStringFromRecord(result.Record(), "person_id")
	if personID == "" {
		return "", apperrors.NewNotFound("person for user", username)
	}
	return personID, nil
}

// FetchPeople returns every person associated with username
func (r *Repository) FetchPeople(ctx context.Context, username string) ([]model.Person, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (p:Person {associated_username: $username})
		RETURN p.id AS id,
		       p.associated_username AS associated_username,
		       p.first_name AS first_name,
		       p.last_name AS last_name,
		       p.gender AS gender,
		       p.father_id AS father_id,
		       p.mother_id AS mother_id,
		       p.spouse_id AS spouse_id
		ORDER BY p.id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"username": username,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("fetch people", err)
	}

	people := []model.Person{}
	for result.Next(ctx) {
		people = append(people, personFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("fetch people", err)
	}

	r.logger.Debug("People fetched",
		zap.String("username", username),
		zap.Int("count", len(people)),
	)
	return people, nil
}

// FetchEvents returns every event associated with username
func (r *Repository) FetchEvents(ctx context.Context, username string) ([]model.Event, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (e:Event {associated_username: $username})
		RETURN e.id AS id,
		       e.associated_username AS associated_username,
		       e.person_id AS person_id,
		       e.event_type AS event_type,
		       e.year AS year,
		       e.city AS city,
		       e.country AS country,
		       e.latitude AS latitude,
		       e.longitude AS longitude
		ORDER BY e.id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"username": username,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("fetch events", err)
	}

	events := []model.Event{}
	for result.Next(ctx) {
		events = append(events, eventFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("fetch events", err)
	}

	r.logger.Debug("Events fetched",
		zap.String("username", username),
		zap.Int("count", len(events)),
	)
	return events, nil
}

// SaveUser creates or repoints a user at a person
func (r *Repository) SaveUser(ctx context.Context, username, personID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (u:User {username: $username})
		SET u.person_id = $personID
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"username": username,
		"personID": personID,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("save user", err)
	}
	return nil
}

// SavePeople upserts people by ID
func (r *Repository) SavePeople(ctx context.Context, people []model.Person) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		UNWIND $people AS row
		MERGE (p:Person {id: row.id})
		SET p += row
	`

	rows := make([]map[string]interface{}, 0, len(people))
	for _, p := range people {
		rows = append(rows, personParams(p))
	}

	_, err := session.Run(ctx, query, map[string]interface{}{
		"people": rows,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("save people", err)
	}

	r.logger.Info("People saved", zap.Int("count", len(people)))
	return nil
}

// SaveEvents upserts events by ID and links each to its owner
func (r *Repository) SaveEvents(ctx context.Context, events []model.Event) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		UNWIND $events AS row
		MERGE (e:Event {id: row.id})
		SET e += row
		WITH e, row
		OPTIONAL MATCH (p:Person {id: row.person_id})
		FOREACH (_ IN CASE WHEN p IS NULL THEN [] ELSE [1] END |
			MERGE (e)-[:EVENT_OF]->(p)
		)
	`

	rows := make([]map[string]interface{}, 0, len(events))
	for _, e := range events {
		rows = append(rows, eventParams(e))
	}

	_, err := session.Run(ctx, query, map[string]interface{}{
		"events": rows,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("save events", err)
	}

	r.logger.Info("Events saved", zap.Int("count", len(events)))
	return nil
}

// DeleteUserData removes a user and every person and event associated with them
func (r *Repository) DeleteUserData(ctx context.Context, username string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	queries := []string{
		`MATCH (e:Event {associated_username: $username}) DETACH DELETE e`,
		`MATCH (p:Person {associated_username: $username}) DETACH DELETE p`,
		`MATCH (u:User {username: $username}) DETACH DELETE u`,
	}
	for _, query := range queries {
		if _, err := session.Run(ctx, query, map[string]interface{}{"username": username}); err != nil {
			return apperrors.NewGraphQueryFailed("delete user data", err)
		}
	}

	r.logger.Info("User data deleted", zap.String("username", username))
	return nil
}

// CreateConstraints creates the uniqueness constraints the schema relies on
func (r *Repository) CreateConstraints(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	constraints := []string{
		`CREATE CONSTRAINT user_username IF NOT EXISTS FOR (u:User) REQUIRE u.username IS UNIQUE`,
		`CREATE CONSTRAINT person_id IF NOT EXISTS FOR (p:Person) REQUIRE p.id IS UNIQUE`,
		`CREATE CONSTRAINT event_id IF NOT EXISTS FOR (e:Event) REQUIRE e.id IS UNIQUE`,
		`CREATE INDEX person_username IF NOT EXISTS FOR (p:Person) ON (p.associated_username)`,
		`CREATE INDEX event_username IF NOT EXISTS FOR (e:Event) ON (e.associated_username)`,
	}
	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return apperrors.NewGraphQueryFailed(c, err)
		}
	}
	return nil
}
