package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"familymap/backend/internal/fixture"
	"familymap/backend/internal/graph"
	"familymap/backend/pkg/config"
	"familymap/backend/pkg/logger"
	apperrors "familymap/backend/pkg/errors"
)

func main() {
	fixturePath := flag.String("fixture", "backend/internal/fixture/testdata/family.json", "Fixture file to seed from")
	username := flag.String("username", "", "Seed only this user (default: every user in the fixture)")
	force := flag.Bool("force", false, "Replace users that already exist")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...", zap.String("fixture", *fixturePath))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	source, err := fixture.Load(*fixturePath)
	if err != nil {
		log.Fatal("Failed to load fixture", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	repo := graph.NewRepository(driver)

	log.Info("Creating constraints...")
	if err := repo.CreateConstraints(ctx); err != nil {
		log.Warn("Failed to create some constraints (may already exist)", zap.Error(err))
	}

	usernames := source.Usernames()
	if *username != "" {
		usernames = []string{*username}
	}

	for _, name := range usernames {
		if err := seedUser(ctx, repo, source, name, *force); err != nil {
			log.Fatal("Failed to seed user", zap.String("username", name), zap.Error(err))
		}
	}

	log.Info("Seed completed", zap.Int("users", len(usernames)))
}

// seedUser copies one user's people and events from the fixture into Neo4j
func seedUser(ctx context.Context, repo *graph.Repository, source *fixture.Source, username string, force bool) error {
	log := logger.Get()

	personID, err := source.FetchUser(ctx, username)
	if err != nil {
		return err
	}

	// Check if user already exists
	_, err = repo.FetchUser(ctx, username)
	switch {
	case err == nil && !force:
		log.Info("User already exists, skipping (use -force to recreate)", zap.String("username", username))
		return nil
	case err == nil:
		if err := repo.DeleteUserData(ctx, username); err != nil {
			return err
		}
	case !apperrors.IsNotFound(err):
		return err
	}

	people, err := source.FetchPeople(ctx, username)
	if err != nil {
		return err
	}
	events, err := source.FetchEvents(ctx, username)
	if err != nil {
		return err
	}

	if err := repo.SavePeople(ctx, people); err != nil {
		return err
	}
	if err := repo.SaveEvents(ctx, events); err != nil {
		return err
	}
	if err := repo.SaveUser(ctx, username, personID); err != nil {
		return err
	}

	log.Info("User seeded",
		zap.String("username", username),
		zap.String("person_id", personID),
		zap.Int("people", len(people)),
		zap.Int("events", len(events)),
	)
	return nil
}
