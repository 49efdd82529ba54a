package graph

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familymap/backend/internal/model"
	apperrors "familymap/backend/pkg/errors"
)

func TestPersonFromRecord(t *testing.T) {
	record := &neo4j.Record{
		Keys:   []string{"id", "associated_username", "first_name", "last_name", "gender", "father_id", "mother_id", "spouse_id"},
		Values: []any{"p1", "sheila", "Sheila", "Parker", "f", "p2", nil, "p4"},
	}

	assert.Equal(t, model.Person{
		ID:                 "p1",
		AssociatedUsername: "sheila",
		FirstName:          "Sheila",
		LastName:           "Parker",
		Gender:             model.GenderFemale,
		FatherID:           "p2",
		SpouseID:           "p4",
	}, personFromRecord(record))
}

func TestEventFromRecord(t *testing.T) {
	record := &neo4j.Record{
		Keys:   []string{"id", "associated_username", "person_id", "event_type", "year", "city", "country", "latitude", "longitude"},
		Values: []any{"e1", "sheila", "p1", "Birth", int64(1970), "Melbourne", "Australia", -36.1, int64(144)},
	}

	assert.Equal(t, model.Event{
		ID:                 "e1",
		AssociatedUsername: "sheila",
		PersonID:           "p1",
		EventType:          "Birth",
		Year:               1970,
		City:               "Melbourne",
		Country:            "Australia",
		Latitude:           -36.1,
		Longitude:          144,
	}, eventFromRecord(record))
}

func TestPersonParams_OmitsAbsentRelatives(t *testing.T) {
	params := personParams(model.Person{ID: "p1", Gender: model.GenderMale, MotherID: "p3"})

	assert.Equal(t, "p3", params["mother_id"])
	assert.NotContains(t, params, "father_id")
	assert.NotContains(t, params, "spouse_id")
	assert.Equal(t, "m", params["gender"])
}

// The tests below require a running Neo4j instance.
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables.
func TestRepository_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Skipf("Neo4j not available: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	username := "test-user-" + time.Now().Format("20060102150405")
	defer func() {
		_ = repo.DeleteUserData(ctx, username)
	}()

	people := []model.Person{
		{ID: username + "-me", AssociatedUsername: username, FirstName: "Me", LastName: "Test", Gender: model.GenderFemale, MotherID: username + "-mum"},
		{ID: username + "-mum", AssociatedUsername: username, FirstName: "Mum", LastName: "Test", Gender: model.GenderFemale},
	}
	events := []model.Event{
		{ID: username + "-birth", AssociatedUsername: username, PersonID: username + "-me", EventType: "Birth", Year: 1999, City: "Provo", Country: "USA", Latitude: 40.2, Longitude: -111.6},
	}

	require.NoError(t, repo.SavePeople(ctx, people))
	require.NoError(t, repo.SaveEvents(ctx, events))
	require.NoError(t, repo.SaveUser(ctx, username, username+"-me"))

	personID, err := repo.FetchUser(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, username+"-me", personID)

	gotPeople, err := repo.FetchPeople(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, []model.Person{people[0], people[1]}, gotPeople)

	gotEvents, err := repo.FetchEvents(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, events, gotEvents)
}

func TestRepository_FetchUser_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Skipf("Neo4j not available: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	_, err = repo.FetchUser(ctx, "non-existent-user")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := getenv("NEO4J_URI", "bolt://localhost:7687")
	user := getenv("NEO4J_USER", "neo4j")
	password := getenv("NEO4J_PASSWORD", "password")

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
