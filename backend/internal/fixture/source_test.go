package fixture

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "familymap/backend/pkg/errors"
)

func TestLoad(t *testing.T) {
	src, err := Load(filepath.Join("testdata", "family.json"))
	require.NoError(t, err)

	ctx := context.Background()
	personID, err := src.FetchUser(ctx, "sheila")
	require.NoError(t, err)
	assert.Equal(t, "sheila_parker", personID)

	people, err := src.FetchPeople(ctx, "sheila")
	require.NoError(t, err)
	assert.Len(t, people, 4)

	events, err := src.FetchEvents(ctx, "sheila")
	require.NoError(t, err)
	assert.Len(t, events, 6)
	assert.Equal(t, -36.1033, events[0].Latitude)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.json"))
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeFixture))
}

func TestFetchUser_Unknown(t *testing.T) {
	src := New(File{})

	_, err := src.FetchUser(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFetch_CancelledContext(t *testing.T) {
	src := New(File{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.FetchPeople(ctx, "sheila")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_UnknownUserHasNoData(t *testing.T) {
	src, err := Load(filepath.Join("testdata", "family.json"))
	require.NoError(t, err)

	people, err := src.FetchPeople(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, people)
	assert.Empty(t, people)
}

func TestUsernames(t *testing.T) {
	src := New(File{Users: []User{
		{Username: "zoe", PersonID: "z"},
		{Username: "abe", PersonID: "a"},
	}})

	assert.Equal(t, []string{"abe", "zoe"}, src.Usernames())
	assert.Empty(t, New(File{}).Usernames())
}
