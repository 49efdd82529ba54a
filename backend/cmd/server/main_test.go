package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familymap/backend/internal/fixture"
	"familymap/backend/pkg/config"
	apperrors "familymap/backend/pkg/errors"
)

func TestNewFetcher_Fixture(t *testing.T) {
	cfg := &config.Config{
		DataSource:   config.SourceFixture,
		FixturePath:  "../../internal/fixture/testdata/family.json",
		FetchTimeout: time.Second,
	}

	fetcher, closeFetcher, err := newFetcher(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFetcher()

	assert.IsType(t, &fixture.Source{}, fetcher)

	personID, err := fetcher.FetchUser(context.Background(), "sheila")
	require.NoError(t, err)
	assert.Equal(t, "sheila_parker", personID)
}

func TestNewFetcher_MissingFixture(t *testing.T) {
	cfg := &config.Config{
		DataSource:  config.SourceFixture,
		FixturePath: "does-not-exist.json",
	}

	_, _, err := newFetcher(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeFixture))
}

func TestNewFetcher_UnsupportedSource(t *testing.T) {
	_, _, err := newFetcher(context.Background(), &config.Config{DataSource: "carrier-pigeon"})
	assert.Error(t, err)
}
