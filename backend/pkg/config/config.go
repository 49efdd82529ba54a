package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	apperrors "familymap/backend/pkg/errors"
)

// Data sources the server can load family data from.
const (
	SourceNeo4j   = "neo4j"
	SourceFixture = "fixture"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Data source
	DataSource   string
	FetchTimeout time.Duration

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Fixture
	FixturePath string

	// Colors
	ColorPaletteSize int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		DataSource:       getEnv("DATA_SOURCE", SourceNeo4j),
		FetchTimeout:     time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		Neo4jURI:         getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:        getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:    getEnv("NEO4J_PASSWORD", "password"),
		FixturePath:      getEnv("FIXTURE_PATH", ""),
		ColorPaletteSize: getEnvInt("COLOR_PALETTE_SIZE", 27),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceNeo4j:
		if c.Neo4jURI == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_URI")
		}
		if c.Neo4jUser == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_USER")
		}
		if c.Neo4jPassword == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
		}
	case SourceFixture:
		if c.FixturePath == "" {
			return apperrors.NewConfigMissingRequired("FIXTURE_PATH")
		}
	default:
		return apperrors.NewConfigValidationFailed("DATA_SOURCE", fmt.Sprintf("unknown source %q", c.DataSource))
	}
	if c.ColorPaletteSize < 1 {
		return apperrors.NewConfigValidationFailed("COLOR_PALETTE_SIZE", "must be positive")
	}
	if c.FetchTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("FETCH_TIMEOUT_SECONDS", "must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
