package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"familymap/backend/internal/api"
	"familymap/backend/internal/datacache"
	"familymap/backend/internal/fixture"
	"familymap/backend/internal/graph"
	"familymap/backend/internal/session"
	"familymap/backend/pkg/config"
	"familymap/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting family map server...", zap.String("data_source", cfg.DataSource))

	ctx := context.Background()
	fetcher, closeFetcher, err := newFetcher(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open data source", zap.Error(err))
	}
	defer closeFetcher()

	// Initialize dependencies
	colors := datacache.NewColorTable(cfg.ColorPaletteSize)
	sessions := session.NewManager(fetcher, colors, cfg.FetchTimeout, logger.For("session"))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(sessions, logger.For("api")))

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newFetcher opens the configured data source. The returned func releases it.
func newFetcher(ctx context.Context, cfg *config.Config) (session.Fetcher, func(), error) {
	switch cfg.DataSource {
	case config.SourceFixture:
		source, err := fixture.Load(cfg.FixturePath)
		if err != nil {
			return nil, nil, err
		}
		return source, func() {}, nil

	case config.SourceNeo4j:
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			return nil, nil, err
		}

		// Verify Neo4j connection
		verifyCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
		if err := driver.VerifyConnectivity(verifyCtx); err != nil {
			_ = driver.Close(ctx)
			return nil, nil, err
		}

		repo := graph.NewRepository(driver)
		return repo, func() { _ = repo.Close(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("unsupported data source %q", cfg.DataSource)
}
