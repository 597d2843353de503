/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll engine HTTP server.
  Handles configuration, rule book seeding, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (environment, .env), then apply flag overrides
  2. Initialize SQLite store
  3. Seed deduction rules (see RULE BOOK below)
  4. Create API handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: PAYROLL_PORT or 8080)
  -db      SQLite database path (default: PAYROLL_DB_PATH or payroll.db)
           Use ":memory:" for in-memory database
  -rules   Rule book to import: .json, .yaml, or a directory holding the
           XML files (default: PAYROLL_RULES_PATH)

RULE BOOK:
  If -rules is set, its contents replace whatever the database holds.
  Otherwise an empty database is seeded with the built-in rule book and a
  populated one is left alone.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/payroll.db"

  # Run with in-memory database and a custom rule book
  ./server -db=":memory:" -rules=./rules.yaml

ENVIRONMENT:
  PAYROLL_PORT, PAYROLL_DB_PATH, PAYROLL_RULES_PATH, PAYROLL_LOG_LEVEL,
  PAYROLL_ALLOWED_ORIGINS. See config/config.go.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Flags
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	rulesPath := flag.String("rules", cfg.RulesPath, "Rule book file or XML directory to import")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer store.Close()

	if err := seedRules(context.Background(), store, *rulesPath, logger); err != nil {
		logger.Error("Failed to load rule book", "error", err)
		store.Close()
		os.Exit(1)
	}

	handler := api.NewHandler(store, logger)
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", "addr", fmt.Sprintf("http://localhost:%d", *port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		return
	}

	logger.Info("Server stopped")
}

// seedRules imports the rule book at path, or the built-in one if path is
// empty and the database holds no rules yet.
func seedRules(ctx context.Context, store *sqlite.Store, path string, logger *slog.Logger) error {
	if path == "" {
		empty, err := store.IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			logger.Info("Using rules already in database")
			return nil
		}
	}

	book, err := factory.LoadOrDefault(path)
	if err != nil {
		return err
	}
	if err := store.ImportRuleBook(ctx, book); err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "built-in"
	}
	logger.Info("Imported rule book", "source", source, "locations", len(book.Locations))
	return nil
}
