/*
main.go - Application entry point

PURPOSE:

	Initializes and starts the work-time cost engine server.
	Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
 1. Load configuration (TOML file, .env, environment)
 2. Apply command-line flag overrides
 3. Initialize SQLite store
 4. Build the attribution engine with configured defaults and labels
 5. Optionally load a demo scenario
 6. Configure HTTP router and start server with graceful shutdown

COMMAND-LINE FLAGS:

	-config    TOML config path (default: workcost.toml, skipped when missing)
	-port      HTTP server port (overrides config)
	-db        SQLite database path (overrides config)
	           Use ":memory:" for in-memory database
	-scenario  Demo scenario to load at startup (resets the database)

ENVIRONMENT:

	WORKCOST_PORT, WORKCOST_DB, WORKCOST_CORS_ORIGINS,
	WORKCOST_DEFAULT_WORKING_DAYS; also read from .env when present.

GRACEFUL SHUTDOWN:

	On SIGINT/SIGTERM:
	1. Stop accepting new connections
	2. Wait for active requests to complete (30s timeout)
	3. Close database connection
	4. Exit

EXAMPLES:

	# Run with file database
	./server -db="./data/workcost.db"

	# Demo with in-memory database
	./server -db=":memory:" -scenario=consulting-team

SEE ALSO:
  - config/config.go: Configuration layers
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/workcost-engine/api"
	"github.com/warp/workcost-engine/config"
	"github.com/warp/workcost-engine/store/sqlite"
	"github.com/warp/workcost-engine/worktime"
)

func main() {
	// Flags
	configPath := flag.String("config", "workcost.toml", "TOML config path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	scenario := flag.String("scenario", "", "Demo scenario to load at startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize engine and handler
	engine := worktime.NewEngine(store)
	engine.Defaults = cfg.CalendarDefaults()
	engine.Labels = cfg.EngineLabels()

	handler := api.NewHandler(store, engine)

	if *scenario != "" {
		if err := handler.LoadScenarioByID(context.Background(), *scenario); err != nil {
			log.Fatalf("Failed to load scenario: %v", err)
		}
	}

	// Create router
	router := api.NewRouter(handler, cfg.Server.CORSOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Server.Port)
		log.Printf("Calendar defaults: %d working days, %dh%02dm workday",
			cfg.Calendar.WorkingDays, cfg.Calendar.OfficeHours, cfg.Calendar.OfficeMinutes)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
