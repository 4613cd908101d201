package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/postgres"
)

func main() {
	// Parse command line flags
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	if *dryRun {
		migrations, err := postgres.Migrations()
		if err != nil {
			log.Fatalf("Failed to read migrations: %v", err)
		}
		for _, m := range migrations {
			fmt.Printf("-- %s\n%s\n", m.Name, m.SQL)
		}
		return
	}

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)

	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Running database migrations...")
	if err := db.Migrate(ctx); err != nil {
		logger.Fatalw("Failed to apply migrations", "error", err)
	}

	fmt.Println("Migration process completed")
}
