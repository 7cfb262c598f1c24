package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/brickline/storefront/internal/config"
	"github.com/brickline/storefront/internal/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command line flags
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	dir := flag.String("dir", "migrations", "Directory containing migration files")
	flag.Parse()

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

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatalf("Failed to read migrations directory: %v", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if *dryRun {
		for _, name := range files {
			sql, err := os.ReadFile(filepath.Join(*dir, name))
			if err != nil {
				logger.Fatalf("Failed to read migration %s: %v", name, err)
			}
			fmt.Printf("-- %s\n%s\n", name, sql)
		}
		return
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := sqlx.Connect("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		logger.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer db.Close()

	for _, name := range files {
		sql, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			logger.Fatalf("Failed to read migration %s: %v", name, err)
		}

		logger.Infow("Applying migration", "file", name)
		if _, err := db.Exec(string(sql)); err != nil {
			logger.Fatalf("Failed to apply migration %s: %v", name, err)
		}
	}

	logger.Info("Migrations applied successfully")
}
