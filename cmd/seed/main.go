package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/silkshop/backend/internal/application/seed"
	"github.com/silkshop/backend/internal/infrastructure/cache"
	"github.com/silkshop/backend/internal/infrastructure/config"
	"github.com/silkshop/backend/internal/infrastructure/fixtures"
	"github.com/silkshop/backend/internal/infrastructure/logger"
	"github.com/silkshop/backend/internal/infrastructure/store"
)

const lockName = "catalog"

func main() {
	// Parse flags
	var (
		fixturePath string
		logLevel    string
		localLock   bool
	)

	flag.StringVar(&fixturePath, "fixture", "", "Path to the catalog fixture file (default: from config)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&localLock, "local-lock", false, "Use an in-memory run lock instead of Redis")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if fixturePath == "" {
		fixturePath = cfg.Seed.FixturePath
	}

	// Connect and migrate
	db, err := store.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Run lock guards against a concurrently running server-side seed
	var runLock cache.RunLock
	if localLock {
		runLock = cache.NewInMemoryRunLock()
	} else {
		redisLock, err := cache.NewRedisRunLock(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory run lock", zap.Error(err))
			runLock = cache.NewInMemoryRunLock()
		} else {
			defer func() {
				if err := redisLock.Close(); err != nil {
					log.Error("Error closing redis client", zap.Error(err))
				}
			}()
			runLock = redisLock
		}
	}

	ctx := context.Background()

	acquired, err := runLock.Acquire(ctx, lockName, cfg.Seed.LockTTL)
	if err != nil {
		log.Fatal("Failed to acquire run lock", zap.Error(err))
	}
	if !acquired {
		log.Fatal("Another seed run is already in progress")
	}
	defer func() {
		if err := runLock.Release(ctx, lockName); err != nil {
			log.Warn("Releasing run lock failed", zap.Error(err))
		}
	}()

	catalogStore := store.NewGormStore(db)

	switch command {
	case "run":
		spec, err := fixtures.Load(fixturePath)
		if err != nil {
			log.Fatal("Failed to load fixture", zap.Error(err))
		}

		reconciler := seed.NewReconciler(catalogStore, log)
		report, err := reconciler.Run(ctx, spec)
		if err != nil {
			log.Fatal("Seed run failed", zap.Error(err))
		}

		log.Info("Seed run finished",
			zap.Int("created", report.TotalCreated()),
			zap.Int("warnings", len(report.Warnings)),
			zap.Duration("elapsed", report.Elapsed),
		)
		for _, w := range report.Warnings {
			log.Warn(w)
		}
		for keyType, token := range report.APIKeys {
			// Printed once at creation time, tokens are not recoverable later
			fmt.Printf("  %s key: %s\n", keyType, token)
		}

	case "clean":
		cleaner := seed.NewCleaner(catalogStore, log, cfg.Seed.ProtectedChannels...)
		report, err := cleaner.Run(ctx)
		if err != nil {
			log.Fatal("Clean run failed", zap.Error(err))
		}

		deleted, kept := 0, 0
		for _, n := range report.Deleted {
			deleted += n
		}
		for _, n := range report.Kept {
			kept += n
		}
		log.Info("Clean run finished",
			zap.Int("deleted", deleted),
			zap.Int("kept", kept),
			zap.Duration("elapsed", report.Elapsed),
		)

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Silk Shop Catalog Seed Tool

Usage:
  seed [flags] <command>

Commands:
  run      Reconcile the catalog against the fixture file
  clean    Delete all managed catalog entities (protected channels are kept)

Flags:
  -fixture string       Path to the catalog fixture file (default: from config)
  -log-level string     Log level: debug, info, warn, error (default: info)
  -local-lock           Use an in-memory run lock instead of Redis

Examples:
  # Apply the default fixture
  seed run

  # Apply a specific fixture
  seed -fixture configs/silk-shop.toml run

  # Tear the catalog down
  seed clean`)
}
