package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	identityapp "github.com/mead/backend/internal/application/identity"
	"github.com/mead/backend/internal/infrastructure/auth"
	"github.com/mead/backend/internal/infrastructure/config"
	"github.com/mead/backend/internal/infrastructure/logger"
	"github.com/mead/backend/internal/infrastructure/migration"
	"github.com/mead/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

const (
	defaultAdminEmail = "admin@localhost.com"
	defaultAdminName  = "Administrator"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	// list needs neither configuration nor a database
	if command == "list" {
		names, err := migration.List()
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, name := range names {
			fmt.Println("  -", name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if command == "seed" {
		seed(cfg, log)
		return
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.NewFromPath(db, migrationsPath, log)
	} else {
		m, err = migration.New(db, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	log.Info("Migration CLI started", zap.String("command", command))

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step", "steps":
		n, err := strconv.Atoi(requireArg(log, args, "Step count required. Usage: migrate steps <n>"))
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "goto":
		version, err := strconv.ParseUint(requireArg(log, args, "Version required. Usage: migrate goto <version>"), 10, 32)
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.GoTo(uint(version)); err != nil {
			log.Fatal("Migration goto failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}

	case "force":
		version, err := strconv.Atoi(requireArg(log, args, "Version required. Usage: migrate force <version>"))
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		log.Warn("Forcing migration version - use with caution!")
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// seed creates the administrator account, or promotes the account that
// already uses its email, and prints an access token outside production
func seed(cfg *config.Config, log *zap.Logger) {
	password := os.Getenv("MEAD_SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("MEAD_SEED_ADMIN_PASSWORD must be set to seed the administrator")
	}
	input := identityapp.EnsureAdministratorInput{
		Email:    envOr("MEAD_SEED_ADMIN_EMAIL", defaultAdminEmail),
		Name:     envOr("MEAD_SEED_ADMIN_NAME", defaultAdminName),
		Password: password,
	}

	database, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	accounts := identityapp.NewAccountService(persistence.NewGormAccountRepository(database.DB), log)
	admin, created, err := accounts.EnsureAdministrator(ctx, input)
	if err != nil {
		log.Fatal("Failed to seed administrator", zap.Error(err))
	}
	log.Info("Administrator ready",
		zap.String("account_id", admin.ID.String()),
		zap.String("email", admin.Email),
		zap.Bool("created", created),
	)

	if cfg.IsProduction() {
		return
	}
	token, err := auth.NewJWTService(cfg.JWT).GenerateAccessToken(admin)
	if err != nil {
		log.Fatal("Failed to issue access token", zap.Error(err))
	}
	fmt.Printf("Bearer %s\n(expires %s)\n", token.Token, token.ExpiresAt.Format(time.RFC3339))
}

func requireArg(log *zap.Logger, args []string, usage string) string {
	if len(args) < 2 {
		log.Fatal(usage)
	}
	return args[1]
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Println(`Marketplace Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  steps <n>             Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  list                  List embedded migrations
  seed                  Create or promote the administrator account

Flags:
  -path string          Read migrations from a directory instead of the binary
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  MEAD_DATABASE_HOST, MEAD_DATABASE_PORT, MEAD_DATABASE_USER,
  MEAD_DATABASE_PASSWORD, MEAD_DATABASE_DBNAME, MEAD_DATABASE_SSLMODE
  MEAD_SEED_ADMIN_EMAIL, MEAD_SEED_ADMIN_NAME, MEAD_SEED_ADMIN_PASSWORD (seed)

Examples:
  # Apply all pending migrations
  migrate up

  # Roll back the last migration
  migrate steps -1

  # Seed the administrator
  MEAD_SEED_ADMIN_PASSWORD=change-me migrate seed`)
}
