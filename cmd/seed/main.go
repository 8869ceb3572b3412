package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"mixerai/internal/config"
	"mixerai/internal/repository/postgres"
	"mixerai/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all claims tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't load fixtures")
	fixturesPath := flag.String("fixtures", "fixtures/claims.yaml", "Path to the fixtures YAML file")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("seeding claims schema",
		"environment", cfg.Environment,
		"prefix", cfg.TablePrefix,
		"schema_only", *schemaOnly,
		"drop_tables", *dropTables,
	)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		if err := seed.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		logger.Info("dropped claims tables")
	}

	if err := seed.CreateSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	logger.Info("schema ready")

	if *schemaOnly {
		return
	}

	fixtures, err := seed.LoadFixtures(*fixturesPath)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	loader := seed.NewLoader(pool, tables, logger)
	if err := loader.Load(ctx, fixtures); err != nil {
		log.Fatalf("Failed to seed fixtures: %v", err)
	}
}
