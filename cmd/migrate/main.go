package main

import (
	"database/sql"
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"skybook/internal/config"
	"skybook/internal/database/migrations"
	"skybook/internal/logger"
)

func main() {
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	dir := flag.String("dir", "./migrations", "directory containing migration files")
	flag.Parse()

	log := logger.NewLogger()
	defer log.Close()

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}
	cfg := config.Load()

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN())))
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB, migrations.Options{MigrationsDir: *dir})
	defer runner.Close()

	if *down {
		if err := runner.MigrateDown(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("rollback failed: %v", err))
		}
		log.Info("DATABASE", "all migrations rolled back")
		return
	}

	if err := runner.MigrateUp(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("migration failed: %v", err))
	}

	version, dirty, err := runner.Version()
	if err != nil {
		log.Warn("DATABASE", fmt.Sprintf("could not read schema version: %v", err))
		return
	}
	log.Info("DATABASE", fmt.Sprintf("schema at version %d (dirty=%v)", version, dirty))
}
