package main

import (
	"os"

	"cortex_edu/internal/platform/config"
	"cortex_edu/internal/platform/database"
	"cortex_edu/internal/platform/logger"
)

func main() {
	config.Load()
	cfg := config.AppConfig

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if len(os.Args) < 2 {
		log.Fatal("usage: migrate [up|down]")
	}
	command := os.Args[1]

	log.Info("running migrations", "command", command, "source", cfg.MigrationsPath)
	if err := database.Migrate(cfg.MigrationsPath, cfg.DBURL, command); err != nil {
		log.Fatal("migration failed", "error", err)
	}
	log.Info("migrations finished")
}
