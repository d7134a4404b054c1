package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/config"
	"github.com/cwrk-planet/creator-hub/internal/pg"
	"github.com/cwrk-planet/creator-hub/internal/repository/postgres"
	"github.com/cwrk-planet/creator-hub/internal/security"
	"github.com/cwrk-planet/creator-hub/internal/seed"
	"github.com/cwrk-planet/creator-hub/pkg/logger"
)

func main() {
	count := flag.Int("n", seed.DefaultCount, "number of users to create")
	password := flag.String("password", seed.DefaultPassword, "password shared by all seeded users")
	rndSeed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Init(logger.Config{
		Env:     logger.ParseEnv(cfg.Logging.Env),
		Service: "creator-hub-seed",
		Version: cfg.Logging.Version,
		Backend: logger.Backend(cfg.Logging.Backend),
		Debug:   cfg.Logging.Debug,
	})
	if cfg.Storage.Driver != "postgres" {
		log.Fatalf("seed needs storage.driver=postgres, got %q", cfg.Storage.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pg.NewPool(ctx, cfg.Postgres.ToPGConfig())
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	existing, err := postgres.NewUserRepoFromPool(pool).Count(ctx)
	if err != nil {
		log.Fatalf("count users: %v", err)
	}
	if existing > 0 {
		slog.Info("database already has users, skipping seed", slog.Int("users", existing))
		return
	}

	// один хэш на всех: bcrypt на 200 пользователей заметно тормозит
	hash, err := security.HashPassword(*password, &security.BcryptConfig{
		Cost:      cfg.Security.Password.BcryptCost,
		MinLength: cfg.Security.Password.MinLength,
	})
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users, profiles, err := seed.Generate(*count, hash, time.Now().UTC(), *rndSeed)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	n, err := postgres.BulkInsertUsers(ctx, pool, users, profiles)
	if err != nil {
		log.Fatalf("bulk insert: %v", err)
	}

	creators := 0
	for _, u := range users {
		if u.Role == "creator" {
			creators++
		}
	}
	slog.Info("seed done", slog.Int64("users", n), slog.Int("creators", creators))
}
