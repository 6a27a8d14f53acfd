package main

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"smartlib.id/backend/internal/bootstrap"
	"smartlib.id/backend/internal/config"
	"smartlib.id/backend/internal/server"
	"smartlib.id/backend/pkg/database"
	"smartlib.id/backend/pkg/logger"
	"smartlib.id/backend/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.AppEnv)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatal("failed to seed roles", zap.Error(err))
	}
	if err := bootstrap.SeedMainLibrary(db); err != nil {
		log.Fatal("failed to seed library", zap.Error(err))
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatal("failed to seed admin user", zap.Error(err))
		}
	}

	// Redis is optional; without it live notification delivery is disabled
	// and the stored rows remain the source of truth.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Warn("REDIS_URL not set, live notification delivery disabled")
	}

	fileStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatal("failed to initialize cloudinary storage", zap.Error(err))
	}

	srv := server.NewServer(cfg, db, redisClient, fileStorage, log)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}
