// Package main is the entry point for the clinic user service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/medisched/user-service/docs"
	"github.com/medisched/user-service/internal/api"
	"github.com/medisched/user-service/internal/api/handler"
	"github.com/medisched/user-service/internal/core/service"
	"github.com/medisched/user-service/internal/core/token"
	"github.com/medisched/user-service/internal/infrastructure/config"
	mongodb "github.com/medisched/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/medisched/user-service/internal/infrastructure/db/redis"
	"github.com/medisched/user-service/internal/infrastructure/security"
	"github.com/medisched/user-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Clinic User Service API
// @version                     1.0
// @description                 Registration, authentication and identity lookups for clinic patients, doctors and admins.
// @host                        localhost:8080
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and JWT token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-service",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped with error")
	}
	log.Info().Msg("service stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Directory ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Provider cache ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()
	log.Info().Str("addr", cfg.Redis.Addr).Dur("provider_cache_ttl", cfg.Redis.ProviderCacheTTL).Msg("connected to redis")

	repo := redisdb.NewProviderCache(userRepo, rdb, cfg.Redis.ProviderCacheTTL, log)

	// --- Security ---
	hasher, err := security.NewHasher(cfg.Password.Hasher, cfg.Password.BcryptCost)
	if err != nil {
		return err
	}
	codec, err := token.NewCodec(token.Config{
		Secret: []byte(cfg.JWT.Secret),
		TTL:    cfg.JWT.TTL,
	})
	if err != nil {
		return err
	}

	// --- Core ---
	authn := service.NewCredentialAuthenticator(repo, hasher)
	authService := service.NewAuthService(repo, hasher, authn, codec, logger.Component("auth_service"))

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		AuthService: authService,
		Readiness: map[string]handler.Pinger{
			"mongodb": mongodb.Pinger{Client: mongoClient},
			"redis":   redisdb.Pinger{Client: rdb},
		},
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("hasher", cfg.Password.Hasher).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
