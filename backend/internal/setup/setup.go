package setup

import (
	"context"
	"errors"

	"github.com/potatoland/potatoland/backend/internal/handler"
	"github.com/potatoland/potatoland/backend/internal/service"
	"github.com/potatoland/potatoland/backend/internal/storage/cache"
	"github.com/potatoland/potatoland/backend/internal/storage/pg"
	"github.com/potatoland/potatoland/backend/internal/utils"
	"github.com/potatoland/potatoland/backend/internal/utils/email"
	"github.com/potatoland/potatoland/backend/internal/utils/jwt"
	"github.com/potatoland/potatoland/shared/config"
	jwt_session "github.com/potatoland/potatoland/shared/jwt"
	"github.com/potatoland/potatoland/shared/logger"
	mw "github.com/potatoland/potatoland/shared/middleware"
	rl "github.com/potatoland/potatoland/shared/middleware/ratelimiter"
	"github.com/redis/go-redis/v9"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Redis          *redis.Client // nil when the board cache is disabled
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	InviteLimiter  *rl.UserRateLimiter
	ConfirmLimiter *rl.UserRateLimiter
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var boardStorage service.BoardStorage = storage
	var redisClient *redis.Client
	if cfg.Public.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Public.Redis.Addr,
			Password: cfg.Private.RedisPassword,
			DB:       cfg.Public.Redis.DB,
		})
		// the cache falls back to postgres on its own, so an unreachable redis is not fatal
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Log.Warn("redis unavailable, board reads go to postgres until it recovers", "addr", cfg.Public.Redis.Addr, "error", err)
		}
		boardStorage = cache.New(storage, redisClient, cfg.Public.Redis.CacheTTL)
	}

	board := service.NewBoard(
		boardStorage,
		utils.New(),
		jwt.NewInvitation(cfg.Private.InviteKey),
		email.New(&cfg.Private.Email),
		email.NewInviteRenderer(),
		&cfg.Public,
	)
	session := jwt_session.New(cfg.JwtKey(), cfg.SessionTTL())

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Redis:          redisClient,
		Handler:        handler.New(board, storage),
		AuthMiddleware: mw.NewAuth(session),
		InviteLimiter:  rl.PerMinute(10),
		ConfirmLimiter: rl.PerMinute(30),
	}, nil
}

func (d *Dependencies) Cleanup() error {
	d.InviteLimiter.Stop()
	d.ConfirmLimiter.Stop()

	var errs []error
	if d.Redis != nil {
		errs = append(errs, d.Redis.Close())
	}
	errs = append(errs, d.Storage.Cleanup())
	return errors.Join(errs...)
}
