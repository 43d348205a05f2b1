package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/recipe-catalog/internal/config"
	"github.com/iliyamo/recipe-catalog/internal/handler"
	"github.com/iliyamo/recipe-catalog/internal/logging"
	"github.com/iliyamo/recipe-catalog/internal/middleware"
	"github.com/iliyamo/recipe-catalog/internal/queue"
	"github.com/iliyamo/recipe-catalog/internal/router"
	"github.com/iliyamo/recipe-catalog/internal/service"
	"github.com/iliyamo/recipe-catalog/internal/session"
	"github.com/iliyamo/recipe-catalog/internal/telemetry"
)

const serviceName = "recipe-catalog"

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, logger, cfg.OTLPEndpoint, serviceName, cfg.Env)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", "err", err)
		}
	}()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	checks := map[string]handler.Check{store.name: store.ping}

	// Redis backs sessions when configured, and the cache and rate limiter
	// whenever it is reachable.
	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		if cfg.SessionStore == config.SessionRedis {
			return err
		}
		logger.Warn("redis unavailable, cache disabled and rate limiting is per process", "err", err)
	} else {
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	var sessions session.Store = session.NewMemoryStore()
	if cfg.SessionStore == config.SessionRedis {
		sessions = session.NewRedisStore(rdb, "session")
	}

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled {
		events = queue.NewAMQPPublisher(cfg.RabbitMQURL, logger)
	}
	if cfg.EventsConsumer {
		consumer := &queue.Consumer{URL: cfg.RabbitMQURL, Dir: "logs", Log: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("catalog consumer stopped", "err", err)
			}
		}()
	}

	chefs := service.NewChefService(store.chefs, events, logger)
	ingredients := service.NewIngredientService(store.ingredients, events, logger)
	recipes := service.NewRecipeService(store.recipes, events, logger)
	auth := service.NewAuthService(chefs, sessions, cfg.BcryptCost, events, logger)

	e := newServer(logger, rdb, checks, auth, chefs, ingredients, recipes, cfg.BcryptCost)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", ":"+cfg.Port, "env", cfg.Env, "db_driver", cfg.DBDriver, "session_store", cfg.SessionStore)
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

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(sctx)
}

func newServer(logger *slog.Logger, rdb *redis.Client, checks map[string]handler.Check,
	auth *service.AuthService, chefs *service.ChefService, ingredients *service.IngredientService,
	recipes *service.RecipeService, bcryptCost int) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// A nil rdb falls back to per-process buckets and disables the cache.
	router.Use(e, logger, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e, checks)
	router.RegisterAuth(e, handler.NewAuthHandler(auth))
	router.RegisterRecipes(e, handler.NewRecipeHandler(recipes), auth, cache)
	router.RegisterIngredients(e, handler.NewIngredientHandler(ingredients), auth, cache)
	router.RegisterChefs(e, handler.NewChefHandler(chefs, bcryptCost), auth, cache)
	return e
}
