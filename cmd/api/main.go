package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/martshop/store-api/internal/api"
	"github.com/martshop/store-api/internal/api/handler"
	"github.com/martshop/store-api/internal/core/ports"
	"github.com/martshop/store-api/internal/core/service"
	"github.com/martshop/store-api/internal/infrastructure/config"
	mongodb "github.com/martshop/store-api/internal/infrastructure/db/mongo"
	"github.com/martshop/store-api/internal/infrastructure/db/postgres"
	redisdb "github.com/martshop/store-api/internal/infrastructure/db/redis"
	"github.com/martshop/store-api/pkg/logger"
)

const tokenTTL = time.Hour

// @title           Store API
// @version         1.0
// @description     CRUD REST API for users and products with JWT authentication.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	userRepo, productRepo, healthChecks, closeStorage := connectStorage(ctx, cfg, log)
	defer closeStorage()

	rdb := connectRedis(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
		healthChecks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, tokenTTL, log)
	userService := service.NewUserService(userRepo, log)
	productService := service.NewProductService(productRepo, log)

	e := api.NewRouter(api.Dependencies{
		AuthService:    authService,
		UserService:    userService,
		ProductService: productService,
		JWTSecret:      cfg.JWTSecret,
		Redis:          rdb,
		HealthChecks:   healthChecks,
		Logger:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend).Msg("store api started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("store api stopped")
}

// connectStorage wires the repositories to whichever backend the
// configuration selects. This is the only place the selector is read;
// everything downstream works against the ports interfaces.
func connectStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.UserRepository, ports.ProductRepository, map[string]handler.DependencyCheck, func()) {
	checks := make(map[string]handler.DependencyCheck)

	switch cfg.Backend {
	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

		userRepo := mongodb.NewUserRepository(db)
		productRepo := mongodb.NewProductRepository(db)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("user index creation failed")
		}
		if err := productRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("product index creation failed")
		}

		checks["mongodb"] = func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}
		closeFn := func() {
			_ = client.Disconnect(context.Background())
		}
		return userRepo, productRepo, checks, closeFn

	default: // config.BackendPostgres, validated by config.Load
		db, err := postgres.Connect(postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connection failed")
		}
		log.Info().Msg("connected to postgres")

		if err := postgres.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("postgres pool unavailable")
		}
		checks["postgres"] = func(ctx context.Context) error {
			return sqlDB.PingContext(ctx)
		}
		closeFn := func() {
			_ = sqlDB.Close()
		}
		return postgres.NewUserRepository(db), postgres.NewProductRepository(db), checks, closeFn
	}
}

// connectRedis is best-effort: no address means no redis, and the rate
// limiter and readiness check simply stay disabled.
func connectRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	return rdb
}
