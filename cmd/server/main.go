// Command server runs the Artist Atlas HTTP API.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/artist-atlas/internal/cache"
	"github.com/xiaoxiao0301/artist-atlas/internal/config"
	"github.com/xiaoxiao0301/artist-atlas/internal/cron"
	"github.com/xiaoxiao0301/artist-atlas/internal/handler"
	"github.com/xiaoxiao0301/artist-atlas/internal/mail"
	"github.com/xiaoxiao0301/artist-atlas/internal/repository"
	"github.com/xiaoxiao0301/artist-atlas/internal/service"
	"github.com/xiaoxiao0301/artist-atlas/migrations"
	"github.com/xiaoxiao0301/artist-atlas/pkg/crypto"
	"github.com/xiaoxiao0301/artist-atlas/pkg/db"
	"github.com/xiaoxiao0301/artist-atlas/pkg/jwt"
	"github.com/xiaoxiao0301/artist-atlas/pkg/limiter"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
	"github.com/xiaoxiao0301/artist-atlas/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.NewFileLoader(*configPath).Load()
	if err != nil {
		logger.Default().Fatal("failed to load config", logger.Err(err))
	}

	log := logger.New(&logger.Config{Level: logger.ParseLevel(cfg.Log.Level)})
	log.Info("starting artist-atlas", logger.Int("port", cfg.Server.Port))

	pgCfg := &db.PostgresConfig{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		Database:        cfg.Postgres.Database,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxConns:        int32(cfg.Postgres.MaxConns),
		MinConns:        int32(cfg.Postgres.MinConns),
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}

	if err := runMigrations(pgCfg); err != nil {
		log.Fatal("failed to migrate database", logger.Err(err))
	}
	log.Info("database schema up to date")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, pgCfg)
	if err != nil {
		log.Fatal("failed to connect to database", logger.Err(err))
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(&redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Fatal("failed to connect to redis", logger.Err(err))
	}
	defer redisClient.Close()

	tokens := jwt.NewManager(&jwt.Config{
		Secret:        cfg.JWT.Secret,
		Issuer:        cfg.JWT.Issuer,
		TokenExpiry:   cfg.JWT.AccessExpiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
	})

	artistRepo := repository.NewArtistRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	favoriteRepo := repository.NewFavoriteRepository(pool)

	artistCache := cache.NewNoopCache()
	if cfg.Cache.Enabled {
		artistCache = cache.NewArtistCache(redisClient, cfg.Cache.ArtistTTL, log)
	}

	mailer := mail.NewConsoleSender(cfg.Mail.From, log)
	otpLimiter := limiter.NewRateLimiter(redisClient)

	artistService := service.NewArtistService(artistRepo, artistCache, log)
	exportService := service.NewExportService(artistRepo)
	authService := service.NewAuthService(userRepo, crypto.NewPasswordHasher(), tokens, otpLimiter, mailer, service.AuthConfig{
		OTPExpiry:      cfg.Auth.OTPExpiry,
		OTPResendEvery: cfg.Auth.OTPResendEvery,
	}, log)
	favoriteService := service.NewFavoriteService(favoriteRepo, artistRepo, log)

	cronManager := cron.NewManager(authService, cfg.Auth.OTPSweepSchedule, log)
	if err := cronManager.Start(); err != nil {
		log.Fatal("failed to start cron manager", logger.Err(err))
	}
	defer cronManager.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.RouterConfig{
		Artists:   handler.NewArtistHandler(artistService, exportService),
		Auth:      handler.NewAuthHandler(authService),
		Favorites: handler.NewFavoriteHandler(favoriteService),
		Tokens:    tokens,
		Logger:    log,
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", logger.Err(err))
		}
	}()
	log.Info("http server listening", logger.String("addr", server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server forced to shutdown", logger.Err(err))
	}
	log.Info("stopped")
}

// runMigrations applies the embedded schema migrations over a database/sql
// connection, then closes it. The pgx pool is opened afterwards.
func runMigrations(pgCfg *db.PostgresConfig) error {
	conn, err := db.OpenSQL(pgCfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	migrator, err := db.NewMigrator(conn, migrations.FS, migrations.Dir)
	if err != nil {
		return err
	}
	return migrator.EnsureSchema()
}
