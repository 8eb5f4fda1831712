package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jyotir-aditya/fullstackAssignment/config"
	"github.com/jyotir-aditya/fullstackAssignment/internal/container"
	pginfra "github.com/jyotir-aditya/fullstackAssignment/internal/infrastructure/postgres"
	"github.com/jyotir-aditya/fullstackAssignment/internal/router"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg, err := config.Load()
	if err != nil {
		helpers.NewLogger("product-catalog", "production").WithError(err).Fatal("invalid configuration")
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	if cfg.UseMemoryStorage() {
		logger.Warn("STORAGE_DRIVER=memory; data is lost on restart")
	} else {
		pool, err := pginfra.NewPool(ctx, cfg.DatabaseURL(), pginfra.PoolOptions{
			AppName:     cfg.AppName,
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pool.Close()

		if err := pginfra.RunMigrations(cfg.DatabaseURL(), cfg.MigrationsDir, logger); err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
		container.SetPGPool(pool)
	}

	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to redis")
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	} else {
		logger.Info("REDIS_ADDR not set; using in-process rate limiting")
	}

	jwtManager, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL)
	if err != nil {
		logger.WithError(err).Fatal("failed to init JWT")
	}

	if cfg.MailEnabled() {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, cfg.AppName)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; welcome emails disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)

	r, err := router.NewEngine(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to build http engine")
	}
	reg := router.NewRegistry(r)
	router.InitModules(reg, router.DepsFromContainer())
	reg.RegisterAll()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
		return
	}
	logger.Info("server exited properly")
}
