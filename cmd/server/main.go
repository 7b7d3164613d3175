package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/silkshop/backend/internal/application/announcement"
	"github.com/silkshop/backend/internal/application/seed"
	"github.com/silkshop/backend/internal/infrastructure/cache"
	"github.com/silkshop/backend/internal/infrastructure/config"
	"github.com/silkshop/backend/internal/infrastructure/logger"
	"github.com/silkshop/backend/internal/infrastructure/store"
	"github.com/silkshop/backend/internal/interfaces/http/handler"
	"github.com/silkshop/backend/internal/interfaces/http/middleware"
	"github.com/silkshop/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Silk Shop Catalog Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := store.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database schema up to date")

	// Catalog store and application services
	catalogStore := store.NewGormStore(db)
	reconciler := seed.NewReconciler(catalogStore, log)
	cleaner := seed.NewCleaner(catalogStore, log, cfg.Seed.ProtectedChannels...)
	announcementService := announcement.NewService(catalogStore, log)

	// Run lock: Redis when reachable, in-memory otherwise. A single
	// instance does not need distributed locking to stay correct.
	var runLock cache.RunLock
	redisLock, err := cache.NewRedisRunLock(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory run lock", zap.Error(err))
		runLock = cache.NewInMemoryRunLock()
	} else {
		defer func() {
			if err := redisLock.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		runLock = redisLock
		log.Info("Redis run lock initialized", zap.String("addr", cfg.Redis.RedisAddr()))
	}

	// Setup gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsCfg),
		middleware.Secure(),
	)

	// Register routes
	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(db))
	r.Register(handler.NewAnnouncementHandler(announcementService))
	r.Register(handler.NewSeedHandler(reconciler, cleaner, runLock, cfg.Seed.FixturePath, cfg.Seed.LockTTL, log))
	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
