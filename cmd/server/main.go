package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/canteen/backend/internal/application/catalog"
	dashboardapp "github.com/canteen/backend/internal/application/dashboard"
	identityapp "github.com/canteen/backend/internal/application/identity"
	orderapp "github.com/canteen/backend/internal/application/order"
	storeaccessapp "github.com/canteen/backend/internal/application/storeaccess"
	studentapp "github.com/canteen/backend/internal/application/student"
	"github.com/canteen/backend/internal/infrastructure/auth"
	"github.com/canteen/backend/internal/infrastructure/cache"
	"github.com/canteen/backend/internal/infrastructure/config"
	"github.com/canteen/backend/internal/infrastructure/event"
	"github.com/canteen/backend/internal/infrastructure/logger"
	"github.com/canteen/backend/internal/infrastructure/persistence"
	"github.com/canteen/backend/internal/infrastructure/persistence/storescope"
	"github.com/canteen/backend/internal/infrastructure/session"
	"github.com/canteen/backend/internal/interfaces/http/handler"
	"github.com/canteen/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting canteen POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	scopedDB := storescope.New(db.DB)

	// Redis backs both the cache and store selections. Without it the
	// server still runs on in-memory fallbacks, which is fine for a
	// single instance.
	var cacheStore cache.Store
	var selections session.StoreSelections

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	pingErr := redisClient.Ping(pingCtx).Err()
	cancelPing()
	if pingErr != nil {
		log.Warn("Redis unavailable, using in-memory cache and sessions", zap.Error(pingErr))
		cacheStore = cache.NewMemoryStore()
		selections = session.NewMemoryStoreSelections()
	} else {
		log.Info("Redis connected")
		cacheStore = cache.NewRedisStore(redisClient, cfg.App.Name)
		selections = session.NewRedisStoreSelections(redisClient)
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
	}

	cacheService := cache.NewService(cacheStore, log)
	jwtService := auth.NewJWTService(cfg.JWT)
	eventBus := event.NewInMemoryEventBus(log)

	// Repositories
	productRepo := persistence.NewGormProductRepository(scopedDB)
	categoryRepo := persistence.NewGormCategoryRepository(scopedDB)
	studentRepo := persistence.NewGormStudentRepository(scopedDB)
	orderRepo := persistence.NewGormOrderRepository(scopedDB)
	storeRepo := persistence.NewGormStoreRepository(scopedDB)
	userRepo := persistence.NewGormUserRepository(scopedDB)

	// Application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo, eventBus)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	studentService := studentapp.NewStudentService(studentRepo, eventBus)
	checkoutService := orderapp.NewCheckoutService(orderRepo, persistence.NewGormCheckoutScope(scopedDB), eventBus)
	dashboardService := dashboardapp.NewDashboardService(orderRepo, cacheService)
	authService := identityapp.NewAuthService(userRepo, jwtService, selections)
	storeService := storeaccessapp.NewStoreService(storeRepo)
	accessService := storeaccessapp.NewAccessService(userRepo, storeRepo, selections)

	// Event listeners
	invalidationHandler := cache.NewInvalidationHandler(cacheService)
	lowStockHandler := catalogapp.NewLowStockHandler(log)
	eventBus.Subscribe(invalidationHandler)
	eventBus.Subscribe(lowStockHandler)
	log.Info("Event handlers registered",
		zap.Strings("cache_invalidation_events", invalidationHandler.EventTypes()),
		zap.Strings("low_stock_events", lowStockHandler.EventTypes()),
	)

	engine := router.New(router.Dependencies{
		Config:        cfg,
		Logger:        log,
		JWTService:    jwtService,
		ScopeResolver: accessService,

		Health:     handler.NewHealthHandler(cfg.App.Name),
		Auth:       handler.NewAuthHandler(authService),
		Users:      handler.NewUserHandler(authService),
		Stores:     handler.NewStoreHandler(storeService, accessService),
		Products:   handler.NewProductHandler(productService),
		Categories: handler.NewCategoryHandler(categoryService),
		Students:   handler.NewStudentHandler(studentService),
		Orders:     handler.NewOrderHandler(checkoutService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
