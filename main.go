package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"missingpersons-be/config"
	"missingpersons-be/controllers"
	"missingpersons-be/middlewares"
	"missingpersons-be/routes"
	"missingpersons-be/services"
	"missingpersons-be/store"
	"missingpersons-be/store/mongostore"
	"missingpersons-be/store/sqlstore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Warn("store close", zap.Error(err))
		}
	}()

	if cfg.SeedDemo {
		n, err := store.Seed(ctx, db)
		if err != nil {
			logger.Fatal("seed failed", zap.Error(err))
		}
		logger.Info("demo data", zap.Int("inserted", n))
	}

	var limiter gin.HandlerFunc
	if cfg.RedisAddress != "" {
		rdb, err := config.ConnectRedis(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		limiter = middlewares.RateLimiter(middlewares.RedisCounter{Client: rdb},
			cfg.RateLimitPrefix, cfg.RateLimitPerDay, 24*time.Hour, logger)
	} else {
		logger.Warn("REDIS_ADDRESS not set; submission rate limiting disabled")
	}

	caseSvc := services.NewCaseService(db, logger)
	handlers := routes.Handlers{
		Auth: &controllers.AuthController{
			Auth:   services.NewAuthService(db, cfg.JWTSecret, logger),
			Env:    cfg.Env,
			Domain: cfg.Domain,
			Log:    logger,
		},
		Cases:     &controllers.CaseController{Cases: caseSvc, Log: logger},
		Reports:   &controllers.ReportController{Sightings: services.NewSightingService(db, db, logger), Log: logger},
		Analytics: &controllers.AnalyticsController{Cases: caseSvc, Log: logger},
		JWTSecret: cfg.JWTSecret,
		Limiter:   limiter,
		Log:       logger,
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.Register(r, handlers)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.StoreDriver == config.DriverSQLite {
		return sqlstore.Open(cfg.SQLiteDSN, logger)
	}
	client, err := config.ConnectMongo(ctx, cfg.MongoURI, logger)
	if err != nil {
		return nil, err
	}
	return mongostore.New(ctx, client, cfg.MongoDB, logger), nil
}
