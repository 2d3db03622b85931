package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookstore/internal/core/auth"
	"bookstore/internal/core/cache"
	"bookstore/internal/core/config"
	"bookstore/internal/core/database"
	"bookstore/internal/core/logger"
	"bookstore/internal/core/server"
	"bookstore/internal/domain"
	"bookstore/internal/repo"
	"bookstore/internal/service"
	"bookstore/internal/transport/http/handler"
	"bookstore/internal/transport/http/response"
	"bookstore/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	response.Verbose = !cfg.Production()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Book{}, &domain.RefreshToken{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	var ca *cache.Cache
	if cfg.Redis.Addr != "" {
		ca = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = ca.Close() }()
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	userRepo := repo.NewUserRepo(db)
	bookRepo := repo.NewBookRepo(db)
	tokenRepo := repo.NewTokenRepo(db)

	refreshTTL := time.Duration(cfg.JWT.RefreshTokenTTLDay) * 24 * time.Hour
	authSvc := service.NewAuthService(userRepo, tokenRepo, jwter, refreshTTL, log)
	userSvc := service.NewUserService(userRepo, tokenRepo, log)
	bookSvc := service.NewBookService(bookRepo, log)
	purchaseSvc := service.NewPurchaseService(db, log)

	r := router.New(log, router.Deps{
		Cfg:   cfg,
		JWTer: jwter,
		Cache: ca,
		Users: userRepo,
		Auth:  handler.NewAuthHandler(authSvc),
		User:  handler.NewUserHandler(userSvc),
		Books: handler.NewBookHandler(bookSvc, purchaseSvc),
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	log.Info("api starting", zap.String("addr", addr))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
