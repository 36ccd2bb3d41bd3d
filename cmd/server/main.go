package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"shop-backend/internal/cache"
	"shop-backend/internal/config"
	"shop-backend/internal/events"
	"shop-backend/internal/httpserver"
	"shop-backend/internal/logging"
	"shop-backend/internal/repo"
	"shop-backend/internal/search"
	"shop-backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokerList())
	productCache := cache.NewProductCache(cfg.REDIS_ADDR)

	index, err := search.NewIndex(cfg.ES_URL, cfg.ES_USER, cfg.ES_PASSWORD)
	if err != nil {
		log.Fatalf("elasticsearch init error: %v", err)
	}

	r := &repo.GormRepo{DB: db}
	jwtSecret := []byte(cfg.JWT_SECRET)
	refreshSecret := []byte(cfg.REFRESH_SECRET)

	deps := httpserver.Deps{
		AuthHandler: &httpserver.AuthHandler{
			Svc:      &service.AuthService{Repo: r, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
			Producer: producer,
		},
		ProductHandler: &httpserver.ProductHandler{
			Svc:      &service.CatalogService{Repo: r, Cache: productCache, Index: index},
			Producer: producer,
		},
		CartHandler: &httpserver.CartHandler{
			Svc:      &service.CartService{Repo: r},
			Producer: producer,
		},
		OrderHandler: &httpserver.OrderHandler{
			Svc:      &service.OrderService{Repo: r},
			Producer: producer,
		},
		JWTSecret: jwtSecret,
	}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(20),
			Burst:     40,
			ExpiresIn: 3 * time.Minute,
		}),
	}))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}
	if err := productCache.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}

	log.Println("shutdown complete")
}
