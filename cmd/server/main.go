package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/necohost/pos/internal/config"
	"github.com/necohost/pos/internal/es"
	"github.com/necohost/pos/internal/handlers"
	"github.com/necohost/pos/internal/hub"
	"github.com/necohost/pos/internal/logging"
	"github.com/necohost/pos/internal/mykafka"
	"github.com/necohost/pos/internal/notify"
	"github.com/necohost/pos/internal/service/coupon"
	"github.com/necohost/pos/internal/service/order"
	"github.com/necohost/pos/internal/service/sales"
	"github.com/necohost/pos/internal/service/token"
	httpserver "github.com/necohost/pos/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	notifier := &notify.Notifier{Producer: prod, Topic: configuration.KAFKA_TOPIC}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	orderHub := hub.New()
	orderSvc := &order.Service{DB: db, Hub: orderHub, Notifier: notifier}
	couponSvc := &coupon.Service{DB: db, Notifier: notifier}
	salesSvc := &sales.Service{DB: db}
	tokenSvc := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		DB:            db,
		AuthHandler:   &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		MenuHandler:   &handlers.MenuHandler{DB: db, Producer: prod, ES: esClient, Index: "menu"},
		POSHandler:    &handlers.POSHandler{DB: db, Orders: orderSvc, Coupons: couponSvc, Producer: prod},
		SalesHandler:  &handlers.SalesHandler{Svc: salesSvc},
		SearchHandler: &handlers.SearchHandler{ES: esClient, Index: "menu"},
		StreamHandler: &handlers.StreamHandler{Hub: orderHub},
		TokenService:  tokenSvc,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:        ":8080",
		Handler:     e,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
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

	orderHub.Close()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
