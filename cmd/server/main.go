package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dwikikusuma/minikart/internal/auth"
	cartapp "github.com/dwikikusuma/minikart/internal/cart/app"
	cartadapter "github.com/dwikikusuma/minikart/internal/cart/infra/adapter"
	cartpg "github.com/dwikikusuma/minikart/internal/cart/infra/postgres"
	catalogapp "github.com/dwikikusuma/minikart/internal/catalog/app"
	catalogpg "github.com/dwikikusuma/minikart/internal/catalog/infra/postgres"
	"github.com/dwikikusuma/minikart/internal/catalog/infra/rediscache"
	checkoutapp "github.com/dwikikusuma/minikart/internal/checkout/app"
	checkoutadapter "github.com/dwikikusuma/minikart/internal/checkout/infra/adapter"
	checkoutpg "github.com/dwikikusuma/minikart/internal/checkout/infra/postgres"
	delivery "github.com/dwikikusuma/minikart/internal/delivery/http"
	identityapp "github.com/dwikikusuma/minikart/internal/identity/app"
	identitypg "github.com/dwikikusuma/minikart/internal/identity/infra/postgres"
	"github.com/dwikikusuma/minikart/internal/messaging"
	"github.com/dwikikusuma/minikart/internal/messaging/kafka"
	orderapp "github.com/dwikikusuma/minikart/internal/order/app"
	orderpg "github.com/dwikikusuma/minikart/internal/order/infra/postgres"
	"github.com/dwikikusuma/minikart/pkg/config"
	"github.com/dwikikusuma/minikart/pkg/logger"
	"github.com/dwikikusuma/minikart/pkg/postgres"
	"github.com/dwikikusuma/minikart/pkg/shutdown"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "minikart", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db, err := postgres.Open(postgres.Config{
		Host: cfg.PostgresHost,
		Port: cfg.PostgresPort,
		User: cfg.PostgresUser,
		Pass: cfg.PostgresPass,
		DB:   cfg.PostgresDB,
	})
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	var publisher messaging.Publisher = messaging.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			log.Error("kafka connect failed", slog.Any("err", err))
			os.Exit(1)
		}
		defer kp.Close()
		publisher = kp
		log.Info("kafka producer ready", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Catalog, optionally behind a redis read-through cache.
	var productRepo catalogapp.ProductRepo = catalogpg.NewProductRepo(db)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		productRepo = rediscache.NewProductCache(productRepo, rdb)
		log.Info("product cache enabled", slog.String("addr", cfg.RedisAddr))
	}
	catalogSvc := catalogapp.NewService(productRepo)

	// Identity
	userRepo := identitypg.NewUserRepo(db)
	identitySvc := identityapp.NewService(userRepo, publisher, cfg.DefaultWalletBalance)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Cart
	cartRepo := cartpg.NewCartRepo(db)
	cartSvc := cartapp.NewService(cartRepo, cartadapter.NewCatalogServiceReader(catalogSvc))

	// Checkout (adapters over cart and catalog, store on the same db)
	checkoutSvc := checkoutapp.NewService(
		checkoutadapter.NewCartServiceReader(cartSvc),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		checkoutpg.NewStore(db),
		publisher,
		10,
	)

	// Order history
	orderSvc := orderapp.NewService(orderpg.NewOrderRepo(db))

	handler := delivery.NewHandler(identitySvc, issuer, catalogSvc, cartSvc, checkoutSvc, orderSvc, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http serve error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := srv.Shutdown(stopCtx); err != nil {
		log.Warn("graceful stop timeout, forcing close", slog.Any("err", err))
		srv.Close()
	}

	wg.Wait()
	log.Info("bye")
}
