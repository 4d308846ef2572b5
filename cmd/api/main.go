package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/satyam539813/farmappsample/api/routes"
	"github.com/satyam539813/farmappsample/internal/analysis"
	"github.com/satyam539813/farmappsample/internal/auth"
	"github.com/satyam539813/farmappsample/internal/cart"
	"github.com/satyam539813/farmappsample/internal/catalog"
	"github.com/satyam539813/farmappsample/internal/favorites"
	"github.com/satyam539813/farmappsample/internal/orders"
	appsession "github.com/satyam539813/farmappsample/internal/session"
	"github.com/satyam539813/farmappsample/internal/users"
	"github.com/satyam539813/farmappsample/pkg/auth/session"
	"github.com/satyam539813/farmappsample/pkg/config"
	"github.com/satyam539813/farmappsample/pkg/db"
	"github.com/satyam539813/farmappsample/pkg/logger"
	"github.com/satyam539813/farmappsample/pkg/metrics"
	"github.com/satyam539813/farmappsample/pkg/migrate"
	"github.com/satyam539813/farmappsample/pkg/redis"
	"github.com/satyam539813/farmappsample/pkg/security"
	"github.com/satyam539813/farmappsample/pkg/vision"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Static:      map[string]any{"env": cfg.App.Env},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefront(registry)
	httpMetrics := metrics.NewHTTP(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}
	locker, err := redis.NewLocker(redisClient, cfg.Storefront.CartLockTTL)
	if err != nil {
		logg.Error(ctx, "failed to create owner locker", err)
		os.Exit(1)
	}

	cat := catalog.Default()

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, storefrontMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	cartManager, err := cart.NewManager(cart.ManagerParams{
		Remote:          cart.NewRemoteStore(dbClient.DB()),
		Local:           cart.NewLocalStore(redisClient, cfg.Storefront.DeviceStorageTTL),
		Catalog:         cat,
		Orders:          ordersService,
		Locker:          locker,
		Keys:            redisClient,
		MaxLineQuantity: cfg.Storefront.MaxLineQuantity,
		Metrics:         storefrontMetrics,
		Logger:          logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart manager", err)
		os.Exit(1)
	}

	favoritesManager, err := favorites.NewManager(favorites.ManagerParams{
		Remote:  favorites.NewRemoteStore(dbClient.DB()),
		Local:   favorites.NewLocalStore(redisClient, cfg.Storefront.DeviceStorageTTL),
		Catalog: cat,
		Locker:  locker,
		Keys:    redisClient,
		Metrics: storefrontMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create favorites manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		Hasher:         security.NewHasher(cfg.Password),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		Hooks:          []appsession.TransitionHook{cartManager, favoritesManager},
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	analysisService := newAnalysisService(ctx, cfg, storefrontMetrics, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient, sessionManager, registry, httpMetrics, cat,
			authService, ordersService, cartManager, favoritesManager, analysisService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(shutdownCtx, "shutting down api server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}
}

// newAnalysisService wires the vision provider when an API key is configured.
func newAnalysisService(ctx context.Context, cfg *config.Config, recorder *metrics.Storefront, logg *logger.Logger) analysis.Service {
	maxBytes := int64(cfg.Vision.MaxImageMB) << 20
	if !cfg.Vision.Enabled() {
		logg.Warn(ctx, "vision api key not set, image analysis disabled")
		return analysis.NewService(nil, maxBytes, recorder, logg)
	}
	client, err := vision.NewClient(
		cfg.Vision.APIKey,
		vision.WithBaseURL(cfg.Vision.BaseURL),
		vision.WithModel(cfg.Vision.Model),
		vision.WithMaxTokens(cfg.Vision.MaxTokens),
		vision.WithReferer(cfg.Vision.Referer),
		vision.WithHTTPClient(&http.Client{Timeout: cfg.Vision.Timeout}),
	)
	if err != nil {
		logg.Error(ctx, "failed to create vision client, image analysis disabled", err)
		return analysis.NewService(nil, maxBytes, recorder, logg)
	}
	logg.Info(logg.WithField(ctx, "model", client.Model()), "image analysis enabled")
	return analysis.NewService(client, maxBytes, recorder, logg)
}
