package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/pelyams/car_catalog_service/internal/adapters/assets"
	"github.com/pelyams/car_catalog_service/internal/adapters/cache"
	"github.com/pelyams/car_catalog_service/internal/adapters/repository"
	"github.com/pelyams/car_catalog_service/internal/auth"
	"github.com/pelyams/car_catalog_service/internal/config"
	"github.com/pelyams/car_catalog_service/internal/ports"
	"github.com/pelyams/car_catalog_service/internal/routing"
	"github.com/pelyams/car_catalog_service/internal/service"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

type App struct {
	config        *config.Config
	db            *sql.DB
	redis         *redis.Client
	cache         ports.ResponseCache
	service       ports.CatalogService
	router        http.Handler
	logger        *routing.Logger
	meterProvider *sdkmetric.MeterProvider
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// instruments are created by the constructors below, so the provider
	// has to be installed first
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(meterProvider)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	databaseClient, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	databaseClient.SetMaxOpenConns(25)
	databaseClient.SetMaxIdleConns(5)
	databaseClient.SetConnMaxLifetime(30 * time.Minute)

	repo := repository.NewPostgresRepository(databaseClient)
	if err := repo.Ping(ctx); err != nil {
		databaseClient.Close()
		return nil, err
	}
	if err := repo.Migrate(ctx); err != nil {
		databaseClient.Close()
		return nil, err
	}

	var redisClient *redis.Client
	var responseCache ports.ResponseCache
	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		responseCache = cache.NewMemoryCache()
	default:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       0,
		})
		responseCache = cache.NewRedisCache(redisClient)
		// an unreachable cache only degrades reads; readiness reports it
		if err := responseCache.Ping(ctx); err != nil {
			log.Printf("Warning: response cache unavailable at startup: %v", err)
		}
	}

	assetHost, err := newAssetHost(cfg)
	if err != nil {
		databaseClient.Close()
		return nil, err
	}

	svc := service.NewCatalogService(repo, responseCache, assetHost)
	handler := routing.NewProductHandler(svc)
	router := routing.NewRouter(handler, routing.NewResponseCacher(responseCache), routing.RouterConfig{
		CacheTTL: cfg.CacheTTL,
		Authenticator: auth.NewJWTAuthenticator(auth.JWTConfig{
			Secret: []byte(cfg.JWTSecret),
			Issuer: cfg.JWTIssuer,
		}),
		Checks: map[string]routing.Checker{
			"postgres": repo,
			"cache":    responseCache,
		},
		Metrics: promhttp.Handler(),
	}).SetupRoutes()

	logger, err := routing.NewLogger(cfg.LogFile)
	if err != nil {
		databaseClient.Close()
		return nil, err
	}
	if cfg.JWTSecret == "" {
		logger.Printf("Warning: AUTH_JWT_SECRET is not set, product creation is disabled")
	}

	return &App{
		config:        cfg,
		db:            databaseClient,
		redis:         redisClient,
		cache:         responseCache,
		service:       svc,
		router:        router,
		logger:        logger,
		meterProvider: meterProvider,
	}, nil
}

func newAssetHost(cfg *config.Config) (ports.AssetHost, error) {
	switch cfg.AssetHost {
	case config.AssetHostCloudinary:
		return assets.NewCloudinaryHost(cfg.CloudinaryURL)
	case config.AssetHostMinio:
		return assets.NewMinioHost(assets.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		return assets.Unconfigured{}, nil
	}
}

// Run serves the API until SIGINT or SIGTERM, then drains in-flight requests
// and releases the app's connections.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              ":" + a.config.Port,
		Handler:           a.logger.LoggerMiddleware(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Printf("Catalog API listening on %s (cache backend: %s, asset host: %s)", server.Addr, a.config.CacheBackend, a.config.AssetHost)
		serveErr <- server.ListenAndServe()
	}()

	var err error
	select {
	case err = <-serveErr:
	case <-ctx.Done():
		a.logger.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = server.Shutdown(shutdownCtx)
		if mpErr := a.meterProvider.Shutdown(shutdownCtx); mpErr != nil {
			err = errors.Join(err, mpErr)
		}
	}
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return errors.Join(err, a.close())
}

func (a *App) close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.db.Close(), a.logger.Close())
	return errors.Join(errs...)
}
