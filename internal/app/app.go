package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/barisbll/influshop-backend-sub000/internal/auth"
	"github.com/barisbll/influshop-backend-sub000/internal/config"
	"github.com/barisbll/influshop-backend-sub000/internal/event"
	handler "github.com/barisbll/influshop-backend-sub000/internal/handler/http"
	"github.com/barisbll/influshop-backend-sub000/internal/media"
	"github.com/barisbll/influshop-backend-sub000/internal/repository/postgres"
	redisrepo "github.com/barisbll/influshop-backend-sub000/internal/repository/redis"
	"github.com/barisbll/influshop-backend-sub000/internal/service"
	"github.com/barisbll/influshop-backend-sub000/migrations"
	"github.com/barisbll/influshop-backend-sub000/pkg/database"
	"github.com/barisbll/influshop-backend-sub000/pkg/health"
	"github.com/barisbll/influshop-backend-sub000/pkg/httpclient"
	pkgkafka "github.com/barisbll/influshop-backend-sub000/pkg/kafka"
	"github.com/barisbll/influshop-backend-sub000/pkg/middleware"
	"github.com/barisbll/influshop-backend-sub000/pkg/tracing"
)

const cartTTL = 30 * 24 * time.Hour

// App wires together all dependencies and runs the backend.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "influshop-backend",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "influshop")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Initialize Redis client for carts.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr()))

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Parse JWT expiry durations.
	accessExpiry, err := time.ParseDuration(cfg.JWTAccessExpiry)
	if err != nil {
		return nil, fmt.Errorf("parse JWT access expiry %q: %w", cfg.JWTAccessExpiry, err)
	}
	refreshExpiry, err := time.ParseDuration(cfg.JWTRefreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("parse JWT refresh expiry %q: %w", cfg.JWTRefreshExpiry, err)
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, accessExpiry, refreshExpiry)

	userRepo := postgres.NewUserRepository(pool)
	influencerRepo := postgres.NewInfluencerRepository(pool)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(pool)
	itemGroupRepo := postgres.NewItemGroupRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	starRepo := postgres.NewStarRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	favoriteRepo := postgres.NewFavoriteRepository(pool)
	addressRepo := postgres.NewAddressRepository(pool)
	paymentRepo := postgres.NewPaymentMethodRepository(pool)
	cartRepo := redisrepo.NewCartRepository(redisClient, cartTTL)

	eventProducer := event.NewProducer(producer, logger)

	cdnClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("cdn"),
		logger,
	)
	uploader := media.NewUploader(media.Config{
		BaseURL:   cfg.CDNBaseURL,
		APIKey:    cfg.CDNAPIKey,
		PublicURL: cfg.CDNPublicURL,
	}, cdnClient, logger)

	accountService := service.NewAccountService(userRepo, influencerRepo, refreshTokenRepo, jwtManager, eventProducer, logger)
	profileService := service.NewProfileService(userRepo, influencerRepo, refreshTokenRepo, addressRepo, paymentRepo, cartRepo, uploader, logger)
	catalogService := service.NewCatalogService(itemRepo, itemGroupRepo, eventProducer, uploader, logger)
	ratingService := service.NewRatingService(starRepo, eventProducer, logger)
	commentService := service.NewCommentService(commentRepo, itemRepo, logger)
	reportService := service.NewReportService(reportRepo, itemRepo, commentRepo, userRepo, influencerRepo, eventProducer, logger)
	cartService := service.NewCartService(cartRepo, itemRepo, logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, itemRepo, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterDeps{
		Accounts:   accountService,
		Profiles:   profileService,
		Catalog:    catalogService,
		Ratings:    ratingService,
		Comments:   commentService,
		Reports:    reportService,
		Carts:      cartService,
		Favorites:  favoriteService,
		JWTManager: jwtManager,
		Health:     healthHandler,
		CORS:       corsCfg,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. Redis client
// 5. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
