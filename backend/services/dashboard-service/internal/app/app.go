package app

import (
	"context"
	"database/sql"
	"errors"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libredis "citydash/backend/libs/redis"
	"citydash/backend/services/dashboard-service/internal/clients"
	"citydash/backend/services/dashboard-service/internal/config"
	"citydash/backend/services/dashboard-service/internal/db"
	httpserver "citydash/backend/services/dashboard-service/internal/http"
	"citydash/backend/services/dashboard-service/internal/http/handlers"
	"citydash/backend/services/dashboard-service/internal/http/middleware"
	"citydash/backend/services/dashboard-service/internal/media"
	"citydash/backend/services/dashboard-service/internal/metrics"
	"citydash/backend/services/dashboard-service/internal/notify"
	redisstore "citydash/backend/services/dashboard-service/internal/redis"
	"citydash/backend/services/dashboard-service/internal/repository"
	"citydash/backend/services/dashboard-service/internal/service"
	"citydash/backend/services/dashboard-service/internal/ws"
)

// App wires dashboard service dependencies.
type App struct {
	db         *sql.DB
	redis      *goredis.Client
	dispatcher *notify.Dispatcher
	live       *ws.Manager
	server     *httpserver.Server
	logger     *zap.Logger
}

// New constructs application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(libredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	switch {
	case errors.Is(err, libredis.ErrDisabled):
		logger.Info("redis not configured, report notifications are not deduplicated")
	case err != nil:
		sqlDB.Close()
		return nil, err
	}

	m := metrics.New()

	trafficRepo := repository.NewTrafficRepository(sqlDB)
	statsRepo := repository.NewStatsRepository(sqlDB)
	reportRepo := repository.NewReportRepository(sqlDB)
	subscriberRepo := repository.NewSubscriberRepository(sqlDB)

	httpClient := clients.NewDefaultHTTPClient(cfg.TrafficTimeout())

	var analyzer service.TrafficAnalyzer
	if cfg.Webhooks.TrafficURL != "" {
		analyzer = clients.NewTrafficClient(cfg.Webhooks.TrafficURL, httpClient)
	} else {
		logger.Warn("traffic webhook not configured, /check-traffic will answer 503")
	}

	var notifier notify.Notifier
	if cfg.Webhooks.ReportURL != "" {
		notifier = clients.NewReportClient(cfg.Webhooks.ReportURL, httpClient)
	}
	var guard notify.Guard
	if redisClient != nil {
		guard = redisstore.NewNotificationGuard(redisClient, cfg.NotificationGuardTTL())
	}
	dispatcher := notify.NewDispatcher(notifier, guard, cfg.ReportTimeout(), m, logger)

	trafficService := service.NewTrafficService(analyzer, trafficRepo, cfg.TrafficTimeout(), m, logger)
	statsService := service.NewStatsService(statsRepo, m, logger)
	dashboardService := service.NewDashboardService(trafficRepo, statsRepo, reportRepo, logger)
	reportService := service.NewReportService(reportRepo, dispatcher, logger)
	subscriptionService := service.NewSubscriptionService(subscriberRepo, logger)

	liveManager := ws.NewManager()
	liveServer := ws.NewServer(
		liveManager,
		dashboardService,
		cfg.LiveInterval(),
		middleware.OriginChecker(cfg.HTTP.AllowedOrigins),
		m,
		logger,
	)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Traffic:       handlers.NewTrafficHandlers(trafficService),
		Stats:         handlers.NewStatsHandlers(statsService),
		Dashboard:     handlers.NewDashboardHandlers(dashboardService),
		Reports:       handlers.NewReportHandlers(reportService, media.NewDiskStore(cfg.Media.Dir), logger),
		Subscriptions: handlers.NewSubscriptionHandlers(subscriptionService),
		Live:          liveServer.HandleLive,
		Health:        handlers.NewHealthHandler(sqlDB, logger),
		Metrics:       m.Handler(),
	}, middleware.AuthMiddleware(cfg.Auth.Secret), middleware.LoggingMiddleware(logger, m))

	if cfg.Auth.Secret == "" {
		logger.Warn("auth secret not configured, automation and admin routes are open")
	}

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.CORSMiddleware(cfg.HTTP.AllowedOrigins),
	)

	return &App{
		db:         sqlDB,
		redis:      redisClient,
		dispatcher: dispatcher,
		live:       liveManager,
		server:     server,
		logger:     logger,
	}, nil
}

// Migrate applies the embedded schema.
func (a *App) Migrate(ctx context.Context) error {
	applied, err := db.Migrate(ctx, a.db)
	if err != nil {
		return err
	}
	a.logger.Info("schema migrated", zap.Strings("files", applied))
	return nil
}

// Run starts serving HTTP traffic.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close drains live feeds and pending notifications, then releases connections.
func (a *App) Close() {
	a.live.CloseAll()
	a.dispatcher.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("close postgres", zap.Error(err))
	}
}
