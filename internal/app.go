package internal

import (
	"context"
	logger_adapter "farmboard/internal/adapters/logger"
	"farmboard/internal/adapters/marketplace_api_client"
	"farmboard/internal/adapters/memstorage"
	postgres_adapter "farmboard/internal/adapters/postgres"
	rabbitmq_adapter "farmboard/internal/adapters/rabbitmq"
	"farmboard/internal/adapters/rest"
	"farmboard/internal/configs"
	"farmboard/internal/constants"
	"farmboard/internal/contracts"
	"farmboard/internal/core/port"
	"farmboard/internal/core/usecase"
	fluentlogger "farmboard/pkg/fluent_logger"
	"farmboard/pkg/postgres"
	"farmboard/pkg/rabbitmq/rabbitmq_common"
	"farmboard/pkg/rabbitmq/rabbitmq_producer"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	apiServer *rest.Server
	registry  *usecase.SessionRegistry

	rabbitManager  *rabbitmq_common.ConnectionManager
	eventsProducer *rabbitmq_producer.Publisher

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig}

	// --- 1. ЛОГГЕРЫ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if appConfig.FluentBit.Enabled {
		app.fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
			Timeout:   3 * time.Second,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(app.fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			app.fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	app.logger = baseLogger.WithFields(port.Fields{"component": "app"})
	app.logger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. ЛОКАЛЬНОЕ ХРАНИЛИЩЕ ФЛАГОВ ---
	storage, err := app.initLocalStorage(context.Background())
	if err != nil {
		app.closeResources()
		return nil, err
	}

	// --- 3. СОБЫТИЯ ЛЕНТЫ ---
	events, err := app.initFeedEvents(baseLogger)
	if err != nil {
		app.closeResources()
		return nil, err
	}

	// --- 4. БЭКЕНД МАРКЕТПЛЕЙСА ---
	contractRegistry, err := contracts.NewRegistry()
	if err != nil {
		app.logger.Error("Failed to compile response contracts", err, nil)
		app.closeResources()
		return nil, fmt.Errorf("failed to compile response contracts: %w", err)
	}
	feedClient := marketplace_api_client.NewClient(appConfig.MarketplaceAPI.BaseURL, appConfig.MarketplaceAPI.Timeout, contractRegistry)
	app.logger.Info("Marketplace API client configured", port.Fields{
		"base_url": appConfig.MarketplaceAPI.BaseURL,
		"timeout":  appConfig.MarketplaceAPI.Timeout.String(),
	})

	// --- 5. USE CASES И REST ---
	app.registry = usecase.NewSessionRegistry(feedClient, events, storage, usecase.SessionOptions{
		DeduplicateByID:   appConfig.Feed.DeduplicateByID,
		DiscardStalePages: appConfig.Feed.DiscardStalePages,
	}, appConfig.Feed.SessionTTL)

	feedHandler := rest.NewFeedHandler(app.registry)
	app.apiServer = rest.NewServer(appConfig.Rest.PORT, appConfig.Rest.AllowedOrigins, feedHandler, baseLogger)
	app.logger.Info("REST API server configured.", nil)

	return app, nil
}

func (a *App) initLocalStorage(ctx context.Context) (port.LocalStoragePort, error) {
	if a.config.Database.URL == "" {
		a.logger.Warn("DATABASE_URL is not set, refresh flags are kept in memory", nil)
		return memstorage.NewMemoryStorage(), nil
	}

	dbPool, err := postgres.NewClient(ctx, postgres.Config{
		DatabaseURL: a.config.Database.URL,
		PingTimeout: 5 * time.Second,
	})
	if err != nil {
		a.logger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.dbPool = dbPool
	a.logger.Info("Successfully connected to PostgreSQL pool!", nil)

	repo, err := postgres_adapter.NewPostgresLocalStorageRepository(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create local storage repository: %w", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		a.logger.Error("Failed to prepare local_storage table", err, nil)
		return nil, err
	}
	return repo, nil
}

func (a *App) initFeedEvents(baseLogger port.LoggerPort) (port.FeedEventsPort, error) {
	if !a.config.RabbitMQ.Enabled {
		a.logger.Info("RabbitMQ disabled, feed events are not published", nil)
		return rabbitmq_adapter.NoopFeedEvents{}, nil
	}

	pkgLogger := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))

	manager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: a.config.RabbitMQ.URL}, pkgLogger)
	if err != nil {
		a.logger.Error("Failed to connect to RabbitMQ", err, nil)
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	a.rabbitManager = manager

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		ExchangeName:             constants.FeedEventsExchange,
		ExchangeType:             constants.FeedEventsExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   pkgLogger,
	}, manager)
	if err != nil {
		a.logger.Error("Failed to create feed events producer", err, nil)
		return nil, fmt.Errorf("failed to create feed events producer: %w", err)
	}
	a.eventsProducer = producer

	adapter, err := rabbitmq_adapter.NewFeedEventsAdapter(producer)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Feed events publisher configured", port.Fields{"exchange": constants.FeedEventsExchange})
	return adapter, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}

		a.closeResources()
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil {
			serverErrors <- err
		}
	}()

	go a.runEviction(appCtx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-serverErrors:
		a.logger.Error("Server failed, shutting down", err, nil)
		return err
	}
}

// runEviction периодически удаляет простаивающие сессии ленты.
func (a *App) runEviction(ctx context.Context) {
	interval := a.config.Feed.EvictionInterval
	if interval <= 0 || a.config.Feed.SessionTTL <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if evicted := a.registry.EvictIdle(now); evicted > 0 {
				a.logger.Info("Evicted idle feed sessions", port.Fields{
					"evicted": evicted,
					"active":  a.registry.Len(),
				})
			}
		}
	}
}

// closeResources закрывает то, что успело открыться. Fluent закрывается последним.
func (a *App) closeResources() {
	if a.eventsProducer != nil {
		if err := a.eventsProducer.Close(); err != nil {
			a.logger.Error("Error closing feed events producer", err, nil)
		}
	}
	if a.rabbitManager != nil {
		if err := a.rabbitManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	if a.logger != nil {
		a.logger.Info("Application resources released.", nil)
	}

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent уже может быть недоступен, пишем в stdout
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	level, ok := logger_adapter.ParseLevel(levelStr)
	if !ok {
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
	}
	return level
}
