package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/application/monitoring"
	syncapp "github.com/wms/backend/internal/application/sync"
	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/infrastructure/cache"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/credentials"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/marketplace"
	"github.com/wms/backend/internal/infrastructure/notification"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/ratelimit"
	"github.com/wms/backend/internal/infrastructure/retry"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting WMS sync engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate engine tables", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Initialize repositories
	connectionRepo := persistence.NewGormConnectionRepository(db.DB)
	orderImportRepo := persistence.NewGormOrderImportRepository(db.DB)
	skuMappingRepo := persistence.NewGormSkuMappingRepository(db.DB)
	alternateSkuRepo := persistence.NewGormAlternateSkuRepository(db.DB)
	syncLogRepo := persistence.NewGormSyncLogRepository(db.DB)
	alertRecordRepo := persistence.NewGormAlertRecordRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	stockProvider := persistence.NewGormStockProvider(db.DB)

	// Credential store
	credentialStore, err := credentials.NewAESGCMStore(cfg.Secrets.Passphrase, cfg.Secrets.Salt)
	if err != nil {
		log.Fatal("Failed to initialize credential store", zap.Error(err))
	}

	// Platform client stack: adapter wrapped by rate limiter and retry policy
	limiter := ratelimit.NewSlidingWindowLimiter(log)
	retrier := retry.NewExecutor(cfg.Sync.RetryMaxAttempts, cfg.Sync.RetryBaseDelay, log)
	clientFactory := marketplace.NewFactory(credentialStore, limiter, retrier, cfg.Sync.PlatformTimeout, log)

	// Sync services
	skuResolver := syncapp.NewSkuResolver(skuMappingRepo, alternateSkuRepo, productRepo, log)
	importPipeline := syncapp.NewOrderImportPipeline(orderImportRepo, orderRepo, skuResolver, log)
	syncRunner := syncapp.NewSyncRunner(
		connectionRepo, skuMappingRepo, productRepo, stockProvider,
		syncLogRepo, clientFactory, importPipeline,
		syncapp.Config{OrderLookback: cfg.Sync.OrderLookback}, log,
	)

	// Alert throttle store: Redis when configured, process-local otherwise
	var throttleStore integration.ThrottleStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisThrottleStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		throttleStore = redisStore
		log.Info("Using Redis alert throttle store")
	} else {
		throttleStore = cache.NewInMemoryThrottleStore()
	}

	// Notification channels
	channels := buildChannels(&cfg.Alert, log)

	// Monitoring services
	dispatcher := monitoring.NewAlertDispatcher(channels, throttleStore, alertRecordRepo,
		monitoring.DispatcherConfig{ThrottleWindow: cfg.Alert.ThrottleWindow}, log)
	monitor := monitoring.NewHealthMonitor(connectionRepo, syncLogRepo, clientFactory, dispatcher,
		monitoring.Config{
			QuickInterval:         cfg.Monitor.QuickInterval,
			FullInterval:          cfg.Monitor.FullInterval,
			DeepInterval:          cfg.Monitor.DeepInterval,
			TokenExpiryInterval:   cfg.Monitor.TokenExpiryInterval,
			HistoryRetention:      cfg.Monitor.HistoryRetention,
			FailureThreshold:      cfg.Monitor.FailureThreshold,
			LatencyThreshold:      cfg.Monitor.LatencyThreshold,
			TokenWarningDays:      cfg.Monitor.TokenWarningDays,
			TokenCriticalDays:     cfg.Monitor.TokenCriticalDays,
			RecentSyncWindow:      cfg.Monitor.RecentSyncWindow,
			RecentSyncMaxFailures: cfg.Monitor.RecentSyncMaxFailures,
		}, log)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	if cfg.Monitor.Enabled {
		if err := monitor.Start(rootCtx); err != nil {
			log.Fatal("Failed to start health monitor", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := monitor.Stop(stopCtx); err != nil {
				log.Error("Error stopping health monitor", zap.Error(err))
			}
		}()
	}

	if cfg.Sync.Enabled {
		scheduler := syncapp.NewScheduler(syncRunner, cfg.Sync.OrderInterval, log)
		if err := scheduler.Start(rootCtx); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := scheduler.Stop(stopCtx); err != nil {
				log.Error("Error stopping sync scheduler", zap.Error(err))
			}
		}()
	}

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	integrationHandler := handler.NewIntegrationHandler(syncRunner, monitor, alertRecordRepo, cfg.Alert.HistoryLimit)
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(integrationHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	rootCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// buildChannels constructs the enabled notification channels
func buildChannels(cfg *config.AlertConfig, log *zap.Logger) []integration.NotificationChannel {
	channels := make([]integration.NotificationChannel, 0, 3)

	if cfg.SlackEnabled {
		channels = append(channels, notification.NewSlackChannel(cfg.SlackWebhookURL, 10*time.Second))
		log.Info("Slack alert channel enabled")
	}
	if cfg.WebhookEnabled {
		channels = append(channels, notification.NewWebhookChannel("webhook", cfg.WebhookURL, 10*time.Second))
		log.Info("Webhook alert channel enabled")
	}
	if cfg.EmailEnabled {
		channels = append(channels, notification.NewEmailChannel(notification.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
			To:       cfg.EmailTo,
		}))
		log.Info("Email alert channel enabled")
	}
	if len(channels) == 0 {
		log.Warn("No alert channels configured, alerts will only be persisted")
	}
	return channels
}
