package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"restaurant-service/cache"
	apperrors "restaurant-service/common/errors"
	"restaurant-service/common/logger"
	"restaurant-service/common/middleware"
	"restaurant-service/controllers"
	"restaurant-service/cooking"
	"restaurant-service/database"
	"restaurant-service/events"
	awspkg "restaurant-service/pkg/aws"
	"restaurant-service/repository"
	"restaurant-service/routes"
	"restaurant-service/services"
)

const serviceName = "restaurant-service"

func main() {
	logger.Initialize(os.Getenv("APP_ENV"))
	defer func() { _ = logger.Log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- AWS setup (non-fatal: every AWS feature is optional) ---
	awsCfg, awsErr := awspkg.LoadAWSConfig(ctx)
	if awsErr != nil {
		logger.Log.Warn("AWS config unavailable, AWS integrations disabled", zap.Error(awsErr))
	}
	var fetchSecret secretFetcher
	if awsErr == nil {
		fetchSecret = awspkg.NewSecretsClient(awsCfg).GetJSONSecret
	}

	cfg, err := LoadConfig(ctx, fetchSecret)
	if err != nil {
		logger.Log.Fatal("Config load failed", zap.Error(err))
	}

	// CloudWatch Logs: tee structured logs once the config says so.
	if cfg.CloudWatchEnabled && awsErr == nil {
		cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, cfg.CloudWatchLogGroup, serviceName, true)
		if err != nil {
			logger.Log.Warn("CloudWatch logs client init failed (non-fatal)", zap.Error(err))
			logger.Initialize(cfg.AppEnv)
		} else {
			logger.InitializeWithWriter(cfg.AppEnv, cwLogs)
		}
	} else {
		logger.Initialize(cfg.AppEnv)
	}
	log := logger.Log

	// --- Database ---
	db, err := openDatabase(ctx, log, cfg)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	store := repository.NewGormStore(db)

	// --- Identity cache ---
	var idCache services.IdentityCache
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, identity cache disabled", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			idCache = cache.NewIdentityCache(client, cfg.IdentityCacheTTL)
		}
	}

	// --- Order events ---
	var sinks []events.Sink
	if cfg.OrderEventsTopicARN != "" && awsErr == nil {
		topic, err := awspkg.NewOrderTopic(awsCfg, cfg.OrderEventsTopicARN)
		if err != nil {
			log.Warn("SNS order topic unavailable, SNS events disabled", zap.Error(err))
		} else {
			sinks = append(sinks, events.NewSNSSink(topic))
		}
	}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink := events.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaOrderTopic, log)
		defer func() {
			if err := kafkaSink.Close(); err != nil {
				log.Error("Kafka writer close error", zap.Error(err))
			}
		}()
		sinks = append(sinks, kafkaSink)
	}
	emitter := events.NewEmitter(log, sinks...)

	// --- CloudWatch metrics ---
	metricsClient := awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, cfg.CloudWatchEnabled && awsErr == nil)

	// --- Dependency injection ---
	ledger := services.NewOrderLedger(store, cooking.DefaultPolicy(), log)
	orderService := services.NewOrderService(ledger, services.NewOrderQuery(store), store, emitter, metricsClient, log)
	tableService := services.NewTableService(store, idCache, metricsClient, log)
	menuService := services.NewMenuService(store, idCache, metricsClient, log)

	orderController := controllers.NewOrderController(orderService)
	tableController := controllers.NewTableController(tableService)
	menuController := controllers.NewMenuController(menuService)
	healthController := controllers.NewHealthController(store, serviceName)

	// --- HTTP router ---
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, 5*time.Minute)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimitMiddleware(limiter))
	r.Use(middleware.MetricsMiddleware(metricsClient, serviceName))
	r.Use(requestTimeout(cfg.RequestTimeout))
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterTableRoutes(r, tableController, orderController)
	routes.RegisterMenuRoutes(r, menuController)
	routes.RegisterOrderRoutes(r, orderController)
	routes.RegisterHealthRoutes(r, healthController)

	// --- HTTP server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Restaurant Service started", zap.String("port", cfg.Port), zap.String("db_driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := emitter.Close(shutdownCtx); err != nil {
		log.Warn("Order events still queued at shutdown", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}

	log.Info("Restaurant Service stopped gracefully")
}

func openDatabase(ctx context.Context, log *zap.Logger, cfg *Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "postgres":
		return database.ConnectPostgres(ctx, log, cfg.Postgres)
	case "sqlite":
		return database.OpenSQLite(log, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// requestTimeout bounds every request's context.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
