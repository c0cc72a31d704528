package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	orderapp "github.com/wyfcoding/stockkeeper/internal/order/application"
	orderdomain "github.com/wyfcoding/stockkeeper/internal/order/domain"
	ordermysql "github.com/wyfcoding/stockkeeper/internal/order/infrastructure/persistence/mysql"
	orderredis "github.com/wyfcoding/stockkeeper/internal/order/infrastructure/persistence/redis"
	orderhttp "github.com/wyfcoding/stockkeeper/internal/order/interfaces/http"
	stockapp "github.com/wyfcoding/stockkeeper/internal/stock/application"
	stockdomain "github.com/wyfcoding/stockkeeper/internal/stock/domain"
	"github.com/wyfcoding/stockkeeper/internal/stock/infrastructure/catalog"
	"github.com/wyfcoding/stockkeeper/internal/stock/infrastructure/messaging"
	stockmysql "github.com/wyfcoding/stockkeeper/internal/stock/infrastructure/persistence/mysql"
	stockredis "github.com/wyfcoding/stockkeeper/internal/stock/infrastructure/persistence/redis"
	stockhttp "github.com/wyfcoding/stockkeeper/internal/stock/interfaces/http"
	"github.com/wyfcoding/stockkeeper/pkg/cache"
	"github.com/wyfcoding/stockkeeper/pkg/config"
	"github.com/wyfcoding/stockkeeper/pkg/db"
	"github.com/wyfcoding/stockkeeper/pkg/logger"
	"github.com/wyfcoding/stockkeeper/pkg/metrics"
	"github.com/wyfcoding/stockkeeper/pkg/middleware"
	"github.com/wyfcoding/stockkeeper/pkg/mq"
	"github.com/wyfcoding/stockkeeper/pkg/ratelimit"
)

var configPath = flag.String("config", "configs/server/config.toml", "config file path")

type repositories struct {
	products  stockdomain.ProductRepository
	movements stockdomain.MovementRepository
	items     orderdomain.ItemRepository
	overrides orderdomain.OverrideRepository
	// redis is set with the redis storage driver, nil otherwise
	redis   *cache.RedisCache
	cleanup func()
}

func main() {
	flag.Parse()

	// 1. Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Logger
	if err := logger.Init(cfg.Logger); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	ctx := context.Background()

	// 3. Metrics
	m := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		go m.ExposeHTTP(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// 4. Persistence
	repos, err := buildRepositories(cfg)
	if err != nil {
		logger.Error(ctx, "failed to init storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.cleanup()

	// 5. Catalog lookup
	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL:    cfg.Catalog.BaseURL,
		Timeout:    cfg.Catalog.Timeout,
		RetryCount: cfg.Catalog.RetryCount,
		PageSize:   cfg.Catalog.PageSize,
	}, m)

	// 6. Movement audit stream, disabled when no brokers are configured
	var publisher stockdomain.MovementPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		})
		if err != nil {
			logger.Error(ctx, "failed to init kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = messaging.NewKafkaMovementPublisher(producer, cfg.Kafka.MovementTopic)
	}

	// 7. Application services
	stockService := stockapp.NewStockService(repos.products, repos.movements, catalogClient, publisher, m)
	orderService := orderapp.NewOrderService(repos.items, repos.overrides, stockService, m)

	// 8. HTTP
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.GinLogging(), middleware.GinMetrics(m))
	if cfg.RateLimit.Enabled && repos.redis != nil {
		limiter := ratelimit.NewRedisLimiter(repos.redis.GetClient())
		r.Use(middleware.GinRateLimit(limiter, cfg.RateLimit.QPS, cfg.RateLimit.Burst))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName, "version": cfg.Version})
	})

	api := r.Group("/api/v1")
	stockhttp.NewStockHandler(stockService).RegisterRoutes(api)
	orderhttp.NewOrderHandler(orderService).RegisterRoutes(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 9. Start
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(gctx, "shutting down server...")
		case <-gctx.Done():
			logger.Info(gctx, "context cancelled, shutting down...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
	}
}

func buildRepositories(cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case "mysql":
		database, err := db.Init(db.Config{
			DSN:             cfg.MySQL.DSN,
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			LogEnabled:      cfg.MySQL.LogEnabled,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Environment == "dev" {
			if err := database.DB.AutoMigrate(
				&stockmysql.ProductPO{},
				&stockmysql.MovementPO{},
				&ordermysql.ItemPO{},
				&ordermysql.OverridePO{},
			); err != nil {
				return nil, err
			}
		}
		return &repositories{
			products:  stockmysql.NewProductRepository(database.DB),
			movements: stockmysql.NewMovementRepository(database.DB),
			items:     ordermysql.NewItemRepository(database.DB),
			overrides: ordermysql.NewOverrideRepository(database.DB),
			cleanup:   func() { _ = database.Close() },
		}, nil

	default:
		kv, err := cache.New(cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ConnTimeout:  cfg.Redis.ConnTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return nil, err
		}
		return &repositories{
			products:  stockredis.NewProductRepository(kv),
			movements: stockredis.NewMovementRepository(kv),
			items:     orderredis.NewItemRepository(kv),
			overrides: orderredis.NewOverrideRepository(kv),
			redis:     kv,
			cleanup:   func() { _ = kv.Close() },
		}, nil
	}
}
