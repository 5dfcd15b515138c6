package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zxen1/Events-Platform-sub002/config"
	"github.com/Zxen1/Events-Platform-sub002/internal/cache"
	"github.com/Zxen1/Events-Platform-sub002/internal/database"
	"github.com/Zxen1/Events-Platform-sub002/internal/handler"
	"github.com/Zxen1/Events-Platform-sub002/internal/queue"
	"github.com/Zxen1/Events-Platform-sub002/internal/repository"
	"github.com/Zxen1/Events-Platform-sub002/internal/service"
	"github.com/Zxen1/Events-Platform-sub002/internal/worker"
	"github.com/Zxen1/Events-Platform-sub002/migrations"
	"github.com/Zxen1/Events-Platform-sub002/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.WithComponent("server")

	if err := logger.SetLevel(cfg.Server.LogLevel); err != nil {
		log.Warn("invalid LOG_LEVEL, keeping default", zap.String("level", cfg.Server.LogLevel), zap.Error(err))
	}
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	var listingQueue queue.ListingQueue
	switch cfg.Queue.Backend {
	case "redis":
		listingQueue, err = queue.NewRedisStreamListingQueue(rdb, "", nil)
		if err != nil {
			log.Fatal("Failed to initialize redis stream queue", zap.Error(err))
		}
	default:
		listingQueue = queue.NewListingQueue(cfg.Queue.Buffer)
	}

	listingService := service.NewListingService(
		repository.NewListingRepository(pool),
		cache.NewRedisDraftCache(rdb, cfg.Draft.TTL),
		listingQueue,
		service.StaticCurrencyProvider(cfg.Currency.Currencies),
		cfg.Limits,
		cfg.Currency.Default,
	)

	if err := worker.NewListingWorker(listingService, listingQueue).Start(ctx); err != nil {
		log.Fatal("Failed to start listing worker", zap.Error(err))
	}

	router := gin.Default()
	handler.NewListingHandler(listingService).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("queue", cfg.Queue.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	_ = logger.L.Sync()
}
