package app

import (
	"context"
	"fmt"

	"seedbreed/common/database"
	commonmqtt "seedbreed/common/mqtt"
	commonredis "seedbreed/common/redis"
	"seedbreed/internal/config"
	"seedbreed/internal/lineage"
	"seedbreed/internal/repository"
	"seedbreed/internal/service"
	"seedbreed/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const memoryLogSize = 200

// App 服务端与 seedctl 共用的依赖装配：存储后端、血缘通知、各集合服务
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Repos    *repository.Repositories
	Notifier lineage.Notifier
	History  lineage.History
	Metrics  *prometheus.Registry

	Introductions *service.IntroductionService
	Purifications *service.PurificationService
	Sowings       *service.SowingService
	TestRecords   *service.TestRecordService
	SavedSeeds    *service.SavedSeedService
	Dashboard     *service.DashboardService

	closers []func()
}

// New 按 STORE_BACKEND 打开存储；redis 后端时血缘事件写入 Redis Stream，否则记在进程内
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	var (
		kv      store.KV
		primary lineage.Notifier
	)
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client := commonredis.NewRedisClient(&cfg.Redis)
		if err := commonredis.Ping(ctx, client); err != nil {
			_ = commonredis.Close(client)
			return nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Redis.Addr, err)
		}
		a.closers = append(a.closers, func() { _ = commonredis.Close(client) })
		kv = store.NewRedisKV(client)
		stream := lineage.NewRedisStreamNotifier(client, cfg.Lineage.Stream, cfg.Lineage.StreamMaxLen, logger)
		primary, a.History = stream, stream

	case config.BackendPostgres:
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = database.Close(db) })
		pg := store.NewPostgresKV(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		kv = pg
		mem := lineage.NewMemoryLog(memoryLogSize)
		primary, a.History = mem, mem

	default:
		logger.Warn("Using in-memory record store, data is lost on restart")
		kv = store.NewMemoryKV()
		mem := lineage.NewMemoryLog(memoryLogSize)
		primary, a.History = mem, mem
	}

	a.Metrics = prometheus.NewRegistry()
	a.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	counter, err := lineage.NewMetricsNotifier(a.Metrics)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to register lineage metrics: %w", err)
	}

	notifiers := lineage.MultiNotifier{primary, counter}
	if cfg.MQTT.Enabled {
		client, err := commonmqtt.NewClient(&cfg.MQTT.MQTTConfig, logger)
		if err != nil {
			// MQTT 只是附加通知，连不上不影响启动
			logger.Warn("MQTT enabled but connection failed, lineage events will not be published to MQTT",
				zap.String("broker", cfg.MQTT.Broker),
				zap.Error(err),
			)
		} else {
			a.closers = append(a.closers, client.Disconnect)
			notifiers = append(notifiers, lineage.NewMQTTNotifier(client, cfg.MQTT.Topic))
		}
	}
	a.Notifier = notifiers

	a.Repos = repository.NewRepositories(kv, logger)
	a.Introductions = service.NewIntroductionService(a.Repos, a.Notifier, logger)
	a.Purifications = service.NewPurificationService(a.Repos, a.Notifier, logger)
	a.Sowings = service.NewSowingService(a.Repos, a.Notifier, logger)
	a.TestRecords = service.NewTestRecordService(a.Repos, a.Notifier, logger)
	a.SavedSeeds = service.NewSavedSeedService(a.Repos, logger)
	a.Dashboard = service.NewDashboardService(a.Repos, a.History, logger)

	logger.Info("Record store ready", zap.String("backend", cfg.StoreBackend))
	return a, nil
}

// Close 按打开的逆序释放连接
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
