package factory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/benjaminrust/network-intelligence-dev/internal/bucketing"
	"github.com/benjaminrust/network-intelligence-dev/internal/client"
	"github.com/benjaminrust/network-intelligence-dev/internal/config"
	"github.com/benjaminrust/network-intelligence-dev/internal/monitor"
	"github.com/benjaminrust/network-intelligence-dev/internal/repository/postgres"
	redisrepo "github.com/benjaminrust/network-intelligence-dev/internal/repository/redis"
	"github.com/benjaminrust/network-intelligence-dev/internal/service"
	"github.com/benjaminrust/network-intelligence-dev/internal/stream"
	"github.com/benjaminrust/network-intelligence-dev/internal/util"
)

// Factory manages the lifecycle of every application dependency: clients,
// repositories, services and the background monitor.
type Factory struct {
	config *config.Config

	// Clients
	postgresClient   *postgres.PostgresClient
	redisClient      *client.RedisClient
	kafkaProducer    *client.KafkaProducer
	clickhouseClient *client.ClickHouseClient

	// Caches
	statsCache   *redisrepo.StatsCache
	threatCache  *redisrepo.ThreatCache
	sessionCache *redisrepo.SessionCache
	cacheAdmin   *redisrepo.CacheAdmin

	// Domain
	bucketer         *bucketing.Manager
	networkMonitor   *monitor.NetworkMonitor
	eventService     *service.EventService
	analyticsService *service.AnalyticsService
	threatService    *service.ThreatService
	sessionService   *service.SessionService

	closeOnce sync.Once
}

// NewFactory loads configuration and initializes every dependency. The
// database and Redis are required; Kafka and ClickHouse are optional and
// only reduce the alert/analytics fan-out when absent.
func NewFactory() (*Factory, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	util.Init(cfg.Environment, cfg.Logging.Level, cfg.Logging.Format)

	f := &Factory{config: cfg}

	if err := f.initializeClients(); err != nil {
		return nil, fmt.Errorf("failed to initialize clients: %w", err)
	}
	f.initializeDomain()

	util.Info("Factory initialized",
		util.String("environment", cfg.Environment),
		util.Bool("kafka_enabled", f.kafkaProducer != nil),
		util.Bool("clickhouse_enabled", f.clickhouseClient != nil),
	)
	return f, nil
}

func (f *Factory) initializeClients() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := postgres.NewPostgresClient(f.config, util.Get())
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return fmt.Errorf("postgres schema: %w", err)
	}
	f.postgresClient = pg

	rdb, err := client.NewRedisClient(f.config, util.Get())
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	f.redisClient = rdb

	if f.config.KafkaEnabled() {
		producer, err := client.NewKafkaProducer(f.config, util.Get())
		if err != nil {
			util.Warn("Kafka producer initialization failed - proceeding without Kafka",
				util.ErrorField(err))
		} else {
			f.kafkaProducer = producer
		}
	}

	if f.config.ClickHouseEnabled() {
		ch, err := client.NewClickHouseClient(f.config, util.Get())
		if err != nil {
			util.Warn("ClickHouse initialization failed - proceeding without warehouse",
				util.ErrorField(err))
		} else {
			f.clickhouseClient = ch
		}
	}

	return nil
}

func (f *Factory) initializeDomain() {
	logger := util.Get()

	f.bucketer = bucketing.NewManager(f.config.Monitor.EventBuckets)

	f.statsCache = redisrepo.NewStatsCache(f.redisClient, f.config.Monitor.StatsCacheTTL)
	f.threatCache = redisrepo.NewThreatCache(f.redisClient)
	f.sessionCache = redisrepo.NewSessionCache(f.redisClient)
	f.cacheAdmin = redisrepo.NewCacheAdmin(f.redisClient)

	eventRepo := postgres.NewEventRepository(f.postgresClient, logger)
	metricRepo := postgres.NewMetricRepository(f.postgresClient, logger)
	threatRepo := postgres.NewThreatRepository(f.postgresClient, logger)
	sessionRepo := postgres.NewSessionRepository(f.postgresClient, logger)

	f.eventService = service.NewEventService(eventRepo, f.bucketer, logger)
	f.threatService = service.NewThreatService(threatRepo, f.threatCache, logger)
	f.sessionService = service.NewSessionService(sessionRepo, f.sessionCache, f.config.SecretKey, logger)

	emitters := []stream.Emitter{stream.NewLogEmitter(logger), stream.NewRedisEmitter(f.redisClient, logger)}
	if f.kafkaProducer != nil {
		emitters = append(emitters, stream.NewKafkaEmitter(f.kafkaProducer, logger))
	}

	f.networkMonitor = monitor.New(monitor.Options{
		Threats:       f.threatCache,
		Events:        f.eventService,
		Metrics:       metricRepo,
		StatsCache:    f.statsCache,
		Emitter:       stream.NewMultiEmitter(emitters...),
		Bucketer:      f.bucketer,
		Logger:        logger,
		SweepInterval: f.config.Monitor.SweepInterval,
		StaleAfter:    f.config.Monitor.StaleAfter,
	})

	f.analyticsService = service.NewAnalyticsService(
		metricRepo, eventRepo, f.clickhouseClient, f.networkMonitor, logger)
}

// HealthCheck probes every dependency concurrently and returns one error
// per unhealthy dependency.
func (f *Factory) HealthCheck(ctx context.Context) map[string]error {
	var mu sync.Mutex
	health := map[string]error{}
	record := func(name string, err error) {
		mu.Lock()
		health[name] = err
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		record("database", f.postgresClient.HealthCheck(ctx))
		return nil
	})
	g.Go(func() error {
		record("redis", f.redisClient.HealthCheck(ctx))
		return nil
	})
	if f.kafkaProducer != nil {
		g.Go(func() error {
			record("kafka", f.kafkaProducer.HealthCheck(ctx))
			return nil
		})
	}
	if f.clickhouseClient != nil {
		g.Go(func() error {
			record("clickhouse", f.clickhouseClient.HealthCheck(ctx))
			return nil
		})
	}
	_ = g.Wait()

	return health
}

// IsHealthy reports whether every required dependency is reachable.
func (f *Factory) IsHealthy(ctx context.Context) bool {
	for name, err := range f.HealthCheck(ctx) {
		// Optional sinks do not gate overall health.
		if name == "kafka" || name == "clickhouse" {
			continue
		}
		if err != nil {
			return false
		}
	}
	return true
}

func (f *Factory) Close() error {
	f.closeOnce.Do(func() {
		util.Info("Shutting down factory...")

		if f.clickhouseClient != nil {
			if err := f.clickhouseClient.Close(); err != nil {
				util.Error("Failed to close ClickHouse client", util.ErrorField(err))
			}
		}
		if f.kafkaProducer != nil {
			if err := f.kafkaProducer.Close(); err != nil {
				util.Error("Failed to close Kafka producer", util.ErrorField(err))
			}
		}
		if f.redisClient != nil {
			if err := f.redisClient.Close(); err != nil {
				util.Error("Failed to close Redis client", util.ErrorField(err))
			}
		}
		if f.postgresClient != nil {
			f.postgresClient.Close()
		}

		util.Sync()
		util.Info("Factory shutdown completed")
	})
	return nil
}

// Getters used by main to assemble the HTTP layer.

func (f *Factory) Config() *config.Config                      { return f.config }
func (f *Factory) EventService() *service.EventService         { return f.eventService }
func (f *Factory) AnalyticsService() *service.AnalyticsService { return f.analyticsService }
func (f *Factory) ThreatService() *service.ThreatService       { return f.threatService }
func (f *Factory) SessionService() *service.SessionService     { return f.sessionService }
func (f *Factory) NetworkMonitor() *monitor.NetworkMonitor     { return f.networkMonitor }
func (f *Factory) StatsCache() *redisrepo.StatsCache           { return f.statsCache }
func (f *Factory) CacheAdmin() *redisrepo.CacheAdmin           { return f.cacheAdmin }
