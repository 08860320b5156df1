package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"DemandCast/internal/domain/models"
	domrepo "DemandCast/internal/domain/repository"
	"DemandCast/internal/handler/api"
	internalrepo "DemandCast/internal/repository"
	icache "DemandCast/internal/service/cache"
	"DemandCast/internal/services/features"
	"DemandCast/internal/services/model"
	"DemandCast/internal/usecase"
	pkgch "DemandCast/pkg/clickhouse"
	"DemandCast/pkg/config"
	pkgkafka "DemandCast/pkg/kafka"
	applogger "DemandCast/pkg/logger"
	"DemandCast/pkg/metrics"
	"DemandCast/pkg/queue"
	"DemandCast/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when any component
// needs one. Returns nil when the dataset comes from CSV and ingestion is
// disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Data.Source != "clickhouse" && !cfg.Kafka.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideSalesStorage creates the ClickHouse sales store and initializes its
// schema. Returns nil when ClickHouse is not in use.
func ProvideSalesStorage(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) (*internalrepo.CHSalesStore, error) {
	if chClient == nil {
		return nil, nil
	}
	store := internalrepo.NewCHSalesStore(chClient, cfg.Data.Table)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := chClient.InitSchema(ctx, store.SchemaStatements()); err != nil {
		_ = chClient.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideSnapshot loads the full historical dataset once at startup. The
// snapshot is immutable for the process lifetime.
func ProvideSnapshot(cfg *config.Config, chStore *internalrepo.CHSalesStore, l *applogger.Logger) (*models.HistorySnapshot, error) {
	var store domrepo.HistoryStore
	switch cfg.Data.Source {
	case "csv":
		store = internalrepo.NewCSVHistoryStore(cfg.Data.CSVPath, l)
	case "clickhouse":
		if chStore == nil {
			return nil, fmt.Errorf("clickhouse data source configured but no client available")
		}
		store = chStore
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	records, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	snap := models.NewHistorySnapshot(records)
	l.Info("history snapshot loaded",
		applogger.Int("records", snap.Len()),
		applogger.Int("categories", len(snap.Categories())),
	)
	return snap, nil
}

// ProvideBuilder creates the feature builder with the configured trailing
// window.
func ProvideBuilder(cfg *config.Config) *features.Builder {
	return features.NewBuilder(cfg.Data.HistoryDays)
}

// ProvidePredictor creates the model backend named in config.
func ProvidePredictor(cfg *config.Config) (model.Predictor, error) {
	schema, err := model.LoadSchema(cfg.Model.FeaturesPath)
	if err != nil {
		return nil, fmt.Errorf("model schema: %w", err)
	}
	switch cfg.Model.Backend {
	case "artifact":
		return model.NewArtifactModel(cfg.Model.ArtifactPath, schema)
	case "http":
		return model.NewHTTPModel(cfg.Model.ScorerURL, schema, cfg.Model.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Model.Backend)
	}
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher wraps the producer as a prediction publisher.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.PredictionsTopic)
}

// ProvideKafkaConsumer creates the sales-events consumer, or nil when Kafka
// is disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideIngestHandler registers the handler for the sales topic. Requires
// ClickHouse storage; ingestion without a sink is a config error caught in
// config.Validate.
func ProvideIngestHandler(storage *internalrepo.CHSalesStore, m domrepo.Metrics, cfg *config.Config) *usecase.SalesIngestHandler {
	if !cfg.Kafka.Enabled || storage == nil {
		return nil
	}
	return usecase.NewSalesIngestHandler(cfg.Kafka.SalesTopic, storage, m)
}

// ProvideRedisClient creates a shared Redis connection, or nil when neither
// the cache nor the job queue uses Redis.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Cache.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
}

// ProvideCache creates the response/job-status cache. Redis when configured,
// in-process TTL otherwise.
func ProvideCache(rdb *redis.Client, cfg *config.Config) icache.BytesCache {
	if rdb != nil {
		return icache.NewRedisCacheFromClient(rdb)
	}
	return icache.NewTTLCache()
}

// ProvideQueue creates the async job queue, or nil when jobs are disabled.
func ProvideQueue(rdb *redis.Client, cfg *config.Config, l *applogger.Logger) *queue.RedisQueue {
	if !cfg.Jobs.Enabled || rdb == nil {
		return nil
	}
	return queue.New(l, queue.Config{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
	}, rdb)
}

// ProvideForecaster creates the forecasting use case.
func ProvideForecaster(
	snapshot *models.HistorySnapshot,
	builder *features.Builder,
	predictor model.Predictor,
	publisher domrepo.Publisher,
	m domrepo.Metrics,
) *usecase.Forecaster {
	return usecase.NewForecaster(snapshot, builder, predictor, publisher, m)
}

// ProvideJobService creates the async forecast job service and registers it
// on the queue. Nil when the queue is disabled.
func ProvideJobService(forecaster *usecase.Forecaster, q *queue.RedisQueue, store icache.BytesCache, cfg *config.Config) *usecase.ForecastJobService {
	if q == nil {
		return nil
	}
	svc := usecase.NewForecastJobService(forecaster, q, store, cfg.Jobs.ResultTTL)
	q.RegisterJob(svc)
	return svc
}

// ProvideHandler creates the HTTP handler with optional caching and jobs.
func ProvideHandler(
	l *applogger.Logger,
	forecaster *usecase.Forecaster,
	jobs *usecase.ForecastJobService,
	store icache.BytesCache,
	chStore *internalrepo.CHSalesStore,
	cfg *config.Config,
) *api.ForecastEchoHandler {
	h := api.NewForecastEchoHandler(l, forecaster)
	if cfg.Cache.Enabled {
		h.SetCache(store, cfg.Cache.TTL)
	}
	if jobs != nil {
		h.SetJobs(jobs)
	}
	if chStore != nil {
		h.SetHealthCheck(chStore.Health)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.ForecastEchoHandler,
	consumer *pkgkafka.Consumer,
	ingest *usecase.SalesIngestHandler,
	q *queue.RedisQueue,
	chClient *pkgch.Client,
	publisher domrepo.Publisher,
) *server.App {
	return server.New(cfg, l, handler, consumer, ingest, q, chClient, publisher)
}
