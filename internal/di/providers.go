package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	domrepo "MarketBoard/internal/domain/repository"
	"MarketBoard/internal/handler/api"
	mid "MarketBoard/internal/middleware"
	internalrepo "MarketBoard/internal/repository"
	"MarketBoard/internal/service/flags"
	flagmetrics "MarketBoard/internal/service/metrics"
	"MarketBoard/internal/service/ratelimit"
	"MarketBoard/internal/services/timeseries"
	"MarketBoard/internal/usecase"
	"MarketBoard/pkg/cache"
	pkgch "MarketBoard/pkg/clickhouse"
	"MarketBoard/pkg/config"
	xhttp "MarketBoard/pkg/http"
	httpmw "MarketBoard/pkg/http/middleware"
	pkgkafka "MarketBoard/pkg/kafka"
	applogger "MarketBoard/pkg/logger"
	"MarketBoard/pkg/metrics"
	"MarketBoard/pkg/server"
)

// ProvideRegistry creates the process registry served on the metrics path.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	flagmetrics.Register(reg)
	return reg
}

// ProvideLogger creates the application logger from the logging section.
// With logging.collector enabled, aggregated warn/error entries are shipped
// through the Kafka producer; child loggers share the collector.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if c := cfg.Logging.Collector; c.Enabled && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   c.Interval,
			CountThreshold: c.Threshold,
			Topic:          c.Topic,
			Publisher:      producer,
		})
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) domrepo.Metrics {
	return metrics.New(reg)
}

func ProvideCatalog() *internalrepo.StaticCatalog {
	return internalrepo.NewStaticCatalog()
}

// ProvideGenerator seeds the synthetic series generator. A zero seed keeps
// the generator's clock-based default.
func ProvideGenerator(cfg *config.Config) *timeseries.Generator {
	var opts []timeseries.Option
	if cfg.Market.Seed != 0 {
		opts = append(opts, timeseries.WithSeed(cfg.Market.Seed))
	}
	return timeseries.NewGenerator(opts...)
}

func ProvideMarketData(
	cfg *config.Config,
	catalog *internalrepo.StaticCatalog,
	gen *timeseries.Generator,
	m domrepo.Metrics,
) *usecase.MarketDataUseCase {
	return usecase.NewMarketDataUseCase(catalog, gen,
		usecase.WithSeriesDays(cfg.Market.SeriesDays),
		usecase.WithMetrics(m),
	)
}

// ProvideCache creates the flag payload cache: in-process memory, backed by
// Redis when redis.enabled is set.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	mem := cache.NewMemoryCache(
		cache.WithMemoryMaxSize(1000),
		cache.WithMemoryCleanup(time.Minute),
	)
	if !cfg.Redis.Enabled {
		return mem, nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		_ = mem.Close()
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(mem, rc, cache.WithL1TTL(time.Minute)), nil
}

// ProvideFlagsClient creates the remote feature flag client.
func ProvideFlagsClient(cfg *config.Config, c cache.Service, l *applogger.Logger) *flags.Client {
	return flags.New(cfg.Flags.APIHost, cfg.Flags.ClientKey,
		flags.WithHTTPClient(xhttp.NewClient(
			xhttp.WithTimeout(cfg.Flags.Timeout),
			xhttp.WithUserAgent("marketboard"),
			xhttp.WithRetry(2, 250*time.Millisecond),
		)),
		flags.WithCache(c, cfg.Flags.CacheTTL),
		flags.WithSchedule(cfg.Flags.RefreshCron),
		flags.WithTimeout(cfg.Flags.Timeout),
		flags.WithLogger(l),
	)
}

// ProvideClickHouseClient creates a ClickHouse client when clickhouse.host
// is set; otherwise it returns nil.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideActivityStorage creates the events table and returns the store, or
// nil without a ClickHouse client.
func ProvideActivityStorage(client *pkgch.Client, cfg *config.Config, l *applogger.Logger) (domrepo.ActivityStorage, error) {
	if client == nil {
		return nil, nil
	}
	store := internalrepo.NewClickHouseActivityStore(client, cfg.ClickHouse.Database+"."+cfg.Activity.Table)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer when brokers are configured.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithClientID("marketboard"),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithProducerRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideActivityPublisher returns nil without a producer.
func ProvideActivityPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.ActivityPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaActivityPublisher(producer, cfg.Activity.Topic)
}

func ProvideActivityRecorder(
	pub domrepo.ActivityPublisher,
	store domrepo.ActivityStorage,
	m domrepo.Metrics,
	cfg *config.Config,
) *usecase.ActivityRecorder {
	return usecase.NewActivityRecorder(pub, store, m, domrepo.NormalizeBackend(cfg.Activity.Backend))
}

// ProvideActivityPipeline buffers and throttles view events in front of the
// recorder.
func ProvideActivityPipeline(rec *usecase.ActivityRecorder, m domrepo.Metrics, cfg *config.Config) *mid.ActivityPipeline {
	return mid.NewActivityPipeline(rec, m,
		mid.WithMaxRPS(cfg.Activity.MaxRPS),
		mid.WithBufferSize(cfg.Activity.BufferSize),
		mid.WithRetries(cfg.Activity.Retries),
	)
}

// ProvideKafkaConsumer creates the activity consumer when activity.consume is
// set; otherwise it returns nil.
func ProvideKafkaConsumer(cfg *config.Config, reg *prometheus.Registry, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Activity.Consume {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
		pkgkafka.WithConsumerRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(&pkgkafka.LoggingHook{Log: l, Slow: time.Second})
	return consumer, nil
}

// ProvideActivityHandler returns the consumer handler, or nil without storage.
func ProvideActivityHandler(store domrepo.ActivityStorage, m domrepo.Metrics, cfg *config.Config) pkgkafka.MessageHandler {
	if store == nil {
		return nil
	}
	return usecase.NewActivityHandler(cfg.Activity.Topic, store, m)
}

// ProvideMarketDeps assembles the use cases behind the HTTP API.
func ProvideMarketDeps(
	catalog *internalrepo.StaticCatalog,
	market *usecase.MarketDataUseCase,
	fc *flags.Client,
	store domrepo.ActivityStorage,
	pipeline *mid.ActivityPipeline,
) api.MarketDeps {
	return api.MarketDeps{
		Market:     market,
		Dashboard:  usecase.NewDashboardLoader(market),
		Series:     usecase.NewSeriesUseCase(market),
		Search:     usecase.NewSearchUseCase(catalog),
		News:       usecase.NewNewsUseCase(),
		Watchlists: usecase.NewWatchlistUseCase(catalog, fc),
		Portfolio:  usecase.NewPortfolioUseCase(catalog),
		Summary:    usecase.NewMarketSummaryUseCase(market),
		Analytics:  usecase.NewAnalyticsUseCase(catalog, market, fc, store),
		Flags:      fc,
		Tracker:    pipeline,
	}
}

func ProvideHTTPHandler(cfg *config.Config, l *applogger.Logger, deps api.MarketDeps, fc *flags.Client) *api.MarketEchoHandler {
	ws := api.NewFlagsWSHandler(l, fc, cfg.Server.AllowOrigins)
	return api.NewMarketEchoHandler(l, deps, ws)
}

// ProvideHTTPServer creates the Echo server with the shared registry and the
// per-client rate limit on /api.
func ProvideHTTPServer(
	cfg *config.Config,
	h *api.MarketEchoHandler,
	reg *prometheus.Registry,
	l *applogger.Logger,
) *xhttp.Server {
	metricsPath := cfg.Metrics.Path
	if !cfg.Metrics.Enabled {
		metricsPath = ""
	}
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithAllowOrigins(cfg.Server.AllowOrigins),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithRegistry(reg),
		xhttp.WithLogger(l),
	}
	if cfg.RateLimit.Enabled {
		opts = append(opts, xhttp.WithMiddleware(httpmw.RateLimit(ratelimit.New(), httpmw.RateLimitConfig{
			Capacity:     cfg.RateLimit.Capacity,
			RefillPerSec: cfg.RateLimit.RefillPerSec,
			Prefixes:     []string{"/api/"},
		})))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideApp creates the application with its lifecycle-managed parts.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	fc *flags.Client,
	c cache.Service,
	pipeline *mid.ActivityPipeline,
	rec *usecase.ActivityRecorder,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	handler pkgkafka.MessageHandler,
	ch *pkgch.Client,
) *server.App {
	return server.New(cfg, l, srv,
		server.WithFlags(fc),
		server.WithCache(c),
		server.WithActivity(pipeline, rec),
		server.WithKafka(producer, consumer, handler),
		server.WithClickHouse(ch),
	)
}
