//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"MarketBoard/pkg/config"
	"MarketBoard/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideRegistry,
		ProvideLogger,
		ProvideMetrics,

		// Market data
		ProvideCatalog,
		ProvideGenerator,
		ProvideMarketData,

		// Feature flags
		ProvideCache,
		ProvideFlagsClient,

		// Activity pipeline
		ProvideClickHouseClient,
		ProvideActivityStorage,
		ProvideKafkaProducer,
		ProvideActivityPublisher,
		ProvideActivityRecorder,
		ProvideActivityPipeline,
		ProvideKafkaConsumer,
		ProvideActivityHandler,

		// HTTP
		ProvideMarketDeps,
		ProvideHTTPHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
