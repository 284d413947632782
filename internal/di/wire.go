//go:build wireinject
// +build wireinject

package di

import (
	"SmartScan/pkg/config"
	"SmartScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideArchiveStore,
		ProvideDataSource,
		ProvideResultPublisher,
		ProvideNotifier,

		// Use cases
		ProvideScanner,
		ProvideResultHolder,

		// HTTP surface
		ProvideStreamHub,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
