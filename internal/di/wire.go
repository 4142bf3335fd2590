//go:build wireinject
// +build wireinject

package di

import (
	"FarmYield/pkg/config"
	"FarmYield/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,
		ProvideCache,

		// Chain
		ProvideChainClient,
		ProvideChainReader,
		ProvideChef,

		// Domain services
		ProvideClassificationCache,
		ProvideTokenResolver,
		ProvidePriceOracle,
		ProvideValuator,

		// Use cases
		ProvideFarmEvaluator,

		// HTTP
		ProvideLimiter,
		ProvideFarmHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
