package di

import (
	"context"
	"fmt"

	"FarmYield/internal/contracts"
	models "FarmYield/internal/domain/models"
	"FarmYield/internal/domain/repository"
	"FarmYield/internal/handler/api"
	"FarmYield/internal/service/coingecko"
	"FarmYield/internal/service/ratelimit"
	"FarmYield/internal/services/resolver"
	"FarmYield/internal/services/valuation"
	"FarmYield/internal/usecase"
	"FarmYield/pkg/cache"
	"FarmYield/pkg/chain"
	"FarmYield/pkg/config"
	xhttp "FarmYield/pkg/http"
	applogger "FarmYield/pkg/logger"
	"FarmYield/pkg/metrics"
	"FarmYield/pkg/server"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideLogger creates the application logger from the logging section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideRegistry creates the Prometheus registry served at /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.NewWithRegisterer(reg)
}

// ProvideCache creates the in-process cache, layered over Redis when enabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	memOpts := []cache.MemoryOption{
		cache.WithMemoryMaxSize(cfg.Cache.MaxEntries),
		cache.WithMemoryCleanup(cfg.Cache.CleanupInterval),
	}
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(memOpts...), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemory(memOpts...)), nil
}

// ProvideChainClient dials the configured RPC endpoint.
func ProvideChainClient(cfg *config.Config) (*chain.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Chain.CallTimeout)
	defer cancel()

	client, err := chain.Dial(ctx, cfg.Chain.RPCURL,
		chain.WithBatchSize(cfg.Chain.BatchSize),
		chain.WithCallTimeout(cfg.Chain.CallTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("chain client: %w", err)
	}
	return client, nil
}

// ProvideChainReader exposes the chain client to the domain.
func ProvideChainReader(c *chain.Client) repository.ChainReader {
	return c
}

// ProvideChef builds the MasterChef ABI for the configured fork.
func ProvideChef(cfg *config.Config) (*contracts.Chef, error) {
	return contracts.NewChef(contracts.ChefMethods{
		RewardToken:     cfg.Farm.RewardTokenFunction,
		RewardsPerBlock: cfg.Farm.RewardsPerBlockFunction,
		PendingRewards:  cfg.Farm.PendingRewardsFunction,
	})
}

// ProvideClassificationCache stores resolved contract kinds in the shared cache.
func ProvideClassificationCache(store cache.Service, cfg *config.Config, m repository.Metrics, l *applogger.Logger) repository.ClassificationCache {
	return resolver.NewKindCache(store, cfg.Cache.ClassificationTTL, m, l)
}

// ProvideTokenResolver creates the contract shape resolver.
func ProvideTokenResolver(
	reader repository.ChainReader,
	kinds repository.ClassificationCache,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) repository.TokenResolver {
	return resolver.New(reader, kinds, m, l, resolver.Config{
		Holder:   holder(cfg),
		Native:   cfg.Chain.Native,
		MaxDepth: cfg.Chain.MaxProbeDepth,
	})
}

// ProvidePriceOracle creates the CoinGecko client.
func ProvidePriceOracle(cfg *config.Config, store cache.Service, m repository.Metrics, l *applogger.Logger) repository.PriceOracle {
	return coingecko.New(cfg.Prices, store, m, l)
}

// ProvideValuator creates the pool valuator.
func ProvideValuator(cfg *config.Config, l *applogger.Logger) *valuation.Valuator {
	return valuation.New(cfg.Chain.ExplorerURL, l)
}

// ProvideFarmEvaluator creates the farm evaluation use case.
func ProvideFarmEvaluator(
	reader repository.ChainReader,
	res repository.TokenResolver,
	oracle repository.PriceOracle,
	val *valuation.Valuator,
	chef *contracts.Chef,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.FarmEvaluator {
	return usecase.NewFarmEvaluator(reader, res, oracle, val, chef, m, l, usecase.EvaluatorConfig{
		Holder:       holder(cfg),
		RewardTicker: cfg.Farm.RewardTokenTicker,
		KnownTokens:  knownTokens(cfg.Prices.Tokens),
		Concurrency:  cfg.Farm.Concurrency,
		Rewards:      cfg.Farm.Rewards,
	})
}

// ProvideLimiter creates the per-IP token buckets.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideFarmHandler creates the HTTP handler.
func ProvideFarmHandler(l *applogger.Logger, eval *usecase.FarmEvaluator, cfg *config.Config) xhttp.Handler {
	return api.NewFarmEchoHandler(l, eval, common.HexToAddress(cfg.Farm.Address), cfg.Farm.ActivePools, cfg.Server.RequestTimeout)
}

// ProvideHTTPServer creates the echo server.
func ProvideHTTPServer(
	cfg *config.Config,
	h xhttp.Handler,
	l *applogger.Logger,
	reg *prometheus.Registry,
	limiter *ratelimit.Limiter,
) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(reg, cfg.Metrics.Path, cfg.Server.SlowThreshold))
	}
	if cfg.Server.RateLimit.Enabled {
		opts = append(opts, xhttp.WithRateLimit(limiter, cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillPerSec))
	}
	return xhttp.NewServer(h, l, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	limiter *ratelimit.Limiter,
	client *chain.Client,
	store cache.Service,
) *server.App {
	var sweeper server.Sweeper
	if cfg.Server.RateLimit.Enabled {
		sweeper = limiter
	}
	return server.New(cfg, l, srv, sweeper,
		server.Closer{Name: "cache", Close: store.Close},
		server.Closer{Name: "chain", Close: func() error { client.Close(); return nil }},
	)
}

func holder(cfg *config.Config) common.Address {
	if cfg.Farm.Holder == "" {
		return common.Address{}
	}
	return common.HexToAddress(cfg.Farm.Holder)
}

func knownTokens(tokens []config.TokenConfig) []models.KnownToken {
	out := make([]models.KnownToken, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, models.KnownToken{ID: t.ID, Symbol: t.Symbol, Contract: common.HexToAddress(t.Contract)})
	}
	return out
}
