// Package resolver classifies token contracts by shape and reads them into
// normalized descriptors.
package resolver

import (
	"context"
	"fmt"

	"FarmYield/internal/domain/models"
	"FarmYield/internal/domain/repository"
	"FarmYield/pkg/config"
	"FarmYield/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
)

// Config carries the chain constants the resolver needs.
type Config struct {
	Holder   common.Address
	Native   config.NativeConfig
	MaxDepth int
}

// Resolver implements repository.TokenResolver.
type Resolver struct {
	reader   repository.ChainReader
	kinds    repository.ClassificationCache
	metrics  repository.Metrics
	logger   *logger.Logger
	holder   common.Address
	native   config.NativeConfig
	maxDepth int
}

func New(reader repository.ChainReader, kinds repository.ClassificationCache, m repository.Metrics, log *logger.Logger, cfg Config) *Resolver {
	depth := cfg.MaxDepth
	if depth <= 0 {
		depth = 4
	}
	return &Resolver{
		reader:   reader,
		kinds:    kinds,
		metrics:  m,
		logger:   log,
		holder:   cfg.Holder,
		native:   cfg.Native,
		maxDepth: depth,
	}
}

// Resolve reads the token at address. stakingAddress is the contract whose
// balance counts as staked.
func (r *Resolver) Resolve(ctx context.Context, address, stakingAddress common.Address) (*models.Token, error) {
	return r.resolve(ctx, address, stakingAddress, 0)
}

func (r *Resolver) resolve(ctx context.Context, address, staking common.Address, depth int) (*models.Token, error) {
	if address == models.NativeAddress {
		return r.nativeToken(), nil
	}
	if depth >= r.maxDepth {
		return nil, fmt.Errorf("%w: %s nested deeper than %d", models.ErrUnresolvedContract, address.Hex(), r.maxDepth)
	}

	if kind, ok := r.kinds.Kind(ctx, address); ok {
		if s, found := shapeFor(kind); found {
			tok, err := r.try(ctx, s, address, staking, depth)
			if err == nil {
				return tok, nil
			}
			r.logger.Debug("Cached classification no longer decodes",
				logger.Address("address", address),
				logger.String("kind", string(kind)),
				logger.Error(err),
			)
		}
	}

	for _, s := range shapes {
		tok, err := r.try(ctx, s, address, staking, depth)
		if err == nil {
			r.kinds.Remember(ctx, address, s.kind)
			return tok, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.logger.Debug("Probe failed",
			logger.Address("address", address),
			logger.String("kind", string(s.kind)),
			logger.Error(err),
		)
	}

	r.logger.Warn("Could not match contract to any known token type", logger.Address("address", address))
	r.metrics.RecordError("unresolved_contract")
	return nil, fmt.Errorf("%w: %s", models.ErrUnresolvedContract, address.Hex())
}

func (r *Resolver) try(ctx context.Context, s shape, address, staking common.Address, depth int) (*models.Token, error) {
	probed, err := r.reader.Call(ctx, s.probe(address))
	if err != nil {
		r.metrics.RecordProbe(string(s.kind), false)
		return nil, err
	}
	tok, err := r.decode(ctx, s.kind, address, staking, depth, probed)
	r.metrics.RecordProbe(string(s.kind), err == nil)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.kind, err)
	}
	return tok, nil
}

func (r *Resolver) nativeToken() *models.Token {
	return &models.Token{
		Address:     models.NativeAddress,
		Kind:        models.KindNative,
		Name:        r.native.Name,
		Symbol:      r.native.Symbol,
		Decimals:    r.native.Decimals,
		TotalSupply: r.native.TotalSupply,
	}
}

var _ repository.TokenResolver = (*Resolver)(nil)
