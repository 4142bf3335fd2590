package repository

import (
	"context"
	"math/big"

	"FarmYield/internal/domain/models"
	"FarmYield/pkg/chain"

	"github.com/ethereum/go-ethereum/common"
)

// ChainReader executes read-only calls at the latest block.
type ChainReader interface {
	Call(ctx context.Context, call chain.Call) ([]interface{}, error)
	CallAll(ctx context.Context, calls []chain.Call) ([][]interface{}, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

type TokenResolver interface {
	Resolve(ctx context.Context, address, stakingAddress common.Address) (*models.Token, error)
}

type PriceOracle interface {
	LookUpPrices(ctx context.Context, tokens []models.KnownToken) (*models.PriceTable, error)
}

// ClassificationCache remembers the shape of a contract, never its data.
type ClassificationCache interface {
	Kind(ctx context.Context, address common.Address) (models.TokenKind, bool)
	Remember(ctx context.Context, address common.Address, kind models.TokenKind)
}

type Metrics interface {
	RecordProbe(kind string, ok bool)
	RecordCacheLookup(cache string, hit bool)
	RecordOracleRequest(ok bool)
	RecordEvaluation(result string)
	RecordPoolAPR(pool string, yearlyAPR float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
