package resolver

import (
	"context"
	"fmt"
	"math/big"

	"FarmYield/internal/contracts"
	"FarmYield/internal/domain/models"
	"FarmYield/pkg/chain"

	"github.com/ethereum/go-ethereum/common"
)

// shape is one contract layout the resolver knows. probe is a cheap call only
// that layout answers.
type shape struct {
	kind  models.TokenKind
	probe func(address common.Address) chain.Call
}

// shapes is tried in order. ERC20 goes last since every other layout also answers name().
var shapes = []shape{
	{
		kind: models.KindCurve,
		probe: func(a common.Address) chain.Call {
			return chain.NewCall(a, contracts.CurveToken, "minter")
		},
	},
	{
		kind: models.KindStableSwap,
		probe: func(a common.Address) chain.Call {
			return chain.NewCall(a, contracts.StableSwap, "coins", big.NewInt(0))
		},
	},
	{
		kind: models.KindUniswap,
		probe: func(a common.Address) chain.Call {
			return chain.NewCall(a, contracts.UniswapPair, "token0")
		},
	},
	{
		kind: models.KindVault,
		probe: func(a common.Address) chain.Call {
			return chain.NewCall(a, contracts.Vault, "underlying")
		},
	},
	{
		kind: models.KindERC20,
		probe: func(a common.Address) chain.Call {
			return chain.NewCall(a, contracts.ERC20, "name")
		},
	},
}

func (r *Resolver) decode(ctx context.Context, kind models.TokenKind, address, staking common.Address, depth int, probed []interface{}) (*models.Token, error) {
	switch kind {
	case models.KindCurve:
		return r.decodeCurve(ctx, address, staking, depth, probed)
	case models.KindStableSwap:
		return r.decodeStableSwap(ctx, address, staking, depth)
	case models.KindUniswap:
		return r.decodeUniswap(ctx, address, staking)
	case models.KindVault:
		return r.decodeVault(ctx, address, staking, depth)
	case models.KindERC20:
		return r.decodeERC20(ctx, address, staking)
	}
	return nil, fmt.Errorf("no decoder for kind %q", kind)
}

func shapeFor(kind models.TokenKind) (shape, bool) {
	for _, s := range shapes {
		if s.kind == kind {
			return s, true
		}
	}
	return shape{}, false
}
