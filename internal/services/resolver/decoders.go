package resolver

import (
	"context"
	"fmt"
	"math/big"

	"FarmYield/internal/contracts"
	"FarmYield/internal/domain/models"
	"FarmYield/pkg/chain"
	"FarmYield/pkg/logger"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// erc20Calls reads decimals, balanceOf(staking), balanceOf(holder), name,
// symbol and totalSupply, in that order.
func (r *Resolver) erc20Calls(address common.Address, contractABI *abi.ABI, staking common.Address) []chain.Call {
	return []chain.Call{
		chain.NewCall(address, contractABI, "decimals"),
		chain.NewCall(address, contractABI, "balanceOf", staking),
		chain.NewCall(address, contractABI, "balanceOf", r.holder),
		chain.NewCall(address, contractABI, "name"),
		chain.NewCall(address, contractABI, "symbol"),
		chain.NewCall(address, contractABI, "totalSupply"),
	}
}

const erc20CallCount = 6

func fillERC20(tok *models.Token, out [][]interface{}) error {
	if len(out) < erc20CallCount {
		return fmt.Errorf("expected %d erc20 results, got %d", erc20CallCount, len(out))
	}
	decimals, err := chain.Uint8(out[0], 0)
	if err != nil {
		return fmt.Errorf("decimals: %w", err)
	}
	staked, err := chain.BigInt(out[1], 0)
	if err != nil {
		return fmt.Errorf("staked balance: %w", err)
	}
	unstaked, err := chain.BigInt(out[2], 0)
	if err != nil {
		return fmt.Errorf("holder balance: %w", err)
	}
	name, err := chain.String(out[3], 0)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	symbol, err := chain.String(out[4], 0)
	if err != nil {
		return fmt.Errorf("symbol: %w", err)
	}
	supply, err := chain.BigInt(out[5], 0)
	if err != nil {
		return fmt.Errorf("totalSupply: %w", err)
	}

	tok.Decimals = decimals
	tok.Name = name
	tok.Symbol = symbol
	tok.Staked = chain.ToFloat(staked, decimals)
	tok.Unstaked = chain.ToFloat(unstaked, decimals)
	tok.TotalSupply = chain.ToFloat(supply, decimals)
	return nil
}

func (r *Resolver) decodeERC20(ctx context.Context, address, staking common.Address) (*models.Token, error) {
	out, err := r.reader.CallAll(ctx, r.erc20Calls(address, contracts.ERC20, staking))
	if err != nil {
		return nil, err
	}
	tok := &models.Token{Address: address, Kind: models.KindERC20}
	if err := fillERC20(tok, out); err != nil {
		return nil, err
	}
	return tok, nil
}

// decodeCurve reads a curve LP token. Pool data lives on the minter named by
// the probe output.
func (r *Resolver) decodeCurve(ctx context.Context, address, staking common.Address, depth int, probed []interface{}) (*models.Token, error) {
	minter, err := chain.Address(probed, 0)
	if err != nil {
		return nil, fmt.Errorf("minter: %w", err)
	}

	pool, err := r.reader.CallAll(ctx, []chain.Call{
		chain.NewCall(minter, contracts.CurveMinter, "get_virtual_price"),
		chain.NewCall(minter, contracts.CurveMinter, "coins", big.NewInt(0)),
	})
	if err != nil {
		return nil, err
	}
	virtualPrice, err := chain.BigInt(pool[0], 0)
	if err != nil {
		return nil, fmt.Errorf("get_virtual_price: %w", err)
	}
	coin0, err := chain.Address(pool[1], 0)
	if err != nil {
		return nil, fmt.Errorf("coins(0): %w", err)
	}

	inner, err := r.resolve(ctx, coin0, address, depth+1)
	if err != nil {
		return nil, fmt.Errorf("coin0 %s: %w", coin0.Hex(), err)
	}

	out, err := r.reader.CallAll(ctx, r.erc20Calls(address, contracts.CurveToken, staking))
	if err != nil {
		return nil, err
	}
	tok := &models.Token{
		Address:      address,
		Kind:         models.KindCurve,
		Underlying:   []common.Address{address, coin0},
		VirtualPrice: chain.ToFloat(virtualPrice, 18),
		Inner:        inner,
	}
	if err := fillERC20(tok, out); err != nil {
		return nil, err
	}
	return tok, nil
}

func (r *Resolver) decodeStableSwap(ctx context.Context, address, staking common.Address, depth int) (*models.Token, error) {
	calls := append(r.erc20Calls(address, contracts.StableSwap, staking),
		chain.NewCall(address, contracts.StableSwap, "get_virtual_price"),
		chain.NewCall(address, contracts.StableSwap, "coins", big.NewInt(0)),
	)
	out, err := r.reader.CallAll(ctx, calls)
	if err != nil {
		return nil, err
	}

	tok := &models.Token{Address: address, Kind: models.KindStableSwap}
	if err := fillERC20(tok, out); err != nil {
		return nil, err
	}
	virtualPrice, err := chain.BigInt(out[erc20CallCount], 0)
	if err != nil {
		return nil, fmt.Errorf("get_virtual_price: %w", err)
	}
	coin0, err := chain.Address(out[erc20CallCount+1], 0)
	if err != nil {
		return nil, fmt.Errorf("coins(0): %w", err)
	}

	inner, err := r.resolve(ctx, coin0, address, depth+1)
	if err != nil {
		return nil, fmt.Errorf("coin0 %s: %w", coin0.Hex(), err)
	}
	tok.VirtualPrice = chain.ToFloat(virtualPrice, 18)
	tok.Underlying = []common.Address{address, coin0}
	tok.Inner = inner
	return tok, nil
}

// decodeUniswap reads a constant-product pair. Pools without getReserves
// (1inch style) report the balances each side holds instead.
func (r *Resolver) decodeUniswap(ctx context.Context, address, staking common.Address) (*models.Token, error) {
	calls := append(r.erc20Calls(address, contracts.UniswapPair, staking),
		chain.NewCall(address, contracts.UniswapPair, "token0"),
		chain.NewCall(address, contracts.UniswapPair, "token1"),
	)
	out, err := r.reader.CallAll(ctx, calls)
	if err != nil {
		return nil, err
	}

	tok := &models.Token{Address: address, Kind: models.KindUniswap}
	if err := fillERC20(tok, out); err != nil {
		return nil, err
	}
	token0, err := chain.Address(out[erc20CallCount], 0)
	if err != nil {
		return nil, fmt.Errorf("token0: %w", err)
	}
	token1, err := chain.Address(out[erc20CallCount+1], 0)
	if err != nil {
		return nil, fmt.Errorf("token1: %w", err)
	}

	pair := &models.ReservePair{Token0: token0, Token1: token1}
	reserves, err := r.reader.Call(ctx, chain.NewCall(address, contracts.UniswapPair, "getReserves"))
	if err == nil {
		if pair.Reserve0, err = chain.BigInt(reserves, 0); err != nil {
			return nil, fmt.Errorf("reserve0: %w", err)
		}
		if pair.Reserve1, err = chain.BigInt(reserves, 1); err != nil {
			return nil, fmt.Errorf("reserve1: %w", err)
		}
	} else {
		r.logger.Debug("Pair has no getReserves, reading side balances", logger.Address("pair", address))
		if pair.Reserve0, err = r.heldBy(ctx, token0, address); err != nil {
			return nil, fmt.Errorf("token0 balance: %w", err)
		}
		if pair.Reserve1, err = r.heldBy(ctx, token1, address); err != nil {
			return nil, fmt.Errorf("token1 balance: %w", err)
		}
		tok.BalanceReserves = true
	}

	tok.Reserves = pair
	tok.Underlying = []common.Address{token0, token1}
	return tok, nil
}

// heldBy returns the raw amount of token owned by holder, using the native
// balance for the zero address.
func (r *Resolver) heldBy(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	if token == models.NativeAddress {
		return r.reader.BalanceAt(ctx, holder)
	}
	out, err := r.reader.Call(ctx, chain.NewCall(token, contracts.ERC20, "balanceOf", holder))
	if err != nil {
		return nil, err
	}
	return chain.BigInt(out, 0)
}

func (r *Resolver) decodeVault(ctx context.Context, address, staking common.Address, depth int) (*models.Token, error) {
	calls := append(r.erc20Calls(address, contracts.Vault, staking),
		chain.NewCall(address, contracts.Vault, "underlying"),
		chain.NewCall(address, contracts.Vault, "underlyingBalanceWithInvestment"),
	)
	out, err := r.reader.CallAll(ctx, calls)
	if err != nil {
		return nil, err
	}

	tok := &models.Token{Address: address, Kind: models.KindVault}
	if err := fillERC20(tok, out); err != nil {
		return nil, err
	}
	underlying, err := chain.Address(out[erc20CallCount], 0)
	if err != nil {
		return nil, fmt.Errorf("underlying: %w", err)
	}
	balance, err := chain.BigInt(out[erc20CallCount+1], 0)
	if err != nil {
		return nil, fmt.Errorf("underlyingBalanceWithInvestment: %w", err)
	}

	inner, err := r.resolve(ctx, underlying, address, depth+1)
	if err != nil {
		return nil, fmt.Errorf("underlying %s: %w", underlying.Hex(), err)
	}
	tok.VaultBalance = chain.ToFloat(balance, inner.Decimals)
	tok.Underlying = []common.Address{underlying}
	tok.Inner = inner
	return tok, nil
}
