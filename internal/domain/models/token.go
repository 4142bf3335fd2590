package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenKind is the contract shape a token address was classified as.
type TokenKind string

const (
	KindNative     TokenKind = "native"
	KindCurve      TokenKind = "curve"
	KindStableSwap TokenKind = "stableswap"
	KindUniswap    TokenKind = "uniswap"
	KindVault      TokenKind = "vault"
	KindERC20      TokenKind = "erc20"
)

func (k TokenKind) Valid() bool {
	switch k {
	case KindNative, KindCurve, KindStableSwap, KindUniswap, KindVault, KindERC20:
		return true
	}
	return false
}

// NativeAddress stands for the chain's native coin wherever a token address is expected.
var NativeAddress = common.Address{}

// ReservePair holds raw pool balances, not decimal-adjusted.
type ReservePair struct {
	Token0   common.Address
	Token1   common.Address
	Reserve0 *big.Int
	Reserve1 *big.Int
}

// Token is a normalized descriptor of any supported token or pool contract.
// Amounts are already divided by 10^Decimals.
type Token struct {
	Address     common.Address
	Kind        TokenKind
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply float64
	Staked      float64
	Unstaked    float64
	Underlying  []common.Address

	// pairs
	Reserves        *ReservePair
	BalanceReserves bool

	// curve, stableswap
	VirtualPrice float64

	// vault
	VaultBalance float64

	// vault underlying, or first coin of curve-like pools
	Inner *Token
}

// IsPair reports whether the descriptor carries AMM reserves.
func (t *Token) IsPair() bool {
	return t != nil && t.Reserves != nil
}
