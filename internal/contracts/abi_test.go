package contracts

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectors(t *testing.T) {
	tests := []struct {
		abiName  string
		method   string
		selector string
	}{
		{"erc20", "balanceOf", "0x70a08231"},
		{"erc20", "totalSupply", "0x18160ddd"},
		{"pair", "token0", "0x0dfe1681"},
		{"pair", "getReserves", "0x0902f1ac"},
		{"minter", "get_virtual_price", "0xbb7b8b80"},
		{"minter", "coins", "0xc6610657"},
		{"curve", "minter", "0x07546172"},
		{"vault", "underlying", "0x6f307dc3"},
	}

	for _, tt := range tests {
		t.Run(tt.abiName+"."+tt.method, func(t *testing.T) {
			var id []byte
			switch tt.abiName {
			case "erc20":
				id = ERC20.Methods[tt.method].ID
			case "pair":
				id = UniswapPair.Methods[tt.method].ID
			case "minter":
				id = CurveMinter.Methods[tt.method].ID
			case "curve":
				id = CurveToken.Methods[tt.method].ID
			case "vault":
				id = Vault.Methods[tt.method].ID
			}
			assert.Equal(t, tt.selector, hexutil.Encode(id))
		})
	}
}

func TestNewChef(t *testing.T) {
	chef, err := NewChef(ChefMethods{RewardToken: "BRL", RewardsPerBlock: "BRLPerBlock", PendingRewards: "pendingBRL"})
	require.NoError(t, err)

	for _, m := range []string{"poolLength", "totalAllocPoint", "getMultiplier", "poolInfo", "userInfo", "BRL", "BRLPerBlock", "pendingBRL"} {
		_, ok := chef.ABI.Methods[m]
		assert.True(t, ok, m)
	}
	assert.Len(t, chef.Fees.Methods["poolInfo"].Outputs, 5)
	assert.Equal(t, chef.ABI.Methods["poolInfo"].ID, chef.Fees.Methods["poolInfo"].ID)
}

func TestNewChefRejectsInjectedNames(t *testing.T) {
	_, err := NewChef(ChefMethods{RewardToken: `BRL"}`, RewardsPerBlock: "x", PendingRewards: "y"})
	assert.Error(t, err)
}
