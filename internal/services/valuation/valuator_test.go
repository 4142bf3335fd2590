package valuation

import (
	"encoding/json"
	"math/big"
	"testing"

	"FarmYield/internal/domain/models"
	"FarmYield/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const explorer = "https://aurorascan.dev"

var (
	brlAddr  = common.HexToAddress("0x12c87331f086c3C926248f964f8702C0842Fd77F")
	wethAddr = common.HexToAddress("0xC9BdeEd33CD01541e1eeD10f90519d2C06Fe3feB")
	pairAddr = common.HexToAddress("0x5eeC60F348cB1D661E4A5122CF4638c7DB7A886e")
)

func e18(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func fixture() (*models.Token, map[common.Address]*models.Token) {
	pool := &models.Token{
		Address:     pairAddr,
		Kind:        models.KindUniswap,
		Symbol:      "UNI-V2",
		Name:        "Uniswap V2",
		Decimals:    18,
		TotalSupply: 100,
		Staked:      50,
		Reserves: &models.ReservePair{
			Token0:   brlAddr,
			Token1:   wethAddr,
			Reserve0: e18(1000),
			Reserve1: e18(10),
		},
	}
	tokens := map[common.Address]*models.Token{
		brlAddr:  {Address: brlAddr, Symbol: "BRL", Name: "Borealis", Decimals: 18},
		wethAddr: {Address: wethAddr, Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18},
	}
	return pool, tokens
}

func TestValuateImputesMissingSide(t *testing.T) {
	pool, tokens := fixture()
	prices := models.NewPriceTable()
	prices.Set(wethAddr, models.Price{USD: 3000, Symbol: "WETH"})

	v := New(explorer, logger.Nop()).Valuate(pool, tokens, prices)
	require.NotNil(t, v)

	assert.InDelta(t, 30.0, v.Price0, 1e-9)
	assert.InDelta(t, 60000.0, v.TVL, 1e-6)
	assert.InDelta(t, 600.0, v.PoolPrice, 1e-9)
	assert.InDelta(t, 30000.0, v.StakedTVL, 1e-6)
	assert.Equal(t, 1000.0, v.Reserve0)
	assert.Equal(t, 10.0, v.Reserve1)

	// one-sided quote gives TVL = 2*q1*p1
	assert.InDelta(t, 2*v.Reserve1*v.Price1, v.TVL, 1e-6)

	assert.InDelta(t, 30.0, prices.USD(brlAddr), 1e-9)
	assert.InDelta(t, 600.0, prices.USD(pairAddr), 1e-9)
}

func TestValuateImputesToken1(t *testing.T) {
	pool, tokens := fixture()
	prices := models.NewPriceTable()
	prices.Set(brlAddr, models.Price{USD: 30})

	v := New(explorer, logger.Nop()).Valuate(pool, tokens, prices)
	require.NotNil(t, v)

	assert.InDelta(t, 3000.0, v.Price1, 1e-9)
	assert.InDelta(t, 3000.0, prices.USD(wethAddr), 1e-9)
}

func TestValuateKeepsQuotedPrices(t *testing.T) {
	pool, tokens := fixture()
	prices := models.NewPriceTable()
	prices.Set(brlAddr, models.Price{USD: 20})
	prices.Set(wethAddr, models.Price{USD: 3000})

	v := New(explorer, logger.Nop()).Valuate(pool, tokens, prices)
	require.NotNil(t, v)

	assert.Equal(t, 20.0, v.Price0)
	assert.InDelta(t, 50000.0, v.TVL, 1e-6)
}

func TestValuateMixedDecimals(t *testing.T) {
	pool, tokens := fixture()
	usdc := tokens[brlAddr]
	usdc.Decimals = 6
	pool.Reserves.Reserve0 = big.NewInt(1000_000_000)
	pool.Reserves.Reserve1 = e18(500)
	prices := models.NewPriceTable()
	prices.Set(wethAddr, models.Price{USD: 4})

	v := New(explorer, logger.Nop()).Valuate(pool, tokens, prices)
	require.NotNil(t, v)

	assert.Equal(t, 1000.0, v.Reserve0)
	assert.Equal(t, 500.0, v.Reserve1)
	assert.InDelta(t, 2.0, v.Price0, 1e-12)
	assert.InDelta(t, v.Price0*v.Reserve0, v.Price1*v.Reserve1, 1e-9)
	assert.InDelta(t, 2*v.Reserve1*v.Price1, v.TVL, 1e-9)
	assert.InDelta(t, 4000.0, v.TVL, 1e-9)
}

func TestValuateDropsPool(t *testing.T) {
	priced := func() *models.PriceTable {
		p := models.NewPriceTable()
		p.Set(wethAddr, models.Price{USD: 3000})
		return p
	}

	tests := []struct {
		name   string
		mutate func(pool *models.Token, tokens map[common.Address]*models.Token)
		prices *models.PriceTable
	}{
		{
			name:   "both prices missing",
			mutate: func(*models.Token, map[common.Address]*models.Token) {},
			prices: models.NewPriceTable(),
		},
		{
			name:   "not a pair",
			mutate: func(pool *models.Token, _ map[common.Address]*models.Token) { pool.Reserves = nil },
			prices: priced(),
		},
		{
			name:   "side descriptor missing",
			mutate: func(_ *models.Token, tokens map[common.Address]*models.Token) { delete(tokens, brlAddr) },
			prices: priced(),
		},
		{
			name: "empty reserve on the unquoted side",
			mutate: func(pool *models.Token, _ map[common.Address]*models.Token) {
				pool.Reserves.Reserve0 = big.NewInt(0)
			},
			prices: priced(),
		},
		{
			name: "both reserves empty",
			mutate: func(pool *models.Token, _ map[common.Address]*models.Token) {
				pool.Reserves.Reserve0 = big.NewInt(0)
				pool.Reserves.Reserve1 = big.NewInt(0)
			},
			prices: priced(),
		},
		{
			name:   "zero total supply",
			mutate: func(pool *models.Token, _ map[common.Address]*models.Token) { pool.TotalSupply = 0 },
			prices: priced(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, tokens := fixture()
			tt.mutate(pool, tokens)
			before := tt.prices.Len()

			assert.Nil(t, New(explorer, logger.Nop()).Valuate(pool, tokens, tt.prices))
			assert.Equal(t, before, tt.prices.Len(), "a dropped pool writes no prices")
			_, err := json.Marshal(&models.FarmResult{Prices: tt.prices})
			assert.NoError(t, err)
		})
	}
}

func TestLabel(t *testing.T) {
	t0 := &models.Token{Symbol: "BRL"}
	t1 := &models.Token{Symbol: "WETH"}
	addr := pairAddr.Hex()

	tests := []struct {
		name     string
		pool     *models.Token
		wantName string
		wantLink string
	}{
		{
			name:     "default uni",
			pool:     &models.Token{Address: pairAddr, Symbol: "UNI-V2", Name: "Uniswap V2"},
			wantName: "[BRL]-[WETH] Uni LP",
			wantLink: explorer + "/address/" + addr,
		},
		{
			name:     "balance reserves",
			pool:     &models.Token{Address: pairAddr, Symbol: "TLP", BalanceReserves: true},
			wantName: "[BRL]-[WETH] 1INCH LP",
			wantLink: "https://1inch.exchange/#/dao/pools",
		},
		{
			name:     "tethys before broad matches",
			pool:     &models.Token{Address: pairAddr, Symbol: "TETHYSLP"},
			wantName: "[BRL]-[WETH] TETHYS LP",
			wantLink: "https://info.tethys.finance/pair/" + addr,
		},
		{
			name:     "pangolin",
			pool:     &models.Token{Address: pairAddr, Symbol: "PGL"},
			wantName: "[BRL]-[WETH] PGL",
			wantLink: "https://info.pangolin.exchange/#/pair/" + addr,
		},
		{
			name:     "trisolaris",
			pool:     &models.Token{Address: pairAddr, Symbol: "TLP", Name: "Trisolaris LP"},
			wantName: "[BRL]-[WETH] Trisolaris LP Token",
			wantLink: explorer + "/address/" + addr,
		},
		{
			name:     "thorus",
			pool:     &models.Token{Address: pairAddr, Symbol: "TLP", Name: "Thorus LP"},
			wantName: "[BRL]-[WETH] Thorus LP Token",
			wantLink: explorer + "/address/" + addr,
		},
		{
			name:     "huckleberry before bakery",
			pool:     &models.Token{Address: pairAddr, Symbol: "HBLP"},
			wantName: "[BRL]-[WETH] Huckleberry LP",
			wantLink: "https://info.huckleberry.finance/pair/" + addr,
		},
		{
			name:     "matched by name",
			pool:     &models.Token{Address: pairAddr, Symbol: "X", Name: "Value LP"},
			wantName: "[BRL]-[WETH] Value LP",
			wantLink: "https://info.vswap.fi/pool/" + addr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, link := Label(tt.pool, t0, t1, explorer+"/")
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantLink, link)
		})
	}
}

func TestLabelWithoutExplorer(t *testing.T) {
	pool := &models.Token{Address: pairAddr, Symbol: "UNI-V2"}
	_, link := Label(pool, &models.Token{Symbol: "A"}, &models.Token{Symbol: "B"}, "")
	assert.Empty(t, link)
}
