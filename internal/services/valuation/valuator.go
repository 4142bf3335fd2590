// Package valuation prices AMM pool tokens from their reserves.
package valuation

import (
	"math"

	"FarmYield/internal/domain/models"
	"FarmYield/pkg/chain"
	"FarmYield/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
)

type Valuator struct {
	explorerURL string
	logger      *logger.Logger
}

func New(explorerURL string, log *logger.Logger) *Valuator {
	return &Valuator{explorerURL: explorerURL, logger: log}
}

// Valuate prices pool from its reserves. A side without a quote is imputed
// from the other side, since both hold equal value in a constant-product pool.
// Imputed prices and the resulting LP price are written back into prices.
// It returns nil when the pool cannot be valued.
func (v *Valuator) Valuate(pool *models.Token, tokens map[common.Address]*models.Token, prices *models.PriceTable) *models.PoolValuation {
	if !pool.IsPair() {
		v.logger.Debug("Pool token is not a pair", logger.Address("pool", pool.Address), logger.String("kind", string(pool.Kind)))
		return nil
	}
	r := pool.Reserves

	p0, ok0 := prices.Get(r.Token0)
	p1, ok1 := prices.Get(r.Token1)
	if !ok0 && !ok1 {
		v.logger.Warn("Missing prices for both pool tokens",
			logger.Address("pool", pool.Address),
			logger.Address("token0", r.Token0),
			logger.Address("token1", r.Token1),
		)
		return nil
	}

	t0, t1 := tokens[r.Token0], tokens[r.Token1]
	if t0 == nil {
		v.logger.Warn("Missing information for token", logger.Address("token", r.Token0))
		return nil
	}
	if t1 == nil {
		v.logger.Warn("Missing information for token", logger.Address("token", r.Token1))
		return nil
	}
	if pool.TotalSupply == 0 {
		v.logger.Warn("Pool has zero total supply", logger.Address("pool", pool.Address))
		return nil
	}

	q0 := chain.ToFloat(r.Reserve0, t0.Decimals)
	q1 := chain.ToFloat(r.Reserve1, t1.Decimals)

	if q0 == 0 || q1 == 0 {
		v.logger.Warn("Pool has an empty reserve", logger.Address("pool", pool.Address))
		return nil
	}

	price0, price1 := p0.USD, p1.USD
	if !ok0 {
		price0 = q1 * price1 / q0
	}
	if !ok1 {
		price1 = q0 * price0 / q1
	}
	tvl := q0*price0 + q1*price1
	poolPrice := tvl / pool.TotalSupply
	if !finite(price0, price1, tvl, poolPrice) {
		v.logger.Warn("Pool valuation is not finite", logger.Address("pool", pool.Address))
		return nil
	}

	if !ok0 {
		prices.Set(r.Token0, models.Price{USD: price0})
	}
	if !ok1 {
		prices.Set(r.Token1, models.Price{USD: price1})
	}
	prices.Set(pool.Address, models.Price{USD: poolPrice})

	label, link := Label(pool, t0, t1, v.explorerURL)
	return &models.PoolValuation{
		Token0:    t0,
		Price0:    price0,
		Reserve0:  q0,
		Token1:    t1,
		Price1:    price1,
		Reserve1:  q1,
		PoolPrice: poolPrice,
		TVL:       tvl,
		StakedTVL: pool.Staked * poolPrice,
		Label:     label,
		Link:      link,
	}
}

func finite(vs ...float64) bool {
	for _, f := range vs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
