package yield

import (
	"math"
	"testing"

	"FarmYield/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeAPR(t *testing.T) {
	y := ComputeAPR("BRL", 2, 10000, 100000)

	assert.Equal(t, "BRL", y.RewardTokenSymbol)
	assert.Equal(t, 20000.0, y.USDPerWeek)
	assert.InDelta(t, 20.0, y.WeeklyAPR, 1e-9)
	assert.InDelta(t, 20.0/7, y.DailyAPR, 1e-9)
	assert.InDelta(t, 1040.0, y.YearlyAPR, 1e-9)
}

func TestComputeAPRRatios(t *testing.T) {
	for _, staked := range []float64{1, 37.5, 1e9} {
		y := ComputeAPR("X", 1.7, 123, staked)
		assert.InDelta(t, y.WeeklyAPR*52, y.YearlyAPR, 1e-9)
		assert.InDelta(t, y.WeeklyAPR/7, y.DailyAPR, 1e-9)
	}
}

func TestComputeAPRZeroStakeIsNonFinite(t *testing.T) {
	y := ComputeAPR("BRL", 2, 10000, 0)
	assert.True(t, math.IsInf(y.WeeklyAPR, 1))
	assert.True(t, math.IsInf(y.YearlyAPR, 1))

	y = ComputeAPR("BRL", 0, 0, 0)
	assert.True(t, math.IsNaN(y.WeeklyAPR))
}

func TestApplyShare(t *testing.T) {
	y := ComputeAPR("BRL", 2, 10000, 100000)
	pos := &models.Position{Staked: 10}

	ApplyShare(pos, 1000, 100000, y)

	assert.InDelta(t, 10000.0, float64(pos.StakedUSD), 1e-9)
	assert.InDelta(t, 10.0, float64(pos.PoolShare), 1e-9)
	// 10% of 10000 BRL a week at $2 over 52 weeks
	assert.InDelta(t, 104000.0, float64(pos.YearlyUSD), 1e-6)
}

func TestApplyShareWithoutStake(t *testing.T) {
	pos := &models.Position{}
	ApplyShare(pos, 1000, 0, ComputeAPR("BRL", 2, 10000, 0))
	assert.Equal(t, models.JSONFloat(0), pos.PoolShare)

	assert.NotPanics(t, func() { ApplyShare(nil, 1, 1, models.YieldResult{}) })
}
