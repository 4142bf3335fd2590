// Package yield turns weekly reward emissions into APR figures.
package yield

import "FarmYield/internal/domain/models"

const (
	daysPerWeek  = 7
	weeksPerYear = 52
)

// ComputeAPR derives the reward value and APRs of one pool. A zero stakedTVL
// produces non-finite APRs rather than an error.
func ComputeAPR(rewardSymbol string, rewardPrice, poolRewardsPerWeek, stakedTVL float64) models.YieldResult {
	usdPerWeek := poolRewardsPerWeek * rewardPrice
	weekly := usdPerWeek / stakedTVL * 100
	return models.YieldResult{
		RewardTokenSymbol:  rewardSymbol,
		RewardPrice:        rewardPrice,
		PoolRewardsPerWeek: poolRewardsPerWeek,
		USDPerWeek:         usdPerWeek,
		DailyAPR:           weekly / daysPerWeek,
		WeeklyAPR:          weekly,
		YearlyAPR:          weekly * weeksPerYear,
	}
}

// ApplyShare fills the holder's USD stake, share of the staked pool and
// projected yearly rewards.
func ApplyShare(pos *models.Position, poolPrice, stakedTVL float64, y models.YieldResult) {
	if pos == nil {
		return
	}
	stakedUSD := pos.Staked * poolPrice
	share := stakedUSD / stakedTVL * 100
	if stakedUSD == 0 {
		share = 0
	}
	pos.StakedUSD = models.JSONFloat(stakedUSD)
	pos.PoolShare = models.JSONFloat(share)
	pos.YearlyUSD = models.JSONFloat(share * y.PoolRewardsPerWeek / 100 * weeksPerYear * y.RewardPrice)
}
