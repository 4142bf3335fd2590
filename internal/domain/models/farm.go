package models

import (
	"encoding/json"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolInfo is one chef pool as read from the farm contract.
type PoolInfo struct {
	Index      int
	LPToken    common.Address
	AllocPoint *big.Int
	Token      *Token
	Position   *Position
}

// PoolValuation is the USD view of an AMM pool.
type PoolValuation struct {
	Token0    *Token
	Price0    float64
	Reserve0  float64
	Token1    *Token
	Price1    float64
	Reserve1  float64
	PoolPrice float64
	TVL       float64
	StakedTVL float64
	Label     string
	Link      string
}

// YieldResult holds the reward and APR figures of one pool.
type YieldResult struct {
	RewardTokenSymbol  string
	RewardPrice        float64
	PoolRewardsPerWeek float64
	USDPerWeek         float64
	DailyAPR           float64
	WeeklyAPR          float64
	YearlyAPR          float64
}

// JSONFloat encodes NaN and infinities as null.
type JSONFloat float64

func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type TokenSummary struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type TVL struct {
	Pooled JSONFloat `json:"pooled"`
	Staked JSONFloat `json:"staked"`
}

// Position is the configured holder's stake in a pool.
type Position struct {
	Staked         float64   `json:"staked"`
	PendingRewards float64   `json:"pendingRewards"`
	DepositFee     float64   `json:"depositFee"`
	StakedUSD      JSONFloat `json:"stakedUsd"`
	PoolShare      JSONFloat `json:"poolSharePct"`
	YearlyUSD      JSONFloat `json:"yearlyRewardsUsd"`
}

type PoolResult struct {
	PoolIndex          int          `json:"poolIndex"`
	Token0             TokenSummary `json:"token0"`
	Token1             TokenSummary `json:"token1"`
	TVL                TVL          `json:"tvl"`
	StakingToken       string       `json:"stakingToken"`
	StakingTokenURL    string       `json:"stakingTokenUrl,omitempty"`
	USDPerWeek         JSONFloat    `json:"usdPerWeek"`
	RewardTokenTicker  string       `json:"rewardTokenTicker"`
	RewardPrice        JSONFloat    `json:"rewardPrice"`
	PoolRewardsPerWeek JSONFloat    `json:"poolRewardsPerWeek"`
	DailyAPR           JSONFloat    `json:"dailyAPR"`
	WeeklyAPR          JSONFloat    `json:"weeklyAPR"`
	YearlyAPR          JSONFloat    `json:"yearlyAPR"`
	Position           *Position    `json:"position,omitempty"`
}

// FarmResult is the response of one farm evaluation. Pool fields are inlined
// and absent when no selected pool could be valued.
type FarmResult struct {
	Chef        string `json:"chef"`
	BlockNumber uint64 `json:"blockNumber"`
	*PoolResult
	Prices *PriceTable `json:"prices"`
}

// NewPoolResult assembles the output view of a valued pool.
func NewPoolResult(index int, v *PoolValuation, y YieldResult, pos *Position) *PoolResult {
	return &PoolResult{
		PoolIndex:          index,
		Token0:             TokenSummary{Symbol: v.Token0.Symbol, Name: v.Token0.Name},
		Token1:             TokenSummary{Symbol: v.Token1.Symbol, Name: v.Token1.Name},
		TVL:                TVL{Pooled: JSONFloat(v.TVL), Staked: JSONFloat(v.StakedTVL)},
		StakingToken:       v.Label,
		StakingTokenURL:    v.Link,
		USDPerWeek:         JSONFloat(y.USDPerWeek),
		RewardTokenTicker:  y.RewardTokenSymbol,
		RewardPrice:        JSONFloat(y.RewardPrice),
		PoolRewardsPerWeek: JSONFloat(y.PoolRewardsPerWeek),
		DailyAPR:           JSONFloat(y.DailyAPR),
		WeeklyAPR:          JSONFloat(y.WeeklyAPR),
		YearlyAPR:          JSONFloat(y.YearlyAPR),
		Position:           pos,
	}
}
