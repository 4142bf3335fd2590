package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"sync"
	"time"

	"FarmYield/internal/contracts"
	"FarmYield/internal/domain/models"
	domrepo "FarmYield/internal/domain/repository"
	"FarmYield/internal/services/valuation"
	"FarmYield/internal/services/yield"
	"FarmYield/pkg/chain"
	"FarmYield/pkg/config"
	"FarmYield/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

const secondsPerWeek = 604800

// Reward modes of config.RewardsConfig.
const (
	RewardsMultiplier = "multiplier"
	RewardsPerBlock   = "per_block"
	RewardsFixed      = "fixed"
)

// EvaluatorConfig holds the farm-independent settings of an evaluation.
type EvaluatorConfig struct {
	Holder       common.Address
	RewardTicker string
	KnownTokens  []models.KnownToken
	Concurrency  int
	Rewards      config.RewardsConfig
}

// FarmEvaluator computes pool APRs of a MasterChef style farm.
type FarmEvaluator struct {
	reader   domrepo.ChainReader
	resolver domrepo.TokenResolver
	oracle   domrepo.PriceOracle
	valuator *valuation.Valuator
	chef     *contracts.Chef
	metrics  domrepo.Metrics
	logger   *logger.Logger
	cfg      EvaluatorConfig
}

func NewFarmEvaluator(
	reader domrepo.ChainReader,
	resolver domrepo.TokenResolver,
	oracle domrepo.PriceOracle,
	valuator *valuation.Valuator,
	chef *contracts.Chef,
	m domrepo.Metrics,
	log *logger.Logger,
	cfg EvaluatorConfig,
) *FarmEvaluator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	return &FarmEvaluator{
		reader:   reader,
		resolver: resolver,
		oracle:   oracle,
		valuator: valuator,
		chef:     chef,
		metrics:  m,
		logger:   log,
		cfg:      cfg,
	}
}

// farmState is what one evaluation reads from the chef before looking at pools.
type farmState struct {
	block          uint64
	poolLength     int
	totalAlloc     *big.Int
	rewardToken    common.Address
	rewardDecimals uint8
	rewardsPerWeek float64
}

// EvaluateFarm values the selected pools of farm and reports the first one
// that could be valued. Pools that cannot be read, resolved or priced are
// dropped; only farm-level chain failures and oracle failures are returned.
func (e *FarmEvaluator) EvaluateFarm(ctx context.Context, farm common.Address, selected []int) (*models.FarmResult, error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordLatency("evaluate_farm", time.Since(start).Seconds())
	}()

	st, err := e.readFarm(ctx, farm)
	if err != nil {
		return nil, e.fail("chain", err)
	}

	prices, err := e.oracle.LookUpPrices(ctx, e.cfg.KnownTokens)
	if err != nil {
		if !errors.Is(err, models.ErrPriceUnavailable) {
			err = fmt.Errorf("%w: %v", models.ErrPriceUnavailable, err)
		}
		return nil, e.fail("price", err)
	}

	pools := e.loadPools(ctx, farm, poolIndexes(selected, st.poolLength))
	tokens := e.resolveUnderlying(ctx, farm, pools)
	if err := ctx.Err(); err != nil {
		return nil, e.fail("cancelled", err)
	}

	result := &models.FarmResult{Chef: farm.Hex(), BlockNumber: st.block, Prices: prices}
	totalAlloc := chain.ToFloat(st.totalAlloc, 0)

	for _, p := range pools {
		v := e.valuator.Valuate(p.Token, tokens, prices)
		if v == nil {
			continue
		}

		var poolRewards float64
		if totalAlloc > 0 {
			poolRewards = chain.ToFloat(p.AllocPoint, 0) / totalAlloc * st.rewardsPerWeek
		}
		if poolRewards == 0 && st.rewardsPerWeek != 0 {
			continue
		}

		// read after Valuate, which may have imputed the reward token price
		rewardPrice := prices.USD(st.rewardToken)
		y := yield.ComputeAPR(e.cfg.RewardTicker, rewardPrice, poolRewards, v.StakedTVL)
		yield.ApplyShare(p.Position, v.PoolPrice, v.StakedTVL, y)
		e.metrics.RecordPoolAPR(strconv.Itoa(p.Index), y.YearlyAPR)

		if result.PoolResult == nil {
			result.PoolResult = models.NewPoolResult(p.Index, v, y, p.Position)
		}
	}

	if result.PoolResult == nil {
		e.logger.Warn("No selected pool could be valued",
			logger.Address("farm", farm),
			logger.Any("selected", selected),
		)
		e.metrics.RecordEvaluation("empty")
	} else {
		e.metrics.RecordEvaluation("ok")
	}
	return result, nil
}

func (e *FarmEvaluator) fail(kind string, err error) error {
	e.metrics.RecordEvaluation(kind + "_error")
	e.metrics.RecordError(kind)
	return err
}

func (e *FarmEvaluator) readFarm(ctx context.Context, farm common.Address) (*farmState, error) {
	block, err := e.reader.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: block number: %v", models.ErrChainUnavailable, err)
	}

	out, err := e.reader.CallAll(ctx, []chain.Call{
		chain.NewCall(farm, e.chef.ABI, "poolLength"),
		chain.NewCall(farm, e.chef.ABI, "totalAllocPoint"),
		chain.NewCall(farm, e.chef.ABI, e.chef.Methods.RewardToken),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: farm aggregates: %v", models.ErrChainUnavailable, err)
	}

	st := &farmState{block: block, rewardDecimals: 18}
	length, err := chain.BigInt(out[0], 0)
	if err != nil {
		return nil, fmt.Errorf("%w: poolLength: %v", models.ErrChainUnavailable, err)
	}
	if !length.IsInt64() {
		return nil, fmt.Errorf("%w: poolLength %s out of range", models.ErrChainUnavailable, length)
	}
	st.poolLength = int(length.Int64())
	if st.totalAlloc, err = chain.BigInt(out[1], 0); err != nil {
		return nil, fmt.Errorf("%w: totalAllocPoint: %v", models.ErrChainUnavailable, err)
	}
	if st.rewardToken, err = chain.Address(out[2], 0); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrChainUnavailable, e.chef.Methods.RewardToken, err)
	}

	reward, err := e.resolver.Resolve(ctx, st.rewardToken, farm)
	switch {
	case err == nil:
		st.rewardDecimals = reward.Decimals
	case e.cfg.Rewards.Mode == RewardsPerBlock:
		return nil, fmt.Errorf("%w: reward token %s: %v", models.ErrChainUnavailable, st.rewardToken.Hex(), err)
	default:
		e.logger.Warn("Could not resolve reward token", logger.Address("token", st.rewardToken), logger.Error(err))
	}

	if st.rewardsPerWeek, err = e.rewardsPerWeek(ctx, farm, st); err != nil {
		return nil, fmt.Errorf("%w: rewards per week: %v", models.ErrChainUnavailable, err)
	}
	return st, nil
}

// rewardsPerWeek derives the farm's weekly emission in reward tokens.
func (e *FarmEvaluator) rewardsPerWeek(ctx context.Context, farm common.Address, st *farmState) (float64, error) {
	r := e.cfg.Rewards
	switch r.Mode {
	case RewardsFixed:
		return r.FixedPerWeek, nil

	case RewardsPerBlock:
		out, err := e.reader.Call(ctx, chain.NewCall(farm, e.chef.ABI, e.chef.Methods.RewardsPerBlock))
		if err != nil {
			return 0, err
		}
		perBlock, err := chain.BigInt(out, 0)
		if err != nil {
			return 0, err
		}
		return chain.ToFloat(perBlock, st.rewardDecimals) * secondsPerWeek / r.PerBlockDivisor, nil

	case RewardsMultiplier, "":
		b := new(big.Int).SetUint64(st.block)
		out, err := e.reader.CallAll(ctx, []chain.Call{
			chain.NewCall(farm, e.chef.ABI, e.chef.Methods.RewardsPerBlock),
			chain.NewCall(farm, e.chef.ABI, "getMultiplier", b, new(big.Int).Add(b, big.NewInt(1))),
		})
		if err != nil {
			return 0, err
		}
		perBlock, err := chain.BigInt(out[0], 0)
		if err != nil {
			return 0, err
		}
		multiplier, err := chain.BigInt(out[1], 0)
		if err != nil {
			return 0, err
		}
		return chain.ToFloat(perBlock, 18) * chain.ToFloat(multiplier, 0) * secondsPerWeek / r.BlockTimeSeconds, nil
	}
	return 0, fmt.Errorf("unknown rewards mode %q", r.Mode)
}

// poolIndexes returns the distinct selected indexes below length, ascending.
func poolIndexes(selected []int, length int) []int {
	seen := make(map[int]struct{}, len(selected))
	out := make([]int, 0, len(selected))
	for _, i := range selected {
		if i < 0 || i >= length {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// loadPools reads pool info, the staking token and the holder position of
// each index. Pools with zero allocation or an unreadable token are dropped.
func (e *FarmEvaluator) loadPools(ctx context.Context, farm common.Address, indexes []int) []*models.PoolInfo {
	loaded := make([]*models.PoolInfo, len(indexes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for slot, index := range indexes {
		g.Go(func() error {
			p, err := e.loadPool(gctx, farm, index)
			if err != nil {
				e.logger.Warn("Dropping pool", logger.Int("pool", index), logger.Error(err))
				return nil
			}
			loaded[slot] = p
			return nil
		})
	}
	_ = g.Wait()

	pools := make([]*models.PoolInfo, 0, len(loaded))
	for _, p := range loaded {
		if p != nil {
			pools = append(pools, p)
		}
	}
	return pools
}

func (e *FarmEvaluator) loadPool(ctx context.Context, farm common.Address, index int) (*models.PoolInfo, error) {
	pid := big.NewInt(int64(index))
	out, err := e.reader.Call(ctx, chain.NewCall(farm, e.chef.ABI, "poolInfo", pid))
	if err != nil {
		return nil, fmt.Errorf("poolInfo: %w", err)
	}
	lpToken, err := chain.Address(out, 0)
	if err != nil {
		return nil, fmt.Errorf("poolInfo lpToken: %w", err)
	}
	alloc, err := chain.BigInt(out, 1)
	if err != nil {
		return nil, fmt.Errorf("poolInfo allocPoint: %w", err)
	}
	if alloc.Sign() == 0 {
		e.logger.Debug("Skipping pool without allocation", logger.Int("pool", index))
		return nil, nil
	}

	tok, err := e.resolver.Resolve(ctx, lpToken, farm)
	if err != nil {
		return nil, fmt.Errorf("staking token %s: %w", lpToken.Hex(), err)
	}

	return &models.PoolInfo{
		Index:      index,
		LPToken:    lpToken,
		AllocPoint: alloc,
		Token:      tok,
		Position:   e.readPosition(ctx, farm, pid, tok.Decimals),
	}, nil
}

// readPosition reads the holder's stake softly; unreadable fields stay zero.
func (e *FarmEvaluator) readPosition(ctx context.Context, farm common.Address, pid *big.Int, decimals uint8) *models.Position {
	pos := &models.Position{}
	reads := []struct {
		call  chain.Call
		apply func(values []interface{}) error
	}{
		{
			call: chain.NewCall(farm, e.chef.ABI, "userInfo", pid, e.cfg.Holder),
			apply: func(v []interface{}) error {
				amount, err := chain.BigInt(v, 0)
				pos.Staked = chain.ToFloat(amount, decimals)
				return err
			},
		},
		{
			call: chain.NewCall(farm, e.chef.ABI, e.chef.Methods.PendingRewards, pid, e.cfg.Holder),
			apply: func(v []interface{}) error {
				pending, err := chain.BigInt(v, 0)
				pos.PendingRewards = chain.ToFloat(pending, 18)
				return err
			},
		},
		{
			call: chain.NewCall(farm, e.chef.Fees, "poolInfo", pid),
			apply: func(v []interface{}) error {
				fee, err := chain.BigInt(v, 4)
				if err == nil {
					pos.DepositFee = chain.ToFloat(fee, 0) / 100
				}
				return err
			},
		},
	}

	for _, r := range reads {
		out, err := e.reader.Call(ctx, r.call)
		if err == nil {
			err = r.apply(out)
		}
		if err != nil {
			e.logger.Debug("Position field unavailable", logger.String("call", r.call.String()), logger.Error(err))
		}
	}
	return pos
}

// resolveUnderlying resolves every token the pools are made of. Addresses
// that fail to resolve are left out, which drops the pools that need them.
func (e *FarmEvaluator) resolveUnderlying(ctx context.Context, farm common.Address, pools []*models.PoolInfo) map[common.Address]*models.Token {
	var (
		mu     sync.Mutex
		tokens = make(map[common.Address]*models.Token)
	)
	pending := make(map[common.Address]struct{})
	for _, p := range pools {
		for _, a := range p.Token.Underlying {
			pending[a] = struct{}{}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for address := range pending {
		g.Go(func() error {
			tok, err := e.resolver.Resolve(gctx, address, farm)
			if err != nil {
				e.logger.Warn("Could not resolve underlying token", logger.Address("token", address), logger.Error(err))
				return nil
			}
			mu.Lock()
			tokens[address] = tok
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return tokens
}
