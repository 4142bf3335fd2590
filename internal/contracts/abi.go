// Package contracts holds the ABIs of every contract shape the service reads.
package contracts

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const erc20Methods = `
	{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}`

const pairMethods = `
	{"type":"function","name":"token0","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"token1","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"getReserves","stateMutability":"view","inputs":[],"outputs":[
		{"name":"_reserve0","type":"uint112"},{"name":"_reserve1","type":"uint112"},{"name":"_blockTimestampLast","type":"uint32"}]}`

const poolMethods = `
	{"type":"function","name":"get_virtual_price","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"coins","stateMutability":"view","inputs":[{"name":"i","type":"uint256"}],"outputs":[{"name":"","type":"address"}]}`

const curveMethods = `
	{"type":"function","name":"minter","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}`

const vaultMethods = `
	{"type":"function","name":"underlying","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"underlyingBalanceWithInvestment","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}`

var (
	ERC20       = mustParse(erc20Methods)
	UniswapPair = mustParse(erc20Methods, pairMethods)
	CurveToken  = mustParse(erc20Methods, curveMethods)
	CurveMinter = mustParse(poolMethods)
	StableSwap  = mustParse(erc20Methods, poolMethods)
	Vault       = mustParse(erc20Methods, vaultMethods)
)

func parse(fragments ...string) (*abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader("[" + strings.Join(fragments, ",") + "]"))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func mustParse(fragments ...string) *abi.ABI {
	parsed, err := parse(fragments...)
	if err != nil {
		panic(fmt.Sprintf("contracts: bad abi: %v", err))
	}
	return parsed
}

// ChefMethods names the farm-specific accessors of a MasterChef fork.
type ChefMethods struct {
	RewardToken     string // e.g. BRL()
	RewardsPerBlock string // e.g. BRLPerBlock()
	PendingRewards  string // e.g. pendingBRL(uint256,address)
}

// Chef is a MasterChef ABI bound to one fork's method names.
type Chef struct {
	ABI     *abi.ABI
	Fees    *abi.ABI
	Methods ChefMethods
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewChef builds the ABI for a chef. poolInfo decodes only the leading
// (lpToken, allocPoint) words; Fees additionally decodes depositFeeBP, which not every fork has.
func NewChef(m ChefMethods) (*Chef, error) {
	for _, name := range []string{m.RewardToken, m.RewardsPerBlock, m.PendingRewards} {
		if !identifier.MatchString(name) {
			return nil, fmt.Errorf("contracts: invalid chef method name %q", name)
		}
	}

	core := fmt.Sprintf(`
	{"type":"function","name":"poolLength","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"totalAllocPoint","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getMultiplier","stateMutability":"view","inputs":[{"name":"_from","type":"uint256"},{"name":"_to","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"poolInfo","stateMutability":"view","inputs":[{"name":"pid","type":"uint256"}],"outputs":[
		{"name":"lpToken","type":"address"},{"name":"allocPoint","type":"uint256"}]},
	{"type":"function","name":"userInfo","stateMutability":"view","inputs":[{"name":"pid","type":"uint256"},{"name":"user","type":"address"}],"outputs":[
		{"name":"amount","type":"uint256"},{"name":"rewardDebt","type":"uint256"}]},
	{"type":"function","name":%q,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":%q,"stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":%q,"stateMutability":"view","inputs":[{"name":"pid","type":"uint256"},{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}`,
		m.RewardToken, m.RewardsPerBlock, m.PendingRewards)

	parsed, err := parse(core)
	if err != nil {
		return nil, fmt.Errorf("contracts: chef abi: %w", err)
	}

	fees, err := parse(`
	{"type":"function","name":"poolInfo","stateMutability":"view","inputs":[{"name":"pid","type":"uint256"}],"outputs":[
		{"name":"lpToken","type":"address"},{"name":"allocPoint","type":"uint256"},{"name":"lastRewardBlock","type":"uint256"},
		{"name":"accRewardPerShare","type":"uint256"},{"name":"depositFeeBP","type":"uint16"}]}`)
	if err != nil {
		return nil, fmt.Errorf("contracts: chef fee abi: %w", err)
	}

	return &Chef{ABI: parsed, Fees: fees, Methods: m}, nil
}
