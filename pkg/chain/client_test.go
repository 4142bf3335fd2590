package chain

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTokenABI = `[
	{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"minter","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`

type callArgs struct {
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

// fakeEth serves the eth namespace from canned ABI-encoded answers.
type fakeEth struct {
	mu      sync.Mutex
	abi     abi.ABI
	answers map[string][]byte
	calls   int
}

func (f *fakeEth) Call(args callArgs, block string) (hexutil.Bytes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	method, err := f.abi.MethodById(args.Data[:4])
	if err != nil {
		return nil, err
	}
	out, ok := f.answers[args.To.Hex()+"."+method.Name]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return out, nil
}

func (f *fakeEth) BlockNumber() hexutil.Uint64 {
	return 61_000_000
}

func (f *fakeEth) GetBalance(addr common.Address, block string) (*hexutil.Big, error) {
	return (*hexutil.Big)(big.NewInt(7e18)), nil
}

var tokenAddr = common.HexToAddress("0xC9BdeEd33CD01541e1eeD10f90519d2C06Fe3feB")

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeEth, *abi.ABI) {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(testTokenABI))
	require.NoError(t, err)

	pack := func(method string, v ...interface{}) []byte {
		out, err := parsed.Methods[method].Outputs.Pack(v...)
		require.NoError(t, err)
		return out
	}

	svc := &fakeEth{
		abi: parsed,
		answers: map[string][]byte{
			tokenAddr.Hex() + ".name":      pack("name", "Wrapped Ether"),
			tokenAddr.Hex() + ".decimals":  pack("decimals", uint8(18)),
			tokenAddr.Hex() + ".balanceOf": pack("balanceOf", big.NewInt(5e17)),
		},
	}

	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", svc))
	t.Cleanup(srv.Stop)

	c := NewClient(rpc.DialInProc(srv), opts...)
	t.Cleanup(c.Close)
	return c, svc, &parsed
}

func TestClientCall(t *testing.T) {
	c, _, parsed := newTestClient(t)

	out, err := c.Call(context.Background(), NewCall(tokenAddr, parsed, "name"))
	require.NoError(t, err)

	name, err := String(out, 0)
	require.NoError(t, err)
	assert.Equal(t, "Wrapped Ether", name)
}

func TestClientCallReverted(t *testing.T) {
	c, _, parsed := newTestClient(t)

	_, err := c.Call(context.Background(), NewCall(tokenAddr, parsed, "minter"))
	assert.Error(t, err)
}

func TestClientCallAllPreservesOrder(t *testing.T) {
	c, svc, parsed := newTestClient(t, WithBatchSize(2))
	holder := common.HexToAddress("0x000000FCd5d9446CFa4d00Fc8e454fDdDdDD3ff5")

	out, err := c.CallAll(context.Background(), []Call{
		NewCall(tokenAddr, parsed, "decimals"),
		NewCall(tokenAddr, parsed, "balanceOf", holder),
		NewCall(tokenAddr, parsed, "name"),
	})
	require.NoError(t, err)
	require.Len(t, out, 3)

	decimals, err := Uint8(out[0], 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(18), decimals)

	bal, err := BigInt(out[1], 0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, ToFloat(bal, decimals))

	name, err := String(out[2], 0)
	require.NoError(t, err)
	assert.Equal(t, "Wrapped Ether", name)
	assert.Equal(t, 3, svc.calls)
}

func TestClientCallAllFailsWholeBatch(t *testing.T) {
	c, _, parsed := newTestClient(t)

	_, err := c.CallAll(context.Background(), []Call{
		NewCall(tokenAddr, parsed, "decimals"),
		NewCall(tokenAddr, parsed, "minter"),
	})

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 1, callErr.Index)
	assert.Equal(t, "minter", callErr.Call.Method)
}

func TestClientCallAllRejectsBadArgs(t *testing.T) {
	c, svc, parsed := newTestClient(t)

	_, err := c.CallAll(context.Background(), []Call{NewCall(tokenAddr, parsed, "balanceOf")})
	assert.Error(t, err)
	assert.Zero(t, svc.calls, "nothing is sent when packing fails")
}

func TestClientBalanceAndBlock(t *testing.T) {
	c, _, _ := newTestClient(t)
	ctx := context.Background()

	n, err := c.BlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(61_000_000), n)

	bal, err := c.BalanceAt(ctx, tokenAddr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7e18), bal)
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 1000.0, ToFloat(big.NewInt(1_000_000_000), 6))
	assert.Equal(t, 42.0, ToFloat(big.NewInt(42), 0))
	assert.Zero(t, ToFloat(nil, 18))

	raw, ok := new(big.Int).SetString("1500000000000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, 1500.0, ToFloat(raw, 18))
}
