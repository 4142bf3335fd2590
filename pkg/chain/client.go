package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

var ErrEmptyResult = errors.New("empty call result")

// Option configures Client.
type Option func(*Client)

// Client executes read-only contract calls against an EVM node at the latest block.
type Client struct {
	rpc       *rpc.Client
	eth       *ethclient.Client
	batchSize int
	timeout   time.Duration
}

// Dial connects to an RPC endpoint (http, ws or ipc).
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	rc, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewClient(rc, opts...), nil
}

// NewClient wraps an established rpc client.
func NewClient(rc *rpc.Client, opts ...Option) *Client {
	c := &Client{
		rpc:       rc,
		eth:       ethclient.NewClient(rc),
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBatchSize caps the number of eth_call elements per JSON-RPC batch.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithCallTimeout bounds every round trip.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Call executes a single call and decodes its outputs.
func (c *Client) Call(ctx context.Context, call Call) ([]interface{}, error) {
	data, err := call.pack()
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var out hexutil.Bytes
	if err := c.rpc.CallContext(ctx, &out, "eth_call", callArg(call.Contract, data), "latest"); err != nil {
		return nil, fmt.Errorf("%s: %w", call, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", call, ErrEmptyResult)
	}
	return call.unpack(out)
}

// CallAll executes calls as JSON-RPC batches and returns decoded outputs in input order.
// Any failing element fails the whole batch.
func (c *Client) CallAll(ctx context.Context, calls []Call) ([][]interface{}, error) {
	results := make([][]interface{}, len(calls))
	if len(calls) == 0 {
		return results, nil
	}

	outs := make([]hexutil.Bytes, len(calls))
	elems := make([]rpc.BatchElem, len(calls))
	for i, call := range calls {
		data, err := call.pack()
		if err != nil {
			return nil, &CallError{Index: i, Call: call, Err: err}
		}
		elems[i] = rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{callArg(call.Contract, data), "latest"},
			Result: &outs[i],
		}
	}

	for start := 0; start < len(elems); start += c.batchSize {
		end := start + c.batchSize
		if end > len(elems) {
			end = len(elems)
		}
		if err := c.batch(ctx, elems[start:end]); err != nil {
			return nil, err
		}
	}

	for i, call := range calls {
		if err := elems[i].Error; err != nil {
			return nil, &CallError{Index: i, Call: call, Err: err}
		}
		if len(outs[i]) == 0 {
			return nil, &CallError{Index: i, Call: call, Err: ErrEmptyResult}
		}
		values, err := call.unpack(outs[i])
		if err != nil {
			return nil, &CallError{Index: i, Call: call, Err: err}
		}
		results[i] = values
	}
	return results, nil
}

func (c *Client) batch(ctx context.Context, elems []rpc.BatchElem) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.rpc.BatchCallContext(ctx, elems); err != nil {
		return fmt.Errorf("batch call: %w", err)
	}
	return nil
}

// BalanceAt returns the native coin balance of account.
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	bal, err := c.eth.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", account.Hex(), err)
	}
	return bal, nil
}

// BlockNumber returns the latest block height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	n, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("block number: %w", err)
	}
	return n, nil
}

// Close closes the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}

func callArg(to common.Address, data []byte) map[string]interface{} {
	return map[string]interface{}{
		"to":   to,
		"data": hexutil.Bytes(data),
	}
}
