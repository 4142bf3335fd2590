package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Call describes one read-only contract method invocation.
type Call struct {
	Contract common.Address
	ABI      *abi.ABI
	Method   string
	Args     []interface{}
}

// NewCall builds a Call against contract using the parsed ABI.
func NewCall(contract common.Address, contractABI *abi.ABI, method string, args ...interface{}) Call {
	return Call{Contract: contract, ABI: contractABI, Method: method, Args: args}
}

func (c Call) String() string {
	return fmt.Sprintf("%s.%s", c.Contract.Hex(), c.Method)
}

func (c Call) pack() ([]byte, error) {
	if c.ABI == nil {
		return nil, fmt.Errorf("%s: nil abi", c)
	}
	data, err := c.ABI.Pack(c.Method, c.Args...)
	if err != nil {
		return nil, fmt.Errorf("%s: pack: %w", c, err)
	}
	return data, nil
}

func (c Call) unpack(out []byte) ([]interface{}, error) {
	values, err := c.ABI.Unpack(c.Method, out)
	if err != nil {
		return nil, fmt.Errorf("%s: unpack: %w", c, err)
	}
	return values, nil
}

// CallError reports a failed call inside a batch.
type CallError struct {
	Index int
	Call  Call
	Err   error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("call %d (%s): %v", e.Index, e.Call, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// BigInt extracts an integer output at position i.
func BigInt(values []interface{}, i int) (*big.Int, error) {
	if i >= len(values) {
		return nil, fmt.Errorf("output %d out of range (%d values)", i, len(values))
	}
	switch v := values[i].(type) {
	case *big.Int:
		return v, nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int64:
		return big.NewInt(v), nil
	}
	return nil, fmt.Errorf("output %d: unexpected type %T", i, values[i])
}

// Address extracts an address output at position i.
func Address(values []interface{}, i int) (common.Address, error) {
	if i >= len(values) {
		return common.Address{}, fmt.Errorf("output %d out of range (%d values)", i, len(values))
	}
	addr, ok := values[i].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("output %d: unexpected type %T", i, values[i])
	}
	return addr, nil
}

// String extracts a string output at position i.
func String(values []interface{}, i int) (string, error) {
	if i >= len(values) {
		return "", fmt.Errorf("output %d out of range (%d values)", i, len(values))
	}
	s, ok := values[i].(string)
	if !ok {
		return "", fmt.Errorf("output %d: unexpected type %T", i, values[i])
	}
	return s, nil
}

// Uint8 extracts a small integer output (decimals) at position i.
func Uint8(values []interface{}, i int) (uint8, error) {
	v, err := BigInt(values, i)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() || v.Uint64() > 255 {
		return 0, fmt.Errorf("output %d: %s does not fit uint8", i, v)
	}
	return uint8(v.Uint64()), nil
}

var ten = big.NewInt(10)

// ToFloat scales a raw integer amount down by 10^decimals.
func ToFloat(v *big.Int, decimals uint8) float64 {
	if v == nil {
		return 0
	}
	num := new(big.Float).SetInt(v)
	if decimals == 0 {
		f, _ := num.Float64()
		return f
	}
	den := new(big.Float).SetInt(new(big.Int).Exp(ten, big.NewInt(int64(decimals)), nil))
	f, _ := new(big.Float).Quo(num, den).Float64()
	return f
}
