package models

import (
	"encoding/json"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Price is a USD quote for one token.
type Price struct {
	USD    float64 `json:"usd"`
	Symbol string  `json:"symbol,omitempty"`
}

// KnownToken maps an oracle id to its contract on this chain.
type KnownToken struct {
	ID       string
	Symbol   string
	Contract common.Address
}

// PriceTable maps token addresses to USD prices. Keys are 20-byte addresses,
// so lookups ignore the case of the hex form the address came from.
type PriceTable struct {
	mu sync.RWMutex
	m  map[common.Address]Price
}

func NewPriceTable() *PriceTable {
	return &PriceTable{m: make(map[common.Address]Price)}
}

func (p *PriceTable) Get(addr common.Address) (Price, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.m[addr]
	return v, ok
}

// USD returns the price of addr, or 0 when unknown.
func (p *PriceTable) USD(addr common.Address) float64 {
	v, _ := p.Get(addr)
	return v.USD
}

func (p *PriceTable) Set(addr common.Address, price Price) {
	p.mu.Lock()
	p.m[addr] = price
	p.mu.Unlock()
}

func (p *PriceTable) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.m)
}

// Clone returns an independent copy.
func (p *PriceTable) Clone() *PriceTable {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c := &PriceTable{m: make(map[common.Address]Price, len(p.m))}
	for k, v := range p.m {
		c.m[k] = v
	}
	return c
}

// MarshalJSON keys entries by checksummed address.
func (p *PriceTable) MarshalJSON() ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]Price, len(p.m))
	for k, v := range p.m {
		out[k.Hex()] = v
	}
	return json.Marshal(out)
}
