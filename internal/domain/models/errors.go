package models

import "errors"

var (
	// ErrUnresolvedContract means no known contract shape, not even ERC20, answered.
	ErrUnresolvedContract = errors.New("unresolved contract")
	// ErrChainUnavailable means farm-level reads against the node failed.
	ErrChainUnavailable = errors.New("chain unavailable")
	// ErrPriceUnavailable means the price oracle could not be queried.
	ErrPriceUnavailable = errors.New("price oracle unavailable")
)
