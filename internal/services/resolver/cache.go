package resolver

import (
	"context"
	"errors"
	"time"

	"FarmYield/internal/domain/models"
	"FarmYield/internal/domain/repository"
	"FarmYield/pkg/cache"
	"FarmYield/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
)

const kindCacheName = "classification"

// KindCache stores token classifications in a cache.Service. A ttl of zero
// keeps entries until the process exits.
type KindCache struct {
	store   cache.Service
	ttl     time.Duration
	metrics repository.Metrics
	logger  *logger.Logger
}

func NewKindCache(store cache.Service, ttl time.Duration, m repository.Metrics, log *logger.Logger) *KindCache {
	return &KindCache{store: store, ttl: ttl, metrics: m, logger: log}
}

func kindKey(address common.Address) string {
	return cache.GenerateKey("kind", address.Hex())
}

func (c *KindCache) Kind(ctx context.Context, address common.Address) (models.TokenKind, bool) {
	kind, err := cache.GetTyped[models.TokenKind](ctx, c.store, kindKey(address))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn("Classification cache read failed", logger.Address("address", address), logger.Error(err))
		}
		c.metrics.RecordCacheLookup(kindCacheName, false)
		return "", false
	}
	if !kind.Valid() {
		c.metrics.RecordCacheLookup(kindCacheName, false)
		return "", false
	}
	c.metrics.RecordCacheLookup(kindCacheName, true)
	return kind, true
}

func (c *KindCache) Remember(ctx context.Context, address common.Address, kind models.TokenKind) {
	if err := c.store.Set(ctx, kindKey(address), kind, c.ttl); err != nil {
		c.logger.Warn("Classification cache write failed", logger.Address("address", address), logger.Error(err))
	}
}

var _ repository.ClassificationCache = (*KindCache)(nil)
