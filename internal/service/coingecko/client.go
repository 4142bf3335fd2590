// Package coingecko implements repository.PriceOracle on the CoinGecko
// simple/price endpoint.
package coingecko

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"FarmYield/internal/domain/models"
	"FarmYield/internal/domain/repository"
	"FarmYield/pkg/cache"
	"FarmYield/pkg/config"
	xhttp "FarmYield/pkg/http"
	"FarmYield/pkg/logger"
)

const (
	cacheName        = "prices"
	defaultChunkSize = 50
)

type Client struct {
	baseURL    string
	vsCurrency string
	chunkSize  int
	ttl        time.Duration
	client     *xhttp.Client
	cache      cache.Service
	metrics    repository.Metrics
	logger     *logger.Logger
}

func New(cfg config.PricesConfig, store cache.Service, m repository.Metrics, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	chunk := cfg.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	vs := cfg.VsCurrency
	if vs == "" {
		vs = "usd"
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		vsCurrency: vs,
		chunkSize:  chunk,
		ttl:        cfg.CacheTTL,
		client:     xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithRetry(cfg.Retries, time.Second)),
		cache:      store,
		metrics:    m,
		logger:     log,
	}
}

// LookUpPrices quotes every token and keys the result by contract address.
// Tokens the oracle has no positive quote for are left out.
func (c *Client) LookUpPrices(ctx context.Context, tokens []models.KnownToken) (*models.PriceTable, error) {
	ids := uniqueIDs(tokens)
	quotes := make(map[string]float64, len(ids))
	for start := 0; start < len(ids); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		got, err := c.quote(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrPriceUnavailable, err)
		}
		for id, usd := range got {
			quotes[id] = usd
		}
	}

	table := models.NewPriceTable()
	for _, t := range tokens {
		usd, ok := quotes[t.ID]
		if !ok || usd <= 0 {
			continue
		}
		table.Set(t.Contract, models.Price{USD: usd, Symbol: t.Symbol})
	}
	return table, nil
}

type simplePrice map[string]map[string]float64

func (c *Client) quote(ctx context.Context, ids []string) (map[string]float64, error) {
	key := cache.GenerateKeyFromParts("coingecko", ids)

	var cached map[string]float64
	err := c.cache.Get(ctx, key, &cached)
	if err == nil {
		c.metrics.RecordCacheLookup(cacheName, true)
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("Price cache read failed", logger.String("key", key), logger.Error(err))
	}
	c.metrics.RecordCacheLookup(cacheName, false)

	var resp simplePrice
	err = c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/simple/price",
		QueryParams: map[string][]string{
			"ids":           {strings.Join(ids, ",")},
			"vs_currencies": {c.vsCurrency},
		},
		Headers: map[string]string{"Accept": "application/json"},
	}, &resp)
	c.metrics.RecordOracleRequest(err == nil)
	if err != nil {
		c.logger.Error("Could not fetch prices from coingecko", logger.Strings("ids", ids), logger.Error(err))
		return nil, err
	}

	out := make(map[string]float64, len(resp))
	for id, v := range resp {
		if usd, ok := v[c.vsCurrency]; ok {
			out[id] = usd
		}
	}
	if err := c.cache.Set(ctx, key, out, c.ttl); err != nil {
		c.logger.Warn("Price cache write failed", logger.String("key", key), logger.Error(err))
	}
	return out, nil
}

func uniqueIDs(tokens []models.KnownToken) []string {
	seen := make(map[string]struct{}, len(tokens))
	ids := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		ids = append(ids, t.ID)
	}
	return ids
}

var _ repository.PriceOracle = (*Client)(nil)
