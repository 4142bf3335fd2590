package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"FarmYield/internal/domain/models"
	"FarmYield/pkg/cache"
	"FarmYield/pkg/config"
	"FarmYield/pkg/logger"
	"FarmYield/pkg/metrics"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	brl   = common.HexToAddress("0x12c87331f086c3C926248f964f8702C0842Fd77F")
	weth  = common.HexToAddress("0xC9BdeEd33CD01541e1eeD10f90519d2C06Fe3feB")
	wnear = common.HexToAddress("0xC42C30aC6Cc15faC9bD938618BcaA1a1FaE8501d")

	known = []models.KnownToken{
		{ID: "borealis", Symbol: "BRL", Contract: brl},
		{ID: "weth", Symbol: "WETH", Contract: weth},
		{ID: "wrapped-near", Symbol: "WNEAR", Contract: wnear},
	}
)

func newTestClient(t *testing.T, url string, chunk int) *Client {
	t.Helper()
	store := cache.NewMemoryCache()
	t.Cleanup(func() { _ = store.Close() })
	return New(config.PricesConfig{BaseURL: url, VsCurrency: "usd", ChunkSize: chunk}, store, metrics.Nop{}, logger.Nop())
}

func TestLookUpPrices(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "borealis,weth,wrapped-near", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		fmt.Fprint(w, `{"borealis":{"usd":0.25},"weth":{"usd":3000},"wrapped-near":{"usd":0}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 50)
	prices, err := c.LookUpPrices(context.Background(), known)
	require.NoError(t, err)

	assert.Equal(t, 2, prices.Len())
	p, ok := prices.Get(brl)
	require.True(t, ok)
	assert.Equal(t, models.Price{USD: 0.25, Symbol: "BRL"}, p)
	assert.Equal(t, 3000.0, prices.USD(weth))
	_, ok = prices.Get(wnear)
	assert.False(t, ok, "zero quotes are dropped")

	_, err = c.LookUpPrices(context.Background(), known)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second lookup is served from cache")
}

func TestLookUpPricesChunksIDs(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := r.URL.Query().Get("ids")
		seen = append(seen, ids)
		parts := make([]string, 0)
		for _, id := range strings.Split(ids, ",") {
			parts = append(parts, fmt.Sprintf(`%q:{"usd":1}`, id))
		}
		fmt.Fprintf(w, "{%s}", strings.Join(parts, ","))
	}))
	defer srv.Close()

	prices, err := newTestClient(t, srv.URL, 2).LookUpPrices(context.Background(), known)
	require.NoError(t, err)

	assert.Equal(t, []string{"borealis,weth", "wrapped-near"}, seen)
	assert.Equal(t, 3, prices.Len())
}

func TestLookUpPricesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 50).LookUpPrices(context.Background(), known)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrPriceUnavailable))
}

func TestLookUpPricesEmpty(t *testing.T) {
	prices, err := newTestClient(t, "http://127.0.0.1:0", 50).LookUpPrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, prices.Len())
}
