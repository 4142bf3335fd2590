package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.Warn("pool dropped",
		String("pool", "BRL-WETH"),
		Int("index", 1),
		Float64("tvl", 12.5),
		Address("token", common.HexToAddress("0x12c87331f086c3C926248f964f8702C0842Fd77F")),
		Error(errors.New("no price")),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "pool dropped", got["message"])
	assert.Equal(t, "BRL-WETH", got["pool"])
	assert.Equal(t, float64(1), got["index"])
	assert.Equal(t, 12.5, got["tvl"])
	assert.Equal(t, "0x12c87331f086c3C926248f964f8702C0842Fd77F", got["token"])
	assert.Equal(t, "no price", got["error"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel)

	l.Debug("probe failed", String("kind", "curve"))
	assert.Zero(t, buf.Len())

	l.With(String("component", "resolver")).Info("resolved")
	assert.Contains(t, buf.String(), `"component":"resolver"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}
