package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/lukehollenback/goosefeed/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct{}

func (stubSource) Name() string          { return "stub" }
func (stubSource) HasFetchCandles() bool { return false }
func (stubSource) RateLimit() int        { return 0 }

func (stubSource) FetchCandles(context.Context, string, string, int) ([]exchange.Candle, error) {
	return nil, nil
}

func (stubSource) FetchRecentTrades(context.Context, string) ([]exchange.Trade, error) {
	return nil, nil
}

func TestBuiltInSources(t *testing.T) {
	cases := map[string]string{
		"coinbasepro": "Coinbase Pro",
		"binance":     "Binance",
		"binanceus":   "Binance.US",
		" BinanceUS ": "Binance.US",
	}

	for id, name := range cases {
		src, err := New(id)
		require.NoError(t, err, id)
		assert.Equal(t, name, src.Name())
		assert.True(t, src.HasFetchCandles())
		assert.Greater(t, src.RateLimit(), 0)
	}
}

func TestUnknownSource(t *testing.T) {
	src, err := New("mtgox")

	assert.Nil(t, src)
	assert.True(t, errors.Is(err, exchange.ErrUnsupportedSource))
	assert.Contains(t, err.Error(), "mtgox")
	assert.Contains(t, err.Error(), "coinbasepro")
}

func TestRegister(t *testing.T) {
	Register("Stub", func() (exchange.Source, error) { return stubSource{}, nil })

	src, err := New("stub")
	require.NoError(t, err)
	assert.Equal(t, "stub", src.Name())
	assert.Contains(t, Names(), "stub")
}

func TestFactoryErrorsPropagate(t *testing.T) {
	boom := errors.New("no credentials")

	Register("broken", func() (exchange.Source, error) { return nil, boom })

	_, err := New("broken")
	assert.Same(t, boom, err)
}
