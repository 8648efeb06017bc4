package exchange

import (
	"context"
	"errors"
)

//
// ErrUnsupportedSource is returned when a source identifier does not name a known exchange.
//
var ErrUnsupportedSource = errors.New("unsupported market data source")

//
// Source generically provides an interface to an object that can pull public market data from a
// cryptocurrency exchange's REST API.
//
// Implementations return candles in ascending timestamp order and trades in ascending trade id
// order, regardless of the order the exchange itself responds with. Whenever an endpoint fails the
// error is returned as-is from the underlying client.
//
type Source interface {

	//
	// Name returns the human-readable name of the exchange (used in error messages).
	//
	Name() string

	//
	// HasFetchCandles reports whether or not the exchange can serve OHLCV candles at all.
	//
	HasFetchCandles() bool

	//
	// RateLimit returns the minimum delay, in milliseconds, that callers should leave between
	// consecutive requests.
	//
	RateLimit() int

	//
	// FetchCandles retrieves up to the specified limit of the most recent candles for the specified
	// symbol. The granularity is a code such as "1m", "1h" or "1d". Codes the exchange cannot serve
	// result in an error.
	//
	FetchCandles(ctx context.Context, symbol string, granularity string, limit int) ([]Candle, error)

	//
	// FetchRecentTrades retrieves the exchange's list of most recent trades for the specified
	// symbol.
	//
	FetchRecentTrades(ctx context.Context, symbol string) ([]Trade, error)
}
