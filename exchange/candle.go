package exchange

import (
	"github.com/shopspring/decimal"
)

//
// Candle represents a single OHLCV candlestick (a.k.a. kline) as returned by a market data source.
// The timestamp is the opening instant of the candle in milliseconds since the Unix epoch (UTC).
//
type Candle struct {
	Timestamp int64
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

//
// Trade represents a single executed trade as returned by a market data source. Price and size are
// kept in the string form the exchange provided them in and the time is rendered in
// constants.TradeTimeLayout.
//
type Trade struct {
	ID    int64
	Time  string
	Price string
	Size  string
}
