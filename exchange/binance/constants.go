package binance

const (
	Name   = "Binance"
	NameUS = "Binance.US"

	BaseURL   = "https://api.binance.com"
	BaseURLUS = "https://api.binance.us"

	//
	// RateLimit is the courtesy delay (in milliseconds) between consecutive requests.
	//
	RateLimit = 50

	//
	// TradesLimit is the number of recent trades requested per fetch (the endpoint's default).
	//
	TradesLimit = 500
)

//
// intervals holds every candle granularity code that the Binance kline endpoint accepts.
//
var intervals = map[string]bool{
	"1m":  true,
	"3m":  true,
	"5m":  true,
	"15m": true,
	"30m": true,
	"1h":  true,
	"2h":  true,
	"4h":  true,
	"6h":  true,
	"8h":  true,
	"12h": true,
	"1d":  true,
	"3d":  true,
	"1w":  true,
	"1M":  true,
}
