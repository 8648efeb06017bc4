package binance

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/lukehollenback/goosefeed/constants"
	"github.com/lukehollenback/goosefeed/exchange"
	"github.com/shopspring/decimal"

	binance "github.com/adshao/go-binance/v2"
)

var _ exchange.Source = (*Client)(nil)

//
// Config holds the knobs of a Binance source. Zero values are replaced with sensible defaults.
//
type Config struct {
	Name        string
	BaseURL     string
	APIKey      string
	APISecret   string
	HTTPTimeout time.Duration
}

func (c Config) withDefaults() Config {
	out := c
	out.BaseURL = strings.TrimSpace(out.BaseURL)
	if out.BaseURL == "" {
		out.BaseURL = BaseURL
	}
	if out.Name == "" {
		out.Name = Name
	}
	if out.HTTPTimeout <= 0 {
		out.HTTPTimeout = constants.DefaultHTTPTimeout
	}
	return out
}

//
// Client implements the exchange.Source interface for the Binance (and Binance.US) spot API.
//
type Client struct {
	name   string
	client *binance.Client
}

//
// NewClient instantiates a client against the global Binance API.
//
func NewClient() *Client {
	return New(Config{})
}

//
// NewUSClient instantiates a client against the Binance.US API.
//
func NewUSClient() *Client {
	return New(Config{Name: NameUS, BaseURL: BaseURLUS})
}

//
// New instantiates a client with the provided configuration.
//
func New(cfg Config) *Client {
	final := cfg.withDefaults()

	client := binance.NewClient(final.APIKey, final.APISecret)
	client.BaseURL = final.BaseURL
	client.HTTPClient = &http.Client{Timeout: final.HTTPTimeout}

	return &Client{
		name:   final.Name,
		client: client,
	}
}

func (o *Client) Name() string {
	return o.name
}

func (o *Client) HasFetchCandles() bool {
	return true
}

func (o *Client) RateLimit() int {
	return RateLimit
}

func (o *Client) FetchCandles(
	ctx context.Context,
	symbol string,
	granularity string,
	limit int,
) ([]exchange.Candle, error) {
	if !intervals[granularity] {
		return nil, fmt.Errorf("%s does not offer %q candles", o.name, granularity)
	}

	klines, err := o.client.NewKlinesService().
		Symbol(MarketSymbol(symbol)).
		Interval(granularity).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	return convertKlines(klines)
}

func (o *Client) FetchRecentTrades(ctx context.Context, symbol string) ([]exchange.Trade, error) {
	trades, err := o.client.NewRecentTradesService().
		Symbol(MarketSymbol(symbol)).
		Limit(TradesLimit).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	return convertTrades(trades), nil
}

//
// MarketSymbol converts a symbol such as "BTC/USDT" or "btc-usdt" into the form the Binance API
// expects ("BTCUSDT").
//
func MarketSymbol(symbol string) string {
	symbol = strings.NewReplacer("/", "", "-", "", "_", "").Replace(strings.TrimSpace(symbol))

	return strings.ToUpper(symbol)
}

//
// convertKlines parses the string-encoded prices of the provided klines into candles, sorted by
// opening time.
//
func convertKlines(klines []*binance.Kline) ([]exchange.Candle, error) {
	out := make([]exchange.Candle, 0, len(klines))

	for _, kl := range klines {
		if kl == nil {
			continue
		}

		values := make([]decimal.Decimal, 5)

		for i, raw := range []string{kl.Open, kl.High, kl.Low, kl.Close, kl.Volume} {
			v, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse kline value %q (open time: %d): %w", raw, kl.OpenTime, err)
			}

			values[i] = v
		}

		out = append(out, exchange.Candle{
			Timestamp: kl.OpenTime,
			Open:      values[0],
			High:      values[1],
			Low:       values[2],
			Close:     values[3],
			Volume:    values[4],
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })

	return out, nil
}

//
// convertTrades maps Binance trades onto the generic trade shape, sorted by trade id.
//
func convertTrades(trades []*binance.Trade) []exchange.Trade {
	out := make([]exchange.Trade, 0, len(trades))

	for _, t := range trades {
		if t == nil {
			continue
		}

		out = append(out, exchange.Trade{
			ID:    t.ID,
			Time:  time.UnixMilli(t.Time).UTC().Format(constants.TradeTimeLayout),
			Price: t.Price,
			Size:  t.Quantity,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
