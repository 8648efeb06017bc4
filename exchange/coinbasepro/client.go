package coinbasepro

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

	coinbasepro "github.com/preichenberger/go-coinbasepro/v2"
)

const (
	Name    = "Coinbase Pro"
	BaseURL = "https://api.pro.coinbase.com"

	//
	// RateLimit is the courtesy delay (in milliseconds) between consecutive requests. Coinbase Pro
	// allows roughly three public requests per second.
	//
	RateLimit = 350

	//
	// maxCandles is the hard maximum number of candles the candles endpoint returns per request.
	//
	maxCandles = 300
)

var _ exchange.Source = (*Client)(nil)

//
// granularities maps candle granularity codes onto the bucket sizes (in seconds) that the Coinbase
// Pro candles endpoint accepts. It accepts nothing else.
//
var granularities = map[string]int{
	"1m":  60,
	"5m":  300,
	"15m": 900,
	"1h":  3600,
	"6h":  21600,
	"1d":  86400,
}

//
// Config holds the knobs of a Coinbase Pro source. Zero values are replaced with sensible defaults.
//
type Config struct {
	BaseURL     string
	Key         string
	Passphrase  string
	Secret      string
	HTTPTimeout time.Duration
}

func (c Config) withDefaults() Config {
	out := c
	out.BaseURL = strings.TrimSpace(out.BaseURL)
	if out.BaseURL == "" {
		out.BaseURL = BaseURL
	}
	if out.HTTPTimeout <= 0 {
		out.HTTPTimeout = constants.DefaultHTTPTimeout
	}
	return out
}

//
// Client implements the exchange.Source interface for the Coinbase Pro REST API.
//
// NOTE ~> The underlying SDK does not accept a context, so cancellation only takes effect between
//  requests.
//
type Client struct {
	client *coinbasepro.Client
}

//
// NewClient instantiates a client against the public Coinbase Pro API.
//
func NewClient() *Client {
	return New(Config{})
}

//
// New instantiates a client with the provided configuration.
//
func New(cfg Config) *Client {
	final := cfg.withDefaults()

	client := coinbasepro.NewClient()
	client.UpdateConfig(&coinbasepro.ClientConfig{
		BaseURL:    final.BaseURL,
		Key:        final.Key,
		Passphrase: final.Passphrase,
		Secret:     final.Secret,
	})
	client.HTTPClient = &http.Client{Timeout: final.HTTPTimeout}

	return &Client{
		client: client,
	}
}

func (o *Client) Name() string {
	return Name
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
	seconds, ok := granularities[granularity]
	if !ok {
		return nil, fmt.Errorf("%s does not offer %q candles", Name, granularity)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rates, err := o.client.GetHistoricRates(
		ProductID(symbol),
		coinbasepro.GetHistoricRatesParams{Granularity: seconds},
	)
	if err != nil {
		return nil, err
	}

	return convertRates(rates, limit), nil
}

func (o *Client) FetchRecentTrades(ctx context.Context, symbol string) ([]exchange.Trade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//
	// Only the first page is of interest. It holds the most recent trades.
	//
	var trades []coinbasepro.Trade

	cursor := o.client.ListTrades(ProductID(symbol))
	if err := cursor.NextPage(&trades); err != nil {
		return nil, err
	}

	return convertTrades(trades), nil
}

//
// ProductID converts a symbol such as "BTC/USD" or "btc-usd" into a Coinbase Pro product id
// ("BTC-USD").
//
func ProductID(symbol string) string {
	symbol = strings.NewReplacer("/", "-", "_", "-").Replace(strings.TrimSpace(symbol))

	return strings.ToUpper(symbol)
}

//
// convertRates turns the newest-first historic rates returned by the API into candles sorted by
// opening time, keeping only the most recent limit of them.
//
func convertRates(rates []coinbasepro.HistoricRate, limit int) []exchange.Candle {
	out := make([]exchange.Candle, 0, len(rates))

	for _, r := range rates {
		out = append(out, exchange.Candle{
			Timestamp: r.Time.UnixMilli(),
			Open:      decimal.NewFromFloat(r.Open),
			High:      decimal.NewFromFloat(r.High),
			Low:       decimal.NewFromFloat(r.Low),
			Close:     decimal.NewFromFloat(r.Close),
			Volume:    decimal.NewFromFloat(r.Volume),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })

	if limit <= 0 || limit > maxCandles {
		limit = maxCandles
	}

	if len(out) > limit {
		out = out[len(out)-limit:]
	}

	return out
}

//
// convertTrades maps Coinbase Pro trades onto the generic trade shape, sorted by trade id.
//
func convertTrades(trades []coinbasepro.Trade) []exchange.Trade {
	out := make([]exchange.Trade, 0, len(trades))

	for _, t := range trades {
		out = append(out, exchange.Trade{
			ID:    int64(t.TradeID),
			Time:  t.Time.Time().UTC().Format(constants.TradeTimeLayout),
			Price: t.Price,
			Size:  t.Size,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
