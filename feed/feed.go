package feed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lukehollenback/goosefeed/constants"
	"github.com/lukehollenback/goosefeed/exchange"
	"github.com/lukehollenback/goosefeed/exchange/registry"
	"github.com/lukehollenback/goosefeed/structs/fifo"
	"github.com/shopspring/decimal"
)

const (
	Name = "≪feed≫"

	//
	// DefaultLimit is the number of candles requested per fetch when no limit is configured.
	//
	DefaultLimit = 10

	//
	// tradeTimeLayout parses trade times with up to microsecond precision. Exchanges occasionally
	// drop trailing zeros from the fractional seconds, so the layout must tolerate that.
	//
	tradeTimeLayout = "2006-01-02T15:04:05.999999Z"
)

var logger *log.Logger

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
}

//
// Feed polls a market data source for candles or trades and hands them to a host one bar at a time.
// A feed is meant to be driven by exactly one caller.
//
type Feed struct {
	source      exchange.Source
	symbol      string
	limit       int
	timeFrame   TimeFrame
	compression int

	pending   *fifo.Queue[record]
	lastID    int64 // Timestamp (ms) of the last accepted candle, or id of the last accepted trade.
	hasLastID bool

	sleep func(ctx context.Context, d time.Duration) error
}

//
// Option tweaks a feed while it is being constructed.
//
type Option func(*Feed)

//
// WithLimit sets the maximum number of candles requested per fetch. Non-positive values are
// ignored.
//
func WithLimit(limit int) Option {
	return func(o *Feed) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

//
// WithTimeFrame sets the bar size the feed should produce. A time frame of Ticks makes the feed
// produce one bar per trade and ignores the compression.
//
func WithTimeFrame(timeFrame TimeFrame, compression int) Option {
	return func(o *Feed) {
		o.timeFrame = timeFrame
		o.compression = compression
	}
}

//
// New instantiates a feed against the market data source registered under the provided exchange
// identifier (e.g. "coinbasepro"). Unknown identifiers result in an error wrapping
// exchange.ErrUnsupportedSource.
//
func New(exchangeID string, symbol string, opts ...Option) (*Feed, error) {
	source, err := registry.New(exchangeID)
	if err != nil {
		return nil, err
	}

	return NewWithSource(source, symbol, opts...), nil
}

//
// NewWithSource instantiates a feed that takes ownership of an already-constructed source.
//
func NewWithSource(source exchange.Source, symbol string, opts ...Option) *Feed {
	o := &Feed{
		source:      source,
		symbol:      symbol,
		limit:       DefaultLimit,
		timeFrame:   Days,
		compression: 1,
		pending:     fifo.New[record](),
		sleep:       sleepContext,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *Feed) Symbol() string {
	return o.symbol
}

func (o *Feed) Source() exchange.Source {
	return o.source
}

func (o *Feed) TimeFrame() (TimeFrame, int) {
	return o.timeFrame, o.compression
}

//
// IsLive always reports true. The feed only ever polls for fresh data.
//
func (o *Feed) IsLive() bool {
	return true
}

//
// HasLiveData always reports true.
//
func (o *Feed) HasLiveData() bool {
	return true
}

//
// Load performs a single poll. It first waits out the source's rate limit delay, then fetches new
// candles (or trades), buffers the ones that have not been seen yet, and writes the oldest buffered
// record to the provided sink.
//
// It returns Produced if a bar was written, Empty if there was nothing new to write, or Failed
// along with an error that the caller should treat as fatal. Errors from the source are returned
// unmodified and are never retried.
//
func (o *Feed) Load(ctx context.Context, sink Sink) (Status, error) {
	delay := time.Duration(o.source.RateLimit()) * time.Millisecond

	if err := o.sleep(ctx, delay); err != nil {
		return Failed, err
	}

	if o.timeFrame == Ticks {
		return o.loadTicks(ctx, sink)
	}

	if !o.source.HasFetchCandles() {
		return Failed, fmt.Errorf("%w: '%s' exchange", ErrCapabilityUnsupported, o.source.Name())
	}

	granularity, ok := Granularity(o.timeFrame, o.compression)
	if !ok {
		return Failed, &GranularityError{
			Source:      o.source.Name(),
			TimeFrame:   o.timeFrame,
			Compression: o.compression,
		}
	}

	return o.loadCandles(ctx, granularity, sink)
}

//
// loadCandles fetches the most recent candles and buffers any that are newer than the last one
// accepted.
//
func (o *Feed) loadCandles(ctx context.Context, granularity string, sink Sink) (Status, error) {
	candles, err := o.source.FetchCandles(ctx, o.symbol, granularity, o.limit)
	if err != nil {
		return Failed, err
	}

	for _, c := range candles {
		if o.hasLastID && c.Timestamp <= o.lastID {
			continue
		}

		o.pending.Push(candleRecord{c})
		o.accept(c.Timestamp)
	}

	return o.emit(sink), nil
}

//
// loadTicks fetches the most recent trades and buffers any that are newer than the last one
// accepted. On the very first poll only the latest trade is considered so that the host is not
// flooded with the exchange's backlog.
//
func (o *Feed) loadTicks(ctx context.Context, sink Sink) (Status, error) {
	trades, err := o.source.FetchRecentTrades(ctx, o.symbol)
	if err != nil {
		return Failed, err
	}

	if !o.hasLastID && len(trades) > 0 {
		trades = trades[len(trades)-1:]
	}

	for _, t := range trades {
		if o.hasLastID && t.ID <= o.lastID {
			continue
		}

		tick, err := parseTrade(t)
		if err != nil {
			return Failed, err
		}

		o.pending.Push(tick)
		o.accept(t.ID)
	}

	return o.emit(sink), nil
}

func (o *Feed) accept(id int64) {
	o.lastID = id
	o.hasLastID = true
}

//
// emit pops the oldest buffered record (if there is one) and writes it to the sink.
//
func (o *Feed) emit(sink Sink) Status {
	rec, ok := o.pending.Pop()
	if !ok {
		return Empty
	}

	sink.SetBar(rec.bar())

	logger.Print(rec.describe())

	return Produced
}

func parseTrade(t exchange.Trade) (tickRecord, error) {
	tradeTime, err := time.Parse(tradeTimeLayout, t.Time)
	if err != nil {
		return tickRecord{}, fmt.Errorf("failed to parse time of trade %d: %w", t.ID, err)
	}

	price, err := decimal.NewFromString(t.Price)
	if err != nil {
		return tickRecord{}, fmt.Errorf("failed to parse price of trade %d: %w", t.ID, err)
	}

	size, err := decimal.NewFromString(t.Size)
	if err != nil {
		return tickRecord{}, fmt.Errorf("failed to parse size of trade %d: %w", t.ID, err)
	}

	return tickRecord{
		time:  tradeTime,
		price: price.InexactFloat64(),
		size:  size.InexactFloat64(),
	}, nil
}

//
// sleepContext blocks for the provided duration or until the context is done, whichever happens
// first.
//
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
