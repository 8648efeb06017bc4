package feed

import (
	"fmt"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/goosefeed/constants"
	"github.com/lukehollenback/goosefeed/exchange"
)

//
// record is an element of a feed's pending queue. Candles and ticks are buffered in the shape they
// arrived in and only converted into bars when they are emitted.
//
type record interface {
	bar() Bar
	describe() string
}

type candleRecord struct {
	exchange.Candle
}

func (o candleRecord) bar() Bar {
	return Bar{
		Time:   time.UnixMilli(o.Timestamp).UTC(),
		Open:   o.Open.InexactFloat64(),
		High:   o.High.InexactFloat64(),
		Low:    o.Low.InexactFloat64(),
		Close:  o.Close.InexactFloat64(),
		Volume: o.Volume.InexactFloat64(),
	}
}

func (o candleRecord) describe() string {
	return fmt.Sprintf(
		"loaded bar time: %s, open: %s, high: %s, low: %s, close: %s, volume: %s",
		aurora.Bold(aurora.Cyan(time.UnixMilli(o.Timestamp).UTC().Format(constants.BarTimeLayout))),
		o.Open, o.High, o.Low, o.Close, o.Volume,
	)
}

type tickRecord struct {
	time  time.Time
	price float64
	size  float64
}

func (o tickRecord) bar() Bar {
	return Bar{
		Time:   o.time,
		Open:   o.price,
		High:   o.price,
		Low:    o.price,
		Close:  o.price,
		Volume: o.size,
	}
}

func (o tickRecord) describe() string {
	return fmt.Sprintf(
		"loaded tick time: %s, price: %v, size: %v",
		aurora.Bold(aurora.Cyan(o.time.Format(constants.TradeTimeLayout))),
		aurora.Bold(aurora.Yellow(o.price)),
		o.size,
	)
}
