package feed

import "time"

//
// Bar is the record shape a host consumes: one OHLCV bar (or one tick, expressed as a bar whose
// open, high, low, and close are all the trade price).
//
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

//
// Sink is the host's per-call output slot. A feed calls SetBar exactly once for every record it
// produces and never when it has nothing to produce.
//
type Sink interface {
	SetBar(bar Bar)
}

//
// Slot is a minimal Sink that simply holds on to the last bar written to it.
//
type Slot struct {
	Bar Bar
	Set bool
}

func (o *Slot) SetBar(bar Bar) {
	o.Bar = bar
	o.Set = true
}

//
// Reset clears the slot so it can be reused for the next poll.
//
func (o *Slot) Reset() {
	*o = Slot{}
}

//
// Status is an enum that represents the outcome of a single poll.
//
type Status int

const (
	Empty    Status = iota // No new record was available. The sink was left untouched.
	Produced               // Exactly one record was written to the sink.
	Failed                 // The poll failed fatally. The accompanying error says why.
)

func (o Status) String() string {
	return [...]string{"Empty", "Produced", "Failed"}[o]
}
