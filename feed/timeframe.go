package feed

import (
	"fmt"
	"strings"
)

//
// TimeFrame is an enum that represents the unit a host measures bar sizes in. Together with a
// compression (the number of units per bar) it describes the bars a feed should produce.
//
type TimeFrame int

const (
	Ticks TimeFrame = iota
	Seconds
	Minutes
	Days
	Weeks
	Months
	Years
)

var timeFrameNames = [...]string{"Ticks", "Seconds", "Minutes", "Days", "Weeks", "Months", "Years"}

func (o TimeFrame) String() string {
	if o < 0 || int(o) >= len(timeFrameNames) {
		return fmt.Sprintf("TimeFrame(%d)", int(o))
	}

	return timeFrameNames[o]
}

//
// ParseTimeFrame resolves a case-insensitive time frame name (e.g. "minutes" or "Days").
//
func ParseTimeFrame(name string) (TimeFrame, error) {
	name = strings.TrimSpace(name)

	for i, v := range timeFrameNames {
		if strings.EqualFold(v, name) {
			return TimeFrame(i), nil
		}
	}

	return 0, fmt.Errorf("unknown time frame %q", name)
}

type granularityKey struct {
	timeFrame   TimeFrame
	compression int
}

//
// granularities maps every supported (time frame, compression) pair onto the candle granularity
// code that market data sources understand.
//
var granularities = map[granularityKey]string{
	{Minutes, 1}:   "1m",
	{Minutes, 3}:   "3m",
	{Minutes, 5}:   "5m",
	{Minutes, 15}:  "15m",
	{Minutes, 30}:  "30m",
	{Minutes, 60}:  "1h",
	{Minutes, 90}:  "90m",
	{Minutes, 120}: "2h",
	{Minutes, 240}: "4h",
	{Minutes, 360}: "6h",
	{Minutes, 480}: "8h",
	{Minutes, 720}: "12h",
	{Days, 1}:      "1d",
	{Days, 3}:      "3d",
	{Weeks, 1}:     "1w",
	{Weeks, 2}:     "2w",
	{Months, 1}:    "1M",
	{Months, 3}:    "3M",
	{Months, 6}:    "6M",
	{Years, 1}:     "1y",
}

//
// Granularity returns the candle granularity code for the provided time frame and compression and
// a true sentinel, or an empty string and a false sentinel if the pair is not supported.
//
func Granularity(timeFrame TimeFrame, compression int) (string, bool) {
	code, ok := granularities[granularityKey{timeFrame, compression}]

	return code, ok
}
