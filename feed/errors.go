package feed

import (
	"errors"
	"fmt"
)

var (
	//
	// ErrCapabilityUnsupported is returned when bars are requested from a source that cannot fetch
	// candles at all.
	//
	ErrCapabilityUnsupported = errors.New("source does not support fetching OHLCV data")

	//
	// ErrUnsupportedGranularity is matched by every *GranularityError.
	//
	ErrUnsupportedGranularity = errors.New("unsupported OHLCV granularity")
)

//
// GranularityError reports a (time frame, compression) pair that has no candle granularity code.
//
type GranularityError struct {
	Source      string
	TimeFrame   TimeFrame
	Compression int
}

func (o *GranularityError) Error() string {
	return fmt.Sprintf(
		"'%s' exchange doesn't support fetching OHLCV data for time frame %s, compression %d",
		o.Source, o.TimeFrame, o.Compression,
	)
}

func (o *GranularityError) Is(target error) bool {
	return target == ErrUnsupportedGranularity
}
