package constants

import "time"

const (
	LogPrefixFmt = "%-17s "

	//
	// TradeTimeLayout is the layout that exchange sources render trade times in. It mirrors the
	// Coinbase Pro wire format (e.g. 2020-08-25T14:03:11.123456Z).
	//
	TradeTimeLayout = "2006-01-02T15:04:05.000000Z"

	//
	// BarTimeLayout is used when printing bar and tick times to the log.
	//
	BarTimeLayout = "2006-01-02 15:04:05"

	DefaultHTTPTimeout = 15 * time.Second
)
