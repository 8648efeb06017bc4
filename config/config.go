package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/lukehollenback/goosefeed/feed"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "GOOSEFEED"

	KeyExchange    = "exchange"
	KeySymbol      = "symbol"
	KeyLimit       = "limit"
	KeyTimeFrame   = "timeframe"
	KeyCompression = "compression"
	KeyOutputDir   = "output-dir"
	KeyRecords     = "records"
)

//
// Config holds everything needed to wire a feed into the host.
//
type Config struct {
	Exchange    string
	Symbol      string
	Limit       int
	TimeFrame   feed.TimeFrame
	Compression int
	OutputDir   string
	Records     int // Zero means "poll until interrupted".
}

//
// RegisterFlags registers one command-line flag per configuration key on the provided flag set.
// Flags only override other configuration sources when they are explicitly set.
//
func RegisterFlags(fs *flag.FlagSet) {
	fs.String(KeyExchange, "coinbasepro", "The market data source to poll (coinbasepro, binance, binanceus).")
	fs.String(KeySymbol, "BTC-USD", "The symbol of the instrument to poll.")
	fs.Int(KeyLimit, feed.DefaultLimit, "The maximum number of candles requested per fetch.")
	fs.String(KeyTimeFrame, "ticks", "The bar time frame (ticks, minutes, days, weeks, months, years).")
	fs.Int(KeyCompression, 1, "The number of time frame units per bar.")
	fs.String(KeyOutputDir, ".", "The directory the CSV of produced records is written to.")
	fs.Int(KeyRecords, 0, "Stop after this many records have been produced (0 means never).")
}

//
// Load resolves the configuration from, in increasing order of precedence: built-in defaults, the
// optional config file at path, GOOSEFEED_* environment variables, and explicitly-set flags of the
// provided flag set (which may be nil).
//
func Load(path string, fs *flag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault(KeyExchange, "coinbasepro")
	v.SetDefault(KeySymbol, "BTC-USD")
	v.SetDefault(KeyLimit, feed.DefaultLimit)
	v.SetDefault(KeyTimeFrame, "ticks")
	v.SetDefault(KeyCompression, 1)
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyRecords, 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if fs != nil {
		fs.Visit(func(f *flag.Flag) {
			v.Set(f.Name, f.Value.String())
		})
	}

	timeFrame, err := feed.ParseTimeFrame(v.GetString(KeyTimeFrame))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Exchange:    strings.TrimSpace(v.GetString(KeyExchange)),
		Symbol:      strings.TrimSpace(v.GetString(KeySymbol)),
		Limit:       v.GetInt(KeyLimit),
		TimeFrame:   timeFrame,
		Compression: v.GetInt(KeyCompression),
		OutputDir:   v.GetString(KeyOutputDir),
		Records:     v.GetInt(KeyRecords),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

//
// Validate checks the configuration for values that can never work.
//
func (o *Config) Validate() error {
	var errs []error

	if o.Exchange == "" {
		errs = append(errs, errors.New("exchange is required"))
	}

	if o.Symbol == "" {
		errs = append(errs, errors.New("symbol is required"))
	}

	if o.Limit <= 0 {
		errs = append(errs, fmt.Errorf("limit must be positive (got %d)", o.Limit))
	}

	if o.Compression <= 0 {
		errs = append(errs, fmt.Errorf("compression must be positive (got %d)", o.Compression))
	}

	if o.Records < 0 {
		errs = append(errs, fmt.Errorf("records must not be negative (got %d)", o.Records))
	}

	return errors.Join(errs...)
}

//
// FeedOptions translates the configuration into options for feed.New.
//
func (o *Config) FeedOptions() []feed.Option {
	return []feed.Option{
		feed.WithLimit(o.Limit),
		feed.WithTimeFrame(o.TimeFrame, o.Compression),
	}
}
