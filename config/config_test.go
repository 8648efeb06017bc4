package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/lukehollenback/goosefeed/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Exchange:    "coinbasepro",
		Symbol:      "BTC-USD",
		Limit:       feed.DefaultLimit,
		TimeFrame:   feed.Ticks,
		Compression: 1,
		OutputDir:   ".",
		Records:     0,
	}, cfg)
}

func TestPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goosefeed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exchange: binance\nsymbol: ETH/USDT\ntimeframe: minutes\ncompression: 15\nlimit: 50\n"), 0o600))

	t.Setenv("GOOSEFEED_SYMBOL", "BNB/USDT")
	t.Setenv("GOOSEFEED_OUTPUT_DIR", "/tmp/out")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-compression", "60", "-records", "3"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "binance", cfg.Exchange) // file
	assert.Equal(t, "BNB/USDT", cfg.Symbol)  // env beats file
	assert.Equal(t, feed.Minutes, cfg.TimeFrame)
	assert.Equal(t, 60, cfg.Compression) // flag beats file
	assert.Equal(t, 50, cfg.Limit)       // file, since the flag was not set
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, 3, cfg.Records)
}

func TestInvalidValues(t *testing.T) {
	cases := [][]string{
		{"-timeframe", "fortnights"},
		{"-limit", "0"},
		{"-compression", "-1"},
		{"-symbol", " "},
		{"-records", "-5"},
	}

	for _, args := range cases {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		RegisterFlags(fs)
		require.NoError(t, fs.Parse(args))

		_, err := Load("", fs)
		assert.Error(t, err, "%v", args)
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)

	assert.Error(t, err)
}

func TestFeedOptions(t *testing.T) {
	cfg := &Config{Limit: 25, TimeFrame: feed.Days, Compression: 3}

	f := feed.NewWithSource(nil, "BTC-USD", cfg.FeedOptions()...)

	tf, compression := f.TimeFrame()
	assert.Equal(t, feed.Days, tf)
	assert.Equal(t, 3, compression)
}
