package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lukehollenback/goosefeed/exchange"
	"github.com/lukehollenback/goosefeed/exchange/binance"
	"github.com/lukehollenback/goosefeed/exchange/coinbasepro"
)

//
// Factory constructs a ready-to-use market data source.
//
type Factory func() (exchange.Source, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		"coinbasepro": func() (exchange.Source, error) { return coinbasepro.NewClient(), nil },
		"binance":     func() (exchange.Source, error) { return binance.NewClient(), nil },
		"binanceus":   func() (exchange.Source, error) { return binance.NewUSClient(), nil },
	}
)

//
// Register makes a source constructible under the provided identifier, replacing any factory that
// was previously registered under it.
//
func Register(id string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	factories[normalize(id)] = factory
}

//
// New constructs the source registered under the provided identifier. Unknown identifiers result in
// an error wrapping exchange.ErrUnsupportedSource.
//
func New(id string) (exchange.Source, error) {
	mu.RLock()
	factory, ok := factories[normalize(id)]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", exchange.ErrUnsupportedSource, id, strings.Join(Names(), ", "))
	}

	return factory()
}

//
// Names returns the sorted identifiers of every registered source.
//
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for k := range factories {
		names = append(names, k)
	}

	sort.Strings(names)

	return names
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
