package poller

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/goosefeed/constants"
	"github.com/lukehollenback/goosefeed/feed"
	"github.com/lukehollenback/goosefeed/host"
)

const (
	Name = "≪poller-service≫"
)

var (
	logger *log.Logger

	_ host.Service = (*Service)(nil)
	_ Loader       = (*feed.Feed)(nil)
)

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
}

//
// Loader is the part of a feed that the poller drives. *feed.Feed implements it.
//
type Loader interface {
	Load(ctx context.Context, sink feed.Sink) (feed.Status, error)
	IsLive() bool
}

//
// Recorder receives every bar the feed produces.
//
type Recorder interface {
	Write(bar feed.Bar) error
}

//
// Service represents a poller service instance. It plays the role of the host's scheduling loop:
// it polls its feed once per desired record, hands produced bars to its recorder, does not advance
// on empty polls, and halts on the first fatal error.
//
type Service struct {
	mu        *sync.Mutex
	chKill    chan bool
	chStopped chan bool
	chDone    chan struct{}
	cancel    context.CancelFunc

	feed       Loader
	recorder   Recorder
	maxRecords int

	state    state
	produced int
	err      error
}

//
// New instantiates a poller service. A maxRecords of zero or less means "poll until stopped".
//
func New(loader Loader, recorder Recorder, maxRecords int) *Service {
	return &Service{
		mu:         &sync.Mutex{},
		feed:       loader,
		recorder:   recorder,
		maxRecords: maxRecords,
		state:      idle,
	}
}

//
// Start implements the host.Service interface's described method.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == polling {
		return nil, fmt.Errorf("the poller service is already running")
	}

	//
	// (Re)initialize our instance variables.
	//
	var ctx context.Context

	ctx, o.cancel = context.WithCancel(context.Background())

	o.chKill = make(chan bool, 1)
	o.chStopped = make(chan bool, 1)
	o.chDone = make(chan struct{})
	o.state = polling
	o.produced = 0
	o.err = nil

	//
	// Fire off a goroutine as the executor for the service.
	//
	go o.service(ctx, o.chKill, o.chStopped, o.chDone)

	//
	// Return our "started" channel in case the caller wants to block on it and log some debug info.
	//
	chStarted := make(chan bool, 1)
	chStarted <- true

	logger.Printf("Started. (Live: %t)", o.feed.IsLive())

	return chStarted, nil
}

//
// Stop implements the host.Service interface's described method.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.chKill == nil {
		return nil, fmt.Errorf("the poller service has not been started")
	}

	logger.Printf("Stopping...")

	//
	// Tell the polling goroutine to shut down and interrupt whatever poll is currently in flight.
	//
	select {
	case o.chKill <- true:
	default:
	}

	o.cancel()

	return o.chStopped, nil
}

//
// Done returns a channel that is closed as soon as the polling loop exits for any reason.
//
func (o *Service) Done() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.chDone
}

//
// Produced returns the number of records handed to the recorder since the service was started.
//
func (o *Service) Produced() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.produced
}

//
// Err returns the fatal error that halted the polling loop, if there was one.
//
func (o *Service) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.err
}

//
// service executes the polling loop. It is intended to be spun off into its own goroutine when the
// service is started.
//
func (o *Service) service(ctx context.Context, chKill <-chan bool, chStopped chan<- bool, chDone chan struct{}) {
	final := o.poll(ctx, chKill)

	o.mu.Lock()
	o.state = final
	o.mu.Unlock()

	logger.Printf("Polling has %s after %d record(s).", final, o.Produced())

	//
	// Send the signal that we have shut down.
	//
	close(chDone)
	chStopped <- true
}

//
// poll runs until the service is told to stop, the record cap is reached, or the feed fails. It
// returns the state the service should settle in.
//
func (o *Service) poll(ctx context.Context, chKill <-chan bool) state {
	var slot feed.Slot

	for {
		select {
		case <-chKill:
			return stopped
		default:
		}

		slot.Reset()

		status, err := o.feed.Load(ctx, &slot)
		if err != nil {
			if ctx.Err() != nil {
				return stopped
			}

			logger.Printf("The feed failed. Halting. (Error: %s)", aurora.Bold(aurora.Red(err)))

			o.mu.Lock()
			o.err = err
			o.mu.Unlock()

			return failed
		}

		if status != feed.Produced {
			continue
		}

		if err := o.recorder.Write(slot.Bar); err != nil {
			logger.Printf("Failed to record bar. Halting. (Error: %s)", err)

			o.mu.Lock()
			o.err = err
			o.mu.Unlock()

			return failed
		}

		o.mu.Lock()
		o.produced++
		done := o.maxRecords > 0 && o.produced >= o.maxRecords
		o.mu.Unlock()

		if done {
			return stopped
		}
	}
}
