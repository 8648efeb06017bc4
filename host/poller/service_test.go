package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lukehollenback/goosefeed/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	status feed.Status
	bar    feed.Bar
	err    error
}

//
// scriptedLoader replays the provided steps and then blocks until the poll is cancelled.
//
type scriptedLoader struct {
	mu    sync.Mutex
	steps []step
	calls int
}

func (o *scriptedLoader) IsLive() bool { return true }

func (o *scriptedLoader) Load(ctx context.Context, sink feed.Sink) (feed.Status, error) {
	o.mu.Lock()
	o.calls++

	if len(o.steps) == 0 {
		o.mu.Unlock()
		<-ctx.Done()

		return feed.Failed, ctx.Err()
	}

	s := o.steps[0]
	o.steps = o.steps[1:]
	o.mu.Unlock()

	if s.status == feed.Produced {
		sink.SetBar(s.bar)
	}

	return s.status, s.err
}

type memoryRecorder struct {
	mu   sync.Mutex
	bars []feed.Bar
	err  error
}

func (o *memoryRecorder) Write(bar feed.Bar) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.err != nil {
		return o.err
	}

	o.bars = append(o.bars, bar)

	return nil
}

func (o *memoryRecorder) recorded() []feed.Bar {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]feed.Bar(nil), o.bars...)
}

func bar(close float64) feed.Bar {
	return feed.Bar{Time: time.Unix(int64(close), 0).UTC(), Open: close, High: close, Low: close, Close: close, Volume: 1}
}

func waitDone(t *testing.T, svc *Service) {
	t.Helper()

	select {
	case <-svc.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("the poller service did not finish in time")
	}
}

func TestStopsAtRecordCapAndSkipsEmptyPolls(t *testing.T) {
	loader := &scriptedLoader{steps: []step{
		{status: feed.Empty},
		{status: feed.Produced, bar: bar(1)},
		{status: feed.Empty},
		{status: feed.Empty},
		{status: feed.Produced, bar: bar(2)},
		{status: feed.Produced, bar: bar(3)},
	}}
	recorder := &memoryRecorder{}
	svc := New(loader, recorder, 2)

	chStarted, err := svc.Start()
	require.NoError(t, err)
	<-chStarted

	waitDone(t, svc)

	assert.Equal(t, []feed.Bar{bar(1), bar(2)}, recorder.recorded())
	assert.Equal(t, 2, svc.Produced())
	assert.NoError(t, svc.Err())
	assert.Equal(t, 5, loader.calls)

	chStopped, err := svc.Stop()
	require.NoError(t, err)
	<-chStopped
}

func TestHaltsOnFatalError(t *testing.T) {
	boom := errors.New("exchange went away")
	loader := &scriptedLoader{steps: []step{
		{status: feed.Produced, bar: bar(1)},
		{status: feed.Failed, err: boom},
		{status: feed.Produced, bar: bar(2)},
	}}
	recorder := &memoryRecorder{}
	svc := New(loader, recorder, 0)

	_, err := svc.Start()
	require.NoError(t, err)

	waitDone(t, svc)

	assert.Equal(t, []feed.Bar{bar(1)}, recorder.recorded())
	assert.Same(t, boom, svc.Err())
	assert.Equal(t, 2, loader.calls, "fatal errors must not be retried")
}

func TestHaltsWhenRecorderFails(t *testing.T) {
	boom := errors.New("disk full")
	loader := &scriptedLoader{steps: []step{{status: feed.Produced, bar: bar(1)}}}
	svc := New(loader, &memoryRecorder{err: boom}, 0)

	_, err := svc.Start()
	require.NoError(t, err)

	waitDone(t, svc)

	assert.Same(t, boom, svc.Err())
	assert.Equal(t, 0, svc.Produced())
}

func TestStopInterruptsInFlightPoll(t *testing.T) {
	loader := &scriptedLoader{steps: []step{{status: feed.Produced, bar: bar(1)}}}
	recorder := &memoryRecorder{}
	svc := New(loader, recorder, 0)

	_, err := svc.Start()
	require.NoError(t, err)

	require.Eventually(t, func() bool { return svc.Produced() == 1 }, 2*time.Second, 5*time.Millisecond)

	chStopped, err := svc.Stop()
	require.NoError(t, err)

	select {
	case <-chStopped:
	case <-time.After(2 * time.Second):
		t.Fatal("the poller service did not stop in time")
	}

	assert.NoError(t, svc.Err())
	assert.Equal(t, []feed.Bar{bar(1)}, recorder.recorded())
}

func TestStopBeforeStart(t *testing.T) {
	svc := New(&scriptedLoader{}, &memoryRecorder{}, 0)

	_, err := svc.Stop()
	assert.Error(t, err)
}
