package writer

import (
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/lukehollenback/goosefeed/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritesHeaderAndRows(t *testing.T) {
	svc := New(t.TempDir())

	chStarted, err := svc.Start()
	require.NoError(t, err)
	<-chStarted

	require.NoError(t, svc.Write(feed.Bar{
		Time: time.Date(2020, 8, 25, 14, 0, 0, 0, time.UTC),
		Open: 10, High: 12, Low: 9, Close: 11, Volume: 100,
	}))
	require.NoError(t, svc.Write(feed.Bar{
		Time: time.Date(2020, 8, 25, 14, 0, 1, 500000000, time.UTC),
		Open: 11.5, High: 11.5, Low: 11.5, Close: 11.5, Volume: 0.25,
	}))

	chStopped, err := svc.Stop()
	require.NoError(t, err)
	<-chStopped

	f, err := os.Open(svc.Path())
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		Header,
		{"2020-08-25T14:00:00Z", "10", "12", "9", "11", "100"},
		{"2020-08-25T14:00:01.5Z", "11.5", "11.5", "11.5", "11.5", "0.25"},
	}, rows)
}

func TestWriteBeforeStart(t *testing.T) {
	svc := New(t.TempDir())

	assert.ErrorIs(t, svc.Write(feed.Bar{}), ErrNotStarted)

	_, err := svc.Stop()
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestWriteAfterStop(t *testing.T) {
	svc := New(t.TempDir())

	chStarted, err := svc.Start()
	require.NoError(t, err)
	<-chStarted

	chStopped, err := svc.Stop()
	require.NoError(t, err)
	<-chStopped

	assert.ErrorIs(t, svc.Write(feed.Bar{}), ErrNotStarted)
}

func TestStartFailsOnMissingDirectory(t *testing.T) {
	svc := New(t.TempDir() + "/does/not/exist")

	_, err := svc.Start()
	assert.Error(t, err)
}
