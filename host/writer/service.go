package writer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/lukehollenback/goosefeed/constants"
	"github.com/lukehollenback/goosefeed/feed"
	"github.com/lukehollenback/goosefeed/host"
)

const (
	Name     = "≪writer-service≫"
	FileName = "goosefeed.csv"
)

var (
	logger *log.Logger

	//
	// Header is the first row of every CSV file the service writes.
	//
	Header = []string{"Timestamp", "Open", "High", "Low", "Close", "Volume"}

	ErrNotStarted = errors.New("the writer service has not been started")

	_ host.Service = (*Service)(nil)
)

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
}

//
// Service represents a writer service instance. It acts as the host's record sink by appending
// every bar it is handed to a CSV file.
//
type Service struct {
	mu         *sync.Mutex
	chKill     chan bool
	chStopped  chan bool
	outputDir  string
	outputFile *os.File
	writer     *csv.Writer
}

//
// New instantiates a writer service that will output to the specified directory.
//
func New(outputDir string) *Service {
	return &Service{
		mu:        &sync.Mutex{},
		outputDir: outputDir,
	}
}

//
// Path returns the path of the CSV file the service writes to.
//
func (o *Service) Path() string {
	return filepath.Join(o.outputDir, FileName)
}

//
// Start implements the host.Service interface's described method.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	//
	// (Re)initialize our instance variables.
	//
	o.chKill = make(chan bool, 1)
	o.chStopped = make(chan bool, 1)

	//
	// Create the output CSV file.
	//
	var err error

	o.outputFile, err = os.Create(o.Path())
	if err != nil {
		return o.chStopped, err
	}

	logger.Printf("Outputting CSV to %s.", o.Path())

	//
	// Create the CSV writer and use it to write out the header row.
	//
	o.writer = csv.NewWriter(o.outputFile)

	if err := o.writer.Write(Header); err != nil {
		return o.chStopped, err
	}

	//
	// Fire off a goroutine as the executor for the service.
	//
	go o.service()

	//
	// Return our "started" channel in case the caller wants to block on it and log some debug info.
	//
	chStarted := make(chan bool, 1)
	chStarted <- true

	logger.Printf("Started.")

	return chStarted, nil
}

//
// Stop implements the host.Service interface's described method.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.chKill == nil {
		return nil, ErrNotStarted
	}

	logger.Printf("Stopping...")

	//
	// Tell the goroutines that were spun off by the service to shutdown.
	//
	o.chKill <- true

	//
	// Return the "stopped" channel that the caller can block on if they need to know that the
	// service has completely shutdown.
	//
	return o.chStopped, nil
}

//
// Write appends the provided bar to the output file as a single CSV row.
//
func (o *Service) Write(bar feed.Bar) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writer == nil {
		return ErrNotStarted
	}

	return o.writer.Write(Row(bar))
}

//
// Row renders the provided bar as a CSV row matching Header.
//
func Row(bar feed.Bar) []string {
	return []string{
		bar.Time.UTC().Format(time.RFC3339Nano),
		strconv.FormatFloat(bar.Open, 'f', -1, 64),
		strconv.FormatFloat(bar.High, 'f', -1, 64),
		strconv.FormatFloat(bar.Low, 'f', -1, 64),
		strconv.FormatFloat(bar.Close, 'f', -1, 64),
		strconv.FormatFloat(bar.Volume, 'f', -1, 64),
	}
}

//
// service executes the top-level logic of the service. It is intended to be spun off into its own
// goroutine when the service is started.
//
func (o *Service) service() {
	//
	// Yield indefinitely.
	//
	<-o.chKill

	o.mu.Lock()

	//
	// Flush the CSV writer's buffer to the output file.
	//
	o.writer.Flush()
	if err := o.writer.Error(); err != nil {
		logger.Printf("Failed to flush output file. (Error: %s)", err)
	}

	o.writer = nil

	//
	// Close the handle on the output file.
	//
	if err := o.outputFile.Close(); err != nil {
		logger.Printf("Failed to close handle on output file. (Error: %s)", err)
	}

	o.mu.Unlock()

	//
	// Send the signal that we have shut down.
	//
	o.chStopped <- true
}
