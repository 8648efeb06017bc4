package main

import (
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/lukehollenback/goosefeed/config"
	"github.com/lukehollenback/goosefeed/feed"
	"github.com/lukehollenback/goosefeed/host/poller"
	"github.com/lukehollenback/goosefeed/host/writer"
)

func main() {
	//
	// Resolve the configuration.
	//
	cfgPath := flag.String("config", "", "An optional configuration file (YAML, JSON, or TOML).")

	config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(*cfgPath, flag.CommandLine)
	if err != nil {
		log.Fatalf("Failed to load configuration. (Error: %s)", err)
	}

	//
	// Build the feed against the configured market data source.
	//
	dataFeed, err := feed.New(cfg.Exchange, cfg.Symbol, cfg.FeedOptions()...)
	if err != nil {
		log.Fatalf("Failed to create the feed. (Error: %s)", err)
	}

	log.Printf(
		"Polling %s on %s. (Time Frame: %s, Compression: %d, Limit: %d)",
		cfg.Symbol, dataFeed.Source().Name(), cfg.TimeFrame, cfg.Compression, cfg.Limit,
	)

	//
	// Register a kill signal handler with the operating system so that we can gracefully shutdown if
	// necessary.
	//
	osInterrupt := make(chan os.Signal, 1)

	signal.Notify(osInterrupt, os.Interrupt)

	//
	// Start up all necessary services.
	//
	writerSvc := writer.New(cfg.OutputDir)

	chWriterStarted, err := writerSvc.Start()
	if err != nil {
		log.Fatalf("Failed to start the writer service. (Error: %s)", err)
	}

	pollerSvc := poller.New(dataFeed, writerSvc, cfg.Records)

	chPollerStarted, err := pollerSvc.Start()
	if err != nil {
		log.Fatalf("Failed to start the poller service. (Error: %s)", err)
	}

	<-chWriterStarted
	<-chPollerStarted

	//
	// Block until we are shut down by the operating system or the poller runs out of work.
	//
	select {
	case <-osInterrupt:
		log.Print("An operating system interrupt has been received. Shutting down all services...")
	case <-pollerSvc.Done():
		log.Print("The poller service has finished. Shutting down all services...")
	}

	//
	// Stop all running services.
	//
	chPollerStopped, err := pollerSvc.Stop()
	if err != nil {
		log.Fatalf("Failed to stop the poller service. (Error: %s)", err)
	}

	<-chPollerStopped

	chWriterStopped, err := writerSvc.Stop()
	if err != nil {
		log.Fatalf("Failed to stop the writer service. (Error: %s)", err)
	}

	<-chWriterStopped

	//
	// Wrap everything up.
	//
	if err := pollerSvc.Err(); err != nil {
		log.Fatalf("The feed halted with a fatal error. (Error: %s)", err)
	}

	log.Print("Goodbye.")
}
