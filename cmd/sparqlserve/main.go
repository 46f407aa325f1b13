// Command sparqlserve is the optional HTTP adapter (§12): it opens a
// badger-backed quad store and exposes a single /eval endpoint that
// interprets a pre-built plan.Node and renders the result as JSON. It
// does not parse SPARQL text — query compilation happens upstream of
// this module.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/wbrown/janus-sparql/internal/obslog"
	"github.com/wbrown/janus-sparql/store"
)

func main() {
	var dbPath string
	var httpAddr string
	var verbose bool
	var help bool

	flag.StringVar(&dbPath, "db", "", "badger store path (required)")
	flag.StringVar(&httpAddr, "http", ":8080", "HTTP listen address")
	flag.BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	flag.BoolVar(&help, "h", false, "show help")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -db <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Evaluates pre-built SPARQL plans against a badger-backed quad store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment overrides:\n")
		fmt.Fprintf(os.Stderr, "  SPARQLSERVE_DB     overrides -db\n")
		fmt.Fprintf(os.Stderr, "  SPARQLSERVE_HTTP   overrides -http\n")
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	if v := os.Getenv("SPARQLSERVE_DB"); v != "" {
		dbPath = v
	}
	if v := os.Getenv("SPARQLSERVE_HTTP"); v != "" {
		httpAddr = v
	}

	if dbPath == "" {
		fmt.Fprintln(os.Stderr, "sparqlserve: -db is required")
		flag.Usage()
		os.Exit(1)
	}

	level := obslog.LevelInfo
	if verbose {
		level = obslog.LevelDebug
	}
	logger := obslog.New(os.Stderr, "sparqlserve", level)

	s, err := store.Open(dbPath)
	if err != nil {
		logger.Errorf("failed to open store %s: %v", dbPath, err)
		os.Exit(1)
	}
	defer s.Close()

	ds := store.NewDataset(s)
	srv := &server{ds: ds, log: logger.With("eval")}

	httpServer := &http.Server{
		Addr:         httpAddr,
		Handler:      newMux(srv),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Infof("listening on %s, store=%s", httpAddr, dbPath)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
