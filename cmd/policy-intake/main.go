package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/jeifler/policy-intake/internal/extraction"
	"github.com/jeifler/policy-intake/internal/intake"
	"github.com/jeifler/policy-intake/internal/policy"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("policy-intake")
	var (
		watchDir     = fs.StringLong("watch", "./incoming", "Directory watched for new PDF quotes")
		processedDir = fs.StringLong("processed", "./processed", "Destination for successfully processed files")
		errorDir     = fs.StringLong("errors", "./errors", "Destination for failed files")
		csvPath      = fs.StringLong("csv", "policies.csv", "CSV database file path")
		dbPath       = fs.StringLong("db", "policy-intake.db", "Outcome archive file path")
		workers      = fs.IntLong("workers", 2, "Number of pipeline workers")
		queueSize    = fs.IntLong("queue", 64, "Work queue capacity")
		port         = fs.IntLong("port", 8080, "HTTP status API port")
		authUser     = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass     = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("POLICY_INTAKE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := os.MkdirAll(*watchDir, 0755); err != nil {
		slog.Error("Failed to create watch directory", "dir", *watchDir, "error", err)
		os.Exit(1)
	}

	slog.Info("Initializing archive...")
	db, err := policy.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize archive", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	mover, err := intake.NewMover(*processedDir, *errorDir)
	if err != nil {
		slog.Error("Failed to prepare terminal directories", "error", err)
		os.Exit(1)
	}

	service := policy.NewService(
		extraction.NewFitzExtractor(),
		policy.NewClassifier(policy.DefaultProbes()),
		policy.DefaultRules(),
		policy.DefaultValidationPolicy(),
		policy.NewCSVSink(*csvPath),
		db,
		mover,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := intake.StartPool(*workers, *queueSize, service)

	events, err := intake.StartWatcher(ctx, intake.WatchConfig{
		Dir:         *watchDir,
		InitialScan: true,
	})
	if err != nil {
		slog.Error("Failed to start watcher", "error", err)
		os.Exit(1)
	}

	feedDone := make(chan struct{})
	go func() {
		defer close(feedDone)
		for path := range events {
			pool.Submit(path)
		}
	}()

	// Initialize server
	basicAuth := policy.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := policy.NewServer(service, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Watching for new PDF quotes",
		"watch", *watchDir,
		"csv", *csvPath,
		"processed", *processedDir,
		"errors", *errorDir,
		"workers", *workers,
	)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
	cancel()
	<-feedDone
	pool.Close()
}
