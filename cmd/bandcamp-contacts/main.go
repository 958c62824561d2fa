package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/handiism/bandcamp-contacts/internal/batch"
	"github.com/handiism/bandcamp-contacts/internal/config"
	"github.com/handiism/bandcamp-contacts/internal/model"
	"github.com/handiism/bandcamp-contacts/internal/output"
)

func main() {
	defaults := config.DefaultSettings()

	opts, err := parseArgs(os.Args[1:], defaults, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	// Load config
	settings := defaults
	if opts.configPath != "" {
		settings, err = config.Load(opts.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := settings.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading environment: %v\n", err)
		os.Exit(1)
	}

	opts.apply(settings)
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	format, err := output.ParseFormat(settings.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	inputs := opts.inputs()

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, finishing in-flight albums...")
		cancel()
	}()

	log := newLogger(opts.verbose)
	manager := batch.NewManager(settings, log.event)

	fmt.Fprintln(os.Stderr, "🎵 Bandcamp Contacts")
	fmt.Fprintln(os.Stderr, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(os.Stderr)

	if err := manager.Initialize(ctx, inputs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.dryRun {
		for _, u := range manager.AlbumURLs() {
			fmt.Println(u)
		}
		log.event(batch.ProgressEvent{Message: fmt.Sprintf("[Dry run] %d album URLs collected", len(manager.AlbumURLs())), Level: batch.LevelInfo})
		return
	}

	result := manager.Run(ctx)
	report := model.NewReport(settings.Tag, result)

	if opts.outFile != "" {
		if err := output.WriteFile(opts.outFile, report, format); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
			os.Exit(1)
		}
		log.event(batch.ProgressEvent{Message: fmt.Sprintf("Results written to %s", opts.outFile), Level: batch.LevelSuccess})
		return
	}

	if err := output.Write(os.Stdout, report, format); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
		os.Exit(1)
	}
}

// logger prints progress events to stderr with colored level prefixes.
// Events arrive from worker goroutines, so writes are serialized.
type logger struct {
	verbose bool
	mu      sync.Mutex

	errorPrefix   string
	warningPrefix string
	successPrefix string
	infoPrefix    string
}

func newLogger(verbose bool) *logger {
	return &logger{
		verbose:       verbose,
		errorPrefix:   color.New(color.FgRed, color.Bold).Sprint("❌ "),
		warningPrefix: color.New(color.FgYellow).Sprint("⚠️  "),
		successPrefix: color.New(color.FgGreen).Sprint("✅ "),
		infoPrefix:    color.New(color.FgCyan).Sprint("ℹ️  "),
	}
}

func (l *logger) event(event batch.ProgressEvent) {
	if event.Level == batch.LevelVerbose && !l.verbose {
		return
	}

	var prefix string
	switch event.Level {
	case batch.LevelError:
		prefix = l.errorPrefix
	case batch.LevelWarning:
		prefix = l.warningPrefix
	case batch.LevelSuccess:
		prefix = l.successPrefix
	case batch.LevelInfo:
		prefix = l.infoPrefix
	default:
		prefix = "   "
	}

	// Grouped album logs span several lines; only the first is prefixed.
	lines := strings.Split(event.Message, "\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(color.Error, prefix+lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintln(color.Error, "   "+line)
	}
}
