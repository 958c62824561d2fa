package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/handiism/bandcamp-contacts/internal/config"
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	tag      string
	clicks   int
	workers  int
	output   string
	headless bool

	urls       string
	outFile    string
	configPath string
	verbose    bool
	dryRun     bool

	// set records flags given explicitly, so they override the config file
	// and environment while omitted ones do not.
	set  map[string]bool
	args []string
}

// parseArgs parses args (without the program name). Usage and errors are
// written to out. flag.ErrHelp is returned for -h.
func parseArgs(args []string, defaults *config.Settings, out io.Writer) (*cliOptions, error) {
	opts := &cliOptions{set: make(map[string]bool)}

	fs := flag.NewFlagSet("bandcamp-contacts", flag.ContinueOnError)
	fs.SetOutput(out)

	// Command line flags
	fs.StringVar(&opts.tag, "tag", defaults.Tag, "Bandcamp genre tag to discover (empty for all)")
	fs.IntVar(&opts.clicks, "clicks", defaults.Clicks, "Number of \"View more\" clicks on the discover page")
	fs.IntVar(&opts.workers, "workers", defaults.Workers, "Albums scraped in parallel (1-10)")
	fs.StringVar(&opts.output, "output", defaults.Output, "Output format: json or csv")
	fs.BoolVar(&opts.headless, "headless", defaults.Headless, "Run the discovery browser headless (use -headless=false to show it)")
	fs.StringVar(&opts.urls, "urls", "", "Album or artist URL(s) to scrape instead of discovering (comma-separated)")
	fs.StringVar(&opts.outFile, "out-file", "", "Write results to this file instead of stdout")
	fs.StringVar(&opts.configPath, "config", "", "Path to config file (.json, .yaml)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Show per-album scraping details")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Collect album URLs without scraping them")

	fs.Usage = func() {
		w := fs.Output()
		fmt.Fprintln(w, "Bandcamp Contacts - Find artist contact emails on Bandcamp")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Usage:")
		fmt.Fprintln(w, "  bandcamp-contacts -tag <tag> [options]")
		fmt.Fprintln(w, "  bandcamp-contacts [options] <album or artist URL>...")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Boolean flags take their value after '=', e.g. -headless=false.")
		fmt.Fprintln(w, "For interactive mode, use: bandcamp-contacts-tui")
		fmt.Fprintln(w)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// "-headless false" parses as -headless followed by the argument
	// "false", which would then be taken for an input URL.
	for _, arg := range fs.Args() {
		if arg == "true" || arg == "false" {
			err := fmt.Errorf("unexpected argument %q: write boolean flags as -name=%s", arg, arg)
			fmt.Fprintln(fs.Output(), err)
			fs.Usage()
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	opts.args = fs.Args()
	return opts, nil
}

// apply copies the explicitly given settings flags over s.
func (o *cliOptions) apply(s *config.Settings) {
	if o.set["tag"] {
		s.Tag = o.tag
	}
	if o.set["clicks"] {
		s.Clicks = o.clicks
	}
	if o.set["workers"] {
		s.Workers = o.workers
	}
	if o.set["output"] {
		s.Output = o.output
	}
	if o.set["headless"] {
		s.Headless = o.headless
	}
}

// inputs returns the -urls value followed by the positional arguments.
func (o *cliOptions) inputs() []string {
	var inputs []string
	if o.urls != "" {
		inputs = append(inputs, o.urls)
	}
	return append(inputs, o.args...)
}
