package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/bandcamp-contacts/internal/model"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a scraping progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Worker pool bounds.
const (
	MinWorkers = 1
	MaxWorkers = 10
)

// Default pacing between album tasks.
const (
	DefaultCooldown  = 5 * time.Second
	DefaultTaskDelay = 300 * time.Millisecond
)

// AlbumResolver resolves one album URL. *scrape.AlbumResolver satisfies it.
type AlbumResolver interface {
	Resolve(ctx context.Context, albumURL string) model.AlbumResult
}

// AlbumResolverFunc adapts a plain function to the AlbumResolver interface.
type AlbumResolverFunc func(ctx context.Context, albumURL string) model.AlbumResult

// Resolve calls f(ctx, albumURL).
func (f AlbumResolverFunc) Resolve(ctx context.Context, albumURL string) model.AlbumResult {
	return f(ctx, albumURL)
}

// Options controls the worker pool and pacing of a Coordinator.
type Options struct {
	// Workers is the number of albums resolved in parallel, clamped to
	// MinWorkers..MaxWorkers.
	Workers int

	// Cooldown is how long a worker sleeps after its album hit a 429.
	Cooldown time.Duration

	// TaskDelay is the pause after every other album task.
	TaskDelay time.Duration
}

// DefaultOptions returns a single worker with the standard pacing.
func DefaultOptions() Options {
	return Options{
		Workers:   MinWorkers,
		Cooldown:  DefaultCooldown,
		TaskDelay: DefaultTaskDelay,
	}
}

// ClampWorkers bounds n to MinWorkers..MaxWorkers.
func ClampWorkers(n int) int {
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// Coordinator fans album URLs out to a bounded pool of workers and merges
// their contacts into one BatchResult.
type Coordinator struct {
	resolver AlbumResolver
	opts     Options

	total       int32
	completed   int32
	found       int32
	rateLimited int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewCoordinator creates a new Coordinator. onProgress may be nil.
func NewCoordinator(resolver AlbumResolver, opts Options, onProgress func(ProgressEvent)) *Coordinator {
	opts.Workers = ClampWorkers(opts.Workers)
	if opts.Cooldown < 0 {
		opts.Cooldown = 0
	}
	if opts.TaskDelay < 0 {
		opts.TaskDelay = 0
	}

	return &Coordinator{
		resolver:   resolver,
		opts:       opts,
		onProgress: onProgress,
	}
}

// Workers returns the effective worker count after clamping.
func (c *Coordinator) Workers() int {
	return c.opts.Workers
}

// Run resolves every URL and returns the merged, deduplicated result.
//
// Each album's log lines are reported as one grouped event when its task
// completes, so lines from parallel workers never interleave. A canceled
// context stops new tasks from starting; tasks already running finish and
// the partial result is still returned.
func (c *Coordinator) Run(ctx context.Context, urls []string) model.BatchResult {
	result := model.BatchResult{Albums: len(urls)}
	atomic.StoreInt32(&c.total, int32(len(urls)))
	atomic.StoreInt32(&c.completed, 0)
	atomic.StoreInt32(&c.found, 0)
	atomic.StoreInt32(&c.rateLimited, 0)

	var g errgroup.Group
	g.SetLimit(c.opts.Workers)

	for _, albumURL := range urls {
		if ctx.Err() != nil {
			c.progress(ProgressEvent{Message: "Canceled, not starting remaining albums", Level: LevelWarning})
			break
		}

		g.Go(func() error {
			// The slot may have freed up only after cancellation.
			if ctx.Err() != nil {
				return nil
			}
			res, err := c.resolve(ctx, albumURL)

			c.mu.Lock()
			if err != nil {
				result.Errors = append(result.Errors, err.Error())
			}
			result.Contacts = append(result.Contacts, res.Contacts...)
			c.mu.Unlock()

			atomic.AddInt32(&c.found, int32(len(res.Contacts)))
			atomic.AddInt32(&c.completed, 1)

			if len(res.Logs) > 0 {
				c.progress(ProgressEvent{Message: strings.Join(res.Logs, "\n"), Level: LevelVerbose})
			}
			if err != nil {
				c.progress(ProgressEvent{Message: err.Error(), Level: LevelError})
			}

			if res.RateLimited {
				atomic.AddInt32(&c.rateLimited, 1)
				c.progress(ProgressEvent{Message: fmt.Sprintf("Rate limited on %s, cooling down for %s", albumURL, c.opts.Cooldown), Level: LevelWarning})
				c.wait(ctx, c.opts.Cooldown)
				return nil
			}

			if len(res.Contacts) > 0 {
				c.progress(ProgressEvent{Message: fmt.Sprintf("Found %d email(s) for %s", len(res.Contacts), albumURL), Level: LevelSuccess})
			}
			c.wait(ctx, c.opts.TaskDelay)
			return nil
		})
	}

	// Tasks never return errors; failures are recorded in result.Errors.
	_ = g.Wait()

	result.RateLimited = int(atomic.LoadInt32(&c.rateLimited))
	result.Dedup()
	return result
}

// GetProgress returns how many albums have completed out of the total and
// how many contacts have been found so far, before deduplication.
func (c *Coordinator) GetProgress() (completed, total, found int32) {
	return atomic.LoadInt32(&c.completed), atomic.LoadInt32(&c.total), atomic.LoadInt32(&c.found)
}

// resolve runs one album task, turning a panic into an error so that one
// bad page cannot take down the batch.
func (c *Coordinator) resolve(ctx context.Context, albumURL string) (res model.AlbumResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = model.AlbumResult{URL: albumURL}
			err = fmt.Errorf("Error scraping %s: %v", albumURL, r)
		}
	}()
	return c.resolver.Resolve(ctx, albumURL), nil
}

func (c *Coordinator) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func (c *Coordinator) progress(event ProgressEvent) {
	if c.onProgress != nil {
		c.onProgress(event)
	}
}
