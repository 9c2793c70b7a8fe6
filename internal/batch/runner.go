// Package batch runs independent playback sessions concurrently.
//
// Every job gets its own Engine and therefore its own Strategy instance, so
// jobs share nothing but the optional Tracker. Results come back in job order
// regardless of completion order.
package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mrjaywilson/QOE-Core/internal/logging"
	"github.com/mrjaywilson/QOE-Core/internal/playback"
	"github.com/mrjaywilson/QOE-Core/internal/qoe"
)

// DefaultParallel is the concurrency used when none is configured.
const DefaultParallel = 4

// Job is one session to simulate.
type Job struct {
	Name    string
	Config  playback.SessionConfig
	Samples []float64
}

// Result is the outcome of one Job.
type Result struct {
	ID       string
	Name     string
	Strategy string
	Records  []playback.Record
	Score    qoe.Score
	Summary  *qoe.Summary
	Err      error
}

// SessionTracker receives the records and outcome of one session.
type SessionTracker interface {
	playback.Observer
	RecordScore(score qoe.Score)
	RecordFailure()
}

// TrackerFunc creates a SessionTracker for a session. It may be called
// from several goroutines at once.
type TrackerFunc func(sessionID, strategy string) SessionTracker

// Runner executes jobs with bounded concurrency.
type Runner struct {
	parallel int
	logger   *slog.Logger
	tracker  TrackerFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithParallel bounds the number of sessions simulated at once.
func WithParallel(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.parallel = n
		}
	}
}

// WithLogger sets the logger used for session lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracker attaches a tracker, typically the metrics collector, to every session.
func WithTracker(f TrackerFunc) Option {
	return func(r *Runner) {
		r.tracker = f
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		parallel: DefaultParallel,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run simulates every job and returns one Result per job, in job order.
//
// A failing job does not stop the others; its error is in Result.Err.
// Cancelling ctx stops scheduling: jobs not yet started get ctx.Err() as
// their error and Run returns ctx.Err(). Sessions already running finish.
// A cancellation that arrives after every job was started is not an error.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)

	var cancelErr error
	for i, job := range jobs {
		if err := gctx.Err(); err != nil {
			cancelErr = err
			for j := i; j < len(jobs); j++ {
				results[j] = Result{Name: jobs[j].Name, Strategy: strategyName(jobs[j]), Err: err}
			}
			break
		}

		g.Go(func() error {
			results[i] = r.runOne(job)
			return nil
		})
	}

	_ = g.Wait()

	return results, cancelErr
}

// RunOne simulates a single job synchronously.
func (r *Runner) RunOne(job Job) Result {
	return r.runOne(job)
}

func (r *Runner) runOne(job Job) Result {
	res := Result{
		ID:       uuid.NewString(),
		Name:     job.Name,
		Strategy: strategyName(job),
	}

	sessionLog := logging.NewSessionLogger(r.logger,
		"session_id", res.ID,
		"job", job.Name,
		"strategy", res.Strategy,
	)
	observers := []playback.Observer{sessionLog}

	var tracker SessionTracker
	if r.tracker != nil {
		tracker = r.tracker(res.ID, res.Strategy)
		observers = append(observers, tracker)
	}

	fail := func(err error) Result {
		res.Err = err
		sessionLog.Failed(err)
		if tracker != nil {
			tracker.RecordFailure()
		}
		return res
	}

	engine, err := playback.NewEngine(job.Config, observers...)
	if err != nil {
		return fail(err)
	}

	sessionLog.Started(engine.Config(), len(job.Samples))
	records, err := engine.Run(job.Samples)
	if err != nil {
		return fail(fmt.Errorf("simulate %s: %w", job.Name, err))
	}
	res.Records = records

	score, err := qoe.Evaluate(records)
	if err != nil {
		return fail(fmt.Errorf("evaluate %s: %w", job.Name, err))
	}
	res.Score = score

	summary, err := qoe.Summarize(records, job.Config.SegmentDuration)
	if err == nil {
		res.Summary = &summary
	}

	sessionLog.Completed(score)
	if tracker != nil {
		tracker.RecordScore(score)
	}
	return res
}

func strategyName(job Job) string {
	return job.Config.Strategy.Kind.String()
}
