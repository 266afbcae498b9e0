// Package orchestration drives evaluation batches: it fans cases out to a
// bounded worker pool, executes the research agent, scores the output, and
// folds the per-case results into a batch outcome.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rigor/internal/config"
	"rigor/internal/docstats"
	"rigor/internal/execution"
	"rigor/internal/metrics"
	"rigor/internal/models"
	"rigor/internal/scoring"
)

// Runner orchestrates the execution of evaluation cases
type Runner struct {
	cfg      config.Batch
	engine   execution.ResearchEngine
	strategy scoring.Strategy
	sink     metrics.Sink

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventBatchStart    EventType = "batch_start"
	EventBatchComplete EventType = "batch_complete"
	EventCaseStart     EventType = "case_start"
	EventCaseComplete  EventType = "case_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType  EventType
	CaseID     string
	CaseNum    int
	TotalCases int
	Status     models.Status
	Score      float64
	DurationMs int64
	ExitCode   int
	ErrorMsg   string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMetricsSink routes per-case measurements to the given sink.
func WithMetricsSink(s metrics.Sink) RunnerOption {
	return func(r *Runner) {
		r.sink = s
	}
}

// NewRunner creates a new batch runner
func NewRunner(cfg config.Batch, engine execution.ResearchEngine, strategy scoring.Strategy, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:       cfg,
		engine:    engine,
		strategy:  strategy,
		sink:      metrics.SlogSink{},
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// RunBatch evaluates the given cases and returns the aggregate outcome.
// A failure inside one case never aborts the batch: the case is recorded
// with StatusError and a zero score, and the remaining cases proceed.
// Loading and selection errors, by contrast, surface before any case runs.
func (r *Runner) RunBatch(ctx context.Context, cases []*models.EvaluationCase) (*models.BatchOutcome, error) {
	if len(cases) == 0 {
		return nil, errors.New("no cases to evaluate")
	}

	startTime := time.Now()

	if err := r.engine.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer func() {
		if err := r.engine.Shutdown(ctx); err != nil {
			slog.WarnContext(ctx, "failed to shutdown engine", "error", err)
		}
	}()

	r.notifyProgress(ProgressEvent{
		EventType:  EventBatchStart,
		TotalCases: len(cases),
	})

	results := make([]models.CaseResult, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for i, c := range cases {
		g.Go(func() error {
			r.notifyProgress(ProgressEvent{
				EventType:  EventCaseStart,
				CaseID:     c.ID,
				CaseNum:    i + 1,
				TotalCases: len(cases),
			})

			result := r.runCase(gctx, c)
			results[i] = result

			r.notifyProgress(ProgressEvent{
				EventType:  EventCaseComplete,
				CaseID:     c.ID,
				CaseNum:    i + 1,
				TotalCases: len(cases),
				Status:     result.Status,
				Score:      result.Score(),
				DurationMs: result.DurationMs,
				ExitCode:   result.ExitCode,
				ErrorMsg:   result.ErrorMsg,
			})

			return nil
		})
	}

	// Workers never return errors; the group is used for its limit and
	// context plumbing only.
	_ = g.Wait()

	outcome := r.buildOutcome(results, startTime)

	r.notifyProgress(ProgressEvent{
		EventType:  EventBatchComplete,
		TotalCases: len(cases),
		DurationMs: outcome.Digest.DurationMs,
	})

	return outcome, nil
}

// runCase executes and scores a single case. All failures are folded into
// the returned CaseResult; this function does not return an error.
func (r *Runner) runCase(ctx context.Context, c *models.EvaluationCase) models.CaseResult {
	start := time.Now()

	result := models.CaseResult{
		CaseID:     c.ID,
		Domain:     c.Domain,
		Difficulty: c.Difficulty,
		Mode:       r.strategy.Mode(),
		Tags:       metrics.CaseTags(c, r.strategy.Mode()),
	}

	out, err := r.engine.Execute(ctx, &execution.ResearchRequest{
		CaseID:     c.ID,
		Hypothesis: c.Hypothesis,
		Context:    c.Context,
		TimeoutSec: r.cfg.TimeoutSec,
	})
	if err != nil {
		return r.erroredResult(ctx, c, result, start, err)
	}

	result.DurationMs = out.DurationMs
	result.ExitCode = out.ExitCode

	jr, err := r.strategy.Score(ctx, c, out)
	if err != nil {
		return r.erroredResult(ctx, c, result, start, err)
	}

	result.Judge = jr
	result.Status = models.StatusFailed
	if jr.Score >= metrics.PassThreshold {
		result.Status = models.StatusPassed
	}

	ms := metrics.Aggregate(c, r.strategy.Mode(), jr)
	ms = append(ms, metrics.DocMeasurements(c, r.strategy.Mode(), docstats.Analyze([]byte(out.Content)))...)
	result.Metrics = make(map[string]float64, len(ms))
	for _, m := range ms {
		result.Metrics[m.Name] = m.Value
	}

	if err := r.sink.Emit(ms); err != nil {
		slog.WarnContext(ctx, "failed to emit metrics", "case", c.ID, "error", err)
	}

	return result
}

// erroredResult fills in the zero-score shape for a case that could not be
// executed or scored. The zero scores still flow to the sink so the failure
// shows up in the tracking system rather than as a gap in the series.
func (r *Runner) erroredResult(ctx context.Context, c *models.EvaluationCase, result models.CaseResult, start time.Time, err error) models.CaseResult {
	result.Status = models.StatusError
	result.ErrorMsg = err.Error()
	result.DurationMs = time.Since(start).Milliseconds()
	result.Judge = &models.JudgeResult{
		Reasoning:  err.Error(),
		Strengths:  []string{},
		Weaknesses: []string{},
	}

	ms := metrics.Aggregate(c, r.strategy.Mode(), result.Judge)
	result.Metrics = make(map[string]float64, len(ms))
	for _, m := range ms {
		result.Metrics[m.Name] = m.Value
	}

	if emitErr := r.sink.Emit(ms); emitErr != nil {
		slog.WarnContext(ctx, "failed to emit metrics", "case", c.ID, "error", emitErr)
	}

	return result
}

func (r *Runner) buildOutcome(results []models.CaseResult, startTime time.Time) *models.BatchOutcome {
	passed := 0
	failed := 0
	errored := 0
	totalScore := 0.0
	minScore := 1.0
	maxScore := 0.0
	scores := make([]float64, 0, len(results))

	for _, cr := range results {
		switch cr.Status {
		case models.StatusPassed:
			passed++
		case models.StatusFailed:
			failed++
		case models.StatusError:
			errored++
		}

		s := cr.Score()
		totalScore += s
		scores = append(scores, s)
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}

	total := len(results)
	passRate := 0.0
	avgScore := 0.0
	if total > 0 {
		passRate = float64(passed) / float64(total)
		avgScore = totalScore / float64(total)
	}

	return &models.BatchOutcome{
		RunID:     uuid.NewString(),
		Timestamp: startTime,
		Mode:      r.strategy.Mode(),
		Digest: models.BatchDigest{
			TotalCases: total,
			Passed:     passed,
			Failed:     failed,
			Errors:     errored,
			PassRate:   passRate,
			AvgScore:   avgScore,
			MinScore:   minScore,
			MaxScore:   maxScore,
			StdDev:     models.ComputeStdDev(scores),
			DurationMs: time.Since(startTime).Milliseconds(),
		},
		Results: results,
	}
}
