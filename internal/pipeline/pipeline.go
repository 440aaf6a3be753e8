// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

// Package pipeline runs one batch end to end: load purchases, count pairs,
// score course quality, build the index, resolve recommendations at each
// configured min quality, compute the value analytics and export
// everything.
//
// A Runner is built once per process and may run more than once; each run
// gets its own run id and random sources seeded from configuration, so
// repeated runs over the same snapshot produce identical files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/coursepair/internal/config"
	"github.com/tomtom215/coursepair/internal/export"
	"github.com/tomtom215/coursepair/internal/logging"
	"github.com/tomtom215/coursepair/internal/metrics"
	"github.com/tomtom215/coursepair/internal/quality"
	"github.com/tomtom215/coursepair/internal/recommend"
	"github.com/tomtom215/coursepair/internal/value"
)

// PurchaseSource loads the purchase snapshot a run works on.
type PurchaseSource interface {
	LoadPurchases(ctx context.Context) ([]recommend.Purchase, error)
	Name() string
}

// statisticsSource is implemented by sources that can describe purchases
// without a round trip of every row.
type statisticsSource interface {
	PurchaseStatistics(ctx context.Context) (recommend.PurchaseStats, error)
}

// Stage names, used for logs and the stage duration metric.
const (
	StageLoad      = "load"
	StageAggregate = "aggregate"
	StageQuality   = "quality"
	StageIndex     = "index"
	StageReport    = "report"
	StageValue     = "value"
	StageSummary   = "summary"
)

// ErrNoMinQuality is returned when no report floor is configured.
var ErrNoMinQuality = errors.New("at least one min quality is required")

// Runner executes batch runs.
type Runner struct {
	cfg      *config.Config
	source   PurchaseSource
	provider quality.Provider
	out      *export.Writer
	now      func() time.Time

	mu   sync.Mutex
	last *Result
}

// Option configures a Runner.
type Option func(*Runner)

// WithQualityProvider overrides the provider selected from configuration.
func WithQualityProvider(p quality.Provider) Option {
	return func(r *Runner) {
		r.provider = p
	}
}

// WithWriter overrides the export writer for cfg.Output.Dir.
func WithWriter(w *export.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithClock sets the clock used for the summary timestamp.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// New creates a Runner over source.
func New(cfg *config.Config, source PurchaseSource, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if source == nil {
		return nil, errors.New("purchase source is required")
	}
	if len(cfg.Recommend.MinQualities) == 0 {
		return nil, ErrNoMinQuality
	}

	r := &Runner{
		cfg:    cfg,
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.provider == nil {
		p, err := NewQualityProvider(cfg.Quality, source)
		if err != nil {
			return nil, err
		}
		r.provider = p
	}
	if r.out == nil {
		w, err := export.New(cfg.Output.Dir)
		if err != nil {
			return nil, err
		}
		r.out = w
	}
	return r, nil
}

// NewQualityProvider selects the provider named in cfg. The table provider
// needs a source that can load stored quality scores.
func NewQualityProvider(cfg config.QualityConfig, source PurchaseSource) (quality.Provider, error) {
	switch cfg.Provider {
	case "", config.QualitySynthetic:
		return quality.NewSyntheticProvider(cfg.Seed), nil
	case config.QualityTable:
		scores, ok := source.(quality.ScoreSource)
		if !ok {
			return nil, fmt.Errorf("quality provider %q: source %s has no quality table", cfg.Provider, source.Name())
		}
		return quality.NewTableProvider(scores), nil
	default:
		return nil, fmt.Errorf("unknown quality provider %q", cfg.Provider)
	}
}

// Result is everything one run produced.
type Result struct {
	RunID     string
	Purchases recommend.PurchaseStats
	Counts    recommend.PairCounts
	Universe  []recommend.CourseID
	Metrics   []quality.Metrics
	Scores    recommend.QualityScores
	Index     *recommend.Index

	// HighQuality lists the courses in the high quality category.
	HighQuality []recommend.CourseID

	// Unindexed lists the known courses with no edge above the threshold.
	// Their slots come from backfill only.
	Unindexed []recommend.CourseID

	// Reports holds one report per configured min quality, in order.
	Reports []*recommend.Report

	Scenarios []value.Scenario
	ABTest    *value.ABResult
	ROI       value.ROIResult

	Summary *export.Summary
	Files   []string

	purchases []recommend.Purchase
}

// Final returns the report written as the final recommendation table.
func (res *Result) Final() *recommend.Report {
	if res == nil || len(res.Reports) == 0 {
		return nil
	}
	return res.Reports[len(res.Reports)-1]
}

// Lookup returns the final recommendation record for course.
func (res *Result) Lookup(course recommend.CourseID) (recommend.Record, bool) {
	final := res.Final()
	if final == nil {
		return recommend.Record{}, false
	}
	return final.Lookup(course)
}

// Last returns the result of the most recent successful run, or nil.
func (r *Runner) Last() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// RunOnce runs the batch and keeps the result for Last.
func (r *Runner) RunOnce(ctx context.Context) error {
	_, err := r.Run(ctx)
	return err
}

// Run executes one batch. The run id already in ctx is reused; otherwise
// a new one is generated.
func (r *Runner) Run(ctx context.Context) (res *Result, err error) {
	if logging.RunIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewRunID(ctx)
	}
	runID := logging.RunIDFromContext(ctx)
	logger := logging.Ctx(ctx)

	start := time.Now()
	defer func() {
		metrics.RecordRun(err)
		if err != nil {
			logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("batch run failed")
			return
		}
		logger.Info().
			Dur("duration", time.Since(start)).
			Int("files", len(res.Files)).
			Str("output_dir", r.out.Dir()).
			Msg("batch run complete")
	}()

	logger.Info().
		Str("source", r.source.Name()).
		Str("quality_provider", r.provider.Name()).
		Int("threshold", r.cfg.Recommend.Threshold).
		Int("n", r.cfg.Recommend.N).
		Msg("batch run starting")

	res = &Result{RunID: runID}
	steps := []struct {
		stage string
		fn    func(context.Context, *Result) error
	}{
		{StageLoad, r.load},
		{StageAggregate, r.aggregate},
		{StageQuality, r.scoreQuality},
		{StageIndex, r.buildIndex},
		{StageReport, r.report},
		{StageValue, r.valueAnalytics},
		{StageSummary, r.summarize},
	}
	for _, step := range steps {
		if err := r.stage(ctx, step.stage, res, step.fn); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.last = res
	r.mu.Unlock()
	return res, nil
}

// stage runs fn, timing it and checking for cancellation first.
func (r *Runner) stage(ctx context.Context, name string, res *Result, fn func(context.Context, *Result) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	start := time.Now()
	err := fn(ctx, res)
	elapsed := time.Since(start)
	metrics.RecordStage(name, elapsed)

	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	logging.Ctx(ctx).Debug().Str("stage", name).Dur("duration", elapsed).Msg("stage complete")
	return nil
}

func (r *Runner) addFile(res *Result, path string) {
	res.Files = append(res.Files, path)
}
