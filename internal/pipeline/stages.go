// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/tomtom215/coursepair/internal/export"
	"github.com/tomtom215/coursepair/internal/logging"
	"github.com/tomtom215/coursepair/internal/metrics"
	"github.com/tomtom215/coursepair/internal/quality"
	"github.com/tomtom215/coursepair/internal/recommend"
	"github.com/tomtom215/coursepair/internal/value"
)

func (r *Runner) load(ctx context.Context, res *Result) error {
	purchases, err := r.source.LoadPurchases(ctx)
	if err != nil {
		return fmt.Errorf("load purchases: %w", err)
	}

	res.Purchases = recommend.DescribePurchases(purchases)
	if stats, ok := r.source.(statisticsSource); ok {
		described, err := stats.PurchaseStatistics(ctx)
		if err != nil {
			return fmt.Errorf("purchase statistics: %w", err)
		}
		res.Purchases = described
	}

	res.purchases = purchases

	logging.Ctx(ctx).Info().
		Int("rows", res.Purchases.Rows).
		Int("users", res.Purchases.Users).
		Int("courses", res.Purchases.Courses).
		Time("first_purchase", res.Purchases.FirstPurchase).
		Time("last_purchase", res.Purchases.LastPurchase).
		Float64("mean_courses_per_user", res.Purchases.MeanCoursesPerUser).
		Int("max_courses_per_user", res.Purchases.MaxCoursesPerUser).
		Msg("purchases loaded")

	if len(purchases) == 0 {
		logging.Ctx(ctx).Warn().Msg("no purchases in snapshot, every slot will come from backfill")
	}
	return nil
}

func (r *Runner) aggregate(ctx context.Context, res *Result) error {
	res.Counts = recommend.Aggregate(res.purchases)
	res.Universe = recommend.Universe(res.purchases)
	res.purchases = nil

	logger := logging.Ctx(ctx)
	logger.Info().
		Int("pairs", len(res.Counts)).
		Int("co_purchases", res.Counts.Total()).
		Msg("co-purchase pairs counted")

	for i, p := range res.Counts.Top(r.cfg.Recommend.TopPairs) {
		logger.Info().
			Int("rank", i+1).
			Int64("course1", int64(p.Pair.Low)).
			Int64("course2", int64(p.Pair.High)).
			Int("frequency", p.Frequency).
			Msg("top pair")
	}

	path, err := r.out.PairStats(res.Counts.Sorted())
	if err != nil {
		return err
	}
	r.addFile(res, path)
	return nil
}

func (r *Runner) scoreQuality(ctx context.Context, res *Result) error {
	ms, err := r.provider.Metrics(ctx, res.Universe)
	if err != nil {
		return fmt.Errorf("quality metrics from %s: %w", r.provider.Name(), err)
	}
	res.Metrics = ms
	res.Scores = quality.ScoresOf(ms)

	dist := quality.Distribution(ms)
	event := logging.Ctx(ctx).Info().
		Str("provider", r.provider.Name()).
		Int("courses", dist.Courses).
		Float64("mean", dist.Mean).
		Float64("median", dist.Median).
		Float64("retention_correlation", dist.RetentionCorrelation)
	for _, c := range dist.Categories {
		event = event.Int(string(c.Category), c.Courses)
	}
	event.Msg("quality distribution")

	high, err := quality.CoursesIn(ms, string(quality.CategoryHigh))
	if err != nil {
		return err
	}
	res.HighQuality = high
	logging.Ctx(ctx).Debug().
		Int("courses", len(high)).
		Float64("min_score", quality.HighThreshold).
		Msg("high quality courses")

	if missing := len(res.Universe) - len(ms); missing > 0 {
		logging.Ctx(ctx).Warn().
			Int("courses", missing).
			Float64("default_quality", recommend.DefaultQuality).
			Msg("courses without a quality score use the default")
	}

	path, err := r.out.QualityMetrics(ms)
	if err != nil {
		return err
	}
	r.addFile(res, path)
	return nil
}

func (r *Runner) buildIndex(ctx context.Context, res *Result) error {
	idx, err := recommend.BuildIndex(res.Counts, res.Scores, r.cfg.Recommend.Threshold)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	res.Index = idx

	for _, c := range res.Universe {
		if !idx.Contains(c) {
			res.Unindexed = append(res.Unindexed, c)
		}
	}

	metrics.RecordIndex(len(res.Universe), len(res.Counts), idx.Pairs(), idx.EdgeCount())
	logging.Ctx(ctx).Info().
		Int("threshold", idx.Threshold()).
		Int("pairs", idx.Pairs()).
		Int("courses", idx.Len()).
		Int("edges", idx.EdgeCount()).
		Int("unindexed", len(res.Unindexed)).
		Msg("recommendation index built")
	return nil
}

// report resolves one batch per min quality. Each batch gets a fresh
// resolver seeded from configuration so its backfill does not depend on
// the batches before it.
func (r *Runner) report(ctx context.Context, res *Result) error {
	n := r.cfg.Recommend.N
	for _, minQuality := range r.cfg.Recommend.MinQualities {
		if err := ctx.Err(); err != nil {
			return err
		}

		resolver := recommend.NewResolver(res.Index, res.Scores, res.Universe,
			recommend.WithSeed(r.cfg.Recommend.Seed))
		rep, err := resolver.ReportAll(res.Universe, n, minQuality)
		if err != nil {
			return fmt.Errorf("report min quality %v: %w", minQuality, err)
		}
		res.Reports = append(res.Reports, rep)
		metrics.RecordReport(minQuality, rep.Stats)

		event := logging.Ctx(ctx).Info().
			Float64("min_quality", minQuality).
			Int("courses", rep.Stats.TotalCourses).
			Int("with_recommendations", rep.Stats.CoursesWithRecommendations).
			Float64("coverage_percent", rep.Stats.CoveragePercent).
			Int("backfilled", rep.Stats.BackfilledSlots).
			Int("sentinels", rep.Stats.SentinelSlots).
			Ints("histogram", rep.Stats.Histogram)
		if rep.Stats.HasMeanQuality {
			event = event.Float64("mean_recommended_quality", rep.Stats.MeanRecommendedQuality)
		}
		event.Msg("recommendations resolved")

		path, err := r.out.Recommendations(rep)
		if err != nil {
			return err
		}
		r.addFile(res, path)
	}

	path, err := r.out.FinalRecommendations(res.Final())
	if err != nil {
		return err
	}
	r.addFile(res, path)
	return nil
}

func (r *Runner) valueAnalytics(ctx context.Context, res *Result) error {
	vc := r.cfg.Value
	logger := logging.Ctx(ctx)

	scenarios, err := value.Scenarios(vc.Scenario)
	if err != nil {
		return err
	}
	res.Scenarios = scenarios
	for _, s := range scenarios {
		logger.Info().
			Str("scenario", s.Name).
			Float64("ltv", s.LTV).
			Float64("growth_percent", s.GrowthPercent).
			Msg("ltv scenario")
	}

	ab, err := value.SimulateABTest(vc.AB, recommend.NewRand(vc.ABSeed))
	if err != nil {
		return err
	}
	res.ABTest = ab
	for _, g := range ab.Groups {
		event := logger.Info().
			Str("group", g.Name).
			Int("users", g.Users).
			Int("conversions", g.Conversions).
			Float64("conversion_rate", g.ConversionRate)
		if g.ComparedTo != "" {
			event = event.
				Str("compared_to", g.ComparedTo).
				Float64("p_value", g.PValue).
				Bool("significant", g.Significant)
		}
		event.Msg("a/b group")
	}

	roi, err := value.ROI(vc.ROI)
	if err != nil {
		return err
	}
	res.ROI = roi
	logger.Info().
		Float64("roi_percent", roi.ROIPercent).
		Float64("payback_months", roi.PaybackMonths).
		Float64("net_profit", roi.NetProfit).
		Msg("return on investment")

	for _, write := range []func() (string, error){
		func() (string, error) { return r.out.LTVScenarios(scenarios) },
		func() (string, error) { return r.out.ABTest(ab) },
	} {
		path, err := write()
		if err != nil {
			return err
		}
		r.addFile(res, path)
	}
	return nil
}

func (r *Runner) summarize(_ context.Context, res *Result) error {
	top := res.Counts.Top(r.cfg.Recommend.TopPairs)
	s := &export.Summary{
		RunID:           res.RunID,
		GeneratedAt:     r.now().UTC(),
		Source:          r.source.Name(),
		QualityProvider: r.provider.Name(),
		Purchases:       res.Purchases,
		Pairs: export.PairSummary{
			Counted:        len(res.Counts),
			Threshold:      res.Index.Threshold(),
			Indexed:        res.Index.Pairs(),
			IndexedCourses: res.Index.Len(),
			Edges:          res.Index.EdgeCount(),
			Top:            top,
		},
		Quality: quality.Distribution(res.Metrics),
		LTV:     res.Scenarios,
		ABTest:  res.ABTest,
		ROI:     export.NewROISummary(r.cfg.Value.ROI, res.ROI),
	}
	for _, rep := range res.Reports {
		s.Reports = append(s.Reports, export.ReportSummary{
			MinQuality: rep.MinQuality,
			N:          rep.N,
			File:       export.RecommendationsFile(rep.MinQuality),
			Stats:      rep.Stats,
		})
	}
	for _, f := range res.Files {
		s.Files = append(s.Files, filepath.Base(f))
	}
	res.Summary = s

	jsonPath, err := r.out.JSON(s)
	if err != nil {
		return err
	}
	textPath, err := r.out.Report(s)
	if err != nil {
		return err
	}
	r.addFile(res, jsonPath)
	r.addFile(res, textPath)
	return nil
}
