// Package core has the orchestration logic: load, normalize, filter, compute, cache, record and write.
package core

import (
	"context"

	"github.com/huangsam/snapcal/core/agg"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/internal/outwriter"
	"github.com/huangsam/snapcal/internal/source"
	"github.com/huangsam/snapcal/schema"
)

// ExecutorFunc defines the function signature for executing the report commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteWeeks prints the per-week initiative and member rankings.
func ExecuteWeeks(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeWeeks(ctx, cfg, source.NewFileLoader(), mgr, outwriter.NewOutWriter())
}

// ExecuteSummary prints the range leaderboards for the month filter,
// or one set of leaderboards per month with --by-month.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeSummary(ctx, cfg, source.NewFileLoader(), mgr, outwriter.NewOutWriter())
}

// ExecuteHeatmap prints the team heatmap and one heatmap per member.
func ExecuteHeatmap(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeHeatmap(ctx, cfg, source.NewFileLoader(), mgr, outwriter.NewOutWriter())
}

// ExecuteReport prints every view of a single pipeline pass.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeReport(ctx, cfg, source.NewFileLoader(), mgr, outwriter.NewOutWriter())
}

// ExecuteSourceCheck prints how many source records normalize into facts and why the rest were skipped.
func ExecuteSourceCheck(ctx context.Context, cfg *contract.Config) error {
	return executeSourceCheck(ctx, cfg, source.NewFileLoader(), outwriter.NewOutWriter())
}

// RunReport computes the report for cfg without printing it. Headers are suppressed.
func RunReport(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader, mgr contract.CacheManager) (*schema.Report, schema.RunStats, error) {
	report, _, stats, err := runReportCore(withSuppressHeader(ctx), cfg, loader, mgr)
	return report, stats, err
}

// RunSummaries computes the range leaderboards for cfg without printing them.
// With cfg.ByMonth there is one entry per month covered by the facts.
func RunSummaries(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader, mgr contract.CacheManager) ([]schema.RangeSummaries, schema.RunStats, error) {
	report, loaded, stats, err := runReportCore(withSuppressHeader(ctx), cfg, loader, mgr)
	if err != nil {
		return nil, stats, err
	}
	return summariesFor(cfg, report, loaded), stats, nil
}

// summariesFor picks the leaderboards asked for by cfg.
func summariesFor(cfg *contract.Config, report *schema.Report, loaded *loadResult) []schema.RangeSummaries {
	if cfg.ByMonth {
		return agg.SummarizeByMonth(agg.FilterByMonth(loaded.Facts, cfg.Month))
	}
	return []schema.RangeSummaries{report.Summary}
}

func executeWeeks(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader, mgr contract.CacheManager, ow *outwriter.OutWriter) error {
	report, _, stats, err := runReportCore(ctx, cfg, loader, mgr)
	if err != nil {
		return err
	}
	return ow.WriteWeeks(report.Weeks, cfg, stats)
}

func executeSummary(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader, mgr contract.CacheManager, ow *outwriter.OutWriter) error {
	report, loaded, stats, err := runReportCore(ctx, cfg, loader, mgr)
	if err != nil {
		return err
	}
	return ow.WriteSummaries(summariesFor(cfg, report, loaded), cfg, stats)
}

func executeHeatmap(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader, mgr contract.CacheManager, ow *outwriter.OutWriter) error {
	report, _, stats, err := runReportCore(ctx, cfg, loader, mgr)
	if err != nil {
		return err
	}
	return ow.WriteHeatmaps(report.TeamHeatmap, report.MemberHeatmaps, cfg, stats)
}

func executeReport(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader, mgr contract.CacheManager, ow *outwriter.OutWriter) error {
	report, _, stats, err := runReportCore(ctx, cfg, loader, mgr)
	if err != nil {
		return err
	}
	return ow.WriteReport(report, cfg, stats)
}

func executeSourceCheck(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader, ow *outwriter.OutWriter) error {
	bundle, err := loader.Load(ctx, cfg.SourcePath)
	if err != nil {
		return err
	}
	_, report := agg.NormalizeBundle(bundle)
	return ow.WriteNormalizeReport(bundle, report, cfg)
}
