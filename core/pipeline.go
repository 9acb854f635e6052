package core

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/snapcal/core/agg"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/schema"
	"golang.org/x/sync/errgroup"
)

// loadResult is a decoded source together with the facts kept after filtering.
type loadResult struct {
	Bundle    *schema.SourceBundle
	Facts     []schema.RawSnapshot
	Normalize schema.NormalizeReport
}

// loadFacts reads the configured source, normalizes it and applies the member and domain filters.
func loadFacts(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader) (*loadResult, error) {
	bundle, err := loader.Load(ctx, cfg.SourcePath)
	if err != nil {
		return nil, err
	}
	facts, report := agg.NormalizeBundle(bundle)
	facts = FilterFacts(facts, cfg.Members, cfg.Domain)
	if len(facts) == 0 {
		return nil, contract.ErrNoFacts
	}
	return &loadResult{Bundle: bundle, Facts: facts, Normalize: report}, nil
}

// FilterFacts keeps the facts of the given members in the given domain.
// Members and domain are name keys; empty values keep everything.
func FilterFacts(facts []schema.RawSnapshot, members []string, domain string) []schema.RawSnapshot {
	if len(members) == 0 && domain == "" {
		return facts
	}
	out := make([]schema.RawSnapshot, 0, len(facts))
	for _, f := range facts {
		if len(members) > 0 && !slices.Contains(members, schema.NameKey(f.MemberName)) {
			continue
		}
		if domain != "" && schema.NameKey(f.Domain) != domain {
			continue
		}
		out = append(out, f)
	}
	return out
}

// BuildReport runs both engine branches over facts. The week branch and the
// two heatmap branches run concurrently, bounded by cfg.Workers.
func BuildReport(ctx context.Context, cfg *contract.Config, facts []schema.RawSnapshot, normalize schema.NormalizeReport) (*schema.Report, error) {
	report := &schema.Report{
		Now:       cfg.Now,
		Mode:      cfg.Mode,
		Month:     cfg.Month,
		Normalize: normalize,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		report.Weeks = agg.AggregateByWeek(agg.FilterByMonth(facts, cfg.Month), cfg.Mode)
		report.Summary = agg.SummarizeRange(facts, cfg.Month)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		report.TeamHeatmap = agg.BuildTeamHeatmap(facts, cfg.Now)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		report.MemberHeatmaps = agg.BuildMemberHeatmaps(facts, cfg.Now)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	return report, nil
}

// runReportCore performs the common load, compute, cache and record steps shared by every command.
func runReportCore(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader, mgr contract.CacheManager) (*schema.Report, *loadResult, schema.RunStats, error) {
	start := time.Now()

	if !shouldSuppressHeader(ctx) {
		logReportHeader(cfg)
	}

	// --- 1. Load and filter facts ---
	loaded, err := loadFacts(ctx, cfg, loader)
	if err != nil {
		return nil, nil, schema.RunStats{}, err
	}
	if loaded.Normalize.Skipped > 0 {
		contract.LogWarn("Skipped malformed source records", fmt.Errorf("%d of %d", loaded.Normalize.Skipped, loaded.Normalize.Records))
	}

	// --- 2. Begin run tracking (if configured) ---
	history := historyStore(mgr)
	if history != nil {
		ctx = beginRun(ctx, cfg, history, start)
	}

	// --- 3. Compute the report (with caching) ---
	report, hit, err := cachedReport(ctx, cfg, loaded, reportStore(mgr))
	if err != nil {
		return nil, nil, schema.RunStats{}, err
	}

	// --- 4. Record heatmaps and end run tracking ---
	if history != nil {
		recordRun(ctx, history, report, loaded)
	}

	stats := schema.RunStats{
		Duration:     time.Since(start),
		Facts:        len(loaded.Facts),
		Skipped:      loaded.Normalize.Skipped,
		CacheHit:     hit,
		CacheBackend: cfg.CacheBackend,
	}
	return report, loaded, stats, nil
}

// reportStore returns the cache store of mgr, tolerating a nil manager.
func reportStore(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetReportStore()
}

// historyStore returns the history store of mgr, tolerating a nil manager.
func historyStore(mgr contract.CacheManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}

// beginRun opens a history run and stores its ID in the context.
func beginRun(ctx context.Context, cfg *contract.Config, history contract.HistoryStore, start time.Time) context.Context {
	params := schema.RunParams{
		Source:  cfg.SourcePath,
		Mode:    cfg.Mode,
		Month:   cfg.Month.String(),
		Now:     cfg.Now,
		Members: cfg.Members,
		Domain:  cfg.Domain,
	}
	runID, err := history.BeginRun(start, params)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// recordRun stores the heatmaps of report under the run in ctx and closes the run.
func recordRun(ctx context.Context, history contract.HistoryStore, report *schema.Report, loaded *loadResult) {
	runID, ok := getRunID(ctx)
	if !ok {
		return
	}
	if err := history.RecordHeatmap(runID, schema.TeamScope, "", report.TeamHeatmap); err != nil {
		contract.LogWarn("Failed to record team heatmap", err)
	}
	for _, row := range report.MemberHeatmaps {
		if err := history.RecordHeatmap(runID, schema.MemberScope, row.Member, row.Cells); err != nil {
			contract.LogWarn("Failed to record heatmap for "+row.Member, err)
		}
	}
	if err := history.EndRun(runID, time.Now(), len(loaded.Facts), loaded.Normalize.Skipped); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// logReportHeader prints what is about to be computed on stderr.
func logReportHeader(cfg *contract.Config) {
	if cfg.Output != schema.TextOut && cfg.Output != "" {
		return
	}
	who := "everyone"
	if len(cfg.Members) > 0 {
		who = schema.FormatMembers(cfg.Members)
	}
	contract.LogInfo("Aggregating %s by %s for %s (month: %s, as of %s)",
		cfg.SourcePath, cfg.Mode, who, cfg.Month, cfg.Now.Format(time.DateOnly))
}
