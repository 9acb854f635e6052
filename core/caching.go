package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/snapcal/core/isoweek"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/schema"
)

// currentCacheVersion defines the version of the cached report layout
const currentCacheVersion = 1

// cacheMaxAge is how long a cached report stays valid
const cacheMaxAge = 7 * 24 * time.Hour

// cachedReport returns the report for loaded, from the cache when possible.
// The boolean reports a cache hit.
func cachedReport(ctx context.Context, cfg *contract.Config, loaded *loadResult, store contract.CacheStore) (*schema.Report, bool, error) {
	if store == nil {
		// Fallback to direct computation
		report, err := BuildReport(ctx, cfg, loaded.Facts, loaded.Normalize)
		return report, false, err
	}

	key := generateCacheKey(cfg, loaded.Bundle.Digest)

	// Check for cache hit
	if report := checkCacheHit(store, key, time.Now()); report != nil {
		// Cached reports are keyed by day, so the exact instant comes from the caller
		report.Now = cfg.Now
		return report, true, nil
	}

	// Cache miss: compute and store
	report, err := computeAndStore(ctx, cfg, loaded, store, key)
	return report, false, err
}

// checkCacheHit attempts to retrieve and validate a cached report
func checkCacheHit(store contract.CacheStore, key string, clock time.Time) *schema.Report {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || clock.Sub(time.Unix(ts, 0)) > cacheMaxAge {
		return nil
	}
	var report schema.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}
	return &report
}

// computeAndStore computes the report and stores it in the cache
func computeAndStore(ctx context.Context, cfg *contract.Config, loaded *loadResult, store contract.CacheStore, key string) (*schema.Report, error) {
	report, err := BuildReport(ctx, cfg, loaded.Facts, loaded.Normalize)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(report)
	if err != nil {
		contract.LogWarn("Failed to encode report for caching", err)
		return report, nil
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to cache report", err)
	}
	return report, nil
}

// generateCacheKey creates a unique key from the source digest and every
// parameter that changes the report. The heatmap window is anchored on the
// civil day of cfg.Now.
func generateCacheKey(cfg *contract.Config, digest string) string {
	key := fmt.Sprintf("%s:%s:%s:%s:%s:%s:%d",
		digest,
		cfg.Mode,
		cfg.Month,
		isoweek.Day(cfg.Now).Format(time.DateOnly),
		strings.Join(cfg.Members, ","),
		cfg.Domain,
		currentCacheVersion,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
