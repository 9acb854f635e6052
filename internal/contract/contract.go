// Package contract provides interfaces and shared utilities for the snapcal internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/snapcal/schema"
)

// Sentinel errors shared by the orchestration layer and its adapters.
var (
	// ErrNoSource is returned when a command needs a source file and none was given.
	ErrNoSource = errors.New("no source file given, use --source or SNAPCAL_SOURCE")

	// ErrEmptySource is returned when a source file decodes to zero records.
	ErrEmptySource = errors.New("source contains no records")

	// ErrNoFacts is returned when filtering leaves no facts to aggregate.
	ErrNoFacts = errors.New("no facts left after normalization and filters")
)

// SourceLoader reads upstream weekly records from some location.
// This allows the orchestration layer to be tested without real files.
type SourceLoader interface {
	Load(ctx context.Context, path string) (*schema.SourceBundle, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetReportStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking report runs and their heatmaps.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, params schema.RunParams) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalFacts, skippedRecords int) error

	// RecordHeatmap stores the cells of one heatmap row
	RecordHeatmap(runID int64, scope, member string, cells []schema.HeatmapCell) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by run ID
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllHeatmapCells returns every recorded heatmap cell ordered by run, scope, member and week
	GetAllHeatmapCells() ([]schema.HeatmapCellRecord, error)

	// Close closes the underlying connection
	Close() error
}
