package schema

// Custom string types for type safety.
type (
	// Dimension represents the grouping dimension used for ranking.
	Dimension string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// SkipReason represents why the normalizer dropped a source record.
	SkipReason string
)

// All grouping dimensions supported.
const (
	ProjectDimension Dimension = "project" // default
	ModuleDimension  Dimension = "module"
	FeatureDimension Dimension = "feature"
	MemberDimension  Dimension = "member"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis"
	NoneBackend       DatabaseBackend = "none"
)

// Reasons a source record can be skipped during normalization.
const (
	SkipMissingMember SkipReason = "missing_member"
	SkipMissingWeek   SkipReason = "missing_week"
	SkipBadProgress   SkipReason = "bad_progress"
	SkipMalformed     SkipReason = "malformed_record"
)

// Heatmap window and level bounds.
const (
	HeatmapWeeks = 52
	MaxHeatLevel = 4
)

// Task progress bounds. A task is done at MaxProgress.
const (
	MinProgress = 0
	MaxProgress = 100
)

// UnassignedName is the display name used when a fact carries no value for a dimension.
const UnassignedName = "(unassigned)"

// AllInitiativeDimensions lists the dimensions an initiative can be grouped by.
var AllInitiativeDimensions = []Dimension{ProjectDimension, ModuleDimension, FeatureDimension}

// ValidInitiativeDimensions lists the dimensions accepted for per-week initiative rankings.
var ValidInitiativeDimensions = map[Dimension]struct{}{
	ProjectDimension: {},
	ModuleDimension:  {},
	FeatureDimension: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}

// ValidHistoryBackends lists the backends that can hold run history.
// Redis is a cache-only backend.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
