package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/schema"
)

// Table names for run history.
const (
	reportRunsTable   = "snapcal_report_runs"
	heatmapCellsTable = "snapcal_heatmap_cells"
)

// historyTables lists the history tables in creation order.
var historyTables = []string{reportRunsTable, heatmapCellsTable}

// HistoryStoreImpl implements the HistoryStore interface on the SQL backends.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	switch backend {
	case schema.NoneBackend:
		return &HistoryStoreImpl{backend: backend}, nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", backend)
	}

	db, err := openSQL(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the run history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	queries := map[string]string{
		reportRunsTable:   getCreateReportRunsQuery(backend),
		heatmapCellsTable: getCreateHeatmapCellsQuery(backend),
	}
	for _, table := range historyTables {
		if _, err := db.Exec(queries[table]); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// getCreateReportRunsQuery returns the CREATE TABLE query for snapcal_report_runs.
func getCreateReportRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(reportRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid CHAR(36) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_facts INT NOT NULL DEFAULT 0,
				skipped_records INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_facts INT NOT NULL DEFAULT 0,
				skipped_records INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_facts INTEGER NOT NULL DEFAULT 0,
				skipped_records INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateHeatmapCellsQuery returns the CREATE TABLE query for snapcal_heatmap_cells.
func getCreateHeatmapCellsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(heatmapCellsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				scope VARCHAR(16) NOT NULL,
				member VARCHAR(255) NOT NULL,
				week_key CHAR(8) NOT NULL,
				week_start DATETIME(6) NOT NULL,
				cell_value INT NOT NULL,
				cell_level INT NOT NULL,
				PRIMARY KEY (run_id, scope, member, week_key)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				scope TEXT NOT NULL,
				member TEXT NOT NULL,
				week_key TEXT NOT NULL,
				week_start TIMESTAMPTZ NOT NULL,
				cell_value INT NOT NULL,
				cell_level INT NOT NULL,
				PRIMARY KEY (run_id, scope, member, week_key)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				scope TEXT NOT NULL,
				member TEXT NOT NULL,
				week_key TEXT NOT NULL,
				week_start TEXT NOT NULL,
				cell_value INTEGER NOT NULL,
				cell_level INTEGER NOT NULL,
				PRIMARY KEY (run_id, scope, member, week_key)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new report run and returns its ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, params schema.RunParams) (int64, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal run params: %w", err)
	}

	quotedTableName := quoteTableName(reportRunsTable, hs.backend)
	runUUID := uuid.NewString()

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, runUUID, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, runUUID, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert report run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalFacts, skippedRecords int) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(reportRunsTable, hs.backend)
	row := hs.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholders(hs.backend, 1)), runID)
	startTime, err := hs.scanTime(row)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	var query string
	if hs.backend == schema.PostgreSQLBackend {
		query = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_facts = $3, skipped_records = $4 WHERE run_id = $5`, quotedTableName)
	} else {
		query = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_facts = ?, skipped_records = ? WHERE run_id = ?`, quotedTableName)
	}
	if _, err := hs.db.Exec(query, formatTime(endTime, hs.backend), durationMs, totalFacts, skippedRecords, runID); err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}
	return nil
}

// RecordHeatmap stores one heatmap row in a single transaction.
func (hs *HistoryStoreImpl) RecordHeatmap(runID int64, scope, member string, cells []schema.HeatmapCell) error {
	if hs.backend == schema.NoneBackend || hs.db == nil || len(cells) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, scope, member, week_key, week_start, cell_value, cell_level) VALUES (%s)`,
		quoteTableName(heatmapCellsTable, hs.backend), placeholders(hs.backend, 7))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin heatmap transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare heatmap insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, cell := range cells {
		if _, err := stmt.Exec(runID, scope, member, cell.WeekKey.String(), formatTime(cell.Start, hs.backend), cell.Value, cell.Level); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert heatmap cell %s: %w", cell.WeekKey, err)
		}
	}
	return tx.Commit()
}

// scanTime reads one timestamp column, decoding the SQLite text form when needed.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return parseTime(s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runs := quoteTableName(reportRunsTable, hs.backend)
	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COALESCE(SUM(total_facts), 0) FROM %s", runs))
	if err := row.Scan(&status.TotalRuns, &status.TotalFactsSeen); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row = hs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}
		lastRunTime, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs)))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		oldestRunTime, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.LastRunTime = lastRunTime
		status.OldestRunTime = oldestRunTime
	}

	for _, table := range historyTables {
		var count int64
		row = hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalCellsSaved = int(status.TableSizes[heatmapCellsTable])

	return status, nil
}

// GetAllRuns retrieves all report runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ReportRunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, start_time, end_time, run_duration_ms, total_facts, skipped_records, config_params
		FROM %s ORDER BY run_id`, quoteTableName(reportRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var record schema.ReportRunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr *string
			if err := rows.Scan(&record.RunID, &record.RunUUID, &startStr, &endStr, &record.RunDurationMs,
				&record.TotalFacts, &record.SkippedRecords, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
			if record.StartTime, err = parseTime(startStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endStr != nil {
				endTime, err := parseTime(*endStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.RunUUID, &record.StartTime, &record.EndTime, &record.RunDurationMs,
				&record.TotalFacts, &record.SkippedRecords, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
		}

		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}

// GetAllHeatmapCells retrieves all heatmap cells from the store.
func (hs *HistoryStoreImpl) GetAllHeatmapCells() ([]schema.HeatmapCellRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, scope, member, week_key, week_start, cell_value, cell_level
		FROM %s ORDER BY run_id, scope, member, week_key`, quoteTableName(heatmapCellsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query heatmap cells: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HeatmapCellRecord
	for rows.Next() {
		var record schema.HeatmapCellRecord

		if hs.backend == schema.SQLiteBackend {
			var startStr string
			if err := rows.Scan(&record.RunID, &record.Scope, &record.Member, &record.WeekKey, &startStr,
				&record.Value, &record.Level); err != nil {
				return nil, fmt.Errorf("failed to scan heatmap cell: %w", err)
			}
			if record.WeekStart, err = parseTime(startStr); err != nil {
				return nil, fmt.Errorf("failed to parse week_start: %w", err)
			}
		} else if err := rows.Scan(&record.RunID, &record.Scope, &record.Member, &record.WeekKey, &record.WeekStart,
			&record.Value, &record.Level); err != nil {
			return nil, fmt.Errorf("failed to scan heatmap cell: %w", err)
		}

		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating heatmap cells: %w", err)
	}
	return results, nil
}
