package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/capacity-dashboard-tui/internal/logger"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	timeLayout,
	"2006-01-02T15:04:05",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func scanTime(ns sql.NullString) time.Time {
	if !ns.Valid || ns.String == "" {
		return time.Time{}
	}
	t, _ := parseTimeString(ns.String)
	return t
}

// InsertLoadEvent records a dataset load attempt.
func (db *DB) InsertLoadEvent(event *models.LoadEvent) error {
	query := `
		INSERT INTO load_events (
			session_id, path, mod_time, row_count, dropped_count, error, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var modTime sql.NullString
	if !event.ModTime.IsZero() {
		modTime = nullString(formatTime(event.ModTime))
	}

	result, err := db.ExecContext(context.Background(), query,
		event.SessionID,
		event.Path,
		modTime,
		event.Rows,
		event.Dropped,
		nullString(event.Error),
		formatTime(timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to insert load event: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		event.ID = id
	}

	return nil
}

// GetRecentLoadEvents returns the most recent load attempts, newest first.
func (db *DB) GetRecentLoadEvents(limit int) ([]models.LoadEvent, error) {
	query := `
		SELECT id, session_id, path, mod_time, row_count, dropped_count, error, timestamp
		FROM load_events
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query load events: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var events []models.LoadEvent
	for rows.Next() {
		var e models.LoadEvent
		var modTime, errStr, timestamp sql.NullString

		err := rows.Scan(
			&e.ID,
			&e.SessionID,
			&e.Path,
			&modTime,
			&e.Rows,
			&e.Dropped,
			&errStr,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load event: %w", err)
		}

		e.ModTime = scanTime(modTime)
		e.Error = errStr.String
		e.Timestamp = scanTime(timestamp)
		events = append(events, e)
	}

	return events, rows.Err()
}

// SaveFilterSnapshot persists a selection for its data file.
func (db *DB) SaveFilterSnapshot(snap *models.FilterSnapshot) error {
	query := `
		INSERT INTO filter_snapshots (
			session_id, data_path, mode, providers, sites, min_hour, max_hour, metric, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := snap.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	sel := snap.Selection
	result, err := db.ExecContext(context.Background(), query,
		snap.SessionID,
		snap.DataPath,
		sel.Mode.Slug(),
		joinCodes(sel.Providers),
		joinCodes(sel.Sites),
		sel.Hours.Min,
		sel.Hours.Max,
		string(sel.Metric),
		formatTime(timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to save filter snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		snap.ID = id
	}

	return nil
}

// GetLastFilterSnapshot returns the newest snapshot for dataPath, or nil
// when none was saved.
func (db *DB) GetLastFilterSnapshot(dataPath string) (*models.FilterSnapshot, error) {
	query := `
		SELECT id, session_id, data_path, mode, providers, sites, min_hour, max_hour, metric, timestamp
		FROM filter_snapshots
		WHERE data_path = ?
		ORDER BY id DESC
		LIMIT 1
	`

	var snap models.FilterSnapshot
	var mode, metric string
	var providers, sites, timestamp sql.NullString
	err := db.QueryRowContext(context.Background(), query, dataPath).Scan(
		&snap.ID,
		&snap.SessionID,
		&snap.DataPath,
		&mode,
		&providers,
		&sites,
		&snap.Selection.Hours.Min,
		&snap.Selection.Hours.Max,
		&metric,
		&timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filter snapshot: %w", err)
	}

	if snap.Selection.Mode, err = models.ParseFilterMode(mode); err != nil {
		return nil, fmt.Errorf("failed to decode filter snapshot: %w", err)
	}
	if snap.Selection.Metric, err = models.ParseMetric(metric); err != nil {
		return nil, fmt.Errorf("failed to decode filter snapshot: %w", err)
	}
	if snap.Selection.Providers, err = splitCodes(providers.String); err != nil {
		return nil, fmt.Errorf("failed to decode filter snapshot: %w", err)
	}
	if snap.Selection.Sites, err = splitCodes(sites.String); err != nil {
		return nil, fmt.Errorf("failed to decode filter snapshot: %w", err)
	}
	snap.Timestamp = scanTime(timestamp)

	return &snap, nil
}

// PruneFilterSnapshots keeps only the newest keep snapshots for dataPath.
func (db *DB) PruneFilterSnapshots(dataPath string, keep int) (int64, error) {
	query := `
		DELETE FROM filter_snapshots
		WHERE data_path = ? AND id NOT IN (
			SELECT id FROM filter_snapshots WHERE data_path = ? ORDER BY id DESC LIMIT ?
		)
	`

	result, err := db.ExecContext(context.Background(), query, dataPath, dataPath, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune filter snapshots: %w", err)
	}
	return result.RowsAffected()
}

// InsertSessionEvent records a session lifecycle event.
func (db *DB) InsertSessionEvent(event *models.SessionEvent) error {
	query := `
		INSERT INTO session_events (session_id, event_type, metadata, timestamp)
		VALUES (?, ?, ?, ?)
	`

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	result, err := db.ExecContext(context.Background(), query,
		event.SessionID,
		event.EventType,
		nullString(event.Metadata),
		formatTime(timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session event: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		event.ID = id
	}

	return nil
}

// GetSessionEvents returns the newest events of eventType across sessions.
func (db *DB) GetSessionEvents(eventType string, limit int) ([]models.SessionEvent, error) {
	query := `
		SELECT id, session_id, event_type, metadata, timestamp
		FROM session_events
		WHERE event_type = ?
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query session events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []models.SessionEvent
	for rows.Next() {
		var e models.SessionEvent
		var metadata, timestamp sql.NullString
		if err := rows.Scan(&e.ID, &e.SessionID, &e.EventType, &metadata, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan session event: %w", err)
		}
		e.Metadata = metadata.String
		e.Timestamp = scanTime(timestamp)
		events = append(events, e)
	}

	return events, rows.Err()
}

// joinCodes stores a code list as a JSON array, since codes may contain
// commas. An empty list is stored as NULL.
func joinCodes(codes []string) sql.NullString {
	if len(codes) == 0 {
		return sql.NullString{}
	}
	b, err := json.Marshal(codes)
	if err != nil {
		return sql.NullString{}
	}
	return nullString(string(b))
}

func splitCodes(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var codes []string
	if err := json.Unmarshal([]byte(s), &codes); err != nil {
		return nil, fmt.Errorf("invalid code list %q: %w", s, err)
	}
	return codes, nil
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
