// Package store persists session results to sqlite for later reporting.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sightline-data/presence.report/internal/session"
)

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the session database at path and brings the
// schema up to date.
func NewDB(path string) (*DB, error) {
	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db := &DB{sdb}
	if err := db.MigrateUp(); err != nil {
		sdb.Close()
		return nil, fmt.Errorf("migrating session db: %w", err)
	}
	return db, nil
}

// SessionRow is one persisted session result.
type SessionRow struct {
	SessionID       string
	Source          string
	Outcome         string
	FramesProcessed int
	TotalUnique     int
	AvgFPS          float64
	Elapsed         time.Duration
	OutputPath      string
	WriteFailed     bool
	Error           string
	Timestamp       time.Time
}

func (s *SessionRow) String() string {
	return fmt.Sprintf("%s: %s frames=%d unique=%d avg_fps=%.1f (%s)",
		s.SessionID, s.Source, s.FramesProcessed, s.TotalUnique, s.AvgFPS, s.Outcome)
}

// RecordSession stores a completed session result with its per-frame
// samples and seen identities. It returns the generated session id.
func (db *DB) RecordSession(result session.Result) (string, error) {
	sessionID := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	errText := ""
	if result.Err != nil {
		errText = result.Err.Error()
	}
	_, err = tx.Exec(`INSERT INTO sessions
		(session_id, source, outcome, frames_processed, total_unique, avg_fps, elapsed_ms, output_path, write_failed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, result.Source, string(result.Outcome),
		result.FramesProcessed, result.Stats.TotalUnique, result.AvgFPS,
		result.Elapsed.Milliseconds(), result.OutputPath, result.WriteFailed, errText)
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}

	for _, s := range result.Samples {
		_, err = tx.Exec(`INSERT INTO samples (session_id, frame_index, current_count, total_unique, fps)
			VALUES (?, ?, ?, ?, ?)`,
			sessionID, s.FrameIndex, s.Current, s.Total, s.FPS)
		if err != nil {
			return "", fmt.Errorf("inserting sample %d: %w", s.FrameIndex, err)
		}
	}

	for _, id := range result.Stats.SeenIDs {
		_, err = tx.Exec(`INSERT INTO identities (session_id, track_id) VALUES (?, ?)`,
			sessionID, id)
		if err != nil {
			return "", fmt.Errorf("inserting identity %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return sessionID, nil
}

// ListSessions returns the most recent sessions, newest first.
func (db *DB) ListSessions(limit int) ([]SessionRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`SELECT session_id, source, outcome, frames_processed, total_unique, avg_fps, elapsed_ms, output_path, write_failed, error, timestamp
		FROM sessions ORDER BY timestamp DESC, session_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionRow
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession returns one session by id.
func (db *DB) GetSession(sessionID string) (SessionRow, error) {
	rows, err := db.Query(`SELECT session_id, source, outcome, frames_processed, total_unique, avg_fps, elapsed_ms, output_path, write_failed, error, timestamp
		FROM sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return SessionRow{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return SessionRow{}, err
		}
		return SessionRow{}, fmt.Errorf("session %s: %w", sessionID, sql.ErrNoRows)
	}
	return scanSession(rows)
}

func scanSession(rows *sql.Rows) (SessionRow, error) {
	var s SessionRow
	var elapsedMs int64
	var outputPath, errText sql.NullString
	if err := rows.Scan(&s.SessionID, &s.Source, &s.Outcome, &s.FramesProcessed,
		&s.TotalUnique, &s.AvgFPS, &elapsedMs, &outputPath, &s.WriteFailed,
		&errText, &s.Timestamp); err != nil {
		return SessionRow{}, err
	}
	s.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	s.OutputPath = outputPath.String
	s.Error = errText.String
	return s, nil
}

// Samples returns the per-frame samples of one session in frame order.
func (db *DB) Samples(sessionID string) ([]session.FrameSample, error) {
	rows, err := db.Query(`SELECT frame_index, current_count, total_unique, fps
		FROM samples WHERE session_id = ? ORDER BY frame_index`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []session.FrameSample
	for rows.Next() {
		var s session.FrameSample
		if err := rows.Scan(&s.FrameIndex, &s.Current, &s.Total, &s.FPS); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// Identities returns the distinct track ids seen in one session, ascending.
func (db *DB) Identities(sessionID string) ([]int64, error) {
	rows, err := db.Query(`SELECT track_id FROM identities WHERE session_id = ? ORDER BY track_id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
