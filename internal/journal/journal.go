// Package journal persists accepted transitions and usage snapshots to
// SQLite for audit and inspection. The in-memory engine is the source of
// truth; the journal is write-behind and optional.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/clarityai/clarity/go-engine/internal/feature"
	"github.com/clarityai/clarity/go-engine/internal/usage"
)

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS transition_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	command_id   TEXT,
	session_id   TEXT NOT NULL,
	from_mode    TEXT NOT NULL,
	to_mode      TEXT NOT NULL,
	trigger_kind TEXT NOT NULL,
	duration_ms  INTEGER NOT NULL,
	confidence   REAL NOT NULL,
	context_json TEXT,
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transition_log_session
ON transition_log(session_id, created_at);

CREATE TABLE IF NOT EXISTS usage_snapshots (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id     TEXT NOT NULL,
	chat_pct       REAL NOT NULL,
	timeline_pct   REAL NOT NULL,
	storyboard_pct REAL NOT NULL,
	session_count  INTEGER NOT NULL,
	context_json   TEXT,
	created_at     TEXT NOT NULL
);
`

// #endregion schema

// #region journal-struct

// Journal manages the audit database.
type Journal struct {
	db *sql.DB
}

// #endregion journal-struct

// #region constructor

// Open opens (or creates) the journal database and runs migrations.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// #endregion constructor

// #region append

// Append writes one transition entry.
func (j *Journal) Append(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := j.db.Exec(
		`INSERT INTO transition_log
		 (command_id, session_id, from_mode, to_mode, trigger_kind, duration_ms, confidence, context_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(e.CommandID),
		e.SessionID,
		string(e.From),
		string(e.To),
		e.Trigger,
		e.DurationMs,
		e.Confidence,
		nullIfEmpty(e.ContextJSON),
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append transition: %w", err)
	}
	return nil
}

// AppendEvent converts a tracker event into an Entry and writes it.
func (j *Journal) AppendEvent(sessionID string, ev usage.TransitionEvent, trigger, commandID string) error {
	var ctxJSON string
	if len(ev.Context) > 0 {
		b, err := json.Marshal(ev.Context)
		if err != nil {
			return fmt.Errorf("marshal context: %w", err)
		}
		ctxJSON = string(b)
	}
	return j.Append(Entry{
		CommandID:   commandID,
		SessionID:   sessionID,
		From:        ev.From,
		To:          ev.To,
		Trigger:     trigger,
		DurationMs:  ev.DurationMs,
		Confidence:  ev.Confidence,
		ContextJSON: ctxJSON,
		CreatedAt:   time.UnixMilli(ev.Timestamp).UTC(),
	})
}

// #endregion append

// #region snapshot

// SnapshotUsage persists one usage profile snapshot. ctx is free-form
// caller metadata stored as JSON; nil or empty stores NULL.
func (j *Journal) SnapshotUsage(sessionID string, s usage.Summary, ctx map[string]string) error {
	var ctxJSON string
	if len(ctx) > 0 {
		b, err := json.Marshal(ctx)
		if err != nil {
			return fmt.Errorf("marshal context: %w", err)
		}
		ctxJSON = string(b)
	}
	_, err := j.db.Exec(
		`INSERT INTO usage_snapshots
		 (session_id, chat_pct, timeline_pct, storyboard_pct, session_count, context_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		s.Percent[feature.Chat],
		s.Percent[feature.Timeline],
		s.Percent[feature.Storyboard],
		s.SessionCount,
		nullIfEmpty(ctxJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("snapshot usage: %w", err)
	}
	return nil
}

// #endregion snapshot

// #region queries

// RecentTransitions returns the most recent entries, newest first.
// sessionID == "" returns entries across all sessions.
func (j *Journal) RecentTransitions(sessionID string, limit int) ([]Entry, error) {
	query := `SELECT command_id, session_id, from_mode, to_mode, trigger_kind, duration_ms, confidence, context_json, created_at
	          FROM transition_log`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent transitions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var commandID, ctxJSON sql.NullString
		var from, to, createdStr string
		if err := rows.Scan(&commandID, &e.SessionID, &from, &to, &e.Trigger, &e.DurationMs, &e.Confidence, &ctxJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if commandID.Valid {
			e.CommandID = commandID.String
		}
		if ctxJSON.Valid {
			e.ContextJSON = ctxJSON.String
		}
		e.From = feature.ID(from)
		e.To = feature.ID(to)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecentUsageSnapshots returns the most recent usage snapshots, newest
// first. sessionID == "" returns snapshots across all sessions.
func (j *Journal) RecentUsageSnapshots(sessionID string, limit int) ([]UsageSnapshot, error) {
	query := `SELECT session_id, chat_pct, timeline_pct, storyboard_pct, session_count, context_json, created_at
	          FROM usage_snapshots`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent usage snapshots: %w", err)
	}
	defer rows.Close()

	var out []UsageSnapshot
	for rows.Next() {
		var s UsageSnapshot
		var ctxJSON sql.NullString
		var createdStr string
		if err := rows.Scan(&s.SessionID, &s.ChatPct, &s.TimelinePct, &s.StoryboardPct, &s.SessionCount, &ctxJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if ctxJSON.Valid {
			s.ContextJSON = ctxJSON.String
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, s)
	}
	return out, rows.Err()
}

// TransitionStats aggregates the journal by trigger kind and mode pair.
func (j *Journal) TransitionStats(sessionID string) (Stats, error) {
	query := `SELECT trigger_kind, from_mode || '->' || to_mode, COUNT(*), AVG(confidence)
	          FROM transition_log`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` GROUP BY trigger_kind, from_mode, to_mode`

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return Stats{}, fmt.Errorf("transition stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{
		ByTrigger: make(map[string]int),
		ByPair:    make(map[string]int),
	}
	var confSum float64
	for rows.Next() {
		var trigger, pair string
		var count int
		var avgConf float64
		if err := rows.Scan(&trigger, &pair, &count, &avgConf); err != nil {
			return Stats{}, fmt.Errorf("scan row: %w", err)
		}
		stats.Total += count
		stats.ByTrigger[trigger] += count
		stats.ByPair[pair] += count
		confSum += avgConf * float64(count)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}
	if stats.Total > 0 {
		stats.AvgConfidence = confSum / float64(stats.Total)
	}
	return stats, nil
}

// #endregion queries

// #region helpers

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
