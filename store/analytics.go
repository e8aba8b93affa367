package store

import (
	"context"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// AnalyticsEvent is one recorded reading interaction.
type AnalyticsEvent struct {
	BookID    string `json:"book_id"`
	Event     string `json:"event"`
	Page      int    `json:"page_number,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// RecordEvent appends one analytics event.
func (s *Store) RecordEvent(ctx context.Context, ev AnalyticsEvent) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`INSERT INTO analytics (book_id, event, page_number, session_id, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []any{
					ev.BookID, ev.Event, ev.Page, ev.SessionID,
					time.Now().UTC().Format(time.RFC3339),
				},
			})
	})
}

// UsageRow is the aggregate activity of one book over a period.
type UsageRow struct {
	BookID   string `json:"book_id"`
	Events   int    `json:"events"`
	Sessions int    `json:"sessions"`
}

// Usage returns per-book activity between since and until (inclusive,
// zero values leave the corresponding bound open).
func (s *Store) Usage(ctx context.Context, since, until time.Time) ([]UsageRow, error) {
	query := `SELECT book_id, COUNT(*) AS events, COUNT(DISTINCT session_id) AS sessions
		FROM analytics WHERE 1=1`
	var args []any
	if !since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, since.UTC().Format(time.RFC3339))
	}
	if !until.IsZero() {
		query += ` AND created_at <= ?`
		args = append(args, until.UTC().Format(time.RFC3339))
	}
	query += ` GROUP BY book_id ORDER BY events DESC, book_id`

	var rows []UsageRow
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query,
			&sqlitex.ExecOptions{
				Args: args,
				ResultFunc: func(stmt *sqlite.Stmt) error {
					rows = append(rows, UsageRow{
						BookID:   stmt.GetText("book_id"),
						Events:   int(stmt.GetInt64("events")),
						Sessions: int(stmt.GetInt64("sessions")),
					})
					return nil
				},
			})
	})
	return rows, err
}

// EventCounts returns per-event totals for a book.
func (s *Store) EventCounts(ctx context.Context, bookID string) (map[string]int, error) {
	counts := make(map[string]int)
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT event, COUNT(*) AS n FROM analytics WHERE book_id = ? GROUP BY event`,
			&sqlitex.ExecOptions{
				Args: []any{bookID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					counts[stmt.GetText("event")] = int(stmt.GetInt64("n"))
					return nil
				},
			})
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
