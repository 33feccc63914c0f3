package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// MaxVisits bounds the visit log; older rows are pruned on insert.
const MaxVisits = 1000

// Visit is one successful page load.
type Visit struct {
	URL       string
	Title     string
	VisitedAt time.Time
}

// VisitLog is an append-only record of successfully loaded pages.
type VisitLog struct {
	db *DB
}

// NewVisitLog creates a visit log using the given database.
func NewVisitLog(db *DB) *VisitLog {
	return &VisitLog{db: db}
}

// Record logs a visit. A repeat of the most recent URL refreshes that row
// instead of adding a new one.
func (vl *VisitLog) Record(url, title string) error {
	if url == "" {
		return nil
	}
	now := vl.db.now().UnixNano()

	tx, err := vl.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	defer tx.Rollback()

	var lastID int64
	var lastURL string
	err = tx.QueryRow(`SELECT id, url FROM visits ORDER BY visited_at DESC, id DESC LIMIT 1`).Scan(&lastID, &lastURL)
	switch {
	case err == nil && lastURL == url:
		_, err = tx.Exec(
			`UPDATE visits SET visited_at = ?, title = CASE WHEN ? <> '' THEN ? ELSE title END WHERE id = ?`,
			now, title, title, lastID,
		)
	case err == nil || errors.Is(err, sql.ErrNoRows):
		_, err = tx.Exec(`INSERT INTO visits (url, title, visited_at) VALUES (?, ?, ?)`, url, title, now)
		if err == nil {
			_, err = tx.Exec(
				`DELETE FROM visits WHERE id NOT IN (SELECT id FROM visits ORDER BY visited_at DESC, id DESC LIMIT ?)`,
				MaxVisits,
			)
		}
	}
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return tx.Commit()
}

// Recent returns up to n visits, newest first.
func (vl *VisitLog) Recent(n int) ([]Visit, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := vl.db.conn.Query(
		`SELECT url, title, visited_at FROM visits ORDER BY visited_at DESC, id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var at int64
		if err := rows.Scan(&v.URL, &v.Title, &at); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		v.VisitedAt = time.Unix(0, at)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
