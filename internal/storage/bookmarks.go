package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Bookmark is a saved destination.
type Bookmark struct {
	ID        int64
	URL       string
	Title     string
	CreatedAt time.Time
}

// Label is the title, or the URL when the page had none.
func (b Bookmark) Label() string {
	if strings.TrimSpace(b.Title) != "" {
		return b.Title
	}
	return b.URL
}

// BookmarkStore manages bookmarks persisted in SQLite.
type BookmarkStore struct {
	db *DB
}

// NewBookmarkStore creates a bookmark store using the given database.
func NewBookmarkStore(db *DB) *BookmarkStore {
	return &BookmarkStore{db: db}
}

// Add saves url. It reports false when the URL was already bookmarked.
func (bs *BookmarkStore) Add(url, title string) (bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return false, fmt.Errorf("bookmark: empty url")
	}
	res, err := bs.db.conn.Exec(
		`INSERT OR IGNORE INTO bookmarks (url, title, created_at) VALUES (?, ?, ?)`,
		url, title, bs.db.now().UnixNano(),
	)
	if err != nil {
		return false, fmt.Errorf("adding bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("adding bookmark: %w", err)
	}
	return n > 0, nil
}

// Remove deletes the bookmark for url. It reports false when none existed.
func (bs *BookmarkStore) Remove(url string) (bool, error) {
	res, err := bs.db.conn.Exec(`DELETE FROM bookmarks WHERE url = ?`, url)
	if err != nil {
		return false, fmt.Errorf("removing bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("removing bookmark: %w", err)
	}
	return n > 0, nil
}

// Has reports whether a URL is bookmarked.
func (bs *BookmarkStore) Has(url string) bool {
	var count int
	err := bs.db.conn.QueryRow(`SELECT COUNT(*) FROM bookmarks WHERE url = ?`, url).Scan(&count)
	return err == nil && count > 0
}

// List returns all bookmarks, newest first.
func (bs *BookmarkStore) List() ([]Bookmark, error) {
	rows, err := bs.db.conn.Query(
		`SELECT id, url, title, created_at FROM bookmarks ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()
	return scanBookmarks(rows)
}

func scanBookmarks(rows *sql.Rows) ([]Bookmark, error) {
	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		var created int64
		if err := rows.Scan(&b.ID, &b.URL, &b.Title, &created); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		b.CreatedAt = time.Unix(0, created)
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}
