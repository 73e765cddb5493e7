package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage handles all database operations
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new Storage instance, opening/creating the DB and initializing schema
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	storage := &Storage{db: db}

	// Initialize schema
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// initSchema creates tables and indices if they don't exist
func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		page_id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		title_count INTEGER DEFAULT 0,
		link_count INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS page_items (
		item_id INTEGER PRIMARY KEY AUTOINCREMENT,
		page_id INTEGER NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('title', 'link')),
		position INTEGER NOT NULL,
		value TEXT,
		FOREIGN KEY (page_id) REFERENCES pages(page_id)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_items_page ON page_items(page_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SavePage records one scrape outcome with its extracted titles and links.
// Returns the page_id of the inserted record.
func (s *Storage) SavePage(url, status, errMsg string, titles, links []string, duration time.Duration) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO pages (url, status, error, title_count, link_count, duration_ms, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, url, status, errMsg, len(titles), len(links), duration.Milliseconds(), time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to insert page: %w", err)
	}

	pageID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve page_id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO page_items (page_id, kind, position, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for i, title := range titles {
		if _, err := stmt.Exec(pageID, "title", i, title); err != nil {
			return 0, fmt.Errorf("failed to insert title: %w", err)
		}
	}
	for i, link := range links {
		if _, err := stmt.Exec(pageID, "link", i, link); err != nil {
			return 0, fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit page: %w", err)
	}

	return pageID, nil
}

// GetLatestPage retrieves the most recent record for a URL, returns nil if not found
func (s *Storage) GetLatestPage(url string) (*Page, error) {
	var page Page
	err := s.db.QueryRow(`
		SELECT page_id, url, status, COALESCE(error, ''), title_count, link_count, duration_ms, fetched_at
		FROM pages
		WHERE url = ?
		ORDER BY fetched_at DESC, page_id DESC
		LIMIT 1
	`, url).Scan(&page.PageID, &page.URL, &page.Status, &page.Error,
		&page.TitleCount, &page.LinkCount, &page.DurationMs, &page.FetchedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	return &page, nil
}

// GetItems returns the extracted values of a given kind for a page, in document order
func (s *Storage) GetItems(pageID int, kind string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT value
		FROM page_items
		WHERE page_id = ? AND kind = ?
		ORDER BY position ASC
	`, pageID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return values, nil
}

// LoadRecent returns the most recent page records, newest first
func (s *Storage) LoadRecent(limit int) ([]*Page, error) {
	rows, err := s.db.Query(`
		SELECT page_id, url, status, COALESCE(error, ''), title_count, link_count, duration_ms, fetched_at
		FROM pages
		ORDER BY fetched_at DESC, page_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent pages: %w", err)
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		var page Page
		if err := rows.Scan(&page.PageID, &page.URL, &page.Status, &page.Error,
			&page.TitleCount, &page.LinkCount, &page.DurationMs, &page.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, &page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pages: %w", err)
	}

	return pages, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}
