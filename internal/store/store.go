// Package store provides SQLite persistence for X-RAY items.
//
// The store is the source of truth for the item library. Drafts are inserted
// here before analysis starts and finalized here when it ends, so readers
// always see every submission in some state (loading, success, or error).
//
// # Thread Safety
//
// Store is safe for concurrent use. The underlying sql.DB handles connection
// pooling and serialization. Individual operations are atomic; a single
// Finalize call is the only write an item receives after its draft insert.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// Store handles SQLite persistence. NOT an interface - concrete type.
type Store struct {
	db *sql.DB
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so all pooled connections see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// In-memory databases get one connection to avoid pool members
	// landing on different databases
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		original_text TEXT NOT NULL,
		tweet_url TEXT,
		category TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		is_loading INTEGER NOT NULL DEFAULT 1,
		error TEXT,
		learning_data TEXT,
		news_data TEXT,
		inspiration_data TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_items_category_created ON items(category, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_items_error ON items(error) WHERE error IS NOT NULL;
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateDraft inserts a new item in the loading state and returns its id.
// createdAt is set to the current time in epoch milliseconds.
func (s *Store) CreateDraft(originalText, tweetURL string, category Category) (string, error) {
	if !category.Valid() {
		return "", fmt.Errorf("invalid category: %q", category)
	}

	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO items (id, original_text, tweet_url, category, created_at, is_loading)
		VALUES (?, ?, ?, ?, ?, 1)
	`, id, originalText, nullable(tweetURL), string(category), time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("create draft: %w", err)
	}
	return id, nil
}

// Get retrieves a single item by id.
func (s *Store) Get(id string) (Item, error) {
	row := s.db.QueryRow(`
		SELECT id, original_text, tweet_url, category, created_at, is_loading, error, learning_data, news_data, inspiration_data
		FROM items WHERE id = ?
	`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return Item{}, fmt.Errorf("item not found: %s", id)
	}
	return item, err
}

// Finalize applies the terminal patch to an item: either an error message or
// the analysis matching the item's category. It clears the loading flag and
// overwrites only the patched fields. The patch must be internally consistent
// and, on success, its category must match the item's.
func (s *Store) Finalize(id string, p Patch) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("finalize %s: %w", id, err)
	}

	if p.Error != "" {
		res, err := s.db.Exec(`
			UPDATE items
			SET is_loading = 0, error = ?, learning_data = NULL, news_data = NULL, inspiration_data = NULL
			WHERE id = ?
		`, p.Error, id)
		if err != nil {
			return fmt.Errorf("finalize %s: %w", id, err)
		}
		return requireRow(res, id)
	}

	var category string
	err := s.db.QueryRow("SELECT category FROM items WHERE id = ?", id).Scan(&category)
	if err == sql.ErrNoRows {
		return fmt.Errorf("item not found: %s", id)
	}
	if err != nil {
		return fmt.Errorf("finalize %s: %w", id, err)
	}
	if Category(category) != p.Result.Category {
		return fmt.Errorf("finalize %s: analysis category %q does not match item category %q",
			id, p.Result.Category, category)
	}

	learning, news, inspiration, err := marshalAnalysis(*p.Result)
	if err != nil {
		return fmt.Errorf("finalize %s: %w", id, err)
	}

	res, err := s.db.Exec(`
		UPDATE items
		SET is_loading = 0, error = NULL, learning_data = ?, news_data = ?, inspiration_data = ?
		WHERE id = ?
	`, learning, news, inspiration, id)
	if err != nil {
		return fmt.Errorf("finalize %s: %w", id, err)
	}
	return requireRow(res, id)
}

// ListByCategory retrieves all items in a category, newest first.
// Ties on created_at break on id so the order is stable.
func (s *Store) ListByCategory(category Category) ([]Item, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("invalid category: %q", category)
	}

	rows, err := s.db.Query(`
		SELECT id, original_text, tweet_url, category, created_at, is_loading, error, learning_data, news_data, inspiration_data
		FROM items
		WHERE category = ?
		ORDER BY created_at DESC, id DESC
	`, string(category))
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Counts returns the item count per category. Every category is present in
// the result, zero included. The three counts run in parallel.
func (s *Store) Counts() (map[Category]int, error) {
	counts := make(map[Category]int, 3)
	var mu sync.Mutex

	var g errgroup.Group
	for _, category := range Categories() {
		g.Go(func() error {
			var n int
			err := s.db.QueryRow("SELECT COUNT(*) FROM items WHERE category = ?", string(category)).Scan(&n)
			if err != nil {
				return fmt.Errorf("count %s items: %w", category, err)
			}
			mu.Lock()
			counts[category] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Delete permanently removes an item. No soft delete.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return requireRow(res, id)
}

// ItemsWithError retrieves all items carrying an error message, any category.
func (s *Store) ItemsWithError() ([]Item, error) {
	rows, err := s.db.Query(`
		SELECT id, original_text, tweet_url, category, created_at, is_loading, error, learning_data, news_data, inspiration_data
		FROM items
		WHERE error IS NOT NULL AND error != ''
	`)
	if err != nil {
		return nil, fmt.Errorf("list items with error: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ClearError removes the error marker from an item, touching nothing else.
// The item stays finalized; data fields keep whatever they held.
func (s *Store) ClearError(id string) error {
	res, err := s.db.Exec("UPDATE items SET error = NULL WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("clear error: %w", err)
	}
	return requireRow(res, id)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (Item, error) {
	var item Item
	var tweetURL, errMsg, learning, news, inspiration sql.NullString
	var category string
	var isLoading int

	err := sc.Scan(
		&item.ID,
		&item.OriginalText,
		&tweetURL,
		&category,
		&item.CreatedAt,
		&isLoading,
		&errMsg,
		&learning,
		&news,
		&inspiration,
	)
	if err != nil {
		return Item{}, err
	}

	item.Category = Category(category)
	item.IsLoading = isLoading != 0
	item.TweetURL = tweetURL.String
	item.Error = errMsg.String

	if learning.Valid && learning.String != "" {
		if err := json.Unmarshal([]byte(learning.String), &item.Learning); err != nil {
			return Item{}, fmt.Errorf("decode learning data for %s: %w", item.ID, err)
		}
	}
	if news.Valid && news.String != "" {
		item.News = &NewsData{}
		if err := json.Unmarshal([]byte(news.String), item.News); err != nil {
			return Item{}, fmt.Errorf("decode news data for %s: %w", item.ID, err)
		}
	}
	if inspiration.Valid && inspiration.String != "" {
		item.Inspiration = &InspirationData{}
		if err := json.Unmarshal([]byte(inspiration.String), item.Inspiration); err != nil {
			return Item{}, fmt.Errorf("decode inspiration data for %s: %w", item.ID, err)
		}
	}

	return item, nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return items, nil
}

// marshalAnalysis renders the populated variant as a JSON column value,
// leaving the other two NULL.
func marshalAnalysis(a Analysis) (learning, news, inspiration any, err error) {
	switch a.Category {
	case CategoryLearning:
		b, err := json.Marshal(a.Learning)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("encode learning data: %w", err)
		}
		return string(b), nil, nil, nil
	case CategoryNews:
		b, err := json.Marshal(a.News)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("encode news data: %w", err)
		}
		return nil, string(b), nil, nil
	case CategoryInspiration:
		b, err := json.Marshal(a.Inspiration)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("encode inspiration data: %w", err)
		}
		return nil, nil, string(b), nil
	}
	return nil, nil, nil, fmt.Errorf("invalid category: %q", a.Category)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireRow(res sql.Result, id string) error {
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("item not found: %s", id)
	}
	return nil
}
