// Package storage provides SQLite-based persistence for the cart library
// and run history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/term8/internal/cart"
)

// ErrNotFound is returned when a named cart is not in the library.
var ErrNotFound = errors.New("storage: cart not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// CartEntry is a library listing row.
type CartEntry struct {
	Name      string
	Author    string
	UpdatedAt time.Time
}

// Run is one recorded play session of a cart.
type Run struct {
	ID        int64
	Cart      string
	Outcome   string // Final run state, e.g. "looping", "halted", "compile-failed"
	Message   string // Error message when the program failed
	Ticks     int
	Duration  time.Duration
	CreatedAt time.Time
}

// CartStats contains aggregated run statistics for a cart.
type CartStats struct {
	Cart       string
	Runs       int
	Failures   int
	TotalTicks int64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS carts (
			name TEXT PRIMARY KEY,
			author TEXT NOT NULL DEFAULT '',
			code TEXT NOT NULL,
			sprites TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cart TEXT NOT NULL,
			outcome TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_cart ON runs(cart);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveCart inserts or replaces a cart, keyed by its name.
func (s *Store) SaveCart(c *cart.Cart) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("storage: cart has no name")
	}
	_, err := s.db.Exec(
		`INSERT INTO carts (name, author, code, sprites, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   author = excluded.author,
		   code = excluded.code,
		   sprites = excluded.sprites,
		   updated_at = CURRENT_TIMESTAMP`,
		c.Name, c.Author, c.Code, encodeSprites(c.Sprites),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save cart: %w", err)
	}
	return nil
}

// LoadCart retrieves a cart by name. Returns ErrNotFound if it is missing.
func (s *Store) LoadCart(name string) (*cart.Cart, error) {
	var author, code, sprites string
	err := s.db.QueryRow(
		"SELECT author, code, sprites FROM carts WHERE name = ?",
		name,
	).Scan(&author, &code, &sprites)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query cart: %w", err)
	}

	bank, err := decodeSprites(sprites)
	if err != nil {
		return nil, fmt.Errorf("storage: cart %q: %w", name, err)
	}

	c := cart.New(name, code)
	c.Author = author
	c.Sprites = bank
	return c, nil
}

// ListCarts returns all library carts ordered by name.
func (s *Store) ListCarts() ([]CartEntry, error) {
	rows, err := s.db.Query(
		`SELECT name, author, updated_at FROM carts ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query carts: %w", err)
	}
	defer rows.Close()

	var entries []CartEntry
	for rows.Next() {
		var e CartEntry
		var updatedAt any
		if err := rows.Scan(&e.Name, &e.Author, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// DeleteCart removes a cart. Returns ErrNotFound if it is missing.
// Run history for the cart is kept.
func (s *Store) DeleteCart(name string) error {
	res, err := s.db.Exec("DELETE FROM carts WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordRun stores a finished run. Returns the ID of the inserted record.
func (s *Store) RecordRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (cart, outcome, message, ticks, duration_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		r.Cart, r.Outcome, r.Message, r.Ticks, r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the most recent runs, newest first. An empty cart
// name returns runs of every cart.
func (s *Store) RecentRuns(cartName string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, cart, outcome, message, ticks, duration_ms, created_at
		 FROM runs
		 WHERE ? = '' OR cart = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		cartName, cartName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Cart, &r.Outcome, &r.Message, &r.Ticks, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// GetCartStats retrieves aggregated run statistics for every cart that has
// been played, keyed by cart name. Runs whose outcome is one of failed
// count as failures.
func (s *Store) GetCartStats(failed ...string) (map[string]*CartStats, error) {
	rows, err := s.db.Query(
		`SELECT cart, outcome, COUNT(*), SUM(ticks), MAX(created_at)
		 FROM runs
		 GROUP BY cart, outcome`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get cart stats: %w", err)
	}
	defer rows.Close()

	isFailure := make(map[string]bool, len(failed))
	for _, f := range failed {
		isFailure[f] = true
	}

	stats := make(map[string]*CartStats)
	for rows.Next() {
		var name, outcome string
		var count int
		var ticks int64
		var lastPlayed any
		if err := rows.Scan(&name, &outcome, &count, &ticks, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}

		st, ok := stats[name]
		if !ok {
			st = &CartStats{Cart: name}
			stats[name] = st
		}
		st.Runs += count
		st.TotalTicks += ticks
		if isFailure[outcome] {
			st.Failures += count
		}
		if t := parseTime(lastPlayed); t.After(st.LastPlayed) {
			st.LastPlayed = t
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

const hexDigits = "0123456789abcdef"

// encodeSprites stores a bank as one hex digit per pixel, sprite after sprite.
func encodeSprites(bank *cart.SpriteBank) string {
	if bank == nil {
		bank = &cart.SpriteBank{}
	}
	buf := make([]byte, 0, cart.BankSize*cart.SpritePixels)
	for i := range bank {
		for _, p := range bank[i] {
			buf = append(buf, hexDigits[p&0x0f])
		}
	}
	return string(buf)
}

func decodeSprites(s string) (*cart.SpriteBank, error) {
	bank := &cart.SpriteBank{}
	if len(s) != cart.BankSize*cart.SpritePixels {
		return nil, fmt.Errorf("sprite data has %d pixels, want %d", len(s), cart.BankSize*cart.SpritePixels)
	}
	for i := 0; i < len(s); i++ {
		v := strings.IndexByte(hexDigits, s[i])
		if v < 0 {
			return nil, fmt.Errorf("invalid sprite pixel %q at %d", s[i], i)
		}
		bank[i/cart.SpritePixels][i%cart.SpritePixels] = uint8(v)
	}
	return bank, nil
}
