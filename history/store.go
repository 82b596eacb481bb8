package history

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/yoinker/passage"
	"github.com/zeebo/blake3"
)

// DefaultLimit is the number of records List returns when no positive limit
// is given.
const DefaultLimit = 20

// Store keeps a log of completed lookups in SQLite.
type Store struct {
	db *sql.DB
}

// Record is one completed lookup. The passage text itself is not stored,
// only its BLAKE3 digest and length.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Method    string    `json:"method"`
	Version   string    `json:"version"`
	Book      string    `json:"book"`
	Chapter   string    `json:"chapter"`
	Verses    string    `json:"verses"`
	Digest    string    `json:"digest"`
	Length    int       `json:"length"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRecord describes a lookup that produced text.
func NewRecord(method string, ref passage.Reference, sel passage.Selector, text string) Record {
	sum := blake3.Sum256([]byte(text))

	return Record{
		ID:        uuid.New(),
		Method:    method,
		Version:   ref.Version,
		Book:      ref.Book,
		Chapter:   ref.Chapter,
		Verses:    sel.String(),
		Digest:    hex.EncodeToString(sum[:]),
		Length:    len(text),
		CreatedAt: time.Now().UTC(),
	}
}

// Reference returns the passage reference the record was made for.
func (r Record) Reference() passage.Reference {
	return passage.Reference{Version: r.Version, Book: r.Book, Chapter: r.Chapter}
}

// NewStore opens (or creates) the history database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the lookups table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS lookups (
		lookup_id TEXT PRIMARY KEY,
		method TEXT NOT NULL,
		version TEXT NOT NULL,
		book TEXT NOT NULL,
		chapter TEXT NOT NULL,
		verses TEXT NOT NULL DEFAULT '',
		digest TEXT NOT NULL,
		length INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_lookups_created_at ON lookups(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record saves a lookup.
func (s *Store) Record(rec Record) error {
	query := `
		INSERT INTO lookups (
			lookup_id, method, version, book, chapter,
			verses, digest, length, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		rec.ID.String(),
		rec.Method,
		rec.Version,
		rec.Book,
		rec.Chapter,
		rec.Verses,
		rec.Digest,
		rec.Length,
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert lookup: %w", err)
	}

	return nil
}

// Get retrieves a lookup by ID.
func (s *Store) Get(id uuid.UUID) (*Record, error) {
	query := `
		SELECT lookup_id, method, version, book, chapter,
		       verses, digest, length, created_at
		FROM lookups
		WHERE lookup_id = ?
	`

	rec, err := scanRecord(s.db.QueryRow(query, id.String()))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lookup not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query lookup: %w", err)
	}

	return rec, nil
}

// List returns up to limit lookups, newest first.
func (s *Store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `
		SELECT lookup_id, method, version, book, chapter,
		       verses, digest, length, created_at
		FROM lookups
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lookup: %w", err)
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var idStr, createdAtStr string

	err := row.Scan(
		&idStr, &rec.Method, &rec.Version, &rec.Book, &rec.Chapter,
		&rec.Verses, &rec.Digest, &rec.Length, &createdAtStr,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid lookup id %q: %w", idStr, err)
	}
	rec.ID = id
	rec.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// Timestamps are stored as fixed-width UTC strings so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_at %q: %w", s, err)
	}
	return t, nil
}
