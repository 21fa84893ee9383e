package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
)

const (
	DefaultListLimit = 50
	maxListLimit     = 1000
	busyRetries      = 5
)

// SQLiteStore provides SQLite-based persistence for the search history
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the history database at dbPath.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writes are serialized by SQLite; an in-memory database only lives as
	// long as its single connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to check journal mode: %w", err)
	}
	if journalMode != "wal" && journalMode != "delete" && journalMode != "memory" {
		db.Close()
		return nil, fmt.Errorf("unexpected journal mode: got %s", journalMode)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// dsn applies the connection pragmas in the form modernc.org/sqlite reads
// them, once per new connection.
func dsn(dbPath string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS searches (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		strategy TEXT NOT NULL,
		query TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		error TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// retryOnBusy retries an operation that failed with SQLITE_BUSY, on top of
// the busy_timeout pragma.
func (s *SQLiteStore) retryOnBusy(operation func() error) error {
	var err error
	for i := 0; i < busyRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "SQLITE_BUSY") {
			return err
		}
		time.Sleep(time.Duration(10*(1<<uint(i))) * time.Millisecond)
	}
	return fmt.Errorf("operation failed after %d retries: %w", busyRetries, err)
}

// Record appends a search to the history
func (s *SQLiteStore) Record(ctx context.Context, rec *models.SearchRecord) error {
	if rec == nil {
		return errors.New("nil search record")
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO searches (id, question, endpoint, strategy, query, row_count, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	err := s.retryOnBusy(func() error {
		_, err := s.db.ExecContext(ctx, query,
			rec.ID,
			rec.Question,
			rec.Endpoint,
			rec.Strategy,
			rec.Query,
			rec.RowCount,
			nullString(rec.Error),
			rec.CreatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save search: %w", err)
	}
	return nil
}

// List returns up to limit searches, newest first. A limit outside
// 1..1000 uses the default.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*models.SearchRecord, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, question, endpoint, strategy, query, row_count, error, created_at
		FROM searches ORDER BY created_at DESC, rowid DESC LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	records := make([]*models.SearchRecord, 0)
	for rows.Next() {
		var rec models.SearchRecord
		var errText sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Question, &rec.Endpoint, &rec.Strategy, &rec.Query, &rec.RowCount, &errText, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		rec.Error = errText.String
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	return records, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
