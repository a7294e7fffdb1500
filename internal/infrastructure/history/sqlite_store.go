package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/ports"
)

// timestampLayout is fixed width so text ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const createGenerationsTable = `CREATE TABLE IF NOT EXISTS generations (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	comments TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	prompt_tokens INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	action TEXT NOT NULL DEFAULT ''
);`

// SQLiteStore persists generations in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := db.Exec(createGenerationsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history database: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Save inserts record, assigning an ID and timestamp when missing.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	record = normalize(record)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO generations
		(id, timestamp, comments, content, prompt_tokens, completion_tokens, total_tokens, action)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format(timestampLayout),
		record.Comments,
		record.Content,
		int64(record.PromptTokens),
		int64(record.CompletionTokens),
		int64(record.TotalTokens),
		string(record.Action),
	)
	return err
}

// Records returns the newest records first. limit <= 0 returns everything.
func (s *SQLiteStore) Records(limit int) ([]domain.HistoryRecord, error) {
	query := `SELECT id, timestamp, comments, content, prompt_tokens, completion_tokens, total_tokens, action
		FROM generations ORDER BY timestamp DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var (
			rec                       domain.HistoryRecord
			ts, action                string
			prompt, completion, total int64
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Comments, &rec.Content, &prompt, &completion, &total, &action); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timestampLayout, ts); err == nil {
			rec.Timestamp = t
		}
		rec.PromptTokens = uint64(prompt)
		rec.CompletionTokens = uint64(completion)
		rec.TotalTokens = uint64(total)
		rec.Action = domain.PostAction(action)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all rows.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM generations")
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
