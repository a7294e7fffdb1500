// Package history keeps a local record of generated commit messages.
package history

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/ports"
)

// Open returns the repository selected by settings, or nil when history is
// disabled. A SQLite database that cannot be opened falls back to a jsonl
// file next to it.
func Open(settings domain.HistorySettings, logger ports.Logger) ports.HistoryRepository {
	if !settings.Enabled {
		return nil
	}
	if settings.Backend == domain.HistoryBackendJSONL {
		return NewFileStore(settings.Path)
	}

	store, err := NewSQLiteStore(settings.Path)
	if err == nil {
		return store
	}
	fallback := jsonlPath(settings.Path)
	logger.Warn("sqlite history unavailable, using jsonl", map[string]interface{}{
		"path":     settings.Path,
		"fallback": fallback,
		"error":    err.Error(),
	})
	return NewFileStore(fallback)
}

func jsonlPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".jsonl"
}

func normalize(record domain.HistoryRecord) domain.HistoryRecord {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	record.Timestamp = record.Timestamp.UTC()
	return record
}
