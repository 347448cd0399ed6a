// Package archive provides the sinks orphaned sessions are copied into
// before deletion.
package archive

import (
	"context"
	"time"

	"github.com/LvcidPsyche/swarm-janitor/internal/model"
)

// previewLen bounds the stored content preview.
const previewLen = 1000

// Entry describes one archived session.
type Entry struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	OriginalPath string    `json:"original_path"`
	ArchivedAt   time.Time `json:"archived_at"`
	SizeBytes    int64     `json:"size_bytes"`
	Preview      string    `json:"preview,omitempty"`
}

// Archiver copies a session out of the swarm directory. A nil error means the
// content is durably stored; the orchestrator only deletes records whose
// archival succeeded.
type Archiver interface {
	Archive(ctx context.Context, rec model.SessionRecord) (*Entry, error)
	Close() error
}

func preview(content []byte) string {
	if len(content) > previewLen {
		return string(content[:previewLen])
	}
	return string(content)
}
