package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/LvcidPsyche/swarm-janitor/internal/model"
)

// DirArchive copies transcripts into a plain directory, one timestamped copy
// plus a JSON metadata sidecar per session.
type DirArchive struct {
	dir string
}

// NewDirArchive creates the archive directory if needed.
func NewDirArchive(dir string) (*DirArchive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &DirArchive{dir: dir}, nil
}

func (a *DirArchive) Archive(ctx context.Context, rec model.SessionRecord) (*Entry, error) {
	content, err := os.ReadFile(rec.Path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	now := time.Now().UTC()
	stamp := now.Format("20060102_150405")
	base := fmt.Sprintf("%s_%s", rec.ID, stamp)

	copyPath := filepath.Join(a.dir, base+".jsonl")
	if err := os.WriteFile(copyPath, content, 0o644); err != nil {
		return nil, fmt.Errorf("write archive copy: %w", err)
	}

	entry := &Entry{
		ID:           base,
		SessionID:    rec.ID,
		OriginalPath: rec.Path,
		ArchivedAt:   now,
		SizeBytes:    rec.SizeBytes,
		Preview:      preview(content),
	}

	meta, _ := json.MarshalIndent(entry, "", "  ")
	// The copy is what counts; the sidecar is best-effort.
	metaPath := filepath.Join(a.dir, base+".json")
	_ = os.WriteFile(metaPath, meta, 0o644)

	return entry, nil
}

func (a *DirArchive) Close() error { return nil }
