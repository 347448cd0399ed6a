package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LvcidPsyche/swarm-janitor/internal/model"
)

func TestDirArchive(t *testing.T) {
	ctx := context.Background()
	dest := t.TempDir()

	a, err := NewDirArchive(dest)
	if err != nil {
		t.Fatalf("create dir archive: %v", err)
	}

	rec := testRecord(t, `{"line":1}`)
	entry, err := a.Archive(ctx, rec)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatal(err)
	}
	var gotCopy, gotMeta bool
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".jsonl") {
			gotCopy = true
			data, _ := os.ReadFile(filepath.Join(dest, e.Name()))
			if string(data) != `{"line":1}` {
				t.Errorf("copy content mismatch: %q", data)
			}
		}
		if strings.HasSuffix(e.Name(), ".json") {
			gotMeta = true
		}
	}
	if !gotCopy {
		t.Error("expected a transcript copy in the archive dir")
	}
	if !gotMeta {
		t.Error("expected a metadata sidecar in the archive dir")
	}
	if entry.SessionID != rec.ID {
		t.Errorf("expected session id %q, got %q", rec.ID, entry.SessionID)
	}

	// Source untouched.
	if _, err := os.Stat(rec.Path); err != nil {
		t.Errorf("source transcript should be untouched: %v", err)
	}
}

func TestDirArchiveMissingSource(t *testing.T) {
	a, err := NewDirArchive(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = a.Archive(context.Background(), model.SessionRecord{ID: "ghost", Path: "/does/not/exist.jsonl"})
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}
