package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LvcidPsyche/swarm-janitor/internal/model"
)

func newTestArchive(t *testing.T) *SQLiteArchive {
	t.Helper()
	dir := t.TempDir()
	a, err := NewSQLiteArchive(filepath.Join(dir, "archive.db"))
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func testRecord(t *testing.T, content string) model.SessionRecord {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sess-a.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return model.SessionRecord{
		ID:           "sess-a",
		Path:         path,
		LastModified: time.Now(),
		SizeBytes:    int64(len(content)),
	}
}

func TestArchiveAndSearch(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	rec := testRecord(t, `{"role":"user","content":"refactor the billing worker"}`)
	entry, err := a.Archive(ctx, rec)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if entry.ID == "" {
		t.Error("expected non-empty entry id")
	}
	if entry.SessionID != "sess-a" {
		t.Errorf("expected session id sess-a, got %q", entry.SessionID)
	}

	results, err := a.Search(ctx, SearchParams{Query: "billing"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].SessionID != "sess-a" {
		t.Errorf("expected sess-a, got %q", results[0].SessionID)
	}

	none, err := a.Search(ctx, SearchParams{Query: "nonexistent"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no results, got %d", len(none))
	}
}

func TestArchiveMissingFile(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	_, err := a.Archive(ctx, model.SessionRecord{ID: "ghost", Path: "/does/not/exist.jsonl"})
	if err == nil {
		t.Fatal("expected error archiving a missing transcript")
	}
}

func TestArchivePreviewTruncated(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	big := make([]byte, 5000)
	for i := range big {
		big[i] = 'x'
	}
	rec := testRecord(t, string(big))

	entry, err := a.Archive(ctx, rec)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if len(entry.Preview) != previewLen {
		t.Errorf("expected preview of %d bytes, got %d", previewLen, len(entry.Preview))
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	a.Archive(ctx, testRecord(t, "first"))
	a.Archive(ctx, testRecord(t, "second"))

	st, err := a.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalEntries != 2 {
		t.Errorf("expected 2 entries, got %d", st.TotalEntries)
	}
	if st.TotalSessions != 1 {
		t.Errorf("expected 1 distinct session, got %d", st.TotalSessions)
	}
	if st.BytesArchived != int64(len("first")+len("second")) {
		t.Errorf("unexpected bytes archived: %d", st.BytesArchived)
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	a.Archive(ctx, testRecord(t, "keep me"))

	// Nothing is older than a cutoff in the past.
	n, err := a.Prune(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 pruned, got %d", n)
	}

	// Everything is older than a cutoff in the future.
	n, err = a.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned, got %d", n)
	}

	st, _ := a.Stats(ctx)
	if st.TotalEntries != 0 {
		t.Errorf("expected empty archive after prune, got %d", st.TotalEntries)
	}
}
