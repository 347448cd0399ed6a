package archive

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/LvcidPsyche/swarm-janitor/internal/model"
)

// SQLiteArchive stores archived transcripts in a single SQLite database with
// a full-text index over their content.
type SQLiteArchive struct {
	db      *sql.DB
	path    string
	entropy *rand.Rand
}

// NewSQLiteArchive opens or creates the archive database at the given path.
func NewSQLiteArchive(dbPath string) (*SQLiteArchive, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	a := &SQLiteArchive{
		db:      db,
		path:    dbPath,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return a, nil
}

func (a *SQLiteArchive) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), a.entropy).String()
}

func (a *SQLiteArchive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS archives (
		id            TEXT PRIMARY KEY,
		session_id    TEXT NOT NULL,
		original_path TEXT NOT NULL,
		archived_at   TEXT NOT NULL,
		size_bytes    INTEGER NOT NULL,
		preview       TEXT,
		content       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_archives_session ON archives(session_id);
	CREATE INDEX IF NOT EXISTS idx_archives_archived ON archives(archived_at DESC);

	CREATE VIRTUAL TABLE IF NOT EXISTS archives_fts USING fts5(
		content,
		content=archives,
		content_rowid=rowid
	);
	`
	if _, err := a.db.Exec(schema); err != nil {
		return err
	}

	// FTS5 triggers for automatic sync
	a.db.Exec(`CREATE TRIGGER IF NOT EXISTS archives_ai AFTER INSERT ON archives BEGIN
		INSERT INTO archives_fts(rowid, content) VALUES (new.rowid, new.content);
	END`)
	a.db.Exec(`CREATE TRIGGER IF NOT EXISTS archives_ad AFTER DELETE ON archives BEGIN
		INSERT INTO archives_fts(archives_fts, rowid, content) VALUES('delete', old.rowid, old.content);
	END`)

	return nil
}

// Archive reads the transcript and inserts it as a new entry. The source file
// is left untouched.
func (a *SQLiteArchive) Archive(ctx context.Context, rec model.SessionRecord) (*Entry, error) {
	content, err := os.ReadFile(rec.Path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	now := time.Now().UTC()
	entry := &Entry{
		ID:           a.newID(),
		SessionID:    rec.ID,
		OriginalPath: rec.Path,
		ArchivedAt:   now,
		SizeBytes:    rec.SizeBytes,
		Preview:      preview(content),
	}

	_, err = a.db.ExecContext(ctx,
		`INSERT INTO archives (id, session_id, original_path, archived_at, size_bytes, preview, content)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.SessionID, entry.OriginalPath,
		now.Format(time.RFC3339), entry.SizeBytes, entry.Preview, string(content))
	if err != nil {
		return nil, fmt.Errorf("insert archive entry: %w", err)
	}

	return entry, nil
}

// SearchParams holds parameters for searching archived transcripts.
type SearchParams struct {
	Query     string
	SessionID string
	Limit     int
}

// Search finds archived entries whose content matches the query.
func (a *SQLiteArchive) Search(ctx context.Context, p SearchParams) ([]Entry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, session_id, original_path, archived_at, size_bytes, preview
		FROM archives
		WHERE rowid IN (SELECT rowid FROM archives_fts WHERE archives_fts MATCH ?)`
	args := []interface{}{p.Query}

	if p.SessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, p.SessionID)
	}
	query += ` ORDER BY archived_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats holds archive database statistics.
type Stats struct {
	DBPath        string `json:"db_path"`
	DBSizeBytes   int64  `json:"db_size_bytes"`
	TotalEntries  int    `json:"total_entries"`
	TotalSessions int    `json:"total_sessions"`
	BytesArchived int64  `json:"bytes_archived"`
}

// Stats returns archive statistics.
func (a *SQLiteArchive) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{DBPath: a.path}

	if info, err := os.Stat(a.path); err == nil {
		st.DBSizeBytes = info.Size()
	}

	a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM archives`).Scan(&st.TotalEntries)
	a.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT session_id) FROM archives`).Scan(&st.TotalSessions)
	a.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size_bytes), 0) FROM archives`).Scan(&st.BytesArchived)

	return st, nil
}

// Prune removes archive entries older than the cutoff and returns how many
// were deleted.
func (a *SQLiteArchive) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := a.db.ExecContext(ctx,
		`DELETE FROM archives WHERE archived_at < ?`,
		olderThan.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var archivedAt string
	var preview sql.NullString

	err := row.Scan(&e.ID, &e.SessionID, &e.OriginalPath, &archivedAt, &e.SizeBytes, &preview)
	if err != nil {
		return e, err
	}

	e.ArchivedAt, _ = time.Parse(time.RFC3339, archivedAt)
	if preview.Valid {
		e.Preview = preview.String
	}
	return e, nil
}
