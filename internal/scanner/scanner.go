// Package scanner enumerates session transcripts from a swarm sessions
// directory.
package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/LvcidPsyche/swarm-janitor/internal/model"
)

// ManifestName is the swarm's registry of launched sessions, kept by the
// runtime next to the transcripts. It maps session ids to owning PIDs.
const ManifestName = "sessions.json"

// transcriptExt matches the per-session transcript files.
const transcriptExt = ".jsonl"

// deletedMarker tags tombstones left behind by earlier cleanup runs.
const deletedMarker = ".deleted."

// Result is one scan pass over the sessions directory.
type Result struct {
	Records []model.SessionRecord
	Skipped []model.SkippedEntry
}

// Scanner reads session metadata from a directory. Read-only: it never
// mutates the tree it scans.
type Scanner struct {
	root   string
	logger *zap.Logger
}

// New creates a Scanner rooted at dir.
func New(dir string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{root: dir, logger: logger}
}

// Scan enumerates every transcript under the root. A single unreadable entry
// is recorded as skipped and the scan continues; only an unreadable root is
// fatal.
func (s *Scanner) Scan() (*Result, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read sessions dir %s: %w", s.root, err)
	}

	owners := s.readManifest()

	res := &Result{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, transcriptExt) {
			continue
		}
		if strings.Contains(name, deletedMarker) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("skipping unreadable session", zap.String("name", name), zap.Error(err))
			res.Skipped = append(res.Skipped, model.SkippedEntry{Name: name, Reason: err.Error()})
			continue
		}

		id := strings.TrimSuffix(name, transcriptExt)
		res.Records = append(res.Records, model.SessionRecord{
			ID:           id,
			Path:         filepath.Join(s.root, name),
			LastModified: info.ModTime(),
			SizeBytes:    info.Size(),
			OwnerPID:     owners[id],
		})
	}

	s.logger.Debug("scan complete",
		zap.Int("records", len(res.Records)),
		zap.Int("skipped", len(res.Skipped)))

	return res, nil
}

// manifest mirrors the runtime's sessions.json layout. Keys of the sessions
// map are runtime-internal; the sessionId field is authoritative.
type manifest struct {
	Sessions map[string]struct {
		SessionID string `json:"sessionId"`
		PID       int    `json:"pid"`
		UpdatedAt int64  `json:"updatedAt"`
	} `json:"sessions"`
}

// readManifest maps session ids to owning PIDs. A missing or malformed
// manifest is not an error: records simply carry no owner and fall through
// to the age rules.
func (s *Scanner) readManifest() map[string]int {
	owners := map[string]int{}

	data, err := os.ReadFile(filepath.Join(s.root, ManifestName))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("manifest unreadable", zap.Error(err))
		}
		return owners
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		s.logger.Warn("manifest malformed", zap.Error(err))
		return owners
	}

	for key, sess := range m.Sessions {
		id := sess.SessionID
		if id == "" {
			id = key
		}
		if sess.PID > 0 {
			owners[id] = sess.PID
		}
	}
	return owners
}
