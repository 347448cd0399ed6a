// Package janitor drives the scan, classify, archive, delete, report
// sequence for one cleanup run.
package janitor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LvcidPsyche/swarm-janitor/internal/archive"
	"github.com/LvcidPsyche/swarm-janitor/internal/config"
	"github.com/LvcidPsyche/swarm-janitor/internal/liveness"
	"github.com/LvcidPsyche/swarm-janitor/internal/model"
	"github.com/LvcidPsyche/swarm-janitor/internal/retention"
	"github.com/LvcidPsyche/swarm-janitor/internal/scanner"
)

// State names the orchestrator's position in a run.
type State string

const (
	StateScanning    State = "scanning"
	StateClassifying State = "classifying"
	StateArchiving   State = "archiving"
	StateDeleting    State = "deleting"
	StateReporting   State = "reporting"
	StateDone        State = "done"
	StateAborted     State = "aborted"
)

// ConfirmFunc answers the bulk-delete gate: proceed with count deletions?
type ConfirmFunc func(count int) bool

// DenyAll is the ConfirmFunc for non-interactive runs without --yes.
func DenyAll(int) bool { return false }

// Janitor is the run orchestrator. One instance performs one run at a time;
// it keeps no state between runs.
type Janitor struct {
	cfg      *config.Config
	oracle   liveness.Oracle
	archiver archive.Archiver // nil when archiving is disabled
	confirm  ConfirmFunc
	logger   *zap.Logger
	now      func() time.Time
}

// New assembles a Janitor. archiver may be nil to disable archiving; confirm
// may be nil, which denies bulk deletions.
func New(cfg *config.Config, oracle liveness.Oracle, archiver archive.Archiver, confirm ConfirmFunc, logger *zap.Logger) *Janitor {
	if confirm == nil {
		confirm = DenyAll
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{
		cfg:      cfg,
		oracle:   oracle,
		archiver: archiver,
		confirm:  confirm,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one cleanup pass. The returned report is non-nil even when the
// run aborts; the error is non-nil only for unrecoverable failures
// (configuration, unreadable session root).
func (j *Janitor) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		DryRun:    !j.cfg.Delete,
		StartedAt: j.now(),
	}

	if err := j.cfg.Validate(); err != nil {
		return j.abort(report, fmt.Errorf("configuration: %w", err))
	}

	j.logger.Info("starting cleanup run",
		zap.String("run_id", report.RunID),
		zap.Bool("dry_run", report.DryRun),
		zap.Bool("archive", j.archiver != nil),
		zap.String("sessions_dir", j.cfg.SessionsDir))

	// Scanning
	report.State = StateScanning
	scanRes, err := scanner.New(j.cfg.SessionsDir, j.logger).Scan()
	if err != nil {
		return j.abort(report, err)
	}
	report.Scanned = len(scanRes.Records)
	report.Skipped = len(scanRes.Skipped)
	for _, sk := range scanRes.Skipped {
		report.Errors = append(report.Errors, RecordError{
			SessionID: sk.Name, Stage: "scan", Error: sk.Reason,
		})
	}

	// Classifying
	report.State = StateClassifying
	result, err := retention.Classify(scanRes.Records, j.cfg.Policy(), j.oracle, j.now())
	if err != nil {
		return j.abort(report, err)
	}
	report.Active = len(result.Active)
	report.Kept = len(result.Keep)
	report.Candidates = len(result.Remove)
	report.Oversize = len(result.Oversize)
	report.RemovalCandidates = result.Remove

	for _, rec := range result.Remove {
		j.logger.Info("removal candidate",
			zap.String("session", rec.ID),
			zap.Time("modified", rec.LastModified),
			zap.Int64("size_bytes", rec.SizeBytes))
	}

	// Archiving. Every record that fails to archive is dropped from the
	// deletion set: a deletion never proceeds for a record that was
	// supposed to be archived but was not. Dry runs touch nothing, the
	// archive database included.
	deletable := result.Remove
	if j.archiver != nil && j.cfg.Delete {
		report.State = StateArchiving
		deletable = j.archiveAll(ctx, result.Remove, report)

		// Oversize-kept records are backed up too, never deleted.
		for _, rec := range result.Oversize {
			if _, err := j.archiver.Archive(ctx, rec); err != nil {
				j.logger.Warn("oversize archive failed", zap.String("session", rec.ID), zap.Error(err))
				report.ArchiveFailures++
				report.Errors = append(report.Errors, RecordError{
					SessionID: rec.ID, Path: rec.Path, Stage: "archive", Error: err.Error(),
				})
			} else {
				report.Archived++
			}
		}
	}

	// Deleting
	if j.cfg.Delete {
		report.State = StateDeleting
		j.deleteAll(deletable, report)
	}

	report.FinishedAt = j.now()
	report.State = StateDone

	j.logger.Info("cleanup run finished",
		zap.String("run_id", report.RunID),
		zap.Int("deleted", report.Deleted),
		zap.Int("archived", report.Archived),
		zap.Int64("bytes_reclaimed", report.BytesReclaimed))

	return report, nil
}

func (j *Janitor) abort(report *Report, err error) (*Report, error) {
	report.State = StateAborted
	report.FinishedAt = j.now()
	j.logger.Error("run aborted", zap.String("run_id", report.RunID), zap.Error(err))
	return report, err
}

func (j *Janitor) archiveAll(ctx context.Context, candidates []model.SessionRecord, report *Report) []model.SessionRecord {
	var deletable []model.SessionRecord
	for _, rec := range candidates {
		entry, err := j.archiver.Archive(ctx, rec)
		if err != nil {
			j.logger.Warn("archive failed, session withheld from deletion",
				zap.String("session", rec.ID), zap.Error(err))
			report.ArchiveFailures++
			report.Errors = append(report.Errors, RecordError{
				SessionID: rec.ID, Path: rec.Path, Stage: "archive", Error: err.Error(),
			})
			continue
		}
		j.logger.Debug("archived", zap.String("session", rec.ID), zap.String("entry", entry.ID))
		report.Archived++
		deletable = append(deletable, rec)
	}
	return deletable
}

func (j *Janitor) deleteAll(deletable []model.SessionRecord, report *Report) {
	if len(deletable) == 0 {
		return
	}

	if j.cfg.BulkThreshold > 0 && len(deletable) > j.cfg.BulkThreshold && !j.cfg.Force {
		if !j.confirm(len(deletable)) {
			j.logger.Warn("bulk threshold exceeded, deletions held back",
				zap.Int("candidates", len(deletable)),
				zap.Int("threshold", j.cfg.BulkThreshold))
			report.PendingConfirmation = len(deletable)
			return
		}
	}

	for _, rec := range deletable {
		// A process may have claimed the session after classification;
		// recheck immediately before the unlink.
		if rec.OwnerPID > 0 && j.oracle.IsAlive(rec.OwnerPID) != liveness.Dead {
			j.logger.Warn("owner alive at delete time, skipping",
				zap.String("session", rec.ID), zap.Int("pid", rec.OwnerPID))
			report.SkippedLive++
			continue
		}

		if err := os.Remove(rec.Path); err != nil {
			j.logger.Warn("delete failed", zap.String("session", rec.ID), zap.Error(err))
			report.DeleteFailures++
			report.Errors = append(report.Errors, RecordError{
				SessionID: rec.ID, Path: rec.Path, Stage: "delete", Error: err.Error(),
			})
			continue
		}

		j.touchTombstone(rec)
		report.Deleted++
		report.BytesReclaimed += rec.SizeBytes
		j.logger.Info("deleted", zap.String("session", rec.ID))
	}
}

// touchTombstone leaves a zero-byte marker recording the deletion; the
// scanner ignores these on later runs.
func (j *Janitor) touchTombstone(rec model.SessionRecord) {
	name := fmt.Sprintf("%s.deleted.%s", filepath.Base(rec.Path), j.now().UTC().Format("2006-01-02T15-04-05"))
	path := filepath.Join(filepath.Dir(rec.Path), name)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		j.logger.Debug("tombstone write failed", zap.String("session", rec.ID), zap.Error(err))
	}
}
