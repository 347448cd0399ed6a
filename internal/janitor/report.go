package janitor

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/LvcidPsyche/swarm-janitor/internal/model"
)

// RecordError is a per-record failure surfaced in the report. None of these
// abort a run.
type RecordError struct {
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
	Stage     string `json:"stage"` // scan, archive, delete
	Error     string `json:"error"`
}

// Report summarizes one janitor run. Reporting always happens, including
// after partial failures.
type Report struct {
	RunID      string    `json:"run_id"`
	State      State     `json:"state"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Scanned    int `json:"scanned"`
	Skipped    int `json:"skipped"`
	Active     int `json:"active"`
	Kept       int `json:"kept"`
	Candidates int `json:"candidates"`
	Oversize   int `json:"oversize"`

	Archived        int `json:"archived"`
	ArchiveFailures int `json:"archive_failures"`
	Deleted         int `json:"deleted"`
	DeleteFailures  int `json:"delete_failures"`
	// SkippedLive counts candidates whose owner turned up alive at the
	// pre-delete recheck.
	SkippedLive int `json:"skipped_live"`
	// PendingConfirmation is the candidate count held back by the bulk
	// gate; nothing was deleted when this is non-zero.
	PendingConfirmation int `json:"pending_confirmation"`

	BytesReclaimed int64 `json:"bytes_reclaimed"`

	Errors []RecordError `json:"errors,omitempty"`

	// RemovalCandidates lists the records classified for removal, for
	// dry-run inspection.
	RemovalCandidates []model.SessionRecord `json:"removal_candidates,omitempty"`
}

// Failed reports whether the run recorded any per-record failures.
func (r *Report) Failed() bool {
	return r.ArchiveFailures > 0 || r.DeleteFailures > 0
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteText renders a human-readable summary.
func (r *Report) WriteText(w io.Writer) error {
	mode := "LIVE"
	if r.DryRun {
		mode = "DRY-RUN"
	}

	fmt.Fprintf(w, "swarm-janitor run %s (%s)\n", r.RunID, mode)
	fmt.Fprintf(w, "state:            %s\n", r.State)
	fmt.Fprintf(w, "scanned:          %d (%d skipped)\n", r.Scanned, r.Skipped)
	fmt.Fprintf(w, "active:           %d\n", r.Active)
	fmt.Fprintf(w, "kept:             %d\n", r.Kept)
	fmt.Fprintf(w, "candidates:       %d\n", r.Candidates)
	if r.Oversize > 0 {
		fmt.Fprintf(w, "oversize kept:    %d\n", r.Oversize)
	}
	fmt.Fprintf(w, "archived:         %d (%d failed)\n", r.Archived, r.ArchiveFailures)
	fmt.Fprintf(w, "deleted:          %d (%d failed, %d skipped live)\n", r.Deleted, r.DeleteFailures, r.SkippedLive)
	if r.PendingConfirmation > 0 {
		fmt.Fprintf(w, "pending confirm:  %d (use --yes to proceed)\n", r.PendingConfirmation)
	}
	fmt.Fprintf(w, "space reclaimed:  %s\n", humanize.Bytes(uint64(r.BytesReclaimed)))
	fmt.Fprintf(w, "duration:         %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))

	if len(r.RemovalCandidates) > 0 && r.DryRun {
		fmt.Fprintln(w, "\nwould remove:")
		for _, rec := range r.RemovalCandidates {
			fmt.Fprintf(w, "  %s  %8s  %s\n",
				rec.LastModified.Format("2006-01-02 15:04"),
				humanize.Bytes(uint64(rec.SizeBytes)), rec.ID)
		}
	}

	for _, e := range r.Errors {
		fmt.Fprintf(w, "error [%s] %s: %s\n", e.Stage, e.SessionID, e.Error)
	}
	return nil
}
