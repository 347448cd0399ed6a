// Package model defines the core session data types.
package model

import "time"

// SessionRecord describes one on-disk session transcript. Records are
// constructed by the scanner and never mutated afterwards; classification
// produces new groupings, not record changes.
type SessionRecord struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	LastModified time.Time `json:"last_modified"`
	SizeBytes    int64     `json:"size_bytes"`
	// OwnerPID is the process that owns the session per the swarm
	// manifest, or 0 when no owner is recorded.
	OwnerPID int `json:"owner_pid,omitempty"`
}

// Age returns how long ago the record was last modified.
func (r SessionRecord) Age(now time.Time) time.Duration {
	return now.Sub(r.LastModified)
}

// SkippedEntry records a directory entry the scanner could not turn into a
// SessionRecord. The scan continues past these.
type SkippedEntry struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}
