// Package retention decides which sessions are kept and which become
// deletion candidates.
package retention

import "fmt"

// Policy is the retention configuration for one run. It is validated once
// and treated as immutable afterwards.
type Policy struct {
	// MinAgeDays: only sessions strictly older than this are eligible for
	// removal.
	MinAgeDays int
	// MinKeep: the N most recently modified sessions are always retained,
	// regardless of age.
	MinKeep int
	// MaxSizeMB: when > 0, kept sessions above this size are flagged for
	// archival. Never makes a session eligible for removal.
	MaxSizeMB int64
}

// Validate rejects policies that could never be intended.
func (p Policy) Validate() error {
	if p.MinAgeDays < 0 {
		return fmt.Errorf("%w: min_age_days must be >= 0, got %d", ErrInvalidPolicy, p.MinAgeDays)
	}
	if p.MinKeep < 0 {
		return fmt.Errorf("%w: min_keep must be >= 0, got %d", ErrInvalidPolicy, p.MinKeep)
	}
	if p.MaxSizeMB < 0 {
		return fmt.Errorf("%w: max_size_mb must be >= 0, got %d", ErrInvalidPolicy, p.MaxSizeMB)
	}
	return nil
}

// MaxSizeBytes returns the oversize threshold in bytes, or 0 when unset.
func (p Policy) MaxSizeBytes() int64 {
	return p.MaxSizeMB * 1024 * 1024
}
