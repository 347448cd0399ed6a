package retention

import (
	"errors"
	"sort"
	"time"

	"github.com/LvcidPsyche/swarm-janitor/internal/liveness"
	"github.com/LvcidPsyche/swarm-janitor/internal/model"
)

// ErrInvalidPolicy marks configuration errors caught before any scan.
var ErrInvalidPolicy = errors.New("invalid retention policy")

// Result is one classification pass. Keep, Remove and Active are pairwise
// disjoint; a record in Active never appears in Remove.
type Result struct {
	// Keep holds non-active records retained by the keep floor or by age.
	Keep []model.SessionRecord
	// Remove holds the deletion candidates.
	Remove []model.SessionRecord
	// Active holds records whose owner is alive, or whose liveness could
	// not be determined.
	Active []model.SessionRecord
	// Oversize lists kept records above the policy size threshold. This is
	// an annotation for archival, not a reclassification: every record
	// here also appears in Keep.
	Oversize []model.SessionRecord
}

// Classify partitions records under the given policy.
//
// Records owned by a live process are active and untouchable. An owner whose
// liveness cannot be determined counts as live: ambiguity must never produce
// a deletion. The remaining records are ordered most-recent-first (ties by id
// ascending, so repeated runs over unchanged input partition identically);
// the first MinKeep are retained unconditionally, then anything younger than
// MinAgeDays, and whatever is left becomes a removal candidate.
func Classify(records []model.SessionRecord, policy Policy, oracle liveness.Oracle, now time.Time) (*Result, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}

	var rest []model.SessionRecord
	for _, rec := range records {
		if rec.OwnerPID > 0 && oracle.IsAlive(rec.OwnerPID) != liveness.Dead {
			res.Active = append(res.Active, rec)
			continue
		}
		rest = append(rest, rec)
	}

	sort.Slice(rest, func(i, j int) bool {
		if !rest[i].LastModified.Equal(rest[j].LastModified) {
			return rest[i].LastModified.After(rest[j].LastModified)
		}
		return rest[i].ID < rest[j].ID
	})

	minAge := time.Duration(policy.MinAgeDays) * 24 * time.Hour
	for i, rec := range rest {
		switch {
		case i < policy.MinKeep:
			res.Keep = append(res.Keep, rec)
		case rec.Age(now) < minAge:
			res.Keep = append(res.Keep, rec)
		default:
			res.Remove = append(res.Remove, rec)
		}
	}

	if max := policy.MaxSizeBytes(); max > 0 {
		for _, rec := range res.Keep {
			if rec.SizeBytes > max {
				res.Oversize = append(res.Oversize, rec)
			}
		}
	}

	return res, nil
}
