package patient

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record with the requested ID exists.
var ErrNotFound = errors.New("patient record not found")

// Store is the append-only visit record store. Implementations must be safe
// for concurrent use and must assign monotonically increasing IDs in Save so
// that "latest per identity = highest ID" holds.
//
// The normalized-phone queries treat a nil phone as matching nothing: a
// record without a phone is its own identity and is never grouped or matched
// against another nil-phone record.
type Store interface {
	// FindAll returns every visit record ordered by ascending ID.
	FindAll(ctx context.Context) ([]VisitRecord, error)

	// Save persists a new record, assigns its ID, and returns it. The input's
	// ID field is ignored.
	Save(ctx context.Context, rec VisitRecord) (VisitRecord, error)

	// Get returns the record with the given ID, or [ErrNotFound].
	Get(ctx context.Context, id int64) (VisitRecord, error)

	// ExistsByNormalizedPhone reports whether any record's digit-stripped
	// phone equals norm.
	ExistsByNormalizedPhone(ctx context.Context, norm string) (bool, error)

	// CountByNormalizedPhone counts records whose digit-stripped phone equals
	// norm.
	CountByNormalizedPhone(ctx context.Context, norm string) (int, error)

	// LatestPerIdentity returns at most one record per distinct normalized
	// phone — the highest-ID record of each group — ordered by descending ID.
	// Records with a nil phone each form their own group.
	LatestPerIdentity(ctx context.Context) ([]VisitRecord, error)
}
