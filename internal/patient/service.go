package patient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// phoneLocks serialises the exists-check-then-insert sequence per normalized
// phone. Without it, two concurrent intakes for the same phone can both
// observe "does not exist" and both insert with NewPatient = true, leaving
// two "new" records for one identity. Entries are never evicted; the map is
// bounded by the number of distinct phones seen by this process.
type phoneLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPhoneLocks() *phoneLocks {
	return &phoneLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for norm and returns its unlock function.
func (pl *phoneLocks) acquire(norm string) func() {
	pl.mu.Lock()
	l, ok := pl.locks[norm]
	if !ok {
		l = &sync.Mutex{}
		pl.locks[norm] = l
	}
	pl.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Service is the identity reconciler. It decides new-vs-returning status at
// intake time, computes live visit statistics, and exposes the
// latest-per-identity projection. All methods are safe for concurrent use.
type Service struct {
	store Store
	locks *phoneLocks
}

// NewService creates a [Service] on top of the given store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		locks: newPhoneLocks(),
	}
}

// RecordVisit persists a manually submitted visit. The incoming phone is
// reduced to bare digits and stored in that form; NewPatient is the negation
// of "a record with this normalized phone already exists". A nil phone never
// matches anything, so a phoneless intake is always a new patient.
func (s *Service) RecordVisit(ctx context.Context, in VisitRecord) (VisitRecord, error) {
	norm := NormalizePhone(in.PhoneNumber)

	if norm != nil {
		unlock := s.locks.acquire(*norm)
		defer unlock()
	}

	exists := false
	if norm != nil {
		var err error
		exists, err = s.store.ExistsByNormalizedPhone(ctx, *norm)
		if err != nil {
			return VisitRecord{}, fmt.Errorf("patient: record visit: %w", err)
		}
	}

	rec, err := s.store.Save(ctx, VisitRecord{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: norm,
		Address:     in.Address,
		NewPatient:  !exists,
	})
	if err != nil {
		return VisitRecord{}, fmt.Errorf("patient: record visit: %w", err)
	}

	slog.Info("visit recorded",
		"id", rec.ID,
		"new_patient", rec.NewPatient,
	)
	return rec, nil
}

// RecordVoiceVisit persists a voice-sourced visit. Duplicate detection here
// is broader than the pure phone match of [Service.RecordVisit]: an existing
// record counts as a duplicate iff its normalized phone matches AND at least
// one of first or last name matches case-insensitively. The OR on names
// covers household phone sharing — a spouse calling from the family number
// with a matching last name is "seen before", not new.
//
// The candidate's phone is stored as given (the extractor's grouped form),
// not digit-stripped; identity queries normalize at comparison time.
func (s *Service) RecordVoiceVisit(ctx context.Context, in VisitRecord) (VisitRecord, error) {
	norm := NormalizePhone(in.PhoneNumber)

	if norm != nil {
		unlock := s.locks.acquire(*norm)
		defer unlock()
	}

	existing, err := s.store.FindAll(ctx)
	if err != nil {
		return VisitRecord{}, fmt.Errorf("patient: record voice visit: %w", err)
	}

	dup := false
	for _, ex := range existing {
		if !samePhone(NormalizePhone(ex.PhoneNumber), norm) {
			continue
		}
		if strings.EqualFold(ex.FirstName, in.FirstName) || strings.EqualFold(ex.LastName, in.LastName) {
			dup = true
			break
		}
	}

	rec, err := s.store.Save(ctx, VisitRecord{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		NewPatient:  !dup,
	})
	if err != nil {
		return VisitRecord{}, fmt.Errorf("patient: record voice visit: %w", err)
	}

	slog.Info("voice visit recorded",
		"id", rec.ID,
		"new_patient", rec.NewPatient,
	)
	return rec, nil
}

// VisitStats loads the record with the given ID and recomputes its visit
// history live: how many records share its normalized phone, and whether
// this identity has exactly one visit. The result can disagree with the
// record's stored NewPatient snapshot once later visits arrive — that is the
// intended history-vs-live split, not a staleness bug.
//
// Returns [ErrNotFound] (wrapped) for an unknown ID.
func (s *Service) VisitStats(ctx context.Context, id int64) (Stats, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Stats{}, fmt.Errorf("patient: visit stats for %d: %w", id, err)
	}

	norm := NormalizePhone(rec.PhoneNumber)
	visits := 0
	if norm != nil {
		visits, err = s.store.CountByNormalizedPhone(ctx, *norm)
		if err != nil {
			return Stats{}, fmt.Errorf("patient: visit stats for %d: %w", id, err)
		}
	}

	return Stats{
		VisitCount:   visits,
		FirstTimeNew: visits == 1,
	}, nil
}

// ListLatestPerIdentity returns the store's latest-per-identity projection:
// at most one record per normalized phone, the highest-ID one, ordered by
// descending ID.
func (s *Service) ListLatestPerIdentity(ctx context.Context) ([]VisitRecord, error) {
	recs, err := s.store.LatestPerIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("patient: list latest per identity: %w", err)
	}
	return recs, nil
}

// ListAll returns the full append-only visit log.
func (s *Service) ListAll(ctx context.Context) ([]VisitRecord, error) {
	recs, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("patient: list all: %w", err)
	}
	return recs, nil
}

// samePhone reports whether two normalized phones denote the same identity.
// nil never matches, including against another nil.
func samePhone(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
