package patient

import (
	"context"
	"sort"
	"sync"
)

// Compile-time assertion that MemStore satisfies the Store interface.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store]. It is
// suitable for tests and single-process deployments without Postgres.
type MemStore struct {
	mu      sync.RWMutex
	records []VisitRecord
	nextID  int64
}

// NewMemStore returns an initialised [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{nextID: 1}
}

// FindAll implements [Store.FindAll].
func (s *MemStore) FindAll(ctx context.Context) ([]VisitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]VisitRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Save implements [Store.Save]. IDs are assigned from a monotonically
// increasing counter.
func (s *MemStore) Save(ctx context.Context, rec VisitRecord) (VisitRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextID == 0 {
		s.nextID = 1
	}
	rec.ID = s.nextID
	s.nextID++
	s.records = append(s.records, rec)
	return rec, nil
}

// Get implements [Store.Get].
func (s *MemStore) Get(ctx context.Context, id int64) (VisitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return VisitRecord{}, ErrNotFound
}

// ExistsByNormalizedPhone implements [Store.ExistsByNormalizedPhone].
func (s *MemStore) ExistsByNormalizedPhone(ctx context.Context, norm string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if p := NormalizePhone(r.PhoneNumber); p != nil && *p == norm {
			return true, nil
		}
	}
	return false, nil
}

// CountByNormalizedPhone implements [Store.CountByNormalizedPhone].
func (s *MemStore) CountByNormalizedPhone(ctx context.Context, norm string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.records {
		if p := NormalizePhone(r.PhoneNumber); p != nil && *p == norm {
			n++
		}
	}
	return n, nil
}

// LatestPerIdentity implements [Store.LatestPerIdentity]. Records sharing a
// normalized phone collapse to the one with the highest ID; nil-phone records
// are all kept, each being its own identity.
func (s *MemStore) LatestPerIdentity(ctx context.Context) ([]VisitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]VisitRecord)
	var noPhone []VisitRecord
	for _, r := range s.records {
		p := NormalizePhone(r.PhoneNumber)
		if p == nil {
			noPhone = append(noPhone, r)
			continue
		}
		if cur, ok := latest[*p]; !ok || r.ID > cur.ID {
			latest[*p] = r
		}
	}

	out := make([]VisitRecord, 0, len(latest)+len(noPhone))
	for _, r := range latest {
		out = append(out, r)
	}
	out = append(out, noPhone...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
