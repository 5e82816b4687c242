package patient_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/autoaccru/frontdesk/internal/patient"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		if got := patient.NormalizePhone(nil); got != nil {
			t.Errorf("NormalizePhone(nil) = %q, want nil", *got)
		}
	})

	tests := []struct {
		in   string
		want string
	}{
		{"(555) 123-4567", "5551234567"},
		{"555-123-4567", "5551234567"},
		{"5551234567", "5551234567"},
		{"no digits here", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got := patient.NormalizePhone(&tt.in)
		if got == nil {
			t.Errorf("NormalizePhone(%q) = nil, want %q", tt.in, tt.want)
			continue
		}
		if *got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, *got, tt.want)
		}
	}
}

func TestService_RecordVisit_NewThenReturning(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := patient.NewService(patient.NewMemStore())

	first, err := svc.RecordVisit(ctx, patient.VisitRecord{
		FirstName:   "John",
		LastName:    "Smith",
		PhoneNumber: strPtr("(555) 123-4567"),
	})
	if err != nil {
		t.Fatalf("RecordVisit: %v", err)
	}
	if !first.NewPatient {
		t.Error("first visit NewPatient = false, want true")
	}
	if first.PhoneNumber == nil || *first.PhoneNumber != "5551234567" {
		t.Errorf("stored phone = %v, want bare digits %q", first.PhoneNumber, "5551234567")
	}

	second, err := svc.RecordVisit(ctx, patient.VisitRecord{
		FirstName:   "John",
		LastName:    "Smith",
		PhoneNumber: strPtr("555-123-4567"),
	})
	if err != nil {
		t.Fatalf("RecordVisit: %v", err)
	}
	if second.NewPatient {
		t.Error("second visit NewPatient = true, want false")
	}

	// The first record's snapshot is immutable.
	stored, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if !stored[0].NewPatient {
		t.Error("original record's NewPatient changed after a later visit")
	}
}

func TestService_RecordVisit_NilPhoneAlwaysNew(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := patient.NewService(patient.NewMemStore())

	for i := 0; i < 2; i++ {
		rec, err := svc.RecordVisit(ctx, patient.VisitRecord{FirstName: "Anon"})
		if err != nil {
			t.Fatalf("RecordVisit: %v", err)
		}
		if !rec.NewPatient {
			t.Errorf("phoneless visit %d NewPatient = false, want true (nil never matches nil)", i+1)
		}
	}
}

func TestService_RecordVoiceVisit_CompoundDuplicateRule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := patient.NewService(patient.NewMemStore())

	if _, err := svc.RecordVisit(ctx, patient.VisitRecord{
		FirstName:   "John",
		LastName:    "Smith",
		PhoneNumber: strPtr("5551234567"),
	}); err != nil {
		t.Fatalf("seed RecordVisit: %v", err)
	}

	tests := []struct {
		name    string
		in      patient.VisitRecord
		wantNew bool
	}{
		{
			name: "same phone and last name is a duplicate (household sharing)",
			in: patient.VisitRecord{
				FirstName:   "Jane",
				LastName:    "Smith",
				PhoneNumber: strPtr("555-123-4567"),
			},
			wantNew: false,
		},
		{
			name: "same phone but neither name matches is new",
			in: patient.VisitRecord{
				FirstName:   "Jane",
				LastName:    "Doe",
				PhoneNumber: strPtr("5551234567"),
			},
			wantNew: true,
		},
		{
			name: "matching names but different phone is new",
			in: patient.VisitRecord{
				FirstName:   "John",
				LastName:    "Smith",
				PhoneNumber: strPtr("9998887777"),
			},
			wantNew: true,
		},
		{
			name: "name match is case-insensitive",
			in: patient.VisitRecord{
				FirstName:   "JOHN",
				LastName:    "Nobody",
				PhoneNumber: strPtr("5551234567"),
			},
			wantNew: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := svc.RecordVoiceVisit(ctx, tt.in)
			if err != nil {
				t.Fatalf("RecordVoiceVisit: %v", err)
			}
			if rec.NewPatient != tt.wantNew {
				t.Errorf("NewPatient = %v, want %v", rec.NewPatient, tt.wantNew)
			}
		})
	}
}

func TestService_RecordVoiceVisit_KeepsGroupedPhoneForm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := patient.NewService(patient.NewMemStore())

	rec, err := svc.RecordVoiceVisit(ctx, patient.VisitRecord{
		FirstName:   "John",
		LastName:    "Smith",
		PhoneNumber: strPtr("555-123-4567"),
	})
	if err != nil {
		t.Fatalf("RecordVoiceVisit: %v", err)
	}
	if rec.PhoneNumber == nil || *rec.PhoneNumber != "555-123-4567" {
		t.Errorf("stored phone = %v, want the grouped form preserved", rec.PhoneNumber)
	}
}

func TestService_VisitStats_LiveRecomputation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := patient.NewService(patient.NewMemStore())

	first, err := svc.RecordVisit(ctx, patient.VisitRecord{
		FirstName:   "John",
		PhoneNumber: strPtr("5551234567"),
	})
	if err != nil {
		t.Fatalf("RecordVisit: %v", err)
	}

	stats, err := svc.VisitStats(ctx, first.ID)
	if err != nil {
		t.Fatalf("VisitStats: %v", err)
	}
	if stats.VisitCount != 1 || !stats.FirstTimeNew {
		t.Errorf("stats after one visit = %+v, want {VisitCount:1 FirstTimeNew:true}", stats)
	}

	if _, err := svc.RecordVisit(ctx, patient.VisitRecord{
		FirstName:   "John",
		PhoneNumber: strPtr("5551234567"),
	}); err != nil {
		t.Fatalf("RecordVisit: %v", err)
	}

	// Re-querying the ORIGINAL record reflects the live count even though its
	// stored NewPatient snapshot stays true.
	stats, err = svc.VisitStats(ctx, first.ID)
	if err != nil {
		t.Fatalf("VisitStats: %v", err)
	}
	if stats.VisitCount != 2 || stats.FirstTimeNew {
		t.Errorf("stats after two visits = %+v, want {VisitCount:2 FirstTimeNew:false}", stats)
	}

	got, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if !got[0].NewPatient {
		t.Error("original record's NewPatient snapshot changed, want immutable")
	}
}

func TestService_VisitStats_NotFound(t *testing.T) {
	t.Parallel()

	svc := patient.NewService(patient.NewMemStore())
	_, err := svc.VisitStats(context.Background(), 42)
	if !errors.Is(err, patient.ErrNotFound) {
		t.Errorf("VisitStats(42) error = %v, want ErrNotFound", err)
	}
}

// Concurrent intakes for the same phone must produce exactly one record with
// NewPatient = true; the per-identity lock makes the exists-check-then-insert
// sequence a critical section.
func TestService_RecordVisit_ConcurrentSamePhone(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := patient.NewService(patient.NewMemStore())

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.RecordVisit(ctx, patient.VisitRecord{
				FirstName:   "John",
				PhoneNumber: strPtr("555-123-4567"),
			})
			if err != nil {
				t.Errorf("RecordVisit: %v", err)
			}
		}()
	}
	wg.Wait()

	recs, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	newCount := 0
	for _, r := range recs {
		if r.NewPatient {
			newCount++
		}
	}
	if newCount != 1 {
		t.Errorf("records with NewPatient=true = %d, want exactly 1", newCount)
	}
}
