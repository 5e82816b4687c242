package intake_test

import (
	"testing"

	"github.com/autoaccru/frontdesk/internal/intake"
)

func strPtr(s string) *string { return &s }

func TestExtract_FullTranscript(t *testing.T) {
	t.Parallel()

	c := intake.Extract("my name is john smith my phone number is 5551234567 my address is 12 oak street")

	if c.FirstName != "John" {
		t.Errorf("FirstName = %q, want %q", c.FirstName, "John")
	}
	if c.LastName != "Smith" {
		t.Errorf("LastName = %q, want %q", c.LastName, "Smith")
	}
	if c.PhoneNumber == nil || *c.PhoneNumber != "555-123-4567" {
		t.Errorf("PhoneNumber = %v, want %q", c.PhoneNumber, "555-123-4567")
	}
	if c.Address != "12 Oak Street" {
		t.Errorf("Address = %q, want %q", c.Address, "12 Oak Street")
	}
}

func TestExtract_Names(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        string
		wantFirst string
		wantLast  string
	}{
		{
			name:      "full name pattern",
			in:        "my name is jane doe",
			wantFirst: "Jane",
			wantLast:  "Doe",
		},
		{
			name:      "split patterns fire independently",
			in:        "my first name is jane and my last name is doe",
			wantFirst: "Jane",
			wantLast:  "Doe",
		},
		{
			name:      "first name only",
			in:        "first name is jane",
			wantFirst: "Jane",
			wantLast:  "",
		},
		{
			name:      "last name only",
			in:        "last name is doe",
			wantFirst: "",
			wantLast:  "Doe",
		},
		{
			name:      "full pattern takes precedence over split patterns",
			in:        "my name is jane doe but first name is other",
			wantFirst: "Jane",
			wantLast:  "Doe",
		},
		{
			name:      "no name",
			in:        "my phone number is 5551234567",
			wantFirst: "",
			wantLast:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := intake.Extract(tt.in)
			if c.FirstName != tt.wantFirst {
				t.Errorf("Extract(%q).FirstName = %q, want %q", tt.in, c.FirstName, tt.wantFirst)
			}
			if c.LastName != tt.wantLast {
				t.Errorf("Extract(%q).LastName = %q, want %q", tt.in, c.LastName, tt.wantLast)
			}
		})
	}
}

func TestExtract_Phone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want *string
	}{
		{
			name: "bare ten digits",
			in:   "my phone number is 5551234567",
			want: strPtr("555-123-4567"),
		},
		{
			name: "formatted with parens and hyphens",
			in:   "my number is (555) 123-4567",
			want: strPtr("555-123-4567"),
		},
		{
			name: "call me at trigger",
			in:   "call me at 555 123 4567",
			want: strPtr("555-123-4567"),
		},
		{
			name: "contact number trigger",
			in:   "contact number is 555-123-4567",
			want: strPtr("555-123-4567"),
		},
		{
			name: "more than ten digits truncates to first ten",
			in:   "my phone number is 555123456789",
			want: strPtr("555-123-4567"),
		},
		{
			name: "nine digits leaves phone unset",
			in:   "my phone number is 555123456",
			want: nil,
		},
		{
			name: "no trigger phrase",
			in:   "5551234567",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := intake.Extract(tt.in)
			switch {
			case tt.want == nil && c.PhoneNumber != nil:
				t.Errorf("Extract(%q).PhoneNumber = %q, want nil", tt.in, *c.PhoneNumber)
			case tt.want != nil && c.PhoneNumber == nil:
				t.Errorf("Extract(%q).PhoneNumber = nil, want %q", tt.in, *tt.want)
			case tt.want != nil && *c.PhoneNumber != *tt.want:
				t.Errorf("Extract(%q).PhoneNumber = %q, want %q", tt.in, *c.PhoneNumber, *tt.want)
			}
		})
	}
}

func TestExtract_Address(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "captures to end of string including leading number",
			in:   "my address is 12 oak street",
			want: "12 Oak Street",
		},
		{
			name: "i live at trigger",
			in:   "i live at 42 elm avenue",
			want: "42 Elm Avenue",
		},
		{
			name: "terminates at the word and",
			in:   "i live at 12 oak street and my phone number is 5551234567",
			want: "12 Oak Street",
		},
		{
			name: "address containing the word and truncates",
			in:   "my address is 9 smith and sons street",
			want: "9 Smith",
		},
		{
			name: "no trigger",
			in:   "12 oak street",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := intake.Extract(tt.in).Address; got != tt.want {
				t.Errorf("Extract(%q).Address = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty candidate gets all sentinels", func(t *testing.T) {
		t.Parallel()
		c := intake.ApplyDefaults(intake.Extract(""))
		if c.FirstName != "Unknown" || c.LastName != "Unknown" {
			t.Errorf("names = %q/%q, want Unknown/Unknown", c.FirstName, c.LastName)
		}
		if c.Address != "Unspecified" {
			t.Errorf("Address = %q, want Unspecified", c.Address)
		}
		if c.PhoneNumber != nil {
			t.Errorf("PhoneNumber = %q, want nil", *c.PhoneNumber)
		}
	})

	t.Run("blank phone is nulled", func(t *testing.T) {
		t.Parallel()
		c := intake.ApplyDefaults(intake.Candidate{PhoneNumber: strPtr("  ")})
		if c.PhoneNumber != nil {
			t.Errorf("PhoneNumber = %q, want nil", *c.PhoneNumber)
		}
	})

	t.Run("resolved fields untouched", func(t *testing.T) {
		t.Parallel()
		in := intake.Candidate{
			FirstName:   "Jane",
			LastName:    "Doe",
			PhoneNumber: strPtr("555-123-4567"),
			Address:     "12 Oak Street",
		}
		got := intake.ApplyDefaults(in)
		if got != in {
			t.Errorf("ApplyDefaults(%+v) = %+v, want unchanged", in, got)
		}
	})
}
