package slug

import (
	"errors"
	"testing"

	"server/internal/domain"
)

func TestDerive(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Diwali Celebration", "diwali-celebration"},
		{"numbers", "Modi 2024 Campaign", "modi-2024-campaign"},
		{"collapses whitespace", "Rally   Day\tSpecial", "rally-day-special"},
		{"strips punctuation", "Holi! (Colors & Joy)", "holi-colors-joy"},
		{"keeps existing hyphens", "pre-built name", "pre-built-name"},
		{"trims surrounding space", "  Victory Lap  ", "victory-lap"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Derive(tc.in)
			if err != nil {
				t.Fatalf("Derive(%q) returned error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("Derive(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDeriveDeterministic(t *testing.T) {
	first, err := Derive("Diwali Celebration")
	if err != nil {
		t.Fatalf("Derive returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Derive("Diwali Celebration")
		if err != nil {
			t.Fatalf("Derive returned error: %v", err)
		}
		if again != first {
			t.Fatalf("Derive not deterministic: %q vs %q", again, first)
		}
	}
}

func TestDeriveEmptyResult(t *testing.T) {
	for _, in := range []string{"", "   ", "!!!", "नमस्ते"} {
		if _, err := Derive(in); !errors.Is(err, domain.ErrEmptySlug) {
			t.Fatalf("Derive(%q) error = %v, want ErrEmptySlug", in, err)
		}
	}
}
