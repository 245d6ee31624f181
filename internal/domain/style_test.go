package domain

import (
	"errors"
	"testing"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		raw  string
		want StyleTag
	}{
		{"Pixar", StylePixar},
		{"comic art", StyleComicArt},
		{"  COMIC   ART ", StyleComicArt},
		{"animation", StyleAnimation},
		{"vintage", StyleVintage},
		{"Realistic", StyleRealistic},
	}
	for _, tc := range tests {
		got, err := ParseStyle(tc.raw)
		if err != nil {
			t.Fatalf("ParseStyle(%q) error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseStyle(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}

	if _, err := ParseStyle("Cubism"); !errors.Is(err, ErrUnknownStyle) {
		t.Fatalf("expected ErrUnknownStyle, got %v", err)
	}
}

func TestParseResolution(t *testing.T) {
	for raw, want := range map[string]Resolution{
		"512x512":         Resolution512,
		" 1024x1024 ":     Resolution1024,
		"1536x1536 (Pro)": Resolution1536,
		"1536x1536":       Resolution1536,
	} {
		got, err := ParseResolution(raw)
		if err != nil || got != want {
			t.Fatalf("ParseResolution(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseResolution("4k"); !errors.Is(err, ErrUnknownResolution) {
		t.Fatalf("expected ErrUnknownResolution, got %v", err)
	}
	if Resolution1536.Side() != 1536 || Resolution512.Side() != 512 || Resolution("").Side() != 1024 {
		t.Fatalf("unexpected sides")
	}
}

func TestClampConsistency(t *testing.T) {
	for in, want := range map[int]int{-5: 0, 0: 0, 70: 70, 100: 100, 250: 100} {
		if got := ClampConsistency(in); got != want {
			t.Fatalf("ClampConsistency(%d) = %d, want %d", in, got, want)
		}
	}
}
