package booking

import (
	"errors"
	"testing"
	"time"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := ParseDateRange(start, end)
	if err != nil {
		t.Fatalf("ParseDateRange(%s, %s): %v", start, end, err)
	}
	return r
}

func TestParseDateRange(t *testing.T) {
	r := mustRange(t, "2026-03-10", "2026-03-15")
	if r.StartString() != "2026-03-10" || r.EndString() != "2026-03-15" {
		t.Fatalf("round trip mismatch: %s", r)
	}
	if r.Start.Hour() != 0 || r.Start.Location() != time.UTC {
		t.Fatalf("expected midnight UTC start, got %v", r.Start)
	}

	if _, err := ParseDateRange("2026-03-15", "2026-03-10"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for reversed range, got %v", err)
	}
	for _, bad := range []string{"", "10-03-2026", "2026/03/10", "2026-3-10", "not-a-date", "2026-03-10T00:00:00Z"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("ParseDate(%q): expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestNewDateRangeNormalizes(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	start := time.Date(2026, 6, 1, 14, 30, 0, 0, loc)
	end := time.Date(2026, 6, 3, 9, 0, 0, 0, loc)
	r, err := NewDateRange(start, end)
	if err != nil {
		t.Fatalf("NewDateRange: %v", err)
	}
	if r.StartString() != "2026-06-01" || r.EndString() != "2026-06-03" {
		t.Fatalf("expected normalized endpoints, got %s", r)
	}
}

// The overlap detector treats both endpoints as inclusive, so touching
// ranges conflict: a vehicle returned on a day cannot be handed out again
// that same day.
func TestOverlaps(t *testing.T) {
	base := mustRange(t, "2026-03-10", "2026-03-15")

	cases := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"identical", "2026-03-10", "2026-03-15", true},
		{"contained", "2026-03-11", "2026-03-14", true},
		{"containing", "2026-03-01", "2026-03-31", true},
		{"left overhang", "2026-03-05", "2026-03-12", true},
		{"right overhang", "2026-03-13", "2026-03-20", true},
		{"touching start", "2026-03-05", "2026-03-10", true},
		{"touching end", "2026-03-15", "2026-03-20", true},
		{"single day inside", "2026-03-12", "2026-03-12", true},
		{"day before", "2026-03-01", "2026-03-09", false},
		{"day after", "2026-03-16", "2026-03-20", false},
		{"far away", "2026-07-01", "2026-07-10", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other := mustRange(t, tc.start, tc.end)
			if got := base.Overlaps(other); got != tc.want {
				t.Fatalf("(%s).Overlaps(%s) = %v, want %v", base, other, got, tc.want)
			}
			// Overlap is symmetric.
			if got := other.Overlaps(base); got != tc.want {
				t.Fatalf("(%s).Overlaps(%s) = %v, want %v", other, base, got, tc.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	win := mustRange(t, "2026-03-01", "2026-03-31")
	if !win.Contains(mustRange(t, "2026-03-01", "2026-03-31")) {
		t.Fatalf("expected window to contain itself")
	}
	if !win.Contains(mustRange(t, "2026-03-10", "2026-03-15")) {
		t.Fatalf("expected window to contain inner range")
	}
	if win.Contains(mustRange(t, "2026-02-28", "2026-03-05")) {
		t.Fatalf("expected overhanging range not contained")
	}
	if win.Contains(mustRange(t, "2026-03-20", "2026-04-02")) {
		t.Fatalf("expected overhanging range not contained")
	}
}

func TestDays(t *testing.T) {
	if d := mustRange(t, "2026-03-10", "2026-03-13").Days(); d != 3 {
		t.Fatalf("expected 3 days, got %d", d)
	}
	if d := mustRange(t, "2026-03-10", "2026-03-10").Days(); d != 0 {
		t.Fatalf("expected 0 days for single-day range, got %d", d)
	}
}
