package booking

import "testing"

func TestQuote(t *testing.T) {
	cases := []struct {
		name        string
		start, end  string
		perDayCents int64
		want        int64
	}{
		{"three days", "2026-05-01", "2026-05-04", 2000, 6000},
		{"one day", "2026-05-01", "2026-05-02", 2000, 2000},
		{"same day charges minimum one day", "2026-05-01", "2026-05-01", 2000, 2000},
		{"week", "2026-05-01", "2026-05-08", 1500, 10500},
		{"free vehicle", "2026-05-01", "2026-05-04", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := mustRange(t, tc.start, tc.end)
			if got := Quote(r, tc.perDayCents); got != tc.want {
				t.Fatalf("Quote(%s, %d) = %d, want %d", r, tc.perDayCents, got, tc.want)
			}
		})
	}
}
