package cache

import (
	"testing"
	"time"
)

func TestTimeUntilNext(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CST", 8*60*60)

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"before the hour", time.Date(2023, 8, 29, 14, 0, 0, 0, loc), time.Hour},
		{"exactly at the hour rolls to tomorrow", time.Date(2023, 8, 29, 15, 0, 0, 0, loc), 24 * time.Hour},
		{"after the hour", time.Date(2023, 8, 29, 16, 30, 0, 0, loc), 22*time.Hour + 30*time.Minute},
		{"other zone input is converted", time.Date(2023, 8, 29, 6, 0, 0, 0, time.UTC), time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TimeUntilNext(tt.now, 15, loc); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTimeUntilNextMarketClose_AlwaysPositive(t *testing.T) {
	t.Parallel()

	for i := 0; i < 10; i++ {
		d := TimeUntilNextMarketClose()
		if d <= 0 || d > 24*time.Hour {
			t.Errorf("iteration %d: expected duration in (0, 24h], got %v", i, d)
		}
	}
}
