package weekclock_test

import (
	"testing"
	"time"

	"github.com/rollcallhq/rollcall/internal/app/system/weekclock"
)

func TestBoundaries_AllWeekdays(t *testing.T) {
	// 2024-02-05 is a Monday; walk every day of that week and verify the
	// same Monday/Sunday pair comes back.
	wantMonday := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2024, 2, 11, 23, 59, 59, 999999999, time.UTC)

	for d := 0; d < 7; d++ {
		now := wantMonday.AddDate(0, 0, d).Add(13*time.Hour + 37*time.Minute)
		monday, sunday := weekclock.Boundaries(now)
		if !monday.Equal(wantMonday) {
			t.Errorf("day %d: monday = %v, want %v", d, monday, wantMonday)
		}
		if !sunday.Equal(wantSunday) {
			t.Errorf("day %d: sunday = %v, want %v", d, sunday, wantSunday)
		}
	}
}

func TestBoundaries_MondayIsStartOfDay(t *testing.T) {
	monday, sunday := weekclock.Boundaries(time.Date(2023, 12, 31, 5, 0, 0, 0, time.UTC)) // a Sunday
	if monday.Weekday() != time.Monday {
		t.Errorf("week start weekday = %v, want Monday", monday.Weekday())
	}
	if h, m, s := monday.Clock(); h != 0 || m != 0 || s != 0 {
		t.Errorf("monday clock = %02d:%02d:%02d, want 00:00:00", h, m, s)
	}
	if sunday.Weekday() != time.Sunday {
		t.Errorf("week end weekday = %v, want Sunday", sunday.Weekday())
	}
	// Year boundary: Sunday 2023-12-31 belongs to the week starting Monday 2023-12-25.
	if want := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC); !monday.Equal(want) {
		t.Errorf("monday = %v, want %v", monday, want)
	}
}

func TestBoundaries_SundayIsEndOfDay(t *testing.T) {
	_, sunday := weekclock.Boundaries(time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC))
	if h, m, s := sunday.Clock(); h != 23 || m != 59 || s != 59 {
		t.Errorf("sunday clock = %02d:%02d:%02d, want 23:59:59", h, m, s)
	}
}

func TestLabel(t *testing.T) {
	got := weekclock.Label(time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))
	want := "Неделя 5-11 Февраля 2024"
	if got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}

	// Week spanning two months.
	got = weekclock.Label(time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC))
	want = "Неделя 29 Января - 4 Февраля 2024"
	if got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}
}
