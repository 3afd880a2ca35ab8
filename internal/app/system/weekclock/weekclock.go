// internal/app/system/weekclock/weekclock.go

// Package weekclock computes the canonical Monday–Sunday boundaries used
// by the week lifecycle. The computation is weekday-relative arithmetic in
// UTC, independent of locale.
package weekclock

import (
	"fmt"
	"time"
)

// Boundaries returns the Monday 00:00:00 and Sunday 23:59:59.999999999
// (UTC) of the week containing now.
func Boundaries(now time.Time) (monday, sunday time.Time) {
	now = now.UTC()

	// time.Weekday has Sunday=0; the week starts on Monday.
	offset := int(now.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}

	day := now.AddDate(0, 0, -offset)
	monday = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	sunday = monday.AddDate(0, 0, 6).Add(24*time.Hour - time.Nanosecond)
	return monday, sunday
}

var monthsRu = [...]string{
	"Января", "Февраля", "Марта", "Апреля", "Мая", "Июня",
	"Июля", "Августа", "Сентября", "Октября", "Ноября", "Декабря",
}

// Label formats a human week label for the week starting at monday,
// e.g. "Неделя 3-9 Февраля 2024".
func Label(monday time.Time) string {
	sunday := monday.AddDate(0, 0, 6)
	if monday.Month() == sunday.Month() {
		return fmt.Sprintf("Неделя %d-%d %s %d",
			monday.Day(), sunday.Day(), monthsRu[monday.Month()-1], monday.Year())
	}
	return fmt.Sprintf("Неделя %d %s - %d %s %d",
		monday.Day(), monthsRu[monday.Month()-1],
		sunday.Day(), monthsRu[sunday.Month()-1], monday.Year())
}
