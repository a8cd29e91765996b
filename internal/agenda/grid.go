package agenda

import (
	"log"
	"time"
)

// DaysPerWeek is the number of columns of the agenda grid (Sunday first).
const DaysPerWeek = 7

// MonthGrid returns the calendar cells needed to render the month of ref as a
// 7-column grid starting on Sunday: the trailing days of the previous month,
// every day of ref's month, and the leading days of the next month. The result
// length is always a multiple of 7 and the dates are consecutive.
// A zero ref falls back to the current date; the fallback is logged so a bad
// caller is visible in the server log instead of producing a broken grid.
func MonthGrid(ref time.Time) []time.Time {
	if ref.IsZero() {
		log.Printf("[agenda] MonthGrid: fecha de referencia inválida, usando fecha actual")
		ref = time.Now()
	}
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1)

	leading := int(first.Weekday())        // days borrowed from the previous month
	trailing := 6 - int(last.Weekday())    // days borrowed from the next month
	total := leading + last.Day() + trailing

	cells := make([]time.Time, 0, total)
	for d := first.AddDate(0, 0, -leading); len(cells) < total; d = d.AddDate(0, 0, 1) {
		cells = append(cells, d)
	}
	return cells
}

// LeadingDays returns how many cells of the grid belong to the previous month,
// i.e. the index of the 1st of ref's month inside MonthGrid(ref).
func LeadingDays(ref time.Time) int {
	if ref.IsZero() {
		ref = time.Now()
	}
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return int(first.Weekday())
}
