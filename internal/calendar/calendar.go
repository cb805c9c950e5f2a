package calendar

import (
	"time"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/models"
)

// The simulated month runs for SimulationDays days starting at BaseDate; the
// picker maps real calendar dates onto 1-based simulation days.
var BaseDate = time.Date(2025, time.September, 16, 0, 0, 0, 0, time.UTC)

const SimulationDays = 30

// SimulationDay maps a calendar date to its 1-based simulation day. ok is
// false for dates outside the simulated window.
func SimulationDay(date time.Time) (int, bool) {
	day := truncate(date)
	diff := int(day.Sub(BaseDate).Hours() / 24)
	if diff < 0 || diff >= SimulationDays {
		return 0, false
	}
	return diff + 1, true
}

// DateForDay is the inverse of SimulationDay.
func DateForDay(day int) (time.Time, bool) {
	if day < 1 || day > SimulationDays {
		return time.Time{}, false
	}
	return BaseDate.AddDate(0, 0, day-1), true
}

// MonthGrid builds the six-week grid the date picker renders for one month.
// The grid starts on the Sunday at or before the first of the month.
func MonthGrid(year int, month time.Month, selectedDay int, today time.Time) []models.CalendarDay {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := firstOfMonth.AddDate(0, 0, -int(firstOfMonth.Weekday()))
	todayDate := truncate(today)

	grid := make([]models.CalendarDay, 0, 6*7)
	current := start
	for week := 0; week < 6; week++ {
		for weekday := 0; weekday < 7; weekday++ {
			cell := models.CalendarDay{
				Date:           current,
				Day:            current.Day(),
				IsCurrentMonth: current.Month() == month,
				IsToday:        current.Equal(todayDate),
			}
			if simDay, ok := SimulationDay(current); ok {
				cell.SimulationDay = &simDay
				cell.IsSelected = simDay == selectedDay
			}
			grid = append(grid, cell)
			current = current.AddDate(0, 0, 1)
		}
	}
	return grid
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
