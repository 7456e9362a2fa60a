// Package calendar lays out the current month as a Sunday-first grid annotated
// with how many tasks fall due on each day.
package calendar

import (
	"fmt"
	"time"

	"taskcal/internal/task"
)

// Weekdays are the column headers, Sunday first.
var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Cell is one grid slot. Day is zero for padding cells.
type Cell struct {
	Day      int
	Date     string
	Count    int
	Today    bool
	HasTasks bool
}

func (c Cell) Blank() bool { return c.Day == 0 }

type Month struct {
	Year  int
	Month time.Month
	Weeks [][7]Cell
	// Counts maps due dates to the number of tasks due then, across all months.
	Counts map[string]int
}

func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// Counts tallies tasks by due date. Completed tasks count too.
func Counts(tasks []task.Task) map[string]int {
	counts := map[string]int{}
	for _, t := range tasks {
		if t.DueDate != "" {
			counts[t.DueDate]++
		}
	}
	return counts
}

// DaysIn returns the number of days in month m of year.
func DaysIn(year int, m time.Month) int {
	// Day 0 of the following month normalises to the last day of m.
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Build lays out the month containing now.
func Build(tasks []task.Task, now time.Time) Month {
	year, month, today := now.Date()
	counts := Counts(tasks)

	lead := int(time.Date(year, month, 1, 0, 0, 0, 0, now.Location()).Weekday())
	days := DaysIn(year, month)

	cells := make([]Cell, lead, lead+days+6)
	for d := 1; d <= days; d++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, int(month), d)
		n := counts[date]
		cells = append(cells, Cell{
			Day:      d,
			Date:     date,
			Count:    n,
			Today:    d == today,
			HasTasks: n > 0,
		})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, Cell{})
	}

	weeks := make([][7]Cell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		var w [7]Cell
		copy(w[:], cells[i:i+7])
		weeks = append(weeks, w)
	}
	return Month{Year: year, Month: month, Weeks: weeks, Counts: counts}
}

// Cell returns the cell for day, if the month has one.
func (m Month) Cell(day int) (Cell, bool) {
	for _, w := range m.Weeks {
		for _, c := range w {
			if c.Day == day && !c.Blank() {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// Pick returns the date to prefill when day is chosen. The current day and
// days outside the month are not pickable.
func (m Month) Pick(day int) (string, bool) {
	c, ok := m.Cell(day)
	if !ok || c.Today {
		return "", false
	}
	return c.Date, true
}
