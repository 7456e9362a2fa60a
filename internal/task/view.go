package task

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

var ErrUnknownFilter = errors.New("unknown filter")

var filterNames = [...]string{"all", "active", "completed"}

func (f Filter) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return fmt.Sprintf("Filter(%d)", int(f))
	}
	return filterNames[f]
}

// Filters lists the selectable modes in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

func ParseFilter(v string) (Filter, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return FilterAll, nil
	}
	for i, name := range filterNames {
		if v == name {
			return Filter(i), nil
		}
	}
	return FilterAll, fmt.Errorf("%w: %q", ErrUnknownFilter, v)
}

func (f Filter) Keep(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Overdue reports whether t is past due and still open on today.
func Overdue(t Task, today string) bool {
	return t.DueDate != "" && !t.Completed && t.DueDate < today
}

// View filters tasks and orders them for display: overdue tasks by due date,
// then the remaining dated tasks by due date, then undated tasks in their
// incoming order. The input slice is not modified.
func View(tasks []Task, f Filter, today string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Keep(t) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b Task) int {
		return compareForView(a, b, today)
	})
	return out
}

func compareForView(a, b Task, today string) int {
	switch {
	case a.DueDate == "" && b.DueDate == "":
		return 0
	case a.DueDate == "":
		return 1
	case b.DueDate == "":
		return -1
	}
	ao, bo := Overdue(a, today), Overdue(b, today)
	if ao != bo {
		if ao {
			return -1
		}
		return 1
	}
	return strings.Compare(a.DueDate, b.DueDate)
}

type Stats struct {
	Remaining int
	Overdue   int
}

func ComputeStats(tasks []Task, today string) Stats {
	var s Stats
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		s.Remaining++
		if Overdue(t, today) {
			s.Overdue++
		}
	}
	return s
}

func (s Stats) String() string {
	noun := "items"
	if s.Remaining == 1 {
		noun = "item"
	}
	out := fmt.Sprintf("%d %s left", s.Remaining, noun)
	if s.Overdue > 0 {
		out += fmt.Sprintf(" (%d overdue)", s.Overdue)
	}
	return out
}

// Due classifies a due-date badge.
type Due int

const (
	DueNone Due = iota
	DuePlain
	DueToday
	DueOverdue
)

func (d Due) String() string {
	switch d {
	case DuePlain:
		return "plain"
	case DueToday:
		return "today"
	case DueOverdue:
		return "overdue"
	default:
		return "none"
	}
}

// DueClass classifies t's badge. Completed tasks are never today or overdue.
func DueClass(t Task, today string) Due {
	switch {
	case t.DueDate == "":
		return DueNone
	case t.Completed:
		return DuePlain
	case t.DueDate == today:
		return DueToday
	case t.DueDate < today:
		return DueOverdue
	default:
		return DuePlain
	}
}

// DueLabel renders a due date relative to now: "Today", "Tomorrow", or a short
// month and day such as "Jan 2". Unparseable dates are returned verbatim.
func DueLabel(due string, now time.Time) string {
	today := Today(now)
	if due == today {
		return "Today"
	}
	if due == Today(now.AddDate(0, 0, 1)) {
		return "Tomorrow"
	}
	d, err := time.Parse(DateLayout, due)
	if err != nil {
		return due
	}
	return d.Format("Jan 2")
}
