// Package task owns the task collection: the record type, the write-through
// store, and the pure filter/sort pipeline the views are derived from.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format of due dates and of "today".
const DateLayout = "2006-01-02"

type Task struct {
	ID        int64
	Text      string
	Completed bool
	// DueDate is YYYY-MM-DD, or empty when the task has none.
	DueDate string
}

// wireTask is the persisted shape. An absent due date is written as null.
type wireTask struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	DueDate   *string `json:"dueDate"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	w := wireTask{ID: t.ID, Text: t.Text, Completed: t.Completed}
	if t.DueDate != "" {
		due := t.DueDate
		w.DueDate = &due
	}
	return json.Marshal(w)
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var w wireTask
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = Task{ID: w.ID, Text: w.Text, Completed: w.Completed}
	if w.DueDate != nil {
		t.DueDate = *w.DueDate
	}
	return nil
}

// Today formats t as a due-date key in t's location.
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDue validates a user-entered due date. Empty input means no due date.
func ParseDue(v string) (string, error) {
	if v == "" {
		return "", nil
	}
	d, err := time.Parse(DateLayout, v)
	if err != nil {
		return "", err
	}
	return d.Format(DateLayout), nil
}

var (
	ErrBadDue  = errors.New("due date must be YYYY-MM-DD")
	ErrPastDue = errors.New("due date is in the past")
)

// CheckDue validates a due date entered by a user. Dates before today are
// refused unless they equal current, the value the task already has.
func CheckDue(v, current, today string) (string, error) {
	due, err := ParseDue(strings.TrimSpace(v))
	if err != nil {
		return "", ErrBadDue
	}
	if due != "" && due != current && due < today {
		return "", fmt.Errorf("%w: cannot be before %s", ErrPastDue, today)
	}
	return due, nil
}

func encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	return json.Marshal(tasks)
}

// decode parses a persisted blob. Anything unreadable yields an empty
// collection together with the parse error so the caller can report it.
func decode(data []byte) ([]Task, error) {
	if len(data) == 0 {
		return []Task{}, nil
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return []Task{}, err
	}
	if tasks == nil {
		return []Task{}, nil
	}
	kept := tasks[:0]
	for _, t := range tasks {
		if t.Text == "" {
			continue
		}
		kept = append(kept, t)
	}
	return kept, nil
}
