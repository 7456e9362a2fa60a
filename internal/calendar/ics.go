package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskcal/internal/task"
)

const icsDateLayout = "20060102"

// WriteICS writes every task with a due date as an all-day VEVENT.
// Tasks with malformed due dates are skipped. It returns the number of events.
func WriteICS(w io.Writer, tasks []task.Task, now time.Time) (int, error) {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//taskcal//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format("20060102T150405Z")
	n := 0
	for _, t := range tasks {
		if t.DueDate == "" {
			continue
		}
		due, err := time.Parse(task.DateLayout, t.DueDate)
		if err != nil {
			continue
		}
		lines = append(lines,
			"BEGIN:VEVENT",
			fmt.Sprintf("UID:task-%d@taskcal", t.ID),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(t.Text),
			"DTSTART;VALUE=DATE:"+due.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+due.AddDate(0, 0, 1).Format(icsDateLayout),
		)
		if t.Completed {
			lines = append(lines, "STATUS:COMPLETED")
		}
		lines = append(lines, "END:VEVENT")
		n++
	}
	lines = append(lines, "END:VCALENDAR", "")

	_, err := io.WriteString(w, strings.Join(lines, "\r\n"))
	return n, err
}

func escapeICSText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
