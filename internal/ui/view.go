package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskcal/internal/calendar"
	"taskcal/internal/clock"
	"taskcal/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	clockStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	todayStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	overdueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true)
	currentDay    = lipgloss.NewStyle().Reverse(true)
	hasTasksStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// row is the presentational form of one task line.
type row struct {
	ID      int64
	Checked bool
	Text    string
	Badge   string
	Due     task.Due
}

func (m Model) buildRows() []row {
	today := m.today()
	out := make([]row, 0, len(m.rows))
	for _, t := range m.rows {
		r := row{ID: t.ID, Checked: t.Completed, Text: t.Text, Due: task.DueClass(t, today)}
		if t.DueDate != "" {
			r.Badge = task.DueLabel(t.DueDate, m.now)
		}
		out = append(out, r)
	}
	return out
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")

	list := m.renderTaskList()
	cal := panelStyle.Render(m.renderCalendar())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", cal))
	b.WriteString("\n")

	if m.focus == focusAdd {
		b.WriteString("\nAdd task: ")
		b.WriteString(m.text.View())
		b.WriteString("  Due: ")
		b.WriteString(m.due.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(task.ComputeStats(m.store.All(), m.today()).String())
	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderHeader() string {
	left := titleStyle.Render("taskcal")
	right := clockStyle.Render(clock.Time(m.now)) + "  " + clock.Date(m.now)
	return left + "  " + right
}

func (m Model) renderFilters() string {
	parts := make([]string, 0, len(task.Filters()))
	for _, f := range task.Filters() {
		label := f.String()
		if f == m.filter {
			parts = append(parts, activeTab.Render("["+label+"]"))
			continue
		}
		parts = append(parts, faintStyle.Render(" "+label+" "))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderTaskList() string {
	rows := m.buildRows()
	if len(rows) == 0 {
		if m.filter == task.FilterAll {
			return fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add)
		}
		return "No " + m.filter.String() + " tasks."
	}

	var b strings.Builder
	for i, r := range rows {
		cursor := " "
		if m.cursor == i && (m.focus == focusList || m.focus == focusEdit) {
			cursor = ">"
		}
		if m.focus == focusEdit && r.ID == m.editID {
			b.WriteString(fmt.Sprintf("%s %s  %s\n", cursor, m.text.View(), m.due.View()))
			continue
		}

		checkbox := "[ ]"
		text := r.Text
		if r.Checked {
			checkbox = "[x]"
			text = doneStyle.Render(text)
		}
		body := fmt.Sprintf("%s %s %s", cursor, checkbox, text)
		if r.Badge != "" {
			body += " " + badgeStyle(r.Due).Render("("+r.Badge+")")
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func badgeStyle(d task.Due) lipgloss.Style {
	switch d {
	case task.DueToday:
		return todayStyle
	case task.DueOverdue:
		return overdueStyle
	default:
		return faintStyle
	}
}

// renderCalendar draws the month as five-column cells: a selection mark, the
// day number and a '*' when tasks are due that day.
func (m Model) renderCalendar() string {
	month := m.month()

	var b strings.Builder
	b.WriteString(titleStyle.Render(month.Title()))
	b.WriteString("\n")
	for _, d := range calendar.Weekdays {
		b.WriteString(fmt.Sprintf("%-5s", d))
	}
	b.WriteString("\n")

	for _, week := range month.Weeks {
		for _, c := range week {
			b.WriteString(m.renderCell(c))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderCell(c calendar.Cell) string {
	if c.Blank() {
		return "     "
	}
	sel := " "
	if m.focus == focusCalendar && c.Day == m.calDay {
		sel = ">"
	}
	mark := " "
	if c.HasTasks {
		mark = "*"
	}
	day := fmt.Sprintf("%2d", c.Day)
	switch {
	case c.Today:
		day = currentDay.Render(day)
	case c.HasTasks:
		day = hasTasksStyle.Render(day)
	}
	return sel + day + mark + " "
}
