package ui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskcal/internal/calendar"
	"taskcal/internal/clock"
	"taskcal/internal/config"
	"taskcal/internal/task"
)

type focus int

const (
	focusList focus = iota
	focusAdd
	focusEdit
	focusCalendar
)

const (
	// inputMargin leaves room for the due field and calendar beside the text input.
	inputMargin   = 30
	minInputWidth = 10
)

const (
	fieldText = iota
	fieldDue
)

type Model struct {
	store  *task.Store
	cfg    config.Config
	keys   keyMap
	help   help.Model
	log    *slog.Logger
	now    time.Time
	filter task.Filter

	// rows is the filtered, sorted snapshot the cursor indexes into.
	rows   []task.Task
	cursor int
	focus  focus

	text  textinput.Model
	due   textinput.Model
	field int

	editID  int64
	editDue string

	calDay int

	confirmDel bool
	pendingDel *task.Task
	status     string
}

func Run(store *task.Store, cfg config.Config, log *slog.Logger) error {
	m := New(store, cfg, time.Now())
	m.log = log
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// New builds the controller for store as of now.
func New(store *task.Store, cfg config.Config, now time.Time) Model {
	filter, err := task.ParseFilter(cfg.DefaultFilter)
	if err != nil {
		filter = task.FilterAll
	}

	text := textinput.New()
	text.Placeholder = "What needs to be done?"
	text.CharLimit = 256
	text.Width = 40

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len(task.DateLayout)
	due.Width = len(task.DateLayout) + 1

	m := Model{
		store:  store,
		cfg:    cfg,
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    now,
		filter: filter,
		text:   text,
		due:    due,
		focus:  focusList,
		status: fmt.Sprintf("Press '%s' to add, '%s' for the calendar.", cfg.Keys.Add, cfg.Keys.Calendar),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return clock.Tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clock.TickMsg:
		m.now = time.Time(msg)
		m.refresh()
		return m, clock.Tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.text.Width = max(msg.Width-inputMargin, minInputWidth)
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusAdd:
		return m.updateAddMode(msg)
	case focusEdit:
		return m.updateEditMode(msg)
	case focusCalendar:
		return m.updateCalendarMode(msg)
	default:
		return m.updateListMode(msg)
	}
}

func (m Model) today() string {
	return task.Today(m.now)
}

// refresh re-derives the visible rows after a mutation, filter change or tick.
func (m *Model) refresh() {
	m.rows = task.View(m.store.All(), m.filter, m.today())
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

func (m *Model) selectID(id int64) {
	for i, t := range m.rows {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (task.Task, bool) {
	if len(m.rows) == 0 {
		return task.Task{}, false
	}
	return m.rows[clampCursor(m.cursor, len(m.rows))], true
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case key.Matches(msg, m.keys.Add):
		return m.startAdd("")
	case key.Matches(msg, m.keys.Calendar):
		m.focus = focusCalendar
		m.keys.mode = focusCalendar
		m.calDay = m.now.Day()
		m.status = "Calendar: pick a day to set the due date of a new task"
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(task.FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		m.setFilter(task.FilterActive)
	case key.Matches(msg, m.keys.FilterCompleted):
		m.setFilter(task.FilterCompleted)
	case key.Matches(msg, m.keys.ClearCompleted):
		n, err := m.store.ClearCompleted()
		if err != nil {
			m.log.Warn("clear failed", "err", err)
			m.status = fmt.Sprintf("clear failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = fmt.Sprintf("Cleared %d completed %s", n, plural(n, "task", "tasks"))
	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.Toggle(t.ID); err != nil {
			m.log.Warn("toggle failed", "err", err)
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = "Toggled task"
	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete %q? y/n", t.Text)
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startEdit(t)
	}
	return m, nil
}

func (m *Model) setFilter(f task.Filter) {
	m.filter = f
	m.cursor = 0
	m.refresh()
	m.status = "Showing " + f.String() + " tasks"
}

func (m Model) startAdd(due string) (tea.Model, tea.Cmd) {
	m.focus = focusAdd
	m.keys.mode = focusAdd
	m.text.SetValue("")
	m.due.SetValue(due)
	m.field = fieldText
	m.status = "Add: type a task, tab for the due date, enter to save"
	cmd := m.focusField()
	return m, cmd
}

// focusField moves the cursor to the active input.
func (m *Model) focusField() tea.Cmd {
	if m.field == fieldDue {
		m.text.Blur()
		return m.due.Focus()
	}
	m.due.Blur()
	return m.text.Focus()
}

func (m *Model) leaveForm() {
	m.text.Blur()
	m.due.Blur()
	m.text.SetValue("")
	m.due.SetValue("")
	m.focus = focusList
	m.keys.mode = focusList
}

func (m Model) updateFormInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.field == fieldDue {
		m.due, cmd = m.due.Update(msg)
	} else {
		m.text, cmd = m.text.Update(msg)
	}
	return m, cmd
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.leaveForm()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.field = 1 - m.field
		cmd := m.focusField()
		return m, cmd
	case key.Matches(msg, m.keys.Confirm):
		due, err := task.CheckDue(m.due.Value(), "", m.today())
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		t, err := m.store.Add(m.text.Value(), due)
		if errors.Is(err, task.ErrEmptyText) {
			return m, nil
		}
		if err != nil {
			m.log.Warn("save failed", "err", err)
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.selectID(t.ID)
		m.text.SetValue("")
		m.due.SetValue("")
		m.field = fieldText
		m.status = "Added task"
		cmd := m.focusField()
		return m, cmd
	default:
		return m.updateFormInput(msg)
	}
}

func (m Model) startEdit(t task.Task) (tea.Model, tea.Cmd) {
	m.focus = focusEdit
	m.keys.mode = focusEdit
	m.editID = t.ID
	m.editDue = t.DueDate
	m.text.SetValue(t.Text)
	m.due.SetValue(t.DueDate)
	m.field = fieldText
	m.status = "Edit: enter or esc saves, clear the text to abandon"
	cmd := m.focusField()
	return m, cmd
}

// updateEditMode commits on confirm and on leaving the row; there is no
// separate cancel.
func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		m.field = 1 - m.field
		cmd := m.focusField()
		return m, cmd
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Cancel):
		return m.commitEdit()
	default:
		return m.updateFormInput(msg)
	}
}

func (m Model) commitEdit() (tea.Model, tea.Cmd) {
	due, err := task.CheckDue(m.due.Value(), m.editDue, m.today())
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	id := m.editID
	before, _ := m.store.Get(id)
	if err := m.store.Edit(id, m.text.Value(), due); err != nil {
		m.log.Warn("save failed", "err", err)
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	after, _ := m.store.Get(id)
	m.leaveForm()
	m.refresh()
	m.selectID(id)
	if before == after {
		m.status = "Edit abandoned"
	} else {
		m.status = "Saved task"
	}
	return m, nil
}

func (m Model) month() calendar.Month {
	return calendar.Build(m.store.All(), m.now)
}

func (m Model) updateCalendarMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	days := calendar.DaysIn(m.now.Year(), m.now.Month())
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Calendar):
		m.focus = focusList
		m.keys.mode = focusList
		m.status = ""
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		m.calDay = clampDay(m.calDay-1, days)
	case key.Matches(msg, m.keys.Right):
		m.calDay = clampDay(m.calDay+1, days)
	case key.Matches(msg, m.keys.Up):
		m.calDay = clampDay(m.calDay-7, days)
	case key.Matches(msg, m.keys.Down):
		m.calDay = clampDay(m.calDay+7, days)
	case key.Matches(msg, m.keys.Confirm):
		date, ok := m.month().Pick(m.calDay)
		if !ok {
			return m, nil
		}
		next, cmd := m.startAdd(date)
		nm := next.(Model)
		nm.status = "Due " + date + ": type the task and press enter"
		return nm, cmd
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(answer string) (tea.Model, tea.Cmd) {
	switch answer {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		if err := m.store.Delete(m.pendingDel.ID); err != nil {
			m.log.Warn("delete failed", "err", err)
			m.status = fmt.Sprintf("delete failed: %v", err)
			m.confirmDel = false
			m.pendingDel = nil
			return m, nil
		}
		m.refresh()
		m.status = "Deleted task"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func clampDay(day, days int) int {
	if day < 1 {
		return 1
	}
	if day > days {
		return days
	}
	return day
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
