package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"taskcal/internal/config"
)

type keyMap struct {
	Quit            key.Binding
	Add             key.Binding
	Up              key.Binding
	Down            key.Binding
	Left            key.Binding
	Right           key.Binding
	Toggle          key.Binding
	Delete          key.Binding
	Edit            key.Binding
	Confirm         key.Binding
	Cancel          key.Binding
	NextField       key.Binding
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding
	ClearCompleted  key.Binding
	Calendar        key.Binding

	mode focus
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:            key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(k.Quit, "quit")),
		Add:             key.NewBinding(key.WithKeys(k.Add), key.WithHelp(k.Add, "add")),
		Up:              key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(k.Up, "up")),
		Down:            key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(k.Down, "down")),
		Left:            key.NewBinding(key.WithKeys(k.Left, "left"), key.WithHelp(k.Left, "prev day")),
		Right:           key.NewBinding(key.WithKeys(k.Right, "right"), key.WithHelp(k.Right, "next day")),
		Toggle:          key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp(keyLabel(k.Toggle), "toggle")),
		Delete:          key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(k.Delete, "delete")),
		Edit:            key.NewBinding(key.WithKeys(k.Edit), key.WithHelp(k.Edit, "edit")),
		Confirm:         key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(k.Confirm, "save")),
		Cancel:          key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(k.Cancel, "back")),
		NextField:       key.NewBinding(key.WithKeys(k.NextField), key.WithHelp(k.NextField, "switch field")),
		FilterAll:       key.NewBinding(key.WithKeys(k.FilterAll), key.WithHelp(k.FilterAll, "all")),
		FilterActive:    key.NewBinding(key.WithKeys(k.FilterActive), key.WithHelp(k.FilterActive, "active")),
		FilterCompleted: key.NewBinding(key.WithKeys(k.FilterCompleted), key.WithHelp(k.FilterCompleted, "completed")),
		ClearCompleted:  key.NewBinding(key.WithKeys(k.ClearCompleted), key.WithHelp(k.ClearCompleted, "clear done")),
		Calendar:        key.NewBinding(key.WithKeys(k.Calendar), key.WithHelp(k.Calendar, "calendar")),
	}
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	switch k.mode {
	case focusAdd:
		return []key.Binding{k.Confirm, k.NextField, k.Cancel}
	case focusEdit:
		return []key.Binding{k.Confirm, k.NextField}
	case focusCalendar:
		pick := k.Confirm
		pick.SetHelp(pick.Help().Key, "pick day")
		return []key.Binding{k.Left, k.Right, k.Up, k.Down, pick, k.Cancel}
	default:
		return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.ClearCompleted, k.Calendar, k.Quit}
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.ShortHelp(),
		{k.FilterAll, k.FilterActive, k.FilterCompleted},
	}
}
