package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"taskcal/internal/calendar"
	"taskcal/internal/task"
)

func (a *app) addCmd() *cobra.Command {
	var due string
	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := task.CheckDue(due, "", task.Today(time.Now()))
			if err != nil {
				return fmt.Errorf("--due: %w", err)
			}
			t, err := a.store.Add(strings.Join(args, " "), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d\n", t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("filter") {
				filter = a.cfg.DefaultFilter
			}
			f, err := task.ParseFilter(filter)
			if err != nil {
				return err
			}
			return writeList(cmd.OutOrStdout(), a.store.All(), f, time.Now())
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, active or completed")
	return cmd
}

func writeList(w io.Writer, all []task.Task, f task.Filter, now time.Time) error {
	today := task.Today(now)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range task.View(all, f, today) {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		due := ""
		if t.DueDate != "" {
			due = task.DueLabel(t.DueDate, now)
			if c := task.DueClass(t, today); c == task.DueOverdue {
				due += " (overdue)"
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, mark, t.Text, due)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, task.ComputeStats(all, today))
	return err
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.store.Toggle(id)
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	var due string
	cmd := &cobra.Command{
		Use:   "edit ID TEXT...",
		Short: "Replace a task's text and due date",
		Long:  "Replace a task's text and due date. Omitting --due clears the due date; empty text leaves the task unchanged.\nA due date before today is refused unless the task already has it.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, _ := a.store.Get(id)
			d, err := task.CheckDue(due, current.DueDate, task.Today(time.Now()))
			if err != nil {
				return fmt.Errorf("--due: %w", err)
			}
			return a.store.Edit(id, strings.Join(args[1:], " "), d)
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.store.Delete(id)
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.store.ClearCompleted()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d\n", n)
			return nil
		},
	}
}

func (a *app) calCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cal",
		Short: "Print this month with task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeMonth(cmd.OutOrStdout(), calendar.Build(a.store.All(), time.Now()))
		},
	}
}

// writeMonth prints the grid with today's date bracketed and a '*' on days
// that have tasks due.
func writeMonth(w io.Writer, m calendar.Month) error {
	var b strings.Builder
	b.WriteString(m.Title())
	b.WriteString("\n")
	for _, d := range calendar.Weekdays {
		fmt.Fprintf(&b, "%-5s", d)
	}
	b.WriteString("\n")
	for _, week := range m.Weeks {
		for _, c := range week {
			switch {
			case c.Blank():
				b.WriteString("     ")
			case c.Today:
				fmt.Fprintf(&b, "[%2d]%s", c.Day, marker(c))
			default:
				fmt.Fprintf(&b, " %2d %s", c.Day, marker(c))
			}
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func marker(c calendar.Cell) string {
	if c.HasTasks {
		return "*"
	}
	return " "
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export dated tasks as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			n, err := calendar.WriteICS(w, a.store.All(), time.Now())
			if err != nil {
				return err
			}
			a.log.Info("exported calendar", "events", n, "path", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func parseID(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", v)
	}
	return id, nil
}
