package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"netdo/internal/taskquery"
	"netdo/internal/tasks"
	"netdo/internal/tracker"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var description, category, priority, trigger, due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := tasks.Draft{
				Title:       strings.Join(args, " "),
				Description: description,
				Category:    category,
			}
			if priority != "" {
				p, err := parsePriorityFlag(priority)
				if err != nil {
					return err
				}
				draft.Priority = p
			}
			if trigger != "" {
				t, err := parseTriggerFlag(trigger)
				if err != nil {
					return err
				}
				draft.NetworkTrigger = t
			}
			if due != "" {
				when, err := parseDue(due, time.Now())
				if err != nil {
					return err
				}
				draft.DueDate = &when
			}

			return ctx.withTracker(cmd, func(c context.Context, tr *tracker.Tracker) error {
				task, err := tr.AddTask(c, draft)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, task)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %s: %s\n", shortID(task.ID), task.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Longer description")
	cmd.Flags().StringVar(&category, "category", "", "Category (default \"general\")")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: high, medium, or low (default medium)")
	cmd.Flags().StringVarP(&trigger, "trigger", "t", "", "Network trigger: home, away, or none")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD, \"YYYY-MM-DD HH:MM\", RFC3339, or +duration)")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var status, network, priority, quick string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, filtered and sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(status, network, priority, quick)
			if err != nil {
				return err
			}

			return ctx.withTracker(cmd, func(c context.Context, tr *tracker.Tracker) error {
				matched := tr.Query(c, filter)
				if ctx.jsonOutput() {
					return writeJSON(cmd, matched)
				}

				out := cmd.OutOrStdout()
				total := len(tr.Tasks(c))
				if labels := filter.Labels(); len(labels) > 0 {
					fmt.Fprintf(out, "Filters: %s\n", strings.Join(labels, ", "))
				}
				if len(matched) == 0 {
					fmt.Fprintln(out, taskquery.EmptyMessage(total))
					return nil
				}

				colorize := shouldColorize(out)
				rows := make([][]string, 0, len(matched))
				for _, task := range matched {
					title := task.Title
					if task.Completed {
						title = dim(title, colorize)
					}
					rows = append(rows, []string{
						shortID(task.ID),
						title,
						task.Category,
						colorPriority(task.Priority, titleCase(string(task.Priority)), colorize),
						triggerLabel(task.NetworkTrigger),
						formatDue(task.DueDate),
						yesNo(task.Completed),
					})
				}
				fmt.Fprintln(out, renderTableSpec(tableSpec{
					headers: []string{"ID", "Task", "Category", "Priority", "Network", "Due", "Done"},
					rows:    rows,
					footer:  fmt.Sprintf("%d of %d tasks", len(matched), total),
				}))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: all, active, or completed")
	cmd.Flags().StringVar(&network, "network", "", "Filter by network trigger: all, home, or away")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority: all, high, medium, or low")
	cmd.Flags().StringVar(&quick, "quick", "", "Preset filter: total, completed, high, home, or away")
	return cmd
}

// buildFilter combines a quick preset with explicit flags; explicit flags win.
func buildFilter(status, network, priority, quick string) (taskquery.Filter, error) {
	filter := taskquery.All()
	if strings.TrimSpace(quick) != "" {
		preset, err := taskquery.QuickFilter(taskquery.Metric(quick))
		if err != nil {
			return taskquery.Filter{}, err
		}
		filter = preset
	}
	if status != "" {
		s, err := taskquery.ParseStatus(status)
		if err != nil {
			return taskquery.Filter{}, err
		}
		filter.Status = s
	}
	if network != "" {
		n, err := taskquery.ParseNetwork(network)
		if err != nil {
			return taskquery.Filter{}, err
		}
		filter.Network = n
	}
	if priority != "" {
		p, err := taskquery.ParsePriority(priority)
		if err != nil {
			return taskquery.Filter{}, err
		}
		filter.Priority = p
	}
	return filter, nil
}

func newToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTracker(cmd, func(c context.Context, tr *tracker.Tracker) error {
				id, err := resolveTaskID(c, tr, args[0])
				if err != nil {
					return err
				}
				task, err := tr.ToggleTask(c, id)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, task)
				}
				state := "active"
				if task.Completed {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %q %s\n", task.Title, state)
				return nil
			})
		},
	}
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var title, description, category, priority, trigger, due string
	var completed, clearDue bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch tasks.Patch
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if flags.Changed("priority") {
				p, err := parsePriorityFlag(priority)
				if err != nil {
					return err
				}
				patch.Priority = &p
			}
			if flags.Changed("trigger") {
				t, err := parseTriggerFlag(trigger)
				if err != nil {
					return err
				}
				patch.NetworkTrigger = &t
			}
			if flags.Changed("completed") {
				patch.Completed = &completed
			}
			if flags.Changed("due") && clearDue {
				return errors.New("--due and --clear-due are mutually exclusive")
			}
			if flags.Changed("due") {
				when, err := parseDue(due, time.Now())
				if err != nil {
					return err
				}
				patch.DueDate = &when
			}
			patch.ClearDueDate = clearDue
			if patch.IsZero() {
				return errors.New("nothing to update; pass at least one field flag")
			}

			return ctx.withTracker(cmd, func(c context.Context, tr *tracker.Tracker) error {
				id, err := resolveTaskID(c, tr, args[0])
				if err != nil {
					return err
				}
				task, err := tr.UpdateTask(c, id, patch)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, task)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", shortID(task.ID), task.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority: high, medium, or low")
	cmd.Flags().StringVarP(&trigger, "trigger", "t", "", "New network trigger: home, away, or none")
	cmd.Flags().BoolVar(&completed, "completed", false, "Set the completed flag")
	cmd.Flags().StringVar(&due, "due", "", "New due date")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTracker(cmd, func(c context.Context, tr *tracker.Tracker) error {
				id, err := resolveTaskID(c, tr, args[0])
				if err != nil {
					return err
				}
				task, err := tr.Task(c, id)
				if err != nil {
					return err
				}
				if err := tr.DeleteTask(c, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", shortID(task.ID), task.Title)
				return nil
			})
		},
	}
}

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTracker(cmd, func(c context.Context, tr *tracker.Tracker) error {
				summary := tr.Summary(c)
				if ctx.jsonOutput() {
					return writeJSON(cmd, summary)
				}
				rows := [][]string{
					{"Total", fmt.Sprint(summary.Total), "--quick total"},
					{"Completed", fmt.Sprint(summary.Completed), "--quick completed"},
					{"High priority", fmt.Sprint(summary.HighPriorityActive), "--quick high"},
					{"Home", fmt.Sprint(summary.Home), "--quick home"},
					{"Away", fmt.Sprint(summary.Away), "--quick away"},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Metric", "Count", "List with"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newDueCommand(ctx *commandContext) *cobra.Command {
	var noWait bool

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Send due-date reminders for overdue tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTracker(cmd, func(c context.Context, tr *tracker.Tracker) error {
				emitted := tr.CheckDue(c)
				if !noWait {
					if err := tr.WaitIdle(c); err != nil {
						return err
					}
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, tr.Notifications())
				}
				out := cmd.OutOrStdout()
				if len(emitted) == 0 {
					fmt.Fprintln(out, "No tasks are due")
					return nil
				}
				for _, n := range tr.Notifications() {
					fmt.Fprintf(out, "%s: %s (%s)\n", n.Title, n.Message, n.Status)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return without waiting for delivery")
	return cmd
}
