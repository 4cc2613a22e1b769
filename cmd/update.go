/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/josephgoksu/TaskQuest/internal/ui"
)

var updateCmd = &cobra.Command{
	Use:     "update <task_id>",
	Aliases: []string{"edit", "u"},
	Short:   "Update a task",
	Long: `Change fields of an existing task. Only the flags you pass are changed.
A task's XP value is fixed at creation and does not follow priority or
horizon changes.`,
	Example: `  taskquest update 3fa2 --priority critical
  taskquest update 3fa2 --due 2026-04-01 --tag work,q2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := patchFromFlags(cmd)
		if err != nil {
			return err
		}
		return withSession(cmd.Context(), func(s *session) error {
			t, err := s.resolveTask(args[0])
			if err != nil {
				return err
			}
			updated, _ := s.store.UpdateTask(t.ID, patch)
			if err := s.save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderTaskDetail(updated, s.store.Today()))
			return nil
		})
	},
}

var patchFlags = []string{"title", "description", "horizon", "priority", "category", "due", "recurrence", "energy", "minutes", "tag"}

// patchFromFlags turns the changed flags into a patch.
func patchFromFlags(cmd *cobra.Command) (task.Patch, error) {
	var p task.Patch
	f := cmd.Flags()
	str := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}
	p.Title = str("title")
	p.Description = str("description")
	p.Category = str("category")
	p.DueDate = str("due")
	if v := str("horizon"); v != nil {
		h := task.Horizon(*v)
		p.Horizon = &h
	}
	if v := str("priority"); v != nil {
		pr := task.Priority(*v)
		p.Priority = &pr
	}
	if v := str("energy"); v != nil {
		e := task.EnergyLevel(*v)
		p.EnergyLevel = &e
	}
	if v := str("recurrence"); v != nil {
		r := task.Recurrence(*v)
		p.Recurrence = &r
	}
	if f.Changed("minutes") {
		m, _ := f.GetInt("minutes")
		p.EstimatedMinutes = &m
	}
	if f.Changed("tag") {
		p.Tags, _ = f.GetStringSlice("tag")
		if p.Tags == nil {
			p.Tags = []string{}
		}
	}

	var h task.Horizon
	var pr task.Priority
	var e task.EnergyLevel
	var r task.Recurrence
	if p.Horizon != nil {
		h = *p.Horizon
	}
	if p.Priority != nil {
		pr = *p.Priority
	}
	if p.EnergyLevel != nil {
		e = *p.EnergyLevel
	}
	if p.Recurrence != nil {
		r = *p.Recurrence
	}
	if err := validateEnums(h, pr, e, r); err != nil {
		return p, err
	}
	if p.DueDate != nil && *p.DueDate != "" {
		if _, err := task.ParseDate(*p.DueDate); err != nil {
			return p, fmt.Errorf("invalid --due %q: use YYYY-MM-DD", *p.DueDate)
		}
	}
	changed := false
	for _, name := range patchFlags {
		changed = changed || f.Changed(name)
	}
	if !changed {
		return p, fmt.Errorf("nothing to update: pass at least one flag")
	}
	return p, nil
}

func init() {
	rootCmd.AddCommand(updateCmd)
	addTaskFlags(updateCmd)
	updateCmd.Flags().StringP("title", "t", "", "new title")
}
