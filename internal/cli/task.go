package cli

import (
	"fmt"
	"strings"

	"github.com/lockinhq/lockin/internal/models"
)

type TaskAddCmd struct {
	Text    []string `arg:"" help:"Task text."`
	Subject string   `short:"s" default:"General" help:"Subject tag, or General."`
}

func (cmd *TaskAddCmd) Run(ctx *Context) error {
	task, err := ctx.Engine.AddTask(strings.Join(cmd.Text, " "), models.Subject(cmd.Subject))
	if err != nil {
		return err
	}
	fmt.Printf("Added task [%s] %s\n", task.ID, task.Text)
	return nil
}

type TaskListCmd struct {
	All bool `help:"Include completed tasks."`
}

func (cmd *TaskListCmd) Run(ctx *Context) error {
	state := ctx.Engine.State()
	shown := 0
	for _, t := range state.Tasks {
		if t.Completed && !cmd.All {
			continue
		}
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		tag := ""
		if t.Subject != "" && t.Subject != models.SubjectGeneral {
			tag = fmt.Sprintf(" (%s)", t.Subject)
		}
		fmt.Printf("%s %s%s  [%s]\n", mark, t.Text, tag, t.ID)
		shown++
	}
	if shown == 0 {
		fmt.Println("No open tasks.")
	}
	return nil
}

type TaskToggleCmd struct {
	ID string `arg:"" help:"Task ID to toggle."`
}

func (cmd *TaskToggleCmd) Run(ctx *Context) error {
	return ctx.Engine.ToggleTask(cmd.ID)
}

type TaskDeleteCmd struct {
	ID  string `arg:"" help:"Task ID to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (cmd *TaskDeleteCmd) Run(ctx *Context) error {
	ok, err := Confirm("Delete this task?", cmd.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}
	if err := ctx.Engine.DeleteTask(cmd.ID); err != nil {
		return err
	}
	fmt.Println("Task deleted.")
	return nil
}
