package cli

import (
	"fmt"
	"strings"

	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/models"
)

var statusLabels = map[models.SyllabusStatus]string{
	models.StatusNotStarted:      "not started",
	models.StatusInProgress:      "in progress",
	models.StatusCompleted:       "completed",
	models.StatusRevisionPending: "revision",
}

type SyllabusListCmd struct {
	Class   int    `short:"c" help:"Class 11 or 12; defaults to the current class."`
	Subject string `short:"s" help:"Limit to one subject."`
}

func (cmd *SyllabusListCmd) Run(ctx *Context) error {
	state := ctx.Engine.State()
	classID := cmd.Class
	if classID == 0 {
		classID = state.CurrentClass
	}

	for _, subject := range models.Subjects {
		if cmd.Subject != "" && !strings.EqualFold(cmd.Subject, string(subject)) {
			continue
		}
		fmt.Printf("\n%s (class %d)\n", subject, classID)
		for _, chapter := range constants.Syllabus[classID][string(subject)] {
			status := models.StatusNotStarted
			notes := ""
			if p, ok := state.ProgressFor(models.ProgressKey{ClassID: classID, Subject: subject, Chapter: chapter}); ok {
				status = p.Status
				notes = p.Notes
			}
			fmt.Printf("  %-13s %s", statusLabels[status], chapter)
			if notes != "" {
				fmt.Printf("  — %s", notes)
			}
			fmt.Println()
		}
	}
	return nil
}

type SyllabusToggleCmd struct {
	Subject string   `arg:"" help:"Subject."`
	Chapter []string `arg:"" help:"Chapter name, exactly as listed."`
	Class   int      `short:"c" help:"Class 11 or 12; defaults to the current class."`
}

func (cmd *SyllabusToggleCmd) Run(ctx *Context) error {
	classID := cmd.Class
	if classID == 0 {
		classID = ctx.Engine.State().CurrentClass
	}
	chapter := strings.Join(cmd.Chapter, " ")
	next, err := ctx.Engine.ToggleChapter(classID, models.Subject(cmd.Subject), chapter)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", chapter, statusLabels[next])
	return nil
}

type SyllabusNoteCmd struct {
	Subject string `arg:"" help:"Subject."`
	Chapter string `arg:"" help:"Chapter name, exactly as listed."`
	Note    string `arg:"" optional:"" help:"Note text; empty clears the note."`
	Class   int    `short:"c" help:"Class 11 or 12; defaults to the current class."`
}

func (cmd *SyllabusNoteCmd) Run(ctx *Context) error {
	classID := cmd.Class
	if classID == 0 {
		classID = ctx.Engine.State().CurrentClass
	}
	return ctx.Engine.SetChapterNotes(classID, models.Subject(cmd.Subject), cmd.Chapter, cmd.Note)
}
