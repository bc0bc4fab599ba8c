package cli

import (
	"fmt"
	"sort"

	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/timeutil"
)

type LogAddCmd struct {
	Subject string  `arg:"" help:"Subject: Physics, Chemistry, or Maths."`
	Hours   float64 `arg:"" help:"Hours studied."`
	Quality int     `short:"q" default:"4" help:"Self-reported quality, 1-5."`
}

func (cmd *LogAddCmd) Run(ctx *Context) error {
	log, err := ctx.Engine.AddLog(models.Subject(cmd.Subject), cmd.Hours, cmd.Quality)
	if err != nil {
		return err
	}
	fmt.Printf("Logged %.2fh of %s (quality %d) for %s\n", log.Hours, log.Subject, log.Quality, log.Date)
	return nil
}

type LogListCmd struct {
	Days int `short:"n" default:"7" help:"Show logs from the last N days."`
}

func (cmd *LogListCmd) Run(ctx *Context) error {
	state := ctx.Engine.State()
	keys := make(map[string]bool)
	for _, k := range timeutil.WindowKeys(ctx.Clock.Now(), cmd.Days) {
		keys[k] = true
	}

	logs := make([]models.FocusLog, 0, len(state.Logs))
	for _, l := range state.Logs {
		if keys[l.Date] {
			logs = append(logs, l)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })

	if len(logs) == 0 {
		fmt.Printf("No focus sessions in the last %d days.\n", cmd.Days)
		return nil
	}
	for _, l := range logs {
		fmt.Printf("%s  %-9s  %5.2fh  quality %d", l.Date, l.Subject, l.Hours, l.Quality)
		if l.Distractions > 0 {
			fmt.Printf("  %d distraction(s)", l.Distractions)
		}
		fmt.Printf("  [%s]\n", l.ID)
	}
	return nil
}

type LogDeleteCmd struct {
	ID  string `arg:"" help:"Log ID to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (cmd *LogDeleteCmd) Run(ctx *Context) error {
	ok, err := Confirm("Delete this focus record? This cannot be undone.", cmd.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}
	if err := ctx.Engine.DeleteLog(cmd.ID); err != nil {
		return err
	}
	fmt.Println("Log deleted.")
	return nil
}

type ResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (cmd *ResetCmd) Run(ctx *Context) error {
	ok, err := Confirm("RESET: permanently wipe all study logs?", cmd.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Engine.ClearLogs(); err != nil {
		return err
	}
	fmt.Println("All study logs wiped.")
	return nil
}
