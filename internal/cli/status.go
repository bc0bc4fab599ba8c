package cli

import (
	"fmt"
	"strings"

	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/scoring"
	"github.com/lockinhq/lockin/internal/timeutil"
)

type StatusCmd struct{}

func (cmd *StatusCmd) Run(ctx *Context) error {
	state := ctx.Engine.State()
	now := ctx.Clock.Now()

	breakdown := scoring.Compute(state.Logs, state.CurrentClass, state.Progress, now)
	streak := timeutil.Streak(state.Logs, now)
	remaining := timeutil.DaysRemaining(constants.ExamDate, now)
	dist := timeutil.SubjectDistribution(state.Logs, now)

	var todayTotal float64
	for _, h := range dist {
		todayTotal += h
	}
	goal := state.DailyGoalHours
	if goal <= 0 {
		goal = constants.DefaultDailyGoalHours
	}
	goalPct := todayTotal / goal * 100
	if goalPct > 100 {
		goalPct = 100
	}

	fmt.Printf("LOCK IN — class %d, Mains '27 in %dd\n\n", state.CurrentClass, remaining)
	fmt.Printf("Integrity score: %d/100\n", breakdown.Score)
	fmt.Printf("  consistency %5.1f  volume %5.1f  syllabus %5.1f  quality %5.1f  penalty -%d\n\n",
		breakdown.Consistency, breakdown.Volume, breakdown.Syllabus, breakdown.Quality, breakdown.Penalty)
	fmt.Printf("Streak: %d day(s)\n", streak)
	fmt.Printf("Today: %.1fh of %.1fh goal (%.0f%%)\n", todayTotal, goal, goalPct)
	for _, s := range models.Subjects {
		fmt.Printf("  %-9s %.1fh\n", s, dist[s])
	}

	if ctx.Syncer != nil {
		fmt.Printf("\nSync: %s\n", ctx.Syncer.Status())
	} else {
		fmt.Printf("\nSync: %s\n", models.SyncLocal)
	}
	return nil
}

type StreakCmd struct{}

func (cmd *StreakCmd) Run(ctx *Context) error {
	state := ctx.Engine.State()
	now := ctx.Clock.Now()

	fmt.Printf("Streak: %d day(s)\n\n", timeutil.Streak(state.Logs, now))
	for _, stat := range timeutil.Last7Days(state.Logs, now) {
		bar := strings.Repeat("█", int(stat.Hours))
		fmt.Printf("%s %s  %4.1fh %s\n", stat.Day, stat.Key, stat.Hours, bar)
	}
	return nil
}
