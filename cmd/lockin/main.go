package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/lockinhq/lockin/internal/cli"
	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/errors"
	"github.com/lockinhq/lockin/internal/logger"
	"github.com/lockinhq/lockin/internal/session"
	"github.com/lockinhq/lockin/internal/storage"
	"github.com/lockinhq/lockin/internal/timeutil"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"State document path (.json, or .db for SQLite)." type:"string" default:"~/.config/lockin/state.json"`
	Debug   bool   `help:"Verbose logging to stderr."`

	Init    cli.InitCmd   `cmd:"" help:"Initialize the state document."`
	Tui     cli.TuiCmd    `cmd:"" help:"Launch the interactive focus timer." default:"1"`
	Status  cli.StatusCmd `cmd:"" help:"Show score, streak, and today's progress."`
	Streak  cli.StreakCmd `cmd:"" help:"Show the streak and last 7 days."`
	Doctor  cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Debug2  cli.DebugCmd  `cmd:"" name:"debug" help:"Debug info for troubleshooting."`
	Sync    cli.SyncCmd   `cmd:"" help:"Push the current state to the sync database."`
	Reset   cli.ResetCmd  `cmd:"" help:"Wipe all study logs."`
	Log     struct {
		Add    cli.LogAddCmd    `cmd:"" help:"Record a study session manually."`
		List   cli.LogListCmd   `cmd:"" help:"List recent study sessions."`
		Delete cli.LogDeleteCmd `cmd:"" help:"Delete a study session."`
	} `cmd:"" help:"Manage focus logs."`
	Task struct {
		Add    cli.TaskAddCmd    `cmd:"" help:"Add a task."`
		List   cli.TaskListCmd   `cmd:"" help:"List tasks."`
		Toggle cli.TaskToggleCmd `cmd:"" help:"Toggle a task done/undone."`
		Delete cli.TaskDeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage tasks."`
	Syllabus struct {
		List   cli.SyllabusListCmd   `cmd:"" help:"Show the syllabus checklist."`
		Toggle cli.SyllabusToggleCmd `cmd:"" help:"Advance a chapter's status."`
		Note   cli.SyllabusNoteCmd   `cmd:"" help:"Set notes on a chapter."`
	} `cmd:"" help:"Track syllabus progress."`
	Account struct {
		Signup  cli.SignupCmd  `cmd:"" help:"Create a sync account."`
		Confirm cli.ConfirmCmd `cmd:"" help:"Confirm a pending account."`
		Signin  cli.SigninCmd  `cmd:"" help:"Sign in and merge cloud data."`
		Signout cli.SignoutCmd `cmd:"" help:"Sign out and wipe local data."`
	} `cmd:"" help:"Manage the sync account."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage document backups."`
	Settings struct {
		Get cli.SettingsGetCmd `cmd:"" help:"Show settings." default:"1"`
		Set cli.SettingsSetCmd `cmd:"" help:"Change a setting."`
	} `cmd:"" help:"Manage application settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Exam-prep focus timer, syllabus checklist, and integrity score"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	docPath, err := storage.ExpandPath(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(docPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(docPath)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	clock := timeutil.SystemClock{}
	engine := session.New(storage.LoadOrDefault(store), clock, nil)

	appCtx := &cli.Context{
		Engine:  engine,
		Store:   store,
		Clock:   clock,
		DocPath: docPath,
		Debug:   CLI.Debug,
	}
	engine.OnChange(appCtx.Persist)

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}

	if appCtx.Syncer != nil {
		appCtx.Syncer.Drain()
	}
	if appCtx.Remote != nil {
		appCtx.Remote.Close()
	}
}
