package cli

import (
	"fmt"
	"strconv"

	"github.com/lockinhq/lockin/internal/keyring"
)

type SettingsGetCmd struct {
	Key string `arg:"" optional:"" help:"Setting key; omit to list all."`
}

func (cmd *SettingsGetCmd) Run(ctx *Context) error {
	state := ctx.Engine.State()
	settings := map[string]string{
		"class":        strconv.Itoa(state.CurrentClass),
		"daily-goal":   strconv.FormatFloat(state.DailyGoalHours, 'f', -1, 64),
		"theme":        state.Theme,
		"lock-in-mode": strconv.FormatBool(state.IsLockInModeEnabled),
		"tab":          state.LastUsedTab,
	}
	if cmd.Key == "" {
		for _, k := range []string{"class", "daily-goal", "theme", "lock-in-mode", "tab"} {
			fmt.Printf("%-13s %s\n", k, settings[k])
		}
		return nil
	}
	v, ok := settings[cmd.Key]
	if !ok {
		return fmt.Errorf("unknown setting %q", cmd.Key)
	}
	fmt.Println(v)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key."`
	Value string `arg:"" help:"New value."`
}

func (cmd *SettingsSetCmd) Run(ctx *Context) error {
	switch cmd.Key {
	case "class":
		classID, err := strconv.Atoi(cmd.Value)
		if err != nil {
			return fmt.Errorf("class must be a number: %w", err)
		}
		return ctx.Engine.SetClass(classID)
	case "daily-goal":
		hours, err := strconv.ParseFloat(cmd.Value, 64)
		if err != nil {
			return fmt.Errorf("daily-goal must be a number of hours: %w", err)
		}
		return ctx.Engine.SetDailyGoal(hours)
	case "theme":
		return ctx.Engine.SetTheme(cmd.Value)
	case "lock-in-mode":
		enabled, err := strconv.ParseBool(cmd.Value)
		if err != nil {
			return fmt.Errorf("lock-in-mode must be true or false: %w", err)
		}
		return ctx.Engine.SetLockInMode(enabled)
	case "tab":
		return ctx.Engine.SetTab(cmd.Value)
	case "connection-string":
		// Stored in the OS keyring, never on disk.
		if err := keyring.SetConnectionString(cmd.Value); err != nil {
			return err
		}
		fmt.Println("Connection string stored in the OS keyring.")
		return nil
	default:
		return fmt.Errorf("unknown setting %q", cmd.Key)
	}
}
