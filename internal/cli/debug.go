package cli

import (
	"encoding/json"
	"fmt"

	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/storage"
	"github.com/lockinhq/lockin/internal/timeutil"
)

type DebugCmd struct {
	State bool `help:"Dump the full state document as JSON."`
}

func (cmd *DebugCmd) Run(ctx *Context) error {
	if cmd.State {
		data, err := json.MarshalIndent(ctx.Engine.State(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	configDir, _ := storage.ConfigDir()
	fmt.Printf("version:    %s\n", constants.Version)
	fmt.Printf("document:   %s\n", ctx.DocPath)
	fmt.Printf("config dir: %s\n", configDir)
	fmt.Printf("day-key:    %s (UTC+5:30)\n", timeutil.TodayKey(ctx.Clock))
	return nil
}
