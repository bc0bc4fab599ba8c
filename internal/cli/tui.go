package cli

import (
	"context"

	"github.com/lockinhq/lockin/internal/logger"
	"github.com/lockinhq/lockin/internal/tui"
)

type TuiCmd struct{}

func (cmd *TuiCmd) Run(ctx *Context) error {
	// Best-effort: a cached session reconciles before the TUI starts so the
	// screen opens on the merged document.
	runCtx, cancel := context.WithTimeout(context.Background(), SyncTimeout)
	if err := ctx.EstablishSync(runCtx); err != nil {
		logger.Debug("No sync session, running local-only", "error", err)
	}
	cancel()

	status := func() string {
		if ctx.Syncer != nil {
			return string(ctx.Syncer.Status())
		}
		return "local"
	}
	return tui.Run(ctx.Engine, ctx.Clock, status)
}
