package cli

import (
	"context"
	"fmt"
)

type SyncCmd struct{}

func (cmd *SyncCmd) Run(ctx *Context) error {
	runCtx, cancel := context.WithTimeout(context.Background(), SyncTimeout)
	defer cancel()

	if err := ctx.EstablishSync(runCtx); err != nil {
		return fmt.Errorf("sync session could not be established: %w", err)
	}
	if err := ctx.Syncer.Flush(runCtx, ctx.Engine.State()); err != nil {
		return err
	}
	fmt.Printf("Synced as %s.\n", ctx.Session.Account.Email)
	return nil
}
