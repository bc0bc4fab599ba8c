package cli

import (
	"fmt"

	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Overwrite an existing document with the defaults."`
}

func (cmd *InitCmd) Run(ctx *Context) error {
	if !cmd.Force {
		if _, err := ctx.Store.Load(); err == nil {
			return fmt.Errorf("document already exists at %s (use --force to reset)", ctx.DocPath)
		} else if err != storage.ErrNotFound {
			return fmt.Errorf("existing document is unreadable: %w (use --force to reset)", err)
		}
	}
	if err := ctx.Store.Save(models.Default()); err != nil {
		return err
	}
	fmt.Printf("Initialized %s\n", ctx.DocPath)
	return nil
}
