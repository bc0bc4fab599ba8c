package cli

import (
	"fmt"

	"github.com/lockinhq/lockin/internal/backup"
	"github.com/lockinhq/lockin/internal/storage"
)

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *Context) error {
	path, err := backup.NewManager(ctx.DocPath).Create()
	if err != nil {
		return err
	}
	fmt.Printf("Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (cmd *BackupListCmd) Run(ctx *Context) error {
	backups, err := backup.NewManager(ctx.DocPath).List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return nil
	}
	for _, b := range backups {
		fmt.Printf("%s  %s  %d bytes\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Path, b.Size)
	}
	return nil
}

type BackupRestoreCmd struct {
	Path string `arg:"" help:"Backup file to restore."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (cmd *BackupRestoreCmd) Run(ctx *Context) error {
	ok, err := Confirm("Replace the current document with this backup?", cmd.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}
	if err := backup.NewManager(ctx.DocPath).Restore(cmd.Path); err != nil {
		return err
	}
	// Reload the restored document into the running engine.
	ctx.Engine.Replace(storage.LoadOrDefault(ctx.Store))
	fmt.Println("Backup restored.")
	return nil
}
