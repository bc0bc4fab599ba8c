package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/lockinhq/lockin/internal/keyring"
	"github.com/lockinhq/lockin/internal/logger"
	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/remote"
	syncer "github.com/lockinhq/lockin/internal/sync"
)

type SignupCmd struct {
	Email string `arg:"" help:"Email address for the new account."`
}

func (cmd *SignupCmd) Run(ctx *Context) error {
	password, err := PromptPassword("Choose a password")
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(context.Background(), SyncTimeout)
	defer cancel()

	client, err := ctx.DialRemote(runCtx)
	if err != nil {
		return err
	}
	acct, err := client.SignUp(runCtx, cmd.Email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Account %s created, pending confirmation.\n", acct.Email)
	return nil
}

type ConfirmCmd struct {
	Email string `arg:"" help:"Email address to confirm."`
}

func (cmd *ConfirmCmd) Run(ctx *Context) error {
	runCtx, cancel := context.WithTimeout(context.Background(), SyncTimeout)
	defer cancel()

	client, err := ctx.DialRemote(runCtx)
	if err != nil {
		return err
	}
	if err := client.Confirm(runCtx, cmd.Email); err != nil {
		return err
	}
	fmt.Printf("Account %s confirmed.\n", cmd.Email)
	return nil
}

type SigninCmd struct {
	Email string `arg:"" help:"Email address."`
}

func (cmd *SigninCmd) Run(ctx *Context) error {
	password, err := PromptPassword("Password")
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(context.Background(), SyncTimeout)
	defer cancel()

	client, err := ctx.DialRemote(runCtx)
	if err != nil {
		return err
	}

	sess, err := client.SignIn(runCtx, cmd.Email, password)
	if err != nil {
		if errors.Is(err, remote.ErrNotConfirmed) {
			return fmt.Errorf("%w (run 'lockin account confirm %s')", err, cmd.Email)
		}
		return err
	}
	ctx.Session = &sess

	if err := keyring.SetSessionToken(sess.Token); err != nil {
		logger.Warn("Could not cache session token", "error", err)
	}

	// Reconcile before any push: the merged document becomes authoritative.
	s := syncer.New(client)
	merged, err := s.Establish(runCtx, sess.Account.ID, ctx.Engine.State())
	ctx.Syncer = s
	if err != nil {
		fmt.Println("Signed in, but the remote document could not be fetched; staying local-only.")
		return nil
	}
	ctx.Engine.Replace(merged)

	fmt.Printf("Signed in as %s. %d log(s), %d task(s), %d chapter(s) after merge.\n",
		sess.Account.Email, len(merged.Logs), len(merged.Tasks), len(merged.Progress))
	return nil
}

type SignoutCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (cmd *SignoutCmd) Run(ctx *Context) error {
	// The local cache is wiped so the next sign-in takes the cloud document;
	// anything never pushed is lost with it.
	ok, err := Confirm("Sign out and wipe the local cached data? Unsynced changes will be lost.", cmd.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}

	ctx.PerformAutomaticBackup()

	runCtx, cancel := context.WithTimeout(context.Background(), SyncTimeout)
	defer cancel()

	if token, err := keyring.GetSessionToken(); err == nil {
		if client, err := ctx.DialRemote(runCtx); err == nil {
			if err := client.SignOut(runCtx, token); err != nil {
				logger.Warn("Remote sign-out failed", "error", err)
			}
		}
		if err := keyring.DeleteSessionToken(); err != nil {
			logger.Warn("Could not clear cached session token", "error", err)
		}
	}

	ctx.Syncer = nil
	ctx.Session = nil
	ctx.Engine.Replace(models.Default())
	fmt.Println("Signed out. Local data wiped.")
	return nil
}
