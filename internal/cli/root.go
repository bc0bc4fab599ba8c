package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/lockinhq/lockin/internal/backup"
	"github.com/lockinhq/lockin/internal/keyring"
	"github.com/lockinhq/lockin/internal/logger"
	"github.com/lockinhq/lockin/internal/models"
	"github.com/lockinhq/lockin/internal/remote"
	"github.com/lockinhq/lockin/internal/session"
	"github.com/lockinhq/lockin/internal/storage"
	syncer "github.com/lockinhq/lockin/internal/sync"
	"github.com/lockinhq/lockin/internal/timeutil"
)

// Context carries the wired application for command Run methods.
type Context struct {
	Engine  *session.Engine
	Store   storage.DocumentStore
	Clock   timeutil.Clock
	DocPath string
	Debug   bool

	// Set once a remote session is established.
	Remote  *remote.Client
	Session *remote.Session
	Syncer  *syncer.Syncer
}

// Persist saves the document locally and queues a remote push when a session
// exists. Wired as the engine's change observer.
func (c *Context) Persist(state models.AppState) {
	if err := c.Store.Save(state); err != nil {
		logger.Error("Local save failed", "error", err)
	}
	if c.Syncer != nil {
		c.Syncer.Queue(state)
	}
}

// PerformAutomaticBackup snapshots the document and silently logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, err := backup.NewManager(c.DocPath).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ConnectionString resolves the sync database connection string: flag/env
// first, then the OS keyring.
func ConnectionString() (string, error) {
	if v := os.Getenv("LOCKIN_DB_CONNECTION"); v != "" {
		return v, nil
	}
	return keyring.GetConnectionString()
}

// DialRemote opens the remote client, reusing an existing connection.
func (c *Context) DialRemote(ctx context.Context) (*remote.Client, error) {
	if c.Remote != nil {
		return c.Remote, nil
	}
	connStr, err := ConnectionString()
	if err != nil {
		return nil, fmt.Errorf("no sync database configured (run 'lockin settings set connection-string ...'): %w", err)
	}
	client, err := remote.Dial(ctx, connStr)
	if err != nil {
		return nil, err
	}
	c.Remote = client
	return client, nil
}

// EstablishSync resumes a cached session, reconciles the remote document with
// local state, and enables pushes. Degrades to local-only when no session is
// cached or the remote is unreachable.
func (c *Context) EstablishSync(ctx context.Context) error {
	if c.Syncer != nil && c.Syncer.Ready() {
		return nil
	}

	token, err := keyring.GetSessionToken()
	if err != nil {
		return err
	}

	client, err := c.DialRemote(ctx)
	if err != nil {
		return err
	}

	sess, err := client.Resume(ctx, token)
	if err != nil {
		return err
	}
	c.Session = &sess

	s := syncer.New(client)
	merged, err := s.Establish(ctx, sess.Account.ID, c.Engine.State())
	if err != nil {
		// Local operation continues; the status indicator shows the error.
		c.Syncer = s
		return err
	}
	c.Syncer = s
	c.Engine.Replace(merged)
	return nil
}

// Confirm asks the user for explicit confirmation unless yes is already set.
func Confirm(prompt string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	confirmed := false
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

// PromptPassword reads a password without echoing it.
func PromptPassword(title string) (string, error) {
	var password string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	if err != nil {
		return "", err
	}
	return password, nil
}

// SyncTimeout bounds every remote call made from a command.
const SyncTimeout = 30 * time.Second
