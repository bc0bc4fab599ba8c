// Package remote is the cloud side of cross-device sync: the account/session
// service and the per-user document store. Each account stores exactly one
// JSON AppState document, replaced wholesale on every push.
package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/lockinhq/lockin/internal/logger"
	"github.com/lockinhq/lockin/internal/models"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
	ErrEmailTaken              = errors.New("an account with this email already exists")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrSessionNotFound         = errors.New("session not found or expired")
	ErrNotConfirmed            = errors.New("account is pending email confirmation")
)

// Account is the remote user identity.
type Account struct {
	ID        string
	Email     string
	Confirmed bool
	CreatedAt time.Time
}

// Session is an active sign-in. The token is cached in the OS keyring so the
// next launch can resume without a password.
type Session struct {
	Token   string
	Account Account
}

// Client talks to the sync database.
type Client struct {
	db *sql.DB
}

// Dial opens the connection and ensures the schema exists.
func Dial(ctx context.Context, connStr string) (*Client, error) {
	if embedded, err := checkConnString(connStr); err != nil {
		return nil, err
	} else if embedded {
		return nil, ErrEmbeddedCredentials
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open sync database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sync database unreachable: %w", err)
	}

	c := &Client{db: db}
	if err := c.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sync schema: %w", err)
	}
	return c, nil
}

func (c *Client) Close() error { return c.db.Close() }

func (c *Client) migrate(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS accounts (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		confirmed     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token      UUID PRIMARY KEY,
		account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS documents (
		account_id UUID PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
		doc        JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	_, err := c.db.ExecContext(ctx, ddl)
	return err
}

// SignUp creates an account in the pending-confirmation state.
func (c *Client) SignUp(ctx context.Context, email, password string) (Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return Account{}, fmt.Errorf("invalid email address %q", email)
	}
	if len(password) < 8 {
		return Account{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	acct := Account{ID: uuid.NewString(), Email: email}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password_hash) VALUES ($1, $2, $3)`,
		acct.ID, acct.Email, string(hash),
	)
	if err != nil {
		if strings.Contains(err.Error(), "accounts_email_key") {
			return Account{}, ErrEmailTaken
		}
		return Account{}, fmt.Errorf("create account: %w", err)
	}
	logger.Info("Account created, pending confirmation", "email", email)
	return acct, nil
}

// Confirm marks an account as confirmed. In a hosted deployment this is
// driven by an email link; the CLI exposes it for self-hosted databases.
func (c *Client) Confirm(ctx context.Context, email string) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE accounts SET confirmed = TRUE WHERE email = $1`,
		strings.TrimSpace(strings.ToLower(email)),
	)
	if err != nil {
		return fmt.Errorf("confirm account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvalidCredentials
	}
	return nil
}

// SignIn verifies the credentials and opens a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var acct Account
	var hash string
	err := c.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, confirmed, created_at FROM accounts WHERE email = $1`,
		email,
	).Scan(&acct.ID, &acct.Email, &hash, &acct.Confirmed, &acct.CreatedAt)
	if err == sql.ErrNoRows {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !acct.Confirmed {
		return Session{}, ErrNotConfirmed
	}

	token := uuid.NewString()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO sessions (token, account_id) VALUES ($1, $2)`,
		token, acct.ID,
	)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return Session{Token: token, Account: acct}, nil
}

// Resume looks up an existing session by its cached token.
func (c *Client) Resume(ctx context.Context, token string) (Session, error) {
	var acct Account
	err := c.db.QueryRowContext(ctx, `
		SELECT a.id, a.email, a.confirmed, a.created_at
		FROM sessions s JOIN accounts a ON a.id = s.account_id
		WHERE s.token = $1`, token,
	).Scan(&acct.ID, &acct.Email, &acct.Confirmed, &acct.CreatedAt)
	if err == sql.ErrNoRows {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("resume session: %w", err)
	}
	return Session{Token: token, Account: acct}, nil
}

// SignOut tears down the session server-side.
func (c *Client) SignOut(ctx context.Context, token string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// FetchDocument returns the stored document for the account. found is false
// when the account has never pushed.
func (c *Client) FetchDocument(ctx context.Context, accountID string) (state models.AppState, found bool, err error) {
	var doc []byte
	err = c.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE account_id = $1`, accountID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return models.AppState{}, false, nil
	}
	if err != nil {
		return models.AppState{}, false, fmt.Errorf("fetch document: %w", err)
	}
	if err := json.Unmarshal(doc, &state); err != nil {
		return models.AppState{}, false, fmt.Errorf("decode remote document: %w", err)
	}
	return state, true, nil
}

// PushDocument upserts the whole document for the account.
func (c *Client) PushDocument(ctx context.Context, accountID string, state models.AppState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO documents (account_id, doc, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (account_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		accountID, doc,
	)
	if err != nil {
		return fmt.Errorf("push document: %w", err)
	}
	return nil
}

// checkConnString validates the connection string shape and reports whether
// it embeds a password. Credentials belong in the keyring, env, or .pgpass.
func checkConnString(connStr string) (embedded bool, err error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if u.User != nil {
			if _, isSet := u.User.Password(); isSet {
				return true, nil
			}
		}
		return false, nil
	}
	for _, pair := range strings.Fields(connStr) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			return true, nil
		}
	}
	return false, nil
}
