// Copyright (c) 2026 TrustVoice. All rights reserved.

package session

import (
	"context"
	"log/slog"
	"sync"
)

// # Collaborator Contract

// User is the authenticated account as the dashboard sees it.
type User struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	DonorID     *string `json:"donor_id"`
}

// Credentials are what the donor types at the login prompt. Exactly one of
// Identifier and PhoneNumber is set.
type Credentials struct {
	Identifier  string
	PhoneNumber string
	PIN         string
}

// AuthAPI is the remote authentication collaborator.
type AuthAPI interface {
	// Login exchanges credentials for a bearer token.
	Login(context context.Context, credentials Credentials) (string, error)

	// CurrentUser resolves the account behind a bearer token.
	CurrentUser(context context.Context, token string) (*User, error)

	// Logout invalidates a bearer token server-side.
	Logout(context context.Context, token string) error
}

// # State Machine

// State is the session lifecycle phase.
type State string

const (
	// StateLoggedOut means no credential is held.
	StateLoggedOut State = "logged_out"

	// StateAuthenticating means a login or restore is in flight. Every
	// transition into StateLoggedIn passes through this state.
	StateAuthenticating State = "authenticating"

	// StateLoggedIn means both token and user are resolved.
	StateLoggedIn State = "logged_in"
)

// Controller owns the session. It is the sole writer of the session's user
// and token; everything else reads through its accessors.
type Controller struct {
	mu     sync.Mutex
	api    AuthAPI
	tokens *TokenStore
	logger *slog.Logger

	state     State
	user      *User
	lastError error
}

// NewController creates a logged-out Controller.
func NewController(api AuthAPI, tokens *TokenStore, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		api:    api,
		tokens: tokens,
		logger: logger,
		state:  StateLoggedOut,
	}
}

/*
Login authenticates with the remote collaborator and commits the session.

Description: Exchanges credentials for a token, resolves the user, then
commits user and token together. On any failure the previous session state
is left intact and the error is surfaced.

Parameters:
  - context: context.Context
  - credentials: Credentials

Returns:
  - *User: The resolved account on success
  - err: Collaborator or persistence failures
*/
func (controller *Controller) Login(context context.Context, credentials Credentials) (*User, error) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	previous := controller.state
	controller.state = StateAuthenticating

	// 1. Exchange credentials for a token
	token, err := controller.api.Login(context, credentials)
	if err != nil {
		controller.state = previous
		controller.lastError = err
		return nil, err
	}

	// 2. Resolve the user before committing anything
	user, err := controller.api.CurrentUser(context, token)
	if err != nil {
		controller.state = previous
		controller.lastError = err
		return nil, err
	}

	// 3. Commit token and user together
	if err := controller.tokens.SetToken(token); err != nil {
		controller.state = previous
		controller.lastError = err
		return nil, err
	}

	controller.user = user
	controller.state = StateLoggedIn
	controller.lastError = nil

	controller.logger.Info("session established", slog.String("username", user.Username))
	return user, nil
}

/*
Restore revives a session from a previously persisted token.

Description: Installs the token into the store first, then resolves the user.
Any failure clears the token everywhere (fail-closed) and reports logged-out:
a token that cannot resolve a user is not worth keeping.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *User: The resolved account on success
  - err: Resolution failures (session is Logged Out afterwards)
*/
func (controller *Controller) Restore(context context.Context, token string) (*User, error) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.state = StateAuthenticating

	// Token goes in first so IsAuthenticated flips immediately; the user is
	// resolved in the window that follows.
	if err := controller.tokens.SetToken(token); err != nil {
		controller.failClosed(err)
		return nil, err
	}

	user, err := controller.api.CurrentUser(context, token)
	if err != nil {
		controller.failClosed(err)
		return nil, err
	}

	controller.user = user
	controller.state = StateLoggedIn
	controller.lastError = nil
	return user, nil
}

// failClosed wipes the credential everywhere after a failed restore.
func (controller *Controller) failClosed(cause error) {
	if err := controller.tokens.ClearToken(); err != nil {
		controller.logger.Warn("failed to clear token during fail-closed restore", slog.Any("error", err))
	}
	controller.user = nil
	controller.state = StateLoggedOut
	controller.lastError = cause
}

/*
Logout terminates the session locally, with best-effort remote invalidation.

Description: The remote call may fail (offline, token already dead); that
never blocks the local logout. Idempotent — logging out while logged out
succeeds. The stored error is cleared along with the credential.

Parameters:
  - context: context.Context

Returns:
  - err: Local storage failures only
*/
func (controller *Controller) Logout(context context.Context) error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if token := controller.tokens.Token(); token != "" {
		if err := controller.api.Logout(context, token); err != nil {
			controller.logger.Warn("remote logout failed, clearing local session anyway", slog.Any("error", err))
		}
	}

	if err := controller.tokens.ClearToken(); err != nil {
		return err
	}

	controller.user = nil
	controller.state = StateLoggedOut
	controller.lastError = nil
	return nil
}

// IsAuthenticated reports whether a bearer token is currently held.
//
// This is a pure token-presence predicate. During login and restore there is
// a short window where the token is set but the user is not yet resolved;
// callers that need the account must use [Controller.CurrentUser], which
// returns nil throughout that window.
func (controller *Controller) IsAuthenticated() bool {
	return controller.tokens.Token() != ""
}

// CurrentUser returns the resolved account, or nil when none is resolved.
func (controller *Controller) CurrentUser() *User {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.user
}

// State returns the current lifecycle phase.
func (controller *Controller) State() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state
}

// Err returns the error from the most recent failed operation, if any.
func (controller *Controller) Err() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.lastError
}
