// Copyright (c) 2026 TrustVoice. All rights reserved.

package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-voice-ledger/trustvoice/internal/dashboard/session"
)

// fakeAuthAPI scripts the remote collaborator.
type fakeAuthAPI struct {
	loginToken string
	loginErr   error
	user       *session.User
	userErr    error
	logoutErr  error

	logoutCalls int

	// observedDuringResolve captures IsAuthenticated and CurrentUser as seen
	// in the window between token install and user resolution.
	observedDuringResolve func()
}

func (api *fakeAuthAPI) Login(_ context.Context, _ session.Credentials) (string, error) {
	return api.loginToken, api.loginErr
}

func (api *fakeAuthAPI) CurrentUser(_ context.Context, _ string) (*session.User, error) {
	if api.observedDuringResolve != nil {
		api.observedDuringResolve()
	}
	return api.user, api.userErr
}

func (api *fakeAuthAPI) Logout(_ context.Context, _ string) error {
	api.logoutCalls++
	return api.logoutErr
}

func newController(api *fakeAuthAPI) (*session.Controller, *session.TokenStore) {
	tokens := session.NewTokenStore(session.NewMemoryStorage())
	return session.NewController(api, tokens, nil), tokens
}

var donor = &session.User{ID: "user-1", Username: "amina", DisplayName: "Amina"}

/*
TestController_Login verifies the commit-together semantics of login.
*/
func TestController_Login(t *testing.T) {
	ctx := context.Background()
	creds := session.Credentials{Identifier: "amina", PIN: "4821"}

	t.Run("success_commits_user_and_token", func(t *testing.T) {
		api := &fakeAuthAPI{loginToken: "bearer-1", user: donor}
		controller, tokens := newController(api)

		user, err := controller.Login(ctx, creds)
		require.NoError(t, err)

		assert.Equal(t, "amina", user.Username)
		assert.Equal(t, "bearer-1", tokens.Token())
		assert.Equal(t, session.StateLoggedIn, controller.State())
		assert.True(t, controller.IsAuthenticated())
		assert.Equal(t, donor, controller.CurrentUser())
		assert.NoError(t, controller.Err())
	})

	t.Run("credential_rejection_leaves_state_intact", func(t *testing.T) {
		api := &fakeAuthAPI{loginErr: errors.New("invalid pin")}
		controller, tokens := newController(api)

		_, err := controller.Login(ctx, creds)
		require.Error(t, err)

		assert.Empty(t, tokens.Token())
		assert.Equal(t, session.StateLoggedOut, controller.State())
		assert.False(t, controller.IsAuthenticated())
		assert.Nil(t, controller.CurrentUser())
		assert.Error(t, controller.Err())
	})

	t.Run("user_resolution_failure_commits_nothing", func(t *testing.T) {
		api := &fakeAuthAPI{loginToken: "bearer-1", userErr: errors.New("me endpoint down")}
		controller, tokens := newController(api)

		_, err := controller.Login(ctx, creds)
		require.Error(t, err)

		// The token was never installed: no half-open session.
		assert.Empty(t, tokens.Token())
		assert.False(t, controller.IsAuthenticated())
		assert.Equal(t, session.StateLoggedOut, controller.State())
	})
}

/*
TestController_Restore verifies token-first installation and fail-closed cleanup.
*/
func TestController_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeAuthAPI{user: donor}
		controller, tokens := newController(api)

		user, err := controller.Restore(ctx, "persisted-token")
		require.NoError(t, err)

		assert.Equal(t, donor, user)
		assert.Equal(t, "persisted-token", tokens.Token())
		assert.Equal(t, session.StateLoggedIn, controller.State())
	})

	t.Run("token_installed_before_user_resolution", func(t *testing.T) {
		api := &fakeAuthAPI{user: donor}
		controller, tokens := newController(api)

		var tokenDuringWindow string
		api.observedDuringResolve = func() {
			tokenDuringWindow = tokens.Token()
		}

		_, err := controller.Restore(ctx, "persisted-token")
		require.NoError(t, err)
		assert.Equal(t, "persisted-token", tokenDuringWindow)
	})

	t.Run("dead_token_clears_everywhere", func(t *testing.T) {
		api := &fakeAuthAPI{userErr: errors.New("401 token revoked")}
		controller, tokens := newController(api)

		_, err := controller.Restore(ctx, "stale-token")
		require.Error(t, err)

		assert.Empty(t, tokens.Token())
		assert.False(t, controller.IsAuthenticated())
		assert.Nil(t, controller.CurrentUser())
		assert.Equal(t, session.StateLoggedOut, controller.State())
	})
}

/*
TestController_Logout verifies best-effort remote invalidation and idempotency.
*/
func TestController_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears_session_and_error", func(t *testing.T) {
		api := &fakeAuthAPI{loginToken: "bearer-1", user: donor}
		controller, tokens := newController(api)
		_, err := controller.Login(ctx, session.Credentials{Identifier: "amina", PIN: "4821"})
		require.NoError(t, err)

		require.NoError(t, controller.Logout(ctx))

		assert.Equal(t, 1, api.logoutCalls)
		assert.Empty(t, tokens.Token())
		assert.Nil(t, controller.CurrentUser())
		assert.Equal(t, session.StateLoggedOut, controller.State())
		assert.NoError(t, controller.Err())
	})

	t.Run("remote_failure_is_swallowed", func(t *testing.T) {
		api := &fakeAuthAPI{loginToken: "bearer-1", user: donor, logoutErr: errors.New("network down")}
		controller, tokens := newController(api)
		_, err := controller.Login(ctx, session.Credentials{Identifier: "amina", PIN: "4821"})
		require.NoError(t, err)

		require.NoError(t, controller.Logout(ctx))
		assert.Empty(t, tokens.Token())
		assert.False(t, controller.IsAuthenticated())
	})

	t.Run("idempotent_when_logged_out", func(t *testing.T) {
		api := &fakeAuthAPI{}
		controller, _ := newController(api)

		require.NoError(t, controller.Logout(ctx))
		require.NoError(t, controller.Logout(ctx))

		// No token held, so the remote endpoint is never bothered.
		assert.Equal(t, 0, api.logoutCalls)
	})
}

/*
TestController_AuthenticationWindow documents the token-present, user-pending
window during restore: IsAuthenticated flips true before the user resolves.
*/
func TestController_AuthenticationWindow(t *testing.T) {
	api := &fakeAuthAPI{user: donor}
	controller, _ := newController(api)

	var authenticatedDuringWindow bool
	api.observedDuringResolve = func() {
		authenticatedDuringWindow = controller.IsAuthenticated()
	}

	_, err := controller.Restore(context.Background(), "persisted-token")
	require.NoError(t, err)

	assert.True(t, authenticatedDuringWindow)
}
