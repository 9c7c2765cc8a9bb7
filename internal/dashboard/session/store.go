// Copyright (c) 2026 TrustVoice. All rights reserved.

/*
Package session implements the client-side authentication core of the donor
dashboard: the token store and the session controller.

Architecture:

  - TokenStore: Single source of truth for the bearer credential, mirrored
    into a durable [TokenStorage] slot.
  - Controller: Sole writer of the session's user and token; drives the
    LoggedOut → Authenticating → LoggedIn state machine.
  - AuthAPI: The remote collaborator contract, implemented over HTTP in
    [HTTPAuthAPI] and faked in tests.

Front-ends (Telegram bot, web dashboard, CLI) consume this package instead of
talking to the auth endpoints directly.
*/
package session

import (
	"fmt"
	"sync"
)

// TokenStore holds the current bearer credential.
//
// The store does no network I/O and no validation; it only answers "what is
// the credential right now" and keeps the durable slot in sync.
type TokenStore struct {
	mu      sync.RWMutex
	token   string
	storage TokenStorage
}

// NewTokenStore creates a TokenStore over the given durable slot.
func NewTokenStore(storage TokenStorage) *TokenStore {
	return &TokenStore{storage: storage}
}

// SetToken stores the token in memory and in durable storage.
//
// The durable write happens first: a credential that exists only in memory
// would silently log the donor out on restart.
func (store *TokenStore) SetToken(token string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.storage.Save(token); err != nil {
		return fmt.Errorf("token_store_persist_failed: %w", err)
	}

	store.token = token
	return nil
}

// ClearToken removes the token from memory and durable storage. Idempotent.
func (store *TokenStore) ClearToken() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.storage.Clear(); err != nil {
		return fmt.Errorf("token_store_clear_failed: %w", err)
	}

	store.token = ""
	return nil
}

// Token returns the current in-memory token, or "" when logged out.
func (store *TokenStore) Token() string {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.token
}

// LoadPersisted pulls the durable slot into memory, returning the token.
// Used at startup before attempting a session restore.
func (store *TokenStore) LoadPersisted() (string, error) {
	token, err := store.storage.Load()
	if err != nil {
		return "", fmt.Errorf("token_store_load_failed: %w", err)
	}

	store.mu.Lock()
	store.token = token
	store.mu.Unlock()

	return token, nil
}
