// Copyright (c) 2026 TrustVoice. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByPhone returns the account with the given E.164 phone number.

		Parameters:
		  - context: context.Context
		  - phoneNumber: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByPhone(context context.Context, phoneNumber string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		SetDonorID links a user account to its donor profile.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - donorID: string

		Returns:
		  - error: Persistence failures
	*/
	SetDonorID(context context.Context, userID, donorID string) error

	/*
		TouchLastLogin records a successful authentication timestamp.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	TouchLastLogin(context context.Context, userID string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for bearer-token audit sessions.
type SessionRepository interface {

	/*
		Create persists a new tracking session for an authenticated login.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the active session matching the given token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		Revoke marks a specific session as permanently invalidated.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, sessionID string) error

	/*
		RevokeAll revokes every active session belonging to the userID.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	RevokeAll(context context.Context, userID string) error

	/*
		DeleteExpired physically removes sessions whose ExpiresAt is in the past.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	DeleteExpired(context context.Context) error
}

// # Volatile Data Access

// DenylistRepository defines the contract for the logout token denylist.
//
// Entries expire on their own (TTL equals the token's remaining lifetime),
// so the denylist never grows beyond the set of tokens logged out early.
type DenylistRepository interface {

	/*
		Add denylists a token's JTI for the given duration.

		Parameters:
		  - context: context.Context
		  - jti: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Add(context context.Context, jti string, ttl time.Duration) error

	/*
		Contains reports whether a token's JTI has been denylisted.

		Parameters:
		  - context: context.Context
		  - jti: string

		Returns:
		  - bool: true if the token was logged out early
		  - error: Retrieval failures
	*/
	Contains(context context.Context, jti string) (bool, error)
}
