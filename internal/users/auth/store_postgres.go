// Copyright (c) 2026 TrustVoice. All rights reserved.

// PostgreSQL implementations of the auth storage contracts.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager. Queries are assembled from the
// [schema] definitions so column renames stay in one place.
//
// # err Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
	"github.com/the-voice-ledger/trustvoice/internal/platform/database/schema"
	"github.com/the-voice-ledger/trustvoice/internal/platform/dberr"
	"github.com/the-voice-ledger/trustvoice/internal/platform/sec"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var userColumns = fmt.Sprintf(
	"%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
	schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
	schema.UserAccount.PhoneNumber, schema.UserAccount.PIN, schema.UserAccount.DisplayName,
	schema.UserAccount.Role, schema.UserAccount.DonorID, schema.UserAccount.IsVerified,
	schema.UserAccount.LastLoginAt, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
)

// scanUser hydrates a User from a row carrying userColumns.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PhoneNumber,
		&user.PINHash,
		&user.DisplayName,
		&user.Role,
		&user.DonorID,
		&user.IsVerified,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// findUserBy resolves one live account by an arbitrary schema column.
func (repository *PostgresUserRepository) findUserBy(context context.Context, column, value, notFoundMsg string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		userColumns, schema.UserAccount.Table, column, schema.UserAccount.DeletedAt,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(notFoundMsg)
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - err: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.PhoneNumber, schema.UserAccount.PIN, schema.UserAccount.DisplayName,
		schema.UserAccount.Role, schema.UserAccount.DonorID, schema.UserAccount.IsVerified,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PhoneNumber,
		user.PINHash,
		user.DisplayName,
		user.Role,
		user.DonorID,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// Unique-constraint races (same email registered twice concurrently)
		// surface as CONFLICT rather than a raw driver error.
		return dberr.Wrap(err, "create_account")
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - err: Not found or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findUserBy(context, schema.UserAccount.ID, id, "User not found")
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Performs a lookup on the account table, filtering out soft-deleted users.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - err: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findUserBy(context, schema.UserAccount.Email, email, "User not found with this email")
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup by username for authentication and profile resolution.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - err: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findUserBy(context, schema.UserAccount.Username, username, "User not found with this username")
}

/*
FindByPhone retrieves a user record by their E.164 phone number.

Description: Phone-first login support for donors registered via mobile.

Parameters:
  - context: context.Context
  - phoneNumber: string (E.164)

Returns:
  - *User: Hydrated account entity
  - err: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByPhone(context context.Context, phoneNumber string) (*User, error) {
	return repository.findUserBy(context, schema.UserAccount.PhoneNumber, phoneNumber, "User not found with this phone number")
}

/*
SetDonorID links an account to its donor profile.

Parameters:
  - context: context.Context
  - userID: string
  - donorID: string

Returns:
  - err: Execution errors
*/
func (repository *PostgresUserRepository) SetDonorID(context context.Context, userID, donorID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2,
		    %s = CASE WHEN %s = $3 THEN $4 ELSE %s END,
		    %s = $5
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.DonorID,
		schema.UserAccount.Role, schema.UserAccount.Role, schema.UserAccount.Role,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	// Linking upgrades plain members to donors; organizers and admins keep
	// their higher role.
	_, err := repository.pool.Exec(context, query, userID, donorID, sec.RoleMember, sec.RoleDonor, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_donor_id_failed: %w", err)
	}

	return nil
}

/*
TouchLastLogin records the timestamp of a successful authentication.

Description: Audit bookkeeping; failures here must not block the login.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Execution errors
*/
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, userID string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1",
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID,
	)

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_touch_last_login_failed: %w", err)
	}
	return nil
}

// # Session Repository

// PostgresSessionRepository implements the SessionRepository interface.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

var sessionColumns = fmt.Sprintf(
	"%s, %s, %s, %s, %s, %s, %s, %s",
	schema.UserSession.ID, schema.UserSession.UserID, schema.UserSession.TokenHash,
	schema.UserSession.UserAgent, schema.UserSession.IPAddress, schema.UserSession.ExpiresAt,
	schema.UserSession.IsRevoked, schema.UserSession.CreatedAt,
)

/*
Create persists a new session record into the users.session table.

Description: Records a successful authentication session in persistent storage.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - err: Storage failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.UserSession.Table, sessionColumns,
	)

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.IsRevoked,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash retrieves an active session by its unique token hash.

Description: Securely resolves a bearer token hash into an active session.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: Hydrated session metadata
  - err: apperr.NotFound or execution errors
*/
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = FALSE AND %s > NOW()`,
		sessionColumns, schema.UserSession.Table,
		schema.UserSession.TokenHash, schema.UserSession.IsRevoked, schema.UserSession.ExpiresAt,
	)

	session := &Session{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.IsRevoked,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session not found or expired")
		}
		return nil, fmt.Errorf("postgres_session_repo_find_failed: %w", err)
	}

	return session, nil
}

/*
Revoke marks a specific session as revoked.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - err: Revocation failures
*/
func (repository *PostgresSessionRepository) Revoke(context context.Context, sessionID string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = TRUE WHERE %s = $1",
		schema.UserSession.Table, schema.UserSession.IsRevoked, schema.UserSession.ID,
	)

	_, err := repository.pool.Exec(context, query, sessionID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_failed: %w", err)
	}
	return nil
}

/*
RevokeAll marks all active sessions for a user as revoked.

Description: Security nuking of all active sessions for a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Batch revocation failures
*/
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s = FALSE",
		schema.UserSession.Table, schema.UserSession.IsRevoked,
		schema.UserSession.UserID, schema.UserSession.IsRevoked,
	)

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_all_failed: %w", err)
	}
	return nil
}

/*
DeleteExpired permanently removes all sessions that have passed their expiration.

Description: Cleanup task to reclaim storage from stale sessions.

Parameters:
  - context: context.Context

Returns:
  - err: Cleanup failures
*/
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s <= NOW()",
		schema.UserSession.Table, schema.UserSession.ExpiresAt,
	)

	_, err := repository.pool.Exec(context, query)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_expired_failed: %w", err)
	}
	return nil
}
