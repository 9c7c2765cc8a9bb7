// Copyright (c) 2026 TrustVoice. All rights reserved.

/*
Package auth implements the core identity and access management (IAM) system.

It handles everything from donor registration and secure PIN hashing to bearer
token lifecycle management via JWT and a Redis-backed logout denylist.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Logout).
  - Repository: Abstracted interfaces for Postgres (Users, Sessions) and Redis (Denylist).
  - Security: Leverages Bcrypt-hashed PINs and RSA-signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
	"github.com/the-voice-ledger/trustvoice/internal/platform/sec"
	"github.com/the-voice-ledger/trustvoice/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// DonorProfileCreator creates the donor-side profile when a user opts into
// the donor role. It is implemented by the giving domain.
type DonorProfileCreator interface {
	CreateDonorProfile(context context.Context, userID, fullName, country string) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	denylist          DenylistRepository
	donorProfiles     DonorProfileCreator
	tokenProvider     TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	denylist DenylistRepository,
	donorProfiles DonorProfileCreator,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		denylist:          denylist,
		donorProfiles:     donorProfiles,
		tokenProvider:     tokenProv,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username    string
	Email       string
	PhoneNumber string // Optional, E.164
	PIN         string
	DisplayName string

	// AsDonor requests a linked donor profile at enrollment time.
	AsDonor  bool
	FullName string
	Country  string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member, handling PIN hashing and
optional donor-profile linkage.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Verify phone uniqueness when a phone number is supplied.
	if input.PhoneNumber != "" {
		_, err = service.userRepository.FindByPhone(context, input.PhoneNumber)
		if err == nil {
			return nil, apperr.Conflict("Phone number is already registered")
		}
	}

	// Prevent storing plain-text PINs. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPIN, err := sec.HashPIN(input.PIN)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:          uuid.New(),
		Username:    input.Username,
		Email:       input.Email,
		PINHash:     hashedPIN,
		DisplayName: input.DisplayName,
		Role:        sec.RoleMember,
		IsVerified:  false,
	}
	if input.PhoneNumber != "" {
		phone := input.PhoneNumber
		user.PhoneNumber = &phone
	}
	if input.AsDonor {
		user.Role = sec.RoleDonor
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Create and link the donor profile when requested. Registration has
	// already succeeded at this point, so a linkage failure is reported
	// but does not roll back the account.
	if input.AsDonor {
		donorID, err := service.donorProfiles.CreateDonorProfile(context, user.ID, input.FullName, input.Country)
		if err != nil {
			return nil, fmt.Errorf("auth_service_donor_link_failed: %w", err)
		}
		if err := service.userRepository.SetDonorID(context, user.ID, donorID); err != nil {
			return nil, fmt.Errorf("auth_service_donor_link_failed: %w", err)
		}
		user.DonorID = &donorID
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
//
// Exactly one of Identifier (username or email) and PhoneNumber must be set;
// the handler enforces this before the service is called.
type LoginInput struct {
	Identifier  string
	PhoneNumber string
	PIN         string
	UserAgent   string
	IPAddress   string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *User
}

/*
Login validates donor credentials and issues a bearer token.

Description: Verifies identity by identifier or phone, performs constant-time
PIN comparison, and records an audit session for the issued token.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	var user *User
	var err error

	// Flexible login: look up by phone number, or by email/username.
	if input.PhoneNumber != "" {
		user, err = service.userRepository.FindByPhone(context, input.PhoneNumber)
	} else {
		user, err = service.userRepository.FindByEmail(context, input.Identifier)
		if err != nil {
			user, err = service.userRepository.FindByUsername(context, input.Identifier)
		}
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify PIN hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPINHash(input.PIN, user.PINHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Generate the bearer Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Create and persist the tracking session
	expiresAt := time.Now().Add(AccessTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(accessToken),
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	// Best-effort login bookkeeping, never blocks the login itself.
	_ = service.userRepository.TouchLastLogin(context, user.ID)

	return &LoginSession{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// # Session Management

/*
CurrentUser resolves the full account record for an authenticated request.

Description: The "who am I" operation behind GET /me. The token has already
been verified by middleware; this hydrates the complete, current user state
(including donor linkage) from storage.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated entity
  - err: apperr.Unauthorized if the account no longer exists
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Unauthorized("Account not found or suspended")
	}
	return user, nil
}

/*
Logout permanently invalidates the presented bearer token.

Description: Denylists the token's JTI for its remaining lifetime and revokes
the matching audit session. Logging out an already-dead session is a no-op.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (verified claims of the presented token)
  - rawToken: string

Returns:
  - err: Denylist persistence failures
*/
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims, rawToken string) error {

	// Denylist the JTI until the token would have expired anyway.
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining > 0 {
		if err := service.denylist.Add(context, claims.ID, remaining); err != nil {
			return fmt.Errorf("auth_service_logout_denylist_failed: %w", err)
		}
	}

	// Revoke the audit session. If it is already gone or revoked, logout is
	// still considered successful (idempotent operation).
	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(rawToken))
	if err != nil {
		return nil
	}

	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

/*
LinkDonorProfile creates a donor profile for an existing member account.

Description: Promotes a member to the donor role so that donation history
and receipts become available on their dashboard.

Parameters:
  - context: context.Context
  - userID: string
  - fullName: string
  - country: string

Returns:
  - *User: Updated entity
  - err: Conflict if already linked, or storage errors
*/
func (service *Service) LinkDonorProfile(context context.Context, userID, fullName, country string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if user.DonorID != nil {
		return nil, apperr.Conflict("Account is already linked to a donor profile")
	}

	donorID, err := service.donorProfiles.CreateDonorProfile(context, userID, fullName, country)
	if err != nil {
		return nil, fmt.Errorf("auth_service_donor_link_failed: %w", err)
	}

	if err := service.userRepository.SetDonorID(context, userID, donorID); err != nil {
		return nil, fmt.Errorf("auth_service_donor_link_failed: %w", err)
	}

	user.DonorID = &donorID
	return user, nil
}
