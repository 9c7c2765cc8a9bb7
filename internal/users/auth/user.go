// Copyright (c) 2026 TrustVoice. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for authentication,
authorization, and account lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/the-voice-ledger/trustvoice/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the TrustVoice platform.
//
// A user may optionally be linked to a donor profile (DonorID); only linked
// users have a donation history to show on the dashboard.
type User struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	PhoneNumber *string      `json:"phone_number,omitempty"`
	PINHash     string       `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName string       `json:"display_name"`
	Role        sec.UserRole `json:"role"`
	DonorID     *string      `json:"donor_id,omitempty"`
	IsVerified  bool         `json:"is_verified"`
	LastLoginAt *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Session represents an audit record for an issued bearer token.
//
// Only the SHA-256 digest of the token is stored; revoking a session plus
// denylisting the token's JTI is what makes a logout stick server-side.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the bearer token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPhoneNumber = "phone_number"
	FieldPIN         = "pin"
	FieldIdentifier  = "identifier"
	FieldDisplayName = "display_name"
	FieldFullName    = "full_name"
	FieldCountry     = "country"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
	FieldMessage     = "message"
)
