// Copyright (c) 2026 TrustVoice. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a bearer access token remains valid.
	//
	// The Telegram bot and the dashboard persist a single bearer token across
	// process restarts instead of rotating refresh tokens, so the token is
	// long-lived (30 days). Compromised tokens are handled by the logout
	// denylist rather than a short expiry.
	AccessTokenTTL = 30 * 24 * time.Hour

	// MinPINLength is the minimum number of digits in a PIN.
	MinPINLength = 4

	// MaxPINLength is the maximum number of digits in a PIN.
	// Capped so that voice keypad entry stays practical.
	MaxPINLength = 8
)
