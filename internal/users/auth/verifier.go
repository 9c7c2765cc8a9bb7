// Copyright (c) 2026 TrustVoice. All rights reserved.

package auth

import (
	"context"

	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
	"github.com/the-voice-ledger/trustvoice/internal/platform/sec"
)

// Verifier validates bearer tokens for the HTTP middleware, layering the
// Redis denylist check on top of cryptographic JWT verification.
//
// A token is valid only if its signature checks out AND its JTI has not been
// denylisted by a logout.
type Verifier struct {
	tokens   *sec.TokenService
	denylist DenylistRepository
}

// NewVerifier constructs a Verifier from the signing service and denylist.
func NewVerifier(tokens *sec.TokenService, denylist DenylistRepository) *Verifier {
	return &Verifier{tokens: tokens, denylist: denylist}
}

/*
VerifyToken checks the signature, expiry, and revocation status of a token.

Parameters:
  - context: context.Context
  - tokenString: string (raw bearer token)

Returns:
  - *sec.AuthClaims: Verified claims
  - err: apperr.Unauthorized for any invalid or revoked token
*/
func (verifier *Verifier) VerifyToken(context context.Context, tokenString string) (*sec.AuthClaims, error) {

	// 1. Cryptographic verification (signature, expiry, issuer)
	claims, err := verifier.tokens.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	// 2. Revocation check against the logout denylist
	revoked, err := verifier.denylist.Contains(context, claims.ID)
	if err != nil {
		// Redis being down should not invalidate cryptographically sound
		// tokens; availability wins over instant revocation here.
		return claims, nil
	}
	if revoked {
		return nil, apperr.Unauthorized("Token has been revoked")
	}

	return claims, nil
}
