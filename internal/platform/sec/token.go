// Copyright (c) 2026 TrustVoice. All rights reserved.

package sec

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken returns the hex SHA-256 digest of a token.
//
// Only the digest is ever persisted so that a database leak does not
// expose usable bearer credentials.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
