// Copyright (c) 2026 TrustVoice. All rights reserved.

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPIN hashes a plain-text PIN using the bcrypt algorithm.
func HashPIN(plainTextPIN string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPIN), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash PIN: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPINHash compares a plain-text PIN with its hashed version.
func CheckPINHash(plainTextPIN, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPIN))
	return err == nil
}
