// Copyright (c) 2026 TrustVoice. All rights reserved.

package giving

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ComputeContentHash derives the canonical anchor hash for a receipt.
//
// The canonical serialization is the pipe-joined sequence of donation ID,
// amount in minor units, upper-case currency code, campaign name,
// organization, and the issue timestamp in RFC 3339 UTC. Any later mutation
// of these fields changes the hash, which is what VerifyReceipt detects.
//
// The timestamp is truncated to whole seconds so that a round-trip through
// Postgres (which stores microseconds) and JSON cannot flip a verdict.
func ComputeContentHash(donationID string, amountMinor int64, currency, campaignName, organization string, issuedAt time.Time) string {
	canonical := fmt.Sprintf("%s|%d|%s|%s|%s|%s",
		donationID,
		amountMinor,
		strings.ToUpper(currency),
		campaignName,
		organization,
		issuedAt.UTC().Truncate(time.Second).Format(time.RFC3339),
	)

	digest := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(digest[:])
}

// hashOf returns the canonical hash for a hydrated receipt.
func hashOf(receipt *Receipt) string {
	return ComputeContentHash(
		receipt.DonationID,
		receipt.AmountMinor,
		receipt.Currency,
		receipt.CampaignName,
		receipt.Organization,
		receipt.IssuedAt,
	)
}
