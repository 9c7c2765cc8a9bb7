// Copyright (c) 2026 TrustVoice. All rights reserved.

package giving_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/the-voice-ledger/trustvoice/internal/giving"
)

/*
TestComputeContentHash verifies canonical hash stability across timezone and
sub-second representation differences.
*/
func TestComputeContentHash(t *testing.T) {
	issued := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	base := giving.ComputeContentHash("donation-1", 5000, "KES", "Clean Water", "TrustVoice Foundation", issued)

	t.Run("deterministic", func(t *testing.T) {
		again := giving.ComputeContentHash("donation-1", 5000, "KES", "Clean Water", "TrustVoice Foundation", issued)
		assert.Equal(t, base, again)
	})

	t.Run("timezone_invariant", func(t *testing.T) {
		nairobi := time.FixedZone("EAT", 3*3600)
		shifted := giving.ComputeContentHash("donation-1", 5000, "KES", "Clean Water", "TrustVoice Foundation", issued.In(nairobi))
		assert.Equal(t, base, shifted)
	})

	t.Run("microseconds_ignored", func(t *testing.T) {
		precise := giving.ComputeContentHash("donation-1", 5000, "KES", "Clean Water", "TrustVoice Foundation", issued.Add(431*time.Microsecond))
		assert.Equal(t, base, precise)
	})

	t.Run("currency_case_insensitive", func(t *testing.T) {
		lower := giving.ComputeContentHash("donation-1", 5000, "kes", "Clean Water", "TrustVoice Foundation", issued)
		assert.Equal(t, base, lower)
	})

	t.Run("any_field_change_changes_hash", func(t *testing.T) {
		assert.NotEqual(t, base, giving.ComputeContentHash("donation-2", 5000, "KES", "Clean Water", "TrustVoice Foundation", issued))
		assert.NotEqual(t, base, giving.ComputeContentHash("donation-1", 5001, "KES", "Clean Water", "TrustVoice Foundation", issued))
		assert.NotEqual(t, base, giving.ComputeContentHash("donation-1", 5000, "USD", "Clean Water", "TrustVoice Foundation", issued))
		assert.NotEqual(t, base, giving.ComputeContentHash("donation-1", 5000, "KES", "Clean Water", "Other Org", issued))
		assert.NotEqual(t, base, giving.ComputeContentHash("donation-1", 5000, "KES", "Clean Water", "TrustVoice Foundation", issued.Add(time.Second)))
	})
}
