// Copyright (c) 2026 TrustVoice. All rights reserved.

package donorapi

import (
	"encoding/json"
	"fmt"

	"github.com/the-voice-ledger/trustvoice/internal/giving"
)

// listWrapperKeys are the envelope keys different platform versions have
// used to carry a donation list, in probe order.
var listWrapperKeys = []string{"items", "donations", "data"}

// NormalizeDonationList maps every donation-list shape the platform has ever
// produced onto one ordered slice.
//
// Accepted shapes: a bare JSON array, or an object wrapping the array under
// an "items", "donations", or "data" key (nested wrappers unwrap
// recursively). Statuses go through [giving.ParseStatus] so unknown values
// degrade instead of erroring. Order is preserved as received.
func NormalizeDonationList(payload []byte) ([]giving.Donation, error) {

	// Bare array: the canonical modern shape.
	var donations []giving.Donation
	if err := json.Unmarshal(payload, &donations); err == nil {
		return sanitize(donations), nil
	}

	// Wrapper object: probe the known envelope keys.
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(payload, &wrapper); err != nil {
		return nil, fmt.Errorf("donorapi_unrecognized_list_shape: %w", err)
	}

	for _, key := range listWrapperKeys {
		if inner, ok := wrapper[key]; ok {
			return NormalizeDonationList(inner)
		}
	}

	return nil, fmt.Errorf("donorapi_unrecognized_list_shape: no known wrapper key")
}

// sanitize re-parses each status so deserialized unknowns become StatusUnknown.
func sanitize(donations []giving.Donation) []giving.Donation {
	for i := range donations {
		donations[i].Status = giving.ParseStatus(string(donations[i].Status))
	}
	return donations
}
