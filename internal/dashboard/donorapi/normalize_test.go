// Copyright (c) 2026 TrustVoice. All rights reserved.

package donorapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-voice-ledger/trustvoice/internal/dashboard/donorapi"
	"github.com/the-voice-ledger/trustvoice/internal/giving"
)

const donationRows = `[
	{"id": "don-2", "amount_minor": 5000, "currency": "KES", "status": "completed"},
	{"id": "don-1", "amount_minor": 1200, "currency": "USD", "status": "pending"}
]`

/*
TestNormalizeDonationList verifies that every historical response shape maps
onto the same ordered slice.
*/
func TestNormalizeDonationList(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"bare_array", donationRows},
		{"items_wrapper", `{"items": ` + donationRows + `}`},
		{"donations_wrapper", `{"donations": ` + donationRows + `}`},
		{"data_wrapper", `{"data": ` + donationRows + `}`},
		{"nested_envelope", `{"data": {"items": ` + donationRows + `}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			donations, err := donorapi.NormalizeDonationList([]byte(tt.payload))
			require.NoError(t, err)

			require.Len(t, donations, 2)
			// Order is preserved as received: most recent first.
			assert.Equal(t, "don-2", donations[0].ID)
			assert.Equal(t, "don-1", donations[1].ID)
			assert.Equal(t, giving.StatusCompleted, donations[0].Status)
			assert.Equal(t, int64(1200), donations[1].AmountMinor)
		})
	}

	t.Run("empty_array", func(t *testing.T) {
		donations, err := donorapi.NormalizeDonationList([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, donations)
	})

	t.Run("unknown_status_degrades", func(t *testing.T) {
		donations, err := donorapi.NormalizeDonationList([]byte(`[{"id": "don-3", "status": "escrowed"}]`))
		require.NoError(t, err)
		require.Len(t, donations, 1)
		assert.Equal(t, giving.StatusUnknown, donations[0].Status)
	})

	t.Run("unrecognized_wrapper_key_errors", func(t *testing.T) {
		_, err := donorapi.NormalizeDonationList([]byte(`{"results": []}`))
		assert.Error(t, err)
	})

	t.Run("non_json_errors", func(t *testing.T) {
		_, err := donorapi.NormalizeDonationList([]byte(`<html>`))
		assert.Error(t, err)
	})
}
