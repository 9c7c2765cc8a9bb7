// Copyright (c) 2026 TrustVoice. All rights reserved.

package donorapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-voice-ledger/trustvoice/internal/dashboard/donorapi"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

/*
TestHTTPClient_Receipt verifies the unavailable-receipt collapse and bearer
header propagation.
*/
func TestHTTPClient_Receipt(t *testing.T) {
	ctx := context.Background()

	t.Run("issued_receipt", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer bearer-1", r.Header.Get("Authorization"))
			assert.Equal(t, "/api/v1/donations/don-1/receipt", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data": {"id": "rcpt-1", "donation_id": "don-1", "amount_minor": 5000, "currency": "KES", "content_hash": "abc"}}`))
		}))
		defer server.Close()

		client := donorapi.NewHTTPClient(server.URL, staticToken("bearer-1"), nil)

		receipt, err := client.Receipt(ctx, "don-1")
		require.NoError(t, err)
		assert.Equal(t, "rcpt-1", receipt.ID)
		assert.Equal(t, int64(5000), receipt.AmountMinor)
	})

	t.Run("missing_receipt_is_distinguishable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": "Receipt has not been issued for this donation", "code": "NOT_FOUND"}`))
		}))
		defer server.Close()

		client := donorapi.NewHTTPClient(server.URL, staticToken("bearer-1"), nil)

		_, err := client.Receipt(ctx, "don-1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, donorapi.ErrReceiptUnavailable))
	})

	t.Run("server_fault_is_also_unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := donorapi.NewHTTPClient(server.URL, staticToken("bearer-1"), nil)

		_, err := client.Receipt(ctx, "don-1")
		assert.True(t, errors.Is(err, donorapi.ErrReceiptUnavailable))
	})
}

/*
TestHTTPClient_DonorDonations verifies end-to-end fetch plus normalization.
*/
func TestHTTPClient_DonorDonations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/donors/donor-1/donations", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"items": [{"id": "don-1", "status": "completed"}]}}`))
	}))
	defer server.Close()

	client := donorapi.NewHTTPClient(server.URL, staticToken("bearer-1"), nil)

	donations, err := client.DonorDonations(context.Background(), "donor-1")
	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, "don-1", donations[0].ID)
}

/*
TestHTTPClient_TaxSummary verifies aggregate decoding and the not-available path.
*/
func TestHTTPClient_TaxSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("available", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2026", r.URL.Query().Get("year"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data": {"donor_id": "donor-1", "year": 2026, "donation_count": 3, "totals": [{"currency": "USD", "deductible_minor": 15000}]}}`))
		}))
		defer server.Close()

		client := donorapi.NewHTTPClient(server.URL, staticToken("bearer-1"), nil)

		summary, err := client.TaxSummary(ctx, 2026, "donor-1")
		require.NoError(t, err)
		assert.Equal(t, 3, summary.DonationCount)
		require.Len(t, summary.Totals, 1)
		assert.Equal(t, int64(15000), summary.Totals[0].DeductibleMinor)
	})

	t.Run("not_available", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := donorapi.NewHTTPClient(server.URL, staticToken("bearer-1"), nil)

		_, err := client.TaxSummary(ctx, 2026, "donor-1")
		assert.Error(t, err)
	})
}
