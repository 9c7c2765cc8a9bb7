// Copyright (c) 2026 TrustVoice. All rights reserved.

package donorapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/the-voice-ledger/trustvoice/internal/giving"
)

// TokenSource supplies the current bearer credential for outgoing requests.
// [session.TokenStore] satisfies it directly.
type TokenSource interface {
	Token() string
}

// HTTPClient implements [Client] against the platform's giving endpoints.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

// NewHTTPClient creates an HTTPClient rooted at baseURL, drawing credentials
// from tokens. A nil client gets a sane default timeout.
func NewHTTPClient(baseURL string, tokens TokenSource, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClient{baseURL: baseURL, tokens: tokens, client: client}
}

// DonorDonations fetches and normalizes the donor's history.
func (api *HTTPClient) DonorDonations(context context.Context, donorID string) ([]giving.Donation, error) {
	payload, status, err := api.get(context, fmt.Sprintf("/api/v1/donors/%s/donations", donorID))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("donorapi_donations_status_%d", status)
	}

	return NormalizeDonationList(payload)
}

// Receipt fetches the issued receipt for a donation.
//
// Any failure to produce a receipt — 404, a server fault, a garbled body —
// collapses into [ErrReceiptUnavailable]; the transport detail rides along
// wrapped for logging.
func (api *HTTPClient) Receipt(context context.Context, donationID string) (*giving.Receipt, error) {
	payload, status, err := api.get(context, fmt.Sprintf("/api/v1/donations/%s/receipt", donationID))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReceiptUnavailable, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrReceiptUnavailable, status)
	}

	var body struct {
		Data giving.Receipt `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReceiptUnavailable, err)
	}

	return &body.Data, nil
}

// VerifyReceipt fetches the advisory verification verdict.
func (api *HTTPClient) VerifyReceipt(context context.Context, donationID string) (*giving.Verdict, error) {
	payload, status, err := api.get(context, fmt.Sprintf("/api/v1/donations/%s/receipt/verify", donationID))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("donorapi_verify_status_%d", status)
	}

	var body struct {
		Data giving.Verdict `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("donorapi_verify_decode_failed: %w", err)
	}

	return &body.Data, nil
}

// TaxSummary fetches the yearly aggregate for a donor.
func (api *HTTPClient) TaxSummary(context context.Context, year int, donorID string) (*giving.TaxSummary, error) {
	payload, status, err := api.get(context, fmt.Sprintf("/api/v1/donors/%s/tax-summary?year=%d", donorID, year))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("donorapi_tax_summary_status_%d", status)
	}

	var body struct {
		Data giving.TaxSummary `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("donorapi_tax_summary_decode_failed: %w", err)
	}

	return &body.Data, nil
}

// get performs an authenticated GET and returns the raw body plus the HTTP
// status. Envelope handling stays with each endpoint method; the list
// endpoint in particular must see the body exactly as sent.
func (api *HTTPClient) get(context context.Context, path string) ([]byte, int, error) {
	request, err := http.NewRequestWithContext(context, http.MethodGet, api.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("donorapi_request_failed: %w", err)
	}
	if token := api.tokens.Token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := api.client.Do(request)
	if err != nil {
		return nil, 0, fmt.Errorf("donorapi_call_failed: %w", err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, response.StatusCode, fmt.Errorf("donorapi_read_failed: %w", err)
	}

	return payload, response.StatusCode, nil
}
