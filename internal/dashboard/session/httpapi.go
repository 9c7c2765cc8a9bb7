// Copyright (c) 2026 TrustVoice. All rights reserved.

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
)

// HTTPAuthAPI implements [AuthAPI] against the platform's auth endpoints.
type HTTPAuthAPI struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAuthAPI creates an HTTPAuthAPI rooted at baseURL (e.g.
// "https://api.trustvoice.org"). A nil client gets a sane default timeout.
func NewHTTPAuthAPI(baseURL string, client *http.Client) *HTTPAuthAPI {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPAuthAPI{baseURL: baseURL, client: client}
}

// envelope mirrors the API's standard success wrapper.
type envelope[T any] struct {
	Data T `json:"data"`
}

// errorEnvelope mirrors the API's standard error wrapper.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Login exchanges credentials for a bearer token via POST /auth/login.
func (api *HTTPAuthAPI) Login(context context.Context, credentials Credentials) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"identifier":   credentials.Identifier,
		"phone_number": credentials.PhoneNumber,
		"pin":          credentials.PIN,
	})
	if err != nil {
		return "", fmt.Errorf("auth_api_encode_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(context, http.MethodPost, api.baseURL+"/api/v1/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("auth_api_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	var body envelope[struct {
		AccessToken string `json:"access_token"`
	}]
	if err := api.do(request, http.StatusOK, &body); err != nil {
		return "", err
	}

	return body.Data.AccessToken, nil
}

// CurrentUser resolves the account behind a token via GET /auth/me.
func (api *HTTPAuthAPI) CurrentUser(context context.Context, token string) (*User, error) {
	request, err := http.NewRequestWithContext(context, http.MethodGet, api.baseURL+"/api/v1/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("auth_api_request_failed: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+token)

	var body envelope[User]
	if err := api.do(request, http.StatusOK, &body); err != nil {
		return nil, err
	}

	return &body.Data, nil
}

// Logout invalidates a token server-side via POST /auth/logout.
func (api *HTTPAuthAPI) Logout(context context.Context, token string) error {
	request, err := http.NewRequestWithContext(context, http.MethodPost, api.baseURL+"/api/v1/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("auth_api_request_failed: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+token)

	return api.do(request, http.StatusNoContent, nil)
}

// do executes the request and decodes the success envelope into target, or
// the error envelope into a client-side error.
func (api *HTTPAuthAPI) do(request *http.Request, wantStatus int, target any) error {
	response, err := api.client.Do(request)
	if err != nil {
		return fmt.Errorf("auth_api_call_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != wantStatus {
		return decodeAPIError(response)
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("auth_api_decode_failed: %w", err)
	}
	return nil
}

// decodeAPIError rebuilds a client-side error from the API's error envelope.
func decodeAPIError(response *http.Response) error {
	var body errorEnvelope
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil || body.Error == "" {
		return fmt.Errorf("auth_api_unexpected_status: %d", response.StatusCode)
	}

	return &apperr.AppError{
		Code:       body.Code,
		Message:    body.Error,
		HTTPStatus: response.StatusCode,
	}
}
