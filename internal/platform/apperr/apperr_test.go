// Copyright (c) 2026 TrustVoice. All rights reserved.

package apperr_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
)

/*
TestNotFound verifies the client-visible message is used verbatim, with no
suffix appended to the caller's sentence.
*/
func TestNotFound(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{"resource_sentence", "Donation not found"},
		{"free_form_sentence", "No cached verdict"},
		{"year_scoped_sentence", "No completed donations in 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := apperr.NotFound(tt.msg)
			assert.Equal(t, "NOT_FOUND", err.Code)
			assert.Equal(t, tt.msg, err.Message)
			assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
		})
	}
}

/*
TestAs verifies AppError extraction through wrapped chains.
*/
func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("giving_service_lookup_failed: %w", apperr.NotFound("Receipt not found"))

	extracted := apperr.As(wrapped)
	require.NotNil(t, extracted)
	assert.Equal(t, "NOT_FOUND", extracted.Code)
	assert.True(t, apperr.IsAppError(wrapped))

	assert.Nil(t, apperr.As(fmt.Errorf("plain failure")))
}
