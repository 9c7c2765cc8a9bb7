// Copyright (c) 2026 TrustVoice. All rights reserved.

/*
Package donorapi is the dashboard's client for donation and receipt data.

Every fetch is independently fallible: the dashboard degrades per-section
instead of failing whole when one collaborator call breaks. Response shape
differences between platform versions are absorbed here, at the boundary,
by a single normalization function.
*/
package donorapi

import (
	"context"
	"errors"

	"github.com/the-voice-ledger/trustvoice/internal/giving"
)

// ErrReceiptUnavailable distinguishes "this donation has no receipt" (never
// issued, collaborator failed, not completed yet) from transport-level
// errors. Callers render an explicit unavailable state rather than an error.
var ErrReceiptUnavailable = errors.New("receipt unavailable")

// Client is the donation-data collaborator contract the dashboard consumes.
type Client interface {
	// DonorDonations returns the donor's history, most recent first.
	DonorDonations(context context.Context, donorID string) ([]giving.Donation, error)

	// Receipt returns the issued receipt, or an error wrapping
	// [ErrReceiptUnavailable] when there is none to show.
	Receipt(context context.Context, donationID string) (*giving.Receipt, error)

	// VerifyReceipt returns an advisory verification verdict. It is never a
	// precondition for displaying the receipt itself.
	VerifyReceipt(context context.Context, donationID string) (*giving.Verdict, error)

	// TaxSummary returns the yearly aggregate, or an error when not available.
	TaxSummary(context context.Context, year int, donorID string) (*giving.TaxSummary, error)
}
