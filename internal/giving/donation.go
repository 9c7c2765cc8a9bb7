// Copyright (c) 2026 TrustVoice. All rights reserved.

/*
Package giving defines the core domain entities for the TrustVoice donation ledger.

It manages the lifecycle of donations from payment capture through receipt
issuance and independent verification.

Core Responsibility:

  - Ledger: Records donations in integer minor units per ISO 4217 currency.
  - Receipts: Issues tamper-evident receipts anchored by a canonical content hash.
  - Summaries: Aggregates completed donations into per-currency tax summaries.

This package acts as the source of truth for all donation-related data models.
*/
package giving

import "time"

// # Domain Enums

// Status represents the settlement status of a donation.
type Status string

const (
	// StatusPending indicates the payment has been initiated but not captured.
	StatusPending Status = "pending"

	// StatusProcessing indicates the payment provider is settling the charge.
	StatusProcessing Status = "processing"

	// StatusCompleted indicates funds are captured; the donation counts toward
	// totals and is eligible for a receipt.
	StatusCompleted Status = "completed"

	// StatusFailed indicates the payment did not go through.
	StatusFailed Status = "failed"

	// StatusRefunded indicates a completed donation that was later returned.
	StatusRefunded Status = "refunded"

	// StatusUnknown is the fallback for status values this build does not
	// recognise. New provider states must never break donor-facing views.
	StatusUnknown Status = "unknown"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case
		StatusPending,
		StatusProcessing,
		StatusCompleted,
		StatusFailed,
		StatusRefunded:
		return true
	}
	return false
}

// ParseStatus maps a raw status string onto a known [Status], degrading to
// [StatusUnknown] rather than erroring on values introduced by newer payment
// providers.
func ParseStatus(raw string) Status {
	s := Status(raw)
	if s.IsValid() {
		return s
	}
	return StatusUnknown
}

// PaymentMethod tags the channel a donation arrived through.
type PaymentMethod string

const (
	PaymentTelegramStars PaymentMethod = "telegram_stars"
	PaymentMpesa         PaymentMethod = "mpesa"
	PaymentCard          PaymentMethod = "card"
	PaymentBank          PaymentMethod = "bank"
)

// IsValid reports whether m is a recognised [PaymentMethod] value.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentTelegramStars, PaymentMpesa, PaymentCard, PaymentBank:
		return true
	}
	return false
}

// # Entities

// Donor is the giving-side profile linked to a user account.
type Donor struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Donation is a single ledger entry. Amounts are integer minor units of
// Currency (e.g. cents); display formatting happens at the edge.
type Donation struct {
	ID            string        `json:"id"`
	DonorID       string        `json:"donor_id"`
	CampaignID    string        `json:"campaign_id"`
	CampaignTitle string        `json:"campaign_title,omitempty"`
	AmountMinor   int64         `json:"amount_minor"`
	Currency      string        `json:"currency"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Receipt is the donor-facing proof of a completed donation.
//
// ContentHash anchors the receipt: it is the hex SHA-256 over the canonical
// field serialization (see ComputeContentHash) written at issuance time.
// The optional NFT fields are present when the receipt was also anchored
// on-chain by the treasury pipeline.
type Receipt struct {
	ID           string    `json:"id"`
	DonationID   string    `json:"donation_id"`
	AmountMinor  int64     `json:"amount_minor"`
	Currency     string    `json:"currency"`
	CampaignName string    `json:"campaign_name"`
	Organization string    `json:"organization"`
	IssuedAt     time.Time `json:"issued_at"`
	ContentHash  string    `json:"content_hash"`
	NFTTokenID   *string   `json:"nft_token_id,omitempty"`
	BlockchainTx *string   `json:"blockchain_tx,omitempty"`
}

// Verdict is the advisory result of re-verifying a receipt's content hash.
type Verdict struct {
	DonationID   string    `json:"donation_id"`
	IsValid      bool      `json:"is_valid"`
	ComputedHash string    `json:"computed_hash"`
	StoredHash   string    `json:"stored_hash"`
	CheckedAt    time.Time `json:"checked_at"`
}

// CurrencyTotal is one per-currency line of a tax summary.
type CurrencyTotal struct {
	Currency         string `json:"currency"`
	DeductibleMinor  int64  `json:"deductible_minor"`
	DeductibleAmount string `json:"deductible_amount"`
}

// TaxSummary aggregates a donor's completed donations for one calendar year.
type TaxSummary struct {
	DonorID       string          `json:"donor_id"`
	Year          int             `json:"year"`
	Totals        []CurrencyTotal `json:"totals"`
	DonationCount int             `json:"donation_count"`
	ReceiptCount  int             `json:"receipt_count"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// # Field Identifiers

// Standardized JSON field names for validation errors.
const (
	FieldDonorID       = "donor_id"
	FieldDonationID    = "donation_id"
	FieldCampaignID    = "campaign_id"
	FieldAmountMinor   = "amount_minor"
	FieldCurrency      = "currency"
	FieldPaymentMethod = "payment_method"
	FieldYear          = "year"
)
