// Copyright (c) 2026 TrustVoice. All rights reserved.

package giving

import (
	"context"
	"time"
)

// # Storage Contracts

// DonorRepository manages donor profile persistence.
type DonorRepository interface {
	// Create persists a new donor profile.
	Create(context context.Context, donor *Donor) error

	// FindByID retrieves a donor profile by its ID.
	FindByID(context context.Context, id string) (*Donor, error)

	// FindByUserID retrieves the donor profile linked to a user account.
	FindByUserID(context context.Context, userID string) (*Donor, error)
}

// DonationRepository manages donation ledger persistence.
type DonationRepository interface {
	// Create persists a new donation entry.
	Create(context context.Context, donation *Donation) error

	// FindByID retrieves a donation by its ID.
	FindByID(context context.Context, id string) (*Donation, error)

	// ListByDonor returns a donor's donations, most recent first.
	ListByDonor(context context.Context, donorID string) ([]Donation, error)

	// ListCompletedInYear returns a donor's completed donations within a
	// calendar year, used for tax aggregation.
	ListCompletedInYear(context context.Context, donorID string, year int) ([]Donation, error)

	// UpdateStatus transitions a donation to a new settlement status.
	UpdateStatus(context context.Context, donationID string, status Status) error
}

// ReceiptRepository manages issued receipt persistence.
type ReceiptRepository interface {
	// Create persists a newly issued receipt.
	Create(context context.Context, receipt *Receipt) error

	// FindByDonationID retrieves the receipt issued for a donation.
	FindByDonationID(context context.Context, donationID string) (*Receipt, error)

	// CountByDonationIDs reports how many of the given donations carry receipts.
	CountByDonationIDs(context context.Context, donationIDs []string) (int, error)
}

// VerdictCache stores short-lived receipt verification verdicts.
//
// A cache miss is a normal condition and is signalled with apperr.NotFound.
type VerdictCache interface {
	// Get returns a cached verdict for a donation, if one is still live.
	Get(context context.Context, donationID string) (*Verdict, error)

	// Set stores a verdict with the given TTL.
	Set(context context.Context, verdict *Verdict, ttl time.Duration) error
}
