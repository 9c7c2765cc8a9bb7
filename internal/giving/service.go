// Copyright (c) 2026 TrustVoice. All rights reserved.

package giving

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
	"github.com/the-voice-ledger/trustvoice/pkg/money"
	"github.com/the-voice-ledger/trustvoice/pkg/slice"
	"github.com/the-voice-ledger/trustvoice/pkg/uuid"
)

// VerdictCacheTTL bounds how long a verification verdict may be served from
// cache before the hash is recomputed.
const VerdictCacheTTL = 5 * time.Minute

// Service implements donation ledger use cases.
type Service struct {
	donorRepository    DonorRepository
	donationRepository DonationRepository
	receiptRepository  ReceiptRepository
	verdictCache       VerdictCache
}

// NewService constructs a new giving [Service] with necessary dependencies.
func NewService(
	donorRepo DonorRepository,
	donationRepo DonationRepository,
	receiptRepo ReceiptRepository,
	verdicts VerdictCache,
) *Service {
	return &Service{
		donorRepository:    donorRepo,
		donationRepository: donationRepo,
		receiptRepository:  receiptRepo,
		verdictCache:       verdicts,
	}
}

// # Donor Profiles

/*
CreateDonorProfile provisions the giving-side profile for a user account.

Description: Called by the identity domain when an account opts into the
donor role. One profile per account.

Parameters:
  - context: context.Context
  - userID: string
  - fullName: string
  - country: string

Returns:
  - string: New donor ID
  - err: Conflict when the account already has a profile
*/
func (service *Service) CreateDonorProfile(context context.Context, userID, fullName, country string) (string, error) {
	_, err := service.donorRepository.FindByUserID(context, userID)
	if err == nil {
		return "", apperr.Conflict("Account already has a donor profile")
	}

	donor := &Donor{
		ID:       uuid.New(),
		UserID:   userID,
		FullName: fullName,
		Country:  country,
	}

	if err := service.donorRepository.Create(context, donor); err != nil {
		return "", fmt.Errorf("giving_service_create_donor_failed: %w", err)
	}

	return donor.ID, nil
}

// DonorProfile returns a donor profile by its ID.
func (service *Service) DonorProfile(context context.Context, donorID string) (*Donor, error) {
	return service.donorRepository.FindByID(context, donorID)
}

// DonorByUser returns the donor profile linked to a user account.
func (service *Service) DonorByUser(context context.Context, userID string) (*Donor, error) {
	return service.donorRepository.FindByUserID(context, userID)
}

// # Donation Ledger

// RecordDonationInput holds the data for a new ledger entry.
type RecordDonationInput struct {
	DonorID       string
	CampaignID    string
	AmountMinor   int64
	Currency      string
	PaymentMethod PaymentMethod
}

/*
RecordDonation appends a new pending donation to the ledger.

Description: Entry point for the payment pipeline. The donation starts in
StatusPending; CompleteDonation settles it and issues the receipt.

Parameters:
  - context: context.Context
  - input: RecordDonationInput

Returns:
  - *Donation: Created ledger entry
  - err: Validation or storage failures
*/
func (service *Service) RecordDonation(context context.Context, input RecordDonationInput) (*Donation, error) {
	if input.AmountMinor <= 0 {
		return nil, apperr.Unprocessable("Donation amount must be positive")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, apperr.Unprocessable("Unsupported payment method")
	}

	// The donor must exist; a ledger row must never dangle.
	if _, err := service.donorRepository.FindByID(context, input.DonorID); err != nil {
		return nil, err
	}

	donation := &Donation{
		ID:            uuid.New(),
		DonorID:       input.DonorID,
		CampaignID:    input.CampaignID,
		AmountMinor:   input.AmountMinor,
		Currency:      input.Currency,
		PaymentMethod: input.PaymentMethod,
		Status:        StatusPending,
	}

	if err := service.donationRepository.Create(context, donation); err != nil {
		return nil, fmt.Errorf("giving_service_record_donation_failed: %w", err)
	}

	return donation, nil
}

// Donation returns a ledger entry by its ID.
func (service *Service) Donation(context context.Context, donationID string) (*Donation, error) {
	return service.donationRepository.FindByID(context, donationID)
}

/*
DonorDonations returns a donor's full donation history, most recent first.

Parameters:
  - context: context.Context
  - donorID: string

Returns:
  - []Donation: Ordered history (possibly empty)
  - err: Storage failures
*/
func (service *Service) DonorDonations(context context.Context, donorID string) ([]Donation, error) {
	donations, err := service.donationRepository.ListByDonor(context, donorID)
	if err != nil {
		return nil, fmt.Errorf("giving_service_list_donations_failed: %w", err)
	}
	return donations, nil
}

/*
CompleteDonation settles a donation and issues its receipt.

Description: Transitions the donation to StatusCompleted and writes the
anchored receipt in one logical operation. Completing a donation that already
carries its receipt is a Conflict; a completed donation whose receipt write
previously failed resumes issuance, so the receipt is issued exactly once.

Parameters:
  - context: context.Context
  - donationID: string
  - organization: string (issuing NGO name on the receipt)

Returns:
  - *Receipt: Issued receipt
  - err: NotFound, Conflict, or storage failures
*/
func (service *Service) CompleteDonation(context context.Context, donationID, organization string) (*Receipt, error) {
	donation, err := service.donationRepository.FindByID(context, donationID)
	if err != nil {
		return nil, err
	}

	if donation.Status == StatusCompleted {
		// The status flip and the receipt write are separate statements. If a
		// prior attempt failed between them, the donation is completed but
		// receiptless; resume issuance instead of leaving it wedged.
		_, receiptErr := service.receiptRepository.FindByDonationID(context, donation.ID)
		if receiptErr == nil {
			return nil, apperr.Conflict("Donation is already completed")
		}
		if appErr := apperr.As(receiptErr); appErr == nil || appErr.Code != "NOT_FOUND" {
			return nil, fmt.Errorf("giving_service_complete_failed: %w", receiptErr)
		}
		return service.issueReceipt(context, donation, organization)
	}

	if err := service.donationRepository.UpdateStatus(context, donationID, StatusCompleted); err != nil {
		return nil, fmt.Errorf("giving_service_complete_failed: %w", err)
	}

	return service.issueReceipt(context, donation, organization)
}

// issueReceipt writes the receipt row with its canonical content hash.
func (service *Service) issueReceipt(context context.Context, donation *Donation, organization string) (*Receipt, error) {
	issuedAt := time.Now().UTC().Truncate(time.Second)

	receipt := &Receipt{
		ID:           uuid.New(),
		DonationID:   donation.ID,
		AmountMinor:  donation.AmountMinor,
		Currency:     donation.Currency,
		CampaignName: donation.CampaignTitle,
		Organization: organization,
		IssuedAt:     issuedAt,
	}
	receipt.ContentHash = hashOf(receipt)

	if err := service.receiptRepository.Create(context, receipt); err != nil {
		return nil, fmt.Errorf("giving_service_issue_receipt_failed: %w", err)
	}

	return receipt, nil
}

// # Receipts & Verification

/*
Receipt returns the issued receipt for a donation.

Parameters:
  - context: context.Context
  - donationID: string

Returns:
  - *Receipt: Issued receipt with anchor fields
  - err: apperr.NotFound when no receipt has been issued
*/
func (service *Service) Receipt(context context.Context, donationID string) (*Receipt, error) {
	return service.receiptRepository.FindByDonationID(context, donationID)
}

/*
VerifyReceipt recomputes a receipt's canonical hash and compares it to the
stored anchor.

Description: The verdict is advisory; displaying the receipt never depends on
it. Verdicts are cached briefly to absorb dashboard refresh storms, and a
cache failure silently falls through to recomputation.

Parameters:
  - context: context.Context
  - donationID: string

Returns:
  - *Verdict: Match result with both hashes
  - err: apperr.NotFound when no receipt exists
*/
func (service *Service) VerifyReceipt(context context.Context, donationID string) (*Verdict, error) {

	// 1. Serve a live cached verdict when available
	if cached, err := service.verdictCache.Get(context, donationID); err == nil {
		return cached, nil
	}

	// 2. Recompute from the stored receipt
	receipt, err := service.receiptRepository.FindByDonationID(context, donationID)
	if err != nil {
		return nil, err
	}

	computed := hashOf(receipt)
	verdict := &Verdict{
		DonationID:   donationID,
		IsValid:      computed == receipt.ContentHash,
		ComputedHash: computed,
		StoredHash:   receipt.ContentHash,
		CheckedAt:    time.Now().UTC(),
	}

	// 3. Cache best-effort; verification must not depend on Redis health
	_ = service.verdictCache.Set(context, verdict, VerdictCacheTTL)

	return verdict, nil
}

// # Tax Summaries

/*
TaxSummary aggregates a donor's completed donations for one calendar year.

Description: Totals are kept per currency and never combined; converting
between currencies is a reporting concern, not a ledger concern.

Parameters:
  - context: context.Context
  - donorID: string
  - year: int

Returns:
  - *TaxSummary: Per-currency deductible totals and counts
  - err: apperr.NotFound when the donor has no completed donations that year
*/
func (service *Service) TaxSummary(context context.Context, donorID string, year int) (*TaxSummary, error) {
	donations, err := service.donationRepository.ListCompletedInYear(context, donorID, year)
	if err != nil {
		return nil, fmt.Errorf("giving_service_tax_summary_failed: %w", err)
	}

	if len(donations) == 0 {
		return nil, apperr.NotFound(fmt.Sprintf("No completed donations in %d", year))
	}

	// Per-currency accumulation
	totalsByCurrency := map[string]int64{}
	for _, donation := range donations {
		totalsByCurrency[donation.Currency] += donation.AmountMinor
	}
	donationIDs := slice.Map(donations, func(d Donation) string { return d.ID })

	// Stable output order for a deterministic API response
	currencies := make([]string, 0, len(totalsByCurrency))
	for currency := range totalsByCurrency {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	totals := make([]CurrencyTotal, 0, len(currencies))
	for _, currency := range currencies {
		minor := totalsByCurrency[currency]
		totals = append(totals, CurrencyTotal{
			Currency:         currency,
			DeductibleMinor:  minor,
			DeductibleAmount: money.Format(minor, currency),
		})
	}

	receiptCount, err := service.receiptRepository.CountByDonationIDs(context, donationIDs)
	if err != nil {
		return nil, fmt.Errorf("giving_service_receipt_count_failed: %w", err)
	}

	return &TaxSummary{
		DonorID:       donorID,
		Year:          year,
		Totals:        totals,
		DonationCount: len(donations),
		ReceiptCount:  receiptCount,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
