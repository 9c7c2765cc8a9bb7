// Copyright (c) 2026 TrustVoice. All rights reserved.

package giving_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-voice-ledger/trustvoice/internal/giving"
	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
)

// # Test Doubles

type fakeDonorRepo struct {
	donors map[string]*giving.Donor
}

func newFakeDonorRepo() *fakeDonorRepo {
	return &fakeDonorRepo{donors: map[string]*giving.Donor{}}
}

func (r *fakeDonorRepo) Create(_ context.Context, donor *giving.Donor) error {
	r.donors[donor.ID] = donor
	return nil
}

func (r *fakeDonorRepo) FindByID(_ context.Context, id string) (*giving.Donor, error) {
	if donor, ok := r.donors[id]; ok {
		return donor, nil
	}
	return nil, apperr.NotFound("Donor profile not found")
}

func (r *fakeDonorRepo) FindByUserID(_ context.Context, userID string) (*giving.Donor, error) {
	for _, donor := range r.donors {
		if donor.UserID == userID {
			return donor, nil
		}
	}
	return nil, apperr.NotFound("Donor profile not found")
}

type fakeDonationRepo struct {
	donations []*giving.Donation
}

func (r *fakeDonationRepo) Create(_ context.Context, donation *giving.Donation) error {
	now := time.Now()
	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = now
	}
	donation.UpdatedAt = now
	r.donations = append(r.donations, donation)
	return nil
}

func (r *fakeDonationRepo) FindByID(_ context.Context, id string) (*giving.Donation, error) {
	for _, donation := range r.donations {
		if donation.ID == id {
			return donation, nil
		}
	}
	return nil, apperr.NotFound("Donation not found")
}

func (r *fakeDonationRepo) ListByDonor(_ context.Context, donorID string) ([]giving.Donation, error) {
	var result []giving.Donation
	// Newest first, matching the SQL ORDER BY contract.
	for i := len(r.donations) - 1; i >= 0; i-- {
		if r.donations[i].DonorID == donorID {
			result = append(result, *r.donations[i])
		}
	}
	return result, nil
}

func (r *fakeDonationRepo) ListCompletedInYear(_ context.Context, donorID string, year int) ([]giving.Donation, error) {
	var result []giving.Donation
	for _, donation := range r.donations {
		if donation.DonorID == donorID &&
			donation.Status == giving.StatusCompleted &&
			donation.CreatedAt.Year() == year {
			result = append(result, *donation)
		}
	}
	return result, nil
}

func (r *fakeDonationRepo) UpdateStatus(_ context.Context, donationID string, status giving.Status) error {
	for _, donation := range r.donations {
		if donation.ID == donationID {
			donation.Status = status
			return nil
		}
	}
	return apperr.NotFound("Donation not found")
}

type fakeReceiptRepo struct {
	receipts map[string]*giving.Receipt // keyed by donation ID
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: map[string]*giving.Receipt{}}
}

func (r *fakeReceiptRepo) Create(_ context.Context, receipt *giving.Receipt) error {
	r.receipts[receipt.DonationID] = receipt
	return nil
}

func (r *fakeReceiptRepo) FindByDonationID(_ context.Context, donationID string) (*giving.Receipt, error) {
	if receipt, ok := r.receipts[donationID]; ok {
		return receipt, nil
	}
	return nil, apperr.NotFound("Receipt not found")
}

func (r *fakeReceiptRepo) CountByDonationIDs(_ context.Context, donationIDs []string) (int, error) {
	count := 0
	for _, id := range donationIDs {
		if _, ok := r.receipts[id]; ok {
			count++
		}
	}
	return count, nil
}

// flakyReceiptRepo fails a configured number of Create calls before recovering,
// simulating a transient storage outage between the status flip and the
// receipt write.
type flakyReceiptRepo struct {
	*fakeReceiptRepo
	failures int
}

func (r *flakyReceiptRepo) Create(ctx context.Context, receipt *giving.Receipt) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset by peer")
	}
	return r.fakeReceiptRepo.Create(ctx, receipt)
}

type fakeVerdictCache struct {
	verdicts map[string]*giving.Verdict
	sets     int
}

func newFakeVerdictCache() *fakeVerdictCache {
	return &fakeVerdictCache{verdicts: map[string]*giving.Verdict{}}
}

func (c *fakeVerdictCache) Get(_ context.Context, donationID string) (*giving.Verdict, error) {
	if verdict, ok := c.verdicts[donationID]; ok {
		return verdict, nil
	}
	return nil, apperr.NotFound("No cached verdict")
}

func (c *fakeVerdictCache) Set(_ context.Context, verdict *giving.Verdict, _ time.Duration) error {
	c.verdicts[verdict.DonationID] = verdict
	c.sets++
	return nil
}

type fixture struct {
	service   *giving.Service
	donors    *fakeDonorRepo
	donations *fakeDonationRepo
	receipts  *fakeReceiptRepo
	verdicts  *fakeVerdictCache
}

func newFixture() *fixture {
	f := &fixture{
		donors:    newFakeDonorRepo(),
		donations: &fakeDonationRepo{},
		receipts:  newFakeReceiptRepo(),
		verdicts:  newFakeVerdictCache(),
	}
	f.service = giving.NewService(f.donors, f.donations, f.receipts, f.verdicts)
	return f
}

// seedDonor registers one donor profile and returns its ID.
func (f *fixture) seedDonor(t *testing.T) string {
	t.Helper()
	donorID, err := f.service.CreateDonorProfile(context.Background(), "user-1", "Amina Hassan", "TZ")
	require.NoError(t, err)
	return donorID
}

// # Donor Profiles

/*
TestService_DonorProfile verifies one-profile-per-account provisioning.
*/
func TestService_DonorProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	donorID, err := f.service.CreateDonorProfile(ctx, "user-1", "Amina Hassan", "TZ")
	require.NoError(t, err)

	profile, err := f.service.DonorProfile(ctx, donorID)
	require.NoError(t, err)
	assert.Equal(t, "Amina Hassan", profile.FullName)
	assert.Equal(t, "user-1", profile.UserID)

	_, err = f.service.CreateDonorProfile(ctx, "user-1", "Amina Hassan", "TZ")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

// # Status Parsing

/*
TestParseStatus verifies that unrecognised payment states degrade safely.
*/
func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want giving.Status
	}{
		{"pending", giving.StatusPending},
		{"processing", giving.StatusProcessing},
		{"completed", giving.StatusCompleted},
		{"failed", giving.StatusFailed},
		{"refunded", giving.StatusRefunded},
		{"awaiting_chargeback_review", giving.StatusUnknown},
		{"", giving.StatusUnknown},
		{"COMPLETED", giving.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, giving.ParseStatus(tt.raw))
		})
	}
}

// # Ledger

/*
TestService_RecordDonation verifies ledger entry creation and validation.
*/
func TestService_RecordDonation(t *testing.T) {
	ctx := context.Background()

	t.Run("creates_pending_entry", func(t *testing.T) {
		f := newFixture()
		donorID := f.seedDonor(t)

		donation, err := f.service.RecordDonation(ctx, giving.RecordDonationInput{
			DonorID:       donorID,
			CampaignID:    "campaign-1",
			AmountMinor:   250_00,
			Currency:      "USD",
			PaymentMethod: giving.PaymentMpesa,
		})

		require.NoError(t, err)
		assert.Equal(t, giving.StatusPending, donation.Status)
		assert.Equal(t, int64(250_00), donation.AmountMinor)
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		f := newFixture()
		donorID := f.seedDonor(t)

		_, err := f.service.RecordDonation(ctx, giving.RecordDonationInput{
			DonorID: donorID, CampaignID: "campaign-1", AmountMinor: 0,
			Currency: "USD", PaymentMethod: giving.PaymentCard,
		})
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	})

	t.Run("rejects_unknown_payment_method", func(t *testing.T) {
		f := newFixture()
		donorID := f.seedDonor(t)

		_, err := f.service.RecordDonation(ctx, giving.RecordDonationInput{
			DonorID: donorID, CampaignID: "campaign-1", AmountMinor: 100,
			Currency: "USD", PaymentMethod: "cheque",
		})
		require.Error(t, err)
	})

	t.Run("rejects_unknown_donor", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.RecordDonation(ctx, giving.RecordDonationInput{
			DonorID: "ghost", CampaignID: "campaign-1", AmountMinor: 100,
			Currency: "USD", PaymentMethod: giving.PaymentCard,
		})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

// # Completion & Receipts

/*
TestService_CompleteDonation verifies settlement and one-shot receipt issuance.
*/
func TestService_CompleteDonation(t *testing.T) {
	ctx := context.Background()

	record := func(t *testing.T, f *fixture, donorID string) *giving.Donation {
		t.Helper()
		donation, err := f.service.RecordDonation(ctx, giving.RecordDonationInput{
			DonorID:       donorID,
			CampaignID:    "campaign-1",
			AmountMinor:   5000,
			Currency:      "KES",
			PaymentMethod: giving.PaymentMpesa,
		})
		require.NoError(t, err)
		donation.CampaignTitle = "Clean Water for Kibera"
		return donation
	}

	t.Run("issues_anchored_receipt", func(t *testing.T) {
		f := newFixture()
		donorID := f.seedDonor(t)
		donation := record(t, f, donorID)

		receipt, err := f.service.CompleteDonation(ctx, donation.ID, "TrustVoice Foundation")
		require.NoError(t, err)

		assert.Equal(t, giving.StatusCompleted, donation.Status)
		assert.Equal(t, donation.AmountMinor, receipt.AmountMinor)
		assert.Equal(t, "Clean Water for Kibera", receipt.CampaignName)
		assert.Equal(t, "TrustVoice Foundation", receipt.Organization)

		// The stored anchor must match the canonical recomputation.
		expected := giving.ComputeContentHash(
			receipt.DonationID, receipt.AmountMinor, receipt.Currency,
			receipt.CampaignName, receipt.Organization, receipt.IssuedAt,
		)
		assert.Equal(t, expected, receipt.ContentHash)
	})

	t.Run("double_completion_conflicts", func(t *testing.T) {
		f := newFixture()
		donorID := f.seedDonor(t)
		donation := record(t, f, donorID)

		_, err := f.service.CompleteDonation(ctx, donation.ID, "TrustVoice Foundation")
		require.NoError(t, err)

		_, err = f.service.CompleteDonation(ctx, donation.ID, "TrustVoice Foundation")
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("resumes_issuance_after_receipt_write_failure", func(t *testing.T) {
		f := newFixture()
		flaky := &flakyReceiptRepo{fakeReceiptRepo: f.receipts, failures: 1}
		service := giving.NewService(f.donors, f.donations, flaky, f.verdicts)

		donorID, err := service.CreateDonorProfile(ctx, "user-1", "Amina Hassan", "TZ")
		require.NoError(t, err)
		donation, err := service.RecordDonation(ctx, giving.RecordDonationInput{
			DonorID:       donorID,
			CampaignID:    "campaign-1",
			AmountMinor:   5000,
			Currency:      "KES",
			PaymentMethod: giving.PaymentMpesa,
		})
		require.NoError(t, err)

		// First attempt settles the status but loses the receipt write.
		_, err = service.CompleteDonation(ctx, donation.ID, "TrustVoice Foundation")
		require.Error(t, err)
		assert.Equal(t, giving.StatusCompleted, donation.Status)

		// The retry must resume issuance, not conflict.
		receipt, err := service.CompleteDonation(ctx, donation.ID, "TrustVoice Foundation")
		require.NoError(t, err)
		assert.Equal(t, donation.ID, receipt.DonationID)

		stored, err := service.Receipt(ctx, donation.ID)
		require.NoError(t, err)
		assert.Equal(t, receipt.ContentHash, stored.ContentHash)

		// Once the receipt exists, completing again is a Conflict.
		_, err = service.CompleteDonation(ctx, donation.ID, "TrustVoice Foundation")
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("receipt_missing_until_completion", func(t *testing.T) {
		f := newFixture()
		donorID := f.seedDonor(t)
		donation := record(t, f, donorID)

		_, err := f.service.Receipt(ctx, donation.ID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

// # Verification

/*
TestService_VerifyReceipt verifies hash recomputation, tamper detection, and
verdict caching.
*/
func TestService_VerifyReceipt(t *testing.T) {
	ctx := context.Background()

	issue := func(t *testing.T, f *fixture) *giving.Receipt {
		t.Helper()
		donorID := f.seedDonor(t)
		donation, err := f.service.RecordDonation(ctx, giving.RecordDonationInput{
			DonorID: donorID, CampaignID: "campaign-1", AmountMinor: 9000,
			Currency: "EUR", PaymentMethod: giving.PaymentBank,
		})
		require.NoError(t, err)
		donation.CampaignTitle = "School Meals"

		receipt, err := f.service.CompleteDonation(ctx, donation.ID, "TrustVoice Foundation")
		require.NoError(t, err)
		return receipt
	}

	t.Run("intact_receipt_is_valid", func(t *testing.T) {
		f := newFixture()
		receipt := issue(t, f)

		verdict, err := f.service.VerifyReceipt(ctx, receipt.DonationID)
		require.NoError(t, err)
		assert.True(t, verdict.IsValid)
		assert.Equal(t, verdict.StoredHash, verdict.ComputedHash)
	})

	t.Run("tampered_amount_is_detected", func(t *testing.T) {
		f := newFixture()
		receipt := issue(t, f)

		// Mutate a canonical field after issuance.
		f.receipts.receipts[receipt.DonationID].AmountMinor = 1

		verdict, err := f.service.VerifyReceipt(ctx, receipt.DonationID)
		require.NoError(t, err)
		assert.False(t, verdict.IsValid)
		assert.NotEqual(t, verdict.StoredHash, verdict.ComputedHash)
	})

	t.Run("verdicts_are_cached", func(t *testing.T) {
		f := newFixture()
		receipt := issue(t, f)

		first, err := f.service.VerifyReceipt(ctx, receipt.DonationID)
		require.NoError(t, err)
		require.Equal(t, 1, f.verdicts.sets)

		// Second call is served from cache; no new cache write.
		second, err := f.service.VerifyReceipt(ctx, receipt.DonationID)
		require.NoError(t, err)
		assert.Equal(t, 1, f.verdicts.sets)
		assert.Equal(t, first.CheckedAt, second.CheckedAt)
	})

	t.Run("no_receipt_no_verdict", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.VerifyReceipt(ctx, "missing-donation")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

// # Tax Summaries

/*
TestService_TaxSummary verifies per-currency aggregation over completed
donations only.
*/
func TestService_TaxSummary(t *testing.T) {
	ctx := context.Background()
	year := time.Now().Year()

	seed := func(t *testing.T, f *fixture, donorID string, amount int64, currency string, status giving.Status) *giving.Donation {
		t.Helper()
		donation, err := f.service.RecordDonation(ctx, giving.RecordDonationInput{
			DonorID: donorID, CampaignID: "campaign-1", AmountMinor: amount,
			Currency: currency, PaymentMethod: giving.PaymentCard,
		})
		require.NoError(t, err)
		donation.Status = status
		return donation
	}

	t.Run("aggregates_per_currency", func(t *testing.T) {
		f := newFixture()
		donorID := f.seedDonor(t)

		seed(t, f, donorID, 100_00, "USD", giving.StatusCompleted)
		seed(t, f, donorID, 50_00, "USD", giving.StatusCompleted)
		seed(t, f, donorID, 3000, "KES", giving.StatusCompleted)
		seed(t, f, donorID, 999_99, "USD", giving.StatusPending)  // excluded
		seed(t, f, donorID, 888_88, "USD", giving.StatusRefunded) // excluded

		summary, err := f.service.TaxSummary(ctx, donorID, year)
		require.NoError(t, err)

		assert.Equal(t, 3, summary.DonationCount)
		require.Len(t, summary.Totals, 2)

		// Currencies are reported separately, in lexicographic order.
		assert.Equal(t, "KES", summary.Totals[0].Currency)
		assert.Equal(t, int64(3000), summary.Totals[0].DeductibleMinor)
		assert.Equal(t, "USD", summary.Totals[1].Currency)
		assert.Equal(t, int64(150_00), summary.Totals[1].DeductibleMinor)
		assert.Equal(t, "150.00 USD", summary.Totals[1].DeductibleAmount)
	})

	t.Run("counts_issued_receipts", func(t *testing.T) {
		f := newFixture()
		donorID := f.seedDonor(t)

		donation := seed(t, f, donorID, 100_00, "USD", giving.StatusPending)
		_, err := f.service.CompleteDonation(ctx, donation.ID, "TrustVoice Foundation")
		require.NoError(t, err)
		seed(t, f, donorID, 50_00, "USD", giving.StatusCompleted) // no receipt

		summary, err := f.service.TaxSummary(ctx, donorID, year)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.DonationCount)
		assert.Equal(t, 1, summary.ReceiptCount)
	})

	t.Run("empty_year_is_not_found", func(t *testing.T) {
		f := newFixture()
		donorID := f.seedDonor(t)
		seed(t, f, donorID, 100_00, "USD", giving.StatusCompleted)

		_, err := f.service.TaxSummary(ctx, donorID, year-1)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}
