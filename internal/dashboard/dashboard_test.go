// Copyright (c) 2026 TrustVoice. All rights reserved.

package dashboard_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-voice-ledger/trustvoice/internal/dashboard"
	"github.com/the-voice-ledger/trustvoice/internal/dashboard/donorapi"
	"github.com/the-voice-ledger/trustvoice/internal/dashboard/session"
	"github.com/the-voice-ledger/trustvoice/internal/giving"
	"github.com/the-voice-ledger/trustvoice/pkg/pointer"
)

// # Test Doubles

// fakeSession scripts the auth gate.
type fakeSession struct {
	authenticated bool
	user          *session.User
}

func (s *fakeSession) IsAuthenticated() bool      { return s.authenticated }
func (s *fakeSession) CurrentUser() *session.User { return s.user }

// fakeClient scripts the donor API and counts calls.
type fakeClient struct {
	mu sync.Mutex

	donations    []giving.Donation
	donationsErr error
	receipts     map[string]*giving.Receipt
	receiptErr   error
	verdicts     map[string]*giving.Verdict
	verdictErr   error
	summary      *giving.TaxSummary
	summaryErr   error

	donationCalls int
	taxCalls      int

	// blockReceipt, when set, stalls Receipt calls for the given donation
	// until released; receiptStarted (if set) announces the stall.
	// Used to race selections.
	blockReceipt   map[string]chan struct{}
	receiptStarted chan string
}

func (c *fakeClient) DonorDonations(_ context.Context, _ string) ([]giving.Donation, error) {
	c.mu.Lock()
	c.donationCalls++
	c.mu.Unlock()
	return c.donations, c.donationsErr
}

func (c *fakeClient) Receipt(_ context.Context, donationID string) (*giving.Receipt, error) {
	c.mu.Lock()
	gate := c.blockReceipt[donationID]
	started := c.receiptStarted
	c.mu.Unlock()
	if gate != nil {
		if started != nil {
			started <- donationID
		}
		<-gate
	}

	if c.receiptErr != nil {
		return nil, c.receiptErr
	}
	if receipt, ok := c.receipts[donationID]; ok {
		return receipt, nil
	}
	return nil, donorapi.ErrReceiptUnavailable
}

func (c *fakeClient) VerifyReceipt(_ context.Context, donationID string) (*giving.Verdict, error) {
	if c.verdictErr != nil {
		return nil, c.verdictErr
	}
	if verdict, ok := c.verdicts[donationID]; ok {
		return verdict, nil
	}
	return nil, errors.New("no verdict")
}

func (c *fakeClient) TaxSummary(_ context.Context, _ int, _ string) (*giving.TaxSummary, error) {
	c.mu.Lock()
	c.taxCalls++
	c.mu.Unlock()
	return c.summary, c.summaryErr
}

func linkedUser() *session.User {
	return &session.User{ID: "user-1", Username: "amina", DonorID: pointer.To("donor-1")}
}

// # Auth & Linkage Gates

/*
TestView_Load_Gates verifies the auth gate and the donor-linkage gate.
*/
func TestView_Load_Gates(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous_redirects_to_login", func(t *testing.T) {
		client := &fakeClient{}
		view := dashboard.NewView(&fakeSession{authenticated: false}, client, nil)

		model, err := view.Load(ctx, 2026)
		require.NoError(t, err)

		assert.Equal(t, dashboard.OutcomeRedirectToLogin, model.Outcome)
		assert.Zero(t, client.donationCalls)
		assert.Zero(t, client.taxCalls)
	})

	t.Run("unresolved_user_redirects_to_login", func(t *testing.T) {
		// Token present (restore in flight) but user not yet resolved.
		client := &fakeClient{}
		view := dashboard.NewView(&fakeSession{authenticated: true, user: nil}, client, nil)

		model, err := view.Load(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, dashboard.OutcomeRedirectToLogin, model.Outcome)
	})

	t.Run("unlinked_account_gets_empty_state_without_fetches", func(t *testing.T) {
		client := &fakeClient{}
		member := &session.User{ID: "user-2", Username: "joseph"} // no donor profile
		view := dashboard.NewView(&fakeSession{authenticated: true, user: member}, client, nil)

		model, err := view.Load(ctx, 2026)
		require.NoError(t, err)

		assert.Equal(t, dashboard.OutcomeEmpty, model.Outcome)
		assert.True(t, model.ShowBrowseCampaignsCTA)
		assert.Zero(t, client.donationCalls, "no donation fetch for unlinked accounts")
		assert.Zero(t, client.taxCalls, "no tax fetch for unlinked accounts")
	})
}

// # Totals & Badges

/*
TestView_Load_TotalsAndBadges verifies per-currency aggregation and the
unknown-status badge fallback.
*/
func TestView_Load_TotalsAndBadges(t *testing.T) {
	ctx := context.Background()

	client := &fakeClient{
		donations: []giving.Donation{
			{ID: "don-4", AmountMinor: 7000, Currency: "KES", Status: giving.StatusCompleted},
			{ID: "don-3", AmountMinor: 100_00, Currency: "USD", Status: giving.StatusCompleted},
			{ID: "don-2", AmountMinor: 50_00, Currency: "USD", Status: giving.StatusCompleted},
			{ID: "don-1", AmountMinor: 999_99, Currency: "USD", Status: giving.StatusPending},
			{ID: "don-0", AmountMinor: 10_00, Currency: "USD", Status: giving.StatusUnknown},
		},
	}
	view := dashboard.NewView(&fakeSession{authenticated: true, user: linkedUser()}, client, nil)

	model, err := view.Load(ctx, 2026)
	require.NoError(t, err)
	require.Equal(t, dashboard.OutcomeReady, model.Outcome)

	t.Run("completed_only_per_currency", func(t *testing.T) {
		require.Len(t, model.Totals, 2)
		assert.Equal(t, "KES", model.Totals[0].Currency)
		assert.Equal(t, int64(7000), model.Totals[0].Minor)
		assert.Equal(t, "USD", model.Totals[1].Currency)
		assert.Equal(t, int64(150_00), model.Totals[1].Minor)
	})

	t.Run("order_preserved", func(t *testing.T) {
		require.Len(t, model.Rows, 5)
		assert.Equal(t, "don-4", model.Rows[0].Donation.ID)
		assert.Equal(t, "don-0", model.Rows[4].Donation.ID)
	})

	t.Run("unknown_status_gets_fallback_badge", func(t *testing.T) {
		assert.Equal(t, dashboard.BadgeCompleted, model.Rows[0].Badge)
		assert.Equal(t, dashboard.BadgePending, model.Rows[3].Badge)
		assert.Equal(t, dashboard.BadgeUnknown, model.Rows[4].Badge)
	})
}

// # Per-Section Degradation

/*
TestView_Load_Degradation verifies that fetch failures shrink sections
instead of failing the dashboard.
*/
func TestView_Load_Degradation(t *testing.T) {
	ctx := context.Background()

	t.Run("donation_fetch_failure_renders_empty_state", func(t *testing.T) {
		client := &fakeClient{donationsErr: errors.New("api down")}
		view := dashboard.NewView(&fakeSession{authenticated: true, user: linkedUser()}, client, nil)

		model, err := view.Load(ctx, 2026)
		require.NoError(t, err)

		assert.Equal(t, dashboard.OutcomeEmpty, model.Outcome)
		assert.True(t, model.ShowBrowseCampaignsCTA)
	})

	t.Run("tax_failure_hides_section_only", func(t *testing.T) {
		client := &fakeClient{
			donations:  []giving.Donation{{ID: "don-1", AmountMinor: 100, Currency: "USD", Status: giving.StatusCompleted}},
			summaryErr: errors.New("not available"),
		}
		view := dashboard.NewView(&fakeSession{authenticated: true, user: linkedUser()}, client, nil)

		model, err := view.Load(ctx, 2026)
		require.NoError(t, err)

		assert.Equal(t, dashboard.OutcomeReady, model.Outcome)
		assert.Len(t, model.Rows, 1)
		assert.Nil(t, model.TaxSummary)
	})

	t.Run("tax_summary_included_when_available", func(t *testing.T) {
		client := &fakeClient{
			donations: []giving.Donation{{ID: "don-1", AmountMinor: 100, Currency: "USD", Status: giving.StatusCompleted}},
			summary:   &giving.TaxSummary{Year: 2026, DonationCount: 1},
		}
		view := dashboard.NewView(&fakeSession{authenticated: true, user: linkedUser()}, client, nil)

		model, err := view.Load(ctx, 2026)
		require.NoError(t, err)
		require.NotNil(t, model.TaxSummary)
		assert.Equal(t, 2026, model.TaxSummary.Year)
	})
}

// # Receipt Panel

/*
TestView_SelectReceipt verifies concurrent settle, verification independence,
and the unavailable state.
*/
func TestView_SelectReceipt(t *testing.T) {
	ctx := context.Background()

	receipt := &giving.Receipt{ID: "rcpt-1", DonationID: "don-1", AmountMinor: 5000, Currency: "KES"}

	t.Run("receipt_and_valid_verdict", func(t *testing.T) {
		client := &fakeClient{
			receipts: map[string]*giving.Receipt{"don-1": receipt},
			verdicts: map[string]*giving.Verdict{"don-1": {DonationID: "don-1", IsValid: true}},
		}
		view := dashboard.NewView(&fakeSession{authenticated: true, user: linkedUser()}, client, nil)

		panel, err := view.SelectReceipt(ctx, "don-1")
		require.NoError(t, err)
		require.NotNil(t, panel)

		assert.Equal(t, receipt, panel.Receipt)
		assert.False(t, panel.Unavailable)
		assert.Equal(t, dashboard.VerificationValid, panel.Verification)
		assert.Equal(t, panel, view.CurrentReceipt())
	})

	t.Run("tampered_receipt_flags_invalid", func(t *testing.T) {
		client := &fakeClient{
			receipts: map[string]*giving.Receipt{"don-1": receipt},
			verdicts: map[string]*giving.Verdict{"don-1": {DonationID: "don-1", IsValid: false}},
		}
		view := dashboard.NewView(&fakeSession{authenticated: true, user: linkedUser()}, client, nil)

		panel, err := view.SelectReceipt(ctx, "don-1")
		require.NoError(t, err)
		assert.Equal(t, dashboard.VerificationInvalid, panel.Verification)
	})

	t.Run("verification_failure_never_fails_panel", func(t *testing.T) {
		client := &fakeClient{
			receipts:   map[string]*giving.Receipt{"don-1": receipt},
			verdictErr: errors.New("verifier down"),
		}
		view := dashboard.NewView(&fakeSession{authenticated: true, user: linkedUser()}, client, nil)

		panel, err := view.SelectReceipt(ctx, "don-1")
		require.NoError(t, err)

		// Receipt still renders; only the verification marker degrades.
		assert.Equal(t, receipt, panel.Receipt)
		assert.False(t, panel.Unavailable)
		assert.Equal(t, dashboard.VerificationUnknown, panel.Verification)
	})

	t.Run("unavailable_receipt", func(t *testing.T) {
		client := &fakeClient{verdictErr: errors.New("no verdict")}
		view := dashboard.NewView(&fakeSession{authenticated: true, user: linkedUser()}, client, nil)

		panel, err := view.SelectReceipt(ctx, "don-9")
		require.NoError(t, err)

		assert.True(t, panel.Unavailable)
		assert.Nil(t, panel.Receipt)
	})
}

/*
TestView_SelectReceipt_LatestWins verifies the selection race discipline:
the most recently requested donation wins and stale responses are discarded.
*/
func TestView_SelectReceipt_LatestWins(t *testing.T) {
	ctx := context.Background()

	gate := make(chan struct{})
	client := &fakeClient{
		receipts: map[string]*giving.Receipt{
			"don-slow": {ID: "rcpt-slow", DonationID: "don-slow"},
			"don-fast": {ID: "rcpt-fast", DonationID: "don-fast"},
		},
		verdicts:       map[string]*giving.Verdict{},
		blockReceipt:   map[string]chan struct{}{"don-slow": gate},
		receiptStarted: make(chan string, 1),
	}
	view := dashboard.NewView(&fakeSession{authenticated: true, user: linkedUser()}, client, nil)

	// First selection stalls on the network.
	var wg sync.WaitGroup
	var slowPanel *dashboard.ReceiptPanel
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowPanel, slowErr = view.SelectReceipt(ctx, "don-slow")
	}()
	<-client.receiptStarted

	// Second selection for a different donation completes first.
	fastPanel, err := view.SelectReceipt(ctx, "don-fast")
	require.NoError(t, err)
	require.NotNil(t, fastPanel)
	assert.Equal(t, "rcpt-fast", fastPanel.Receipt.ID)

	// Release the stalled call; its result must be discarded.
	close(gate)
	wg.Wait()

	assert.Nil(t, slowPanel)
	assert.ErrorIs(t, slowErr, dashboard.ErrSelectionSuperseded)
	assert.Equal(t, "rcpt-fast", view.CurrentReceipt().Receipt.ID)
}

/*
TestView_SelectReceipt_Dedupe verifies that re-selecting the donation already
loading is a no-op rather than a duplicate fetch.
*/
func TestView_SelectReceipt_Dedupe(t *testing.T) {
	ctx := context.Background()

	gate := make(chan struct{})
	client := &fakeClient{
		receipts:       map[string]*giving.Receipt{"don-1": {ID: "rcpt-1", DonationID: "don-1"}},
		verdicts:       map[string]*giving.Verdict{},
		blockReceipt:   map[string]chan struct{}{"don-1": gate},
		receiptStarted: make(chan string, 1),
	}
	view := dashboard.NewView(&fakeSession{authenticated: true, user: linkedUser()}, client, nil)

	var wg sync.WaitGroup
	var firstPanel *dashboard.ReceiptPanel
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstPanel, _ = view.SelectReceipt(ctx, "don-1")
	}()

	// Wait until the first selection holds the in-flight slot, then the
	// duplicate click returns immediately with nothing.
	<-client.receiptStarted
	duplicate, err := view.SelectReceipt(ctx, "don-1")
	require.NoError(t, err)
	assert.Nil(t, duplicate)

	close(gate)
	wg.Wait()

	// The original selection still commits; the duplicate did not reset it.
	require.NotNil(t, firstPanel)
	assert.Equal(t, "rcpt-1", firstPanel.Receipt.ID)
	assert.Equal(t, firstPanel, view.CurrentReceipt())
}
