// Copyright (c) 2026 TrustVoice. All rights reserved.

/*
Package dashboard builds the donor dashboard view-model.

It composes the session controller and the donor API client into the model a
front-end renders, enforcing the dashboard's degradation rules:

  - No authenticated user → a redirect-to-login outcome, nothing fetched.
  - No donor linkage → an empty state with a browse-campaigns call to action,
    zero donation or tax fetches.
  - Fetch failures degrade per-section; a broken tax endpoint never blanks
    the donation list.
  - Money stays per-currency; completed donations only count toward totals.

The receipt panel lives in receipt.go and follows a latest-wins selection
discipline for rapid repeated clicks.
*/
package dashboard

import (
	"context"
	"log/slog"
	"sort"

	"github.com/the-voice-ledger/trustvoice/internal/dashboard/donorapi"
	"github.com/the-voice-ledger/trustvoice/internal/dashboard/session"
	"github.com/the-voice-ledger/trustvoice/internal/giving"
	"github.com/the-voice-ledger/trustvoice/pkg/money"
	"github.com/the-voice-ledger/trustvoice/pkg/pointer"
	"github.com/the-voice-ledger/trustvoice/pkg/slice"
)

// # View Model Types

// Outcome is the top-level rendering decision.
type Outcome string

const (
	// OutcomeRedirectToLogin means no authenticated user; render nothing.
	OutcomeRedirectToLogin Outcome = "redirect_to_login"

	// OutcomeEmpty means the account has no donor profile yet.
	OutcomeEmpty Outcome = "empty"

	// OutcomeReady means the dashboard has donor data to show.
	OutcomeReady Outcome = "ready"
)

// Badge is the donor-facing label for a donation status.
type Badge string

const (
	BadgePending    Badge = "Pending"
	BadgeProcessing Badge = "Processing"
	BadgeCompleted  Badge = "Completed"
	BadgeFailed     Badge = "Failed"
	BadgeRefunded   Badge = "Refunded"

	// BadgeUnknown is the fallback for statuses this build does not know.
	// An unrecognised status must render, never error.
	BadgeUnknown Badge = "Unknown"
)

// badges maps known statuses to their display labels.
var badges = map[giving.Status]Badge{
	giving.StatusPending:    BadgePending,
	giving.StatusProcessing: BadgeProcessing,
	giving.StatusCompleted:  BadgeCompleted,
	giving.StatusFailed:     BadgeFailed,
	giving.StatusRefunded:   BadgeRefunded,
}

// BadgeFor returns the display badge for a status, falling back for unknowns.
func BadgeFor(status giving.Status) Badge {
	if badge, ok := badges[status]; ok {
		return badge
	}
	return BadgeUnknown
}

// Row is one donation line in the dashboard list.
type Row struct {
	Donation giving.Donation `json:"donation"`
	Badge    Badge           `json:"badge"`
	Amount   string          `json:"amount"`
}

// Total is a per-currency sum over completed donations.
type Total struct {
	Currency string `json:"currency"`
	Minor    int64  `json:"minor"`
	Display  string `json:"display"`
}

// Model is the fully built dashboard view-model.
type Model struct {
	Outcome Outcome       `json:"outcome"`
	User    *session.User `json:"user,omitempty"`

	// ShowBrowseCampaignsCTA accompanies OutcomeEmpty: the account exists
	// but has nothing to show yet.
	ShowBrowseCampaignsCTA bool `json:"show_browse_campaigns_cta,omitempty"`

	Rows   []Row   `json:"rows,omitempty"`
	Totals []Total `json:"totals,omitempty"`

	// TaxSummary is nil when the aggregate is unavailable; the section is
	// simply omitted from rendering.
	TaxSummary *giving.TaxSummary `json:"tax_summary,omitempty"`
}

// # View

// SessionReader is the slice of the session controller the view needs.
type SessionReader interface {
	IsAuthenticated() bool
	CurrentUser() *session.User
}

// View builds dashboard models and owns the receipt panel selection state.
type View struct {
	session SessionReader
	client  donorapi.Client
	logger  *slog.Logger

	panel panelState
}

// NewView constructs a View over the session and donor API collaborators.
func NewView(sessionReader SessionReader, client donorapi.Client, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{
		session: sessionReader,
		client:  client,
		logger:  logger,
	}
}

/*
Load builds the dashboard model for the current session.

Description: Applies the auth gate and the donor-linkage gate before any data
fetch, then assembles rows, per-currency totals, and the tax summary with
per-section degradation.

Parameters:
  - context: context.Context
  - taxYear: int (calendar year for the tax section)

Returns:
  - *Model: Always non-nil; the Outcome field says what to render
  - err: Reserved; current degradation rules absorb all fetch failures
*/
func (view *View) Load(context context.Context, taxYear int) (*Model, error) {

	// 1. Auth gate: nothing is fetched for anonymous visitors
	if !view.session.IsAuthenticated() {
		return &Model{Outcome: OutcomeRedirectToLogin}, nil
	}

	user := view.session.CurrentUser()
	if user == nil {
		// Token present but user not yet resolved; treat as not logged in
		// rather than fetching with an unattributed credential.
		return &Model{Outcome: OutcomeRedirectToLogin}, nil
	}

	// 2. Linkage gate: accounts without a donor profile have no history
	donorID := pointer.Val(user.DonorID)
	if donorID == "" {
		return &Model{
			Outcome:                OutcomeEmpty,
			User:                   user,
			ShowBrowseCampaignsCTA: true,
		}, nil
	}

	// 3. Donation history; a failed fetch degrades to an empty dashboard
	donations, err := view.client.DonorDonations(context, donorID)
	if err != nil {
		view.logger.Warn("donation list fetch failed, rendering empty dashboard", slog.Any("error", err))
		donations = nil
	}

	if len(donations) == 0 {
		return &Model{
			Outcome:                OutcomeEmpty,
			User:                   user,
			ShowBrowseCampaignsCTA: true,
		}, nil
	}

	model := &Model{
		Outcome: OutcomeReady,
		User:    user,
		Rows:    buildRows(donations),
		Totals:  buildTotals(donations),
	}

	// 4. Tax summary; unavailability hides the section, nothing more
	summary, err := view.client.TaxSummary(context, taxYear, donorID)
	if err != nil {
		view.logger.Debug("tax summary unavailable", slog.Int("year", taxYear), slog.Any("error", err))
	} else {
		model.TaxSummary = summary
	}

	return model, nil
}

// buildRows decorates donations with display badges and formatted amounts.
func buildRows(donations []giving.Donation) []Row {
	rows := make([]Row, 0, len(donations))
	for _, donation := range donations {
		rows = append(rows, Row{
			Donation: donation,
			Badge:    BadgeFor(donation.Status),
			Amount:   money.Format(donation.AmountMinor, donation.Currency),
		})
	}
	return rows
}

// buildTotals sums completed donations per currency. Currencies are never
// combined; each gets its own line, in lexicographic order.
func buildTotals(donations []giving.Donation) []Total {
	completed := slice.Filter(donations, func(d giving.Donation) bool {
		return d.Status == giving.StatusCompleted
	})

	minorByCurrency := map[string]int64{}
	for _, donation := range completed {
		minorByCurrency[donation.Currency] += donation.AmountMinor
	}

	currencies := make([]string, 0, len(minorByCurrency))
	for currency := range minorByCurrency {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	totals := make([]Total, 0, len(currencies))
	for _, currency := range currencies {
		totals = append(totals, Total{
			Currency: currency,
			Minor:    minorByCurrency[currency],
			Display:  money.Format(minorByCurrency[currency], currency),
		})
	}
	return totals
}
