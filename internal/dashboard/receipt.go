// Copyright (c) 2026 TrustVoice. All rights reserved.

package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/the-voice-ledger/trustvoice/internal/giving"
)

// ErrSelectionSuperseded reports that a newer receipt selection was made
// while this one was in flight; its result was discarded unrendered.
var ErrSelectionSuperseded = errors.New("receipt selection superseded")

// Verification is the display state of the receipt's integrity check.
type Verification string

const (
	// VerificationValid means the recomputed hash matched the anchor.
	VerificationValid Verification = "valid"

	// VerificationInvalid means the hashes diverged; the receipt renders
	// with a tamper warning.
	VerificationInvalid Verification = "invalid"

	// VerificationUnknown means the check itself failed. The receipt still
	// renders; verification is advisory, never a display precondition.
	VerificationUnknown Verification = "unknown"
)

// ReceiptPanel is the view-model of the receipt drawer.
type ReceiptPanel struct {
	DonationID   string          `json:"donation_id"`
	Receipt      *giving.Receipt `json:"receipt,omitempty"`
	Unavailable  bool            `json:"unavailable,omitempty"`
	Verification Verification    `json:"verification"`
}

// panelState serializes receipt selections under a latest-wins discipline.
type panelState struct {
	mu       sync.Mutex
	sequence uint64
	inflight string
	current  *ReceiptPanel
}

/*
SelectReceipt loads the receipt panel for one donation.

Description: Receipt fetch and verification run concurrently and both settle
before the panel does. A verification failure marks the panel
VerificationUnknown; only receipt unavailability marks it Unavailable. Rapid
repeated selections are deduped (an identical in-flight selection is not
refetched), and when selections race, the most recently requested donation
wins — earlier responses are discarded with [ErrSelectionSuperseded].

Parameters:
  - context: context.Context
  - donationID: string

Returns:
  - *ReceiptPanel: The settled panel, nil when discarded or deduped
  - err: ErrSelectionSuperseded for stale selections, nil otherwise
*/
func (view *View) SelectReceipt(context context.Context, donationID string) (*ReceiptPanel, error) {

	// Loading guard: a second click on the donation already loading is a no-op.
	view.panel.mu.Lock()
	if view.panel.inflight == donationID {
		view.panel.mu.Unlock()
		return nil, nil
	}
	view.panel.sequence++
	sequence := view.panel.sequence
	view.panel.inflight = donationID
	view.panel.mu.Unlock()

	panel := &ReceiptPanel{DonationID: donationID, Verification: VerificationUnknown}

	// Fetch and verify concurrently; the panel settles only when both have.
	group, groupContext := errgroup.WithContext(context)

	group.Go(func() error {
		receipt, err := view.client.Receipt(groupContext, donationID)
		if err != nil {
			panel.Unavailable = true
			view.logger.Debug("receipt unavailable", slog.String("donation_id", donationID), slog.Any("error", err))
			return nil
		}
		panel.Receipt = receipt
		return nil
	})

	group.Go(func() error {
		verdict, err := view.client.VerifyReceipt(groupContext, donationID)
		if err != nil {
			// Advisory only: the panel keeps VerificationUnknown.
			view.logger.Debug("receipt verification failed", slog.String("donation_id", donationID), slog.Any("error", err))
			return nil
		}
		if verdict.IsValid {
			panel.Verification = VerificationValid
		} else {
			panel.Verification = VerificationInvalid
		}
		return nil
	})

	// Both goroutines absorb their own failures, so Wait cannot error.
	_ = group.Wait()

	// Latest-wins: commit only if no newer selection started meanwhile.
	view.panel.mu.Lock()
	defer view.panel.mu.Unlock()

	if sequence != view.panel.sequence {
		return nil, ErrSelectionSuperseded
	}

	view.panel.inflight = ""
	view.panel.current = panel
	return panel, nil
}

// CurrentReceipt returns the most recently committed receipt panel, or nil.
func (view *View) CurrentReceipt() *ReceiptPanel {
	view.panel.mu.Lock()
	defer view.panel.mu.Unlock()
	return view.panel.current
}
