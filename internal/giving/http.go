// Copyright (c) 2026 TrustVoice. All rights reserved.

package giving

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
	"github.com/the-voice-ledger/trustvoice/internal/platform/middleware"
	requestutil "github.com/the-voice-ledger/trustvoice/internal/platform/request"
	"github.com/the-voice-ledger/trustvoice/internal/platform/respond"
	"github.com/the-voice-ledger/trustvoice/internal/platform/sec"
	"github.com/the-voice-ledger/trustvoice/internal/platform/validate"
)

// Handler implements donation and receipt HTTP endpoints.
type Handler struct {
	givingService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{givingService: service}
}

// # Ownership

/*
authorizeDonor rejects callers reading another donor's records.

Description: Donors may only access their own donation history, receipts, and
tax summaries. The caller's donor linkage is resolved from their claims;
organizers and admins are exempt and may read any donor.

Returns:
  - err: apperr.Unauthorized without claims, apperr.Forbidden on mismatch
*/
func (handler *Handler) authorizeDonor(request *http.Request, donorID string) error {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return err
	}

	if sec.UserRole(claims.Role).AtLeast(sec.RoleOrganizer) {
		return nil
	}

	donor, err := handler.givingService.DonorByUser(request.Context(), claims.UserID)
	if err != nil || donor.ID != donorID {
		return apperr.Forbidden("You may only access your own donor records")
	}

	return nil
}

// authorizeDonation resolves a donation and applies the donor ownership rule
// to its owner. A missing donation surfaces as NotFound, never as Forbidden.
func (handler *Handler) authorizeDonation(request *http.Request, donationID string) error {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return err
	}

	if sec.UserRole(claims.Role).AtLeast(sec.RoleOrganizer) {
		return nil
	}

	donation, err := handler.givingService.Donation(request.Context(), donationID)
	if err != nil {
		return err
	}

	return handler.authorizeDonor(request, donation.DonorID)
}

// DonorRoutes returns the routes mounted under /donors.
//
// Every route is scoped to the calling donor via [Handler.authorizeDonor];
// organizers and admins may read any donor.
//
// # Endpoints
//   - GET /{donorID}/donations   : Full donation history, most recent first.
//   - GET /{donorID}/tax-summary : Per-currency deductible totals for a year.
func (handler *Handler) DonorRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/{donorID}/donations", handler.listDonations)
		r.Get("/{donorID}/tax-summary", handler.taxSummary)
	})

	return router
}

// DonationRoutes returns the routes mounted under /donations.
//
// Every route checks the donation's owner via [Handler.authorizeDonation];
// organizers and admins are exempt.
//
// # Endpoints
//   - GET /{donationID}/receipt        : The issued receipt, 404 until issuance.
//   - GET /{donationID}/receipt/verify : Advisory hash verification verdict.
func (handler *Handler) DonationRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/{donationID}/receipt", handler.receipt)
		r.Get("/{donationID}/receipt/verify", handler.verifyReceipt)
	})

	return router
}

/*
ListDonations returns a donor's full donation history.

GET /api/v1/donors/{donorID}/donations

Response:
  - 200: []Donation: Ordered history; an empty list is a valid response
  - 401: ErrUnauthorized: Missing bearer token
  - 403: ErrForbidden: Caller is not this donor
*/
func (handler *Handler) listDonations(writer http.ResponseWriter, request *http.Request) {
	donorID := requestutil.Param(request, "donorID")

	validator := &validate.Validator{}
	validator.Required(FieldDonorID, donorID).UUID(FieldDonorID, donorID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authorizeDonor(request, donorID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	donations, err := handler.givingService.DonorDonations(request.Context(), donorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Serialize an empty history as [], never null.
	if donations == nil {
		donations = []Donation{}
	}

	respond.OK(writer, map[string]any{"items": donations})
}

/*
Receipt returns the issued receipt for a donation.

GET /api/v1/donations/{donationID}/receipt

Response:
  - 200: Receipt: Amount, campaign, organization, issue date, anchor fields
  - 403: ErrForbidden: Donation belongs to another donor
  - 404: ErrNotFound: No receipt issued for this donation
*/
func (handler *Handler) receipt(writer http.ResponseWriter, request *http.Request) {
	donationID := requestutil.Param(request, "donationID")

	validator := &validate.Validator{}
	validator.Required(FieldDonationID, donationID).UUID(FieldDonationID, donationID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authorizeDonation(request, donationID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	receipt, err := handler.givingService.Receipt(request.Context(), donationID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, receipt)
}

/*
VerifyReceipt returns an advisory verdict on a receipt's content hash.

GET /api/v1/donations/{donationID}/receipt/verify

Description: Recomputes the canonical hash and compares it to the stored
anchor. Served from a short-lived cache when possible.

Response:
  - 200: Verdict: {is_valid, computed_hash, stored_hash, checked_at}
  - 403: ErrForbidden: Donation belongs to another donor
  - 404: ErrNotFound: No receipt issued for this donation
*/
func (handler *Handler) verifyReceipt(writer http.ResponseWriter, request *http.Request) {
	donationID := requestutil.Param(request, "donationID")

	validator := &validate.Validator{}
	validator.Required(FieldDonationID, donationID).UUID(FieldDonationID, donationID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authorizeDonation(request, donationID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	verdict, err := handler.givingService.VerifyReceipt(request.Context(), donationID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, verdict)
}

/*
TaxSummary returns per-currency deductible totals for one calendar year.

GET /api/v1/donors/{donorID}/tax-summary?year=2026

Description: Year defaults to the current calendar year when omitted.

Response:
  - 200: TaxSummary: Totals, donation and receipt counts
  - 400: ErrValidation: Malformed year parameter
  - 403: ErrForbidden: Caller is not this donor
  - 404: ErrNotFound: No completed donations that year
*/
func (handler *Handler) taxSummary(writer http.ResponseWriter, request *http.Request) {
	donorID := requestutil.Param(request, "donorID")

	year := time.Now().Year()
	if rawYear := request.URL.Query().Get("year"); rawYear != "" {
		parsed, err := strconv.Atoi(rawYear)
		if err != nil || parsed < 2000 || parsed > time.Now().Year() {
			respond.Error(writer, request, validate.RequiredError(FieldYear, "Year must be a valid calendar year"))
			return
		}
		year = parsed
	}

	validator := &validate.Validator{}
	validator.Required(FieldDonorID, donorID).UUID(FieldDonorID, donorID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authorizeDonor(request, donorID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.givingService.TaxSummary(request.Context(), donorID, year)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}
