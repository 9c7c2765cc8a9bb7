// Copyright (c) 2026 TrustVoice. All rights reserved.

package campaigns

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/the-voice-ledger/trustvoice/internal/platform/request"
	"github.com/the-voice-ledger/trustvoice/internal/platform/respond"
	"github.com/the-voice-ledger/trustvoice/pkg/pagination"
)

// Handler implements campaign catalogue HTTP endpoints. Public; the catalogue
// backs the dashboard's browse-campaigns CTA before login.
type Handler struct {
	campaignService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{campaignService: service}
}

// Routes returns the catalogue routes.
//
// # Endpoints
//   - GET /        : Paginated list of active campaigns.
//   - GET /{slug}  : Single campaign by slug.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.list)
	router.Get("/{slug}", handler.bySlug)
	return router
}

// GET /api/v1/campaigns?page=&limit=
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	campaigns, meta, err := handler.campaignService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if campaigns == nil {
		campaigns = []Campaign{}
	}

	respond.Paginated(writer, campaigns, meta)
}

// GET /api/v1/campaigns/{slug}
func (handler *Handler) bySlug(writer http.ResponseWriter, request *http.Request) {
	campaign, err := handler.campaignService.BySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, campaign)
}
