// Copyright (c) 2026 TrustVoice. All rights reserved.

package campaigns

import (
	"context"
	"fmt"

	"github.com/the-voice-ledger/trustvoice/pkg/pagination"
	"github.com/the-voice-ledger/trustvoice/pkg/slug"
	"github.com/the-voice-ledger/trustvoice/pkg/uuid"
)

// Service implements catalogue use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new campaigns [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// List returns a page of active campaigns with pagination metadata.
func (service *Service) List(context context.Context, params pagination.Params) ([]Campaign, pagination.Meta, error) {
	campaigns, total, err := service.repository.List(context, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("campaigns_service_list_failed: %w", err)
	}
	return campaigns, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// BySlug retrieves a single campaign by its URL slug.
func (service *Service) BySlug(context context.Context, campaignSlug string) (*Campaign, error) {
	return service.repository.FindBySlug(context, campaignSlug)
}

// CreateInput holds the data for a new catalogue entry.
type CreateInput struct {
	Title        string
	Organization string
	Description  string
	GoalMinor    int64
	Currency     string
}

// Create registers a new campaign, deriving its slug from the title.
func (service *Service) Create(context context.Context, input CreateInput) (*Campaign, error) {
	campaign := &Campaign{
		ID:           uuid.New(),
		Slug:         slug.From(input.Title),
		Title:        input.Title,
		Organization: input.Organization,
		Description:  input.Description,
		GoalMinor:    input.GoalMinor,
		Currency:     input.Currency,
		IsActive:     true,
	}

	if err := service.repository.Create(context, campaign); err != nil {
		return nil, fmt.Errorf("campaigns_service_create_failed: %w", err)
	}

	return campaign, nil
}
