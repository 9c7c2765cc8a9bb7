// Copyright (c) 2026 TrustVoice. All rights reserved.

package campaigns

import (
	"context"

	"github.com/the-voice-ledger/trustvoice/pkg/pagination"
)

// Repository manages campaign catalogue persistence.
type Repository interface {
	// List returns a page of active campaigns plus the total active count.
	List(context context.Context, params pagination.Params) ([]Campaign, int, error)

	// FindBySlug retrieves a campaign by its URL slug.
	FindBySlug(context context.Context, slug string) (*Campaign, error)

	// Create persists a new campaign. Used by the seeder and admin tooling.
	Create(context context.Context, campaign *Campaign) error
}
