// Copyright (c) 2026 TrustVoice. All rights reserved.

package campaigns_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-voice-ledger/trustvoice/internal/campaigns"
	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
	"github.com/the-voice-ledger/trustvoice/pkg/pagination"
)

type fakeRepo struct {
	campaigns []campaigns.Campaign
}

func (r *fakeRepo) List(_ context.Context, params pagination.Params) ([]campaigns.Campaign, int, error) {
	start := params.Offset()
	if start >= len(r.campaigns) {
		return nil, len(r.campaigns), nil
	}
	end := start + params.Limit
	if end > len(r.campaigns) {
		end = len(r.campaigns)
	}
	return r.campaigns[start:end], len(r.campaigns), nil
}

func (r *fakeRepo) FindBySlug(_ context.Context, slug string) (*campaigns.Campaign, error) {
	for i := range r.campaigns {
		if r.campaigns[i].Slug == slug {
			return &r.campaigns[i], nil
		}
	}
	return nil, apperr.NotFound("Campaign not found")
}

func (r *fakeRepo) Create(_ context.Context, campaign *campaigns.Campaign) error {
	r.campaigns = append(r.campaigns, *campaign)
	return nil
}

func TestService_Create(t *testing.T) {
	repo := &fakeRepo{}
	service := campaigns.NewService(repo)

	created, err := service.Create(context.Background(), campaigns.CreateInput{
		Title:        "Clean Water for Kibera",
		Organization: "Maji Trust",
		GoalMinor:    50_000_000,
		Currency:     "KES",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "clean-water-for-kibera", created.Slug)
	assert.True(t, created.IsActive)

	found, err := service.BySlug(context.Background(), "clean-water-for-kibera")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestService_BySlug_NotFound(t *testing.T) {
	service := campaigns.NewService(&fakeRepo{})

	_, err := service.BySlug(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_List_Pagination(t *testing.T) {
	repo := &fakeRepo{}
	service := campaigns.NewService(repo)

	for _, title := range []string{"Alpha Drive", "Beta Drive", "Gamma Drive"} {
		_, err := service.Create(context.Background(), campaigns.CreateInput{
			Title:        title,
			Organization: "Org",
			GoalMinor:    1000,
			Currency:     "USD",
		})
		require.NoError(t, err)
	}

	page, meta, err := service.List(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, page, 1)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

func TestCampaign_Progress(t *testing.T) {
	assert.Equal(t, 0.5, campaigns.Campaign{GoalMinor: 1000, RaisedMinor: 500}.Progress())
	assert.Equal(t, 1.0, campaigns.Campaign{GoalMinor: 1000, RaisedMinor: 2000}.Progress())
	assert.Equal(t, 0.0, campaigns.Campaign{GoalMinor: 0, RaisedMinor: 500}.Progress())
}
