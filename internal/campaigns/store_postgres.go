// Copyright (c) 2026 TrustVoice. All rights reserved.

package campaigns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
	"github.com/the-voice-ledger/trustvoice/internal/platform/database/schema"
	"github.com/the-voice-ledger/trustvoice/pkg/pagination"
)

// PostgresRepository implements Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var campaignColumns = fmt.Sprintf(
	"%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
	schema.GivingCampaign.ID, schema.GivingCampaign.Slug, schema.GivingCampaign.Title,
	schema.GivingCampaign.Organization, schema.GivingCampaign.Description,
	schema.GivingCampaign.GoalMinor, schema.GivingCampaign.RaisedMinor,
	schema.GivingCampaign.Currency, schema.GivingCampaign.IsActive,
	schema.GivingCampaign.CreatedAt, schema.GivingCampaign.UpdatedAt,
)

// List returns a page of active campaigns ordered by most recently created.
func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]Campaign, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS totalcount
		FROM %s
		WHERE %s = TRUE
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2`,
		campaignColumns, schema.GivingCampaign.Table,
		schema.GivingCampaign.IsActive, schema.GivingCampaign.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_campaign_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var campaigns []Campaign
	var totalCount int
	for rows.Next() {
		var campaign Campaign
		err := rows.Scan(
			&campaign.ID,
			&campaign.Slug,
			&campaign.Title,
			&campaign.Organization,
			&campaign.Description,
			&campaign.GoalMinor,
			&campaign.RaisedMinor,
			&campaign.Currency,
			&campaign.IsActive,
			&campaign.CreatedAt,
			&campaign.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_campaign_repo_scan_failed: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_campaign_repo_rows_failed: %w", err)
	}

	return campaigns, totalCount, nil
}

// FindBySlug retrieves a campaign by its URL slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Campaign, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		campaignColumns, schema.GivingCampaign.Table, schema.GivingCampaign.Slug,
	)

	campaign := &Campaign{}
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&campaign.ID,
		&campaign.Slug,
		&campaign.Title,
		&campaign.Organization,
		&campaign.Description,
		&campaign.GoalMinor,
		&campaign.RaisedMinor,
		&campaign.Currency,
		&campaign.IsActive,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Campaign not found")
		}
		return nil, fmt.Errorf("postgres_campaign_repo_find_failed: %w", err)
	}

	return campaign, nil
}

// Create persists a new campaign.
func (repository *PostgresRepository) Create(context context.Context, campaign *Campaign) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		schema.GivingCampaign.Table, campaignColumns,
	)

	now := time.Now()
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = now
	}
	campaign.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		campaign.ID,
		campaign.Slug,
		campaign.Title,
		campaign.Organization,
		campaign.Description,
		campaign.GoalMinor,
		campaign.RaisedMinor,
		campaign.Currency,
		campaign.IsActive,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_campaign_repo_create_failed: %w", err)
	}

	return nil
}
