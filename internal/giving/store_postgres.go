// Copyright (c) 2026 TrustVoice. All rights reserved.

package giving

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
	"github.com/the-voice-ledger/trustvoice/internal/platform/database/schema"
	"github.com/the-voice-ledger/trustvoice/internal/platform/dberr"
)

// # Donor Repository

// PostgresDonorRepository implements DonorRepository using pgx.
type PostgresDonorRepository struct {
	pool *pgxpool.Pool
}

// NewDonorRepository creates a new PostgreSQL implementation of DonorRepository.
func NewDonorRepository(pool *pgxpool.Pool) *PostgresDonorRepository {
	return &PostgresDonorRepository{pool: pool}
}

var donorColumns = fmt.Sprintf(
	"%s, %s, %s, %s, %s",
	schema.GivingDonor.ID, schema.GivingDonor.UserID, schema.GivingDonor.FullName,
	schema.GivingDonor.Country, schema.GivingDonor.CreatedAt,
)

/*
Create persists a new donor profile into the giving.donor table.

Parameters:
  - context: context.Context
  - donor: *Donor

Returns:
  - err: Constraint violations or connectivity errors
*/
func (repository *PostgresDonorRepository) Create(context context.Context, donor *Donor) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)`,
		schema.GivingDonor.Table, donorColumns,
	)

	if donor.CreatedAt.IsZero() {
		donor.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		donor.ID,
		donor.UserID,
		donor.FullName,
		donor.Country,
		donor.CreatedAt,
	)

	if err != nil {
		// The unique userid constraint catches double-provisioning races.
		return dberr.Wrap(err, "create_donor")
	}

	return nil
}

// scanDonor hydrates a Donor from a row carrying donorColumns.
func scanDonor(row pgx.Row) (*Donor, error) {
	donor := &Donor{}
	err := row.Scan(
		&donor.ID,
		&donor.UserID,
		&donor.FullName,
		&donor.Country,
		&donor.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return donor, nil
}

/*
FindByID retrieves a donor profile by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Donor: Hydrated profile
  - err: apperr.NotFound or database errors
*/
func (repository *PostgresDonorRepository) FindByID(context context.Context, id string) (*Donor, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		donorColumns, schema.GivingDonor.Table, schema.GivingDonor.ID,
	)

	donor, err := scanDonor(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Donor profile not found")
		}
		return nil, fmt.Errorf("postgres_donor_repo_find_by_id_failed: %w", err)
	}

	return donor, nil
}

/*
FindByUserID retrieves the donor profile linked to a user account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Donor: Hydrated profile
  - err: apperr.NotFound when the account has no donor linkage
*/
func (repository *PostgresDonorRepository) FindByUserID(context context.Context, userID string) (*Donor, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		donorColumns, schema.GivingDonor.Table, schema.GivingDonor.UserID,
	)

	donor, err := scanDonor(repository.pool.QueryRow(context, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Donor profile not found for this account")
		}
		return nil, fmt.Errorf("postgres_donor_repo_find_by_user_failed: %w", err)
	}

	return donor, nil
}

// # Donation Repository

// PostgresDonationRepository implements DonationRepository using pgx.
type PostgresDonationRepository struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new PostgreSQL implementation of DonationRepository.
func NewDonationRepository(pool *pgxpool.Pool) *PostgresDonationRepository {
	return &PostgresDonationRepository{pool: pool}
}

// donationColumns joins the campaign title so list views never need a
// second round-trip per row.
var donationColumns = fmt.Sprintf(
	"d.%s, d.%s, d.%s, c.%s, d.%s, d.%s, d.%s, d.%s, d.%s, d.%s",
	schema.GivingDonation.ID, schema.GivingDonation.DonorID, schema.GivingDonation.CampaignID,
	schema.GivingCampaign.Title, schema.GivingDonation.AmountMinor, schema.GivingDonation.Currency,
	schema.GivingDonation.PaymentMethod, schema.GivingDonation.Status,
	schema.GivingDonation.CreatedAt, schema.GivingDonation.UpdatedAt,
)

// donationJoin is the FROM clause shared by every donation read path.
var donationJoin = fmt.Sprintf(
	"%s d JOIN %s c ON c.%s = d.%s",
	schema.GivingDonation.Table, schema.GivingCampaign.Table,
	schema.GivingCampaign.ID, schema.GivingDonation.CampaignID,
)

// scanDonation hydrates a Donation from a row carrying donationColumns.
//
// The raw status string goes through ParseStatus so that rows written by a
// newer payment pipeline degrade to StatusUnknown instead of failing the scan.
func scanDonation(row pgx.Row) (*Donation, error) {
	donation := &Donation{}
	var rawStatus string
	err := row.Scan(
		&donation.ID,
		&donation.DonorID,
		&donation.CampaignID,
		&donation.CampaignTitle,
		&donation.AmountMinor,
		&donation.Currency,
		&donation.PaymentMethod,
		&rawStatus,
		&donation.CreatedAt,
		&donation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	donation.Status = ParseStatus(rawStatus)
	return donation, nil
}

/*
Create persists a new donation entry into the giving.donation table.

Parameters:
  - context: context.Context
  - donation: *Donation

Returns:
  - err: Constraint violations or connectivity errors
*/
func (repository *PostgresDonationRepository) Create(context context.Context, donation *Donation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.GivingDonation.Table,
		schema.GivingDonation.ID, schema.GivingDonation.DonorID, schema.GivingDonation.CampaignID,
		schema.GivingDonation.AmountMinor, schema.GivingDonation.Currency,
		schema.GivingDonation.PaymentMethod, schema.GivingDonation.Status,
		schema.GivingDonation.CreatedAt, schema.GivingDonation.UpdatedAt,
	)

	now := time.Now()
	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = now
	}
	donation.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		donation.ID,
		donation.DonorID,
		donation.CampaignID,
		donation.AmountMinor,
		donation.Currency,
		donation.PaymentMethod,
		donation.Status,
		donation.CreatedAt,
		donation.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_donation_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a donation by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Donation: Hydrated entity with campaign title
  - err: apperr.NotFound or execution errors
*/
func (repository *PostgresDonationRepository) FindByID(context context.Context, id string) (*Donation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE d.%s = $1`,
		donationColumns, donationJoin, schema.GivingDonation.ID,
	)

	donation, err := scanDonation(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Donation not found")
		}
		return nil, fmt.Errorf("postgres_donation_repo_find_by_id_failed: %w", err)
	}

	return donation, nil
}

/*
ListByDonor returns all donations of a donor, most recent first.

Description: Backing query for the donor dashboard. Ordering is part of the
contract; clients rely on index 0 being the latest donation.

Parameters:
  - context: context.Context
  - donorID: string

Returns:
  - []Donation: Ordered list (possibly empty)
  - err: Query or scan failures
*/
func (repository *PostgresDonationRepository) ListByDonor(context context.Context, donorID string) ([]Donation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE d.%s = $1
		ORDER BY d.%s DESC, d.%s DESC`,
		donationColumns, donationJoin, schema.GivingDonation.DonorID,
		schema.GivingDonation.CreatedAt, schema.GivingDonation.ID,
	)

	rows, err := repository.pool.Query(context, query, donorID)
	if err != nil {
		return nil, fmt.Errorf("postgres_donation_repo_list_failed: %w", err)
	}
	defer rows.Close()

	// Row Iteration and Entity Hydration
	var donations []Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_donation_repo_scan_failed: %w", err)
		}
		donations = append(donations, *donation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_donation_repo_rows_failed: %w", err)
	}

	return donations, nil
}

/*
ListCompletedInYear returns a donor's completed donations within a calendar year.

Description: Source rows for the tax summary. Only completed donations are
deductible; pending, failed, and refunded rows are excluded at the query level.

Parameters:
  - context: context.Context
  - donorID: string
  - year: int

Returns:
  - []Donation: Completed donations for that year
  - err: Query or scan failures
*/
func (repository *PostgresDonationRepository) ListCompletedInYear(context context.Context, donorID string, year int) ([]Donation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE d.%s = $1
		  AND d.%s = $2
		  AND d.%s >= $3
		  AND d.%s < $4
		ORDER BY d.%s DESC`,
		donationColumns, donationJoin,
		schema.GivingDonation.DonorID, schema.GivingDonation.Status,
		schema.GivingDonation.CreatedAt, schema.GivingDonation.CreatedAt,
		schema.GivingDonation.CreatedAt,
	)

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	rows, err := repository.pool.Query(context, query, donorID, StatusCompleted, yearStart, yearEnd)
	if err != nil {
		return nil, fmt.Errorf("postgres_donation_repo_list_year_failed: %w", err)
	}
	defer rows.Close()

	var donations []Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_donation_repo_scan_failed: %w", err)
		}
		donations = append(donations, *donation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_donation_repo_rows_failed: %w", err)
	}

	return donations, nil
}

/*
UpdateStatus transitions a donation to a new settlement status.

Parameters:
  - context: context.Context
  - donationID: string
  - status: Status

Returns:
  - err: apperr.NotFound when the donation does not exist
*/
func (repository *PostgresDonationRepository) UpdateStatus(context context.Context, donationID string, status Status) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1",
		schema.GivingDonation.Table, schema.GivingDonation.Status,
		schema.GivingDonation.UpdatedAt, schema.GivingDonation.ID,
	)

	tag, err := repository.pool.Exec(context, query, donationID, status, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_donation_repo_update_status_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Donation not found")
	}

	return nil
}

// # Receipt Repository

// PostgresReceiptRepository implements ReceiptRepository using pgx.
type PostgresReceiptRepository struct {
	pool *pgxpool.Pool
}

// NewReceiptRepository creates a new PostgreSQL implementation of ReceiptRepository.
func NewReceiptRepository(pool *pgxpool.Pool) *PostgresReceiptRepository {
	return &PostgresReceiptRepository{pool: pool}
}

var receiptColumns = fmt.Sprintf(
	"%s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
	schema.GivingReceipt.ID, schema.GivingReceipt.DonationID, schema.GivingReceipt.AmountMinor,
	schema.GivingReceipt.Currency, schema.GivingReceipt.CampaignName, schema.GivingReceipt.Organization,
	schema.GivingReceipt.IssuedAt, schema.GivingReceipt.ContentHash,
	schema.GivingReceipt.NFTTokenID, schema.GivingReceipt.BlockchainTx,
)

/*
Create persists a newly issued receipt into the giving.receipt table.

Parameters:
  - context: context.Context
  - receipt: *Receipt

Returns:
  - err: Constraint violations (one receipt per donation) or connectivity errors
*/
func (repository *PostgresReceiptRepository) Create(context context.Context, receipt *Receipt) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.GivingReceipt.Table, receiptColumns,
	)

	_, err := repository.pool.Exec(context, query,
		receipt.ID,
		receipt.DonationID,
		receipt.AmountMinor,
		receipt.Currency,
		receipt.CampaignName,
		receipt.Organization,
		receipt.IssuedAt,
		receipt.ContentHash,
		receipt.NFTTokenID,
		receipt.BlockchainTx,
	)

	if err != nil {
		// One receipt per donation, enforced by the unique donationid index.
		return dberr.Wrap(err, "create_receipt")
	}

	return nil
}

/*
FindByDonationID retrieves the receipt issued for a donation.

Parameters:
  - context: context.Context
  - donationID: string

Returns:
  - *Receipt: Hydrated receipt with anchor fields
  - err: apperr.NotFound when no receipt has been issued
*/
func (repository *PostgresReceiptRepository) FindByDonationID(context context.Context, donationID string) (*Receipt, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		receiptColumns, schema.GivingReceipt.Table, schema.GivingReceipt.DonationID,
	)

	receipt := &Receipt{}
	err := repository.pool.QueryRow(context, query, donationID).Scan(
		&receipt.ID,
		&receipt.DonationID,
		&receipt.AmountMinor,
		&receipt.Currency,
		&receipt.CampaignName,
		&receipt.Organization,
		&receipt.IssuedAt,
		&receipt.ContentHash,
		&receipt.NFTTokenID,
		&receipt.BlockchainTx,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Receipt has not been issued for this donation")
		}
		return nil, fmt.Errorf("postgres_receipt_repo_find_failed: %w", err)
	}

	return receipt, nil
}

/*
CountByDonationIDs reports how many of the given donations carry receipts.

Parameters:
  - context: context.Context
  - donationIDs: []string

Returns:
  - int: Receipt count
  - err: Execution errors
*/
func (repository *PostgresReceiptRepository) CountByDonationIDs(context context.Context, donationIDs []string) (int, error) {
	if len(donationIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ANY($1)",
		schema.GivingReceipt.Table, schema.GivingReceipt.DonationID,
	)

	var count int
	if err := repository.pool.QueryRow(context, query, donationIDs).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_receipt_repo_count_failed: %w", err)
	}

	return count, nil
}
