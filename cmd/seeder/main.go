// Copyright (c) 2026 TrustVoice. All rights reserved.

// Command seeder populates a development database with a demo donor account,
// a handful of campaigns, and a donation history with anchored receipts.
//
// It is idempotent: a database that already has accounts is left untouched.
// The demo account logs in with PIN 123456.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/the-voice-ledger/trustvoice/internal/giving"
	"github.com/the-voice-ledger/trustvoice/internal/platform/sec"
	"github.com/the-voice-ledger/trustvoice/pkg/slug"
	"github.com/the-voice-ledger/trustvoice/pkg/uuid"
)

const demoPIN = "123456"

type campaignSeed struct {
	title        string
	organization string
	goalMinor    int64
	currency     string
}

type donationSeed struct {
	campaign    int // index into campaigns
	amountMinor int64
	currency    string
	method      giving.PaymentMethod
	status      giving.Status
	daysAgo     int
}

var campaignSeeds = []campaignSeed{
	{"Clean Water for Kibera", "Maji Trust", 500_000_00, "KES"},
	{"School Meals Initiative", "Elimu Foundation", 25_000_00, "USD"},
	{"Community Health Outreach", "Afya Network", 1_200_000_00, "KES"},
}

var donationSeeds = []donationSeed{
	{0, 7_000_00, "KES", giving.PaymentMpesa, giving.StatusCompleted, 220},
	{1, 150_00, "USD", giving.PaymentCard, giving.StatusCompleted, 180},
	{0, 3_500_00, "KES", giving.PaymentMpesa, giving.StatusCompleted, 90},
	{2, 12_000_00, "KES", giving.PaymentMpesa, giving.StatusRefunded, 60},
	{1, 50_00, "USD", giving.PaymentTelegramStars, giving.StatusPending, 2},
	{2, 5_000_00, "KES", giving.PaymentBank, giving.StatusProcessing, 1},
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "trustvoice-seeder"))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		log.Error("connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var accountCount int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM users.account").Scan(&accountCount); err != nil {
		log.Error("count query failed", slog.Any("error", err))
		os.Exit(1)
	}
	if accountCount > 0 {
		log.Info("database already seeded, skipping", slog.Int("accounts", accountCount))
		return
	}

	if err := seed(ctx, conn, log); err != nil {
		log.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("seeding complete")
}

func seed(ctx context.Context, conn *pgx.Conn, log *slog.Logger) error {
	now := time.Now().UTC()

	// Demo account + donor profile
	pinHash, err := sec.HashPIN(demoPIN)
	if err != nil {
		return err
	}

	userID := uuid.New()
	donorID := uuid.New()

	_, err = conn.Exec(ctx, `
		INSERT INTO users.account (id, username, email, phonenumber, pinhash, displayname, role, donorid, isverified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, TRUE)`,
		userID, "amina", "amina@example.org", "+254700000001", pinHash, "Amina Odhiambo", sec.RoleDonor)
	if err != nil {
		return err
	}

	// Campaigns
	campaignIDs := make([]string, len(campaignSeeds))
	for i, c := range campaignSeeds {
		campaignIDs[i] = uuid.New()
		_, err = conn.Exec(ctx, `
			INSERT INTO giving.campaign (id, slug, title, organization, goalminor, currency)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			campaignIDs[i], slug.From(c.title), c.title, c.organization, c.goalMinor, c.currency)
		if err != nil {
			return err
		}
	}

	// Donor profile is created after the account row exists but linked
	// before any donations reference it.
	_, err = conn.Exec(ctx, `
		INSERT INTO giving.donor (id, userid, fullname, country)
		VALUES ($1, $2, $3, $4)`,
		donorID, userID, "Amina Odhiambo", "KE")
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, `UPDATE users.account SET donorid = $2 WHERE id = $1`, userID, donorID)
	if err != nil {
		return err
	}

	// Donations via bulk copy
	donationIDs := make([]string, len(donationSeeds))
	rows := make([][]any, 0, len(donationSeeds))
	for i, d := range donationSeeds {
		donationIDs[i] = uuid.New()
		createdAt := now.AddDate(0, 0, -d.daysAgo)
		rows = append(rows, []any{
			donationIDs[i], donorID, campaignIDs[d.campaign],
			d.amountMinor, d.currency, string(d.method), string(d.status),
			createdAt, createdAt,
		})
	}

	copied, err := conn.CopyFrom(ctx,
		pgx.Identifier{"giving", "donation"},
		[]string{"id", "donorid", "campaignid", "amountminor", "currency", "paymentmethod", "status", "createdat", "updatedat"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return err
	}
	log.Info("donations inserted", slog.Int64("count", copied))

	// Anchored receipts for completed donations. The content hash here is
	// the same canonical hash the API recomputes during verification.
	for i, d := range donationSeeds {
		if d.status != giving.StatusCompleted {
			continue
		}

		c := campaignSeeds[d.campaign]
		issuedAt := now.AddDate(0, 0, -d.daysAgo).Truncate(time.Second)
		contentHash := giving.ComputeContentHash(donationIDs[i], d.amountMinor, d.currency, c.title, c.organization, issuedAt)

		_, err = conn.Exec(ctx, `
			INSERT INTO giving.receipt (id, donationid, amountminor, currency, campaignname, organization, issuedat, contenthash)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), donationIDs[i], d.amountMinor, d.currency, c.title, c.organization, issuedAt, contentHash)
		if err != nil {
			return err
		}
	}

	log.Info("demo account ready",
		slog.String("email", "amina@example.org"),
		slog.String("pin", demoPIN),
	)
	return nil
}
