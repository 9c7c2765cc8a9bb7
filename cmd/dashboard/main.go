// Copyright (c) 2026 TrustVoice. All rights reserved.

// Command dashboard is a terminal client for the donor dashboard.
//
// It drives the same session and view-model core that the web dashboard
// embeds: tokens persist in a local file between runs, so a successful
// -login is enough for later invocations to restore the session and render
// donation history, totals, and the tax summary as JSON.
//
// # Usage
//
//	dashboard -login -identifier amina@example.org -pin 123456
//	dashboard -year 2025
//	dashboard -receipt 01890a5d-ac96-774b-bcce-b302099a8057
//	dashboard -logout
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/the-voice-ledger/trustvoice/internal/dashboard"
	"github.com/the-voice-ledger/trustvoice/internal/dashboard/donorapi"
	"github.com/the-voice-ledger/trustvoice/internal/dashboard/session"
)

func main() {
	var (
		apiBaseURL = flag.String("api", "http://localhost:8080", "base URL of the platform API")
		tokenFile  = flag.String("token-file", defaultTokenPath(), "path of the persisted session token")
		doLogin    = flag.Bool("login", false, "log in before rendering the dashboard")
		doLogout   = flag.Bool("logout", false, "end the session and clear the stored token")
		identifier = flag.String("identifier", "", "email or username for -login")
		phone      = flag.String("phone", "", "phone number for -login (alternative to -identifier)")
		pin        = flag.String("pin", "", "PIN for -login (or set TRUSTVOICE_PIN)")
		taxYear    = flag.Int("year", time.Now().UTC().Year(), "calendar year for the tax summary section")
		receiptID  = flag.String("receipt", "", "donation ID to fetch and verify a receipt for")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	tokens := session.NewTokenStore(session.NewFileStorage(*tokenFile))
	authAPI := session.NewHTTPAuthAPI(*apiBaseURL, nil)
	controller := session.NewController(authAPI, tokens, log)

	if *doLogout {
		if err := establishSession(ctx, controller, tokens); err != nil {
			// A dead token is fine; Logout below still clears local state.
			log.Warn("session restore failed before logout", slog.Any("error", err))
		}
		if err := controller.Logout(ctx); err != nil {
			fatal("logout failed: %v", err)
		}
		fmt.Println("logged out")
		return
	}

	if *doLogin {
		credentials := session.Credentials{
			Identifier:  *identifier,
			PhoneNumber: *phone,
			PIN:         *pin,
		}
		if credentials.PIN == "" {
			credentials.PIN = os.Getenv("TRUSTVOICE_PIN")
		}
		if credentials.PIN == "" {
			fatal("a PIN is required: pass -pin or set TRUSTVOICE_PIN")
		}

		user, err := controller.Login(ctx, credentials)
		if err != nil {
			fatal("login failed: %v", err)
		}
		fmt.Fprintf(os.Stderr, "logged in as %s\n", user.Username)
	} else {
		if err := establishSession(ctx, controller, tokens); err != nil {
			fatal("no active session (%v) — run with -login first", err)
		}
	}

	client := donorapi.NewHTTPClient(*apiBaseURL, tokens, nil)
	view := dashboard.NewView(controller, client, log)

	model, err := view.Load(ctx, *taxYear)
	if err != nil {
		fatal("dashboard load failed: %v", err)
	}
	render(model)

	if *receiptID != "" {
		panel, err := view.SelectReceipt(ctx, *receiptID)
		if err != nil {
			fatal("receipt selection failed: %v", err)
		}
		render(panel)
	}
}

// establishSession restores the persisted token, if any, and resolves the
// account behind it.
func establishSession(ctx context.Context, controller *session.Controller, tokens *session.TokenStore) error {
	token, err := tokens.LoadPersisted()
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("no stored token")
	}
	if _, err := controller.Restore(ctx, token); err != nil {
		return err
	}
	return nil
}

// defaultTokenPath stores the token under the user's home directory, falling
// back to the working directory when home cannot be determined.
func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trustvoice-token"
	}
	return filepath.Join(home, ".trustvoice", "token")
}

func render(payload any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(payload)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
