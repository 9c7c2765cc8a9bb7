// Copyright (c) 2026 TrustVoice. All rights reserved.

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/the-voice-ledger/trustvoice/internal/platform/apperr"
	"github.com/the-voice-ledger/trustvoice/internal/platform/middleware"
	requestutil "github.com/the-voice-ledger/trustvoice/internal/platform/request"
	"github.com/the-voice-ledger/trustvoice/internal/platform/respond"
	"github.com/the-voice-ledger/trustvoice/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Session introspection, Logout).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register   : Creates a new account.
//   - POST /login      : Authenticates a PIN and returns a bearer JWT.
//   - GET  /me         : Returns the authenticated account.
//   - POST /logout     : Revokes the presented bearer token.
//   - POST /link-donor : Attaches a donor profile to the account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Post("/logout", handler.logout)
		r.Post("/link-donor", handler.linkDonor)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	PIN         string `json:"pin"`
	DisplayName string `json:"display_name"`
	AsDonor     bool   `json:"as_donor"`
	FullName    string `json:"full_name"`
	Country     string `json:"country"`
}

type loginRequest struct {
	Identifier  string `json:"identifier"`
	PhoneNumber string `json:"phone_number"`
	PIN         string `json:"pin"`
}

type linkDonorRequest struct {
	FullName string `json:"full_name"`
	Country  string `json:"country"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new user profile to the database. A donor profile is linked when requested.

Request:
  - Body: registerRequest (Username, Email, PhoneNumber, PIN, DisplayName, AsDonor)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username, Email, or Phone already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPIN, input.PIN).
		Digits(FieldPIN, input.PIN).
		MinLen(FieldPIN, input.PIN, MinPINLength).
		MaxLen(FieldPIN, input.PIN, MaxPINLength)

	if input.PhoneNumber != "" {
		validator.Phone(FieldPhoneNumber, input.PhoneNumber)
	}
	if input.AsDonor {
		validator.Required(FieldFullName, input.FullName)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:    input.Username,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		PIN:         input.PIN,
		DisplayName: input.DisplayName,
		AsDonor:     input.AsDonor,
		FullName:    input.FullName,
		Country:     input.Country,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a donor and establishes a session.

POST /api/v1/auth/login

Description: Verifies the PIN against the stored hash and returns a long-lived
bearer token for the dashboard to persist.

Request:
  - Body: loginRequest (Identifier OR PhoneNumber, plus PIN)

Response:
  - 200: Session: Access token and User profile
  - 400: ErrInvalidJSON: Neither or both identity fields supplied
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldPIN, input.PIN)
	validator.Custom(FieldIdentifier,
		(input.Identifier == "") == (input.PhoneNumber == ""),
		"Exactly one of identifier or phone_number is required")
	if input.PhoneNumber != "" {
		validator.Phone(FieldPhoneNumber, input.PhoneNumber)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Identifier:  input.Identifier,
		PhoneNumber: input.PhoneNumber,
		PIN:         input.PIN,
		UserAgent:   request.UserAgent(),
		IPAddress:   getClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int64(time.Until(session.ExpiresAt) / time.Second),
		FieldUser:        session.User,
	})
}

/*
Me returns the full account record of the authenticated user.

GET /api/v1/auth/me

Response:
  - 200: User: Current account state, including donor linkage
  - 401: ErrUnauthorized: Missing token or account gone
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.CurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Logout terminates the current bearer session.

POST /api/v1/auth/logout

Description: Denylists the presented token and revokes its audit session.
Idempotent; logging out twice succeeds.

Response:
  - 204: No Content: Session terminated
  - 401: ErrUnauthorized: No verified token on the request
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rawToken := bearerToken(request)
	if rawToken == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing bearer token"))
		return
	}

	if err := handler.authService.Logout(request.Context(), claims, rawToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
LinkDonor attaches a donor profile to an existing member account.

POST /api/v1/auth/link-donor

Request:
  - Body: linkDonorRequest (FullName, Country)

Response:
  - 200: User: Updated account with donor linkage
  - 409: ErrConflict: Account already linked
*/
func (handler *Handler) linkDonor(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input linkDonorRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.LinkDonorProfile(request.Context(), userID, input.FullName, input.Country)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// getClientIP tries to extract the real IP address of a user over proxy environments.
func getClientIP(request *http.Request) string {

	ip := request.Header.Get("X-Real-IP")
	if ip == "" {
		ip = request.Header.Get("X-Forwarded-For")
	}

	if ip == "" {
		ip = request.RemoteAddr
	}
	return ip
}

// bearerToken extracts the raw token from the Authorization header.
func bearerToken(request *http.Request) string {
	header := request.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}
