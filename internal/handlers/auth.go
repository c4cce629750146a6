// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"legaldir/internal/models"
	"legaldir/internal/render"
	"legaldir/internal/session"
	"legaldir/internal/validate"
)

// totpIssuer is the account label shown in authenticator apps.
const totpIssuer = "legaldir"

// Users is the account storage Auth needs. *store.UserStore implements it.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
	CheckPassword(user *models.User, password string) bool
}

// Sessions manages login sessions. *session.Store implements it.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Update(ctx context.Context, r *http.Request, data *session.Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions Sessions
	users    Users
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions Sessions, users Users) *Auth {
	return &Auth{sessions: sessions, users: users}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse tells the client which 2FA step comes next.
type LoginResponse struct {
	// TwoFactor is "setup" on first sign-in and "verify" afterwards.
	TwoFactor   string          `json:"two_factor"`
	DisplayName string          `json:"display_name"`
	Language    models.Language `json:"language"`
}

// Login checks email and password and opens a session that still has to
// pass the TOTP step.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := a.users.FindByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		render.Message(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !user.IsSuperAdmin() {
		render.Message(w, http.StatusForbidden, "forbidden")
		return
	}

	lang := models.NegotiateLanguage(r.Header.Get("Accept-Language"))
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		Language:    string(lang),
	})
	if err != nil {
		render.Error(w, r, fmt.Errorf("login: %w", err))
		return
	}

	next := "verify"
	if user.Needs2FASetup() {
		next = "setup"
	}
	render.JSON(w, http.StatusOK, LoginResponse{TwoFactor: next, DisplayName: user.DisplayName, Language: lang})
}

// TwoFASetupResponse carries what an authenticator app needs.
type TwoFASetupResponse struct {
	// QRCode is a base64-encoded PNG of URL.
	QRCode string `json:"qr_code"`
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// TwoFASetup issues a new TOTP secret for an account that has not enabled
// 2FA yet and returns it as a QR code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if user == nil {
		render.Message(w, http.StatusUnauthorized, "authentication required")
		return
	}
	// A password alone must not be enough to replace an enrolled device.
	if user.TOTPEnabled {
		render.Message(w, http.StatusConflict, "two-factor authentication is already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		render.Error(w, r, fmt.Errorf("generate totp key: %w", err))
		return
	}
	if err := a.users.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		render.Error(w, r, err)
		return
	}

	resp, err := setupResponse(key)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, resp)
}

func setupResponse(key *otp.Key) (*TwoFASetupResponse, error) {
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return &TwoFASetupResponse{
		QRCode: base64.StdEncoding.EncodeToString(png),
		Secret: key.Secret(),
		URL:    key.URL(),
	}, nil
}

type verifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify checks a TOTP code. The first valid code enables 2FA on the
// account; every valid code completes the session's sign-in.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decode(w, r, &req) {
		return
	}

	sess := currentSession(r)
	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if user == nil {
		render.Message(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if user.TOTPSecret == nil {
		render.Message(w, http.StatusConflict, "two-factor authentication is not set up")
		return
	}

	if !totp.Validate(strings.TrimSpace(req.Code), *user.TOTPSecret) {
		render.Error(w, r, &validate.Error{Fields: map[string]string{"code": "is invalid"}})
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
			render.Error(w, r, err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}
