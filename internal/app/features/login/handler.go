// internal/app/features/login/handler.go

// Package login implements credential sign-in for the admin API. Users may
// sign in with an email address or with a bare generated username; bare
// usernames are resolved against the placeholder login domain.
package login

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	identitystore "github.com/campusbridge/precollegehub/internal/app/store/identities"
	userstore "github.com/campusbridge/precollegehub/internal/app/store/users"
	"github.com/campusbridge/precollegehub/internal/app/system/auth"
	"github.com/campusbridge/precollegehub/internal/app/system/status"
	"github.com/campusbridge/precollegehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Identities *identitystore.Store
	Users      *userstore.Store
	Log        *zap.Logger
}

func NewHandler(identities *identitystore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Identities: identities, Users: users, Log: logger}
}

type loginRequest struct {
	Identifier string `json:"identifier"` // email or generated username
	Password   string `json:"password"`
}

type loginResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// ServeLogin handles POST /login. Invalid credentials, unknown identifiers,
// and disabled identities all produce the same 401; callers cannot probe
// which addresses exist.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" || req.Password == "" {
		http.Error(w, "identifier and password are required", http.StatusBadRequest)
		return
	}

	loginEmail := req.Identifier
	if !strings.Contains(loginEmail, "@") {
		loginEmail = identitystore.PlaceholderEmail(strings.ToLower(loginEmail))
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	ident, err := h.Identities.VerifyPassword(ctx, loginEmail, req.Password)
	if err != nil {
		if !errors.Is(err, identitystore.ErrNotFound) {
			h.Log.Error("login verify failed", zap.Error(err))
		}
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetByLoginEmail(ctx, ident.Email)
	if err != nil {
		// Identity without a document; the sweep will disable it, but do
		// not let it sign in meanwhile.
		h.Log.Warn("login for identity without user document",
			zap.String("identity", ident.Email))
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	// First successful sign-in moves an invited user to active.
	if user.Status == status.Invited {
		if err := h.Users.SetStatus(ctx, user.ID, status.Active); err != nil {
			h.Log.Warn("activate on first login failed", zap.Error(err))
		}
	}

	su := auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: ident.Email,
		Role:  ident.RoleClaim, // the claim, not the document field
	}
	if err := auth.SignIn(w, r, su); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{
		ID:    su.ID,
		Name:  su.Name,
		Email: user.Email,
		Role:  su.Role,
	})
}

// ServeLogout handles POST /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
