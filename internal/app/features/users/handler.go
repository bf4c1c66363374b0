// internal/app/features/users/handler.go

// Package users is the admin surface for managing program accounts: listing,
// single creation, bulk spreadsheet import, invite resend, credential reset,
// and deletion.
package users

import (
	"encoding/json"
	"net/http"

	identitystore "github.com/campusbridge/precollegehub/internal/app/store/identities"
	userstore "github.com/campusbridge/precollegehub/internal/app/store/users"
	"github.com/campusbridge/precollegehub/internal/app/system/importer"
	"go.uber.org/zap"
)

// Handler bundles the stores and pipeline the user endpoints need.
type Handler struct {
	Users      *userstore.Store
	Identities *identitystore.Store
	Importer   *importer.Orchestrator
	Log        *zap.Logger

	// DefaultCountryCode prefixes bare national phone numbers (e.g. "+1").
	DefaultCountryCode string
}

func NewHandler(users *userstore.Store, identities *identitystore.Store, orch *importer.Orchestrator, countryCode string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:              users,
		Identities:         identities,
		Importer:           orch,
		DefaultCountryCode: countryCode,
		Log:                logger,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
