// internal/app/features/users/resetpassword.go
package users

import (
	"net/http"

	"github.com/campusbridge/precollegehub/internal/app/system/credentials"
	"github.com/campusbridge/precollegehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type resetPasswordResponse struct {
	Password string `json:"password"`
}

// ServeResetPassword handles POST /users/{id}/reset-password. A fresh
// password is generated and returned to the calling admin for out-of-band
// delivery; no notification is sent. The identity is re-enabled as a side
// effect, matching the support flow for locked-out users.
func (h *Handler) ServeResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "reset password")
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.Log.Error("load user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user.LoginEmail == "" {
		writeError(w, http.StatusConflict, "user has no identity")
		return
	}

	password, err := credentials.GeneratePassword(credentials.DefaultPasswordLength)
	if err != nil {
		h.Log.Error("generate password failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.Identities.UpdatePassword(ctx, user.LoginEmail, password); err != nil {
		h.Log.Error("update password failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, resetPasswordResponse{Password: password})
}
