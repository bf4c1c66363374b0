// internal/app/features/users/delete.go
package users

import (
	"errors"
	"net/http"

	identitystore "github.com/campusbridge/precollegehub/internal/app/store/identities"
	"github.com/campusbridge/precollegehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeDelete handles DELETE /users/{id}. The document is removed and the
// identity is disabled, not deleted, so the audit trail keeps a usable
// reference and accidental deletions can be recovered by support.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete user")
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

	if _, err := h.Users.Delete(ctx, id); err != nil {
		h.Log.Error("delete user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if user.LoginEmail != "" {
		err := h.Identities.Disable(ctx, user.LoginEmail)
		if err != nil && !errors.Is(err, identitystore.ErrNotFound) {
			// Document is gone; the sweep will catch the identity later.
			h.Log.Error("disable identity after delete failed",
				zap.String("identity", user.LoginEmail), zap.Error(err))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
