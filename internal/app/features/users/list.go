// internal/app/features/users/list.go
package users

import (
	"net/http"

	"github.com/campusbridge/precollegehub/internal/app/system/timeouts"
	"github.com/campusbridge/precollegehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeList handles GET /users with optional ?role= and ?q= (name prefix)
// filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "" && !models.ValidRole(role) {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}
	query := r.URL.Query().Get("q")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list users")
	defer cancel()

	users, err := h.Users.List(ctx, role, query)
	if err != nil {
		h.Log.Error("list users failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// ServeGet handles GET /users/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get user")
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.Log.Error("get user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
