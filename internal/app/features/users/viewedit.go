// internal/app/features/users/viewedit.go
package users

import (
	"encoding/json"
	"net/http"

	userstore "github.com/campusbridge/precollegehub/internal/app/store/users"
	"github.com/campusbridge/precollegehub/internal/app/system/normalize"
	"github.com/campusbridge/precollegehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type updateRequest struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	StudentID        string `json:"student_id"`
	Program          string `json:"program"`
	Grade            string `json:"grade"`
	School           string `json:"school"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	Notes            string `json:"notes"`
}

// ServeUpdate handles PATCH /users/{id}. Email is not editable; it is the
// duplicate-detection key and the identity link.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if normalize.Name(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update user")
	defer cancel()

	// Phone edits keep the user reachable only if they still have an email.
	existing, err := h.Users.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.Log.Error("load user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	phone := normalize.Phone(req.Phone, h.DefaultCountryCode)
	if existing.Email == "" && phone == "" {
		writeError(w, http.StatusBadRequest, "removing the phone would leave the user unreachable")
		return
	}

	err = h.Users.UpdateProfile(ctx, id, userstore.ProfileUpdate{
		Name:             req.Name,
		Phone:            phone,
		StudentID:        req.StudentID,
		Program:          req.Program,
		Grade:            req.Grade,
		School:           req.School,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		Notes:            req.Notes,
	})
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.Log.Error("update user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	updated, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("reload user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
