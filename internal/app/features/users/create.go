// internal/app/features/users/create.go
package users

import (
	"encoding/json"
	"net/http"

	"github.com/campusbridge/precollegehub/internal/app/system/importer"
	"github.com/campusbridge/precollegehub/internal/app/system/normalize"
	"github.com/campusbridge/precollegehub/internal/app/system/timeouts"
	"github.com/campusbridge/precollegehub/internal/domain/models"
)

type createRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`

	StudentID        string `json:"student_id"`
	Program          string `json:"program"`
	Grade            string `json:"grade"`
	School           string `json:"school"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	Notes            string `json:"notes"`
}

// ServeCreate handles POST /users. A single user goes through the same
// pipeline as an import row: credentials, identity, document, invitation.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role := normalize.Role(req.Role)
	if role == "" {
		role = models.RoleVisitor
	}
	if !models.ValidRole(role) {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}

	rec := importer.Record{
		Row:              1,
		Name:             normalize.Name(req.Name),
		Email:            normalize.Email(req.Email),
		Phone:            normalize.Phone(req.Phone, h.DefaultCountryCode),
		StudentID:        normalize.Name(req.StudentID),
		Program:          normalize.Name(req.Program),
		Grade:            normalize.Name(req.Grade),
		School:           normalize.Name(req.School),
		Address:          normalize.Name(req.Address),
		EmergencyContact: normalize.Name(req.EmergencyContact),
		Notes:            normalize.Name(req.Notes),
	}
	if rec.Email == "" && rec.Phone == "" {
		writeError(w, http.StatusBadRequest, "an email or phone number is required")
		return
	}
	if rec.Name == "" {
		rec.Name = importer.DefaultName
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create user")
	defer cancel()

	result := h.Importer.ProcessOne(ctx, rec, role)
	if result.State != importer.StatePersisted {
		// Provision conflicts are the caller's fault; everything else is ours.
		code := http.StatusInternalServerError
		if result.Step == importer.StepProvision {
			code = http.StatusConflict
		}
		writeError(w, code, result.Error)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
