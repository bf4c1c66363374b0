// internal/app/features/users/import.go
package users

import (
	"errors"
	"io"
	"net/http"

	"github.com/campusbridge/precollegehub/internal/app/system/importer"
	"github.com/campusbridge/precollegehub/internal/app/system/normalize"
	"github.com/campusbridge/precollegehub/internal/app/system/spreadsheet"
	"github.com/campusbridge/precollegehub/internal/app/system/timeouts"
	"github.com/campusbridge/precollegehub/internal/domain/models"
	"go.uber.org/zap"
)

type importResponse struct {
	Run     models.ImportRun `json:"run"`
	Skipped int              `json:"skipped"` // rows dropped for having no contact info
}

// ServeImport handles POST /users/import: a multipart form with a "file"
// part (CSV or XLSX) and a "role" value applied to the whole batch.
func (h *Handler) ServeImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(spreadsheet.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	role := normalize.Role(r.FormValue("role"))
	if role == "" {
		role = models.RoleVisitor
	}
	if !models.ValidRole(role) {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, `missing "file" upload`)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, spreadsheet.MaxUploadSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}
	if int64(len(data)) > spreadsheet.MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return
	}

	sheet, err := spreadsheet.Parse(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	colmap, err := importer.ResolveColumns(sheet.Headers)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, skipped, err := importer.NormalizeRows(sheet, colmap, h.DefaultCountryCode)
	if err != nil {
		if errors.Is(err, importer.ErrNoValidRows) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("normalize rows failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "bulk user import")
	defer cancel()

	run, err := h.Importer.Run(ctx, records, role)
	if err != nil {
		// The run itself finished; only the report insert failed. Return
		// the in-memory report so the admin still sees the outcome.
		h.Log.Error("import run report not persisted", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, importResponse{Run: run, Skipped: skipped})
}
