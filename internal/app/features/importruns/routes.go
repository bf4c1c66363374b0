// internal/app/features/importruns/routes.go
package importruns

import "github.com/go-chi/chi/v5"

// Routes returns the import-run audit subrouter; admin-gated by the caller.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{run_id}", h.ServeGet)
	return r
}
