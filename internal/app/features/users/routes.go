// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns the user management subrouter; mounted under /users and
// gated behind the admin role by the caller.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Post("/import", h.ServeImport)
	r.Get("/{id}", h.ServeGet)
	r.Patch("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	r.Post("/{id}/resend-invite", h.ServeResendInvite)
	r.Post("/{id}/reset-password", h.ServeResetPassword)
	return r
}
