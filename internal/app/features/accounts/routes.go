// internal/app/features/accounts/routes.go
package accounts

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
	r.With(h.SessionMgr.RequireSignedIn).Get("/profile", h.HandleProfile)
	r.Post("/logout", h.HandleLogout)
	return r
}
