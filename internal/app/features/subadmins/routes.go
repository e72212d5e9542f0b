// internal/app/features/subadmins/routes.go
package subadmins

import "github.com/go-chi/chi/v5"

// Register adds the sub-admin routes to the authenticated admin router.
// Both handlers re-check the superadmin role themselves.
func Register(r chi.Router, h *Handler) {
	r.Post("/sub-admin", h.HandleCreate)
	r.Get("/get-subadmin", h.HandleList)
}
