// internal/app/features/webhooks/routes.go
package webhooks

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /webhooks.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/events/receive", h.HandleReceiveEvent)
	return r
}
