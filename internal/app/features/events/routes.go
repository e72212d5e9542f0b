// internal/app/features/events/routes.go
package events

import (
	"github.com/go-chi/chi/v5"

	"github.com/zonehq/chapteradmin/internal/app/system/authz"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

// Register adds the event routes to the authenticated admin router.
func Register(r chi.Router, h *Handler) {
	r.With(authz.RequireFeature(models.FeatureAddEvent)).Post("/event", h.HandleCreate)
	r.Get("/get-event", h.HandleList)
	r.Post("/delEvent/{eventId}", h.HandleDelete)
}

// RegisterPortal adds the enrollment route the membership portal calls
// when a member signs up for an event. The portal holds no admin
// session, so this route stays outside the session gate.
func RegisterPortal(r chi.Router, h *Handler) {
	r.Post("/events/{eventId}/enrollMember", h.HandleEnrollMember)
}
