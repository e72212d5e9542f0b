// internal/app/features/opportunities/routes.go
package opportunities

import (
	"github.com/go-chi/chi/v5"

	"github.com/zonehq/chapteradmin/internal/app/system/authz"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

// Register adds the opportunity routes to the authenticated admin router.
func Register(r chi.Router, h *Handler) {
	r.With(authz.RequireFeature(models.FeatureAddOpp)).Post("/createOpp", h.HandleCreate)
	r.Get("/get-opp", h.HandleList)
}

// RegisterPortal adds the inbound enrollment webhook. The membership
// portal holds no admin session, so this route stays outside the
// session gate.
func RegisterPortal(r chi.Router, h *Handler) {
	r.Post("/webhook/opportunity-enroll", h.HandleEnrollWebhook)
}
