// internal/app/features/chapters/routes.go
package chapters

import (
	"github.com/go-chi/chi/v5"

	"github.com/zonehq/chapteradmin/internal/app/system/authz"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

// Register adds the chapter routes to the authenticated admin router.
// Only chapter creation is behind the addChapter feature gate; the rest
// is open to any authenticated admin.
func Register(r chi.Router, h *Handler) {
	r.With(authz.RequireFeature(models.FeatureAddChapter)).Post("/chapter", h.HandleCreate)
	r.Get("/get-chapter", h.HandleList)
	r.Post("/delChap/{chapterId}", h.HandleDelete)
	r.Post("/updaterole", h.HandleUpdateRole)
}

// RegisterPortal adds the enrollment route the membership portal calls
// when a member joins a chapter. The portal holds no admin session, so
// this route stays outside the session gate.
func RegisterPortal(r chi.Router, h *Handler) {
	r.Post("/chapters/{chapterId}/enrollMember", h.HandleEnrollMember)
}
