// internal/app/features/webhooks/handler.go

// Package webhooks receives inbound pushes from the membership portal.
// These routes are unauthenticated; the portal has no admin session.
package webhooks

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	mirrorstore "github.com/zonehq/chapteradmin/internal/app/store/mirroredevents"
	"github.com/zonehq/chapteradmin/internal/app/system/httpjson"
	"github.com/zonehq/chapteradmin/internal/app/system/timeouts"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

type Handler struct {
	Mirror *mirrorstore.Store
	Log    *zap.Logger
}

func NewHandler(mirror *mirrorstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Mirror: mirror, Log: logger}
}

type eventPayload struct {
	EventID            string                 `json:"eventId"`
	EventName          string                 `json:"eventName"`
	EventStartTime     time.Time              `json:"eventStartTime"`
	EventEndTime       time.Time              `json:"eventEndTime"`
	EventDate          time.Time              `json:"eventDate"`
	Location           string                 `json:"location"`
	Description        string                 `json:"description"`
	MembershipRequired bool                   `json:"membershipRequired"`
	Chapter            *models.ChapterSummary `json:"chapter"`
}

// HandleReceiveEvent handles POST /webhooks/events/receive. Deliveries
// are upserted last-write-wins by the portal's event ID, so repeats and
// out-of-order redeliveries converge without creating duplicates.
func (h *Handler) HandleReceiveEvent(w http.ResponseWriter, r *http.Request) {
	var in eventPayload
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.BadRequest(w, "Invalid request body")
		return
	}
	if in.EventID == "" {
		httpjson.BadRequest(w, "eventId is required")
		return
	}
	if in.EventName == "" {
		httpjson.BadRequest(w, "eventName is required")
		return
	}
	if in.EventDate.IsZero() {
		httpjson.BadRequest(w, "eventDate is required")
		return
	}
	if in.Chapter == nil {
		httpjson.BadRequest(w, "chapter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Mirror.Upsert(ctx, models.MirroredEvent{
		EventID:            in.EventID,
		EventName:          in.EventName,
		EventStartTime:     in.EventStartTime,
		EventEndTime:       in.EventEndTime,
		EventDate:          in.EventDate,
		Location:           in.Location,
		Description:        in.Description,
		MembershipRequired: in.MembershipRequired,
		Chapter:            *in.Chapter,
	})
	if err != nil {
		h.Log.Error("receive event webhook", zap.Error(err), zap.String("event_id", in.EventID))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("mirrored portal event",
		zap.String("event_id", in.EventID),
		zap.String("event_name", in.EventName))
	httpjson.OK(w, map[string]string{"message": "Event received"})
}
