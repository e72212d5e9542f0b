// internal/app/features/events/handler.go
package events

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	chapterstore "github.com/zonehq/chapteradmin/internal/app/store/chapters"
	eventstore "github.com/zonehq/chapteradmin/internal/app/store/events"
	"github.com/zonehq/chapteradmin/internal/app/system/htmlsanitize"
	"github.com/zonehq/chapteradmin/internal/app/system/httpjson"
	"github.com/zonehq/chapteradmin/internal/app/system/imagestore"
	"github.com/zonehq/chapteradmin/internal/app/system/inputval"
	"github.com/zonehq/chapteradmin/internal/app/system/portalsync"
	"github.com/zonehq/chapteradmin/internal/app/system/timeouts"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	Events   *eventstore.Store
	Chapters *chapterstore.Store
	Images   imagestore.Store
	Sync     *portalsync.Synchronizer
	Log      *zap.Logger
}

func NewHandler(events *eventstore.Store, chapters *chapterstore.Store, images imagestore.Store, sync *portalsync.Synchronizer, logger *zap.Logger) *Handler {
	return &Handler{
		Events:   events,
		Chapters: chapters,
		Images:   images,
		Sync:     sync,
		Log:      logger,
	}
}

type createInput struct {
	EventName      string `label:"eventName" validate:"required,max=200"`
	EventStartTime string `label:"eventStartTime" validate:"required"`
	EventEndTime   string `label:"eventEndTime" validate:"required"`
	EventDate      string `label:"eventDate" validate:"required"`
	Location       string `label:"location" validate:"required,max=300"`
	Link           string `label:"link" validate:"required,url"`
	Chapter        string `label:"chapter" validate:"required"`
	Description    string `label:"description" validate:"max=5000"`
}

// HandleCreate handles POST /sa/event. Multipart form; the image is
// required. Start and end timestamps are derived by combining the
// eventDate's calendar date with the supplied time-of-day strings in UTC.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpjson.BadRequest(w, "Invalid multipart form")
		return
	}

	in := createInput{
		EventName:      r.FormValue("eventName"),
		EventStartTime: r.FormValue("eventStartTime"),
		EventEndTime:   r.FormValue("eventEndTime"),
		EventDate:      r.FormValue("eventDate"),
		Location:       r.FormValue("location"),
		Link:           r.FormValue("link"),
		Chapter:        r.FormValue("chapter"),
		Description:    r.FormValue("description"),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.BadRequest(w, res.First())
		return
	}

	membershipRequired, _ := strconv.ParseBool(r.FormValue("membershipRequired"))
	slots := 0
	if v := r.FormValue("slots"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httpjson.BadRequest(w, "slots must be a non-negative integer")
			return
		}
		slots = n
	}
	if membershipRequired && slots <= 0 {
		httpjson.BadRequest(w, "slots must be greater than zero when membership is required")
		return
	}

	chapterID, err := primitive.ObjectIDFromHex(in.Chapter)
	if err != nil {
		httpjson.BadRequest(w, "Invalid chapter id")
		return
	}

	eventDate, err := parseEventDate(in.EventDate)
	if err != nil {
		httpjson.BadRequest(w, "eventDate must be a valid date")
		return
	}
	startTime, err := combineDateTime(eventDate, in.EventStartTime)
	if err != nil {
		httpjson.BadRequest(w, "eventStartTime must be a valid time of day")
		return
	}
	endTime, err := combineDateTime(eventDate, in.EventEndTime)
	if err != nil {
		httpjson.BadRequest(w, "eventEndTime must be a valid time of day")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httpjson.BadRequest(w, "Image is required")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	ch, err := h.Chapters.GetByID(ctx, chapterID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "Chapter not found.")
			return
		}
		h.Log.Error("create event: load chapter", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	imageURL, err := h.Images.Save(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, imagestore.ErrUnsupportedType) {
			httpjson.BadRequest(w, err.Error())
			return
		}
		h.Log.Error("create event: image upload", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	ev, err := h.Events.Create(ctx, models.Event{
		EventName:          in.EventName,
		Slots:              slots,
		Link:               in.Link,
		EventStartTime:     startTime,
		EventEndTime:       endTime,
		EventDate:          eventDate,
		Location:           in.Location,
		Description:        htmlsanitize.Sanitize(in.Description),
		MembershipRequired: membershipRequired,
		Image:              imageURL,
		Chapter:            chapterID,
	})
	if err != nil {
		h.Log.Error("create event", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if err := h.Chapters.PushEvent(ctx, chapterID, ev.ID); err != nil {
		h.Log.Error("create event: link to chapter",
			zap.Error(err),
			zap.String("event_id", ev.ID.Hex()),
			zap.String("chapter_id", chapterID.Hex()))
		httpjson.ServerError(w)
		return
	}

	sync := h.Sync.PushEvent(ctx, portalsync.EventPayload{
		HMRSEventID:        ev.ID.Hex(),
		EventName:          ev.EventName,
		Slots:              ev.Slots,
		Link:               ev.Link,
		EventStartTime:     ev.EventStartTime,
		EventEndTime:       ev.EventEndTime,
		EventDate:          ev.EventDate,
		Location:           ev.Location,
		Description:        ev.Description,
		MembershipRequired: ev.MembershipRequired,
		Image:              ev.Image,
		Chapter: models.ChapterSummary{
			ID:   ch.ID.Hex(),
			Name: ch.ChapterName,
		},
	})

	httpjson.Created(w, map[string]any{
		"event":      ev,
		"syncStatus": sync.Status(),
	})
}

// HandleList handles GET /sa/get-event.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		h.Log.Error("list events", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]any{"events": events})
}

// HandleDelete handles POST /sa/delEvent/{eventId}. The event id is also
// pulled out of the owning chapter's events list.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventId"))
	if err != nil {
		httpjson.BadRequest(w, "Invalid event id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "Event not found.")
			return
		}
		h.Log.Error("delete event: load", zap.Error(err), zap.String("event_id", id.Hex()))
		httpjson.ServerError(w)
		return
	}

	if _, err := h.Events.Delete(ctx, id); err != nil {
		h.Log.Error("delete event", zap.Error(err), zap.String("event_id", id.Hex()))
		httpjson.ServerError(w)
		return
	}

	if err := h.Chapters.PullEvent(ctx, ev.Chapter, id); err != nil {
		h.Log.Error("delete event: unlink from chapter",
			zap.Error(err),
			zap.String("event_id", id.Hex()),
			zap.String("chapter_id", ev.Chapter.Hex()))
	}

	sync := h.Sync.DeleteEvent(ctx, id.Hex(), ev.Chapter.Hex())

	httpjson.OK(w, map[string]any{
		"message":    "Event deleted",
		"syncStatus": sync.Status(),
	})
}

type enrollInput struct {
	MemberID string `json:"memberId" label:"memberId" validate:"required"`
	Name     string `json:"name" label:"name" validate:"required,max=200"`
	Email    string `json:"email" label:"email" validate:"required,email"`
	Phone    string `json:"phone" label:"phone" validate:"max=40"`
}

// HandleEnrollMember handles POST /sa/events/{eventId}/enrollMember.
// Unlike chapter enrollment, enrolling twice is a conflict, and
// membership-required events enforce the slot cap.
func (h *Handler) HandleEnrollMember(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventId"))
	if err != nil {
		httpjson.BadRequest(w, "Invalid event id")
		return
	}

	var in enrollInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.BadRequest(w, "Invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.BadRequest(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Events.Enroll(ctx, id, models.EventMember{
		MemberID: in.MemberID,
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.NotFound(w, "Event not found.")
		case errors.Is(err, eventstore.ErrAlreadyEnrolled):
			httpjson.Conflict(w, "Member already enrolled in this event")
		case errors.Is(err, eventstore.ErrNoSlots):
			httpjson.BadRequest(w, "No available slots")
		default:
			h.Log.Error("enroll event member", zap.Error(err), zap.String("event_id", id.Hex()))
			httpjson.ServerError(w)
		}
		return
	}

	httpjson.OK(w, map[string]string{"message": "Member enrolled in event"})
}
