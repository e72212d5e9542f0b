// internal/app/features/opportunities/handler.go
package opportunities

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	oppstore "github.com/zonehq/chapteradmin/internal/app/store/opportunities"
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
	Opps   *oppstore.Store
	Images imagestore.Store
	Sync   *portalsync.Synchronizer
	Log    *zap.Logger
}

func NewHandler(opps *oppstore.Store, images imagestore.Store, sync *portalsync.Synchronizer, logger *zap.Logger) *Handler {
	return &Handler{
		Opps:   opps,
		Images: images,
		Sync:   sync,
		Log:    logger,
	}
}

type createInput struct {
	OppName     string `label:"oppName" validate:"required,max=200"`
	OppDate     string `label:"oppDate" validate:"required"`
	Location    string `label:"location" validate:"required,max=300"`
	Description string `label:"description" validate:"max=5000"`
}

// HandleCreate handles POST /sa/createOpp. Multipart form; the image is
// required.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpjson.BadRequest(w, "Invalid multipart form")
		return
	}

	in := createInput{
		OppName:     r.FormValue("oppName"),
		OppDate:     r.FormValue("oppDate"),
		Location:    r.FormValue("location"),
		Description: r.FormValue("description"),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.BadRequest(w, res.First())
		return
	}

	oppDate, err := parseOppDate(in.OppDate)
	if err != nil {
		httpjson.BadRequest(w, "oppDate must be a valid date")
		return
	}
	membershipRequired, _ := strconv.ParseBool(r.FormValue("membershipRequired"))

	file, header, err := r.FormFile("image")
	if err != nil {
		httpjson.BadRequest(w, "Image is required")
		return
	}
	defer file.Close()

	imageURL, err := h.Images.Save(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, imagestore.ErrUnsupportedType) {
			httpjson.BadRequest(w, err.Error())
			return
		}
		h.Log.Error("create opportunity: image upload", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	opp, err := h.Opps.Create(ctx, models.Opportunity{
		OppName:            in.OppName,
		OppDate:            oppDate,
		Location:           in.Location,
		Image:              imageURL,
		Description:        htmlsanitize.Sanitize(in.Description),
		MembershipRequired: membershipRequired,
	})
	if err != nil {
		h.Log.Error("create opportunity", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	sync := h.Sync.PushOpportunity(ctx, portalsync.OpportunityPayload{
		HMRSOppID:          opp.ID.Hex(),
		OppName:            opp.OppName,
		OppDate:            opp.OppDate,
		Location:           opp.Location,
		Image:              opp.Image,
		Description:        opp.Description,
		MembershipRequired: opp.MembershipRequired,
	})

	httpjson.Created(w, map[string]any{
		"opportunity": opp,
		"syncStatus":  sync.Status(),
	})
}

// HandleList handles GET /sa/get-opp.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	opps, err := h.Opps.List(ctx)
	if err != nil {
		h.Log.Error("list opportunities", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]any{"opportunities": opps})
}

type enrollInput struct {
	OppID    string `json:"oppId" label:"oppId" validate:"required"`
	MemberID string `json:"memberId" label:"memberId" validate:"required"`
	Name     string `json:"name" label:"name" validate:"required,max=200"`
	Email    string `json:"email" label:"email" validate:"required,email"`
	Phone    string `json:"phone" label:"phone" validate:"max=40"`
}

// HandleEnrollWebhook handles POST /sa/webhook/opportunity-enroll, the
// inbound interest notification from the portal. Duplicate member IDs
// are deduplicated by exact match; a repeat delivery is a no-op.
func (h *Handler) HandleEnrollWebhook(w http.ResponseWriter, r *http.Request) {
	var in enrollInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.BadRequest(w, "Invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.BadRequest(w, res.First())
		return
	}

	id, err := primitive.ObjectIDFromHex(in.OppID)
	if err != nil {
		httpjson.BadRequest(w, "Invalid opportunity id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	added, err := h.Opps.AddInterested(ctx, id, models.InterestedMember{
		MemberID: in.MemberID,
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "Opportunity not found.")
			return
		}
		h.Log.Error("opportunity enroll webhook", zap.Error(err), zap.String("opp_id", id.Hex()))
		httpjson.ServerError(w)
		return
	}

	msg := "Interest recorded"
	if !added {
		msg = "Member already interested"
	}
	httpjson.OK(w, map[string]string{"message": msg})
}

func parseOppDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
