// internal/app/features/chapters/handler.go
package chapters

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	chapterstore "github.com/zonehq/chapteradmin/internal/app/store/chapters"
	"github.com/zonehq/chapteradmin/internal/app/system/htmlsanitize"
	"github.com/zonehq/chapteradmin/internal/app/system/httpjson"
	"github.com/zonehq/chapteradmin/internal/app/system/imagestore"
	"github.com/zonehq/chapteradmin/internal/app/system/inputval"
	"github.com/zonehq/chapteradmin/internal/app/system/portalsync"
	"github.com/zonehq/chapteradmin/internal/app/system/timeouts"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

// maxUploadBytes bounds the multipart form size for image uploads.
const maxUploadBytes = 10 << 20

type Handler struct {
	Chapters *chapterstore.Store
	Images   imagestore.Store
	Sync     *portalsync.Synchronizer
	Log      *zap.Logger
}

func NewHandler(chapters *chapterstore.Store, images imagestore.Store, sync *portalsync.Synchronizer, logger *zap.Logger) *Handler {
	return &Handler{
		Chapters: chapters,
		Images:   images,
		Sync:     sync,
		Log:      logger,
	}
}

type createInput struct {
	ChapterName     string `label:"chapterName" validate:"required,max=200"`
	Zone            string `label:"zone" validate:"required,max=100"`
	ChapterLeadName string `label:"chapterLeadName" validate:"required,max=200"`
	Description     string `label:"description" validate:"max=5000"`
}

// HandleCreate handles POST /sa/chapter. Multipart form with an optional
// "image" file; the image is uploaded first so a failed upload never
// leaves a chapter without its URL.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpjson.BadRequest(w, "Invalid multipart form")
		return
	}

	in := createInput{
		ChapterName:     r.FormValue("chapterName"),
		Zone:            r.FormValue("zone"),
		ChapterLeadName: r.FormValue("chapterLeadName"),
		Description:     r.FormValue("description"),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.BadRequest(w, res.First())
		return
	}

	imageURL := ""
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		imageURL, err = h.Images.Save(r.Context(), header.Filename, file)
		if err != nil {
			if errors.Is(err, imagestore.ErrUnsupportedType) {
				httpjson.BadRequest(w, err.Error())
				return
			}
			h.Log.Error("create chapter: image upload", zap.Error(err))
			httpjson.ServerError(w)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ch, err := h.Chapters.Create(ctx, models.Chapter{
		ChapterName:     in.ChapterName,
		Zone:            in.Zone,
		Description:     htmlsanitize.Sanitize(in.Description),
		ChapterLeadName: in.ChapterLeadName,
		Image:           imageURL,
	})
	if err != nil {
		h.Log.Error("create chapter", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	sync := h.Sync.PushChapter(ctx, portalsync.ChapterPayload{
		HMRSChapterID:   ch.ID.Hex(),
		ChapterName:     ch.ChapterName,
		Zone:            ch.Zone,
		Description:     ch.Description,
		ChapterLeadName: ch.ChapterLeadName,
		Image:           ch.Image,
	})

	httpjson.Created(w, map[string]any{
		"chapter":    ch,
		"syncStatus": sync.Status(),
	})
}

// HandleList handles GET /sa/get-chapter.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	chapters, err := h.Chapters.List(ctx)
	if err != nil {
		h.Log.Error("list chapters", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]any{"chapters": chapters})
}

// HandleDelete handles POST /sa/delChap/{chapterId}. Referenced events
// are intentionally left behind; deletion does not cascade.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "chapterId"))
	if err != nil {
		httpjson.BadRequest(w, "Invalid chapter id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := h.Chapters.Delete(ctx, id)
	if err != nil {
		h.Log.Error("delete chapter", zap.Error(err), zap.String("chapter_id", id.Hex()))
		httpjson.ServerError(w)
		return
	}
	if deleted == 0 {
		httpjson.NotFound(w, "Chapter not found.")
		return
	}

	sync := h.Sync.DeleteChapter(ctx, id.Hex())

	httpjson.OK(w, map[string]any{
		"message":    "Chapter deleted",
		"syncStatus": sync.Status(),
	})
}

type enrollInput struct {
	MemberID string `json:"memberId" label:"memberId" validate:"required"`
	Name     string `json:"name" label:"name" validate:"required,max=200"`
	Email    string `json:"email" label:"email" validate:"required,email"`
	Role     string `json:"role" label:"role" validate:"max=100"`
	Phone    string `json:"phone" label:"phone" validate:"max=40"`
}

// HandleEnrollMember handles POST /sa/chapters/{chapterId}/enrollMember.
// Enrollment has set semantics: re-adding an enrolled member succeeds
// without creating a second entry.
func (h *Handler) HandleEnrollMember(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "chapterId"))
	if err != nil {
		httpjson.BadRequest(w, "Invalid chapter id")
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

	added, err := h.Chapters.AddMember(ctx, id, models.ChapterMember{
		MemberID: in.MemberID,
		Name:     in.Name,
		Email:    in.Email,
		Role:     in.Role,
		Phone:    in.Phone,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "Chapter not found.")
			return
		}
		h.Log.Error("enroll chapter member", zap.Error(err), zap.String("chapter_id", id.Hex()))
		httpjson.ServerError(w)
		return
	}

	msg := "Member enrolled in chapter"
	if !added {
		msg = "Member already enrolled in chapter"
	}
	httpjson.OK(w, map[string]string{"message": msg})
}

type updateRoleInput struct {
	ChapterID string `json:"chapterId" label:"chapterId" validate:"required"`
	MemberID  string `json:"memberId" label:"memberId" validate:"required"`
	Role      string `json:"role" label:"role" validate:"required,max=100"`
}

// HandleUpdateRole handles POST /sa/updaterole. The local mutation and
// the portal push are reported separately: the response always confirms
// the local change and carries syncStatus for the webhook outcome.
func (h *Handler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var in updateRoleInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.BadRequest(w, "Invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.BadRequest(w, res.First())
		return
	}

	id, err := primitive.ObjectIDFromHex(in.ChapterID)
	if err != nil {
		httpjson.BadRequest(w, "Invalid chapter id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Chapters.UpdateMemberRole(ctx, id, in.MemberID, in.Role); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			httpjson.NotFound(w, "Chapter not found.")
		case errors.Is(err, chapterstore.ErrMemberNotFound):
			httpjson.NotFound(w, "Member not found in chapter.")
		default:
			h.Log.Error("update member role", zap.Error(err), zap.String("chapter_id", id.Hex()))
			httpjson.ServerError(w)
		}
		return
	}

	sync := h.Sync.PushMemberRole(ctx, portalsync.RoleChangePayload{
		HMRSChapterID: id.Hex(),
		MemberID:      in.MemberID,
		Role:          in.Role,
	})

	httpjson.OK(w, map[string]any{
		"message":    "Member role updated",
		"syncStatus": sync.Status(),
	})
}
