// internal/app/features/subadmins/handler.go
package subadmins

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	userstore "github.com/zonehq/chapteradmin/internal/app/store/users"
	"github.com/zonehq/chapteradmin/internal/app/system/auth"
	"github.com/zonehq/chapteradmin/internal/app/system/authz"
	"github.com/zonehq/chapteradmin/internal/app/system/httpjson"
	"github.com/zonehq/chapteradmin/internal/app/system/inputval"
	"github.com/zonehq/chapteradmin/internal/app/system/timeouts"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type featureGrant struct {
	Feature string `json:"feature" label:"feature" validate:"required,oneof=addChapter addEvent addOpp"`
	Allowed bool   `json:"allowed"`
}

type createInput struct {
	Name            string         `json:"name" label:"name" validate:"required,max=200"`
	Email           string         `json:"email" label:"email" validate:"required,email"`
	Username        string         `json:"username" label:"username" validate:"required,max=100"`
	Password        string         `json:"password" label:"password" validate:"required,min=8,max=128"`
	AllowedFeatures []featureGrant `json:"allowedFeatures" label:"allowedFeatures" validate:"dive"`
}

type subAdminView struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	Email           string                     `json:"email"`
	Username        string                     `json:"username"`
	AllowedFeatures []models.FeaturePermission `json:"allowedFeatures"`
	IsActive        bool                       `json:"isActive"`
}

// HandleCreate handles POST /sa/sub-admin. The route itself only requires
// authentication; the superadmin requirement is re-checked here.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !authz.IsSuperAdmin(r) {
		httpjson.Forbidden(w, "Only superadmins can create sub-admins")
		return
	}
	caller, _ := auth.CurrentUser(r)

	var in createInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.BadRequest(w, "Invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.BadRequest(w, res.First())
		return
	}

	callerID, err := primitive.ObjectIDFromHex(caller.ID)
	if err != nil {
		h.Log.Error("create sub-admin: bad caller id", zap.String("caller_id", caller.ID))
		httpjson.ServerError(w)
		return
	}

	features := make([]models.FeaturePermission, 0, len(in.AllowedFeatures))
	for _, g := range in.AllowedFeatures {
		features = append(features, models.FeaturePermission{Feature: g.Feature, Allowed: g.Allowed})
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:            in.Name,
		Email:           in.Email,
		Username:        in.Username,
		Role:            models.RoleSubAdmin,
		CreatedBy:       &callerID,
		AllowedFeatures: features,
	}, in.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicate) {
			httpjson.BadRequest(w, "A user with this email or username already exists")
			return
		}
		h.Log.Error("create sub-admin", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("sub-admin created",
		zap.String("user_id", u.ID.Hex()),
		zap.String("created_by", caller.ID))
	httpjson.Created(w, map[string]any{"user": subAdminView{
		ID:              u.ID.Hex(),
		Name:            u.Name,
		Email:           u.Email,
		Username:        u.Username,
		AllowedFeatures: u.AllowedFeatures,
		IsActive:        u.IsActive,
	}})
}

// HandleList handles GET /sa/get-subadmin.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !authz.IsSuperAdmin(r) {
		httpjson.Forbidden(w, "Only superadmins can list sub-admins")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users, err := h.Users.ListSubAdmins(ctx)
	if err != nil {
		h.Log.Error("list sub-admins", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	out := make([]subAdminView, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, subAdminView{
			ID:              u.ID.Hex(),
			Name:            u.Name,
			Email:           u.Email,
			Username:        u.Username,
			AllowedFeatures: u.AllowedFeatures,
			IsActive:        u.IsActive,
		})
	}
	httpjson.OK(w, map[string]any{"subAdmins": out})
}
