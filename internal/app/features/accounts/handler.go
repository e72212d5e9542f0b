// internal/app/features/accounts/handler.go
package accounts

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/zonehq/chapteradmin/internal/app/store/users"
	"github.com/zonehq/chapteradmin/internal/app/system/auth"
	"github.com/zonehq/chapteradmin/internal/app/system/httpjson"
	"github.com/zonehq/chapteradmin/internal/app/system/inputval"
	"github.com/zonehq/chapteradmin/internal/app/system/timeouts"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Log:        logger,
	}
}

// userSummary is the sanitized user shape returned to clients. The
// password hash never leaves the store layer.
type userSummary struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	Email           string                     `json:"email"`
	Username        string                     `json:"username"`
	Role            string                     `json:"role"`
	AllowedFeatures []models.FeaturePermission `json:"allowedFeatures"`
}

func summarize(u *models.User) userSummary {
	return userSummary{
		ID:              u.ID.Hex(),
		Name:            u.Name,
		Email:           u.Email,
		Username:        u.Username,
		Role:            u.Role,
		AllowedFeatures: u.AllowedFeatures,
	}
}

type signupInput struct {
	Name     string `json:"name" label:"name" validate:"required,max=200"`
	Email    string `json:"email" label:"email" validate:"required,email"`
	Username string `json:"username" label:"username" validate:"required,max=100"`
	Password string `json:"password" label:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" label:"role" validate:"required"`
}

// HandleSignup handles POST /auth/signup.
//
// Self-signup is restricted to the superadmin role; subadmin accounts are
// only created by an authenticated superadmin via /sa/sub-admin.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in signupInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.BadRequest(w, "Invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		httpjson.BadRequest(w, res.First())
		return
	}
	if in.Role != models.RoleSuperAdmin {
		httpjson.BadRequest(w, "Signup is only available for the superadmin role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:     in.Name,
		Email:    in.Email,
		Username: in.Username,
		Role:     models.RoleSuperAdmin,
	}, in.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicate) {
			httpjson.BadRequest(w, "A user with this email or username already exists")
			return
		}
		h.Log.Error("signup: create user", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("superadmin signed up",
		zap.String("user_id", u.ID.Hex()),
		zap.String("username", u.Username))
	httpjson.Created(w, map[string]any{"user": summarize(&u)})
}

type loginInput struct {
	Username string `json:"username" label:"username" validate:"required"`
	Password string `json:"password" label:"password" validate:"required"`
}

// HandleLogin handles POST /auth/login. A successful login sets the
// httpOnly session cookie with a one-day lifetime.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
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

	u, err := h.Users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Unauthorized(w, "Invalid username or password")
			return
		}
		h.Log.Error("login: lookup user", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if !u.IsActive {
		httpjson.Unauthorized(w, "Account is disabled")
		return
	}
	if !userstore.CheckPassword(u, in.Password) {
		httpjson.Unauthorized(w, "Invalid username or password")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("login: save session", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("user logged in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))
	httpjson.OK(w, map[string]any{"user": summarize(u)})
}

// HandleProfile handles GET /auth/profile.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Unauthorized(w, "Not authenticated")
		return
	}
	httpjson.OK(w, map[string]any{"user": userSummary{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Username:        u.Username,
		Role:            u.Role,
		AllowedFeatures: u.AllowedFeatures,
	}})
}

// HandleLogout handles POST /auth/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: clear session", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]string{"message": "Logged out"})
}
