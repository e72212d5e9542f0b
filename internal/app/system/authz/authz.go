// internal/app/system/authz/authz.go

// Package authz holds the capability check gating mutation endpoints and
// the feature-gate middleware built on it.
package authz

import (
	"net/http"

	"github.com/zonehq/chapteradmin/internal/app/system/auth"
	"github.com/zonehq/chapteradmin/internal/app/system/httpjson"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

// CanPerform reports whether an account with the given role and feature
// grants may use the named feature.
//
// Superadmins pass every check. Subadmins pass iff the feature list carries
// a matching entry with allowed=true. An empty feature name means "any
// authenticated admin": used for routes whose handler re-checks the role
// itself (e.g. subadmin creation).
func CanPerform(role string, features []models.FeaturePermission, feature string) bool {
	switch role {
	case models.RoleSuperAdmin:
		return true
	case models.RoleSubAdmin:
		if feature == "" {
			return true
		}
		for _, f := range features {
			if f.Feature == feature && f.Allowed {
				return true
			}
		}
	}
	return false
}

// IsSuperAdmin reports whether the current request's user is a superadmin.
func IsSuperAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.Role == models.RoleSuperAdmin
}

// RequireFeature gates a route on CanPerform. Unauthenticated requests get
// 401; authenticated ones without the grant get 403.
func RequireFeature(feature string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.CurrentUser(r)
			if !ok {
				httpjson.Unauthorized(w, "Not authenticated")
				return
			}
			if !CanPerform(u.Role, u.AllowedFeatures, feature) {
				httpjson.Forbidden(w, "Access denied for this feature")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
