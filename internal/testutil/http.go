package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zonehq/chapteradmin/internal/app/system/auth"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID              string
	Name            string
	Email           string
	Username        string
	Role            string
	AllowedFeatures []models.FeaturePermission
}

// SuperAdminUser returns a TestUser with the superadmin role.
func SuperAdminUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Name:     "Test SuperAdmin",
		Email:    "superadmin@test.com",
		Username: "superadmin",
		Role:     models.RoleSuperAdmin,
	}
}

// SubAdminUser returns a TestUser with the subadmin role and the given
// features allowed.
func SubAdminUser(features ...string) TestUser {
	grants := make([]models.FeaturePermission, 0, len(features))
	for _, f := range features {
		grants = append(grants, models.FeaturePermission{Feature: f, Allowed: true})
	}
	return TestUser{
		ID:              primitive.NewObjectID().Hex(),
		Name:            "Test SubAdmin",
		Email:           "subadmin@test.com",
		Username:        "subadmin",
		Role:            models.RoleSubAdmin,
		AllowedFeatures: grants,
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Username:        user.Username,
		Role:            user.Role,
		AllowedFeatures: user.AllowedFeatures,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request with a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q (body: %s)", expected, r.Body.String())
	}
}
