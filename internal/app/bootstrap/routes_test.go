// internal/app/bootstrap/routes_test.go
package bootstrap

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/zonehq/chapteradmin/internal/testutil"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	db := testutil.SetupTestDB(t)

	coreCfg := &config.CoreConfig{Env: "dev"}
	appCfg := AppConfig{
		SessionKey:      "0123456789abcdef0123456789abcdef",
		SessionName:     "test-session",
		PortalBaseURL:   "http://portal.invalid",
		ImageDir:        t.TempDir(),
		ImageBaseURL:    "/files/images",
		RateLimit:       1000,
		RateLimitWindow: time.Minute,
	}

	h, err := BuildHandler(coreCfg, appCfg, DBDeps{MongoClient: db.Client(), MongoDatabase: db}, zap.NewNop())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	return h
}

// The membership portal delivers enrollments and interest notifications
// without an admin session cookie. These routes must reach their
// handlers: a 404 for an unknown id proves the handler ran, while a 401
// would mean the session gate swallowed the delivery.
func TestPortalEnrollmentRoutesSkipSessionGate(t *testing.T) {
	h := newTestHandler(t)

	enrollBody := `{"memberId":"m1","name":"Alice","email":"alice@example.org"}`
	cases := []struct {
		name    string
		target  string
		body    string
		wantMsg string
	}{
		{
			name:    "chapter enroll",
			target:  "/sa/chapters/" + primitive.NewObjectID().Hex() + "/enrollMember",
			body:    enrollBody,
			wantMsg: "Chapter not found.",
		},
		{
			name:    "event enroll",
			target:  "/sa/events/" + primitive.NewObjectID().Hex() + "/enrollMember",
			body:    enrollBody,
			wantMsg: "Event not found.",
		},
		{
			name:   "opportunity interest",
			target: "/sa/webhook/opportunity-enroll",
			body: `{"oppId":"` + primitive.NewObjectID().Hex() +
				`","memberId":"m1","name":"Alice","email":"alice@example.org"}`,
			wantMsg: "Opportunity not found.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(http.MethodPost, tc.target, tc.body)
			rec := testutil.NewRecorder()
			h.ServeHTTP(rec, req)

			rec.AssertStatus(t, http.StatusNotFound)
			rec.AssertContains(t, tc.wantMsg)
		})
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	h := newTestHandler(t)

	targets := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/sa/get-chapter"},
		{http.MethodGet, "/sa/get-event"},
		{http.MethodGet, "/sa/get-opp"},
		{http.MethodGet, "/sa/get-subadmin"},
	}

	for _, tc := range targets {
		req := testutil.NewRequest(tc.method, tc.target)
		rec := testutil.NewRecorder()
		h.ServeHTTP(rec, req)

		rec.AssertStatus(t, http.StatusUnauthorized)
		rec.AssertContains(t, "Not authenticated")
	}
}
