// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accountsfeature "github.com/zonehq/chapteradmin/internal/app/features/accounts"
	chaptersfeature "github.com/zonehq/chapteradmin/internal/app/features/chapters"
	eventsfeature "github.com/zonehq/chapteradmin/internal/app/features/events"
	healthfeature "github.com/zonehq/chapteradmin/internal/app/features/health"
	oppsfeature "github.com/zonehq/chapteradmin/internal/app/features/opportunities"
	subadminsfeature "github.com/zonehq/chapteradmin/internal/app/features/subadmins"
	webhooksfeature "github.com/zonehq/chapteradmin/internal/app/features/webhooks"
	chapterstore "github.com/zonehq/chapteradmin/internal/app/store/chapters"
	eventstore "github.com/zonehq/chapteradmin/internal/app/store/events"
	mirrorstore "github.com/zonehq/chapteradmin/internal/app/store/mirroredevents"
	oppstore "github.com/zonehq/chapteradmin/internal/app/store/opportunities"
	userstore "github.com/zonehq/chapteradmin/internal/app/store/users"
	"github.com/zonehq/chapteradmin/internal/app/system/auth"
	"github.com/zonehq/chapteradmin/internal/app/system/imagestore"
	"github.com/zonehq/chapteradmin/internal/app/system/portalsync"
	"github.com/zonehq/chapteradmin/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It wires the session middleware, the
// rate limiter, the image store, the portal synchronizer, and mounts the
// feature routers:
//
//	/auth      signup/login/profile/logout (rate limited)
//	/sa        admin surface (rate limited); session required except on
//	           the portal-driven enrollment routes
//	/webhooks  inbound pushes from the membership portal
//	/health    liveness probe
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Role changes, permission edits, and deactivation take
	// effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	images, err := imagestore.NewLocalStore(appCfg.ImageDir, appCfg.ImageBaseURL, logger)
	if err != nil {
		logger.Error("image store init failed", zap.Error(err))
		return nil, err
	}

	sync := portalsync.New(appCfg.PortalBaseURL, logger)
	limiter := ratelimit.New(appCfg.RateLimit, appCfg.RateLimitWindow)

	users := userstore.New(deps.MongoDatabase)
	chapters := chapterstore.New(deps.MongoDatabase)
	events := eventstore.New(deps.MongoDatabase)
	opps := oppstore.New(deps.MongoDatabase)
	mirror := mirrorstore.New(deps.MongoDatabase)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded images served from local disk
	r.Handle(appCfg.ImageBaseURL+"/*", fileserver.Handler(appCfg.ImageBaseURL, appCfg.ImageDir))

	// Authentication
	accountsHandler := accountsfeature.NewHandler(users, sessionMgr, logger)
	r.With(limiter.Middleware).Mount("/auth", accountsfeature.Routes(accountsHandler))

	// Admin surface. Enrollment and interest routes are driven by the
	// membership portal, which holds no admin session, so they sit
	// outside the session gate; everything else requires a signed-in
	// admin, and individual routes add their own feature gates.
	subadminsHandler := subadminsfeature.NewHandler(users, logger)
	chaptersHandler := chaptersfeature.NewHandler(chapters, images, sync, logger)
	eventsHandler := eventsfeature.NewHandler(events, chapters, images, sync, logger)
	oppsHandler := oppsfeature.NewHandler(opps, images, sync, logger)

	r.Route("/sa", func(sa chi.Router) {
		sa.Use(limiter.Middleware)

		chaptersfeature.RegisterPortal(sa, chaptersHandler)
		eventsfeature.RegisterPortal(sa, eventsHandler)
		oppsfeature.RegisterPortal(sa, oppsHandler)

		sa.Group(func(admin chi.Router) {
			admin.Use(sessionMgr.RequireSignedIn)

			subadminsfeature.Register(admin, subadminsHandler)
			chaptersfeature.Register(admin, chaptersHandler)
			eventsfeature.Register(admin, eventsHandler)
			oppsfeature.Register(admin, oppsHandler)
		})
	})

	// Inbound webhooks from the membership portal (unauthenticated)
	webhooksHandler := webhooksfeature.NewHandler(mirror, logger)
	r.Mount("/webhooks", webhooksfeature.Routes(webhooksHandler))

	return r, nil
}
