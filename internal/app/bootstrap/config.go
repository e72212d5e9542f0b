// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the chapter admin
// backend. These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CHAPTERADMIN_MONGO_URI, CHAPTERADMIN_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "chapter_admin", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "chapteradmin-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Membership portal
	{Name: "portal_base_url", Default: "http://localhost:4000", Desc: "Base URL of the membership portal webhook receiver"},

	// Image storage
	{Name: "image_dir", Default: "./uploads/images", Desc: "Local directory for uploaded images"},
	{Name: "image_base_url", Default: "/files/images", Desc: "URL prefix images are served under"},

	// Rate limiting
	{Name: "rate_limit", Default: 95, Desc: "Max requests per window per client IP on /auth and /sa"},
	{Name: "rate_limit_window", Default: "15m", Desc: "Rate limit window duration (e.g., 15m, 1h)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles loading from .env files,
// config files, environment variables (WAFFLE_* for core, CHAPTERADMIN_*
// for app), and command-line flags, merged with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CHAPTERADMIN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		PortalBaseURL: appValues.String("portal_base_url"),

		ImageDir:     appValues.String("image_dir"),
		ImageBaseURL: appValues.String("image_base_url"),

		RateLimit:       appValues.Int("rate_limit"),
		RateLimitWindow: appValues.Duration("rate_limit_window", 15*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation. It catches
// malformed connection strings and portal URLs before anything tries to
// use them.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.PortalBaseURL == "" {
		return fmt.Errorf("portal_base_url must be set")
	}
	if u, err := url.Parse(appCfg.PortalBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("portal_base_url %q is not an absolute URL", appCfg.PortalBaseURL)
	}

	if appCfg.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be positive")
	}

	return nil
}
