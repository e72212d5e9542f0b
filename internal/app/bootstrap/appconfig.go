// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging, CORS, body limits). AppConfig is everything specific to the
// chapter admin backend: the database, session cookies, the membership
// portal endpoint, and image storage.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions
	SessionDomain string // Cookie domain (blank means current host)

	// Membership portal webhook target
	PortalBaseURL string // Base URL of the portal (e.g., "https://portal.example.org")

	// Image storage
	ImageDir     string // Local directory uploaded images are written to
	ImageBaseURL string // URL prefix the images are served under (e.g., "/files/images")

	// Rate limiting for the /auth and /sa route groups
	RateLimit       int           // Max requests per window per client IP
	RateLimitWindow time.Duration // Window duration
}
