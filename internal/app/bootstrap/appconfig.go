// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: WAFFLE's CoreConfig handles
// framework-level settings like HTTP ports, TLS, and logging.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Bearer token configuration
	TokenSecret string        // HS256 signing secret (must be strong in production)
	TokenTTL    time.Duration // Token lifetime (default 720h = 30 days)

	// Cloudinary (video host) configuration. All three must be set for
	// uploads to work; otherwise uploads fail with cloudinary_not_configured.
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	UploadTimeout       time.Duration // Bound on one video-host round-trip

	// CORS: comma-separated list of allowed origins ("*" for any).
	CORSAllowedOrigins string

	// PingMessage is what GET /api/ping answers with.
	PingMessage string

	// AllowDemo mounts the sample-data endpoints. Never enable in production.
	AllowDemo bool
}
