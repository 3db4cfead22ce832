// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Store backends.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Auth modes.
const (
	AuthHS256 = "hs256"
	AuthOIDC  = "oidc"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration (ports, TLS, log level).
type AppConfig struct {
	// Store
	StoreBackend     string // "mongo" or "memory"
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Scheduling
	ScheduleTimeZone string         // IANA zone group schedules and session times are read in
	ScheduleLocation *time.Location // resolved from ScheduleTimeZone by LoadConfig

	// Identity provider
	AuthMode      string // "hs256" or "oidc"
	JWTSecret     string // shared secret for hs256
	OIDCIssuerURL string
	OIDCAudience  string
	OIDCJWKSURL   string // optional; skips discovery when set

	// HTTP
	CORSAllowedOrigins []string

	// Membership
	MembershipRatePerMinute int // sustained join/leave requests per user
	MembershipRateBurst     int
	LedgerMaxAttempts       int // conditional-write attempts per join/leave

	// Timeout overrides; zero keeps the default.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
