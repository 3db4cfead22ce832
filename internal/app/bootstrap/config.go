// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for StudyHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_mode, etc.
//   - Environment variables: STUDYHUB_MONGO_URI, STUDYHUB_AUTH_MODE, etc.
//   - Command-line flags: --mongo_uri, --auth_mode, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: BackendMongo, Desc: "Store backend: 'mongo' or 'memory'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "study_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "schedule_time_zone", Default: "UTC", Desc: "IANA time zone for group schedules and session times"},

	// Identity provider
	{Name: "auth_mode", Default: AuthHS256, Desc: "Bearer token verification: 'hs256' or 'oidc'"},
	{Name: "jwt_secret", Default: "", Desc: "HS256 shared secret (auth_mode=hs256)"},
	{Name: "oidc_issuer_url", Default: "", Desc: "OIDC issuer URL (auth_mode=oidc)"},
	{Name: "oidc_audience", Default: "", Desc: "Expected token audience / client ID"},
	{Name: "oidc_jwks_url", Default: "", Desc: "JWKS URL; skips OIDC discovery when set"},

	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated origins allowed to call the API"},

	// Membership
	{Name: "membership_rate_per_minute", Default: 30, Desc: "Join/leave requests per user per minute"},
	{Name: "membership_rate_burst", Default: 5, Desc: "Join/leave burst per user"},
	{Name: "ledger_max_attempts", Default: 5, Desc: "Conditional-write attempts per join/leave before reporting a retryable failure"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-group reads and membership writes"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for catalog lists and group views"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for deleting a group with its sessions"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STUDYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend:     strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		ScheduleTimeZone: appValues.String("schedule_time_zone"),

		AuthMode:      strings.ToLower(strings.TrimSpace(appValues.String("auth_mode"))),
		JWTSecret:     appValues.String("jwt_secret"),
		OIDCIssuerURL: appValues.String("oidc_issuer_url"),
		OIDCAudience:  appValues.String("oidc_audience"),
		OIDCJWKSURL:   appValues.String("oidc_jwks_url"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		MembershipRatePerMinute: appValues.Int("membership_rate_per_minute"),
		MembershipRateBurst:     appValues.Int("membership_rate_burst"),
		LedgerMaxAttempts:       appValues.Int("ledger_max_attempts"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}

	// A bad zone is left nil here and reported by ValidateConfig.
	appCfg.ScheduleLocation, _ = scheduleLocation(appCfg)

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	return validateAppConfig(appCfg, logger)
}

func validateAppConfig(appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return fmt.Errorf("mongo_database is required")
		}
	case BackendMemory:
		logger.Warn("using in-memory store; data is lost on restart")
	default:
		return fmt.Errorf("store_backend must be %q or %q, got %q", BackendMongo, BackendMemory, appCfg.StoreBackend)
	}

	if _, err := scheduleLocation(appCfg); err != nil {
		return err
	}

	switch appCfg.AuthMode {
	case AuthHS256:
		if appCfg.JWTSecret == "" {
			return fmt.Errorf("jwt_secret is required when auth_mode is %q", AuthHS256)
		}
		if len(appCfg.JWTSecret) < 32 {
			logger.Warn("jwt_secret is short; 32+ chars recommended",
				zap.Int("length", len(appCfg.JWTSecret)))
		}
	case AuthOIDC:
		if appCfg.OIDCIssuerURL == "" {
			return fmt.Errorf("oidc_issuer_url is required when auth_mode is %q", AuthOIDC)
		}
	default:
		return fmt.Errorf("auth_mode must be %q or %q, got %q", AuthHS256, AuthOIDC, appCfg.AuthMode)
	}

	if appCfg.MembershipRatePerMinute < 1 {
		return fmt.Errorf("membership_rate_per_minute must be at least 1")
	}
	if appCfg.LedgerMaxAttempts < 1 {
		return fmt.Errorf("ledger_max_attempts must be at least 1")
	}
	return nil
}

// scheduleLocation resolves the configured schedule time zone.
func scheduleLocation(appCfg AppConfig) (*time.Location, error) {
	if appCfg.ScheduleLocation != nil {
		return appCfg.ScheduleLocation, nil
	}
	name := strings.TrimSpace(appCfg.ScheduleTimeZone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule_time_zone %q: %w", name, err)
	}
	return loc, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
