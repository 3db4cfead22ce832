package bootstrap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validMemoryConfig() AppConfig {
	return AppConfig{
		StoreBackend:            BackendMemory,
		ScheduleTimeZone:        "UTC",
		AuthMode:                AuthHS256,
		JWTSecret:               "0123456789abcdef0123456789abcdef",
		MembershipRatePerMinute: 30,
		MembershipRateBurst:     5,
		LedgerMaxAttempts:       5,
	}
}

func TestValidateAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "memory ok", mutate: func(*AppConfig) {}},
		{
			name: "mongo ok",
			mutate: func(c *AppConfig) {
				c.StoreBackend = BackendMongo
				c.MongoURI = "mongodb://localhost:27017"
				c.MongoDatabase = "study_hub"
			},
		},
		{
			name: "mongo without database",
			mutate: func(c *AppConfig) {
				c.StoreBackend = BackendMongo
				c.MongoURI = "mongodb://localhost:27017"
			},
			wantErr: "mongo_database",
		},
		{name: "unknown backend", mutate: func(c *AppConfig) { c.StoreBackend = "redis" }, wantErr: "store_backend"},
		{name: "bad zone", mutate: func(c *AppConfig) { c.ScheduleTimeZone = "Mars/Olympus" }, wantErr: "schedule_time_zone"},
		{name: "hs256 without secret", mutate: func(c *AppConfig) { c.JWTSecret = "" }, wantErr: "jwt_secret"},
		{name: "oidc without issuer", mutate: func(c *AppConfig) { c.AuthMode = AuthOIDC }, wantErr: "oidc_issuer_url"},
		{
			name: "oidc ok",
			mutate: func(c *AppConfig) {
				c.AuthMode = AuthOIDC
				c.OIDCIssuerURL = "https://id.example.com"
			},
		},
		{name: "unknown auth", mutate: func(c *AppConfig) { c.AuthMode = "basic" }, wantErr: "auth_mode"},
		{name: "zero rate", mutate: func(c *AppConfig) { c.MembershipRatePerMinute = 0 }, wantErr: "membership_rate_per_minute"},
		{name: "zero attempts", mutate: func(c *AppConfig) { c.LedgerMaxAttempts = 0 }, wantErr: "ledger_max_attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validMemoryConfig()
			tt.mutate(&cfg)
			err := validateAppConfig(cfg, zap.NewNop())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScheduleLocation(t *testing.T) {
	loc, err := scheduleLocation(AppConfig{})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = scheduleLocation(AppConfig{ScheduleTimeZone: " America/Chicago "})
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", loc.String())

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	loc, err = scheduleLocation(AppConfig{ScheduleTimeZone: "bogus", ScheduleLocation: ny})
	require.NoError(t, err, "a resolved location wins over the raw name")
	assert.Same(t, ny, loc)

	_, err = scheduleLocation(AppConfig{ScheduleTimeZone: "Not/AZone"})
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , ,"))
	assert.Equal(t,
		[]string{"https://a.example.com", "http://localhost:3000"},
		splitList(" https://a.example.com ,,http://localhost:3000 "))
}
