package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (http.Handler, AppConfig) {
	t.Helper()
	logger := zap.NewNop()
	appCfg := validMemoryConfig()
	appCfg.CORSAllowedOrigins = []string{"https://app.example.com"}

	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, appCfg, logger)
	require.NoError(t, err)
	require.NotNil(t, deps.Store)
	require.Nil(t, deps.StudyHubMongoClient)
	require.NoError(t, EnsureSchema(context.Background(), &config.CoreConfig{}, appCfg, deps, logger))
	require.NoError(t, Startup(context.Background(), &config.CoreConfig{}, appCfg, deps, logger))

	h, err := BuildHandler(&config.CoreConfig{}, appCfg, deps, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = Shutdown(context.Background(), &config.CoreConfig{}, appCfg, deps, logger)
	})
	return h, appCfg
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestBuildHandler_Health(t *testing.T) {
	h, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, BackendMemory, body["backend"])
}

func TestBuildHandler_RequestIDEchoed(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestBuildHandler_GroupsRequireToken(t *testing.T) {
	h, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/groups", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret-wrong-secret-wrong!!", "u1"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuildHandler_CreateAndJoin(t *testing.T) {
	h, appCfg := newTestServer(t)
	creator := signToken(t, appCfg.JWTSecret, "creator")
	joiner := signToken(t, appCfg.JWTSecret, "joiner")

	body, err := json.Marshal(map[string]any{
		"name":         "Calculus",
		"description":  "Weekly problem sets",
		"meeting_type": "Online",
		"year":         "SD2",
		"category":     "Math",
		"schedule":     "2025-01-01 - 2025-01-31",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+creator)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	loc := rec.Header().Get("Location")
	require.NotEmpty(t, loc)

	req = httptest.NewRequest(http.MethodPost, loc+"/join", nil)
	req.Header.Set("Authorization", "Bearer "+joiner)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var joined struct {
		MemberCount int `json:"member_count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&joined))
	assert.Equal(t, 2, joined.MemberCount)
}

func TestBuildHandler_UnknownRoute(t *testing.T) {
	h, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildValidator_UnknownMode(t *testing.T) {
	_, err := buildValidator(AppConfig{AuthMode: "basic"})
	assert.Error(t, err)
}

func TestBuildHandler_Me(t *testing.T) {
	h, appCfg := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, appCfg.JWTSecret, "u42"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		IsAuthenticated bool   `json:"isAuthenticated"`
		ID              string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.IsAuthenticated)
	assert.Equal(t, "u42", body.ID)
}

func TestLifecycle_LimiterLivesInDeps(t *testing.T) {
	logger := zap.NewNop()
	appCfg := validMemoryConfig()
	core := &config.CoreConfig{}

	deps, err := ConnectDB(context.Background(), core, appCfg, logger)
	require.NoError(t, err)
	require.NotNil(t, deps.MembershipLimiter)
	require.NotNil(t, deps.LimiterSweep)

	require.NoError(t, Startup(context.Background(), core, appCfg, deps, logger))
	_, err = BuildHandler(core, appCfg, deps, logger)
	require.NoError(t, err)

	// A second handler built from the same deps shares the limiter.
	_, err = BuildHandler(core, appCfg, deps, logger)
	require.NoError(t, err)

	require.NoError(t, Shutdown(context.Background(), core, appCfg, deps, logger))
	require.NoError(t, Shutdown(context.Background(), core, appCfg, deps, logger))

	_, err = BuildHandler(core, appCfg, DBDeps{Store: deps.Store}, logger)
	assert.Error(t, err, "deps without a limiter are rejected")
}
