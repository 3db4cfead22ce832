// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	groupsfeature "github.com/dalemusser/studyhub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/studyhub/internal/app/features/health"
	sessionsfeature "github.com/dalemusser/studyhub/internal/app/features/sessions"
	userinfofeature "github.com/dalemusser/studyhub/internal/app/features/userinfo"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/ledger"
	"github.com/dalemusser/studyhub/internal/app/system/sessionval"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// StudyHub verifies bearer tokens on every request, then mounts the health
// check and the groups API (with group sessions nested under each group).
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("no study group store configured")
	}

	validator, err := buildValidator(appCfg)
	if err != nil {
		logger.Error("token validator init failed", zap.Error(err), zap.String("auth_mode", appCfg.AuthMode))
		return nil, err
	}

	loc, err := scheduleLocation(appCfg)
	if err != nil {
		return nil, err
	}

	errs := apierrors.NewWriter(logger)

	l := ledger.New(deps.Store, logger,
		ledger.WithLocation(loc),
		ledger.WithMaxAttempts(appCfg.LedgerMaxAttempts))
	scheduler := sessionval.NewScheduler(deps.Store, loc, logger)

	limiter := deps.MembershipLimiter
	if limiter == nil {
		return nil, fmt.Errorf("no membership rate limiter configured")
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestID(logger))
	if len(appCfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   appCfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
			ExposedHeaders:   []string{"Location", "Retry-After", requestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Anonymous requests continue; /groups rejects them below.
	r.Use(auth.LoadUser(validator, logger))

	r.NotFound(errs.NotFound)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Store, appCfg.StoreBackend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	userInfoHandler := userinfofeature.NewHandler(deps.Store, errs, logger)
	r.Mount("/me", userinfofeature.Routes(userInfoHandler))

	sessionsHandler := sessionsfeature.NewHandler(scheduler, loc, errs, logger)
	groupsHandler := groupsfeature.NewHandler(deps.Store, l, errs, logger)
	r.Mount("/groups", groupsfeature.Routes(
		groupsHandler,
		auth.RequireSignedIn(errs.Write),
		limiter.Middleware(auth.UserID, errs.TooManyRequests),
		sessionsfeature.Routes(sessionsHandler),
	))

	return r, nil
}

func buildValidator(appCfg AppConfig) (auth.Validator, error) {
	switch appCfg.AuthMode {
	case AuthHS256:
		return auth.NewHS256Validator(appCfg.JWTSecret)
	case AuthOIDC:
		return auth.NewOIDCValidator(context.Background(), appCfg.OIDCIssuerURL, appCfg.OIDCAudience, appCfg.OIDCJWKSURL)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", appCfg.AuthMode)
	}
}

const requestIDHeader = "X-Request-ID"

// requestID echoes the caller's X-Request-ID or assigns a new one, and logs
// failed requests with it.
func requestID(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" || len(id) > 64 {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			if ww.Status() >= http.StatusInternalServerError {
				logger.Warn("request failed",
					zap.String("request_id", id),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("elapsed", time.Since(start)))
			}
		})
	}
}
