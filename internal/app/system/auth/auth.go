// Package auth resolves the signed-in user from a bearer token issued by an
// external identity provider. Only the token subject is used; it becomes the
// user ID for membership and session operations.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/studyhub/internal/domain/studyerr"
	"go.uber.org/zap"
)

// Validator verifies a raw token and returns its claims.
type Validator interface {
	Validate(ctx context.Context, token string) (*Claims, error)
}

// Claims are the verified token claims the app cares about.
type Claims struct {
	Subject  string
	Issuer   string
	Audience []string
	Email    *string
	Name     *string
	Raw      map[string]interface{}
}

// User is what the middleware injects into r.Context().
type User struct {
	ID    string
	Email string
	Name  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*User, bool) {
	return UserFromContext(r.Context())
}

// UserFromContext is CurrentUser for code that only holds a context.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(currentUserKey).(*User)
	return u, ok && u != nil && u.ID != ""
}

// UserID returns the signed-in user's ID, or "".
func UserID(r *http.Request) string {
	if u, ok := CurrentUser(r); ok {
		return u.ID
	}
	return ""
}

// WithUser returns ctx carrying u. Handlers under test use it to sign in
// without a token.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// LoadUser verifies the Authorization bearer token, if any, and injects the
// user into the request context. Requests without a token, or with a token
// that fails verification, continue anonymously; RequireSignedIn decides
// whether that is acceptable.
func LoadUser(v Validator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || v == nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Validate(r.Context(), token)
			if err != nil {
				logger.Debug("bearer token rejected", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if claims.Subject == "" {
				logger.Debug("bearer token has no subject")
				next.ServeHTTP(w, r)
				return
			}

			u := &User{ID: claims.Subject}
			if claims.Email != nil {
				u.Email = *claims.Email
			}
			if claims.Name != nil {
				u.Name = *claims.Name
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireSignedIn ensures there is a user in context (set by LoadUser).
// Otherwise it calls fail with an Unauthenticated error and stops the chain.
func RequireSignedIn(fail func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CurrentUser(r); ok {
				next.ServeHTTP(w, r)
				return
			}
			fail(w, r, studyerr.New(studyerr.KindUnauthenticated, "%s %s", r.Method, r.URL.Path))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
