// internal/app/features/groups/routes.go
package groups

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the groups API. requireSignedIn guards every route;
// limitMembership throttles join and leave; sessions is mounted under
// /{id}/sessions.
func Routes(h *Handler, requireSignedIn, limitMembership func(http.Handler) http.Handler, sessions http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(requireSignedIn)

		// LIST / CREATE
		pr.Get("/", h.ServeGroupsList)
		pr.Post("/", h.HandleCreateGroup)

		// VIEW / DELETE
		pr.Get("/{id}", h.ServeGroupView)
		pr.Delete("/{id}", h.HandleDeleteGroup)

		// MEMBERSHIP
		pr.Get("/{id}/members", h.ServeMembers)
		pr.With(limitMembership).Post("/{id}/join", h.HandleJoin)
		pr.With(limitMembership).Post("/{id}/leave", h.HandleLeave)

		// SESSIONS
		if sessions != nil {
			pr.Mount("/{id}/sessions", sessions)
		}
	})

	return r
}
