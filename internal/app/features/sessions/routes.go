// internal/app/features/sessions/routes.go
package sessions

import "github.com/go-chi/chi/v5"

// Routes returns the sessions subrouter. It expects to be mounted under a
// path that binds {id} to the group ID, and relies on the parent router for
// authentication.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{sessionID}", h.ServeSession)
	r.Put("/{sessionID}", h.HandleUpdate)
	r.Delete("/{sessionID}", h.HandleDelete)
	return r
}
