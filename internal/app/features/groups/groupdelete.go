package groups

import (
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleDeleteGroup handles DELETE /groups/{id} (creator only). The group's
// sessions go with it.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete group")
	defer cancel()

	if err := h.Ledger.Delete(ctx, gid, auth.UserID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
