package groups

import (
	"net/http"

	apierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleJoin handles POST /groups/{id}/join for the signed-in user.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "join group")
	defer cancel()

	n, err := h.Ledger.Join(ctx, gid, auth.UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, membershipResponse{GroupID: gid, MemberCount: n})
}

// HandleLeave handles POST /groups/{id}/leave for the signed-in user.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "leave group")
	defer cancel()

	n, err := h.Ledger.Leave(ctx, gid, auth.UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, membershipResponse{GroupID: gid, MemberCount: n})
}

// ServeMembers handles GET /groups/{id}/members.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list members")
	defer cancel()

	g, err := h.Store.GetGroup(ctx, gid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, membersResponse{
		GroupID:     g.ID,
		CreatedBy:   g.CreatedBy,
		Members:     g.Members,
		MemberCount: g.MemberCount,
		MaxMembers:  g.MaxMembers,
	})
}
