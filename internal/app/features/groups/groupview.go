package groups

import (
	"net/http"

	apierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// ServeGroupView handles GET /groups/{id}: the group and its sessions,
// loaded concurrently.
func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "view group")
	defer cancel()

	var (
		group    models.StudyGroup
		sessions []models.Session
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		group, err = h.Store.GetGroup(ectx, gid)
		return err
	})
	eg.Go(func() error {
		var err error
		sessions, err = h.Store.ListSessions(ectx, gid)
		return err
	})
	if err := eg.Wait(); err != nil {
		h.fail(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	apierrors.WriteJSON(w, http.StatusOK, viewResponse{
		Group:    rowFor(group, auth.UserID(r)),
		Sessions: sessions,
	})
}
