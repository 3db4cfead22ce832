package groups

import (
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/catalog"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/domain/studyerr"
)

// ServeGroupsList handles GET /groups?year=SD1&view=mine|discover|all.
//
// "mine" uses the membership-indexed query; "discover" lists everything and
// keeps the groups the user has not joined.
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r)
	view := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("view")))
	if view == "" {
		view = ViewAll
	}
	year := strings.TrimSpace(r.URL.Query().Get("year"))
	if year == "" {
		year = catalog.AllYears
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list groups")
	defer cancel()

	var (
		gs  []models.StudyGroup
		err error
	)
	switch view {
	case ViewMine:
		gs, err = h.Store.ListGroupsForMember(ctx, uid)
	case ViewDiscover:
		gs, err = h.Store.ListGroups(ctx)
		if err == nil {
			_, gs = catalog.PartitionByMembership(gs, uid)
		}
	case ViewAll:
		gs, err = h.Store.ListGroups(ctx)
	default:
		err = studyerr.New(studyerr.KindMissingRequiredField, "view must be %q, %q or %q", ViewAll, ViewMine, ViewDiscover)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	gs = catalog.FilterByYear(gs, year)
	rows := make([]groupRow, 0, len(gs))
	for _, g := range gs {
		rows = append(rows, rowFor(g, uid))
	}

	apierrors.WriteJSON(w, http.StatusOK, listResponse{
		View:   view,
		Year:   year,
		Years:  catalog.Years(),
		Groups: rows,
	})
}
