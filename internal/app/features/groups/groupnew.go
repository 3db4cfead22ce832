package groups

import (
	"encoding/json"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/catalog"
	"github.com/dalemusser/studyhub/internal/app/system/limits"
	"github.com/dalemusser/studyhub/internal/app/system/schedule"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/domain/studyerr"
)

// HandleCreateGroup handles POST /groups. The signed-in user becomes the
// creator and only member.
//
// The schedule may be sent whole ("2025-01-01 - 2025-01-31") or as
// start_date and end_date.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxGroupBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Errors.BadRequest(w, r, err)
		return
	}

	sched := strings.TrimSpace(req.Schedule)
	if sched == "" {
		start, end := strings.TrimSpace(req.StartDate), strings.TrimSpace(req.EndDate)
		if start == "" {
			h.fail(w, r, studyerr.MissingField("start date"))
			return
		}
		if end == "" {
			h.fail(w, r, studyerr.MissingField("end date"))
			return
		}
		sched = start + schedule.Delimiter + end
	}

	year := strings.TrimSpace(req.Year)
	if year != "" && !catalog.IsKnownYear(year) {
		h.fail(w, r, studyerr.New(studyerr.KindMissingRequiredField, "year must be one of %v", catalog.Years()))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create group")
	defer cancel()

	g, err := h.Ledger.Create(ctx, models.StudyGroup{
		Name:        req.Name,
		Description: req.Description,
		MeetingType: req.MeetingType,
		Year:        year,
		Schedule:    sched,
		Category:    req.Category,
		IconName:    strings.TrimSpace(req.IconName),
		MaxMembers:  req.MaxMembers,
		CreatedBy:   auth.UserID(r),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Location", "/groups/"+g.ID)
	apierrors.WriteJSON(w, http.StatusCreated, rowFor(g, g.CreatedBy))
}
