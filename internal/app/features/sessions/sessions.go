package sessions

import (
	"encoding/json"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/limits"
	"github.com/dalemusser/studyhub/internal/app/system/schedule"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/domain/studyerr"
	"github.com/go-chi/chi/v5"
)

// sessionRequest is the body of create and update. DateTime is
// "YYYY-MM-DD HH:MM" in the configured schedule zone.
type sessionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DateTime    string `json:"date_time"`
	Location    string `json:"location"`
	IsOnline    bool   `json:"is_online"`
	MeetingLink string `json:"meeting_link"`
}

type listResponse struct {
	GroupID  string           `json:"group_id"`
	Sessions []models.Session `json:"sessions"`
}

// decode reads a session body. A blank date_time is left zero for the
// validator to report; one that does not parse is a missing field too, since
// there is no usable value.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (models.Session, error) {
	var req sessionRequest
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSessionBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return models.Session{}, err
	}
	s := models.Session{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		IsOnline:    req.IsOnline,
		MeetingLink: req.MeetingLink,
	}
	if dt := strings.TrimSpace(req.DateTime); dt != "" {
		t, err := schedule.ParseDateTime(dt, h.Loc)
		if err != nil {
			return models.Session{}, studyerr.New(studyerr.KindMissingRequiredField,
				"date_time %q is not %s", dt, schedule.DateTimeLayout)
		}
		s.DateTime = t
	}
	return s, nil
}

// ServeList handles GET /groups/{id}/sessions.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list sessions")
	defer cancel()

	list, err := h.Scheduler.List(ctx, gid)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{GroupID: gid, Sessions: list})
}

// ServeSession handles GET /groups/{id}/sessions/{sessionID}.
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	gid, sid := chi.URLParam(r, "id"), chi.URLParam(r, "sessionID")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get session")
	defer cancel()

	s, err := h.Scheduler.Get(ctx, gid, sid)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, s)
}

// HandleCreate handles POST /groups/{id}/sessions (group creator only).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "id")

	candidate, err := h.decode(w, r)
	if err != nil {
		h.Errors.BadRequest(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create session")
	defer cancel()

	s, err := h.Scheduler.Create(ctx, gid, auth.UserID(r), candidate)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	w.Header().Set("Location", "/groups/"+gid+"/sessions/"+s.ID)
	apierrors.WriteJSON(w, http.StatusCreated, s)
}

// HandleUpdate handles PUT /groups/{id}/sessions/{sessionID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	gid, sid := chi.URLParam(r, "id"), chi.URLParam(r, "sessionID")

	s, err := h.decode(w, r)
	if err != nil {
		h.Errors.BadRequest(w, r, err)
		return
	}
	s.ID = sid

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update session")
	defer cancel()

	out, err := h.Scheduler.Update(ctx, gid, auth.UserID(r), s)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /groups/{id}/sessions/{sessionID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	gid, sid := chi.URLParam(r, "id"), chi.URLParam(r, "sessionID")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete session")
	defer cancel()

	if err := h.Scheduler.Delete(ctx, gid, auth.UserID(r), sid); err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
