// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	apierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/store/gateway"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's identity and group totals.
type Handler struct {
	Store  gateway.Gateway
	Errors *apierrors.Writer
	Log    *zap.Logger
}

// NewHandler creates a new userinfo handler.
func NewHandler(store gateway.Gateway, errs *apierrors.Writer, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Errors: errs, Log: logger}
}

type userInfoResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	GroupsJoined    int    `json:"groups_joined"`
	GroupsCreated   int    `json:"groups_created"`
}

// ServeUserInfo handles GET /me. Anonymous callers get
// {"isAuthenticated": false} with 200 so clients can check sign-in state.
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.WriteJSON(w, http.StatusOK, userInfoResponse{})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user groups")
	defer cancel()

	groups, err := h.Store.ListGroupsForMember(ctx, user.ID)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	resp := userInfoResponse{
		IsAuthenticated: true,
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		GroupsJoined:    len(groups),
	}
	for _, g := range groups {
		if g.CreatedBy == user.ID {
			resp.GroupsCreated++
		}
	}
	apierrors.WriteJSON(w, http.StatusOK, resp)
}
