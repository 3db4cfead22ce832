package sessions_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/features/sessions"
	"github.com/dalemusser/studyhub/internal/app/store/gateway"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/sessionval"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (http.Handler, *gateway.Memory, models.StudyGroup) {
	t.Helper()
	logger := zap.NewNop()
	gw := gateway.NewMemory()
	g := testutil.NewGroup("owner")
	g.MeetingType = models.MeetingInPerson
	require.NoError(t, gw.PutGroup(context.Background(), g))

	h := sessions.NewHandler(sessionval.NewScheduler(gw, nil, logger), nil, apierrors.NewWriter(logger), logger)
	r := chi.NewRouter()
	r.Mount("/groups/{id}/sessions", sessions.Routes(h))
	return r, gw, g
}

func call(t *testing.T, h http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(auth.WithUser(req.Context(), &auth.User{ID: user}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func kind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var b apierrors.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b), rec.Body.String())
	return b.Kind
}

func TestCreate(t *testing.T) {
	h, gw, g := newRouter(t)
	path := "/groups/" + g.ID + "/sessions"

	tests := []struct {
		name   string
		user   string
		body   map[string]any
		status int
		kind   string
	}{
		{
			name:   "inside window",
			user:   "owner",
			body:   map[string]any{"title": "Review", "description": "Chapter 3", "date_time": "2025-01-15 10:00", "is_online": true},
			status: http.StatusCreated,
		},
		{
			name:   "day after window",
			user:   "owner",
			body:   map[string]any{"title": "Review", "description": "Chapter 3", "date_time": "2025-02-01 10:00", "is_online": true},
			status: http.StatusBadRequest,
			kind:   "OutOfScheduleWindow",
		},
		{
			name:   "unparseable date",
			user:   "owner",
			body:   map[string]any{"title": "Review", "description": "Chapter 3", "date_time": "next tuesday", "is_online": true},
			status: http.StatusBadRequest,
			kind:   "MissingRequiredField",
		},
		{
			name:   "in person without location",
			user:   "owner",
			body:   map[string]any{"title": "Review", "description": "Chapter 3", "date_time": "2025-01-15 10:00"},
			status: http.StatusBadRequest,
			kind:   "MissingRequiredField",
		},
		{
			name:   "not the creator",
			user:   "someone",
			body:   map[string]any{"title": "Review", "description": "Chapter 3", "date_time": "2025-01-15 10:00", "is_online": true},
			status: http.StatusForbidden,
			kind:   "NotGroupCreator",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, h, http.MethodPost, path, tt.user, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.kind != "" {
				assert.Equal(t, tt.kind, kind(t, rec))
			}
		})
	}

	list, err := gw.ListSessions(context.Background(), g.ID)
	require.NoError(t, err)
	require.Len(t, list, 1, "only the valid session is stored")
	assert.Equal(t, models.OnlineLocation, list[0].Location)
}

func TestGetUpdateDelete(t *testing.T) {
	h, _, g := newRouter(t)
	base := "/groups/" + g.ID + "/sessions"

	rec := call(t, h, http.MethodPost, base, "owner", map[string]any{
		"title": "Lab", "description": "Bring laptops", "date_time": "2025-01-10 14:00", "location": "Room 4",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	one := base + "/" + created.ID

	rec = call(t, h, http.MethodGet, one, "anyone", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodPut, one, "owner", map[string]any{
		"title": "Lab (moved)", "description": "Bring laptops", "date_time": "2025-01-11 14:00", "location": "Room 5",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Lab (moved)", updated.Title)
	assert.Equal(t, "Room 5", updated.Location)

	rec = call(t, h, http.MethodGet, base, "anyone", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Sessions []models.Session `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Sessions, 1)

	rec = call(t, h, http.MethodDelete, one, "someone", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, h, http.MethodDelete, one, "owner", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, h, http.MethodGet, one, "owner", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SessionNotFound", kind(t, rec))
}

func TestList_MissingGroup(t *testing.T) {
	h, _, _ := newRouter(t)
	rec := call(t, h, http.MethodGet, "/groups/nope/sessions", "owner", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "GroupNotFound", kind(t, rec))
}

func TestCreate_OfflineSessionOnOnlineGroup(t *testing.T) {
	h, gw, _ := newRouter(t)
	g := testutil.NewGroup("owner")
	require.NoError(t, gw.PutGroup(context.Background(), g))

	rec := call(t, h, http.MethodPost, "/groups/"+g.ID+"/sessions", "owner", map[string]any{
		"title": "Lab", "description": "Bring laptops", "date_time": "2025-01-10 14:00", "location": "Room 4",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
