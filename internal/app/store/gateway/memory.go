package gateway

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/domain/studyerr"
)

// Memory is an in-process Gateway with the same conditional-write semantics
// as Mongo. It backs the "memory" store backend and the core's tests.
type Memory struct {
	mu       sync.Mutex
	groups   map[string]models.StudyGroup
	order    []string
	sessions map[string]models.Session
}

var _ Gateway = (*Memory)(nil)

// NewMemory returns an empty in-memory Gateway.
func NewMemory() *Memory {
	return &Memory{
		groups:   make(map[string]models.StudyGroup),
		sessions: make(map[string]models.Session),
	}
}

// Stored values never share slices with callers.
func cloneGroup(g models.StudyGroup) models.StudyGroup {
	g.Members = append([]string{}, g.Members...)
	return g
}

func (m *Memory) GetGroup(ctx context.Context, id string) (models.StudyGroup, error) {
	if err := ctx.Err(); err != nil {
		return models.StudyGroup{}, studyerr.Transport("get group", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[id]
	if !ok {
		return models.StudyGroup{}, studyerr.New(studyerr.KindGroupNotFound, "group %s", id)
	}
	return cloneGroup(g), nil
}

func (m *Memory) PutGroup(ctx context.Context, g models.StudyGroup) error {
	if err := ctx.Err(); err != nil {
		return studyerr.Transport("put group", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	if _, exists := m.groups[g.ID]; !exists {
		m.order = append(m.order, g.ID)
	}
	m.groups[g.ID] = cloneGroup(g)
	return nil
}

func (m *Memory) UpdateGroupFields(ctx context.Context, id string, p models.MembershipPatch) error {
	if err := ctx.Err(); err != nil {
		return studyerr.Transport("update group", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[id]
	if !ok {
		return studyerr.New(studyerr.KindGroupNotFound, "group %s", id)
	}
	if g.Version != p.ExpectVersion {
		return ErrVersionConflict
	}
	g.Members = append([]string{}, p.Members...)
	g.MemberCount = p.MemberCount
	g.Version++
	g.UpdatedAt = time.Now().UTC()
	m.groups[id] = g
	return nil
}

func (m *Memory) ListGroups(ctx context.Context) ([]models.StudyGroup, error) {
	return m.listWhere(ctx, func(models.StudyGroup) bool { return true })
}

func (m *Memory) ListGroupsForMember(ctx context.Context, userID string) ([]models.StudyGroup, error) {
	return m.listWhere(ctx, func(g models.StudyGroup) bool { return g.HasMember(userID) })
}

func (m *Memory) listWhere(ctx context.Context, keep func(models.StudyGroup) bool) ([]models.StudyGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, studyerr.Transport("list groups", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.StudyGroup{}
	for _, id := range m.order {
		g, ok := m.groups[id]
		if ok && keep(g) {
			out = append(out, cloneGroup(g))
		}
	}
	return out, nil
}

func (m *Memory) DeleteGroup(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return studyerr.Transport("delete group", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groups[id]; !ok {
		return studyerr.New(studyerr.KindGroupNotFound, "group %s", id)
	}
	delete(m.groups, id)
	for i, gid := range m.order {
		if gid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	for sid, s := range m.sessions {
		if s.GroupID == id {
			delete(m.sessions, sid)
		}
	}
	return nil
}

func (m *Memory) ListSessions(ctx context.Context, groupID string) ([]models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, studyerr.Transport("list sessions", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Session{}
	for _, s := range m.sessions {
		if s.GroupID == groupID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].DateTime.Before(out[j].DateTime)
	})
	return out, nil
}

func (m *Memory) AddSession(ctx context.Context, s models.Session) error {
	if err := ctx.Err(); err != nil {
		return studyerr.Transport("add session", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groups[s.GroupID]; !ok {
		return studyerr.New(studyerr.KindGroupNotFound, "group %s", s.GroupID)
	}
	if _, dup := m.sessions[s.ID]; dup {
		return studyerr.Transport("add session", errDuplicateSession)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *Memory) GetSession(ctx context.Context, groupID, sessionID string) (models.Session, error) {
	if err := ctx.Err(); err != nil {
		return models.Session{}, studyerr.Transport("get session", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.GroupID != groupID {
		return models.Session{}, studyerr.New(studyerr.KindSessionNotFound, "session %s", sessionID)
	}
	return s, nil
}

func (m *Memory) UpdateSession(ctx context.Context, s models.Session) error {
	if err := ctx.Err(); err != nil {
		return studyerr.Transport("update session", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.sessions[s.ID]
	if !ok || cur.GroupID != s.GroupID {
		return studyerr.New(studyerr.KindSessionNotFound, "session %s", s.ID)
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *Memory) DeleteSession(ctx context.Context, groupID, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return studyerr.Transport("delete session", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.GroupID != groupID {
		return studyerr.New(studyerr.KindSessionNotFound, "session %s", sessionID)
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return studyerr.Transport("ping", ctx.Err())
}
