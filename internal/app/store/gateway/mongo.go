package gateway

import (
	"context"
	"errors"

	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	sessionstore "github.com/dalemusser/studyhub/internal/app/store/sessions"
	"github.com/dalemusser/studyhub/internal/app/system/txn"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/domain/studyerr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Mongo is the production Gateway backed by MongoDB.
type Mongo struct {
	db       *mongo.Database
	groups   *groupstore.Store
	sessions *sessionstore.Store
	log      *zap.Logger
}

var _ Gateway = (*Mongo)(nil)

// NewMongo builds a Gateway over db.
func NewMongo(db *mongo.Database, logger *zap.Logger) *Mongo {
	return &Mongo{
		db:       db,
		groups:   groupstore.New(db),
		sessions: sessionstore.New(db),
		log:      logger,
	}
}

func (m *Mongo) GetGroup(ctx context.Context, id string) (models.StudyGroup, error) {
	g, err := m.groups.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.StudyGroup{}, studyerr.New(studyerr.KindGroupNotFound, "group %s", id)
	}
	if err != nil {
		return models.StudyGroup{}, studyerr.Transport("get group", err)
	}
	return g, nil
}

func (m *Mongo) PutGroup(ctx context.Context, g models.StudyGroup) error {
	return studyerr.Transport("put group", m.groups.Put(ctx, g))
}

func (m *Mongo) UpdateGroupFields(ctx context.Context, id string, p models.MembershipPatch) error {
	matched, err := m.groups.UpdateMembership(ctx, id, p)
	if err != nil {
		return studyerr.Transport("update group", err)
	}
	if matched {
		return nil
	}

	// No match: either the group is gone or the version moved.
	exists, err := m.groups.Exists(ctx, id)
	if err != nil {
		return studyerr.Transport("update group", err)
	}
	if !exists {
		return studyerr.New(studyerr.KindGroupNotFound, "group %s", id)
	}
	return ErrVersionConflict
}

func (m *Mongo) ListGroups(ctx context.Context) ([]models.StudyGroup, error) {
	groups, err := m.groups.List(ctx)
	if err != nil {
		return nil, studyerr.Transport("list groups", err)
	}
	return groups, nil
}

func (m *Mongo) ListGroupsForMember(ctx context.Context, userID string) ([]models.StudyGroup, error) {
	groups, err := m.groups.ListByMember(ctx, userID)
	if err != nil {
		return nil, studyerr.Transport("list member groups", err)
	}
	return groups, nil
}

// DeleteGroup removes the group document and its sessions together.
func (m *Mongo) DeleteGroup(ctx context.Context, id string) error {
	err := txn.Run(ctx, m.db, m.log, func(ctx context.Context) error {
		n, err := m.groups.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return studyerr.New(studyerr.KindGroupNotFound, "group %s", id)
		}
		removed, err := m.sessions.DeleteByGroup(ctx, id)
		if err != nil {
			return err
		}
		m.log.Debug("group sessions removed", zap.String("group_id", id), zap.Int64("sessions", removed))
		return nil
	})
	return studyerr.Transport("delete group", err)
}

func (m *Mongo) ListSessions(ctx context.Context, groupID string) ([]models.Session, error) {
	sessions, err := m.sessions.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, studyerr.Transport("list sessions", err)
	}
	return sessions, nil
}

// AddSession checks the owning group and inserts the session in one
// transaction, so a session is never written for a group deleted concurrently.
func (m *Mongo) AddSession(ctx context.Context, s models.Session) error {
	err := txn.Run(ctx, m.db, m.log, func(ctx context.Context) error {
		exists, err := m.groups.Exists(ctx, s.GroupID)
		if err != nil {
			return err
		}
		if !exists {
			return studyerr.New(studyerr.KindGroupNotFound, "group %s", s.GroupID)
		}
		return m.sessions.Create(ctx, s)
	})
	return studyerr.Transport("add session", err)
}

func (m *Mongo) GetSession(ctx context.Context, groupID, sessionID string) (models.Session, error) {
	s, err := m.sessions.GetByID(ctx, groupID, sessionID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Session{}, studyerr.New(studyerr.KindSessionNotFound, "session %s", sessionID)
	}
	if err != nil {
		return models.Session{}, studyerr.Transport("get session", err)
	}
	return s, nil
}

func (m *Mongo) UpdateSession(ctx context.Context, s models.Session) error {
	n, err := m.sessions.Replace(ctx, s)
	if err != nil {
		return studyerr.Transport("update session", err)
	}
	if n == 0 {
		return studyerr.New(studyerr.KindSessionNotFound, "session %s", s.ID)
	}
	return nil
}

func (m *Mongo) DeleteSession(ctx context.Context, groupID, sessionID string) error {
	n, err := m.sessions.Delete(ctx, groupID, sessionID)
	if err != nil {
		return studyerr.Transport("delete session", err)
	}
	if n == 0 {
		return studyerr.New(studyerr.KindSessionNotFound, "session %s", sessionID)
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return studyerr.Transport("ping", m.db.Client().Ping(ctx, readpref.Primary()))
}
