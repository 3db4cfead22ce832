package sessionval

import (
	"context"
	"time"

	"github.com/dalemusser/studyhub/internal/app/store/gateway"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/domain/studyerr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scheduler creates and edits sessions for a group. Only the group's creator
// may change its sessions.
type Scheduler struct {
	gw  gateway.Gateway
	loc *time.Location
	log *zap.Logger
}

// NewScheduler returns a Scheduler. loc is the zone group schedules are read
// in; nil means UTC.
func NewScheduler(gw gateway.Gateway, loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{gw: gw, loc: loc, log: logger}
}

// ownedGroup loads the group and checks that userID created it.
func (s *Scheduler) ownedGroup(ctx context.Context, groupID, userID string) (models.StudyGroup, error) {
	g, err := s.gw.GetGroup(ctx, groupID)
	if err != nil {
		return models.StudyGroup{}, err
	}
	if userID == "" || g.CreatedBy != userID {
		return models.StudyGroup{}, studyerr.New(studyerr.KindNotGroupCreator,
			"user %q on group %s", userID, groupID)
	}
	return g, nil
}

// Create validates candidate against the group's current schedule and stores
// it with a new ID.
func (s *Scheduler) Create(ctx context.Context, groupID, userID string, candidate models.Session) (models.Session, error) {
	g, err := s.ownedGroup(ctx, groupID, userID)
	if err != nil {
		return models.Session{}, err
	}
	sess, err := Validate(candidate, g, s.loc)
	if err != nil {
		return models.Session{}, err
	}
	sess.ID = uuid.NewString()
	sess.CreatedAt = time.Now().UTC()

	if err := s.gw.AddSession(ctx, sess); err != nil {
		return models.Session{}, err
	}
	s.log.Info("study session created",
		zap.String("group_id", groupID),
		zap.String("session_id", sess.ID),
		zap.Time("date_time", sess.DateTime))
	return sess, nil
}

// Update re-validates sess against the group's current schedule and replaces
// the stored session. The original creation time is kept.
func (s *Scheduler) Update(ctx context.Context, groupID, userID string, sess models.Session) (models.Session, error) {
	g, err := s.ownedGroup(ctx, groupID, userID)
	if err != nil {
		return models.Session{}, err
	}
	cur, err := s.gw.GetSession(ctx, groupID, sess.ID)
	if err != nil {
		return models.Session{}, err
	}
	out, err := Validate(sess, g, s.loc)
	if err != nil {
		return models.Session{}, err
	}
	out.ID = cur.ID
	out.CreatedAt = cur.CreatedAt

	if err := s.gw.UpdateSession(ctx, out); err != nil {
		return models.Session{}, err
	}
	s.log.Info("study session updated",
		zap.String("group_id", groupID),
		zap.String("session_id", out.ID))
	return out, nil
}

// Delete removes one session.
func (s *Scheduler) Delete(ctx context.Context, groupID, userID, sessionID string) error {
	if _, err := s.ownedGroup(ctx, groupID, userID); err != nil {
		return err
	}
	if err := s.gw.DeleteSession(ctx, groupID, sessionID); err != nil {
		return err
	}
	s.log.Info("study session deleted",
		zap.String("group_id", groupID),
		zap.String("session_id", sessionID))
	return nil
}

// List returns the group's sessions ordered by date-time. A missing group is
// reported as GroupNotFound rather than an empty list.
func (s *Scheduler) List(ctx context.Context, groupID string) ([]models.Session, error) {
	if _, err := s.gw.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.gw.ListSessions(ctx, groupID)
}

// Get returns one session of the group.
func (s *Scheduler) Get(ctx context.Context, groupID, sessionID string) (models.Session, error) {
	return s.gw.GetSession(ctx, groupID, sessionID)
}
