// internal/app/store/sessions/sessionstore.go
package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds study sessions; each references its group by group_id.
const Collection = "study_sessions"

// ErrDuplicateSession is returned when a session ID is reused.
var ErrDuplicateSession = errors.New("a session with this id already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) Create(ctx context.Context, sess models.Session) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateSession
		}
		return err
	}
	return nil
}

// GetByID loads a session scoped to its group, so a session ID from one group
// cannot be read through another.
func (s *Store) GetByID(ctx context.Context, groupID, id string) (models.Session, error) {
	var sess models.Session
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "group_id": groupID}).Decode(&sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// Replace overwrites an existing session. Returns the number matched (0 or 1).
func (s *Store) Replace(ctx context.Context, sess models.Session) (int64, error) {
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": sess.ID, "group_id": sess.GroupID}, sess)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes one session. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, groupID, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGroup removes all sessions for a group.
// Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByGroup returns a group's sessions, earliest first.
func (s *Store) ListByGroup(ctx context.Context, groupID string) ([]models.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_time", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	sessions := []models.Session{}
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountByGroup returns the number of sessions scheduled for a group.
func (s *Store) CountByGroup(ctx context.Context, groupID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}
