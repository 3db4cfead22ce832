// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds one document per study group. Members are embedded so that
// roster and count change in a single document write.
const Collection = "study_groups"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) GetByID(ctx context.Context, id string) (models.StudyGroup, error) {
	var g models.StudyGroup
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.StudyGroup{}, err
	}
	return g, nil
}

// Exists reports whether a group document with id is present.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Put replaces the whole group document, inserting it if absent.
func (s *Store) Put(ctx context.Context, g models.StudyGroup) error {
	now := time.Now().UTC()
	g.NameCI = text.Fold(g.Name)
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	if g.Members == nil {
		g.Members = []string{}
	}
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": g.ID}, g, options.Replace().SetUpsert(true))
	return err
}

// UpdateMembership writes members and member_count in one update, guarded by
// the version the caller read. It reports whether a document matched; false
// means the group is gone or another writer got there first.
func (s *Store) UpdateMembership(ctx context.Context, id string, p models.MembershipPatch) (bool, error) {
	members := p.Members
	if members == nil {
		members = []string{}
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "version": p.ExpectVersion},
		bson.M{
			"$set": bson.M{
				"members":      members,
				"member_count": p.MemberCount,
				"updated_at":   time.Now().UTC(),
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// List returns every group in creation order.
func (s *Store) List(ctx context.Context) ([]models.StudyGroup, error) {
	return s.find(ctx, bson.M{})
}

// ListByMember returns the groups whose roster contains userID.
func (s *Store) ListByMember(ctx context.Context, userID string) ([]models.StudyGroup, error) {
	return s.find(ctx, bson.M{"members": userID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.StudyGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	groups := []models.StudyGroup{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
