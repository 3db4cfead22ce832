package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultSchedule is the window used by NewGroup.
const DefaultSchedule = "2025-01-01 - 2025-01-31"

// NewGroup returns a valid group owned by creator, with the creator as its
// only member. The group is not persisted.
func NewGroup(creator string) models.StudyGroup {
	now := time.Now().UTC()
	return models.StudyGroup{
		ID:          uuid.NewString(),
		Name:        "Test Group",
		Description: "A test study group",
		MeetingType: models.MeetingOnline,
		Year:        "SD1",
		Schedule:    DefaultSchedule,
		Category:    "Computer Science",
		IconName:    "Group",
		Members:     []string{creator},
		MemberCount: 1,
		MaxMembers:  models.DefaultMaxMembers,
		CreatedBy:   creator,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewSession returns an online session for groupID at the given time.
func NewSession(groupID string, at time.Time) models.Session {
	return models.Session{
		ID:          uuid.NewString(),
		GroupID:     groupID,
		Title:       "Test Session",
		Description: "Going over the week's material",
		DateTime:    at,
		Location:    models.OnlineLocation,
		IsOnline:    true,
		CreatedAt:   time.Now().UTC(),
	}
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateGroup inserts a group owned by creator with extra members appended.
func (f *Fixtures) CreateGroup(ctx context.Context, creator string, maxMembers int, members ...string) models.StudyGroup {
	f.t.Helper()

	g := NewGroup(creator)
	g.NameCI = text.Fold(g.Name)
	g.Members = append(g.Members, members...)
	g.MemberCount = len(g.Members)
	g.MaxMembers = maxMembers

	if _, err := f.db.Collection("study_groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateSession inserts a session for groupID at the given time.
func (f *Fixtures) CreateSession(ctx context.Context, groupID string, at time.Time) models.Session {
	f.t.Helper()

	s := NewSession(groupID, at)
	if _, err := f.db.Collection("study_sessions").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test session: %v", err)
	}
	return s
}
