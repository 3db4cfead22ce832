// internal/domain/models/studygroup.go
package models

import (
	"time"
)

// Meeting modes for a study group.
const (
	MeetingOnline   = "Online"
	MeetingInPerson = "In-Person"
)

// DefaultMaxMembers is used when a group is created without a capacity.
const DefaultMaxMembers = 10

// StudyGroup is a named collection of members sharing a study schedule.
//
// NOTE:
//   - Members is the authoritative roster; MemberCount must always equal
//     len(Members) and never exceed MaxMembers.
//   - CreatedBy is always a member.
//   - Version is the optimistic-concurrency token. Every membership write
//     is conditional on the version read and increments it.
type StudyGroup struct {
	ID          string   `bson:"_id" json:"id"`
	Name        string   `bson:"name" json:"name"`
	NameCI      string   `bson:"name_ci" json:"-"`
	Description string   `bson:"description" json:"description"`
	MeetingType string   `bson:"meeting_type" json:"meeting_type"`
	Year        string   `bson:"year" json:"year"`
	Schedule    string   `bson:"schedule" json:"schedule"` // "2025-01-01 - 2025-01-31"
	Category    string   `bson:"category" json:"category"`
	IconName    string   `bson:"icon_name" json:"icon_name"`
	Members     []string `bson:"members" json:"members"`
	MemberCount int      `bson:"member_count" json:"member_count"`
	MaxMembers  int      `bson:"max_members" json:"max_members"`
	CreatedBy   string   `bson:"created_by" json:"created_by"`

	Version int64 `bson:"version" json:"version"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID is on the roster.
func (g StudyGroup) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the group has reached its capacity.
func (g StudyGroup) IsFull() bool {
	return g.MemberCount >= g.MaxMembers
}

// MembershipPatch is the partial update written by join and leave. Members and
// MemberCount are always written together in one document update, and only if
// the stored version still equals ExpectVersion.
type MembershipPatch struct {
	ExpectVersion int64
	Members       []string
	MemberCount   int
}
