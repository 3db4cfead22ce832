// internal/domain/models/session.go
package models

import "time"

// OnlineLocation is the location recorded for virtual sessions.
const OnlineLocation = "Online"

// Session is a single scheduled meeting belonging to a StudyGroup.
// MeetingLink is only meaningful when IsOnline is set.
type Session struct {
	ID          string    `bson:"_id" json:"id"`
	GroupID     string    `bson:"group_id" json:"group_id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	DateTime    time.Time `bson:"date_time" json:"date_time"`
	Location    string    `bson:"location" json:"location"`
	IsOnline    bool      `bson:"is_online" json:"is_online"`
	MeetingLink string    `bson:"meeting_link,omitempty" json:"meeting_link,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
