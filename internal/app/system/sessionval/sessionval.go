// Package sessionval validates study sessions against their group's schedule
// and runs the create/update/delete session flows.
package sessionval

import (
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/studyhub/internal/app/system/schedule"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/domain/studyerr"
)

// Validate checks candidate against owner and returns the normalized session.
//
// The owner's schedule is parsed in loc. A malformed schedule is returned as
// is; a session is never accepted without a window to check it against.
// Sessions of an Online group must be online; only In-Person groups may
// hold sessions at a physical location.
// Normalization fills GroupID from owner, sets Location to "Online" for an
// online session with no location, and clears MeetingLink when offline.
func Validate(candidate models.Session, owner models.StudyGroup, loc *time.Location) (models.Session, error) {
	s := candidate
	if s.GroupID != "" && s.GroupID != owner.ID {
		return models.Session{}, studyerr.New(studyerr.KindGroupNotFound,
			"session names group %s, owner is %s", s.GroupID, owner.ID)
	}
	s.GroupID = owner.ID

	s.Title = strings.TrimSpace(htmlsanitize.PlainText(s.Title))
	s.Description = strings.TrimSpace(htmlsanitize.PlainText(s.Description))
	s.Location = strings.TrimSpace(htmlsanitize.PlainText(s.Location))
	s.MeetingLink = strings.TrimSpace(s.MeetingLink)

	if s.Title == "" {
		return models.Session{}, studyerr.MissingField("title")
	}
	if s.Description == "" {
		return models.Session{}, studyerr.MissingField("description")
	}
	if !s.IsOnline && owner.MeetingType == models.MeetingOnline {
		return models.Session{}, studyerr.New(studyerr.KindMissingRequiredField,
			"group %s meets online; its sessions must be online", owner.ID)
	}
	if s.IsOnline {
		if s.Location == "" {
			s.Location = models.OnlineLocation
		}
	} else {
		if s.Location == "" {
			return models.Session{}, studyerr.MissingField("location")
		}
		s.MeetingLink = ""
	}
	if s.DateTime.IsZero() {
		return models.Session{}, studyerr.MissingField("date and time")
	}

	w, err := schedule.ParseIn(owner.Schedule, loc)
	if err != nil {
		return models.Session{}, err
	}
	if !w.Contains(s.DateTime) {
		return models.Session{}, studyerr.New(studyerr.KindOutOfScheduleWindow,
			"%s is outside %s", s.DateTime.Format(schedule.DateTimeLayout), owner.Schedule)
	}
	return s, nil
}
