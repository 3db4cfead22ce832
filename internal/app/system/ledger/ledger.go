// Package ledger owns the study-group roster: create, join, leave and delete.
//
// Every mutation reads the current group through the Gateway, checks the
// roster invariants against that snapshot, and writes members and
// member_count back as one version-guarded update:
//
//	member_count == len(members)
//	member_count <= max_members
//	created_by ∈ members
//	members has no duplicates
//
// A version conflict means another request changed the group in between.
// The ledger then re-reads and re-checks. It never sleeps between attempts
// and never applies a change that fails a check against the latest snapshot.
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/app/store/gateway"
	"github.com/dalemusser/studyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/studyhub/internal/app/system/schedule"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/domain/studyerr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds how many snapshots one Join or Leave will try.
const DefaultMaxAttempts = 5

// Ledger applies membership changes through a Gateway.
type Ledger struct {
	gw          gateway.Gateway
	loc         *time.Location
	maxAttempts int
	log         *zap.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLocation sets the zone used to read group schedules.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// WithMaxAttempts overrides DefaultMaxAttempts. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(l *Ledger) {
		if n >= 1 {
			l.maxAttempts = n
		}
	}
}

// New returns a Ledger over gw.
func New(gw gateway.Gateway, logger *zap.Logger, opts ...Option) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Ledger{
		gw:          gw,
		loc:         time.UTC,
		maxAttempts: DefaultMaxAttempts,
		log:         logger,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Create validates g and stores it with its creator as the only member.
// Any members supplied by the caller are discarded.
func (l *Ledger) Create(ctx context.Context, g models.StudyGroup) (models.StudyGroup, error) {
	g.Name = strings.TrimSpace(htmlsanitize.PlainText(g.Name))
	g.Description = strings.TrimSpace(htmlsanitize.PlainText(g.Description))
	g.Year = strings.TrimSpace(g.Year)
	g.Category = strings.TrimSpace(g.Category)
	g.CreatedBy = strings.TrimSpace(g.CreatedBy)

	switch {
	case g.CreatedBy == "":
		return models.StudyGroup{}, studyerr.MissingField("creator")
	case g.Name == "":
		return models.StudyGroup{}, studyerr.MissingField("name")
	case g.Description == "":
		return models.StudyGroup{}, studyerr.MissingField("description")
	case g.Year == "":
		return models.StudyGroup{}, studyerr.MissingField("year")
	case g.Category == "":
		return models.StudyGroup{}, studyerr.MissingField("category")
	}

	switch g.MeetingType {
	case models.MeetingOnline, models.MeetingInPerson:
	case "":
		return models.StudyGroup{}, studyerr.MissingField("meeting type")
	default:
		return models.StudyGroup{}, studyerr.New(studyerr.KindMissingRequiredField,
			"meeting type must be %q or %q", models.MeetingOnline, models.MeetingInPerson)
	}

	if _, err := schedule.ParseIn(g.Schedule, l.loc); err != nil {
		return models.StudyGroup{}, err
	}

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	switch {
	case g.MaxMembers == 0:
		g.MaxMembers = models.DefaultMaxMembers
	case g.MaxMembers < 1:
		g.MaxMembers = 1
	}
	g.Members = []string{g.CreatedBy}
	g.MemberCount = 1
	g.Version = 1
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := l.gw.PutGroup(ctx, g); err != nil {
		return models.StudyGroup{}, err
	}
	l.log.Info("study group created",
		zap.String("group_id", g.ID),
		zap.String("created_by", g.CreatedBy),
		zap.Int("max_members", g.MaxMembers))
	return g, nil
}

// Join adds userID to the group and returns the new member count.
func (l *Ledger) Join(ctx context.Context, groupID, userID string) (int, error) {
	if userID == "" {
		return 0, studyerr.MissingField("user id")
	}
	return l.mutate(ctx, "join", groupID, userID, func(g models.StudyGroup) (models.MembershipPatch, error) {
		if g.HasMember(userID) {
			return models.MembershipPatch{}, studyerr.New(studyerr.KindAlreadyMember, "user %s in group %s", userID, g.ID)
		}
		if g.IsFull() {
			return models.MembershipPatch{}, studyerr.New(studyerr.KindGroupFull, "group %s has %d of %d", g.ID, g.MemberCount, g.MaxMembers)
		}
		members := make([]string, 0, len(g.Members)+1)
		members = append(members, g.Members...)
		members = append(members, userID)
		return models.MembershipPatch{
			ExpectVersion: g.Version,
			Members:       members,
			MemberCount:   g.MemberCount + 1,
		}, nil
	})
}

// Leave removes userID from the group and returns the new member count.
// The creator cannot leave; they delete the group instead.
func (l *Ledger) Leave(ctx context.Context, groupID, userID string) (int, error) {
	if userID == "" {
		return 0, studyerr.MissingField("user id")
	}
	return l.mutate(ctx, "leave", groupID, userID, func(g models.StudyGroup) (models.MembershipPatch, error) {
		if !g.HasMember(userID) {
			return models.MembershipPatch{}, studyerr.New(studyerr.KindNotAMember, "user %s in group %s", userID, g.ID)
		}
		if userID == g.CreatedBy {
			return models.MembershipPatch{}, studyerr.New(studyerr.KindCreatorCannotLeave, "group %s", g.ID)
		}
		members := make([]string, 0, len(g.Members))
		for _, m := range g.Members {
			if m != userID {
				members = append(members, m)
			}
		}
		return models.MembershipPatch{
			ExpectVersion: g.Version,
			Members:       members,
			MemberCount:   g.MemberCount - 1,
		}, nil
	})
}

// Delete removes the group and its sessions. Only the creator may delete.
func (l *Ledger) Delete(ctx context.Context, groupID, userID string) error {
	g, err := l.gw.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if g.CreatedBy != userID {
		return studyerr.New(studyerr.KindNotGroupCreator, "user %s on group %s", userID, groupID)
	}
	if err := l.gw.DeleteGroup(ctx, groupID); err != nil {
		return err
	}
	l.log.Info("study group deleted", zap.String("group_id", groupID), zap.String("user_id", userID))
	return nil
}

// mutate runs the read-check-write cycle for one membership change.
func (l *Ledger) mutate(ctx context.Context, op, groupID, userID string,
	plan func(models.StudyGroup) (models.MembershipPatch, error)) (int, error) {

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		g, err := l.gw.GetGroup(ctx, groupID)
		if err != nil {
			return 0, err
		}
		patch, err := plan(g)
		if err != nil {
			return 0, err
		}

		err = l.gw.UpdateGroupFields(ctx, groupID, patch)
		if err == nil {
			l.log.Info("membership updated",
				zap.String("op", op),
				zap.String("group_id", groupID),
				zap.String("user_id", userID),
				zap.Int("member_count", patch.MemberCount))
			return patch.MemberCount, nil
		}
		if !errors.Is(err, gateway.ErrVersionConflict) {
			return 0, err
		}
		l.log.Debug("membership version conflict",
			zap.String("op", op),
			zap.String("group_id", groupID),
			zap.Int("attempt", attempt))
	}
	return 0, studyerr.Transport(op, gateway.ErrVersionConflict)
}
