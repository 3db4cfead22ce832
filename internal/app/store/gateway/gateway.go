// Package gateway is the boundary between the study-group core and the
// remote document store.
//
// The ledger and the session scheduler depend only on the Gateway interface.
// Errors follow one contract across implementations:
//   - a missing group yields studyerr.ErrGroupNotFound
//   - a missing session yields studyerr.ErrSessionNotFound
//   - a version mismatch in UpdateGroupFields yields ErrVersionConflict
//   - any other store failure (including a deadline) yields a
//     studyerr.ErrTransportFailure wrapping the cause
package gateway

import (
	"context"
	"errors"

	"github.com/dalemusser/studyhub/internal/domain/models"
)

// ErrVersionConflict means the group changed after the caller read it. The
// write was not applied; re-read and decide again.
var ErrVersionConflict = errors.New("group was modified by another request")

// Gateway reads and conditionally writes group and session records.
type Gateway interface {
	GetGroup(ctx context.Context, id string) (models.StudyGroup, error)
	// PutGroup replaces the whole group document. Used on create.
	PutGroup(ctx context.Context, g models.StudyGroup) error
	// UpdateGroupFields applies p as one atomic document update, only if the
	// stored version equals p.ExpectVersion. Nothing is written on failure.
	UpdateGroupFields(ctx context.Context, id string, p models.MembershipPatch) error
	ListGroups(ctx context.Context) ([]models.StudyGroup, error)
	ListGroupsForMember(ctx context.Context, userID string) ([]models.StudyGroup, error)
	// DeleteGroup removes the group and its sessions.
	DeleteGroup(ctx context.Context, id string) error

	ListSessions(ctx context.Context, groupID string) ([]models.Session, error)
	// AddSession persists s; the owning group must exist.
	AddSession(ctx context.Context, s models.Session) error
	GetSession(ctx context.Context, groupID, sessionID string) (models.Session, error)
	UpdateSession(ctx context.Context, s models.Session) error
	DeleteSession(ctx context.Context, groupID, sessionID string) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

var errDuplicateSession = errors.New("a session with this id already exists")
