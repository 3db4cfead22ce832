// internal/app/features/sessions/handler.go
package sessions

import (
	"time"

	apierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/system/sessionval"
	"go.uber.org/zap"
)

// Handler serves the sessions of one group, mounted at
// /groups/{id}/sessions.
type Handler struct {
	Scheduler *sessionval.Scheduler
	Loc       *time.Location // zone of incoming date_time values
	Errors    *apierrors.Writer
	Log       *zap.Logger
}

// NewHandler constructs a sessions Handler.
func NewHandler(s *sessionval.Scheduler, loc *time.Location, errs *apierrors.Writer, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Scheduler: s,
		Loc:       loc,
		Errors:    errs,
		Log:       logger,
	}
}
