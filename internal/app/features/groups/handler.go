// internal/app/features/groups/handler.go
package groups

import (
	"net/http"

	apierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/store/gateway"
	"github.com/dalemusser/studyhub/internal/app/system/ledger"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
// Reads go straight to the Gateway; every roster change goes through the
// Ledger.
type Handler struct {
	Store  gateway.Gateway
	Ledger *ledger.Ledger
	Errors *apierrors.Writer
	Log    *zap.Logger
}

// NewHandler constructs a new groups Handler. It is typically called
// from the bootstrap BuildHandler function.
func NewHandler(store gateway.Gateway, l *ledger.Ledger, errs *apierrors.Writer, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		Ledger: l,
		Errors: errs,
		Log:    logger,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.Errors.Write(w, r, err)
}
