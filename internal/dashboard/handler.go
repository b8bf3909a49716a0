package dashboard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/transport"
)

type ServiceAPI interface {
	Stats(ctx context.Context, caller identity.Identity) (Stats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// Stats handles GET /api/dashboard-stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	caller, _ := internal.IdentityFromContext(r.Context())

	stats, err := h.Service.Stats(r.Context(), caller)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}
