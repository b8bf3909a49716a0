package document

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/transport"
	"github.com/go-chi/chi"
)

var ErrInvalidTransactionID = internal.NewValidationError("Invalid transaction id", internal.ErrCodeInvalidID)

type ServiceAPI interface {
	GenerateInvoice(ctx context.Context, caller identity.Identity, transactionID int64) (File, error)
	GenerateReport(ctx context.Context, caller identity.Identity, req ReportRequest) (File, error)
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

// GenerateInvoice handles GET /api/generate-invoice/{transactionId}
func (h *Handler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	caller, _ := internal.IdentityFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "transactionId"), 10, 64)
	if err != nil {
		h.WriteAppError(w, r, ErrInvalidTransactionID.WithCause(err))
		return
	}

	file, err := h.Service.GenerateInvoice(r.Context(), caller, id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteFile(w, file.ContentType, file.Name, file.Data)
}

// GenerateReport handles POST /api/generate-report
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	caller, _ := internal.IdentityFromContext(r.Context())

	var req ReportRequest
	if r.ContentLength != 0 {
		if err := h.DecodeJSON(r, &req); err != nil {
			h.WriteAppError(w, r, err)
			return
		}
	}

	file, err := h.Service.GenerateReport(r.Context(), caller, req)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteFile(w, file.ContentType, file.Name, file.Data)
}
