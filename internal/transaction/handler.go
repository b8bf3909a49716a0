package transaction

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/transport"
)

type ServiceAPI interface {
	ListTransactions(ctx context.Context, caller identity.Identity, filter Filter) ([]Transaction, error)
	CreateTransaction(ctx context.Context, caller identity.Identity, dto CreateTransactionDTO) (int64, error)
	GetTransaction(ctx context.Context, caller identity.Identity, transactionID int64) (*Detailed, error)
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

// ListTransactions handles GET /api/transactions?start_date=&end_date=&username=
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	caller, _ := internal.IdentityFromContext(r.Context())

	q := r.URL.Query()
	filter, err := ParseFilter(q.Get("start_date"), q.Get("end_date"), q.Get("username"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	list, err := h.Service.ListTransactions(r.Context(), caller, filter)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	caller, _ := internal.IdentityFromContext(r.Context())

	var dto CreateTransactionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	id, err := h.Service.CreateTransaction(r.Context(), caller, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CreateResponse{
		Message:       "Transaction created successfully",
		TransactionID: id,
	})
}
