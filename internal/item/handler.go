package item

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListItems(ctx context.Context, caller identity.Identity) ([]Item, error)
	CreateItem(ctx context.Context, caller identity.Identity, dto ItemDTO) error
	UpdateItem(ctx context.Context, caller identity.Identity, itemID int64, dto ItemDTO) error
	DeleteItem(ctx context.Context, caller identity.Identity, itemID int64) error
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

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	caller, _ := internal.IdentityFromContext(r.Context())

	items, err := h.Service.ListItems(r.Context(), caller)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	caller, _ := internal.IdentityFromContext(r.Context())

	var dto ItemDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if err := h.Service.CreateItem(r.Context(), caller, dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Item created successfully"})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	caller, _ := internal.IdentityFromContext(r.Context())

	itemID, err := parseItemID(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	var dto ItemDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if err := h.Service.UpdateItem(r.Context(), caller, itemID, dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Item updated successfully"})
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	caller, _ := internal.IdentityFromContext(r.Context())

	itemID, err := parseItemID(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if err := h.Service.DeleteItem(r.Context(), caller, itemID); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Item deleted successfully"})
}

func parseItemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationError("Invalid item id", internal.ErrCodeInvalidID)
	}
	return id, nil
}
