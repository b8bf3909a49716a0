package item

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/pos-management/internal/core/events"
)

// EventHandler watches sales and reports items that ran low.
type EventHandler struct {
	repo      Repository
	threshold int
	logger    *slog.Logger
}

func NewEventHandler(repo Repository, threshold int, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		repo:      repo,
		threshold: threshold,
		logger:    logger,
	}
}

func (h *EventHandler) HandleTransactionCreated(ctx context.Context, event events.Event) error {
	txEvent, ok := event.(*events.TransactionCreatedEvent)
	if !ok {
		h.logger.Error("invalid event type for transaction created handler", "event_type", event.EventType())
		return fmt.Errorf("expected TransactionCreatedEvent, got %T", event)
	}

	low, err := h.repo.FindLowStock(ctx, txEvent.ItemNames(), h.threshold)
	if err != nil {
		return fmt.Errorf("low stock lookup for transaction %d: %w", txEvent.TransactionID, err)
	}

	for _, it := range low {
		h.logger.Warn("item stock low",
			"item_id", it.ItemID,
			"item_name", it.ItemName,
			"quantity", it.Quantity,
			"threshold", h.threshold,
			"transaction_id", txEvent.TransactionID)
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeTransactionCreated, h.HandleTransactionCreated)

	h.logger.Info("inventory event handlers registered",
		"handlers", []string{events.EventTypeTransactionCreated})
}
