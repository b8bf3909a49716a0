package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTransactionCreated = "transaction.created"
)

// SoldLine is one line item of a created transaction.
type SoldLine struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

type TransactionCreatedEvent struct {
	BaseEvent
	TransactionID int64      `json:"transaction_id"`
	Username      string     `json:"username"`
	TenantID      int64      `json:"tenant_id"`
	NetAmount     float64    `json:"net_amount"`
	Lines         []SoldLine `json:"lines"`
}

func NewTransactionCreatedEvent(transactionID int64, username string, tenantID int64, netAmount float64, lines []SoldLine) *TransactionCreatedEvent {
	return &TransactionCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTransactionCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"transaction_id": transactionID,
				"username":       username,
				"tenant_id":      tenantID,
				"net_amount":     netAmount,
				"line_count":     len(lines),
			},
		},
		TransactionID: transactionID,
		Username:      username,
		TenantID:      tenantID,
		NetAmount:     netAmount,
		Lines:         lines,
	}
}

// ItemNames returns the distinct item names of the transaction, in order of first appearance.
func (e *TransactionCreatedEvent) ItemNames() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	names := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.ItemName]; ok {
			continue
		}
		seen[l.ItemName] = struct{}{}
		names = append(names, l.ItemName)
	}
	return names
}
