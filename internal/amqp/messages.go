package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEvent is the message published when a transaction is
// created or deleted. It carries only the id and action; consumers
// fetch the full record from the store.
type TransactionEvent struct {
	TransactionID string    `json:"transactionId"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(id, action string) *TransactionEvent {
	return &TransactionEvent{
		TransactionID: id,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Action {
	case ActionCreated, ActionDeleted:
	default:
		return nil, fmt.Errorf("unknown event action: %q", e.Action)
	}
	return &e, nil
}
