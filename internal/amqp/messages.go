package amqp

import (
	"encoding/json"
	"time"

	"finbot/internal/core"
)

const (
	EventRecorded = "transaction.recorded"
	EventDeleted  = "transaction.deleted"
)

// TransactionMessage is the event published after a ledger write. It
// carries the full record so consumers do not need database access.
type TransactionMessage struct {
	Event    string    `json:"event"`
	Kind     core.Kind `json:"kind"`
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	Amount   int64     `json:"amount"`
	Category string    `json:"category"`
	At       time.Time `json:"at"`
	Emitted  time.Time `json:"emitted"`
}

// NewTransactionMessage builds an event for one recorded or deleted
// transaction.
func NewTransactionMessage(event string, tx core.Transaction) *TransactionMessage {
	return &TransactionMessage{
		Event:    event,
		Kind:     tx.Kind,
		ID:       tx.ID,
		UserID:   tx.UserID,
		Amount:   tx.Amount,
		Category: tx.Category,
		At:       tx.At,
		Emitted:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
