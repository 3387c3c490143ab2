package amqp

import (
	"testing"
	"time"

	"finbot/internal/core"
)

func TestTransactionMessageRoundTrip(t *testing.T) {
	tx := core.Transaction{
		ID:       123,
		UserID:   7,
		Amount:   500,
		Category: "coffee",
		At:       time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
		Kind:     core.Expense,
	}

	msg := NewTransactionMessage(EventRecorded, tx)
	if msg.Event != EventRecorded {
		t.Fatalf("event = %q, want %q", msg.Event, EventRecorded)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	back, err := TransactionMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Kind != core.Expense || back.ID != 123 || back.UserID != 7 ||
		back.Amount != 500 || back.Category != "coffee" || !back.At.Equal(tx.At) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestTransactionMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TransactionMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
