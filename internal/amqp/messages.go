package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseCreatedMessage is the payload published when an expense is saved.
// It carries only identifiers; consumers fetch the full record themselves.
type ExpenseCreatedMessage struct {
	ID        int64     `json:"id"`
	CardID    int64     `json:"card_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseCreatedMessage(id, cardID int64) *ExpenseCreatedMessage {
	return &ExpenseCreatedMessage{
		ID:        id,
		CardID:    cardID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseCreatedMessageFromJSON parses a message from JSON bytes.
func ExpenseCreatedMessageFromJSON(data []byte) (*ExpenseCreatedMessage, error) {
	var msg ExpenseCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
