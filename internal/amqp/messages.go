package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"spendboard/internal/core"
	"spendboard/internal/expenses"
)

// ExpenseEventMessage announces an add or delete on the expense store.
// It carries the full expense so consumers need no access to the store.
type ExpenseEventMessage struct {
	Type      expenses.EventType `json:"type"`
	Expense   core.Expense       `json:"expense"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewExpenseEventMessage stamps ev with the current time.
func NewExpenseEventMessage(ev expenses.Event) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Type:      ev.Type,
		Expense:   ev.Expense,
		Timestamp: time.Now(),
	}
}

// RoutingKey is the topic the message is published under.
func (m *ExpenseEventMessage) RoutingKey() string {
	return string(m.Type)
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON decodes a message and checks its type.
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Type {
	case expenses.EventAdded, expenses.EventDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	return &msg, nil
}
