package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"spendboard/internal/core"
	"spendboard/internal/expenses"
	"spendboard/internal/expenses/memory"
	"spendboard/internal/log"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{15, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed delivery channel", errors.New("message channel closed"), true},
		{"other error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := &Client{exchangeName: "test_exchange", queueName: "test_queue"}

	if client.isCircuitOpen() {
		t.Fatal("circuit breaker should be closed initially")
	}

	for i := 0; i < maxFailures-1; i++ {
		client.recordFailure()
	}
	if client.isCircuitOpen() {
		t.Fatal("circuit should stay closed below the failure threshold")
	}
	client.recordFailure()
	if !client.isCircuitOpen() {
		t.Fatal("circuit should open after max failures")
	}

	client.lastFailure = time.Now().Add(-openTimeout - time.Second)
	if client.isCircuitOpen() {
		t.Fatal("circuit should let a probe through after the timeout")
	}
	if atomic.LoadInt32(&client.state) != StateHalfOpen {
		t.Fatalf("state = %d, want half-open", client.state)
	}

	client.recordFailure()
	if atomic.LoadInt32(&client.state) != StateOpen {
		t.Fatal("a failed probe should reopen the circuit")
	}

	client.recordSuccess()
	if client.isCircuitOpen() || atomic.LoadInt64(&client.failureCount) != 0 {
		t.Fatal("success should close the circuit and reset failures")
	}
}

func TestClient_PublishFailsFast(t *testing.T) {
	msg := NewExpenseEventMessage(expenses.Event{Type: expenses.EventAdded, Expense: core.Expense{ID: "1"}})

	t.Run("open circuit", func(t *testing.T) {
		client := &Client{exchangeName: "x", queueName: "q"}
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure = time.Now()

		err := client.PublishExpenseEvent(context.Background(), msg)
		if !errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("expected ErrCircuitOpen, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		client := &Client{exchangeName: "x", queueName: "q"}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := client.PublishExpenseEvent(ctx, msg); err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestExpenseEventMessage_JSON(t *testing.T) {
	msg := &ExpenseEventMessage{
		Type: expenses.EventDeleted,
		Expense: core.Expense{
			ID:            "abc",
			Description:   "Electric Bill",
			Amount:        core.Money{Cents: 8900},
			Category:      core.Utilities,
			Date:          core.NewDate(2025, 11, 25),
			BankAccountID: "amex",
		},
		Timestamp: time.Date(2025, 11, 25, 12, 0, 0, 0, time.UTC),
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	for _, want := range []string{`"type":"expense.deleted"`, `"amount":89.00`, `"date":"2025-11-25"`, `"bankAccountId":"amex"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("encoded message %s lacks %s", body, want)
		}
	}

	parsed, err := ExpenseEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("ExpenseEventMessageFromJSON() error = %v", err)
	}
	if parsed.Expense != msg.Expense || parsed.RoutingKey() != "expense.deleted" {
		t.Errorf("parsed = %+v", parsed)
	}
}

func TestExpenseEventMessage_UnknownType(t *testing.T) {
	if _, err := ExpenseEventMessageFromJSON([]byte(`{"type":"expense.renamed"}`)); err == nil {
		t.Fatal("expected an error for an unknown event type")
	}
	if _, err := ExpenseEventMessageFromJSON([]byte(`{"type":`)); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

type recordingPublisher struct {
	msgs []*ExpenseEventMessage
	err  error
}

func (p *recordingPublisher) PublishExpenseEvent(_ context.Context, msg *ExpenseEventMessage) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestNotifierForwardsStoreEvents(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	store := expenses.NewStore(memory.New(), expenses.WithIDFunc(func() string { return "e1" }))
	store.Subscribe(NewNotifier(pub, nil))

	if _, err := store.Add(ctx, core.ExpenseInput{Description: "Gym", Amount: "30", Category: "Health", Date: "2025-11-01"}); err != nil {
		t.Fatalf("Add should succeed even when publishing fails: %v", err)
	}
	if _, err := store.Delete(ctx, "e1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Delete(ctx, "e1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(pub.msgs) != 2 {
		t.Fatalf("published %d messages, want 2", len(pub.msgs))
	}
	if pub.msgs[0].Type != expenses.EventAdded || pub.msgs[1].Type != expenses.EventDeleted {
		t.Fatalf("unexpected types %s, %s", pub.msgs[0].Type, pub.msgs[1].Type)
	}
	if pub.msgs[1].Expense.Description != "Gym" {
		t.Fatalf("delete event should carry the removed expense, got %+v", pub.msgs[1].Expense)
	}
}

func TestEventLogCountsByType(t *testing.T) {
	var buf strings.Builder
	logger := log.New(log.Config{Format: "json", Output: &buf})
	el := NewEventLog(logger)

	ctx := context.Background()
	exp := core.Expense{ID: "9", Description: "Taxi", Amount: core.Money{Cents: 2000}, Category: core.Transportation}
	for _, typ := range []expenses.EventType{expenses.EventAdded, expenses.EventAdded, expenses.EventDeleted} {
		if err := el.Handle(ctx, &ExpenseEventMessage{Type: typ, Expense: exp}); err != nil {
			t.Fatalf("Handle: %v", err)
		}
	}
	if el.Count(expenses.EventAdded) != 2 || el.Count(expenses.EventDeleted) != 1 {
		t.Fatalf("counts = %d added, %d deleted", el.Count(expenses.EventAdded), el.Count(expenses.EventDeleted))
	}
	if !strings.Contains(buf.String(), `"expense_id":"9"`) || !strings.Contains(buf.String(), `"component":"events"`) {
		t.Fatalf("log output: %s", buf.String())
	}
}
