package amqp

import (
	"context"
	"sync"

	"spendboard/internal/expenses"
	"spendboard/internal/log"
)

// Publisher is the part of Client the notifier needs.
type Publisher interface {
	PublishExpenseEvent(ctx context.Context, msg *ExpenseEventMessage) error
}

// NewNotifier returns a store observer that forwards every event to p.
// Publish errors are logged; the store change has already happened.
func NewNotifier(p Publisher, logger *log.Logger) expenses.Observer {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentEvents)
	return func(ctx context.Context, ev expenses.Event) {
		if err := p.PublishExpenseEvent(ctx, NewExpenseEventMessage(ev)); err != nil {
			logger.ErrorContext(ctx, "Failed to publish expense event",
				log.FieldError, err,
				log.FieldExpenseID, ev.Expense.ID,
				log.FieldOperation, log.OpPublish)
		}
	}
}

// EventLog is a consumer handler that logs each expense event and keeps
// running counts per event type.
type EventLog struct {
	logger *log.Logger
	mu     sync.Mutex
	counts map[expenses.EventType]int
}

func NewEventLog(logger *log.Logger) *EventLog {
	if logger == nil {
		logger = log.Discard()
	}
	return &EventLog{
		logger: logger.WithComponent(log.ComponentEvents),
		counts: make(map[expenses.EventType]int),
	}
}

// Handle satisfies the ConsumeExpenseEvents handler signature.
func (l *EventLog) Handle(ctx context.Context, msg *ExpenseEventMessage) error {
	l.mu.Lock()
	l.counts[msg.Type]++
	seen := l.counts[msg.Type]
	l.mu.Unlock()

	fields := log.NewFields().WithExpense(msg.Expense).WithOperation(log.OpConsume)
	fields[log.FieldCount] = seen
	l.logger.InfoContext(ctx, "Expense event received",
		append(fields.ToSlice(), "type", msg.Type, "published_at", msg.Timestamp)...)
	return nil
}

// Count returns how many events of type t were handled.
func (l *EventLog) Count(t expenses.EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[t]
}
