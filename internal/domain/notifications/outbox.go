package notifications

import (
	"context"
	"log/slog"
)

// Sink receives buffered messages after a transaction commits.
type Sink interface {
	Notify(ctx context.Context, employeeID, ntype, title, body string) error
}

type Message struct {
	EmployeeID string
	Type       string
	Title      string
	Body       string
}

// Outbox buffers notifications produced inside a unit of work so a
// rollback never leaves a ghost notification for a mutation that did
// not persist. Callers Add during the transaction and Flush only after
// commit succeeds.
type Outbox struct {
	sink    Sink
	pending []Message
}

func NewOutbox(sink Sink) *Outbox {
	return &Outbox{sink: sink}
}

func (o *Outbox) Add(employeeID, ntype, title, body string) {
	o.pending = append(o.pending, Message{EmployeeID: employeeID, Type: ntype, Title: title, Body: body})
}

func (o *Outbox) Pending() int {
	return len(o.pending)
}

// Flush dispatches everything buffered so far. Delivery failures are
// logged and skipped; they must not block the committed sweep.
func (o *Outbox) Flush(ctx context.Context) {
	for _, msg := range o.pending {
		if err := o.sink.Notify(ctx, msg.EmployeeID, msg.Type, msg.Title, msg.Body); err != nil {
			slog.Warn("notification dispatch failed", "type", msg.Type, "employeeId", msg.EmployeeID, "err", err)
		}
	}
	o.pending = o.pending[:0]
}

// Discard drops buffered messages, used when the transaction rolls back.
func (o *Outbox) Discard() {
	o.pending = o.pending[:0]
}
