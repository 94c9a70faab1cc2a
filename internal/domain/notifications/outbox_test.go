package notifications

import (
	"context"
	"errors"
	"testing"
)

type recordingSink struct {
	sent   []Message
	failOn string
}

func (r *recordingSink) Notify(ctx context.Context, employeeID, ntype, title, body string) error {
	if ntype == r.failOn {
		return errors.New("sink unavailable")
	}
	r.sent = append(r.sent, Message{EmployeeID: employeeID, Type: ntype, Title: title, Body: body})
	return nil
}

func TestOutboxFlushDispatchesAll(t *testing.T) {
	sink := &recordingSink{}
	outbox := NewOutbox(sink)

	outbox.Add("e1", TypeShiftMissed, "Shift missed", "no attendance recorded")
	outbox.Add("e2", TypeClockIn, "Clock-in recorded", "welcome")

	outbox.Flush(context.Background())

	if len(sink.sent) != 2 {
		t.Fatalf("expected 2 dispatched, got %d", len(sink.sent))
	}
	if outbox.Pending() != 0 {
		t.Fatalf("expected empty outbox after flush, got %d", outbox.Pending())
	}
}

func TestOutboxFlushContinuesPastFailures(t *testing.T) {
	sink := &recordingSink{failOn: TypeShiftMissed}
	outbox := NewOutbox(sink)

	outbox.Add("e1", TypeShiftMissed, "Shift missed", "no attendance recorded")
	outbox.Add("e2", TypeClockOut, "Clock-out recorded", "thanks")

	outbox.Flush(context.Background())

	if len(sink.sent) != 1 {
		t.Fatalf("expected 1 dispatched past the failure, got %d", len(sink.sent))
	}
	if sink.sent[0].Type != TypeClockOut {
		t.Fatalf("expected the clock-out message, got %s", sink.sent[0].Type)
	}
}

func TestOutboxDiscard(t *testing.T) {
	sink := &recordingSink{}
	outbox := NewOutbox(sink)

	outbox.Add("e1", TypeClockIn, "Clock-in recorded", "welcome")
	outbox.Discard()
	outbox.Flush(context.Background())

	if len(sink.sent) != 0 {
		t.Fatalf("expected nothing dispatched after discard, got %d", len(sink.sent))
	}
}
