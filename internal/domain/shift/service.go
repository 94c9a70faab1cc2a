package shift

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"shifthub/internal/domain/notifications"
)

type Service struct {
	Store  *Store
	Notify *notifications.Service
}

func NewService(store *Store, notify *notifications.Service) *Service {
	return &Service{Store: store, Notify: notify}
}

// ResolveDay moves every scheduled shift of the given type whose end
// fell on day out of the scheduled state: present attendance completes
// it, anything else is a miss. Safe to re-run; resolved rows no longer
// match the scheduled predicate.
func (s *Service) ResolveDay(ctx context.Context, shiftType string, day, now time.Time) (int, error) {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	outbox := notifications.NewOutbox(s.Notify)

	shifts, err := s.Store.ScheduledEndingOnTx(ctx, tx, shiftType, day, now)
	if err != nil {
		return 0, err
	}
	if len(shifts) == 0 {
		return 0, nil
	}

	var managers []string
	resolved := 0
	for _, sh := range shifts {
		att, err := s.Store.AttendanceForTx(ctx, tx, sh.EmployeeID, sh.ID)
		if err != nil {
			return 0, err
		}
		status := Resolve(att)
		changed, err := s.Store.UpdateStatusTx(ctx, tx, sh.ID, status)
		if err != nil {
			return 0, err
		}
		if !changed {
			continue
		}
		resolved++

		if status == StatusMissed {
			if managers == nil {
				managers, err = s.Notify.ManagerIDs(ctx)
				if err != nil {
					slog.Warn("manager lookup for miss notification failed", "err", err)
					managers = []string{}
				}
			}
			body := fmt.Sprintf("Employee %s missed their %s shift (%s - %s).",
				sh.EmployeeID, sh.ShiftType,
				sh.StartAt.Format("15:04"), sh.EndAt.Format("15:04"))
			for _, managerID := range managers {
				outbox.Add(managerID, notifications.TypeShiftMissed, "Shift missed", body)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		outbox.Discard()
		return 0, err
	}
	outbox.Flush(ctx)
	return resolved, nil
}

// Cancel records a cancellation for later processing by the standby
// engine. The shift must still be scheduled.
func (s *Service) Cancel(ctx context.Context, employeeID, shiftID string) (string, error) {
	sh, err := s.Store.ShiftByID(ctx, shiftID)
	if err != nil {
		return "", err
	}
	if sh.Status != StatusScheduled {
		return "", ErrShiftNotActive
	}
	if sh.EmployeeID != employeeID {
		return "", ErrNotShiftOwner
	}
	return s.Store.CreateCancellation(ctx, employeeID, shiftID)
}

// ProcessCancellations is the standby replacement engine. Each
// cancellation is handled in its own transaction so one bad row cannot
// poison the batch; a failed row is retried on the next tick.
func (s *Service) ProcessCancellations(ctx context.Context) (int, error) {
	cancellations, err := s.Store.UnprocessedCancellations(ctx)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, c := range cancellations {
		if err := s.processCancellation(ctx, c); err != nil {
			slog.Warn("cancellation processing failed", "cancellationId", c.ID, "err", err)
			continue
		}
		processed++
	}
	return processed, nil
}

func (s *Service) processCancellation(ctx context.Context, c Cancellation) error {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	outbox := notifications.NewOutbox(s.Notify)

	original, err := s.Store.ShiftByIDTx(ctx, tx, c.ShiftID)
	if err != nil {
		return err
	}

	// The cancelled shift is missed immediately, not on a timer.
	if _, err := s.Store.UpdateStatusTx(ctx, tx, original.ID, StatusMissed); err != nil {
		return err
	}

	roleID, err := s.Store.EmployeeRoleTx(ctx, tx, c.EmployeeID)
	if err != nil {
		return err
	}

	candidateIDs, err := s.Store.StandbyCandidatesTx(ctx, tx, roleID, c.EmployeeID)
	if err != nil {
		return err
	}

	managers, err := s.Notify.ManagerIDs(ctx)
	if err != nil {
		slog.Warn("manager lookup for cancellation failed", "err", err)
		managers = []string{}
	}

	shiftDesc := fmt.Sprintf("%s shift on %s (%s - %s)",
		original.ShiftType,
		original.StartAt.Format("2006-01-02"),
		original.StartAt.Format("15:04"), original.EndAt.Format("15:04"))

	if len(candidateIDs) == 0 {
		for _, managerID := range managers {
			outbox.Add(managerID, notifications.TypeStandbyUnavailable,
				"Contingency plan required",
				fmt.Sprintf("No standby employee available to cover the %s. A contingency plan is required.", shiftDesc))
		}
		return s.finishCancellation(ctx, tx, c.ID, outbox)
	}

	candidates := make([]Candidate, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		busy, err := s.Store.BusyWindowsTx(ctx, tx, id, original.StartAt)
		if err != nil {
			return err
		}
		candidates = append(candidates, Candidate{EmployeeID: id, Busy: busy})
	}

	selected, ok := SelectReplacement(candidates, Window{Start: original.StartAt, End: original.EndAt})
	if !ok {
		for _, managerID := range managers {
			outbox.Add(managerID, notifications.TypeStandbyExhausted,
				"Standby pool exhausted",
				fmt.Sprintf("Every standby employee has a conflicting shift; the %s remains uncovered.", shiftDesc))
		}
		return s.finishCancellation(ctx, tx, c.ID, outbox)
	}

	replacementID, err := s.Store.InsertReplacementTx(ctx, tx, selected, original)
	if err != nil {
		return err
	}

	outbox.Add(selected, notifications.TypeReplacementAssigned,
		"Replacement shift assigned",
		fmt.Sprintf("You have been assigned to cover the %s.", shiftDesc))
	for _, managerID := range managers {
		outbox.Add(managerID, notifications.TypeReplacementConfirmed,
			"Replacement confirmed",
			fmt.Sprintf("Employee %s covers the %s (replacement shift %s).", selected, shiftDesc, replacementID))
	}

	return s.finishCancellation(ctx, tx, c.ID, outbox)
}

// finishCancellation sets the processed flag in the same unit of work
// as the side effects, then flushes the buffered notifications once the
// commit is durable.
func (s *Service) finishCancellation(ctx context.Context, tx pgx.Tx, cancellationID string, outbox *notifications.Outbox) error {
	if err := s.Store.MarkCancellationProcessedTx(ctx, tx, cancellationID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		outbox.Discard()
		return err
	}
	outbox.Flush(ctx)
	return nil
}
