package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shifthub/internal/domain/directory"
	"shifthub/internal/domain/notifications"
	"shifthub/internal/domain/qrcode"
	"shifthub/internal/domain/shift"
)

type Service struct {
	Store     *Store
	Shifts    *shift.Store
	Directory *directory.Store
	Notify    *notifications.Service

	QRValidity    time.Duration
	ProofValidity time.Duration
}

func NewService(store *Store, shifts *shift.Store, dir *directory.Store, notify *notifications.Service, qrValidity, proofValidity time.Duration) *Service {
	return &Service{
		Store:         store,
		Shifts:        shifts,
		Directory:     dir,
		Notify:        notify,
		QRValidity:    qrValidity,
		ProofValidity: proofValidity,
	}
}

// Open starts an overtime session: one admission QR, one session row
// bound to the requested roles, and one scheduled overtime shift per
// eligible employee, all in a single unit of work.
func (s *Service) Open(ctx context.Context, roleIDs []string, durationMinutes int, now time.Time) (OpenResult, error) {
	if err := ValidateOpen(roleIDs, durationMinutes); err != nil {
		return OpenResult{}, err
	}
	allExist, err := s.Directory.RolesExist(ctx, roleIDs)
	if err != nil {
		return OpenResult{}, err
	}
	if !allExist {
		return OpenResult{}, ErrInvalidParameters
	}

	titles := make([]string, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		role, err := s.Directory.RoleByID(ctx, roleID)
		if err != nil {
			return OpenResult{}, err
		}
		titles = append(titles, role.Title)
	}

	scheduleID, err := s.Shifts.EnsurePeriod(ctx, now)
	if err != nil {
		return OpenResult{}, err
	}

	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return OpenResult{}, err
	}
	defer tx.Rollback(ctx)

	outbox := notifications.NewOutbox(s.Notify)

	endAt := now.Add(time.Duration(durationMinutes) * time.Minute)

	codeID, codeValue, err := s.Store.InsertCodeTx(ctx, tx, qrcode.PurposeOvertime, now, now.Add(s.QRValidity))
	if err != nil {
		return OpenResult{}, err
	}

	sess, err := s.Store.InsertSessionTx(ctx, tx, codeID, now, endAt)
	if err != nil {
		return OpenResult{}, err
	}
	if err := s.Store.InsertSessionRolesTx(ctx, tx, sess.ID, roleIDs); err != nil {
		return OpenResult{}, err
	}
	sess.RoleIDs = roleIDs

	employeeIDs, err := s.Store.EligibleEmployeesTx(ctx, tx, roleIDs)
	if err != nil {
		return OpenResult{}, err
	}

	created := make([]CreatedShift, 0, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		shiftID, err := s.Store.InsertOvertimeShiftTx(ctx, tx, employeeID, scheduleID, now, endAt)
		if err != nil {
			return OpenResult{}, err
		}
		created = append(created, CreatedShift{ShiftID: shiftID, EmployeeID: employeeID})
		outbox.Add(employeeID, notifications.TypeOvertimeOpened,
			"Overtime opened",
			fmt.Sprintf("An overtime window for %s is open until %s. Scan the overtime code to clock in.",
				strings.Join(titles, ", "), endAt.Format("15:04")))
	}

	if err := tx.Commit(ctx); err != nil {
		outbox.Discard()
		return OpenResult{}, err
	}
	outbox.Flush(ctx)

	return OpenResult{
		Session:       sess,
		CodeID:        codeID,
		CodeValue:     codeValue,
		Expiration:    now.Add(s.QRValidity),
		CreatedShifts: created,
	}, nil
}

// Extend pushes the session end and every still-scheduled overtime
// shift of the session's roles for today by the same delta.
func (s *Service) Extend(ctx context.Context, sessionID string, additionalMinutes int, now time.Time) (time.Time, error) {
	if err := ValidateExtension(additionalMinutes); err != nil {
		return time.Time{}, err
	}

	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer tx.Rollback(ctx)

	sess, err := s.Store.OngoingSessionTx(ctx, tx, sessionID)
	if err != nil {
		return time.Time{}, err
	}

	newEnd := ExtendedEnd(sess.EndAt, additionalMinutes)
	if err := s.Store.UpdateSessionEndTx(ctx, tx, sess.ID, newEnd); err != nil {
		return time.Time{}, err
	}

	delta := time.Duration(additionalMinutes) * time.Minute
	extended, err := s.Store.ExtendShiftsTx(ctx, tx, sess.ID, delta, now)
	if err != nil {
		return time.Time{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return time.Time{}, err
	}
	slog.Info("overtime session extended", "sessionId", sess.ID, "minutes", additionalMinutes, "shiftsExtended", extended)
	return newEnd, nil
}

// End closes an on-going session: issue (or reuse) today's shared
// overtime proof code, complete the session and expire its admission
// code. Returns the proof code id and value.
func (s *Service) End(ctx context.Context, sessionID string, now time.Time) (string, string, time.Time, error) {
	return s.closeSession(ctx, sessionID, now)
}

// SweepAutoClose force-completes every on-going session whose end has
// passed, exactly as a manual End. Sessions cannot stay open forever.
func (s *Service) SweepAutoClose(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.Store.OverdueSessionIDs(ctx, now)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, id := range ids {
		if _, _, _, err := s.closeSession(ctx, id, now); err != nil {
			slog.Warn("overtime auto-close failed", "sessionId", id, "err", err)
			continue
		}
		closed++
	}
	return closed, nil
}

func (s *Service) closeSession(ctx context.Context, sessionID string, now time.Time) (string, string, time.Time, error) {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return "", "", time.Time{}, err
	}
	defer tx.Rollback(ctx)

	sess, err := s.Store.OngoingSessionTx(ctx, tx, sessionID)
	if err != nil {
		return "", "", time.Time{}, err
	}

	proofID, proofValue, proofExpires, err := s.Store.ActiveProofTx(ctx, tx, now)
	if err != nil {
		return "", "", time.Time{}, err
	}
	if proofID == "" {
		proofExpires = now.Add(s.ProofValidity)
		proofID, proofValue, err = s.Store.InsertCodeTx(ctx, tx, qrcode.PurposeOvertimeAttendance, now, proofExpires)
		if err != nil {
			return "", "", time.Time{}, err
		}
	}

	if err := s.Store.CompleteSessionTx(ctx, tx, sess.ID, proofID); err != nil {
		return "", "", time.Time{}, err
	}
	if err := s.Store.ExpireCodeTx(ctx, tx, sess.QRCodeID); err != nil {
		return "", "", time.Time{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", "", time.Time{}, err
	}
	return proofID, proofValue, proofExpires, nil
}
