package qrcode

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shifthub/internal/domain/notifications"
	"shifthub/internal/domain/shift"
)

type Service struct {
	Store  *Store
	Shifts *shift.Service
	Notify *notifications.Service

	AdmissionValidity time.Duration
	ProofValidity     time.Duration
}

func NewService(store *Store, shifts *shift.Service, notify *notifications.Service, admissionValidity, proofValidity time.Duration) *Service {
	return &Service{
		Store:             store,
		Shifts:            shifts,
		Notify:            notify,
		AdmissionValidity: admissionValidity,
		ProofValidity:     proofValidity,
	}
}

// IssueAdmissionDue creates one admission code for every shift-start
// event matching now. Shifts sharing a start instant share the code.
func (s *Service) IssueAdmissionDue(ctx context.Context, now time.Time) (int, error) {
	events, err := s.Store.DueStartEvents(ctx, now)
	if err != nil {
		return 0, err
	}

	issued := 0
	for _, event := range events {
		event := event
		exists, err := s.Store.ActiveAdmissionExists(ctx, event)
		if err != nil {
			return issued, err
		}
		if exists {
			continue
		}
		if _, err := s.Store.Insert(ctx, PurposeClockIn, &event, now, now.Add(s.AdmissionValidity)); err != nil {
			return issued, err
		}
		issued++
	}
	return issued, nil
}

// IssueProofDue creates today's shared proof code the instant any
// normal shift ends. However many shifts end at that instant, at most
// one active proof code exists per day.
func (s *Service) IssueProofDue(ctx context.Context, now time.Time) (bool, error) {
	due, err := s.Store.NormalShiftEndsNow(ctx, now)
	if err != nil {
		return false, err
	}
	if !due {
		return false, nil
	}

	existing, err := s.Store.ActiveByPurposeAndDay(ctx, PurposeAttendance, now)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	if _, err := s.Store.Insert(ctx, PurposeAttendance, nil, now, now.Add(s.ProofValidity)); err != nil {
		return false, err
	}
	return true, nil
}

// ExpireSweep expires stale codes and, whenever a proof purpose has an
// expired code for today, resolves that day's shifts of the matching
// type. Re-running against resolved state is a no-op.
func (s *Service) ExpireSweep(ctx context.Context, now time.Time) error {
	if _, err := s.Store.ExpireDue(ctx, now); err != nil {
		return err
	}

	for _, purpose := range ProofPurposes {
		hasExpired, err := s.Store.ExpiredProofExists(ctx, purpose, now)
		if err != nil {
			return err
		}
		if !hasExpired {
			continue
		}
		shiftType, err := ShiftTypeFor(purpose)
		if err != nil {
			return err
		}
		resolved, err := s.Shifts.ResolveDay(ctx, shiftType, now, now)
		if err != nil {
			return err
		}
		if resolved > 0 {
			slog.Info("proof expiry resolved shifts", "purpose", purpose, "resolved", resolved)
		}
	}
	return nil
}

// Scan validates a code, finds the employee's matching shift and
// records attendance. Admission purposes open an attendance row; proof
// purposes close it. Shared codes stay active until the expiry sweep;
// per-employee duplication is caught on the attendance row instead.
func (s *Service) Scan(ctx context.Context, codeValue, employeeID string, now time.Time) (ScanResult, error) {
	code, err := s.Store.ByValue(ctx, codeValue)
	if err != nil {
		return ScanResult{}, err
	}
	if code == nil {
		return ScanResult{}, ErrCodeNotFound
	}

	if err := Validate(*code, now); err != nil {
		if errors.Is(err, ErrCodeExpired) {
			if markErr := s.Store.MarkExpired(ctx, code.ID); markErr != nil {
				slog.Warn("opportunistic expiry failed", "codeId", code.ID, "err", markErr)
			}
		}
		return ScanResult{}, err
	}

	shiftType, err := ShiftTypeFor(code.Purpose)
	if err != nil {
		return ScanResult{}, err
	}

	// Admission codes match a shift in progress. Proof codes are issued
	// at the end instant, so the matching shift has usually already
	// ended; it stays eligible for as long as the proof code is valid.
	var sh *shift.Shift
	if IsAdmissionPurpose(code.Purpose) {
		sh, err = s.Shifts.Store.FindActiveShift(ctx, employeeID, shiftType, now)
	} else {
		sh, err = s.Shifts.Store.FindProofShift(ctx, employeeID, shiftType, now, s.ProofValidity)
	}
	if err != nil {
		return ScanResult{}, err
	}
	if sh == nil {
		return ScanResult{}, ErrNoMatchingShift
	}

	if IsAdmissionPurpose(code.Purpose) {
		exists, err := s.Store.AttendanceExists(ctx, employeeID, sh.ID)
		if err != nil {
			return ScanResult{}, err
		}
		if exists {
			return ScanResult{}, ErrDuplicateClockIn
		}
		if err := s.Store.InsertAttendance(ctx, employeeID, sh.ID, now); err != nil {
			return ScanResult{}, err
		}
		if err := s.Notify.Notify(ctx, employeeID, notifications.TypeClockIn, "Clock-in recorded", "Your clock-in was recorded. Remember to scan the proof code at shift end."); err != nil {
			slog.Warn("clock-in notification failed", "employeeId", employeeID, "err", err)
		}
		return ScanResult{ShiftID: sh.ID, Purpose: code.Purpose, ClockedIn: true, At: now}, nil
	}

	closed, err := s.Store.CloseAttendance(ctx, employeeID, sh.ID, now)
	if err != nil {
		return ScanResult{}, err
	}
	if !closed {
		return ScanResult{}, ErrNoOpenClockIn
	}
	if err := s.Notify.Notify(ctx, employeeID, notifications.TypeClockOut, "Clock-out recorded", "Your attendance was recorded as present."); err != nil {
		slog.Warn("clock-out notification failed", "employeeId", employeeID, "err", err)
	}
	return ScanResult{ShiftID: sh.ID, Purpose: code.Purpose, ClockedIn: false, At: now}, nil
}

// CurrentAdmission returns today's active admission code, if any.
func (s *Service) CurrentAdmission(ctx context.Context, now time.Time) (*Code, error) {
	return s.Store.ActiveByPurposeAndDay(ctx, PurposeClockIn, now)
}

// ProofByID returns the code when it exists and is a proof purpose.
func (s *Service) ProofByID(ctx context.Context, id string) (*Code, error) {
	code, err := s.Store.ByID(ctx, id)
	if err != nil || code == nil {
		return nil, err
	}
	if !IsProofPurpose(code.Purpose) {
		return nil, nil
	}
	return code, nil
}
