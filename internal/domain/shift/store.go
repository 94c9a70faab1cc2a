package shift

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.DB.Begin(ctx)
}

// ScheduledEndingOnTx lists scheduled shifts of a type whose end falls
// on the given day and has already passed.
func (s *Store) ScheduledEndingOnTx(ctx context.Context, tx pgx.Tx, shiftType string, day, now time.Time) ([]Shift, error) {
	rows, err := tx.Query(ctx, `
    SELECT id, employee_id, schedule_id, shift_type, start_at, end_at, status, is_replacement, created_at
    FROM shifts
    WHERE status = 'scheduled'
      AND shift_type = $1
      AND (end_at AT TIME ZONE 'UTC')::date = ($2::timestamptz AT TIME ZONE 'UTC')::date
      AND end_at <= $3
    ORDER BY end_at, id
  `, shiftType, day, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShifts(rows)
}

func (s *Store) AttendanceForTx(ctx context.Context, tx pgx.Tx, employeeID, shiftID string) (*Attendance, error) {
	var a Attendance
	err := tx.QueryRow(ctx, `
    SELECT id, employee_id, shift_id, clock_in, clock_out, status
    FROM attendance
    WHERE employee_id = $1 AND shift_id = $2
  `, employeeID, shiftID).Scan(&a.ID, &a.EmployeeID, &a.ShiftID, &a.ClockIn, &a.ClockOut, &a.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateStatusTx moves a shift out of scheduled. The status predicate
// keeps re-runs of a sweep from touching already-resolved rows.
func (s *Store) UpdateStatusTx(ctx context.Context, tx pgx.Tx, shiftID, to string) (bool, error) {
	tag, err := tx.Exec(ctx, `
    UPDATE shifts
    SET status = $1
    WHERE id = $2 AND status = 'scheduled'
  `, to, shiftID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ShiftByIDTx(ctx context.Context, tx pgx.Tx, shiftID string) (Shift, error) {
	var sh Shift
	err := tx.QueryRow(ctx, `
    SELECT id, employee_id, schedule_id, shift_type, start_at, end_at, status, is_replacement, created_at
    FROM shifts
    WHERE id = $1
  `, shiftID).Scan(&sh.ID, &sh.EmployeeID, &sh.ScheduleID, &sh.ShiftType, &sh.StartAt, &sh.EndAt, &sh.Status, &sh.IsReplacement, &sh.CreatedAt)
	return sh, err
}

func (s *Store) ShiftByID(ctx context.Context, shiftID string) (Shift, error) {
	var sh Shift
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, schedule_id, shift_type, start_at, end_at, status, is_replacement, created_at
    FROM shifts
    WHERE id = $1
  `, shiftID).Scan(&sh.ID, &sh.EmployeeID, &sh.ScheduleID, &sh.ShiftType, &sh.StartAt, &sh.EndAt, &sh.Status, &sh.IsReplacement, &sh.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shift{}, ErrShiftNotFound
	}
	return sh, err
}

// FindActiveShift locates the employee's scheduled shift whose
// [start, end) window contains the given instant.
func (s *Store) FindActiveShift(ctx context.Context, employeeID, shiftType string, at time.Time) (*Shift, error) {
	var sh Shift
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, schedule_id, shift_type, start_at, end_at, status, is_replacement, created_at
    FROM shifts
    WHERE employee_id = $1
      AND shift_type = $2
      AND status = 'scheduled'
      AND start_at <= $3
      AND end_at > $3
    ORDER BY start_at
    LIMIT 1
  `, employeeID, shiftType, at).Scan(&sh.ID, &sh.EmployeeID, &sh.ScheduleID, &sh.ShiftType, &sh.StartAt, &sh.EndAt, &sh.Status, &sh.IsReplacement, &sh.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// FindProofShift locates the employee's scheduled shift eligible for a
// clock-out scan. Proof codes only exist once a shift of the type has
// ended, so a shift stays matchable for the grace window past its end,
// the lifetime of the code itself. A shift that just ended wins over
// one still running.
func (s *Store) FindProofShift(ctx context.Context, employeeID, shiftType string, at time.Time, grace time.Duration) (*Shift, error) {
	var sh Shift
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, schedule_id, shift_type, start_at, end_at, status, is_replacement, created_at
    FROM shifts
    WHERE employee_id = $1
      AND shift_type = $2
      AND status = 'scheduled'
      AND start_at <= $3
      AND end_at > $4
    ORDER BY end_at > $3, end_at DESC
    LIMIT 1
  `, employeeID, shiftType, at, at.Add(-grace)).Scan(&sh.ID, &sh.EmployeeID, &sh.ScheduleID, &sh.ShiftType, &sh.StartAt, &sh.EndAt, &sh.Status, &sh.IsReplacement, &sh.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

func (s *Store) UnprocessedCancellations(ctx context.Context) ([]Cancellation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, shift_id, status, processed, created_at
    FROM shift_cancellations
    WHERE processed = FALSE AND status IN ('pending','approved')
    ORDER BY created_at, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Cancellation
	for rows.Next() {
		var c Cancellation
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.ShiftID, &c.Status, &c.Processed, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) CreateCancellation(ctx context.Context, employeeID, shiftID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_cancellations (employee_id, shift_id)
    VALUES ($1,$2)
    RETURNING id
  `, employeeID, shiftID).Scan(&id)
	return id, err
}

func (s *Store) EmployeeRoleTx(ctx context.Context, tx pgx.Tx, employeeID string) (string, error) {
	var roleID string
	err := tx.QueryRow(ctx, "SELECT role_id FROM employees WHERE id = $1", employeeID).Scan(&roleID)
	return roleID, err
}

// StandbyCandidatesTx lists the standby pool for a role: flagged,
// currently idle, excluding the cancelled employee, ordered by id so
// selection is reproducible.
func (s *Store) StandbyCandidatesTx(ctx context.Context, tx pgx.Tx, roleID, excludeEmployeeID string) ([]string, error) {
	rows, err := tx.Query(ctx, `
    SELECT id
    FROM employees
    WHERE role_id = $1
      AND standby IS TRUE
      AND status = 'Not Working'
      AND id <> $2
    ORDER BY id
  `, roleID, excludeEmployeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// BusyWindowsTx returns a candidate's scheduled and completed shift
// windows on the given date.
func (s *Store) BusyWindowsTx(ctx context.Context, tx pgx.Tx, employeeID string, day time.Time) ([]Window, error) {
	rows, err := tx.Query(ctx, `
    SELECT start_at, end_at
    FROM shifts
    WHERE employee_id = $1
      AND status IN ('scheduled','completed')
      AND (start_at AT TIME ZONE 'UTC')::date = ($2::timestamptz AT TIME ZONE 'UTC')::date
    ORDER BY start_at
  `, employeeID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []Window
	for rows.Next() {
		var w Window
		if err := rows.Scan(&w.Start, &w.End); err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}

func (s *Store) InsertReplacementTx(ctx context.Context, tx pgx.Tx, employeeID string, original Shift) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
    INSERT INTO shifts (employee_id, schedule_id, shift_type, start_at, end_at, status, is_replacement)
    VALUES ($1,$2,$3,$4,$5,'scheduled',TRUE)
    RETURNING id
  `, employeeID, original.ScheduleID, original.ShiftType, original.StartAt, original.EndAt).Scan(&id)
	return id, err
}

func (s *Store) MarkCancellationProcessedTx(ctx context.Context, tx pgx.Tx, cancellationID string) error {
	_, err := tx.Exec(ctx, `
    UPDATE shift_cancellations
    SET processed = TRUE
    WHERE id = $1 AND processed = FALSE
  `, cancellationID)
	return err
}

// EnsurePeriod finds or creates the monthly schedule period covering
// the given day.
func (s *Store) EnsurePeriod(ctx context.Context, day time.Time) (string, error) {
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO schedules (start_date, end_date)
    VALUES ($1,$2)
    ON CONFLICT (start_date, end_date) DO UPDATE SET start_date = EXCLUDED.start_date
    RETURNING id
  `, start, end).Scan(&id)
	return id, err
}

func (s *Store) ListShifts(ctx context.Context, employeeID string, day *time.Time, limit, offset int) ([]Shift, error) {
	query := `
    SELECT id, employee_id, schedule_id, shift_type, start_at, end_at, status, is_replacement, created_at
    FROM shifts
    WHERE ($1 = '' OR employee_id::text = $1)
      AND (($2::timestamptz AT TIME ZONE 'UTC')::date IS NULL OR (start_at AT TIME ZONE 'UTC')::date = ($2::timestamptz AT TIME ZONE 'UTC')::date)
    ORDER BY start_at DESC, id
    LIMIT $3 OFFSET $4
  `
	rows, err := s.DB.Query(ctx, query, employeeID, day, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShifts(rows)
}

func (s *Store) ScheduledForEmployee(ctx context.Context, employeeID string) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, schedule_id, shift_type, start_at, end_at, status, is_replacement, created_at
    FROM shifts
    WHERE employee_id = $1 AND status = 'scheduled'
    ORDER BY start_at
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShifts(rows)
}

func scanShifts(rows pgx.Rows) ([]Shift, error) {
	var out []Shift
	for rows.Next() {
		var sh Shift
		if err := rows.Scan(&sh.ID, &sh.EmployeeID, &sh.ScheduleID, &sh.ShiftType, &sh.StartAt, &sh.EndAt, &sh.Status, &sh.IsReplacement, &sh.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}
