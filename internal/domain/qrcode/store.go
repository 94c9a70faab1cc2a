package qrcode

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
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

// DueStartEvents lists the distinct start instants of scheduled normal
// shifts matching now at second resolution.
func (s *Store) DueStartEvents(ctx context.Context, now time.Time) ([]time.Time, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT start_at
    FROM shifts
    WHERE status = 'scheduled'
      AND shift_type = 'normal'
      AND date_trunc('second', start_at) = date_trunc('second', $1::timestamptz)
    ORDER BY start_at
  `, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		events = append(events, t)
	}
	return events, nil
}

func (s *Store) ActiveAdmissionExists(ctx context.Context, eventAt time.Time) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM qr_codes
    WHERE purpose = 'clock_in' AND status = 'active' AND event_at = $1
  `, eventAt).Scan(&count)
	return count > 0, err
}

// NormalShiftEndsNow reports whether any scheduled normal shift ends at
// this instant (second resolution).
func (s *Store) NormalShiftEndsNow(ctx context.Context, now time.Time) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM shifts
    WHERE status = 'scheduled'
      AND shift_type = 'normal'
      AND date_trunc('second', end_at) = date_trunc('second', $1::timestamptz)
  `, now).Scan(&count)
	return count > 0, err
}

func (s *Store) ActiveByPurposeAndDay(ctx context.Context, purpose string, day time.Time) (*Code, error) {
	var c Code
	err := s.DB.QueryRow(ctx, `
    SELECT id, code_value, purpose, code_date, event_at, generated_at, expires_at, status
    FROM qr_codes
    WHERE purpose = $1 AND status = 'active' AND code_date = ($2::timestamptz AT TIME ZONE 'UTC')::date
    ORDER BY generated_at DESC
    LIMIT 1
  `, purpose, day).Scan(&c.ID, &c.Value, &c.Purpose, &c.CodeDate, &c.EventAt, &c.GeneratedAt, &c.ExpiresAt, &c.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) Insert(ctx context.Context, purpose string, eventAt *time.Time, generatedAt, expiresAt time.Time) (Code, error) {
	code := Code{
		Value:       uuid.NewString(),
		Purpose:     purpose,
		CodeDate:    generatedAt.UTC().Truncate(24 * time.Hour),
		EventAt:     eventAt,
		GeneratedAt: generatedAt,
		ExpiresAt:   expiresAt,
		Status:      StatusActive,
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO qr_codes (code_value, purpose, code_date, event_at, generated_at, expires_at, status)
    VALUES ($1,$2,$3,$4,$5,$6,'active')
    RETURNING id
  `, code.Value, code.Purpose, code.CodeDate, code.EventAt, code.GeneratedAt, code.ExpiresAt).Scan(&code.ID)
	return code, err
}

func (s *Store) ByValue(ctx context.Context, value string) (*Code, error) {
	return s.scanOne(ctx, `
    SELECT id, code_value, purpose, code_date, event_at, generated_at, expires_at, status
    FROM qr_codes
    WHERE code_value = $1
  `, value)
}

func (s *Store) ByID(ctx context.Context, id string) (*Code, error) {
	return s.scanOne(ctx, `
    SELECT id, code_value, purpose, code_date, event_at, generated_at, expires_at, status
    FROM qr_codes
    WHERE id = $1
  `, id)
}

func (s *Store) scanOne(ctx context.Context, query string, arg any) (*Code, error) {
	var c Code
	err := s.DB.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Value, &c.Purpose, &c.CodeDate, &c.EventAt, &c.GeneratedAt, &c.ExpiresAt, &c.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkExpired flips a single code from active to expired.
func (s *Store) MarkExpired(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE qr_codes
    SET status = 'expired'
    WHERE id = $1 AND status = 'active'
  `, id)
	return err
}

// ExpireDue expires every active code whose window has passed.
func (s *Store) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE qr_codes
    SET status = 'expired'
    WHERE status = 'active' AND expires_at <= $1
  `, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ExpiredProofExists reports whether a proof code for the purpose
// already expired today, which is the trigger for resolving that day's
// shifts even if the resolution failed on an earlier tick.
func (s *Store) ExpiredProofExists(ctx context.Context, purpose string, day time.Time) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM qr_codes
    WHERE purpose = $1 AND status = 'expired' AND code_date = ($2::timestamptz AT TIME ZONE 'UTC')::date
  `, purpose, day).Scan(&count)
	return count > 0, err
}

func (s *Store) AttendanceExists(ctx context.Context, employeeID, shiftID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM attendance WHERE employee_id = $1 AND shift_id = $2
  `, employeeID, shiftID).Scan(&count)
	return count > 0, err
}

func (s *Store) InsertAttendance(ctx context.Context, employeeID, shiftID string, clockIn time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO attendance (employee_id, shift_id, clock_in, status)
    VALUES ($1,$2,$3,'absent')
  `, employeeID, shiftID, clockIn)
	return err
}

// CloseAttendance stamps the clock-out on an open attendance row and
// marks the employee present. Returns false when no open row exists.
func (s *Store) CloseAttendance(ctx context.Context, employeeID, shiftID string, clockOut time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance
    SET clock_out = $1, status = 'present'
    WHERE employee_id = $2 AND shift_id = $3 AND clock_out IS NULL
  `, clockOut, employeeID, shiftID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
