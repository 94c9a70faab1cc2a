package overtime

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

// InsertCodeTx writes a QR row inside the session's unit of work so a
// failed open never leaves an orphaned active code.
func (s *Store) InsertCodeTx(ctx context.Context, tx pgx.Tx, purpose string, now, expiresAt time.Time) (string, string, error) {
	value := uuid.NewString()
	var id string
	err := tx.QueryRow(ctx, `
    INSERT INTO qr_codes (code_value, purpose, code_date, generated_at, expires_at, status)
    VALUES ($1,$2,($3::timestamptz AT TIME ZONE 'UTC')::date,$4,$5,'active')
    RETURNING id
  `, value, purpose, now, now, expiresAt).Scan(&id)
	return id, value, err
}

func (s *Store) InsertSessionTx(ctx context.Context, tx pgx.Tx, qrCodeID string, now, endAt time.Time) (Session, error) {
	sess := Session{
		QRCodeID:    qrCodeID,
		SessionDate: now.UTC().Truncate(24 * time.Hour),
		StartAt:     now,
		EndAt:       endAt,
		Status:      StatusOngoing,
	}
	err := tx.QueryRow(ctx, `
    INSERT INTO overtime_sessions (qr_code_id, session_date, start_at, end_at, status)
    VALUES ($1,($2::timestamptz AT TIME ZONE 'UTC')::date,$3,$4,'on-going')
    RETURNING id
  `, qrCodeID, now, now, endAt).Scan(&sess.ID)
	return sess, err
}

func (s *Store) InsertSessionRolesTx(ctx context.Context, tx pgx.Tx, sessionID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx, `
      INSERT INTO overtime_session_roles (session_id, role_id)
      VALUES ($1,$2)
    `, sessionID, roleID); err != nil {
			return err
		}
	}
	return nil
}

// EligibleEmployeesTx lists employees of the session's roles who are
// not on leave.
func (s *Store) EligibleEmployeesTx(ctx context.Context, tx pgx.Tx, roleIDs []string) ([]string, error) {
	rows, err := tx.Query(ctx, `
    SELECT id
    FROM employees
    WHERE role_id = ANY($1) AND status <> 'On Leave'
    ORDER BY id
  `, roleIDs)
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

func (s *Store) InsertOvertimeShiftTx(ctx context.Context, tx pgx.Tx, employeeID, scheduleID string, startAt, endAt time.Time) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
    INSERT INTO shifts (employee_id, schedule_id, shift_type, start_at, end_at, status)
    VALUES ($1,$2,'overtime',$3,$4,'scheduled')
    RETURNING id
  `, employeeID, scheduleID, startAt, endAt).Scan(&id)
	return id, err
}

// OngoingSessionTx loads a session only while it is on-going.
func (s *Store) OngoingSessionTx(ctx context.Context, tx pgx.Tx, sessionID string) (Session, error) {
	var sess Session
	err := tx.QueryRow(ctx, `
    SELECT id, qr_code_id, proof_qr_id, session_date, start_at, end_at, status
    FROM overtime_sessions
    WHERE id = $1 AND status = 'on-going'
  `, sessionID).Scan(&sess.ID, &sess.QRCodeID, &sess.ProofQRID, &sess.SessionDate, &sess.StartAt, &sess.EndAt, &sess.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return sess, err
}

func (s *Store) SessionByID(ctx context.Context, sessionID string) (*Session, error) {
	var sess Session
	err := s.DB.QueryRow(ctx, `
    SELECT id, qr_code_id, proof_qr_id, session_date, start_at, end_at, status
    FROM overtime_sessions
    WHERE id = $1
  `, sessionID).Scan(&sess.ID, &sess.QRCodeID, &sess.ProofQRID, &sess.SessionDate, &sess.StartAt, &sess.EndAt, &sess.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(ctx, "SELECT role_id FROM overtime_session_roles WHERE session_id = $1 ORDER BY role_id", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var roleID string
		if err := rows.Scan(&roleID); err != nil {
			return nil, err
		}
		sess.RoleIDs = append(sess.RoleIDs, roleID)
	}
	return &sess, rows.Err()
}

func (s *Store) UpdateSessionEndTx(ctx context.Context, tx pgx.Tx, sessionID string, endAt time.Time) error {
	_, err := tx.Exec(ctx, `
    UPDATE overtime_sessions
    SET end_at = $1
    WHERE id = $2 AND status = 'on-going'
  `, endAt, sessionID)
	return err
}

// ExtendShiftsTx pushes the delta onto every still-scheduled overtime
// shift for the session's roles today. The session is the unit being
// extended, so this matches all employees of those roles, not only the
// ones who have clocked in.
func (s *Store) ExtendShiftsTx(ctx context.Context, tx pgx.Tx, sessionID string, delta time.Duration, day time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `
    UPDATE shifts
    SET end_at = end_at + $1::interval
    WHERE status = 'scheduled'
      AND shift_type = 'overtime'
      AND (start_at AT TIME ZONE 'UTC')::date = ($2::timestamptz AT TIME ZONE 'UTC')::date
      AND employee_id IN (
        SELECT id FROM employees
        WHERE role_id IN (SELECT role_id FROM overtime_session_roles WHERE session_id = $3)
      )
  `, delta, day, sessionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) CompleteSessionTx(ctx context.Context, tx pgx.Tx, sessionID, proofQRID string) error {
	_, err := tx.Exec(ctx, `
    UPDATE overtime_sessions
    SET status = 'completed', proof_qr_id = $1
    WHERE id = $2 AND status = 'on-going'
  `, proofQRID, sessionID)
	return err
}

func (s *Store) ExpireCodeTx(ctx context.Context, tx pgx.Tx, codeID string) error {
	_, err := tx.Exec(ctx, `
    UPDATE qr_codes
    SET status = 'expired'
    WHERE id = $1 AND status = 'active'
  `, codeID)
	return err
}

// ActiveProofTx finds today's active overtime proof code inside the
// closing transaction, so concurrent closes share one code.
func (s *Store) ActiveProofTx(ctx context.Context, tx pgx.Tx, day time.Time) (string, string, time.Time, error) {
	var id, value string
	var expiresAt time.Time
	err := tx.QueryRow(ctx, `
    SELECT id, code_value, expires_at
    FROM qr_codes
    WHERE purpose = 'overtime_attendance' AND status = 'active' AND code_date = ($1::timestamptz AT TIME ZONE 'UTC')::date
    ORDER BY generated_at DESC
    LIMIT 1
  `, day).Scan(&id, &value, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", time.Time{}, nil
	}
	return id, value, expiresAt, err
}

// OverdueSessionIDs lists on-going sessions whose window has passed.
func (s *Store) OverdueSessionIDs(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id
    FROM overtime_sessions
    WHERE status = 'on-going' AND end_at <= $1
    ORDER BY end_at, id
  `, now)
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
