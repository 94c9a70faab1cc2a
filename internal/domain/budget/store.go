package budget

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

// ActualSpend totals the cost of completed shifts in the window: hours
// worked times the role's base or overtime rate.
func (s *Store) ActualSpend(ctx context.Context, periodStart, periodEnd time.Time) (float64, error) {
	var spend float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(
      EXTRACT(EPOCH FROM (sh.end_at - sh.start_at)) / 3600.0 *
      CASE WHEN sh.shift_type = 'overtime' THEN r.overtime_rate ELSE r.base_rate END
    ), 0)
    FROM shifts sh
    JOIN employees e ON sh.employee_id = e.id
    JOIN roles r ON e.role_id = r.id
    WHERE sh.status = 'completed'
      AND sh.start_at >= $1
      AND sh.start_at < $2
  `, periodStart, periodEnd).Scan(&spend)
	return spend, err
}

// CurrentBudget returns the latest adjusted budget recorded before the
// given payment date, or the default when no earlier history exists.
// Bounding the read keeps a re-run of the same period from feeding its
// own output back in as the base.
func (s *Store) CurrentBudget(ctx context.Context, before time.Time) (float64, error) {
	var current float64
	err := s.DB.QueryRow(ctx, `
    SELECT adjusted_budget
    FROM budget_history
    WHERE payment_date < ($1::timestamptz AT TIME ZONE 'UTC')::date
    ORDER BY payment_date DESC
    LIMIT 1
  `, before).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultBudget, nil
	}
	if err != nil {
		return 0, err
	}
	return current, nil
}

// UpsertHistory records the adjustment keyed by payment date, so
// re-running the same pay period overwrites rather than duplicates.
func (s *Store) UpsertHistory(ctx context.Context, paymentDate time.Time, initialBudget, actualSpend, adjustedBudget float64, reason string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO budget_history (payment_date, initial_budget, actual_spend, adjusted_budget, adjustment_reason)
    VALUES (($1::timestamptz AT TIME ZONE 'UTC')::date,$2,$3,$4,$5)
    ON CONFLICT (payment_date) DO UPDATE
    SET initial_budget = EXCLUDED.initial_budget,
        actual_spend = EXCLUDED.actual_spend,
        adjusted_budget = EXCLUDED.adjusted_budget,
        adjustment_reason = EXCLUDED.adjustment_reason
  `, paymentDate, initialBudget, actualSpend, adjustedBudget, reason)
	return err
}

func (s *Store) ListHistory(ctx context.Context, limit, offset int) ([]HistoryEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, payment_date, initial_budget, actual_spend, adjusted_budget, adjustment_reason, created_at
    FROM budget_history
    ORDER BY payment_date DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.PaymentDate, &e.InitialBudget, &e.ActualSpend, &e.AdjustedBudget, &e.AdjustmentReason, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
