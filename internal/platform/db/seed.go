package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shifthub/internal/platform/config"
)

type seedRole struct {
	title        string
	baseRate     float64
	overtimeRate float64
}

var defaultRoles = []seedRole{
	{"Bartender", 18.50, 27.75},
	{"Server", 16.00, 24.00},
	{"Security", 20.00, 30.00},
	{"Kitchen", 19.00, 28.50},
}

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	for _, role := range defaultRoles {
		if _, err := pool.Exec(ctx, `
      INSERT INTO roles (title, base_rate, overtime_rate)
      VALUES ($1,$2,$3)
      ON CONFLICT (title) DO NOTHING
    `, role.title, role.baseRate, role.overtimeRate); err != nil {
			return err
		}
	}

	return ensureCurrentSchedule(ctx, pool)
}

// ensureCurrentSchedule guarantees a schedule period covering today so
// shifts created before the monthly scheduler runs have a home.
func ensureCurrentSchedule(ctx context.Context, pool *pgxpool.Pool) error {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	_, err := pool.Exec(ctx, `
    INSERT INTO schedules (start_date, end_date)
    VALUES ($1,$2)
    ON CONFLICT (start_date, end_date) DO NOTHING
  `, start, end)
	return err
}
