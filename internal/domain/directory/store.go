package directory

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, first_name, last_name, email, role_id, employment_type, status, standby, created_at, updated_at
    FROM employees
    ORDER BY id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.RoleID, &e.EmploymentType, &e.Status, &e.Standby, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, nil
}

func (s *Store) WorkingEmployeeIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.DB.Query(ctx, "SELECT id FROM employees WHERE status = $1", StatusWorking)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	working := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		working[id] = true
	}
	return working, nil
}

func (s *Store) RoleByID(ctx context.Context, roleID string) (Role, error) {
	var r Role
	err := s.DB.QueryRow(ctx, `
    SELECT id, title, base_rate, overtime_rate, created_at
    FROM roles
    WHERE id = $1
  `, roleID).Scan(&r.ID, &r.Title, &r.BaseRate, &r.OvertimeRate, &r.CreatedAt)
	return r, err
}

func (s *Store) RolesExist(ctx context.Context, roleIDs []string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM roles WHERE id = ANY($1)", roleIDs).Scan(&count); err != nil {
		return false, err
	}
	return count == len(roleIDs), nil
}

// ApplyStandby writes a full rotation in one statement: flagged ids get
// standby = TRUE, everyone else reverts to NULL.
func (s *Store) ApplyStandby(ctx context.Context, assignments []StandbyAssignment) error {
	flagged := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.Standby {
			flagged = append(flagged, a.EmployeeID)
		}
	}
	_, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET standby = CASE WHEN id = ANY($1) THEN TRUE ELSE NULL END,
        updated_at = now()
  `, flagged)
	return err
}

// Rotate runs the weekly standby rotation: snapshot the directory,
// compute assignments, apply as one batch write.
func (s *Store) Rotate(ctx context.Context) (int, error) {
	all, err := s.ListEmployees(ctx)
	if err != nil {
		return 0, err
	}
	working, err := s.WorkingEmployeeIDs(ctx)
	if err != nil {
		return 0, err
	}

	assignments := ComputeStandby(all, working)
	if err := s.ApplyStandby(ctx, assignments); err != nil {
		return 0, err
	}

	flagged := 0
	for _, a := range assignments {
		if a.Standby {
			flagged++
		}
	}
	return flagged, nil
}
