package directory

import "time"

type Employee struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	RoleID         string    `json:"roleId"`
	EmploymentType string    `json:"employmentType"`
	Status         string    `json:"status"`
	Standby        *bool     `json:"standby,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Role struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	BaseRate     float64   `json:"baseRate"`
	OvertimeRate float64   `json:"overtimeRate"`
	CreatedAt    time.Time `json:"createdAt"`
}

// StandbyAssignment is one row of a rotation batch write.
type StandbyAssignment struct {
	EmployeeID string
	Standby    bool
}
