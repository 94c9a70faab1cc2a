package shift

import "time"

type Shift struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employeeId"`
	ScheduleID    string    `json:"scheduleId"`
	ShiftType     string    `json:"shiftType"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	Status        string    `json:"status"`
	IsReplacement bool      `json:"isReplacement"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Attendance struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	ShiftID    string     `json:"shiftId"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
	Status     string     `json:"status"`
}

type Cancellation struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	ShiftID    string    `json:"shiftId"`
	Status     string    `json:"status"`
	Processed  bool      `json:"processed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Window is a half-open [Start, End) time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Candidate is a standby employee with their existing commitments on
// the replacement date.
type Candidate struct {
	EmployeeID string
	Busy       []Window
}
