package qrcode

import "time"

type Code struct {
	ID          string     `json:"id"`
	Value       string     `json:"value"`
	Purpose     string     `json:"purpose"`
	CodeDate    time.Time  `json:"codeDate"`
	EventAt     *time.Time `json:"eventAt,omitempty"`
	GeneratedAt time.Time  `json:"generatedAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	Status      string     `json:"status"`
}

// ScanResult describes a successful scan back to the client.
type ScanResult struct {
	ShiftID   string    `json:"shiftId"`
	Purpose   string    `json:"purpose"`
	ClockedIn bool      `json:"clockedIn"`
	At        time.Time `json:"at"`
}
