package overtime

import "time"

type Session struct {
	ID          string    `json:"id"`
	QRCodeID    string    `json:"qrCodeId"`
	ProofQRID   *string   `json:"proofQrId,omitempty"`
	SessionDate time.Time `json:"sessionDate"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	Status      string    `json:"status"`
	RoleIDs     []string  `json:"roleIds,omitempty"`
}

type CreatedShift struct {
	ShiftID    string `json:"shiftId"`
	EmployeeID string `json:"employeeId"`
}

// OpenResult is everything the caller needs after opening a session:
// the admission code to display and the shifts materialized for it.
type OpenResult struct {
	Session       Session        `json:"session"`
	CodeID        string         `json:"qrId"`
	CodeValue     string         `json:"-"`
	Expiration    time.Time      `json:"expiration"`
	CreatedShifts []CreatedShift `json:"createdShifts"`
}
