package qrcode

const (
	PurposeClockIn            = "clock_in"
	PurposeAttendance         = "attendance"
	PurposeOvertime           = "overtime"
	PurposeOvertimeAttendance = "overtime_attendance"

	StatusActive  = "active"
	StatusUsed    = "used"
	StatusExpired = "expired"
)

// ProofPurposes are the shared-use purposes: one active code per day,
// scanned by every employee closing a shift of that type.
var ProofPurposes = []string{PurposeAttendance, PurposeOvertimeAttendance}

func IsProofPurpose(purpose string) bool {
	return purpose == PurposeAttendance || purpose == PurposeOvertimeAttendance
}

func IsAdmissionPurpose(purpose string) bool {
	return purpose == PurposeClockIn || purpose == PurposeOvertime
}
