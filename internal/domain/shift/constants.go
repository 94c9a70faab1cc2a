package shift

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusMissed    = "missed"

	TypeNormal   = "normal"
	TypeOvertime = "overtime"

	AttendancePresent = "present"
	AttendanceAbsent  = "absent"

	CancellationPending  = "pending"
	CancellationApproved = "approved"
)
