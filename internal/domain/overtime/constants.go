package overtime

const (
	StatusOngoing   = "on-going"
	StatusCompleted = "completed"

	// Session duration bounds, in minutes.
	MinDurationMinutes  = 60
	MaxDurationMinutes  = 180
	MaxExtensionMinutes = 60
)
