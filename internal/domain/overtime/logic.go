package overtime

import "time"

// ValidateOpen checks the open request: at least one role, duration
// between one and three hours.
func ValidateOpen(roleIDs []string, durationMinutes int) error {
	if len(roleIDs) == 0 {
		return ErrInvalidParameters
	}
	if durationMinutes < MinDurationMinutes || durationMinutes > MaxDurationMinutes {
		return ErrInvalidParameters
	}
	return nil
}

func ValidateExtension(minutes int) error {
	if minutes <= 0 || minutes > MaxExtensionMinutes {
		return ErrInvalidParameters
	}
	return nil
}

// ExtendedEnd adds the delta to an end instant. Plain duration
// arithmetic on the stored timestamp, never re-derived from date
// components, so repeated extensions cannot drift.
func ExtendedEnd(end time.Time, minutes int) time.Time {
	return end.Add(time.Duration(minutes) * time.Minute)
}
