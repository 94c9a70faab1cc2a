package shift

// Resolve decides the terminal status for a scheduled shift at
// resolution time. No attendance row means the employee never scanned
// in; an attendance row that was never closed by a proof scan is still
// absent.
func Resolve(att *Attendance) string {
	if att == nil {
		return StatusMissed
	}
	if att.Status == AttendancePresent {
		return StatusCompleted
	}
	return StatusMissed
}

// Overlaps reports whether window a collides with window b: b contains
// a's start, b contains a's end, or a fully contains b.
func Overlaps(a, b Window) bool {
	containsStart := !a.Start.Before(b.Start) && a.Start.Before(b.End)
	containsEnd := a.End.After(b.Start) && !a.End.After(b.End)
	fullyContains := !a.Start.After(b.Start) && !a.End.Before(b.End)
	return containsStart || containsEnd || fullyContains
}

// SelectReplacement walks candidates in order and returns the first one
// with no commitment overlapping the shift window. Candidate order is
// deterministic (store orders by id), so re-runs pick the same person.
func SelectReplacement(candidates []Candidate, shiftWindow Window) (string, bool) {
	for _, cand := range candidates {
		conflict := false
		for _, busy := range cand.Busy {
			if Overlaps(shiftWindow, busy) {
				conflict = true
				break
			}
		}
		if !conflict {
			return cand.EmployeeID, true
		}
	}
	return "", false
}
