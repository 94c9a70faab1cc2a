package directory

// ComputeStandby decides the standby flag for every employee in one
// pass: off-roster staff who are not on leave become eligible
// substitutes for the coming rotation, everyone else is cleared.
// Managers never enter the pool. The result is applied as a single
// batch write so concurrent readers never observe a half-rotated
// directory.
func ComputeStandby(all []Employee, working map[string]bool) []StandbyAssignment {
	assignments := make([]StandbyAssignment, 0, len(all))
	for _, emp := range all {
		eligible := emp.EmploymentType == EmploymentStaff &&
			!working[emp.ID] &&
			emp.Status != StatusOnLeave
		assignments = append(assignments, StandbyAssignment{EmployeeID: emp.ID, Standby: eligible})
	}
	return assignments
}
