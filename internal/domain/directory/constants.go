package directory

const (
	StatusWorking    = "Working"
	StatusNotWorking = "Not Working"
	StatusOnLeave    = "On Leave"

	EmploymentStaff   = "staff"
	EmploymentManager = "manager"
)
