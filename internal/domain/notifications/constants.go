package notifications

const (
	TypeClockIn              = "clock_in_recorded"
	TypeClockOut             = "clock_out_recorded"
	TypeShiftMissed          = "shift_missed"
	TypeReplacementAssigned  = "replacement_assigned"
	TypeReplacementConfirmed = "replacement_confirmed"
	TypeStandbyUnavailable   = "standby_unavailable"
	TypeStandbyExhausted     = "standby_exhausted"
	TypeOvertimeOpened       = "overtime_opened"
	TypeBudgetAdjusted       = "budget_adjusted"
)
