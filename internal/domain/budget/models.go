package budget

import "time"

type HistoryEntry struct {
	ID               string    `json:"id"`
	PaymentDate      time.Time `json:"paymentDate"`
	InitialBudget    float64   `json:"initialBudget"`
	ActualSpend      float64   `json:"actualSpend"`
	AdjustedBudget   float64   `json:"adjustedBudget"`
	AdjustmentReason string    `json:"adjustmentReason"`
	CreatedAt        time.Time `json:"createdAt"`
}
