package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shifthub/internal/domain/notifications"
)

type Service struct {
	Store  *Store
	Notify *notifications.Service
}

func NewService(store *Store, notify *notifications.Service) *Service {
	return &Service{Store: store, Notify: notify}
}

// Run performs one pay-period adjustment: realized spend over the last
// seven days against the current ceiling, persisted under the next
// payment date. Idempotent for a given period via the payment_date
// upsert.
func (s *Service) Run(ctx context.Context, now time.Time) (HistoryEntry, error) {
	periodStart := now.AddDate(0, 0, -7)
	paymentDate := now.AddDate(0, 0, 7)

	actualSpend, err := s.Store.ActualSpend(ctx, periodStart, now)
	if err != nil {
		return HistoryEntry{}, err
	}

	currentBudget, err := s.Store.CurrentBudget(ctx, paymentDate)
	if err != nil {
		return HistoryEntry{}, err
	}

	adjusted, reason := Adjust(currentBudget, actualSpend)

	if err := s.Store.UpsertHistory(ctx, paymentDate, currentBudget, actualSpend, adjusted, reason); err != nil {
		return HistoryEntry{}, err
	}

	slog.Info("budget adjusted",
		"paymentDate", paymentDate.Format("2006-01-02"),
		"initialBudget", currentBudget,
		"actualSpend", actualSpend,
		"adjustedBudget", adjusted)

	s.notifyManagers(ctx, paymentDate, adjusted, reason)

	return HistoryEntry{
		PaymentDate:      paymentDate,
		InitialBudget:    currentBudget,
		ActualSpend:      actualSpend,
		AdjustedBudget:   adjusted,
		AdjustmentReason: reason,
	}, nil
}

func (s *Service) notifyManagers(ctx context.Context, paymentDate time.Time, adjusted float64, reason string) {
	if s.Notify == nil {
		return
	}
	managers, err := s.Notify.ManagerIDs(ctx)
	if err != nil {
		slog.Warn("budget notification audience lookup failed", "err", err)
		return
	}
	body := fmt.Sprintf("The budget for %s was adjusted to %.0f. %s", paymentDate.Format("2006-01-02"), adjusted, reason)
	for _, managerID := range managers {
		if err := s.Notify.Notify(ctx, managerID, notifications.TypeBudgetAdjusted, "Budget adjusted", body); err != nil {
			slog.Warn("budget notification failed", "managerId", managerID, "err", err)
		}
	}
}

func (s *Service) History(ctx context.Context, limit, offset int) ([]HistoryEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Store.ListHistory(ctx, limit, offset)
}
