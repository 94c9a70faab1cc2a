package notifications

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store       *Store
	Mailer      Mailer
	DefaultFrom string
}

func New(store *Store, mailer Mailer, defaultFrom string) *Service {
	if defaultFrom == "" {
		defaultFrom = "no-reply@shifthub.local"
	}
	return &Service{store: store, Mailer: mailer, DefaultFrom: defaultFrom}
}

// Notify is fire-and-forget for callers: the row insert can fail, but
// email delivery problems are logged and never propagated.
func (s *Service) Notify(ctx context.Context, employeeID, ntype, title, body string) error {
	if err := s.store.CreateNotification(ctx, employeeID, ntype, title, body); err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}

	email, err := s.store.EmployeeEmail(ctx, employeeID)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	if email == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, email, title, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
	return nil
}

func (s *Service) ManagerIDs(ctx context.Context) ([]string, error) {
	return s.store.ManagerIDs(ctx)
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]map[string]any, error) {
	return s.store.ListNotifications(ctx, employeeID, limit, offset)
}

func (s *Service) MarkRead(ctx context.Context, employeeID, notificationID string) error {
	return s.store.MarkRead(ctx, employeeID, notificationID)
}
