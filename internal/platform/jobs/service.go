package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shifthub/internal/domain/budget"
	"shifthub/internal/domain/directory"
	"shifthub/internal/domain/overtime"
	"shifthub/internal/domain/qrcode"
	"shifthub/internal/domain/shift"
	"shifthub/internal/platform/clock"
	"shifthub/internal/platform/config"
	"shifthub/internal/platform/metrics"
)

const (
	JobQRIssue       = "qr_issue"
	JobQRExpire      = "qr_expire"
	JobOvertimeSweep = "overtime_sweep"
	JobCancellations = "cancellation_sweep"
	JobBudgetAdjust  = "budget_adjust"
	JobStandbyRotate = "standby_rotation"
)

type Service struct {
	DB      *pgxpool.Pool
	Cfg     config.Config
	Clock   clock.Clock
	Metrics *metrics.Collector

	QR        *qrcode.Service
	Shifts    *shift.Service
	Overtime  *overtime.Service
	Budget    *budget.Service
	Directory *directory.Store

	queue chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, clk clock.Clock, collector *metrics.Collector, qr *qrcode.Service, shifts *shift.Service, ot *overtime.Service, bdg *budget.Service, dir *directory.Store) *Service {
	return &Service{
		DB:        db,
		Cfg:       cfg,
		Clock:     clk,
		Metrics:   collector,
		QR:        qr,
		Shifts:    shifts,
		Overtime:  ot,
		Budget:    bdg,
		Directory: dir,
		queue:     make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.QRIssueInterval > 0 {
		go s.schedule(ctx, s.Cfg.QRIssueInterval, JobQRIssue, s.runQRIssue)
	}
	if s.Cfg.ExpireSweepInterval > 0 {
		go s.schedule(ctx, s.Cfg.ExpireSweepInterval, JobQRExpire, s.runQRExpire)
	}
	if s.Cfg.OvertimeSweepInterval > 0 {
		go s.schedule(ctx, s.Cfg.OvertimeSweepInterval, JobOvertimeSweep, s.runOvertimeSweep)
	}
	if s.Cfg.CancellationInterval > 0 {
		go s.schedule(ctx, s.Cfg.CancellationInterval, JobCancellations, s.runCancellations)
	}
	if s.Cfg.BudgetInterval > 0 {
		go s.schedule(ctx, s.Cfg.BudgetInterval, JobBudgetAdjust, s.runBudget)
	}
	if s.Cfg.RotationInterval > 0 {
		go s.schedule(ctx, s.Cfg.RotationInterval, JobStandbyRotate, s.runRotation)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

// RunNow executes a job synchronously; HTTP triggers use this so the
// caller sees the outcome.
func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) schedule(ctx context.Context, interval time.Duration, jobType string, run func(context.Context) (any, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(jobType, run)
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	if s.Metrics != nil {
		s.Metrics.RecordSweep(err != nil)
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) runQRIssue(ctx context.Context) (any, error) {
	now := s.Clock.Now()
	admissions, err := s.QR.IssueAdmissionDue(ctx, now)
	if err != nil {
		return nil, err
	}
	proof, err := s.QR.IssueProofDue(ctx, now)
	if err != nil {
		return nil, err
	}
	return map[string]any{"admissionsIssued": admissions, "proofIssued": proof}, nil
}

func (s *Service) runQRExpire(ctx context.Context) (any, error) {
	if err := s.QR.ExpireSweep(ctx, s.Clock.Now()); err != nil {
		return nil, err
	}
	return map[string]any{"swept": true}, nil
}

func (s *Service) runOvertimeSweep(ctx context.Context) (any, error) {
	closed, err := s.Overtime.SweepAutoClose(ctx, s.Clock.Now())
	if err != nil {
		return nil, err
	}
	return map[string]any{"sessionsClosed": closed}, nil
}

func (s *Service) runCancellations(ctx context.Context) (any, error) {
	processed, err := s.Shifts.ProcessCancellations(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"cancellationsProcessed": processed}, nil
}

func (s *Service) runBudget(ctx context.Context) (any, error) {
	entry, err := s.Budget.Run(ctx, s.Clock.Now())
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"paymentDate":    entry.PaymentDate.Format("2006-01-02"),
		"adjustedBudget": entry.AdjustedBudget,
		"reason":         entry.AdjustmentReason,
	}, nil
}

func (s *Service) runRotation(ctx context.Context) (any, error) {
	flagged, err := s.Directory.Rotate(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"standbyFlagged": flagged}, nil
}
