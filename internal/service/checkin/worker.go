package checkin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/staffpulse/backend/internal/domain"
	"github.com/staffpulse/backend/internal/service/detector"
)

const employeeScoreWindow = 10

type scoreReader interface {
	RecentScoresByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]int, error)
	ScoresByEmployeeSince(ctx context.Context, employeeID uuid.UUID, since time.Time) ([]int, error)
}

type insightWriter interface {
	Create(ctx context.Context, insight domain.Insight) error
}

type alertWriter interface {
	Create(ctx context.Context, alert domain.Alert) error
}

// Job is one queued per-employee analysis pass.
type Job struct {
	EmployeeID     uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Department     string
}

// Analyzer runs per-employee risk analysis on a bounded worker pool so a
// burst of inbound check-ins cannot pile up unbounded goroutines. Jobs are
// dropped, not blocked on, when the queue is full; the next check-in from
// the same employee re-covers the same history.
type Analyzer struct {
	scores   scoreReader
	insights insightWriter
	alerts   alertWriter
	log      *slog.Logger

	workers int
	jobs    chan Job
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewAnalyzer(
	scores scoreReader,
	insights insightWriter,
	alerts alertWriter,
	workers, queueSize int,
	logger *slog.Logger,
) *Analyzer {
	return &Analyzer{
		scores:   scores,
		insights: insights,
		alerts:   alerts,
		log:      logger.With("component", "analyzer"),
		workers:  workers,
		jobs:     make(chan Job, queueSize),
	}
}

// Start launches the worker goroutines. Workers exit when the queue is
// closed and drained, or when ctx is canceled.
func (a *Analyzer) Start(ctx context.Context) {
	for i := 0; i < a.workers; i++ {
		a.wg.Add(1)
		go a.run(ctx)
	}
	a.log.Info("analyzer started", slog.Int("workers", a.workers), slog.Int("queue_size", cap(a.jobs)))
}

// Enqueue offers a job without blocking. It reports false when the queue
// is full or the analyzer is shut down.
func (a *Analyzer) Enqueue(job Job) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}

	select {
	case a.jobs <- job:
		return true
	default:
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued work to drain, up to
// ctx's deadline.
func (a *Analyzer) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.jobs)
	}
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("analyzer shutdown: %w", ctx.Err())
	}
}

func (a *Analyzer) run(ctx context.Context) {
	defer a.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-a.jobs:
			if !ok {
				return
			}
			a.analyze(ctx, job)
		}
	}
}

func (a *Analyzer) analyze(ctx context.Context, job Job) {
	recent, err := a.scores.RecentScoresByEmployee(ctx, job.EmployeeID, employeeScoreWindow)
	if err != nil {
		a.log.ErrorContext(ctx, "load recent scores failed",
			slog.String("employee_id", job.EmployeeID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -detector.BurnoutWindowDays)
	trailing, err := a.scores.ScoresByEmployeeSince(ctx, job.EmployeeID, since)
	if err != nil {
		a.log.ErrorContext(ctx, "load trailing scores failed",
			slog.String("employee_id", job.EmployeeID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	insights, alerts := detector.EvaluateEmployee(job.OrganizationID, detector.EmployeeHistory{
		EmployeeID:       job.EmployeeID,
		Name:             job.Name,
		Department:       job.Department,
		RecentScores:     recent,
		TrailingTwoWeeks: trailing,
	})

	for _, ins := range insights {
		if err := a.insights.Create(ctx, ins); err != nil {
			a.log.ErrorContext(ctx, "persist insight failed",
				slog.String("insight_type", ins.Type.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	for _, alert := range alerts {
		if err := a.alerts.Create(ctx, alert); err != nil {
			a.log.ErrorContext(ctx, "persist alert failed",
				slog.String("alert_type", alert.Type.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	if len(insights) > 0 || len(alerts) > 0 {
		a.log.InfoContext(ctx, "employee analysis produced findings",
			slog.String("employee_id", job.EmployeeID.String()),
			slog.Int("insights", len(insights)),
			slog.Int("alerts", len(alerts)),
		)
	}
}
