// Package insight orchestrates the on-demand generation run: it pulls the
// organization's recent check-in data, evaluates every detection rule,
// asks the model synthesizer for narrative insights, and persists whatever
// came out.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/staffpulse/backend/internal/domain"
	"github.com/staffpulse/backend/internal/service/aggregate"
	"github.com/staffpulse/backend/internal/service/detector"
	"github.com/staffpulse/backend/internal/service/synthesizer"
)

// Generation guards. Below these the data is too thin for any rule or
// model output to be meaningful.
const (
	minEmployees = 3
	minCheckIns  = 5

	orgScoreLookback = 20
)

type checkinReader interface {
	WindowSamples(ctx context.Context, orgID uuid.UUID, since time.Time) ([]aggregate.Sample, error)
	DepartmentStats(ctx context.Context, orgID uuid.UUID, since time.Time) ([]detector.DepartmentStats, error)
	RecentScoresByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]int, error)
	RecentScoresByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]int, error)
	ScoresByEmployeeSince(ctx context.Context, employeeID uuid.UUID, since time.Time) ([]int, error)
	DigestRows(ctx context.Context, orgID uuid.UUID, since time.Time) ([]synthesizer.CheckInDigest, error)
}

type employeeReader interface {
	ListActiveByOrg(ctx context.Context, orgID uuid.UUID, department *string) ([]domain.Employee, error)
}

type insightRepository interface {
	Create(ctx context.Context, insight domain.Insight) error
	List(ctx context.Context, filter domain.InsightFilter) ([]domain.Insight, error)
	SetRead(ctx context.Context, id uuid.UUID, read bool) error
	SetDismissed(ctx context.Context, id uuid.UUID) error
}

type alertWriter interface {
	Create(ctx context.Context, alert domain.Alert) error
}

type synth interface {
	Synthesize(ctx context.Context, digest synthesizer.Digest) synthesizer.Result
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// GenerationSummary reports one generation run. Warning carries the
// synthesizer's degradation notice (or the thin-data notice); the run as a
// whole still succeeds.
type GenerationSummary struct {
	Generated int     `json:"generated"`
	Alerts    int     `json:"alerts"`
	Warning   *string `json:"warning,omitempty"`
}

// Service generates, lists, and updates insights.
type Service struct {
	checkins   checkinReader
	employees  employeeReader
	insights   insightRepository
	alerts     alertWriter
	synth      synth
	tx         txManager
	windowDays int
	log        *slog.Logger
}

func NewService(
	checkins checkinReader,
	employees employeeReader,
	insights insightRepository,
	alerts alertWriter,
	synth synth,
	tx txManager,
	windowDays int,
	logger *slog.Logger,
) *Service {
	return &Service{
		checkins:   checkins,
		employees:  employees,
		insights:   insights,
		alerts:     alerts,
		synth:      synth,
		tx:         tx,
		windowDays: windowDays,
		log:        logger.With("component", "insight"),
	}
}

// Generate runs every detection rule plus the model synthesizer over the
// organization's current window and persists the findings. Thin data is
// not an error: the run returns zero generated insights and a warning.
func (s *Service) Generate(ctx context.Context, orgID uuid.UUID) (GenerationSummary, error) {
	if orgID == uuid.Nil {
		return GenerationSummary{}, domain.NewValidationError("organization_id", "is required")
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -s.windowDays)

	employees, err := s.employees.ListActiveByOrg(ctx, orgID, nil)
	if err != nil {
		return GenerationSummary{}, fmt.Errorf("list employees: %w", err)
	}
	samples, err := s.checkins.WindowSamples(ctx, orgID, since)
	if err != nil {
		return GenerationSummary{}, fmt.Errorf("load window samples: %w", err)
	}

	if len(employees) < minEmployees || len(samples) < minCheckIns {
		warning := fmt.Sprintf("not enough data to generate insights: need at least %d active employees and %d check-ins in the last %d days",
			minEmployees, minCheckIns, s.windowDays)
		return GenerationSummary{Warning: &warning}, nil
	}

	var insights []domain.Insight
	var alerts []domain.Alert

	summary := aggregate.Summarize(samples, now, s.windowDays, len(employees))
	if ins := detector.EvaluateResponseRate(orgID, summary); ins != nil {
		insights = append(insights, *ins)
	}

	deptStats, err := s.checkins.DepartmentStats(ctx, orgID, since)
	if err != nil {
		return GenerationSummary{}, fmt.Errorf("load department stats: %w", err)
	}
	for _, stats := range deptStats {
		insights = append(insights, detector.EvaluateDepartment(orgID, stats)...)
	}

	orgScores, err := s.checkins.RecentScoresByOrg(ctx, orgID, orgScoreLookback)
	if err != nil {
		return GenerationSummary{}, fmt.Errorf("load organization scores: %w", err)
	}
	if ins := detector.EvaluateOrganization(orgID, orgScores); ins != nil {
		insights = append(insights, *ins)
	}

	employeeInsights, employeeAlerts, err := s.evaluateEmployees(ctx, orgID, employees, now)
	if err != nil {
		return GenerationSummary{}, err
	}
	insights = append(insights, employeeInsights...)
	alerts = append(alerts, employeeAlerts...)

	result := s.synthesizeModelInsights(ctx, orgID, employees, since)
	insights = append(insights, result.Insights...)

	// A generation run lands atomically: either all findings of the run
	// are visible or none are.
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, ins := range insights {
			if err := s.insights.Create(ctx, ins); err != nil {
				return fmt.Errorf("persist insight: %w", err)
			}
		}
		for _, alert := range alerts {
			if err := s.alerts.Create(ctx, alert); err != nil {
				return fmt.Errorf("persist alert: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return GenerationSummary{}, err
	}

	s.log.InfoContext(ctx, "generation run finished",
		slog.String("organization_id", orgID.String()),
		slog.Int("insights", len(insights)),
		slog.Int("alerts", len(alerts)),
		slog.Bool("degraded", result.Warning != nil),
	)

	return GenerationSummary{
		Generated: len(insights),
		Alerts:    len(alerts),
		Warning:   result.Warning,
	}, nil
}

func (s *Service) evaluateEmployees(ctx context.Context, orgID uuid.UUID, employees []domain.Employee, now time.Time) ([]domain.Insight, []domain.Alert, error) {
	var insights []domain.Insight
	var alerts []domain.Alert

	burnoutSince := now.AddDate(0, 0, -detector.BurnoutWindowDays)
	for _, e := range employees {
		recent, err := s.checkins.RecentScoresByEmployee(ctx, e.ID, 10)
		if err != nil {
			return nil, nil, fmt.Errorf("load scores for employee %s: %w", e.ID, err)
		}
		trailing, err := s.checkins.ScoresByEmployeeSince(ctx, e.ID, burnoutSince)
		if err != nil {
			return nil, nil, fmt.Errorf("load trailing scores for employee %s: %w", e.ID, err)
		}

		ins, al := detector.EvaluateEmployee(orgID, detector.EmployeeHistory{
			EmployeeID:       e.ID,
			Name:             e.Name,
			Department:       e.Department,
			RecentScores:     recent,
			TrailingTwoWeeks: trailing,
		})
		insights = append(insights, ins...)
		alerts = append(alerts, al...)
	}

	return insights, alerts, nil
}

func (s *Service) synthesizeModelInsights(ctx context.Context, orgID uuid.UUID, employees []domain.Employee, since time.Time) synthesizer.Result {
	rows, err := s.checkins.DigestRows(ctx, orgID, since)
	if err != nil {
		// The rule-based output stands on its own; degrade like a failed
		// model call.
		s.log.WarnContext(ctx, "digest rows unavailable", slog.String("error", err.Error()))
		warning := "model insights skipped: check-in digest unavailable"
		return synthesizer.Result{Insights: []domain.Insight{}, Warning: &warning}
	}

	return s.synth.Synthesize(ctx, synthesizer.BuildDigest(orgID, employees, rows))
}

// List returns stored insights for the organization, newest first.
func (s *Service) List(ctx context.Context, filter domain.InsightFilter) ([]domain.Insight, error) {
	if filter.OrganizationID == uuid.Nil {
		return nil, domain.NewValidationError("organization_id", "is required")
	}
	return s.insights.List(ctx, filter)
}

// MarkRead flips the read flag on one insight.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, read bool) error {
	return s.insights.SetRead(ctx, id, read)
}

// Dismiss marks one insight dismissed. Dismissal is terminal; there is no
// un-dismiss.
func (s *Service) Dismiss(ctx context.Context, id uuid.UUID) error {
	return s.insights.SetDismissed(ctx, id)
}
