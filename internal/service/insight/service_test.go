package insight

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/staffpulse/backend/internal/domain"
	"github.com/staffpulse/backend/internal/service/aggregate"
	"github.com/staffpulse/backend/internal/service/detector"
	"github.com/staffpulse/backend/internal/service/synthesizer"
)

type checkinReaderMock struct {
	WindowSamplesFunc          func(ctx context.Context, orgID uuid.UUID, since time.Time) ([]aggregate.Sample, error)
	DepartmentStatsFunc        func(ctx context.Context, orgID uuid.UUID, since time.Time) ([]detector.DepartmentStats, error)
	RecentScoresByOrgFunc      func(ctx context.Context, orgID uuid.UUID, limit int) ([]int, error)
	RecentScoresByEmployeeFunc func(ctx context.Context, employeeID uuid.UUID, limit int) ([]int, error)
	ScoresByEmployeeSinceFunc  func(ctx context.Context, employeeID uuid.UUID, since time.Time) ([]int, error)
	DigestRowsFunc             func(ctx context.Context, orgID uuid.UUID, since time.Time) ([]synthesizer.CheckInDigest, error)
}

func (m *checkinReaderMock) WindowSamples(ctx context.Context, orgID uuid.UUID, since time.Time) ([]aggregate.Sample, error) {
	return m.WindowSamplesFunc(ctx, orgID, since)
}

func (m *checkinReaderMock) DepartmentStats(ctx context.Context, orgID uuid.UUID, since time.Time) ([]detector.DepartmentStats, error) {
	return m.DepartmentStatsFunc(ctx, orgID, since)
}

func (m *checkinReaderMock) RecentScoresByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]int, error) {
	return m.RecentScoresByOrgFunc(ctx, orgID, limit)
}

func (m *checkinReaderMock) RecentScoresByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]int, error) {
	return m.RecentScoresByEmployeeFunc(ctx, employeeID, limit)
}

func (m *checkinReaderMock) ScoresByEmployeeSince(ctx context.Context, employeeID uuid.UUID, since time.Time) ([]int, error) {
	return m.ScoresByEmployeeSinceFunc(ctx, employeeID, since)
}

func (m *checkinReaderMock) DigestRows(ctx context.Context, orgID uuid.UUID, since time.Time) ([]synthesizer.CheckInDigest, error) {
	return m.DigestRowsFunc(ctx, orgID, since)
}

type employeeReaderMock struct {
	ListActiveByOrgFunc func(ctx context.Context, orgID uuid.UUID, department *string) ([]domain.Employee, error)
}

func (m *employeeReaderMock) ListActiveByOrg(ctx context.Context, orgID uuid.UUID, department *string) ([]domain.Employee, error) {
	return m.ListActiveByOrgFunc(ctx, orgID, department)
}

type insightRepoMock struct {
	created          []domain.Insight
	ListFunc         func(ctx context.Context, filter domain.InsightFilter) ([]domain.Insight, error)
	SetReadFunc      func(ctx context.Context, id uuid.UUID, read bool) error
	SetDismissedFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *insightRepoMock) Create(_ context.Context, insight domain.Insight) error {
	m.created = append(m.created, insight)
	return nil
}

func (m *insightRepoMock) List(ctx context.Context, filter domain.InsightFilter) ([]domain.Insight, error) {
	return m.ListFunc(ctx, filter)
}

func (m *insightRepoMock) SetRead(ctx context.Context, id uuid.UUID, read bool) error {
	return m.SetReadFunc(ctx, id, read)
}

func (m *insightRepoMock) SetDismissed(ctx context.Context, id uuid.UUID) error {
	return m.SetDismissedFunc(ctx, id)
}

type alertWriterMock struct {
	created []domain.Alert
}

func (m *alertWriterMock) Create(_ context.Context, alert domain.Alert) error {
	m.created = append(m.created, alert)
	return nil
}

type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type synthMock struct {
	SynthesizeFunc func(ctx context.Context, digest synthesizer.Digest) synthesizer.Result
}

func (m *synthMock) Synthesize(ctx context.Context, digest synthesizer.Digest) synthesizer.Result {
	return m.SynthesizeFunc(ctx, digest)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func activeEmployees(orgID uuid.UUID, n int) []domain.Employee {
	employees := make([]domain.Employee, n)
	for i := range employees {
		employees[i] = domain.Employee{
			ID: uuid.New(), OrganizationID: orgID,
			Name: "Employee", Department: "Engineering", Active: true,
		}
	}
	return employees
}

func samplesAt(now time.Time, scores ...int) []aggregate.Sample {
	samples := make([]aggregate.Sample, len(scores))
	for i, s := range scores {
		samples[i] = aggregate.Sample{Score: s, At: now.Add(-time.Duration(i) * time.Hour)}
	}
	return samples
}

// quietCheckins returns a reader whose data trips no detection rule.
func quietCheckins(now time.Time) *checkinReaderMock {
	return &checkinReaderMock{
		WindowSamplesFunc: func(_ context.Context, _ uuid.UUID, _ time.Time) ([]aggregate.Sample, error) {
			// 11 of 3*7 expected = 52%, above the response rate threshold.
			return samplesAt(now, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3), nil
		},
		DepartmentStatsFunc: func(_ context.Context, _ uuid.UUID, _ time.Time) ([]detector.DepartmentStats, error) {
			return []detector.DepartmentStats{{Department: "Engineering", Count: 11, Average: 3.0}}, nil
		},
		RecentScoresByOrgFunc: func(_ context.Context, _ uuid.UUID, _ int) ([]int, error) {
			return []int{3, 3, 3}, nil
		},
		RecentScoresByEmployeeFunc: func(_ context.Context, _ uuid.UUID, _ int) ([]int, error) {
			return nil, nil
		},
		ScoresByEmployeeSinceFunc: func(_ context.Context, _ uuid.UUID, _ time.Time) ([]int, error) {
			return nil, nil
		},
		DigestRowsFunc: func(_ context.Context, _ uuid.UUID, _ time.Time) ([]synthesizer.CheckInDigest, error) {
			return nil, nil
		},
	}
}

func emptySynth() *synthMock {
	return &synthMock{
		SynthesizeFunc: func(_ context.Context, _ synthesizer.Digest) synthesizer.Result {
			return synthesizer.Result{Insights: []domain.Insight{}}
		},
	}
}

func TestGenerate_TooFewEmployees(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	now := time.Now().UTC()
	employees := &employeeReaderMock{
		ListActiveByOrgFunc: func(_ context.Context, _ uuid.UUID, _ *string) ([]domain.Employee, error) {
			return activeEmployees(orgID, 2), nil
		},
	}
	repo := &insightRepoMock{}
	synth := &synthMock{
		SynthesizeFunc: func(_ context.Context, _ synthesizer.Digest) synthesizer.Result {
			t.Error("Synthesize called despite thin data")
			return synthesizer.Result{}
		},
	}

	svc := NewService(quietCheckins(now), employees, repo, &alertWriterMock{}, synth, txManagerMock{}, 7, discardLogger())
	summary, err := svc.Generate(context.Background(), orgID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if summary.Generated != 0 || summary.Warning == nil {
		t.Errorf("summary = %+v, want zero generated with a warning", summary)
	}
	if len(repo.created) != 0 {
		t.Errorf("insights persisted = %d, want 0", len(repo.created))
	}
}

func TestGenerate_TooFewCheckIns(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	now := time.Now().UTC()
	checkins := quietCheckins(now)
	checkins.WindowSamplesFunc = func(_ context.Context, _ uuid.UUID, _ time.Time) ([]aggregate.Sample, error) {
		return samplesAt(now, 3, 3, 3, 3), nil
	}
	employees := &employeeReaderMock{
		ListActiveByOrgFunc: func(_ context.Context, _ uuid.UUID, _ *string) ([]domain.Employee, error) {
			return activeEmployees(orgID, 3), nil
		},
	}

	svc := NewService(checkins, employees, &insightRepoMock{}, &alertWriterMock{}, emptySynth(), txManagerMock{}, 7, discardLogger())
	summary, err := svc.Generate(context.Background(), orgID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if summary.Generated != 0 || summary.Warning == nil {
		t.Errorf("summary = %+v, want zero generated with a warning", summary)
	}
}

func TestGenerate_PersistsRuleAndModelInsights(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	now := time.Now().UTC()
	employees := activeEmployees(orgID, 3)
	struggling := employees[0].ID

	checkins := quietCheckins(now)
	checkins.DepartmentStatsFunc = func(_ context.Context, _ uuid.UUID, _ time.Time) ([]detector.DepartmentStats, error) {
		return []detector.DepartmentStats{{Department: "Engineering", Count: 11, Average: 2.2}}, nil
	}
	checkins.RecentScoresByEmployeeFunc = func(_ context.Context, employeeID uuid.UUID, _ int) ([]int, error) {
		if employeeID == struggling {
			return []int{1, 1, 2}, nil // newest first, declining and persistently low
		}
		return []int{3}, nil
	}
	checkins.ScoresByEmployeeSinceFunc = func(_ context.Context, employeeID uuid.UUID, _ time.Time) ([]int, error) {
		if employeeID == struggling {
			return []int{1, 1, 2}, nil
		}
		return []int{3}, nil
	}

	repo := &insightRepoMock{}
	alerts := &alertWriterMock{}
	synth := &synthMock{
		SynthesizeFunc: func(_ context.Context, digest synthesizer.Digest) synthesizer.Result {
			if digest.OrganizationID != orgID {
				t.Errorf("digest org = %s, want %s", digest.OrganizationID, orgID)
			}
			return synthesizer.Result{Insights: []domain.Insight{{
				ID: uuid.New(), OrganizationID: orgID,
				Type: domain.InsightTypeRecommendation, Title: "Model finding",
				Severity: domain.SeverityInfo, Origin: domain.OriginModel,
			}}}
		},
	}

	svc := NewService(checkins, &employeeReaderMock{
		ListActiveByOrgFunc: func(_ context.Context, _ uuid.UUID, _ *string) ([]domain.Employee, error) {
			return employees, nil
		},
	}, repo, alerts, synth, txManagerMock{}, 7, discardLogger())

	summary, err := svc.Generate(context.Background(), orgID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Expected findings: low department mood, declining trend, persistent
	// low mood, and the model insight. Plus one burnout alert (3 lows).
	if summary.Generated != 4 {
		t.Errorf("summary.Generated = %d, want 4", summary.Generated)
	}
	if summary.Alerts != 1 {
		t.Errorf("summary.Alerts = %d, want 1", summary.Alerts)
	}
	if summary.Warning != nil {
		t.Errorf("summary.Warning = %q, want nil", *summary.Warning)
	}

	if len(repo.created) != summary.Generated {
		t.Errorf("persisted insights = %d, want %d", len(repo.created), summary.Generated)
	}
	if len(alerts.created) != 1 {
		t.Fatalf("persisted alerts = %d, want 1", len(alerts.created))
	}
	if alerts.created[0].Severity != domain.AlertSeverityHigh {
		t.Errorf("alert severity = %s, want high for 3 low scores", alerts.created[0].Severity)
	}

	var origins = map[domain.InsightOrigin]int{}
	for _, ins := range repo.created {
		origins[ins.Origin]++
	}
	if origins[domain.OriginRule] != 3 || origins[domain.OriginModel] != 1 {
		t.Errorf("origins = %v, want 3 rule and 1 model", origins)
	}
}

func TestGenerate_SynthesizerWarningDoesNotBlockRules(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	now := time.Now().UTC()
	checkins := quietCheckins(now)
	checkins.DepartmentStatsFunc = func(_ context.Context, _ uuid.UUID, _ time.Time) ([]detector.DepartmentStats, error) {
		return []detector.DepartmentStats{{Department: "Engineering", Count: 11, Average: 4.5}}, nil
	}

	repo := &insightRepoMock{}
	warning := "the model returned no parseable insights"
	synth := &synthMock{
		SynthesizeFunc: func(_ context.Context, _ synthesizer.Digest) synthesizer.Result {
			return synthesizer.Result{Insights: []domain.Insight{}, Warning: &warning}
		},
	}

	svc := NewService(checkins, &employeeReaderMock{
		ListActiveByOrgFunc: func(_ context.Context, _ uuid.UUID, _ *string) ([]domain.Employee, error) {
			return activeEmployees(orgID, 3), nil
		},
	}, repo, &alertWriterMock{}, synth, txManagerMock{}, 7, discardLogger())

	summary, err := svc.Generate(context.Background(), orgID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if summary.Warning == nil || *summary.Warning != warning {
		t.Errorf("summary.Warning = %v, want the synthesizer warning passed through", summary.Warning)
	}
	if summary.Generated != 1 {
		t.Errorf("summary.Generated = %d, want the high-performing department insight", summary.Generated)
	}
	if len(repo.created) != 1 || repo.created[0].Type != domain.InsightTypeDepartmentInsight {
		t.Errorf("persisted = %+v, want one department insight", repo.created)
	}
}

func TestGenerate_RequiresOrganization(t *testing.T) {
	t.Parallel()

	svc := NewService(&checkinReaderMock{}, &employeeReaderMock{}, &insightRepoMock{}, &alertWriterMock{}, emptySynth(), txManagerMock{}, 7, discardLogger())
	if _, err := svc.Generate(context.Background(), uuid.Nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestList_RequiresOrganization(t *testing.T) {
	t.Parallel()

	svc := NewService(&checkinReaderMock{}, &employeeReaderMock{}, &insightRepoMock{}, &alertWriterMock{}, emptySynth(), txManagerMock{}, 7, discardLogger())
	if _, err := svc.List(context.Background(), domain.InsightFilter{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}
