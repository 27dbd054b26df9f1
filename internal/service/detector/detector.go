// Package detector applies fixed threshold policies over aggregated
// check-in data and materializes candidate Insights and Alerts.
//
// The detector is a stateless policy evaluator: every rule is independent
// and may fire zero or more findings per invocation over the same data.
// All thresholds are order-sensitive and ties favor the lower severity —
// a department averaging exactly 2.5 does not fire "low department mood".
package detector

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/staffpulse/backend/internal/domain"
	"github.com/staffpulse/backend/internal/service/aggregate"
)

// Policy thresholds.
const (
	minDepartmentSamples = 5
	lowDeptWarningBelow  = 2.5
	lowDeptCriticalBelow = 2.0
	highDeptAbove        = 4.2

	lowResponseRateBelowPct = 50.0

	orgDeclineMinSamples = 20
	orgDeclineHalfSize   = 10
	orgDeclineMinDelta   = 0.5

	trendLength   = 3
	lowScoreMax   = 2
	positiveScore = 4

	persistentLowWindow   = 10
	persistentLowMinCount = 2

	// BurnoutWindowDays is the trailing evaluation window for the burnout
	// Alert. It is deliberately a different windowing basis than the
	// persistent-low-mood Insight (last 10 check-ins, not time-bounded);
	// the two rules are independent.
	BurnoutWindowDays = 14

	burnoutMediumCount = 2
	burnoutHighCount   = 3
)

// DepartmentStats is the aggregated input for the department rules.
type DepartmentStats struct {
	Department string
	Count      int
	Average    float64
}

// EmployeeHistory is the per-employee input for the individual rules.
// Score sequences are non-null mood scores ordered newest first.
type EmployeeHistory struct {
	EmployeeID uuid.UUID
	Name       string
	Department string

	// RecentScores holds up to the last 10 scores.
	RecentScores []int

	// TrailingTwoWeeks holds the scores within the last BurnoutWindowDays.
	TrailingTwoWeeks []int
}

// EvaluateDepartment applies the low-mood and high-performing department
// rules. Both require at least 5 samples.
func EvaluateDepartment(orgID uuid.UUID, stats DepartmentStats) []domain.Insight {
	if stats.Count < minDepartmentSamples {
		return nil
	}

	var insights []domain.Insight

	if stats.Average < lowDeptWarningBelow {
		severity := domain.SeverityWarning
		if stats.Average < lowDeptCriticalBelow {
			severity = domain.SeverityCritical
		}
		insights = append(insights, newInsight(orgID, domain.InsightTypeRiskDetection, severity,
			fmt.Sprintf("Low Department Mood: %s", stats.Department),
			fmt.Sprintf("The %s department is averaging %.1f/5 over %d check-ins.", stats.Department, stats.Average, stats.Count),
			map[string]any{
				"department":   stats.Department,
				"average":      stats.Average,
				"sample_count": stats.Count,
				"threshold":    lowDeptWarningBelow,
			},
			[]string{
				"Schedule a team retrospective to surface blockers",
				"Review current workload and deadlines with the department lead",
			},
			withDepartment(stats.Department),
		))
	}

	if stats.Average > highDeptAbove {
		insights = append(insights, newInsight(orgID, domain.InsightTypeDepartmentInsight, domain.SeverityInfo,
			fmt.Sprintf("High Performing Department: %s", stats.Department),
			fmt.Sprintf("The %s department is averaging %.1f/5 over %d check-ins.", stats.Department, stats.Average, stats.Count),
			map[string]any{
				"department":   stats.Department,
				"average":      stats.Average,
				"sample_count": stats.Count,
				"threshold":    highDeptAbove,
			},
			[]string{"Share what is working well with other departments"},
			withDepartment(stats.Department),
		))
	}

	return insights
}

// EvaluateResponseRate fires when less than half of the expected check-ins
// arrived in the window.
func EvaluateResponseRate(orgID uuid.UUID, summary aggregate.Summary) *domain.Insight {
	if summary.ResponseRatePct >= lowResponseRateBelowPct {
		return nil
	}

	ins := newInsight(orgID, domain.InsightTypeRecommendation, domain.SeverityWarning,
		"Low Response Rate",
		fmt.Sprintf("Only %.0f%% of expected check-ins were received.", summary.ResponseRatePct),
		map[string]any{
			"response_rate_pct": summary.ResponseRatePct,
			"responses":         summary.Count,
			"threshold_pct":     lowResponseRateBelowPct,
		},
		[]string{
			"Remind employees that check-ins are anonymous to managers",
			"Consider adjusting the check-in schedule",
		},
	)
	return &ins
}

// EvaluateOrganization applies the organization-wide decline rule over the
// most recent scores (newest first). It requires at least 20 samples and
// compares the 10 most recent against the prior 10.
func EvaluateOrganization(orgID uuid.UUID, scores []int) *domain.Insight {
	if len(scores) < orgDeclineMinSamples {
		return nil
	}

	halves := aggregate.SplitHalves(scores[:orgDeclineHalfSize*2])
	delta, ok := halves.Delta()
	if !ok || delta <= orgDeclineMinDelta {
		return nil
	}

	ins := newInsight(orgID, domain.InsightTypeTrendAnalysis, domain.SeverityWarning,
		"Organization-wide Mood Decline",
		fmt.Sprintf("Average mood dropped from %.1f to %.1f across the organization.", halves.Prior.Average, halves.Recent.Average),
		map[string]any{
			"recent_average": halves.Recent.Average,
			"prior_average":  halves.Prior.Average,
			"decline_amount": delta,
			"sample_count":   orgDeclineHalfSize * 2,
		},
		[]string{
			"Look for org-wide stressors: deadlines, reorgs, policy changes",
			"Check department breakdowns to locate the decline",
		},
	)
	return &ins
}

// EvaluateEmployee applies the individual rules: declining trend,
// persistent low mood, positive trend, and the burnout Alert. The
// persistent-low Insight and the burnout Alert are independent artifacts
// from related but distinct windows; both fire when both conditions hold.
func EvaluateEmployee(orgID uuid.UUID, h EmployeeHistory) ([]domain.Insight, []domain.Alert) {
	var insights []domain.Insight
	var alerts []domain.Alert

	if ins := decliningTrend(orgID, h); ins != nil {
		insights = append(insights, *ins)
	}
	if ins := persistentLowMood(orgID, h); ins != nil {
		insights = append(insights, *ins)
	}
	if ins := positiveTrend(orgID, h); ins != nil {
		insights = append(insights, *ins)
	}
	if alert := burnoutRisk(orgID, h); alert != nil {
		alerts = append(alerts, *alert)
	}

	return insights, alerts
}

// decliningTrend fires when the last 3 scores are non-increasing in time
// order. Critical when the most recent score is at or below 2.
func decliningTrend(orgID uuid.UUID, h EmployeeHistory) *domain.Insight {
	if len(h.RecentScores) < trendLength {
		return nil
	}

	last := h.RecentScores[:trendLength] // newest first
	for i := 0; i < trendLength-1; i++ {
		if last[i] > last[i+1] {
			return nil
		}
	}

	severity := domain.SeverityWarning
	if last[0] <= lowScoreMax {
		severity = domain.SeverityCritical
	}

	ins := newInsight(orgID, domain.InsightTypeEmployeeInsight, severity,
		fmt.Sprintf("Declining Mood Trend: %s", h.Name),
		fmt.Sprintf("%s's last %d mood scores have been declining.", h.Name, trendLength),
		map[string]any{
			"last_scores":  chronological(last),
			"recent_score": last[0],
		},
		[]string{"Schedule a supportive 1:1 conversation"},
		withEmployee(h.EmployeeID), withDepartment(h.Department),
	)
	return &ins
}

// persistentLowMood fires when at least 2 of the last 10 check-ins scored
// 2 or below.
func persistentLowMood(orgID uuid.UUID, h EmployeeHistory) *domain.Insight {
	window := h.RecentScores
	if len(window) > persistentLowWindow {
		window = window[:persistentLowWindow]
	}

	low := countLow(window)
	if low < persistentLowMinCount {
		return nil
	}

	ins := newInsight(orgID, domain.InsightTypeRiskDetection, domain.SeverityCritical,
		fmt.Sprintf("Persistent Low Mood: %s", h.Name),
		fmt.Sprintf("%s reported a low mood in %d of their last %d check-ins.", h.Name, low, len(window)),
		map[string]any{
			"low_count":       low,
			"window_checkins": len(window),
			"low_score_max":   lowScoreMax,
		},
		[]string{
			"Reach out privately to offer support",
			"Review recent workload and time-off balance",
		},
		withEmployee(h.EmployeeID), withDepartment(h.Department),
	)
	return &ins
}

// positiveTrend fires when the last 3 scores are all 4 or above.
func positiveTrend(orgID uuid.UUID, h EmployeeHistory) *domain.Insight {
	if len(h.RecentScores) < trendLength {
		return nil
	}

	last := h.RecentScores[:trendLength]
	for _, s := range last {
		if s < positiveScore {
			return nil
		}
	}

	ins := newInsight(orgID, domain.InsightTypePositiveTrend, domain.SeverityInfo,
		fmt.Sprintf("Positive Mood Trend: %s", h.Name),
		fmt.Sprintf("%s has reported consistently high mood scores.", h.Name),
		map[string]any{
			"last_scores": chronological(last),
			"minimum":     positiveScore,
		},
		[]string{"Recognize the positive momentum"},
		withEmployee(h.EmployeeID), withDepartment(h.Department),
	)
	return &ins
}

// burnoutRisk evaluates the trailing 14-day window: 2 low scores produce a
// medium alert, 3 or more a high one.
func burnoutRisk(orgID uuid.UUID, h EmployeeHistory) *domain.Alert {
	lowScores := make([]int, 0, len(h.TrailingTwoWeeks))
	for _, s := range h.TrailingTwoWeeks {
		if s <= lowScoreMax {
			lowScores = append(lowScores, s)
		}
	}

	if len(lowScores) < burnoutMediumCount {
		return nil
	}

	severity := domain.AlertSeverityMedium
	if len(lowScores) >= burnoutHighCount {
		severity = domain.AlertSeverityHigh
	}

	return &domain.Alert{
		ID:             uuid.New(),
		EmployeeID:     h.EmployeeID,
		OrganizationID: orgID,
		Type:           domain.AlertTypeBurnoutRisk,
		Severity:       severity,
		Description: fmt.Sprintf("%s reported %d low mood scores in the last %d days.",
			h.Name, len(lowScores), BurnoutWindowDays),
		Evidence:  lowScores,
		CreatedAt: time.Now().UTC(),
	}
}

func countLow(scores []int) int {
	var n int
	for _, s := range scores {
		if s <= lowScoreMax {
			n++
		}
	}
	return n
}

// chronological reverses a newest-first slice into time order for
// human-readable evidence.
func chronological(newestFirst []int) []int {
	out := make([]int, len(newestFirst))
	for i, s := range newestFirst {
		out[len(newestFirst)-1-i] = s
	}
	return out
}

type insightOption func(*domain.Insight)

func withDepartment(dept string) insightOption {
	return func(ins *domain.Insight) {
		if dept != "" {
			ins.Department = &dept
		}
	}
}

func withEmployee(id uuid.UUID) insightOption {
	return func(ins *domain.Insight) {
		ins.EmployeeID = &id
	}
}

func newInsight(orgID uuid.UUID, typ domain.InsightType, severity domain.Severity,
	title, description string, dataPoints map[string]any, actionItems []string,
	opts ...insightOption,
) domain.Insight {
	ins := domain.Insight{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Type:           typ,
		Title:          title,
		Description:    description,
		Severity:       severity,
		Origin:         domain.OriginRule,
		DataPoints:     dataPoints,
		ActionItems:    actionItems,
		CreatedAt:      time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&ins)
	}
	return ins
}
