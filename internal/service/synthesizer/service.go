package synthesizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/staffpulse/backend/internal/domain"
)

// completer is the minimal completion interface the service needs.
type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of one synthesis. Warning is set for every
// expected failure mode (API error, timeout, malformed output); Insights
// is then empty. The two are never both unset on failure — callers can
// always build a success envelope from a Result.
type Result struct {
	Insights []domain.Insight
	Warning  *string
}

// Service synthesizes model-based insights from an organization digest.
type Service struct {
	llm     completer
	timeout time.Duration
	log     *slog.Logger
}

// NewService creates the synthesizer service.
func NewService(llm completer, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		llm:     llm,
		timeout: timeout,
		log:     logger.With("component", "synthesizer"),
	}
}

// modelInsight is the wire shape the prompt asks the model to emit.
type modelInsight struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	InsightType string   `json:"insight_type"`
	Department  *string  `json:"department,omitempty"`
	ActionItems []string `json:"action_items"`
}

// Synthesize performs exactly one outbound model call for the digest and
// defensively parses the completion. Malformed output and timeouts are
// terminal but non-fatal: the result carries a warning and no insights.
// There is no retry.
func (s *Service) Synthesize(ctx context.Context, digest Digest) Result {
	digestJSON, err := json.Marshal(digest)
	if err != nil {
		return warned(fmt.Sprintf("could not encode digest: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.llm.Complete(ctx, buildPrompt(string(digestJSON)))
	if err != nil {
		// Timeout behaves identically to malformed output.
		s.log.WarnContext(ctx, "llm completion failed", slog.String("error", err.Error()))
		return warned("insight synthesis unavailable: the model call failed or timed out")
	}

	repaired, ok := repairArray(raw)
	if !ok {
		s.log.WarnContext(ctx, "llm completion contained no JSON array", slog.Int("raw_len", len(raw)))
		return warned("the model returned no parseable insights")
	}

	var parsed []modelInsight
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		s.log.WarnContext(ctx, "llm completion failed strict parse", slog.String("error", err.Error()))
		return warned("the model returned malformed insights that could not be repaired")
	}

	insights := make([]domain.Insight, 0, len(parsed))
	now := time.Now().UTC()
	for _, m := range parsed {
		if m.Title == "" {
			continue // unrecoverable entry, discard
		}
		insights = append(insights, s.toDomain(digest.OrganizationID, m, now))
	}

	return Result{Insights: insights}
}

// toDomain normalizes one model object onto the shared Insight schema so
// model-based and rule-based insights are indistinguishable downstream
// except for their origin tag.
func (s *Service) toDomain(orgID uuid.UUID, m modelInsight, now time.Time) domain.Insight {
	severity := domain.Severity(m.Severity)
	if !severity.IsValid() {
		severity = domain.SeverityInfo
	}

	typ := domain.InsightType(m.InsightType)
	if !typ.IsValid() {
		typ = domain.InsightTypeRecommendation
	}

	actionItems := m.ActionItems
	if actionItems == nil {
		actionItems = []string{}
	}

	var dept *string
	if m.Department != nil && *m.Department != "" {
		dept = m.Department
	}

	return domain.Insight{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Type:           typ,
		Title:          m.Title,
		Description:    m.Description,
		Severity:       severity,
		Origin:         domain.OriginModel,
		Department:     dept,
		DataPoints:     map[string]any{},
		ActionItems:    actionItems,
		CreatedAt:      now,
	}
}

func warned(msg string) Result {
	return Result{Insights: []domain.Insight{}, Warning: &msg}
}
