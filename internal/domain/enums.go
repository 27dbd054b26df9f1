package domain

// SentimentLabel is the coarse sentiment classification of a check-in body.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

func (s SentimentLabel) String() string { return string(s) }

func (s SentimentLabel) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Channel is the source channel of an inbound check-in.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelWeb      Channel = "web"
)

func (c Channel) String() string { return string(c) }

func (c Channel) IsValid() bool {
	switch c {
	case ChannelWhatsApp, ChannelWeb:
		return true
	}
	return false
}

// InsightType categorizes a materialized finding.
type InsightType string

const (
	InsightTypeTrendAnalysis      InsightType = "trend_analysis"
	InsightTypeRiskDetection      InsightType = "risk_detection"
	InsightTypeRecommendation     InsightType = "recommendation"
	InsightTypeDepartmentInsight  InsightType = "department_insight"
	InsightTypeEmployeeInsight    InsightType = "employee_insight"
	InsightTypePositiveTrend      InsightType = "positive_trend"
)

func (t InsightType) String() string { return string(t) }

func (t InsightType) IsValid() bool {
	switch t {
	case InsightTypeTrendAnalysis, InsightTypeRiskDetection, InsightTypeRecommendation,
		InsightTypeDepartmentInsight, InsightTypeEmployeeInsight, InsightTypePositiveTrend:
		return true
	}
	return false
}

// Severity grades an Insight.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) String() string { return string(s) }

func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// InsightOrigin tags which generator produced an Insight. Rule-based and
// model-based insights share one schema; the origin keeps them reconcilable.
type InsightOrigin string

const (
	OriginRule  InsightOrigin = "rule"
	OriginModel InsightOrigin = "model"
)

func (o InsightOrigin) String() string { return string(o) }

func (o InsightOrigin) IsValid() bool {
	return o == OriginRule || o == OriginModel
}

// AlertType identifies the heuristic behind an Alert.
type AlertType string

// AlertTypeBurnoutRisk is currently the only alert type.
const AlertTypeBurnoutRisk AlertType = "burnout_risk"

func (t AlertType) String() string { return string(t) }

// AlertSeverity grades an Alert. Alerts use a narrower scale than Insights.
type AlertSeverity string

const (
	AlertSeverityMedium AlertSeverity = "medium"
	AlertSeverityHigh   AlertSeverity = "high"
)

func (s AlertSeverity) String() string { return string(s) }

func (s AlertSeverity) IsValid() bool {
	return s == AlertSeverityMedium || s == AlertSeverityHigh
}

// DeliveryStatus is the terminal state of one outbound send attempt.
type DeliveryStatus string

const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

func (s DeliveryStatus) String() string { return string(s) }

// MessageTemplate keys the canned check-in request wording.
type MessageTemplate string

const (
	TemplateDaily    MessageTemplate = "daily"
	TemplateWeekly   MessageTemplate = "weekly"
	TemplateBiweekly MessageTemplate = "biweekly"
)

func (t MessageTemplate) String() string { return string(t) }

func (t MessageTemplate) IsValid() bool {
	switch t {
	case TemplateDaily, TemplateWeekly, TemplateBiweekly:
		return true
	}
	return false
}
