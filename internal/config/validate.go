package config

import (
	"fmt"
	"strings"
)

// placeholderMarkers are substrings that identify never-replaced template
// values copied out of a sample .env. A credential containing one of these
// is treated the same as an absent credential.
var placeholderMarkers = []string{"your_", "changeme", "placeholder", "xxxx"}

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
//
// Carrier and LLM credentials are NOT required here — a deployment may run
// ingestion-only — but when present they must not be placeholders. The
// component constructors enforce presence for the features that need them.
func (c *Config) Validate() error {
	if c.Dispatch.MaxConcurrency <= 0 {
		return fmt.Errorf("dispatch.max_concurrency must be > 0 (got %d)", c.Dispatch.MaxConcurrency)
	}
	if c.Dispatch.AttemptTimeout <= 0 {
		return fmt.Errorf("dispatch.attempt_timeout must be > 0 (got %v)", c.Dispatch.AttemptTimeout)
	}
	if c.Insights.AnalysisWorkers <= 0 {
		return fmt.Errorf("insights.analysis_workers must be > 0 (got %d)", c.Insights.AnalysisWorkers)
	}
	if c.Insights.WindowDays <= 0 {
		return fmt.Errorf("insights.window_days must be > 0 (got %d)", c.Insights.WindowDays)
	}

	for name, v := range map[string]string{
		"twilio.account_sid": c.Twilio.AccountSID,
		"twilio.auth_token":  c.Twilio.AuthToken,
		"llm.api_key":        c.LLM.APIKey,
	} {
		if IsPlaceholder(v) {
			return fmt.Errorf("%s looks like a placeholder value (%q)", name, v)
		}
	}

	return nil
}

// IsPlaceholder reports whether a non-empty credential value is one of the
// well-known sample markers. Empty strings are not placeholders: absence is
// checked separately by the component that requires the value.
func IsPlaceholder(v string) bool {
	if v == "" {
		return false
	}
	lower := strings.ToLower(v)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
