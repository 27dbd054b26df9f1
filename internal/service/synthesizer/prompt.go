package synthesizer

import "fmt"

// buildPrompt creates the model prompt for one digest. The contract with
// the model: a bare JSON array, fixed fields, empty array when the data
// is too thin — no prose, no markdown fences, no commentary.
func buildPrompt(digestJSON string) string {
	return fmt.Sprintf(`You are an HR wellbeing analyst reviewing anonymized employee mood data.

Data (employee roster and recent mood check-ins, scores are 1-5 where 1 is worst):
%s

Produce actionable wellbeing insights for the HR team.

Output ONLY a JSON array of objects matching this exact schema:
[
  {
    "title": "<short finding title>",
    "description": "<one or two sentences of explanation>",
    "severity": "<info|warning|critical>",
    "insight_type": "<trend_analysis|risk_detection|recommendation|department_insight|employee_insight|positive_trend>",
    "department": "<department name, omit if organization-wide>",
    "action_items": ["<concrete suggested action>", "..."]
  }
]

Rules:
- Base every insight strictly on the data above; never invent numbers
- Severity must reflect the data: "critical" only for clearly alarming patterns
- 2-4 action items per insight, concrete and specific
- If the data is insufficient for meaningful insights, output an empty array: []
- Output ONLY the JSON array, no markdown fences, no explanations, no text before or after`, digestJSON)
}
