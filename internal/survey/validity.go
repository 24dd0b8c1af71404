package survey

import "strings"

// IsValid reports whether q's current answer lets the respondent move on.
// Numeric answers are only checked for presence here.
func IsValid(q Question, answers Answers, other map[string]string) bool {
	if !q.Required {
		return true
	}
	raw := answers[q.ID]
	if raw == OtherValue {
		if q.OtherInput != nil && !q.OtherInput.Required {
			return true
		}
		return strings.TrimSpace(other[q.ID]) != ""
	}
	return strings.TrimSpace(raw) != ""
}
