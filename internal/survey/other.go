package survey

import "strings"

// OtherValue is recorded instead of the picked label when a choice stands for
// "my own answer". The free text lives in the answer store's other map.
const OtherValue = "__other__"

var otherMarkers = []string{
	"інше",
	"свій варіант",
	"власний варіант",
	"другое",
	"свой вариант",
	"other",
}

// IsOtherLabel reports whether label marks a custom-answer choice.
func IsOtherLabel(label string) bool {
	l := strings.ToLower(label)
	for _, m := range otherMarkers {
		if strings.Contains(l, m) {
			return true
		}
	}
	return false
}

// IsOtherOption reports whether picking option on q records OtherValue.
//
// Any option whose own label is an other-label redirects. With an enabled
// other-input, the option carrying the configured label redirects too, whatever
// its wording.
func (q Question) IsOtherOption(option string) bool {
	if !q.Type.IsChoice() {
		return false
	}
	if IsOtherLabel(option) {
		return true
	}
	if q.OtherInput == nil || !q.OtherInput.Enabled {
		return false
	}
	label := strings.TrimSpace(q.OtherInput.Label)
	return label != "" && strings.EqualFold(strings.TrimSpace(option), label)
}

// HasOtherOption reports whether any of the given options redirects to OtherValue.
func (q Question) HasOtherOption(options []string) bool {
	for _, o := range options {
		if q.IsOtherOption(o) {
			return true
		}
	}
	return false
}
