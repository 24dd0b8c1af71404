package survey

import (
	"maps"
	"strings"
)

// AnswerStore holds one respondent's raw answers plus the free text typed for
// answers recorded as OtherValue.
type AnswerStore struct {
	values Answers
	other  map[string]string
}

// NewAnswerStore returns an empty store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{values: Answers{}, other: map[string]string{}}
}

// Set records value for id. Moving away from OtherValue drops the stored free text.
func (s *AnswerStore) Set(id, value string) {
	if value != OtherValue {
		delete(s.other, id)
	}
	if value == "" {
		delete(s.values, id)
		return
	}
	s.values[id] = value
}

// SetOther records the free text for id.
func (s *AnswerStore) SetOther(id, text string) {
	if strings.TrimSpace(text) == "" {
		delete(s.other, id)
		return
	}
	s.other[id] = text
}

// Value returns the raw answer for id.
func (s *AnswerStore) Value(id string) (string, bool) {
	v, ok := s.values[id]
	return v, ok
}

// Other returns the free text for id.
func (s *AnswerStore) Other(id string) string {
	return s.other[id]
}

// Answers returns a copy of the raw answers.
func (s *AnswerStore) Answers() Answers {
	return s.values.Clone()
}

// OtherTexts returns a copy of the free-text map.
func (s *AnswerStore) OtherTexts() map[string]string {
	return maps.Clone(s.other)
}

// Clear forgets everything.
func (s *AnswerStore) Clear() {
	clear(s.values)
	clear(s.other)
}

func (s *AnswerStore) load(values Answers, other map[string]string) {
	s.Clear()
	for k, v := range values {
		s.values[k] = v
	}
	for k, v := range other {
		if values[k] == OtherValue {
			s.other[k] = v
		}
	}
}
