package survey

// ResolvedAnswer is one visible question with its final value.
type ResolvedAnswer struct {
	ID           string `json:"id" bson:"id" db:"id"`
	QuestionText string `json:"question" bson:"question" db:"question"`
	FinalValue   string `json:"answer" bson:"answer" db:"answer"`
}

// Project builds the resolved answers sent on submission: visible questions only,
// in catalog order, with OtherValue replaced by the typed free text.
func Project(c Catalog, answers Answers, other map[string]string) []ResolvedAnswer {
	visible := VisibleIndexes(c, answers)
	out := make([]ResolvedAnswer, 0, len(visible))
	for _, i := range visible {
		q := c[i]
		value := answers[q.ID]
		if value == OtherValue {
			value = other[q.ID]
		}
		out = append(out, ResolvedAnswer{ID: q.ID, QuestionText: q.Text, FinalValue: value})
	}
	return out
}
