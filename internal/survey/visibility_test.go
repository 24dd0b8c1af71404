package survey

import (
	"slices"
	"testing"
)

func branchCatalog() Catalog {
	return Catalog{
		{ID: "audience", Text: "Для кого?", Type: SingleChoiceInline, Options: Fixed("Дитина", "Дорослий"), Required: true},
		{ID: "size", Text: "Розмір", Type: SingleChoiceDropdown, Options: Fixed("80*190", "160*200", "свій варіант"), Required: true},
		{ID: "budget", Text: "Бюджет", Type: SingleChoiceInline, Options: BudgetTiers.Options(), Required: true},
		{ID: "pain", Text: "Біль?", Type: SingleChoiceInline, Options: Fixed("так", "ні"), Required: true,
			ShowIf: NewCondition("audience", "Дорослий", NormalizeTrim)},
		{ID: "pain_area", Text: "Де болить?", Type: SingleChoiceInline, Options: Fixed("поперек", "свій варіант"), Required: true,
			ShowIf: NewCondition("pain", "так", NormalizeTrim)},
		{ID: "pain_custom", Text: "Опишіть", Type: FreeText, Required: true,
			ShowIf: NewCondition("pain_area", "свій варіант", NormalizeTrim)},
		{ID: "child_age", Text: "Вік дитини", Type: Numeric, Required: true,
			ShowIf: NewCondition("audience", "Дитина", NormalizeTrim)},
	}
}

func TestVisibleIndexes(t *testing.T) {
	c := branchCatalog()

	tests := []struct {
		name    string
		answers Answers
		want    []int
	}{
		{"no answers", Answers{}, []int{0, 1, 2}},
		{"adult", Answers{"audience": "Дорослий"}, []int{0, 1, 2, 3}},
		{"adult in pain", Answers{"audience": "Дорослий", "pain": "так"}, []int{0, 1, 2, 3, 4}},
		{"child", Answers{"audience": "Дитина"}, []int{0, 1, 2, 6}},
		{"legacy follow-up via other sentinel", Answers{"audience": "Дорослий", "pain": "так", "pain_area": OtherValue}, []int{0, 1, 2, 3, 4, 5}},
		{"stale branch stays closed", Answers{"audience": "Дитина", "pain": "так", "pain_area": "поперек"}, []int{0, 1, 2, 6}},
		{"empty driver value hides", Answers{"audience": ""}, []int{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleIndexes(c, tt.answers)
			if !slices.Equal(got, tt.want) {
				t.Errorf("VisibleIndexes() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Switching the audience hides pain, and pain_area with it even though its own
// driver still holds "так".
func TestVisibleIndexesHiddenDriverCascades(t *testing.T) {
	c := branchCatalog()
	answers := Answers{"audience": "Дорослий", "pain": "так", "pain_area": "свій варіант", "pain_custom": "шия"}
	if got := VisibleIndexes(c, answers); !slices.Equal(got, []int{0, 1, 2, 3, 4, 5}) {
		t.Fatalf("adult branch = %v", got)
	}

	answers["audience"] = "Дитина"
	got := VisibleIndexes(c, answers)
	if !slices.Equal(got, []int{0, 1, 2, 6}) {
		t.Fatalf("after switching to child = %v", got)
	}
	if answers["pain"] != "так" {
		t.Fatal("visibility must not modify the answers")
	}

	answers["audience"] = "Дорослий"
	if got := VisibleIndexes(c, answers); !slices.Equal(got, []int{0, 1, 2, 3, 4, 5}) {
		t.Fatalf("switching back = %v", got)
	}
}

func TestVisibleIndexesIsPure(t *testing.T) {
	c := branchCatalog()
	answers := Answers{"audience": "Дитина", "pain": "так"}
	first := VisibleIndexes(c, answers)
	second := VisibleIndexes(c, answers)
	if !slices.Equal(first, second) {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
	if answers["pain"] != "так" {
		t.Fatal("VisibleIndexes mutated the answers")
	}
}

func TestConditionMatches(t *testing.T) {
	tests := []struct {
		name    string
		cond    *Condition
		answers Answers
		want    bool
	}{
		{"nil holds", nil, Answers{}, true},
		{"empty holds", &Condition{}, Answers{}, true},
		{"missing answer", NewCondition("a", "x", NormalizeTrim), Answers{}, false},
		{"comma list", NewCondition("a", "x, y ,z", NormalizeTrim), Answers{"a": " y "}, true},
		{"not in list", NewCondition("a", "x,y", NormalizeTrim), Answers{"a": "w"}, false},
		{"size spaces ignored", NewCondition("size", "160 * 200", NormalizeStripSpaces), Answers{"size": "160*200"}, true},
		{"trim keeps inner spaces", NewCondition("size", "160 * 200", NormalizeTrim), Answers{"size": "160*200"}, false},
		{"sentinel matches other label", NewCondition("a", "інше (впишіть)", NormalizeTrim), Answers{"a": OtherValue}, true},
		{"sentinel does not match plain", NewCondition("a", "так", NormalizeTrim), Answers{"a": OtherValue}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.Matches(tt.answers); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConditionExpression(t *testing.T) {
	c := &Condition{}
	if err := c.WithExpression(`audience == "Дорослий" && pain == "так"`); err != nil {
		t.Fatalf("WithExpression: %v", err)
	}
	if !c.Matches(Answers{"audience": "Дорослий", "pain": "так"}) {
		t.Error("expected match")
	}
	if c.Matches(Answers{"audience": "Дорослий"}) {
		t.Error("undefined variable should not match")
	}

	pair := NewCondition("audience", "Дорослий", NormalizeTrim)
	if err := pair.WithExpression(`pain == "так"`); err != nil {
		t.Fatalf("WithExpression: %v", err)
	}
	if pair.Matches(Answers{"audience": "Дорослий", "pain": "ні"}) {
		t.Error("pair and expression must both hold")
	}

	if err := (&Condition{}).WithExpression(`audience ==`); err == nil {
		t.Error("expected compile error")
	}
}

func TestParseNormalization(t *testing.T) {
	for in, want := range map[string]Normalization{
		"":             NormalizeTrim,
		"trim":         NormalizeTrim,
		"strip-spaces": NormalizeStripSpaces,
		"STRIP_SPACES": NormalizeStripSpaces,
	} {
		got, err := ParseNormalization(in)
		if err != nil || got != want {
			t.Errorf("ParseNormalization(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseNormalization("lowercase"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
