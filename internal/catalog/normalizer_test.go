package catalog

import (
	"errors"
	"slices"
	"testing"

	"mattressfit/internal/model"
	"mattressfit/internal/survey"
)

func boolp(b bool) *bool { return &b }

func TestNormalize(t *testing.T) {
	n := NewNormalizer(nil)
	records, err := n.Normalize([]model.QuestionInput{
		{ID: " q1 ", Question: " Перше ", Type: "radio", Options: []string{" a ", "", "b"}},
		{ID: "", Question: "без id"},
		{ID: "q2", Question: "  "},
		{ID: "q1", Question: "дублікат"},
		{ID: "q3", Question: "Текст", Type: "text", Options: []string{"ignored"}, Required: boolp(false)},
		{ID: "q4", Question: "Старий тип", Type: "single", Options: []string{"x"},
			ShowIfQuestionID: "q1", ShowIfValue: "a",
			OtherInput: &model.OtherInputSpec{Enabled: true}},
		{ID: "q5", Question: "Невідомий", Type: "slider"},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	var ids []string
	for _, r := range records {
		ids = append(ids, r.QuestionID)
	}
	if want := []string{"q1", "q3", "q4", "q5"}; !slices.Equal(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}

	q1 := records[0]
	if q1.QuestionText != "Перше" || !slices.Equal(q1.Options, []string{"a", "b"}) || !q1.Required || q1.OrderIndex != 1 {
		t.Errorf("q1 = %+v", q1)
	}
	if q3 := records[1]; q3.Options != nil || q3.Required || q3.OrderIndex != 2 {
		t.Errorf("q3 = %+v", q3)
	}
	q4 := records[2]
	if q4.QuestionType != "radio" {
		t.Errorf("legacy type not mapped: %q", q4.QuestionType)
	}
	if q4.ShowIf == nil || q4.ShowIf.QuestionID != "q1" || q4.ShowIf.AnswerValue != "a" {
		t.Errorf("q4 showIf = %+v", q4.ShowIf)
	}
	if oi := q4.OtherInput; oi == nil || oi.Label != DefaultOtherLabel || oi.Placeholder != DefaultOtherPlaceholder || !oi.Required {
		t.Errorf("q4 other input = %+v", q4.OtherInput)
	}
	if q5 := records[3]; q5.QuestionType != "text" {
		t.Errorf("unknown type = %q, want text", q5.QuestionType)
	}
}

func TestNormalizeRejectsEmpty(t *testing.T) {
	_, err := NewNormalizer(nil).Normalize([]model.QuestionInput{{ID: "x"}, {Question: "y"}})
	if !errors.Is(err, ErrNoValidQuestions) {
		t.Fatalf("err = %v", err)
	}
}

func TestCatalogFromRecords(t *testing.T) {
	n := NewNormalizer(nil)
	c := n.Catalog([]model.QuestionRecord{
		{QuestionID: "budget", QuestionText: "Бюджет", QuestionType: "radio", Options: []string{"stored"}, Required: true, OrderIndex: 3},
		{QuestionID: "size", QuestionText: "Розмір", QuestionType: "select", Options: []string{"160*200"}, Required: true, OrderIndex: 1},
		{QuestionID: "big", QuestionText: "Великий", QuestionType: "multiple", OrderIndex: 2,
			ShowIf: &model.ShowIfLogic{QuestionID: "size", AnswerValue: "160 * 200, 180*200"}},
	})

	if len(c) != 3 || c[0].ID != "size" || c[1].ID != "big" || c[2].ID != "budget" {
		t.Fatalf("order = %+v", c)
	}
	if c[1].Type != survey.FreeText {
		t.Errorf("multiple maps to %s", c[1].Type)
	}
	if !c[1].ShowIf.Matches(survey.Answers{"size": "160*200"}) {
		t.Error("size condition should ignore spaces")
	}
	if c[2].Options.Kind != survey.OptionsDerived {
		t.Fatal("budget options should be derived")
	}
	got := c[2].Options.Resolve(survey.Answers{"size": "160*200"})
	if want := []string{"5200-6500грн.", "6500-9000грн.", "9000-15000грн.", "можна і більше 15000грн"}; !slices.Equal(got, want) {
		t.Errorf("budget = %v", got)
	}
}

func TestCatalogDropsBadExpression(t *testing.T) {
	n := NewNormalizer(nil)
	c := n.Catalog([]model.QuestionRecord{
		{QuestionID: "a", QuestionText: "A", QuestionType: "text", OrderIndex: 1},
		{QuestionID: "b", QuestionText: "B", QuestionType: "text", OrderIndex: 2,
			ShowIf: &model.ShowIfLogic{Expression: "a =="}},
		{QuestionID: "c", QuestionText: "C", QuestionType: "text", OrderIndex: 3,
			ShowIf: &model.ShowIfLogic{Expression: `a == "go"`}},
	})
	if c[1].ShowIf != nil {
		t.Error("broken expression kept")
	}
	if c[2].ShowIf.Matches(survey.Answers{"a": "stop"}) || !c[2].ShowIf.Matches(survey.Answers{"a": "go"}) {
		t.Error("expression condition evaluated wrongly")
	}
}

func TestInputsRoundTrip(t *testing.T) {
	n := NewNormalizer(nil)
	records, err := n.Normalize(DefaultQuestions())
	if err != nil {
		t.Fatal(err)
	}
	again, err := n.Normalize(n.Inputs(records))
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(records) {
		t.Fatalf("len = %d, want %d", len(again), len(records))
	}
	for i := range records {
		a, b := records[i], again[i]
		if a.QuestionID != b.QuestionID || a.QuestionType != b.QuestionType || !slices.Equal(a.Options, b.Options) || a.Required != b.Required {
			t.Errorf("record %d changed: %+v -> %+v", i, a, b)
		}
	}
}

func TestSetNormalization(t *testing.T) {
	n := NewNormalizer(nil)
	n.SetNormalization("city", survey.NormalizeStripSpaces)
	c := n.Catalog([]model.QuestionRecord{
		{QuestionID: "city", QuestionText: "Місто", QuestionType: "text", OrderIndex: 1},
		{QuestionID: "q", QuestionText: "Q", QuestionType: "text", OrderIndex: 2,
			ShowIf: &model.ShowIfLogic{QuestionID: "city", AnswerValue: "Нова Каховка"}},
	})
	if !c[1].ShowIf.Matches(survey.Answers{"city": "НоваКаховка"}) {
		t.Error("configured normalization not applied")
	}
}

func TestNormalizerConfigure(t *testing.T) {
	n := NewNormalizer(nil)
	err := n.Configure(
		map[string]string{"city": "strip-spaces"},
		map[string]string{"price": "budget-tiers"},
	)
	if err != nil {
		t.Fatal(err)
	}

	records, err := n.Normalize([]model.QuestionInput{
		{ID: "size", Question: "Розмір", Type: "text"},
		{ID: "city", Question: "Місто", Type: "text"},
		{ID: "price", Question: "Бюджет", Type: "radio", Options: []string{"ignored"}},
		{ID: "delivery", Question: "Доставка", Type: "text",
			ShowIf: &model.ShowIfInput{QuestionID: "city", Value: "Київ"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := n.Catalog(records)

	price := c[c.IndexOf("price")]
	if got := survey.ResolveOptions(price, survey.Answers{"size": "80 * 190"}); !slices.Equal(got, survey.BudgetTiers.Buckets[0].Options) {
		t.Fatalf("price options = %v", got)
	}
	if !c[c.IndexOf("delivery")].ShowIf.Matches(survey.Answers{"city": "Ки їв"}) {
		t.Fatal("configured strip-spaces not applied")
	}

	if err := n.Configure(nil, map[string]string{"price": "no-such-table"}); err == nil {
		t.Fatal("unknown table accepted")
	}
	if err := n.Configure(map[string]string{"city": "loose"}, nil); err == nil {
		t.Fatal("unknown normalization accepted")
	}
}
