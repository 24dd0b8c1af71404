package catalog

import (
	"context"
	"slices"
	"testing"

	"mattressfit/internal/survey"
)

type okSubmitter struct{ leads []survey.Lead }

func (s *okSubmitter) SubmitLead(_ context.Context, lead survey.Lead) (survey.SubmitResult, error) {
	s.leads = append(s.leads, lead)
	return survey.SubmitResult{OK: true}, nil
}

func answerCurrent(t *testing.T, s *survey.Session, value string) {
	t.Helper()
	q, ok := s.Current()
	if !ok {
		t.Fatal("no current question")
	}
	if err := s.Answer(q.ID, value); err != nil {
		t.Fatalf("answer %s: %v", q.ID, err)
	}
}

func TestDefaultCatalogChildPath(t *testing.T) {
	n := NewNormalizer(nil)
	c := n.CatalogFromInputs(DefaultQuestions())
	if len(c) != len(DefaultQuestions()) {
		t.Fatalf("default catalog lost entries: %d", len(c))
	}
	s := survey.NewSession(c)

	path := []struct{ id, value string }{
		{"audience", "Дитина"},
		{"size", "160*200"},
		{"budget", "6500-9000грн."},
		{"child_age", "7"},
		{"child_weight", "25"},
		{"child_height", "120"},
		{"child_health", "інше (пропишіть)"},
		{"child_current_mattress", "диван"},
		{"child_current_name", ""},
		{"child_dissatisfaction", "просів"},
		{"child_base", "на підлозі"},
		{"child_extra", ""},
	}
	for _, step := range path {
		q, ok := s.Current()
		if !ok || q.ID != step.id {
			t.Fatalf("current = %q, want %q", q.ID, step.id)
		}
		if step.value != "" {
			answerCurrent(t, s, step.value)
		}
		if step.id == "child_health" {
			if err := s.AnswerOther("child_health", "плоскостопість"); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.Advance(); err != nil {
			t.Fatalf("advance from %s: %v", step.id, err)
		}
	}
	if s.Phase() != survey.PhaseContact {
		t.Fatalf("phase = %s", s.Phase())
	}
	if err := s.SetContact(survey.Contact{Name: "Ірина", Phone: "+380991234567", City: "Львів"}); err != nil {
		t.Fatal(err)
	}
	sub := &okSubmitter{}
	lead, err := s.Submit(context.Background(), sub)
	if err != nil {
		t.Fatal(err)
	}

	var health string
	var ids []string
	for _, r := range lead.ResolvedAnswers {
		ids = append(ids, r.ID)
		if r.ID == "child_health" {
			health = r.FinalValue
		}
	}
	if health != "плоскостопість" {
		t.Errorf("child_health = %q", health)
	}
	if slices.Contains(ids, "pain") || slices.Contains(ids, "adults_count") {
		t.Errorf("adult questions projected: %v", ids)
	}
}

func TestDefaultCatalogPartnerQuestions(t *testing.T) {
	c := NewNormalizer(nil).CatalogFromInputs(DefaultQuestions())
	one := survey.VisibleIndexes(c, survey.Answers{"audience": "Дорослий", "adults_count": "1"})
	two := survey.VisibleIndexes(c, survey.Answers{"audience": "Дорослий", "adults_count": "2"})
	if len(two)-len(one) != 3 {
		t.Fatalf("partner block adds %d questions, want 3", len(two)-len(one))
	}
}
