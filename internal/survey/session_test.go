package survey

import (
	"context"
	"errors"
	"slices"
	"testing"
)

type recordingSubmitter struct {
	calls   []Lead
	results []SubmitResult
	errs    []error
}

func (r *recordingSubmitter) SubmitLead(_ context.Context, lead Lead) (SubmitResult, error) {
	i := len(r.calls)
	r.calls = append(r.calls, lead)
	var err error
	if i < len(r.errs) {
		err = r.errs[i]
	}
	res := SubmitResult{OK: true}
	if i < len(r.results) {
		res = r.results[i]
	}
	return res, err
}

func scenarioCatalog() Catalog {
	return Catalog{
		{ID: "audience", Text: "Для кого?", Type: SingleChoiceInline, Options: Fixed("Дитина", "Дорослий"), Required: true},
		{ID: "child_age", Text: "Вік дитини", Type: Numeric, Required: true, ShowIf: NewCondition("audience", "Дитина", NormalizeTrim)},
		{ID: "adult_1_weight", Text: "Ваша вага (кг)", Type: Numeric, Required: true, ShowIf: NewCondition("audience", "Дорослий", NormalizeTrim)},
	}
}

var validContact = Contact{Name: "Олена", Phone: "0991234567", City: "Київ"}

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestSessionEndToEnd(t *testing.T) {
	s := NewSession(scenarioCatalog())
	if s.CanAdvance() {
		t.Fatal("can advance before answering")
	}

	mustDo(t, s.Answer("audience", "Дорослий"))
	if got, want := s.Visible(), []int{0, 2}; !slices.Equal(got, want) {
		t.Fatalf("visible = %v, want %v", got, want)
	}
	mustDo(t, s.Advance())
	if q, _ := s.Current(); q.ID != "adult_1_weight" {
		t.Fatalf("current = %s, want adult_1_weight", q.ID)
	}
	if pos, total := s.Position(); pos != 2 || total != 2 {
		t.Fatalf("position = %d/%d", pos, total)
	}

	if err := s.Advance(); !errors.Is(err, ErrAnswerRequired) {
		t.Fatalf("Advance without answer = %v", err)
	}
	mustDo(t, s.Answer("adult_1_weight", "80"))
	mustDo(t, s.Advance())
	if s.Phase() != PhaseContact {
		t.Fatalf("phase = %s, want contact", s.Phase())
	}

	mustDo(t, s.SetContact(validContact))
	sub := &recordingSubmitter{}
	lead, err := s.Submit(context.Background(), sub)
	mustDo(t, err)

	if len(sub.calls) != 1 {
		t.Fatalf("submitter called %d times", len(sub.calls))
	}
	want := []ResolvedAnswer{
		{ID: "audience", QuestionText: "Для кого?", FinalValue: "Дорослий"},
		{ID: "adult_1_weight", QuestionText: "Ваша вага (кг)", FinalValue: "80"},
	}
	if !slices.Equal(lead.ResolvedAnswers, want) {
		t.Fatalf("resolved = %+v", lead.ResolvedAnswers)
	}
	if s.Phase() != PhaseSuccess {
		t.Fatalf("phase = %s, want success", s.Phase())
	}
}

func TestSessionRetryAfterFailure(t *testing.T) {
	s := NewSession(scenarioCatalog())
	mustDo(t, s.Answer("audience", "Дитина"))
	mustDo(t, s.Advance())
	mustDo(t, s.Answer("child_age", "6"))
	mustDo(t, s.Advance())
	mustDo(t, s.SetContact(validContact))

	sub := &recordingSubmitter{errs: []error{errors.New("network down")}}
	_, err := s.Submit(context.Background(), sub)
	if !errors.Is(err, ErrSubmitFailed) {
		t.Fatalf("first submit = %v, want ErrSubmitFailed", err)
	}
	if s.Phase() != PhaseContact {
		t.Fatalf("phase after failure = %s", s.Phase())
	}
	if s.Contact() != validContact {
		t.Fatalf("contact lost: %+v", s.Contact())
	}
	if a := s.Answers(); a["audience"] != "Дитина" || a["child_age"] != "6" {
		t.Fatalf("answers lost: %v", a)
	}
	if s.Submitting() {
		t.Fatal("still submitting after failure")
	}

	_, err = s.Submit(context.Background(), sub)
	mustDo(t, err)
	if s.Phase() != PhaseSuccess {
		t.Fatalf("phase = %s, want success", s.Phase())
	}
	if len(sub.calls) != 2 || !slices.Equal(sub.calls[0].ResolvedAnswers, sub.calls[1].ResolvedAnswers) {
		t.Fatal("retry must resend the same lead")
	}
}

func TestSessionRejectedResultKeepsContactPhase(t *testing.T) {
	s := NewSession(scenarioCatalog())
	mustDo(t, s.Answer("audience", "Дитина"))
	mustDo(t, s.Advance())
	mustDo(t, s.Answer("child_age", "6"))
	mustDo(t, s.Advance())
	mustDo(t, s.SetContact(validContact))

	_, err := s.Submit(context.Background(), &recordingSubmitter{results: []SubmitResult{{OK: false, Reason: "telegram not configured"}}})
	var serr *SubmitError
	if !errors.As(err, &serr) || serr.Reason != "telegram not configured" {
		t.Fatalf("Submit() = %v", err)
	}
	if s.Phase() != PhaseContact {
		t.Fatalf("phase = %s", s.Phase())
	}
}

func TestSessionSubmitValidatesContact(t *testing.T) {
	s := NewSession(scenarioCatalog())
	mustDo(t, s.Answer("audience", "Дитина"))
	mustDo(t, s.Advance())
	mustDo(t, s.Answer("child_age", "6"))
	mustDo(t, s.Advance())
	mustDo(t, s.SetContact(Contact{Name: "Олена", Phone: "123", City: "Київ"}))

	sub := &recordingSubmitter{}
	_, err := s.Submit(context.Background(), sub)
	var cerr *ContactError
	if !errors.As(err, &cerr) || cerr.Field != "phone" {
		t.Fatalf("Submit() = %v", err)
	}
	if len(sub.calls) != 0 {
		t.Fatal("submitter called with invalid contact")
	}
}

func TestSessionPointerClamp(t *testing.T) {
	c := Catalog{
		{ID: "a", Text: "A", Type: SingleChoiceInline, Options: Fixed("x", "y"), Required: true},
		{ID: "b", Text: "B", Type: FreeText, ShowIf: NewCondition("a", "x", NormalizeTrim)},
		{ID: "c", Text: "C", Type: FreeText},
		{ID: "d", Text: "D", Type: FreeText, ShowIf: NewCondition("a", "x", NormalizeTrim)},
	}

	st := State{Phase: PhaseSurvey, Pointer: 1, Answers: Answers{"a": "y"}}
	if s := RestoreSession(c, st); s.Pointer() != 2 {
		t.Fatalf("pointer = %d, want next visible 2", s.Pointer())
	}

	st = State{Phase: PhaseSurvey, Pointer: 3, Answers: Answers{"a": "y"}}
	if s := RestoreSession(c, st); s.Pointer() != 2 {
		t.Fatalf("pointer = %d, want last visible 2", s.Pointer())
	}
}

func TestSessionAnswerRules(t *testing.T) {
	c := Catalog{
		{ID: "size", Text: "Розмір", Type: SingleChoiceDropdown, Options: Fixed("80*190", "свій варіант"), Required: true,
			OtherInput: &OtherInput{Enabled: true, Label: "свій варіант", Required: true}},
		{ID: "budget", Text: "Бюджет", Type: SingleChoiceInline, Options: BudgetTiers.Options(), Required: true},
	}
	s := NewSession(c)

	if err := s.Answer("budget", "до 5000грн."); !errors.Is(err, ErrNotCurrentQuestion) {
		t.Fatalf("answering ahead = %v", err)
	}
	if err := s.Answer("size", "70*190"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("unknown option = %v", err)
	}
	if err := s.AnswerOther("size", "170*200"); !errors.Is(err, ErrNotOtherAnswer) {
		t.Fatalf("other text before other option = %v", err)
	}

	mustDo(t, s.Answer("size", "свій варіант"))
	if v := s.Answers()["size"]; v != OtherValue {
		t.Fatalf("recorded %q, want sentinel", v)
	}
	if s.CanAdvance() {
		t.Fatal("required other text missing but can advance")
	}
	mustDo(t, s.AnswerOther("size", "170*200"))
	mustDo(t, s.Advance())

	if got := s.CurrentOptions(); !slices.Equal(got, BudgetTiers.Default) {
		t.Fatalf("budget options = %v", got)
	}

	mustDo(t, s.Retreat())
	mustDo(t, s.Answer("size", "80*190"))
	if s.OtherText("size") != "" {
		t.Fatal("other text kept after switching away")
	}
}

func TestSessionRetreat(t *testing.T) {
	s := NewSession(scenarioCatalog())
	mustDo(t, s.Retreat())
	if s.Pointer() != 0 {
		t.Fatal("retreat on first question moved")
	}
	mustDo(t, s.Answer("audience", "Дорослий"))
	mustDo(t, s.Advance())
	mustDo(t, s.Answer("adult_1_weight", "70"))
	mustDo(t, s.Advance())
	if err := s.Answer("adult_1_weight", "71"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("answer in contact phase = %v", err)
	}
	mustDo(t, s.Retreat())
	if q, _ := s.Current(); s.Phase() != PhaseSurvey || q.ID != "adult_1_weight" {
		t.Fatalf("retreat from contact landed on %s/%s", s.Phase(), q.ID)
	}
}

func TestSessionEmptyCatalog(t *testing.T) {
	s := NewSession(nil)
	if _, ok := s.Current(); ok {
		t.Fatal("empty catalog has a current question")
	}
	if s.CanAdvance() {
		t.Fatal("empty catalog can advance")
	}
	if s.Progress() != 0 {
		t.Fatalf("progress = %v", s.Progress())
	}
}
