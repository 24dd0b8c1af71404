package survey

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Phase is the step of the survey dialog.
type Phase string

const (
	PhaseSurvey  Phase = "survey"
	PhaseContact Phase = "contact"
	PhaseSuccess Phase = "success"
)

var (
	ErrWrongPhase         = errors.New("operation not allowed in current phase")
	ErrNoQuestion         = errors.New("no question to answer")
	ErrNotCurrentQuestion = errors.New("question is not the current one")
	ErrUnknownOption      = errors.New("value is not one of the question options")
	ErrNotOtherAnswer     = errors.New("question is not answered with the custom option")
	ErrAnswerRequired     = errors.New("current question needs an answer")
	ErrSubmitInFlight     = errors.New("submission already in progress")
	ErrSubmitFailed       = errors.New("submission failed")
)

// SubmitError carries the reason a submission was rejected.
type SubmitError struct {
	Reason string
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrSubmitFailed, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrSubmitFailed, e.Reason)
}

func (e *SubmitError) Is(target error) bool { return target == ErrSubmitFailed }

func (e *SubmitError) Unwrap() error { return e.Err }

// Lead is the immutable record handed to the submitter.
type Lead struct {
	ID              string            `json:"id"`
	Contact         Contact           `json:"contact"`
	RawAnswers      Answers           `json:"rawAnswers"`
	OtherAnswers    map[string]string `json:"otherAnswers,omitempty"`
	ResolvedAnswers []ResolvedAnswer  `json:"resolvedAnswers"`
	SubmittedAt     time.Time         `json:"submittedAt"`
}

// SubmitResult is the submitter's verdict.
type SubmitResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// LeadSubmitter delivers a finished lead.
type LeadSubmitter interface {
	SubmitLead(ctx context.Context, lead Lead) (SubmitResult, error)
}

// State is the serializable part of a session.
type State struct {
	Phase   Phase             `json:"phase"`
	Pointer int               `json:"pointer"`
	Answers Answers           `json:"answers"`
	Other   map[string]string `json:"other,omitempty"`
	Contact Contact           `json:"contact"`
}

// Session is the navigation controller for one open survey dialog. The catalog
// is fixed for the session's lifetime.
type Session struct {
	mu         sync.Mutex
	catalog    Catalog
	store      *AnswerStore
	phase      Phase
	pointer    int
	visible    []int
	contact    Contact
	submitting bool

	now func() time.Time
}

// NewSession starts at the first visible question with no answers.
func NewSession(c Catalog) *Session {
	s := &Session{catalog: c, store: NewAnswerStore(), phase: PhaseSurvey, now: time.Now}
	s.refresh()
	s.pointer = s.firstVisible()
	return s
}

// RestoreSession rebuilds a session from a snapshot taken with State.
func RestoreSession(c Catalog, st State) *Session {
	s := &Session{catalog: c, store: NewAnswerStore(), phase: st.Phase, now: time.Now}
	if s.phase == "" {
		s.phase = PhaseSurvey
	}
	s.store.load(st.Answers, st.Other)
	s.contact = st.Contact
	s.pointer = st.Pointer
	s.refresh()
	return s
}

// State snapshots the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Phase:   s.phase,
		Pointer: s.pointer,
		Answers: s.store.Answers(),
		Other:   s.store.OtherTexts(),
		Contact: s.contact,
	}
}

// Catalog returns the session's catalog.
func (s *Session) Catalog() Catalog { return s.catalog }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Pointer returns the catalog index of the current question.
func (s *Session) Pointer() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer
}

// Visible returns the visible catalog indexes.
func (s *Session) Visible() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.visible)
}

// Answers returns a copy of the raw answers.
func (s *Session) Answers() Answers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Answers()
}

// OtherText returns the free text typed for questionID.
func (s *Session) OtherText(questionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Other(questionID)
}

// Contact returns the contact fields entered so far.
func (s *Session) Contact() Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contact
}

// Submitting reports whether a submission is in flight.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Current returns the question being shown, if any.
func (s *Session) Current() (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

func (s *Session) current() (Question, bool) {
	if s.phase != PhaseSurvey || len(s.visible) == 0 {
		return Question{}, false
	}
	return s.catalog[s.pointer], true
}

// CurrentOptions resolves the current question's options against the answers.
func (s *Session) CurrentOptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.current()
	if !ok {
		return nil
	}
	return ResolveOptions(q, s.store.Answers())
}

// Position returns the 1-based position among visible questions and their count.
func (s *Session) Position() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position() + 1, len(s.visible)
}

func (s *Session) position() int {
	return slices.Index(s.visible, s.pointer)
}

// Progress returns the percentage of visible questions reached.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.phase != PhaseSurvey:
		return 100
	case len(s.visible) == 0:
		return 0
	}
	return float64(max(0, s.position())+1) / float64(len(s.visible)) * 100
}

// CanAdvance reports whether the current answer is complete.
func (s *Session) CanAdvance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canAdvance()
}

func (s *Session) canAdvance() bool {
	q, ok := s.current()
	if !ok {
		return false
	}
	return IsValid(q, s.store.values, s.store.other)
}

// CanRetreat reports whether Retreat moves anywhere.
func (s *Session) CanRetreat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case PhaseSurvey:
		return s.position() > 0
	case PhaseContact:
		return !s.submitting
	}
	return false
}

// Answer records value for the current question. For choice questions value must
// be one of the resolved options; a custom-answer option is recorded as OtherValue.
func (s *Session) Answer(questionID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.currentFor(questionID)
	if err != nil {
		return err
	}
	if q.Type.IsChoice() && value != "" {
		options := ResolveOptions(q, s.store.Answers())
		switch {
		case value == OtherValue:
			if !q.HasOtherOption(options) {
				return ErrUnknownOption
			}
		case !slices.Contains(options, value):
			return ErrUnknownOption
		case q.IsOtherOption(value):
			value = OtherValue
		}
	}
	s.store.Set(q.ID, value)
	s.refresh()
	return nil
}

// AnswerOther records the free text for a current question answered with OtherValue.
func (s *Session) AnswerOther(questionID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.currentFor(questionID)
	if err != nil {
		return err
	}
	if v, _ := s.store.Value(q.ID); v != OtherValue {
		return ErrNotOtherAnswer
	}
	s.store.SetOther(q.ID, text)
	s.refresh()
	return nil
}

func (s *Session) currentFor(questionID string) (Question, error) {
	if s.phase != PhaseSurvey {
		return Question{}, ErrWrongPhase
	}
	q, ok := s.current()
	if !ok {
		return Question{}, ErrNoQuestion
	}
	if q.ID != questionID {
		return Question{}, ErrNotCurrentQuestion
	}
	return q, nil
}

// Advance moves to the next visible question, or to the contact step after the last one.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSurvey {
		return ErrWrongPhase
	}
	if !s.canAdvance() {
		return ErrAnswerRequired
	}
	pos := s.position()
	if pos >= 0 && pos < len(s.visible)-1 {
		s.pointer = s.visible[pos+1]
		return nil
	}
	s.phase = PhaseContact
	return nil
}

// Retreat moves to the previous visible question, or from the contact step back to
// the last visible question. On the first question it does nothing.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseSurvey:
		if pos := s.position(); pos > 0 {
			s.pointer = s.visible[pos-1]
		}
		return nil
	case PhaseContact:
		if s.submitting {
			return ErrSubmitInFlight
		}
		s.phase = PhaseSurvey
		if n := len(s.visible); n > 0 {
			s.pointer = s.visible[n-1]
		}
		return nil
	}
	return ErrWrongPhase
}

// SetContact stores the contact fields. Digits typed into the city are dropped.
func (s *Session) SetContact(c Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseContact {
		return ErrWrongPhase
	}
	if s.submitting {
		return ErrSubmitInFlight
	}
	c.City = SanitizeCity(c.City)
	s.contact = c
	return nil
}

// Submit validates the contact fields and hands the lead to sub. Only a successful
// delivery moves the session to PhaseSuccess; any failure leaves it in PhaseContact
// with every answer intact.
func (s *Session) Submit(ctx context.Context, sub LeadSubmitter) (Lead, error) {
	s.mu.Lock()
	if s.phase != PhaseContact {
		s.mu.Unlock()
		return Lead{}, ErrWrongPhase
	}
	if s.submitting {
		s.mu.Unlock()
		return Lead{}, ErrSubmitInFlight
	}
	contact := s.contact.Normalized()
	if err := ValidateContact(contact); err != nil {
		s.mu.Unlock()
		return Lead{}, err
	}
	answers := s.store.Answers()
	other := s.store.OtherTexts()
	lead := Lead{
		Contact:         contact,
		RawAnswers:      answers,
		OtherAnswers:    other,
		ResolvedAnswers: Project(s.catalog, answers, other),
		SubmittedAt:     s.now(),
	}
	s.submitting = true
	s.mu.Unlock()

	res, err := sub.SubmitLead(ctx, lead)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		return lead, &SubmitError{Reason: "delivery error", Err: err}
	}
	if !res.OK {
		return lead, &SubmitError{Reason: res.Reason}
	}
	s.phase = PhaseSuccess
	return lead, nil
}

// refresh recomputes visibility and re-clamps the pointer onto a visible question:
// the first visible index at or after the old pointer, else the last visible one.
func (s *Session) refresh() {
	s.visible = VisibleIndexes(s.catalog, s.store.values)
	if len(s.visible) == 0 {
		s.pointer = 0
		return
	}
	for _, i := range s.visible {
		if i >= s.pointer {
			s.pointer = i
			return
		}
	}
	s.pointer = s.visible[len(s.visible)-1]
}

func (s *Session) firstVisible() int {
	if len(s.visible) == 0 {
		return 0
	}
	return s.visible[0]
}
