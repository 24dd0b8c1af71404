package survey

import (
	"maps"
	"slices"
)

// AnswerType is the input control a question is answered with.
type AnswerType string

const (
	FreeText             AnswerType = "freeText"
	Numeric              AnswerType = "numeric"
	SingleChoiceInline   AnswerType = "singleChoiceInline"
	SingleChoiceDropdown AnswerType = "singleChoiceDropdown"
)

// IsChoice reports whether answers are picked from an option list.
func (t AnswerType) IsChoice() bool {
	return t == SingleChoiceInline || t == SingleChoiceDropdown
}

// Answers maps question id to the raw recorded value.
type Answers map[string]string

// Clone returns an independent copy.
func (a Answers) Clone() Answers {
	if a == nil {
		return Answers{}
	}
	return maps.Clone(a)
}

// OptionsKind tags which variant an Options value holds.
type OptionsKind int

const (
	OptionsFixed OptionsKind = iota
	OptionsDerived
)

// Options is either a fixed ordered list or a pure function of prior answers.
type Options struct {
	Kind   OptionsKind
	fixed  []string
	derive func(Answers) []string
}

// Fixed builds a static option list.
func Fixed(options ...string) Options {
	return Options{Kind: OptionsFixed, fixed: slices.Clone(options)}
}

// Derived builds an option list computed from the answers recorded so far.
func Derived(fn func(Answers) []string) Options {
	return Options{Kind: OptionsDerived, derive: fn}
}

// Resolve returns the options for the given answers. The answers are never mutated.
func (o Options) Resolve(answers Answers) []string {
	switch o.Kind {
	case OptionsDerived:
		if o.derive == nil {
			return nil
		}
		return o.derive(answers.Clone())
	default:
		return slices.Clone(o.fixed)
	}
}

// OtherInput describes how a "custom answer" choice turns into a free-text follow-up.
type OtherInput struct {
	Enabled     bool   `json:"enabled"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
}

// Question is one catalog entry.
type Question struct {
	ID         string
	Text       string
	Type       AnswerType
	Options    Options
	Required   bool
	ShowIf     *Condition
	OtherInput *OtherInput
}

// Catalog is the ordered question list a session runs over.
type Catalog []Question

// IndexOf returns the position of the question with the given id, or -1.
func (c Catalog) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// ResolveOptions returns the choices for q given the answers recorded so far.
func ResolveOptions(q Question, answers Answers) []string {
	return q.Options.Resolve(answers)
}
