package survey

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Normalization controls how a driver answer and the allowed values are compared.
type Normalization int

const (
	// NormalizeTrim ignores leading and trailing whitespace.
	NormalizeTrim Normalization = iota
	// NormalizeStripSpaces ignores every whitespace rune. Size codes like "160 * 200"
	// are retyped inconsistently, so their driver uses this mode.
	NormalizeStripSpaces
)

// Apply normalizes s.
func (n Normalization) Apply(s string) string {
	switch n {
	case NormalizeStripSpaces:
		return stripSpaces(s)
	default:
		return strings.TrimSpace(s)
	}
}

func (n Normalization) String() string {
	if n == NormalizeStripSpaces {
		return "strip-spaces"
	}
	return "trim"
}

// ParseNormalization parses the config spelling of a normalization mode.
func ParseNormalization(s string) (Normalization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "trim":
		return NormalizeTrim, nil
	case "strip-spaces", "strip_spaces", "nospace":
		return NormalizeStripSpaces, nil
	}
	return NormalizeTrim, fmt.Errorf("unknown normalization %q", s)
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Condition decides whether a question is shown.
//
// The pair form (QuestionID, Values) holds when the answer recorded for QuestionID,
// normalized, is one of Values. An optional compiled expression must hold as well.
type Condition struct {
	QuestionID string
	Values     []string
	Normalize  Normalization
	Expression string

	program *vm.Program
}

// NewCondition builds a pair condition from the stored comma-separated value list.
func NewCondition(questionID, answerValue string, n Normalization) *Condition {
	c := &Condition{QuestionID: strings.TrimSpace(questionID), Normalize: n}
	for _, part := range strings.Split(answerValue, ",") {
		if v := n.Apply(part); v != "" {
			c.Values = append(c.Values, v)
		}
	}
	return c
}

// WithExpression compiles src and attaches it to the condition.
func (c *Condition) WithExpression(src string) error {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil
	}
	program, err := expr.Compile(src, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return fmt.Errorf("compile condition %q: %w", src, err)
	}
	c.Expression = src
	c.program = program
	return nil
}

// Matches evaluates the condition. It never panics; a missing driver answer or a
// failing expression counts as not matched. A nil or empty condition always holds.
func (c *Condition) Matches(answers Answers) bool {
	if c == nil {
		return true
	}
	if c.QuestionID != "" && !c.matchPair(answers) {
		return false
	}
	if c.program != nil && !c.matchExpression(answers) {
		return false
	}
	return true
}

func (c *Condition) matchPair(answers Answers) bool {
	raw, ok := answers[c.QuestionID]
	if !ok {
		return false
	}
	if raw == OtherValue {
		for _, v := range c.Values {
			if IsOtherLabel(v) {
				return true
			}
		}
	}
	got := c.Normalize.Apply(raw)
	if got == "" {
		return false
	}
	for _, v := range c.Values {
		if v == got {
			return true
		}
	}
	return false
}

func (c *Condition) matchExpression(answers Answers) bool {
	env := make(map[string]any, len(answers))
	for k, v := range answers {
		env[k] = v
	}
	out, err := expr.Run(c.program, env)
	if err != nil {
		return false
	}
	ok, isBool := out.(bool)
	return isBool && ok
}

// VisibleIndexes returns the catalog positions currently shown, in catalog order.
//
// Answers held by questions already found hidden are ignored when later conditions
// are evaluated, so a stale answer on an abandoned branch cannot reopen it.
func VisibleIndexes(c Catalog, answers Answers) []int {
	visible := make([]int, 0, len(c))
	effective := answers.Clone()
	for i, q := range c {
		if q.ShowIf == nil || q.ShowIf.Matches(effective) {
			visible = append(visible, i)
			continue
		}
		delete(effective, q.ID)
	}
	return visible
}
