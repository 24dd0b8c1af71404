package catalog

import (
	"errors"
	"slices"
	"strings"

	"mattressfit/internal/model"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrDuplicateID      = errors.New("question id already exists")
	ErrCannotMove       = errors.New("question cannot move further")
)

// Direction of a reorder.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// EditorEntry is one question being edited. OptionsText is the comma separated
// options buffer the admin types into; it travels with its question on reorder.
// Question.Options stays authoritative until the buffer is edited.
type EditorEntry struct {
	Question      model.QuestionInput
	OptionsText   string
	OptionsEdited bool
}

func newEntry(in model.QuestionInput) EditorEntry {
	return EditorEntry{Question: in, OptionsText: strings.Join(in.Options, ", ")}
}

// Editor is an in-memory working copy of the catalog for the admin screen.
type Editor struct {
	entries []EditorEntry
}

// NewEditor loads inputs into a working copy.
func NewEditor(inputs []model.QuestionInput) *Editor {
	e := &Editor{entries: make([]EditorEntry, 0, len(inputs))}
	for _, in := range inputs {
		e.entries = append(e.entries, newEntry(in))
	}
	return e
}

// Len returns the number of entries.
func (e *Editor) Len() int { return len(e.entries) }

// Entries returns a copy of the entries in order.
func (e *Editor) Entries() []EditorEntry {
	out := make([]EditorEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

// IndexOf returns the position of the entry with id, or -1.
func (e *Editor) IndexOf(id string) int {
	for i := range e.entries {
		if e.entries[i].Question.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a question.
func (e *Editor) Add(in model.QuestionInput) error {
	if id := strings.TrimSpace(in.ID); id != "" && e.IndexOf(id) >= 0 {
		return ErrDuplicateID
	}
	e.entries = append(e.entries, newEntry(in))
	return nil
}

// Update replaces the question with id, keeping its place.
func (e *Editor) Update(id string, in model.QuestionInput) error {
	i := e.IndexOf(id)
	if i < 0 {
		return ErrQuestionNotFound
	}
	if in.ID != id && e.IndexOf(in.ID) >= 0 {
		return ErrDuplicateID
	}
	e.entries[i] = newEntry(in)
	return nil
}

// SetOptionsText replaces the options buffer of the question with id.
func (e *Editor) SetOptionsText(id, text string) error {
	i := e.IndexOf(id)
	if i < 0 {
		return ErrQuestionNotFound
	}
	e.entries[i].OptionsText = text
	e.entries[i].OptionsEdited = true
	return nil
}

// Delete removes the question with id.
func (e *Editor) Delete(id string) error {
	i := e.IndexOf(id)
	if i < 0 {
		return ErrQuestionNotFound
	}
	e.entries = append(e.entries[:i], e.entries[i+1:]...)
	return nil
}

// Move shifts the question with id one place in dir.
func (e *Editor) Move(id string, dir Direction) error {
	switch dir {
	case Up:
		return e.MoveUp(id)
	case Down:
		return e.MoveDown(id)
	}
	return errors.New("direction must be up or down")
}

// MoveUp swaps the question with id and its predecessor.
func (e *Editor) MoveUp(id string) error {
	i := e.IndexOf(id)
	if i < 0 {
		return ErrQuestionNotFound
	}
	if i == 0 {
		return ErrCannotMove
	}
	e.entries[i-1], e.entries[i] = e.entries[i], e.entries[i-1]
	return nil
}

// MoveDown swaps the question with id and its successor.
func (e *Editor) MoveDown(id string) error {
	i := e.IndexOf(id)
	if i < 0 {
		return ErrQuestionNotFound
	}
	if i == len(e.entries)-1 {
		return ErrCannotMove
	}
	e.entries[i+1], e.entries[i] = e.entries[i], e.entries[i+1]
	return nil
}

// Inputs returns the edited questions. Options are parsed from the buffer only
// for entries whose buffer was edited.
func (e *Editor) Inputs() []model.QuestionInput {
	out := make([]model.QuestionInput, 0, len(e.entries))
	for _, entry := range e.entries {
		q := entry.Question
		if entry.OptionsEdited {
			q.Options = splitOptions(entry.OptionsText)
		} else {
			q.Options = slices.Clone(q.Options)
		}
		out = append(out, q)
	}
	return out
}

func splitOptions(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
