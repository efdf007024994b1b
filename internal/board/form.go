package board

import (
	"errors"
	"strings"

	"github.com/evanschultz/projboard/internal/domain"
	"github.com/evanschultz/projboard/internal/validate"
)

// ErrAllFieldsRequired is the single alert shown for any invalid form input.
var ErrAllFieldsRequired = errors.New("All fields are required.")

// InputForm collects the three project fields as raw text.
type InputForm struct {
	Title       string
	Description string
	People      string

	store ProjectStore
	rules validate.Rules
}

// NewInputForm builds an empty form bound to store.
func NewInputForm(store ProjectStore, rules validate.Rules) *InputForm {
	return &InputForm{store: store, rules: rules}
}

// Rules returns the validation rules in effect.
func (f *InputForm) Rules() validate.Rules {
	return f.rules
}

// Submit validates every field, adds the project, and clears the form.
// Nothing is added when any field is invalid.
func (f *InputForm) Submit() (domain.Project, error) {
	people, ok := f.rules.Check(f.Title, f.Description, f.People)
	if !ok {
		return domain.Project{}, ErrAllFieldsRequired
	}
	project, err := f.store.Add(strings.TrimSpace(f.Title), strings.TrimSpace(f.Description), people)
	if err != nil {
		return domain.Project{}, err
	}
	f.Clear()
	return project, nil
}

// Clear empties every field.
func (f *InputForm) Clear() {
	f.Title = ""
	f.Description = ""
	f.People = ""
}
