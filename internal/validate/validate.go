// Package validate checks raw form input against per-field rules.
package validate

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validatable describes one value and the rules it must satisfy.
// Value holds either a string or an int; length bounds only apply to strings
// and value bounds only apply to ints.
type Validatable struct {
	Value     any
	Required  bool
	MinLength *int
	MaxLength *int
	MinValue  *int
	MaxValue  *int
}

// Validate reports whether the value satisfies every configured rule.
// Length bounds count runes after trimming surrounding whitespace, so padded
// input is measured by its visible text rather than its raw length.
func Validate(v Validatable) bool {
	valid := true
	if v.Required {
		valid = valid && strings.TrimSpace(stringValue(v.Value)) != ""
	}
	if s, ok := v.Value.(string); ok {
		length := utf8.RuneCountInString(strings.TrimSpace(s))
		if v.MinLength != nil {
			valid = valid && length >= *v.MinLength
		}
		if v.MaxLength != nil {
			valid = valid && length <= *v.MaxLength
		}
	}
	if n, ok := v.Value.(int); ok {
		if v.MinValue != nil {
			valid = valid && n >= *v.MinValue
		}
		if v.MaxValue != nil {
			valid = valid && n <= *v.MaxValue
		}
	}
	return valid
}

// stringValue renders a value the way the required check sees it.
func stringValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	default:
		return ""
	}
}

// Rule holds the validation settings for one form field.
type Rule struct {
	Required  bool
	MinLength *int
	MaxLength *int
	MinValue  *int
	MaxValue  *int
}

// Apply binds the rule to a value.
func (r Rule) Apply(value any) Validatable {
	return Validatable{
		Value:     value,
		Required:  r.Required,
		MinLength: r.MinLength,
		MaxLength: r.MaxLength,
		MinValue:  r.MinValue,
		MaxValue:  r.MaxValue,
	}
}

// Rules holds the rule set for the project input form.
type Rules struct {
	Title       Rule
	Description Rule
	People      Rule
}

// DefaultRules returns the stock project form rules.
func DefaultRules() Rules {
	return Rules{
		Title:       Rule{Required: true, MinLength: Int(6), MaxLength: Int(24)},
		Description: Rule{Required: true, MinLength: Int(8), MaxLength: Int(150)},
		People:      Rule{Required: true, MinValue: Int(1), MaxValue: Int(5)},
	}
}

// Check validates raw form values and returns the parsed people count.
func (r Rules) Check(title, description, people string) (int, bool) {
	count, ok := ParsePeople(people)
	if !ok {
		return 0, false
	}
	if !Validate(r.Title.Apply(title)) {
		return 0, false
	}
	if !Validate(r.Description.Apply(description)) {
		return 0, false
	}
	if !Validate(r.People.Apply(count)) {
		return 0, false
	}
	return count, true
}

// ParsePeople parses the people field as a whole number.
func ParsePeople(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Int returns a pointer to n for optional rule bounds.
func Int(n int) *int {
	return &n
}
