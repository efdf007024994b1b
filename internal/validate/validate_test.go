package validate

import "testing"

func TestValidateStringLengthBounds(t *testing.T) {
	rule := DefaultRules().Title
	cases := []struct {
		value string
		want  bool
	}{
		{value: "abcde", want: false},
		{value: "abcdef", want: true},
		{value: "  abcdef  ", want: true},
		{value: "  abcde  ", want: false},
		{value: "abcdefghijklmnopqrstuvwx", want: true},
		{value: "abcdefghijklmnopqrstuvwxy", want: false},
		{value: "      ", want: false},
		{value: "", want: false},
	}
	for _, tc := range cases {
		if got := Validate(rule.Apply(tc.value)); got != tc.want {
			t.Fatalf("Validate(%q) = %t, want %t", tc.value, got, tc.want)
		}
	}
}

func TestValidateNumericBounds(t *testing.T) {
	rule := DefaultRules().People
	for value, want := range map[int]bool{0: false, 1: true, 5: true, 6: false} {
		if got := Validate(rule.Apply(value)); got != want {
			t.Fatalf("Validate(%d) = %t, want %t", value, got, want)
		}
	}
}

func TestValidateIgnoresMismatchedBounds(t *testing.T) {
	if !Validate(Validatable{Value: "x", MinValue: Int(10)}) {
		t.Fatal("expected value bounds to be ignored for strings")
	}
	if !Validate(Validatable{Value: 3, MinLength: Int(10)}) {
		t.Fatal("expected length bounds to be ignored for numbers")
	}
	if Validate(Validatable{Required: true}) {
		t.Fatal("expected nil value to fail required")
	}
	if !Validate(Validatable{Value: 0, Required: true}) {
		t.Fatal("expected zero to satisfy required")
	}
}

func TestValidateCountsRunes(t *testing.T) {
	if !Validate(Validatable{Value: "日本語のタイトル", MaxLength: Int(8)}) {
		t.Fatal("expected multi-byte title within rune bound to pass")
	}
}

func TestRulesCheck(t *testing.T) {
	rules := DefaultRules()
	count, ok := rules.Check("Build API", "Design and build REST API", "3")
	if !ok || count != 3 {
		t.Fatalf("Check() = %d, %t, want 3, true", count, ok)
	}
	cases := []struct {
		name                       string
		title, description, people string
	}{
		{name: "short title", title: "abcde", description: "long enough text", people: "2"},
		{name: "short description", title: "abcdef", description: "short", people: "2"},
		{name: "too many people", title: "abcdef", description: "long enough text", people: "6"},
		{name: "non numeric people", title: "abcdef", description: "long enough text", people: "two"},
		{name: "empty people", title: "abcdef", description: "long enough text", people: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := rules.Check(tc.title, tc.description, tc.people); ok {
				t.Fatal("expected Check() to fail")
			}
		})
	}
}
