package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Maria Santos", want: "Maria Santos"},
		{name: "leading and trailing spaces", input: "  Maria Santos  ", want: "Maria Santos"},
		{name: "collapses inner runs", input: "Maria   \t Santos", want: "Maria Santos"},
		{name: "newlines become spaces", input: "window seat\nplease", want: "window seat please"},
		{name: "control runes stripped", input: "Maria\x00Santos", want: "MariaSantos"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n ", want: ""},
		{name: "unicode preserved", input: "José  Álvarez", want: "José Álvarez"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrimAndNormalize_Idempotent(t *testing.T) {
	inputs := []string{"  a  b  ", "José\tÁlvarez", "plain"}
	for _, in := range inputs {
		once := TrimAndNormalize(in)
		twice := TrimAndNormalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Maria@Example.COM "); got != "maria@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
