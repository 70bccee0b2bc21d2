package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "e164 passthrough", input: "+12125551234", want: "+12125551234"},
		{name: "us national format", input: "(212) 555-1234", want: "+12125551234"},
		{name: "us with dashes", input: "212-555-1234", want: "+12125551234"},
		{name: "uk e164", input: "+442071838750", want: "+442071838750"},
		{name: "whitespace trimmed", input: "  +12125551234  ", want: "+12125551234"},
		{name: "empty", input: "", want: ""},
		{name: "garbage", input: "not-a-phone", want: ""},
		{name: "too short", input: "12345", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	once := NormalizePhone("(212) 555-1234")
	twice := NormalizePhone(once)
	if once != twice {
		t.Errorf("not idempotent: %q != %q", once, twice)
	}
}
