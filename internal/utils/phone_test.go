package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"whatsapp:+5511972508430", "11972508430"},
		{"+55 11 97250-8430", "11972508430"},
		{"5511972508430", "11972508430"},
		{"11972508430", "11972508430"},
		// short numbers pass through untouched
		{"97250-8430", "972508430"},
		{"no digits here", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.raw); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizePhoneAgreesAcrossGatewayFormats(t *testing.T) {
	formats := []string{
		"whatsapp:+5511988216292",
		"+55 (11) 98821-6292",
		"5511988216292",
		"11988216292",
	}

	want := "11988216292"
	for _, f := range formats {
		if got := NormalizePhone(f); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", f, got, want)
		}
	}
}
