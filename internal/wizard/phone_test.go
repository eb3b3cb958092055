package wizard

import "testing"

func TestFormatPhoneNumber(t *testing.T) {
	cases := map[string]string{
		"0712345678":       "254712345678",
		"254712345678":     "254712345678",
		"712345678":        "254712345678",
		"112345678":        "254112345678",
		"+254 712 345 678": "254712345678",
		"0712-345-678":     "254712345678",
		"12345":            "12345",
		"7123":             "7123",
		"98765":            "98765",
		"":                 "",
	}
	for in, want := range cases {
		if got := FormatPhoneNumber(in); got != want {
			t.Errorf("FormatPhoneNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPhoneNumber_Idempotent(t *testing.T) {
	inputs := []string{
		"0712345678", "254712345678", "712345678", "112345678", "12345", "0", "00", "7", "1",
		"0254712345678", "2540712345678", "98765", "0112345678", "254", "5551234",
	}
	for _, in := range inputs {
		once := FormatPhoneNumber(in)
		if twice := FormatPhoneNumber(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	cases := map[string]bool{
		"0712345678":    true,
		"0112345678":    true,
		"254712345678":  true,
		"+254712345678": true,
		"0612345678":    false,
		"25470012345":   false,
		"12345":         false,
		"":              false,
		"07123456789":   false,
	}
	for in, want := range cases {
		if got := ValidatePhoneNumber(in); got != want {
			t.Errorf("ValidatePhoneNumber(%q) = %v, want %v", in, got, want)
		}
	}
}
