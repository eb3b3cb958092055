package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID_KeepsSuppliedValue(t *testing.T) {
	if got := RequestID("abc-123"); got != "abc-123" {
		t.Fatalf("expected supplied id to be kept, got %q", got)
	}
}

func TestRequestID_ReplacesBadValues(t *testing.T) {
	for _, in := range []string{"", "  ", "has space", strings.Repeat("x", 65), "tab\there"} {
		got := RequestID(in)
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("RequestID(%q) = %q, expected a uuid", in, got)
		}
	}
}

func TestGetVersion_NotEmpty(t *testing.T) {
	if GetVersion() == "" {
		t.Fatalf("expected a version string")
	}
	BuildVersion = "v1.2.3"
	defer func() { BuildVersion = "" }()
	if got := GetVersion(); got != "v1.2.3" {
		t.Fatalf("expected build version, got %q", got)
	}
}
