package wizard

import (
	"net/url"
	"testing"

	"parcelpoint-web/internal/booking"
)

func TestResolveIntent(t *testing.T) {
	token := booking.EncodeExtensionToken("garden-city", "7")

	cases := []struct {
		name  string
		query string
		want  Intent
	}{
		{"empty", "", Intent{Mode: ModeNormal}},
		{"ext token", "ext=" + url.QueryEscape(token), Intent{Mode: ModeExtension, DeviceID: "garden-city", LockerID: "7"}},
		{"bad ext token", "ext=not-base64!!!", Intent{Mode: ModeInvalidLink}},
		{"empty ext", "ext=", Intent{Mode: ModeInvalidLink}},
		{"legacy", "extend=true&device=doonholm&locker=3", Intent{Mode: ModeExtension, DeviceID: "doonholm", LockerID: "3"}},
		{"legacy incomplete", "extend=true&device=doonholm", Intent{Mode: ModeInvalidLink}},
		{"legacy off", "extend=false&device=doonholm&locker=3", Intent{Mode: ModeNormal}},
		{"ext wins", "ext=" + url.QueryEscape(token) + "&extend=true&device=x&locker=1", Intent{Mode: ModeExtension, DeviceID: "garden-city", LockerID: "7"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("bad query: %v", err)
			}
			if got := ResolveIntent(q); got != tc.want {
				t.Errorf("ResolveIntent(%q) = %+v, want %+v", tc.query, got, tc.want)
			}
		})
	}
}
