package booking

import (
	"encoding/base64"
	"net/url"
	"strconv"
	"testing"
)

func TestExtensionToken_RoundTrip(t *testing.T) {
	devices := []string{"garden-city", "doonholm", "a", "dev_01", "c0ffee-1234-abcd", " dev", "dev ", "Garden City"}
	for _, deviceID := range devices {
		for _, locker := range []int{0, 1, 7, 48, 1024} {
			lockerID := strconv.Itoa(locker)
			got, ok := DecodeExtensionToken(EncodeExtensionToken(deviceID, lockerID))
			if !ok {
				t.Fatalf("round trip failed for %s,%s", deviceID, lockerID)
			}
			if got.DeviceID != deviceID || got.LockerID != lockerID {
				t.Errorf("round trip mismatch: got %+v, want %s,%s", got, deviceID, lockerID)
			}
		}
	}
}

func TestDecodeExtensionToken_RejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"not-base64!!!",
		base64.StdEncoding.EncodeToString([]byte("onlyonefield")),
		base64.StdEncoding.EncodeToString([]byte("a,b,c")),
		base64.StdEncoding.EncodeToString([]byte(",7")),
		base64.StdEncoding.EncodeToString([]byte("garden-city,")),
	}
	for _, token := range cases {
		if got, ok := DecodeExtensionToken(token); ok {
			t.Errorf("DecodeExtensionToken(%q) = %+v, want rejection", token, got)
		}
	}
}

func TestDecodeExtensionToken_LenientEncodings(t *testing.T) {
	raw := []byte("dev>>?,3")
	tokens := []string{
		base64.URLEncoding.EncodeToString(raw),
		base64.RawURLEncoding.EncodeToString(raw),
	}
	for _, token := range tokens {
		got, ok := DecodeExtensionToken(token)
		if !ok || got.DeviceID != "dev>>?" || got.LockerID != "3" {
			t.Errorf("DecodeExtensionToken(%q) = %+v, %v", token, got, ok)
		}
	}
}

func TestGenerateExtensionLink(t *testing.T) {
	link := GenerateExtensionLink("https://parcelpoint.co.ke/", "garden-city", "12")

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("invalid link %q: %v", link, err)
	}
	if u.Scheme != "https" || u.Host != "parcelpoint.co.ke" || u.Path != "/booking" {
		t.Errorf("unexpected link %q", link)
	}
	got, ok := DecodeExtensionToken(u.Query().Get("ext"))
	if !ok || got.DeviceID != "garden-city" || got.LockerID != "12" {
		t.Errorf("link token decodes to %+v, %v", got, ok)
	}
}
