package wizard

import (
	"net/url"
	"strings"

	"parcelpoint-web/internal/booking"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeExtension
	// ModeInvalidLink is an extension attempt whose link could not be decoded.
	ModeInvalidLink
)

func (m Mode) String() string {
	switch m {
	case ModeExtension:
		return "extension"
	case ModeInvalidLink:
		return "invalid_link"
	}
	return "normal"
}

// Intent is how the visitor arrived at the booking page. DeviceID and LockerID
// are only set in ModeExtension.
type Intent struct {
	Mode     Mode   `json:"mode"`
	DeviceID string `json:"device_id,omitempty"`
	LockerID string `json:"locker_id,omitempty"`
}

func (i Intent) IsExtension() bool {
	return i.Mode == ModeExtension
}

// ResolveIntent reads ?ext=<token>, falling back to the older
// ?extend=true&device=&locker= form.
func ResolveIntent(q url.Values) Intent {
	if q.Has("ext") {
		target, ok := booking.DecodeExtensionToken(q.Get("ext"))
		if !ok {
			return Intent{Mode: ModeInvalidLink}
		}
		return Intent{Mode: ModeExtension, DeviceID: target.DeviceID, LockerID: target.LockerID}
	}

	if strings.EqualFold(q.Get("extend"), "true") {
		deviceID := strings.TrimSpace(q.Get("device"))
		lockerID := strings.TrimSpace(q.Get("locker"))
		if deviceID == "" || lockerID == "" {
			return Intent{Mode: ModeInvalidLink}
		}
		return Intent{Mode: ModeExtension, DeviceID: deviceID, LockerID: lockerID}
	}

	return Intent{Mode: ModeNormal}
}
