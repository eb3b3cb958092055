package booking

import (
	"encoding/base64"
	"net/url"
	"strings"
)

const EXTENSION_PATH = "/booking"

// ExtensionTarget identifies the locker an extension link points at.
type ExtensionTarget struct {
	DeviceID string `json:"device_id"`
	LockerID string `json:"locker_id"`
}

// EncodeExtensionToken encodes "<deviceID>,<lockerID>" as standard base64.
func EncodeExtensionToken(deviceID, lockerID string) string {
	return base64.StdEncoding.EncodeToString([]byte(deviceID + "," + lockerID))
}

// DecodeExtensionToken reverses EncodeExtensionToken. ok is false for anything
// that is not exactly two non-empty comma separated fields.
func DecodeExtensionToken(token string) (ExtensionTarget, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return ExtensionTarget{}, false
	}

	raw, err := decodeBase64(token)
	if err != nil {
		return ExtensionTarget{}, false
	}

	parts := strings.Split(string(raw), ",")
	if len(parts) != 2 {
		return ExtensionTarget{}, false
	}
	deviceID, lockerID := parts[0], parts[1]
	if deviceID == "" || lockerID == "" {
		return ExtensionTarget{}, false
	}
	return ExtensionTarget{DeviceID: deviceID, LockerID: lockerID}, true
}

// Query strings tend to turn '+' into ' ' and some senders use the URL alphabet.
func decodeBase64(token string) ([]byte, error) {
	token = strings.ReplaceAll(token, " ", "+")
	if raw, err := base64.StdEncoding.DecodeString(token); err == nil {
		return raw, nil
	}
	if raw, err := base64.URLEncoding.DecodeString(token); err == nil {
		return raw, nil
	}
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
}

// GenerateExtensionLink returns origin + "/booking?ext=<token>".
func GenerateExtensionLink(origin, deviceID, lockerID string) string {
	token := EncodeExtensionToken(deviceID, lockerID)
	return strings.TrimRight(origin, "/") + EXTENSION_PATH + "?ext=" + url.QueryEscape(token)
}
