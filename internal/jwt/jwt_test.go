package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"parcelpoint-web/internal/config"
	"parcelpoint-web/internal/wizard"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.Cfg
	config.Cfg = &config.Config{Secret: secret, SessionTTL: 30}
	t.Cleanup(func() { config.Cfg = prev })
}

func TestWizardClaim_RoundTrip(t *testing.T) {
	withSecret(t, "test-secret")

	st := wizard.State{
		Intent:     wizard.Intent{Mode: wizard.ModeExtension, DeviceID: "garden-city", LockerID: "7"},
		Step:       wizard.StepDurationAndPayment,
		Hours:      6,
		Phone:      "0712345678",
		LocationID: "garden-city",
	}
	token, err := GenerateJWT(NewWizardClaim(st, "nonce-1"))
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	claim, err := DecodeWizardJWT(token)
	if err != nil {
		t.Fatalf("DecodeWizardJWT failed: %v", err)
	}
	if claim.SubmitNonce != "nonce-1" {
		t.Errorf("nonce lost: %q", claim.SubmitNonce)
	}
	if claim.State.Intent != st.Intent || claim.State.Hours != 6 || claim.State.Phone != st.Phone {
		t.Errorf("state mismatch: %+v", claim.State)
	}
}

func TestDecodeWizardJWT_WrongSecret(t *testing.T) {
	withSecret(t, "one")
	token, err := GenerateJWT(NewWizardClaim(wizard.State{}, ""))
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	config.Cfg.Secret = "two"
	if _, err := DecodeWizardJWT(token); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Fatalf("expected signature error, got %v", err)
	}
}

func TestDecodeWizardJWT_Expired(t *testing.T) {
	withSecret(t, "test-secret")

	claim := NewWizardClaim(wizard.State{}, "")
	claim.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token, err := GenerateJWT(claim)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	if _, err := DecodeWizardJWT(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestDecodeWizardJWT_RejectsNoneAlg(t *testing.T) {
	withSecret(t, "test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodNone, NewWizardClaim(wizard.State{}, ""))
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := DecodeWizardJWT(s); err == nil {
		t.Fatalf("unsigned token must be rejected")
	}
}
