// Package jwt signs the booking session cookie. The wizard state travels
// with the visitor instead of living in server memory.
package jwt

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"parcelpoint-web/internal/config"
	"parcelpoint-web/internal/wizard"
)

var (
	ErrNonValidToken    = errors.New("token did not pass validation")
	ErrInvalidClaimType = errors.New("invalid claim type")
)

var tokenSignatureAlg = jwt.SigningMethodHS256

const keySalt = "parcelpoint-booking-session"

// WizardClaim carries the booking wizard state between requests.
type WizardClaim struct {
	State wizard.State `json:"state"`
	// SubmitNonce is minted when the visitor reaches the payment step and
	// consumed by the first submission.
	SubmitNonce string `json:"snonce,omitempty"`
	jwt.RegisteredClaims
}

func NewWizardClaim(st wizard.State, submitNonce string) WizardClaim {
	return WizardClaim{
		State:            st,
		SubmitNonce:      submitNonce,
		RegisteredClaims: newRegisteredClaim(sessionTTL()),
	}
}

func sessionTTL() time.Duration {
	minutes := uint(30)
	if config.Cfg != nil && config.Cfg.SessionTTL > 0 {
		minutes = config.Cfg.SessionTTL
	}
	return time.Duration(minutes) * time.Minute
}

// SessionTTL is also used as the cookie max age.
func SessionTTL() time.Duration {
	return sessionTTL()
}

func newRegisteredClaim(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now().UTC()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

var (
	keyMu     sync.Mutex
	keySecret string
	keyCache  []byte
)

// signingKey stretches the configured secret with argon2id. Without a secret
// a random key is used, so sessions do not survive a restart.
func signingKey() []byte {
	secret := ""
	if config.Cfg != nil {
		secret = config.Cfg.Secret
	}

	keyMu.Lock()
	defer keyMu.Unlock()
	if keyCache != nil && secret == keySecret {
		return keyCache
	}

	if secret == "" {
		key := make([]byte, 32)
		rand.Read(key)
		keyCache = key
	} else {
		keyCache = argon2.IDKey([]byte(secret), []byte(keySalt), 1, 64*1024, 2, 32)
	}
	keySecret = secret
	return keyCache
}

// Generic JWT token generation function
func GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(tokenSignatureAlg, claims)
	return token.SignedString(signingKey())
}

func DecodeWizardJWT(tokenString string) (*WizardClaim, error) {
	return decodeJWT(tokenString, &WizardClaim{})
}

func decodeJWT[T jwt.Claims](tokenString string, claimsType T) (T, error) {
	var zero T

	parsedToken, err := jwt.ParseWithClaims(tokenString, claimsType, func(token *jwt.Token) (any, error) {
		return signingKey(), nil
	}, jwt.WithValidMethods([]string{tokenSignatureAlg.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		return zero, err
	} else if parsedToken == nil || !parsedToken.Valid {
		return zero, ErrNonValidToken
	} else if claims, ok := parsedToken.Claims.(T); ok {
		return claims, nil
	}

	return zero, ErrInvalidClaimType
}
