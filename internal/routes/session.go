package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parcelpoint-web/internal/jwt"
	"parcelpoint-web/internal/utils"
	"parcelpoint-web/internal/wizard"
)

const (
	SESSION_COOKIE = "booking_session"
	SESSION_PATH   = "/booking"
)

func loadSession(c *gin.Context) (*jwt.WizardClaim, error) {
	token, err := c.Cookie(SESSION_COOKIE)
	if err != nil || token == "" {
		return nil, ErrSessionMissing
	}
	claim, err := jwt.DecodeWizardJWT(token)
	if err != nil {
		return nil, err
	}
	return claim, nil
}

func saveSession(c *gin.Context, st wizard.State, submitNonce string) error {
	token, err := jwt.GenerateJWT(jwt.NewWizardClaim(st, submitNonce))
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SESSION_COOKIE, token, int(jwt.SessionTTL().Seconds()), SESSION_PATH, "", utils.IsSecure(c), true)
	return nil
}
