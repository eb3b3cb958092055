package routes

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"parcelpoint-web/internal/api"
	"parcelpoint-web/internal/booking"
	"parcelpoint-web/internal/config"
	"parcelpoint-web/internal/wizard"
)

// CORS allows the listed origins, or any origin when none are configured.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	if err := cfg.Validate(); err != nil {
		slog.Warn("Invalid CORS origins, cross-origin requests disabled", "origins", origins, "error", err)
		cfg = cors.Config{
			AllowMethods:    []string{http.MethodGet},
			AllowOriginFunc: func(string) bool { return false },
		}
	}
	return cors.New(cfg)
}

func ApiRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(http.StatusNoContent) })

	r.GET("/locations", apiLocations)
	r.GET("/quote", apiQuote)
	r.GET("/extension-link", apiExtensionLink)
}

func apiLocations(c *gin.Context) {
	devices, err := deps(c).Booking.GetDevicesOverview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	active := make([]api.DeviceOverview, 0, len(devices))
	for _, d := range devices {
		if d.IsActive() {
			active = append(active, d)
		}
	}
	c.JSON(http.StatusOK, gin.H{"locations": active})
}

func apiQuote(c *gin.Context) {
	raw := c.DefaultQuery("hours", strconv.Itoa(wizard.DEFAULT_HOURS))
	hours, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !wizard.ValidHours(hours) {
		AbortWithHTTPError(c, http.StatusBadRequest, ErrInvalidParameter, msgHoursRange, "INVALID_HOURS")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hours":         hours,
		"amount":        wizard.Price(hours),
		"currency":      "KES",
		"base_price":    wizard.BASE_PRICE_KES,
		"hourly_price":  wizard.HOURLY_PRICE_KES,
		"min_hours":     config.MIN_BOOKING_HOURS,
		"max_hours":     config.MAX_BOOKING_HOURS,
		"formatted":     FormatKES(wizard.Price(hours)),
		"quick_options": wizard.QuickPickHours,
	})
}

func apiExtensionLink(c *gin.Context) {
	device := strings.TrimSpace(c.Query("device"))
	locker := strings.TrimSpace(c.Query("locker"))
	if device == "" || locker == "" {
		AbortWithHTTPError(c, http.StatusBadRequest, ErrMissingParameter, "device and locker are required", "MISSING_PARAMETER")
		return
	}

	token := booking.EncodeExtensionToken(device, locker)
	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"url":    booking.GenerateExtensionLink(c.GetString("BaseURL"), device, locker),
		"qr_url": c.GetString("BaseURL") + SESSION_PATH + "/extend/qr.png?ext=" + url.QueryEscape(token),
	})
}
