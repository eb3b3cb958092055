package app

import (
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	. "parcelpoint-web/internal/config"
	routes "parcelpoint-web/internal/routes"
	"parcelpoint-web/internal/utils"
	"parcelpoint-web/internal/wizard"
	"parcelpoint-web/web"
)

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

	// Pages carry per-visitor session state
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Next()
}

// Middleware to check if the IP is allowed.
func IPAccessControl(allowedCIDRs []string) gin.HandlerFunc {
	var parsedCIDRs []*net.IPNet

	// Allow local networks in debug mode
	if os.Getenv("GIN_MODE") != "release" {
		localhostCIDRs := []string{"127.0.0.1/8", "::1/128"}
		allowedCIDRs = append(allowedCIDRs, localhostCIDRs...)
	}

	for _, cidr := range allowedCIDRs {
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			slog.Warn("Invalid CIDR", "cidr", cidr)
			continue
		}
		slog.Debug("Allowed CIDR", "cidr", cidr)
		parsedCIDRs = append(parsedCIDRs, n)
	}

	return func(c *gin.Context) {
		clientIP := net.ParseIP(c.ClientIP())
		if clientIP == nil {
			slog.Warn("Invalid client IP", "ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		for _, cidr := range parsedCIDRs {
			if cidr.Contains(clientIP) {
				c.Next()
				return
			}
		}
		slog.Warn("IP not allowed", "ip", clientIP)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

// RequestID tags every request with an id, echoed in X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := utils.RequestID(c.GetHeader("X-Request-ID"))
		c.Set(routes.REQUEST_ID_KEY, rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

// RequestLogger writes one access line per request.
func RequestLogger() gin.HandlerFunc {
	logger := slog.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("Request",
			"request_id", c.GetString(routes.REQUEST_ID_KEY),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
			"ip", c.ClientIP(),
		)
	}
}

func splitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		// Remove spaces and ignore empty sets
		if item := strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// HTTPServer builds the engine with templates, middleware and all routes.
func HTTPServer(d *routes.Deps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(), gin.Recovery())

	renderer, err := routes.NewRenderer(web.Templates())
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	if d.Emails == nil {
		if d.Emails, err = routes.NewEmailTemplates(web.Templates()); err != nil {
			return nil, err
		}
	}

	if Cfg.AllowedNetworks != "" {
		slog.Debug("Enabling IP access control", "allowed_networks", Cfg.AllowedNetworks)
		r.Use(IPAccessControl(splitList(Cfg.AllowedNetworks)))
	}
	r.Use(securityHeaders)
	r.Use(routes.BaseURL(Cfg.BaseURL))
	r.Use(routes.ErrorHandler())

	r.StaticFS("/assets", http.FS(web.Assets()))

	r.GET("/config.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"SupportURL":  Cfg.SupportURL,
			"SessionTTL":  Cfg.SessionTTL,
			"MinHours":    MIN_BOOKING_HOURS,
			"MaxHours":    MAX_BOOKING_HOURS,
			"BasePrice":   wizard.BASE_PRICE_KES,
			"HourlyPrice": wizard.HOURLY_PRICE_KES,
			"QuickPicks":  wizard.QuickPickHours,
		})
	})

	routes.Register(r, d, splitList(Cfg.CORSAllowedOrigins))
	return r, nil
}
