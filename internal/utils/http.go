package utils

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

func requestScheme(c *gin.Context) string {
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		return "https"
	}
	return "http"
}

// IsSecure reports whether the visitor reached us over TLS.
func IsSecure(c *gin.Context) bool {
	return requestScheme(c) == "https"
}

// GetBaseURL automatically detects the base URL from the request
func GetBaseURL(c *gin.Context, configBaseURL string) string {
	// If BaseURL is explicitly configured, use it
	if configBaseURL != "" {
		return strings.TrimRight(configBaseURL, "/")
	}
	return fmt.Sprintf("%s://%s", requestScheme(c), c.Request.Host)
}
