package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"parcelpoint-web/internal/utils"
)

func Health(r *gin.RouterGroup) {
	r.GET("/health", func(c *gin.Context) {
		msg := c.Query("ping")
		if msg == "" {
			msg = "pong"
		}

		resp := gin.H{
			"message": msg,
			"version": utils.GetVersion(),
		}

		if p := deps(c).Storage; p != nil {
			version, err := p.GetSchemaVersion(c.Request.Context())
			if err != nil {
				AbortWithError(c, fmt.Errorf("%w: %w", ErrDatabaseError, err))
				return
			}
			resp["schema_version"] = version
		}

		c.JSON(http.StatusOK, resp)
	})
}
