package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"parcelpoint-web/internal/catalog"
	"parcelpoint-web/internal/config"
	"parcelpoint-web/internal/email"
	"parcelpoint-web/internal/storage"
	"parcelpoint-web/internal/utils"
	"parcelpoint-web/internal/wizard"
)

const (
	REQUEST_ID_KEY = "request_id"
	DEPS_KEY       = "Deps"
)

// Deps is what the handlers need besides the request. Storage and Mailer may be nil.
type Deps struct {
	Booking      wizard.BookingService
	Catalog      *catalog.Catalog
	Storage      storage.Provider
	Mailer       email.Sender
	Emails       *EmailTemplates
	SupportInbox string
}

// Inject makes d available to handlers through the gin context.
func Inject(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(DEPS_KEY, d)
		c.Next()
	}
}

func deps(c *gin.Context) *Deps {
	return c.MustGet(DEPS_KEY).(*Deps)
}

// BaseURL stores the public origin under "BaseURL" for H and link builders.
func BaseURL(configured string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("BaseURL", utils.GetBaseURL(c, configured))
		c.Next()
	}
}

func supportURL() string {
	if config.Cfg != nil && config.Cfg.SupportURL != "" {
		return config.Cfg.SupportURL
	}
	return config.DEFAULT_SUPPORT_URL
}

// Merge into existing gin.H
func H(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["BaseURL"] = c.GetString("BaseURL")
	data["AppVersion"] = utils.GetVersion()
	data["SupportURL"] = supportURL()
	data["Year"] = time.Now().Year()
	data["Path"] = c.Request.URL.Path
	data["RequestID"] = c.GetString(REQUEST_ID_KEY)
	return data
}

// Returns a HTML response with merged data
func HTML(c *gin.Context, code int, name string, data gin.H) {
	data = H(c, data)
	c.HTML(code, name, data)
}

// Register mounts every route group on r.
func Register(r *gin.Engine, d *Deps, corsOrigins []string) {
	r.Use(Inject(d))

	r.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrPageNotFound)
	})

	Health(r.Group("/"))
	SiteRoutes(r.Group("/"))
	FormRoutes(r.Group("/"))
	BookingRoutes(r.Group("/booking"))
	ApiRoutes(r.Group("/api", CORS(corsOrigins)))
}
