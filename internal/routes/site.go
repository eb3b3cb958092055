package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parcelpoint-web/internal/catalog"
)

// staticPages are rendered without any extra data.
var staticPages = map[string]string{
	"/partnerships":         "partnerships.html.tmpl",
	"/integrations":         "integrations.html.tmpl",
	"/terms-and-conditions": "terms.html.tmpl",
	"/privacy-policy":       "privacy.html.tmpl",
}

func SiteRoutes(r *gin.RouterGroup) {
	r.GET("", index)
	r.GET("/lockers", lockers)
	r.GET("/lockers/:location", lockerDetail)

	for path, tmpl := range staticPages {
		r.GET(path, func(c *gin.Context) {
			HTML(c, http.StatusOK, tmpl, nil)
		})
	}

	r.GET("/sitemap.xml", sitemap)
	r.GET("/robots.txt", robots)
}

func index(c *gin.Context) {
	cat := deps(c).Catalog
	HTML(c, http.StatusOK, "index.html.tmpl", gin.H{
		"Locations":    cat.Locations,
		"TotalLockers": cat.TotalLockers(),
		"FAQ":          cat.FAQ,
	})
}

func lockers(c *gin.Context) {
	q := c.Query("q")
	status := catalog.NormalizeStatus(c.Query("status"))

	view := c.Query("view")
	if view != "list" {
		view = "grid"
	}

	HTML(c, http.StatusOK, "lockers.html.tmpl", gin.H{
		"Locations": deps(c).Catalog.Filter(q, status),
		"Query":     q,
		"Status":    status,
		"Statuses":  catalog.Statuses,
		"View":      view,
	})
}

func lockerDetail(c *gin.Context) {
	loc, ok := deps(c).Catalog.Find(c.Param("location"))
	if !ok {
		AbortWithError(c, ErrLocationNotFound)
		return
	}
	HTML(c, http.StatusOK, "location.html.tmpl", gin.H{"Location": loc})
}
