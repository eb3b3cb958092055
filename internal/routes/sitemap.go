package routes

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

var sitemapPages = []sitemapURL{
	{Loc: "/", ChangeFreq: "weekly", Priority: "1.0"},
	{Loc: "/booking", ChangeFreq: "monthly", Priority: "0.9"},
	{Loc: "/lockers", ChangeFreq: "weekly", Priority: "0.9"},
	{Loc: "/partnerships", ChangeFreq: "monthly", Priority: "0.6"},
	{Loc: "/integrations", ChangeFreq: "monthly", Priority: "0.6"},
	{Loc: "/contact", ChangeFreq: "yearly", Priority: "0.5"},
	{Loc: "/terms-and-conditions", ChangeFreq: "yearly", Priority: "0.3"},
	{Loc: "/privacy-policy", ChangeFreq: "yearly", Priority: "0.3"},
}

func sitemap(c *gin.Context) {
	base := c.GetString("BaseURL")

	set := urlSet{XMLNS: sitemapNS}
	for _, u := range sitemapPages {
		u.Loc = base + u.Loc
		set.URLs = append(set.URLs, u)
	}
	for _, loc := range deps(c).Catalog.Locations {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        fmt.Sprintf("%s/lockers/%s", base, loc.Slug),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

func robots(c *gin.Context) {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")
	sb.WriteString("Allow: /\n")
	sb.WriteString("Disallow: /booking/step\n")
	sb.WriteString("Disallow: /api/\n")
	fmt.Fprintf(&sb, "Sitemap: %s/sitemap.xml\n", c.GetString("BaseURL"))
	c.String(http.StatusOK, sb.String())
}
