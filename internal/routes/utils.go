package routes

import (
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"html"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"parcelpoint-web/internal/booking"
	"parcelpoint-web/web"
)

// assetFS backs the /assets/ URL prefix for SRI computation.
var assetFS fs.FS = web.Assets()

// sriCache caches computed SRI integrity strings keyed by the src path.
var sriCache sync.Map // map[string]string

// computeLocalSRI computes the sha384 SRI for a path under /assets/.
func computeLocalSRI(src string) (string, error) {
	if !strings.HasPrefix(src, "/assets/") {
		return "", nil
	}

	f, err := assetFS.Open(strings.TrimPrefix(src, "/assets/"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha512.New384()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return "sha384-" + base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// ScriptTag returns a safe HTML script tag for use in html/templates.
// Local assets get an integrity attribute and crossorigin="anonymous".
func ScriptTag(src string) template.HTML {
	escSrc := html.EscapeString(src)

	var integrity string
	if v, ok := sriCache.Load(src); ok {
		integrity = v.(string)
	} else {
		sri, err := computeLocalSRI(src)
		if err == nil && sri != "" {
			sriCache.Store(src, sri)
			integrity = sri
		}
	}

	attr := ""
	crossorigin := ""
	if integrity != "" {
		attr = fmt.Sprintf(" integrity=\"%s\"", html.EscapeString(integrity))
		crossorigin = " crossorigin=\"anonymous\""
	}

	tag := fmt.Sprintf("<script src=\"%s\"%s%s></script>", escSrc, attr, crossorigin)
	return template.HTML(tag)
}

// FormatKES renders an amount as "KES 1,234".
func FormatKES(amount int) string {
	return message.NewPrinter(language.English).Sprintf("KES %d", amount)
}

// Casers keep state, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func lowerCase(s string) string {
	return cases.Lower(language.English).String(s)
}

// TemplateFuncs returns a FuncMap with template helpers for routes templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"script_tag": ScriptTag,
		"kes":        FormatKES,
		"mask_phone": booking.MaskPhone,
		"title":      titleCase,
		"lower":      lowerCase,
	}
}
