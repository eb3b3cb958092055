// Package catalog holds the public locker locations and FAQ shown on the
// marketing pages. The data is compiled into the binary.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

const (
	StatusAll        = "All"
	StatusActive     = "Active"
	StatusComingSoon = "Coming Soon"
	StatusPlanning   = "Planning"
)

// Statuses in filter order.
var Statuses = []string{StatusAll, StatusActive, StatusComingSoon, StatusPlanning}

type Coordinates struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

type Location struct {
	Slug            string      `yaml:"slug" json:"slug"`
	Name            string      `yaml:"name" json:"name"`
	Address         string      `yaml:"address" json:"address"`
	FullAddress     string      `yaml:"full_address" json:"full_address"`
	Status          string      `yaml:"status" json:"status"`
	Hours           string      `yaml:"hours" json:"hours"`
	Lockers         int         `yaml:"lockers" json:"lockers"`
	Coordinates     Coordinates `yaml:"coordinates" json:"coordinates"`
	Features        []string    `yaml:"features" json:"features"`
	Description     string      `yaml:"description" json:"description"`
	NearbyAreas     []string    `yaml:"nearby_areas" json:"nearby_areas"`
	SEOTitle        string      `yaml:"seo_title" json:"-"`
	HeroDescription string      `yaml:"hero_description" json:"-"`
}

// DirectionsURL opens Google Maps directions to the location.
func (l Location) DirectionsURL() string {
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%g,%g", l.Coordinates.Lat, l.Coordinates.Lng)
}

type FAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type Catalog struct {
	Locations []Location `yaml:"locations"`
	FAQ       []FAQ      `yaml:"faq"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultCatalog))
}

// Load reads a catalog file, replacing the embedded one.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Locations))
	for i, loc := range c.Locations {
		if loc.Slug == "" || loc.Name == "" {
			return nil, fmt.Errorf("location %d: slug and name are required", i)
		}
		if seen[loc.Slug] {
			return nil, fmt.Errorf("duplicate location slug %q", loc.Slug)
		}
		seen[loc.Slug] = true
		c.Locations[i].Status = NormalizeStatus(loc.Status)
	}
	return &c, nil
}

// NormalizeStatus maps "coming soon", "ACTIVE" etc. onto the canonical labels.
// Empty input means StatusAll.
func NormalizeStatus(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return StatusAll
	}
	return cases.Title(language.English).String(strings.ToLower(status))
}

func (c *Catalog) Find(slug string) (Location, bool) {
	for _, loc := range c.Locations {
		if loc.Slug == slug {
			return loc, true
		}
	}
	return Location{}, false
}

// Filter matches q case insensitively against name and address, and status
// exactly unless it is StatusAll.
func (c *Catalog) Filter(q, status string) []Location {
	q = strings.ToLower(strings.TrimSpace(q))
	status = NormalizeStatus(status)

	out := make([]Location, 0, len(c.Locations))
	for _, loc := range c.Locations {
		if q != "" && !strings.Contains(strings.ToLower(loc.Name), q) && !strings.Contains(strings.ToLower(loc.Address), q) {
			continue
		}
		if status != StatusAll && loc.Status != status {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// TotalLockers sums lockers over active locations.
func (c *Catalog) TotalLockers() int {
	total := 0
	for _, loc := range c.Locations {
		if loc.Status == StatusActive {
			total += loc.Lockers
		}
	}
	return total
}
