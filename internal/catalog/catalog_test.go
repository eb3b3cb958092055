package catalog

import (
	"strings"
	"testing"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("Default catalog failed to parse: %v", err)
	}
	return c
}

func TestDefault(t *testing.T) {
	c := mustDefault(t)
	if len(c.Locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(c.Locations))
	}
	if len(c.FAQ) == 0 {
		t.Errorf("expected FAQ entries")
	}
	if got := c.TotalLockers(); got != 76 {
		t.Errorf("expected 76 active lockers, got %d", got)
	}
}

func TestFind(t *testing.T) {
	c := mustDefault(t)
	loc, ok := c.Find("garden-city-mall")
	if !ok || loc.Lockers != 48 {
		t.Fatalf("unexpected lookup result %+v, %v", loc, ok)
	}
	if _, ok := c.Find("mombasa"); ok {
		t.Errorf("unknown slug should not be found")
	}
}

func TestFilter(t *testing.T) {
	c := mustDefault(t)

	cases := []struct {
		q, status string
		want      int
	}{
		{"", "", 2},
		{"", "All", 2},
		{"garden", "", 1},
		{"RONALD", "", 1},
		{"thika", "active", 1},
		{"", "Coming Soon", 0},
		{"mombasa", "", 0},
	}
	for _, tc := range cases {
		if got := len(c.Filter(tc.q, tc.status)); got != tc.want {
			t.Errorf("Filter(%q, %q) = %d results, want %d", tc.q, tc.status, got, tc.want)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{"": "All", "active": "Active", "coming soon": "Coming Soon", " PLANNING ": "Planning"}
	for in, want := range cases {
		if got := NormalizeStatus(in); got != want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDirectionsURL(t *testing.T) {
	loc := Location{Coordinates: Coordinates{Lat: -1.231904, Lng: 36.878941}}
	want := "https://www.google.com/maps/dir/?api=1&destination=-1.231904,36.878941"
	if got := loc.DirectionsURL(); got != want {
		t.Errorf("DirectionsURL = %q, want %q", got, want)
	}
}

func TestParse_Rejects(t *testing.T) {
	bad := []string{
		"locations:\n  - name: No Slug\n",
		"locations:\n  - {slug: a, name: A}\n  - {slug: a, name: B}\n",
		"locations:\n  - {slug: a, name: A, colour: red}\n",
	}
	for _, doc := range bad {
		if _, err := Parse(strings.NewReader(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}
