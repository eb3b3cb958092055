package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parcelpoint-web/internal/api"
	"parcelpoint-web/internal/booking"
)

func TestAPIQuote(t *testing.T) {
	r := newTestEngine(t, &Deps{Booking: &fakeService{}})

	rec := do(r, http.MethodGet, "/api/quote?hours=24", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var quote struct {
		Hours    int    `json:"hours"`
		Amount   int    `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if quote.Hours != 24 || quote.Amount != 280 || quote.Currency != "KES" {
		t.Fatalf("unexpected quote %+v", quote)
	}

	for _, bad := range []string{"0", "169", "abc"} {
		rec := do(r, http.MethodGet, "/api/quote?hours="+bad, nil, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("hours=%s: expected 400, got %d", bad, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "INVALID_HOURS") {
			t.Errorf("hours=%s: expected INVALID_HOURS code, got %s", bad, rec.Body.String())
		}
	}
}

func TestAPILocations_FiltersInactive(t *testing.T) {
	r := newTestEngine(t, &Deps{Booking: &fakeService{devices: testDevices()}})

	rec := do(r, http.MethodGet, "/api/locations", nil, nil)
	var body struct {
		Locations []api.DeviceOverview `json:"locations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(body.Locations) != 1 || body.Locations[0].ID != "dev-1" {
		t.Fatalf("expected only the active device, got %+v", body.Locations)
	}
}

func TestAPILocations_UpstreamFailure(t *testing.T) {
	svc := &fakeService{devicesErr: &api.Error{Kind: api.KindTransient, Message: "API request failed: timeout"}}
	r := newTestEngine(t, &Deps{Booking: svc})

	rec := do(r, http.MethodGet, "/api/locations", nil, nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body errorStruct
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON error body: %v", err)
	}
	if body.Status != "error" || len(body.Code) == 0 || body.Code[0] != "UPSTREAM_UNAVAILABLE" {
		t.Fatalf("unexpected error body %+v", body)
	}
}

func TestAPIExtensionLink_AndQR(t *testing.T) {
	r := newTestEngine(t, &Deps{Booking: &fakeService{}})

	rec := do(r, http.MethodGet, "/api/extension-link?device=dev-9&locker=7", nil, nil)
	var body struct {
		Token string `json:"token"`
		URL   string `json:"url"`
		QRURL string `json:"qr_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	target, ok := booking.DecodeExtensionToken(body.Token)
	if !ok || target.DeviceID != "dev-9" || target.LockerID != "7" {
		t.Fatalf("token does not round trip: %+v", target)
	}
	if !strings.HasPrefix(body.URL, testBaseURL+"/booking?ext=") {
		t.Fatalf("unexpected link %q", body.URL)
	}

	qr := do(r, http.MethodGet, strings.TrimPrefix(body.QRURL, testBaseURL), nil, nil)
	if qr.Code != http.StatusOK || qr.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("expected PNG, got %d %q", qr.Code, qr.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(qr.Body.String(), "\x89PNG") {
		t.Fatalf("body is not a PNG")
	}

	rec = do(r, http.MethodGet, "/api/extension-link?device=dev-9", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing locker, got %d", rec.Code)
	}
	rec = do(r, http.MethodGet, "/booking/extend/qr.png?ext=garbage", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad token, got %d", rec.Code)
	}
}

func TestAPI_CORS(t *testing.T) {
	r := newTestEngine(t, &Deps{Booking: &fakeService{}})

	req := httptest.NewRequest(http.MethodGet, "/api/quote?hours=1", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard CORS, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestHealthAndSitemap(t *testing.T) {
	r := newTestEngine(t, &Deps{Booking: &fakeService{}})

	rec := do(r, http.MethodGet, "/health?ping=hello", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"message":"hello"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/sitemap.xml", nil, nil)
	if !strings.Contains(rec.Body.String(), "<loc>"+testBaseURL+"/lockers/nairobi-cbd</loc>") {
		t.Fatalf("sitemap misses location page: %s", rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/robots.txt", nil, nil)
	if !strings.Contains(rec.Body.String(), "Sitemap: "+testBaseURL+"/sitemap.xml") {
		t.Fatalf("robots.txt misses sitemap: %s", rec.Body.String())
	}
}
