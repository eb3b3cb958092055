package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"parcelpoint-web/internal/api"
	"parcelpoint-web/internal/cache"
	"parcelpoint-web/internal/storage"
)

type fakeRecorder struct {
	mu      sync.Mutex
	records []storage.PaymentRequest
}

func (f *fakeRecorder) RecordPaymentRequest(ctx context.Context, req storage.PaymentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, req)
	return nil
}

func newTestService(t *testing.T, handler http.HandlerFunc, opts ...ServiceOption) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewClient(api.Config{BaseURL: srv.URL, APIKey: "test-key", Version: "v1", Timeout: 5 * time.Second})
	return NewService(client, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestCheckExistingBooking_NotFoundIsNil(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/devices/garden-city/bookings/lookup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("phone_number"); got != "254712345678" {
			t.Errorf("unexpected phone_number %q", got)
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Booking not found"})
	})

	b, err := svc.CheckExistingBooking(context.Background(), "garden-city", "254712345678")
	if err != nil {
		t.Fatalf("expected nil error for missing booking, got %v", err)
	}
	if b != nil {
		t.Fatalf("expected nil booking, got %+v", b)
	}
}

func TestCheckExistingBooking_OtherErrorsPropagate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Device not found"})
	})

	_, err := svc.CheckExistingBooking(context.Background(), "nowhere", "254712345678")
	if err == nil || err.Error() != "Device not found" {
		t.Fatalf("expected server message to propagate, got %v", err)
	}
	if !errors.Is(err, api.ErrNotFound) {
		t.Errorf("expected not-found kind, got %v", err)
	}
}

func TestCheckExistingBooking_ReturnsBooking(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.Booking{BookingID: "B1", DeviceID: "garden-city", LockerID: 7, Status: api.BookingStatusActive})
	})

	b, err := svc.CheckExistingBooking(context.Background(), "garden-city", "254712345678")
	if err != nil || b == nil {
		t.Fatalf("expected booking, got %+v, %v", b, err)
	}
	if b.LockerID != 7 || b.Status != api.BookingStatusActive {
		t.Errorf("unexpected booking %+v", b)
	}
}

func TestGetBookingDetails_NotFoundIsError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Booking not found"})
	})

	_, err := svc.GetBookingDetails(context.Background(), "garden-city", "254712345678")
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestInitiateBookingPayment_Payload(t *testing.T) {
	var got api.InitiatePaymentRequest
	rec := &fakeRecorder{}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/devices/garden-city/payments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "STK push sent"})
	}, WithRecorder(rec))

	resp, err := svc.InitiateBookingPayment(context.Background(), "garden-city", "254712345678", 280, LockerMedium, 24)
	if err != nil {
		t.Fatalf("InitiateBookingPayment failed: %v", err)
	}
	if resp.Message != "STK push sent" {
		t.Errorf("unexpected response %+v", resp)
	}

	if got.TransactionDesc != "BKWF1" || got.Amount != "280" || got.PhoneNumber != "254712345678" ||
		got.TransactionType != 1 || got.AccountReference != "ParcelPoint" {
		t.Errorf("unexpected payload %+v", got)
	}
	if !reReferenceID.MatchString(got.ReferenceID) {
		t.Errorf("reference id %q is not 10 alphanumerics", got.ReferenceID)
	}

	if len(rec.records) != 1 {
		t.Fatalf("expected one audit record, got %d", len(rec.records))
	}
	r := rec.records[0]
	if r.ReferenceID != got.ReferenceID || r.Hours != 24 || r.Status != storage.PaymentStatusInitiated || r.Kind != storage.PaymentKindBooking {
		t.Errorf("unexpected audit record %+v", r)
	}
}

func TestInitiateBookingPayment_UnknownSize(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})
	if _, err := svc.InitiateBookingPayment(context.Background(), "garden-city", "254712345678", 50, "huge", 1); !errors.Is(err, ErrUnknownLockerSize) {
		t.Fatalf("expected ErrUnknownLockerSize, got %v", err)
	}
}

func TestInitiateExtensionPayment_Payload(t *testing.T) {
	var got api.InitiatePaymentRequest
	rec := &fakeRecorder{}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "M-PESA unavailable"})
	}, WithRecorder(rec))

	_, err := svc.InitiateExtensionPayment(context.Background(), "garden-city", "7", "254712345678", 60, 2)
	if err == nil || err.Error() != "M-PESA unavailable" {
		t.Fatalf("expected server error, got %v", err)
	}
	if !strings.HasPrefix(got.ReferenceID, "EXT_") || got.TransactionDesc != "BKWE7" || got.Amount != "60" {
		t.Errorf("unexpected payload %+v", got)
	}
	if len(rec.records) != 1 || rec.records[0].Status != storage.PaymentStatusFailed || rec.records[0].LockerID != "7" {
		t.Errorf("expected failed audit record, got %+v", rec.records)
	}
}

func TestGetDevicesOverview_Cached(t *testing.T) {
	calls := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusOK, []api.DeviceOverview{
			{ID: "garden-city", Name: "Garden City Mall", Status: api.DeviceStatusActive},
			{ID: "doonholm", Name: "Doonholm", Status: api.DeviceStatusInactive},
		})
	}, WithCache(cache.NewMemoryCache(), time.Minute))

	for range 3 {
		devices, err := svc.GetDevicesOverview(context.Background())
		if err != nil {
			t.Fatalf("GetDevicesOverview failed: %v", err)
		}
		if len(devices) != 2 {
			t.Fatalf("expected inactive devices to be kept, got %d", len(devices))
		}
	}
	if calls != 1 {
		t.Errorf("expected one upstream call, got %d", calls)
	}
}
