package routes

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestContactForm_ValidationErrors(t *testing.T) {
	r := newTestEngine(t, &Deps{Booking: &fakeService{}})

	rec := do(r, http.MethodPost, "/contact", url.Values{
		"name":  {"Wanjiru"},
		"email": {"not-an-email"},
	}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Please enter a valid email address.") {
		t.Fatalf("expected email error, got %s", body)
	}
	if !strings.Contains(body, "This field is required.") {
		t.Fatalf("expected required message error")
	}
	if !strings.Contains(body, `value="Wanjiru"`) {
		t.Fatalf("expected submitted name to be kept")
	}
}

func TestContactForm_SendsToSupport(t *testing.T) {
	mailer := &fakeMailer{}
	r := newTestEngine(t, &Deps{Booking: &fakeService{}, Mailer: mailer, SupportInbox: "support@parcelpoint.test"})

	rec := do(r, http.MethodPost, "/contact", url.Values{
		"name":    {"Wanjiru"},
		"email":   {"wanjiru@example.com"},
		"message": {"Do you have lockers in Westlands?"},
	}, nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/confirmation?kind=contact" {
		t.Fatalf("expected redirect to confirmation, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To[0] != "support@parcelpoint.test" || msg.ReplyTo != "wanjiru@example.com" {
		t.Fatalf("unexpected envelope %+v", msg)
	}
	if !strings.Contains(msg.HTML, "Do you have lockers in Westlands?") {
		t.Fatalf("email body misses the message: %s", msg.HTML)
	}
}

func TestContactForm_NowhereToDeliver(t *testing.T) {
	r := newTestEngine(t, &Deps{Booking: &fakeService{}})

	rec := do(r, http.MethodPost, "/contact", url.Values{
		"name":    {"Wanjiru"},
		"email":   {"wanjiru@example.com"},
		"message": {"Hello"},
	}, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without storage or mail, got %d", rec.Code)
	}
}

func TestDeleteAccount(t *testing.T) {
	mailer := &fakeMailer{}
	r := newTestEngine(t, &Deps{Booking: &fakeService{}, Mailer: mailer, SupportInbox: "support@parcelpoint.test"})

	rec := do(r, http.MethodPost, "/delete-account", url.Values{
		"phone":   {"0712345678"},
		"confirm": {"delete it"},
	}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "to confirm.") || !strings.Contains(body, "cannot be undone") {
		t.Fatalf("expected confirm and agree errors, got %s", body)
	}

	rec = do(r, http.MethodPost, "/delete-account", url.Values{
		"phone":   {"0712345678"},
		"email":   {"user@example.com"},
		"reason":  {"Moving abroad"},
		"confirm": {"Delete My Account"},
		"agree":   {"yes"},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if !strings.Contains(msg.Subject, "2547****5678") {
		t.Fatalf("subject should carry the masked phone, got %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "254712345678") || !strings.Contains(msg.HTML, "Moving abroad") {
		t.Fatalf("email body misses details: %s", msg.HTML)
	}
}
