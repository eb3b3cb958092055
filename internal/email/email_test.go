package email

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"parcelpoint-web/internal/config"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(config.SMTPConfig{From: "noreply@parcelpoint.co.ke", To: "hello@example.com"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestBuildMsg_GeneratesTextPart(t *testing.T) {
	c := testClient(t)
	msg := &Message{
		To:      []string{c.DefaultRecipient()},
		ReplyTo: "jane@example.com",
		Subject: "New contact message",
		HTML:    "<p>Hello <b>ParcelPoint</b></p>",
	}

	m, err := c.BuildMsg(msg)
	if err != nil {
		t.Fatalf("BuildMsg failed: %v", err)
	}
	if !strings.Contains(msg.Text, "Hello") || strings.Contains(msg.Text, "<p>") {
		t.Errorf("unexpected text part %q", msg.Text)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	raw := buf.String()
	for _, want := range []string{"Subject: New contact message", "hello@example.com", "Reply-To: <jane@example.com>", "multipart/alternative"} {
		if !strings.Contains(raw, want) {
			t.Errorf("message is missing %q", want)
		}
	}
}

func TestBuildMsg_RequiresRecipient(t *testing.T) {
	if _, err := testClient(t).BuildMsg(&Message{Subject: "x", Text: "y"}); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}
}

func TestSend_DisabledWithoutHost(t *testing.T) {
	c := testClient(t)
	if c.Enabled() {
		t.Fatalf("client without host should be disabled")
	}
	err := c.Send(context.Background(), &Message{To: []string{"hello@example.com"}, Subject: "x", Text: "y"})
	if err != nil {
		t.Fatalf("disabled send should be a no-op, got %v", err)
	}
}

func TestNewClient_RequiresFrom(t *testing.T) {
	if _, err := NewClient(config.SMTPConfig{}); err == nil {
		t.Fatalf("expected error without from address")
	}
}
