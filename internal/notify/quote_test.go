package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wolfman30/jaideeclear-quotes/internal/events"
)

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func quoteEvent() events.QuoteRequestedV1 {
	return events.QuoteRequestedV1{
		QuoteID:         "quote-1",
		Source:          "web",
		Name:            "Nok <script>",
		Phone:           "+66 92-006-8100",
		Location:        "Ari, Bangkok",
		MeasurementDate: "2025-12-01",
		SubmittedAt:     time.Date(2025, 11, 20, 2, 0, 0, 0, time.UTC),
	}
}

func TestQuoteNotifier_Sends(t *testing.T) {
	sender := &recordingSender{}
	n := NewQuoteNotifier(sender, " jaideeclear@gmail.com ", nil)

	if err := n.NotifyQuoteRequested(context.Background(), quoteEvent()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "jaideeclear@gmail.com" {
		t.Errorf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "2025-12-01") {
		t.Errorf("subject missing date: %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "Location: Ari, Bangkok") {
		t.Errorf("body missing location: %q", msg.Body)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("expected HTML body to be escaped")
	}
}

func TestQuoteNotifier_SkipsWithoutRecipient(t *testing.T) {
	sender := &recordingSender{}
	n := NewQuoteNotifier(sender, "", nil)
	if err := n.NotifyQuoteRequested(context.Background(), quoteEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Error("expected no email")
	}
}

func TestQuoteNotifier_Errors(t *testing.T) {
	n := NewQuoteNotifier(&recordingSender{err: errors.New("boom")}, "ops@example.com", nil)
	if err := n.NotifyQuoteRequested(context.Background(), quoteEvent()); err == nil {
		t.Error("expected send error")
	}

	var nilSender *QuoteNotifier
	if err := nilSender.NotifyQuoteRequested(context.Background(), quoteEvent()); err == nil {
		t.Error("expected error from nil notifier")
	}
}

func TestQuoteNotifier_ReplyToAndAdminLink(t *testing.T) {
	sender := &recordingSender{}
	n := NewQuoteNotifier(sender, "jaideeclear@gmail.com", nil,
		WithReplyTo(" sales@jaideeclear.com "),
		WithAdminBaseURL("https://quotes.jaideeclear.com/"),
	)
	if err := n.NotifyQuoteRequested(context.Background(), quoteEvent()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	msg := sender.sent[0]
	if msg.ReplyTo != "sales@jaideeclear.com" {
		t.Errorf("unexpected reply-to %q", msg.ReplyTo)
	}
	if msg.Category != QuoteEmailCategory {
		t.Errorf("unexpected category %q", msg.Category)
	}
	link := "https://quotes.jaideeclear.com/admin/quotes/quote-1"
	if !strings.Contains(msg.Body, link) || !strings.Contains(msg.HTML, link) {
		t.Errorf("expected admin link in both bodies:\n%s\n%s", msg.Body, msg.HTML)
	}
}

func TestBuildQuoteEmail_NoAdminLinkWithoutBaseURL(t *testing.T) {
	msg, err := BuildQuoteEmail(quoteEvent())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.Contains(msg.Body, "/admin/quotes/") || strings.Contains(msg.HTML, "href") {
		t.Error("expected no admin link")
	}
	if msg.ReplyTo != "" {
		t.Errorf("expected empty reply-to, got %q", msg.ReplyTo)
	}
}
