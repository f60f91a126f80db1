package notify

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/wolfman30/jaideeclear-quotes/internal/events"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

var quoteHTML = template.Must(template.New("quote").Parse(`<h2>New quote request</h2>
<table>
<tr><td>Name</td><td>{{.Name}}</td></tr>
<tr><td>Phone</td><td>{{.Phone}}</td></tr>
<tr><td>Location</td><td>{{.Location}}</td></tr>
<tr><td>Measurement date</td><td>{{.MeasurementDate}}</td></tr>
<tr><td>Source</td><td>{{.Source}}</td></tr>
<tr><td>Reference</td><td>{{.QuoteID}}</td></tr>
</table>
{{if .AdminURL}}<p><a href="{{.AdminURL}}">Open in admin</a></p>{{end}}`))

// QuoteEmailCategory tags operator emails so providers can report on them.
const QuoteEmailCategory = "quote_request"

// QuoteNotifier emails the operator inbox about a new quote request.
type QuoteNotifier struct {
	sender  EmailSender
	to      string
	replyTo string
	baseURL string
	logger  *logging.Logger
}

// QuoteNotifierOption customizes a QuoteNotifier.
type QuoteNotifierOption func(*QuoteNotifier)

// WithReplyTo sets the address operator replies go to, such as a shared sales inbox.
func WithReplyTo(addr string) QuoteNotifierOption {
	return func(n *QuoteNotifier) { n.replyTo = strings.TrimSpace(addr) }
}

// WithAdminBaseURL links each email to the quote in the admin API under base.
func WithAdminBaseURL(base string) QuoteNotifierOption {
	return func(n *QuoteNotifier) { n.baseURL = strings.TrimRight(strings.TrimSpace(base), "/") }
}

// NewQuoteNotifier returns a notifier sending to the given operator address.
func NewQuoteNotifier(sender EmailSender, to string, logger *logging.Logger, opts ...QuoteNotifierOption) *QuoteNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	n := &QuoteNotifier{sender: sender, to: strings.TrimSpace(to), logger: logger}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NotifyQuoteRequested sends the operator email for evt.
func (n *QuoteNotifier) NotifyQuoteRequested(ctx context.Context, evt events.QuoteRequestedV1) error {
	if n == nil || n.sender == nil {
		return errors.New("notify: email sender not configured")
	}
	if n.to == "" {
		n.logger.Debug("notify: no operator address configured, skipping", "quote_id", evt.QuoteID)
		return nil
	}
	msg, err := buildQuoteEmail(evt, n.adminURL(evt.QuoteID))
	if err != nil {
		return err
	}
	msg.To = n.to
	msg.ReplyTo = n.replyTo
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: quote %s: %w", evt.QuoteID, err)
	}
	return nil
}

func (n *QuoteNotifier) adminURL(quoteID string) string {
	if n.baseURL == "" || quoteID == "" {
		return ""
	}
	return n.baseURL + "/admin/quotes/" + url.PathEscape(quoteID)
}

// BuildQuoteEmail renders the subject and bodies for evt. The recipient is left empty.
func BuildQuoteEmail(evt events.QuoteRequestedV1) (EmailMessage, error) {
	return buildQuoteEmail(evt, "")
}

func buildQuoteEmail(evt events.QuoteRequestedV1, adminURL string) (EmailMessage, error) {
	view := struct {
		events.QuoteRequestedV1
		AdminURL string
	}{evt, adminURL}
	var html strings.Builder
	if err := quoteHTML.Execute(&html, view); err != nil {
		return EmailMessage{}, fmt.Errorf("notify: render quote email: %w", err)
	}

	submitted := evt.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}
	var body strings.Builder
	fmt.Fprintf(&body, "New quote request (%s)\n\n", evt.QuoteID)
	fmt.Fprintf(&body, "Name: %s\n", evt.Name)
	fmt.Fprintf(&body, "Phone: %s\n", evt.Phone)
	fmt.Fprintf(&body, "Location: %s\n", evt.Location)
	fmt.Fprintf(&body, "Measurement date: %s\n", evt.MeasurementDate)
	fmt.Fprintf(&body, "Submitted: %s via %s\n", submitted.UTC().Format(time.RFC1123), evt.Source)
	if adminURL != "" {
		fmt.Fprintf(&body, "\nOpen in admin: %s\n", adminURL)
	}

	return EmailMessage{
		Subject:  fmt.Sprintf("New quote request: %s (%s)", evt.Name, evt.MeasurementDate),
		Body:     body.String(),
		HTML:     html.String(),
		Category: QuoteEmailCategory,
	}, nil
}
