// Package dispatch sends composed order messages toward WhatsApp.
// Two implementations exist: DeepLink hands the customer a wa.me URL to
// send the message themselves, and Graph delivers it server-side through
// the WhatsApp Business Cloud API.
package dispatch

import (
	"context"
	"log/slog"
	"net/url"
)

// Dispatcher sends a message body to a WhatsApp number.
// to is the destination in international format without the leading plus.
type Dispatcher interface {
	Send(ctx context.Context, to, body string) error
}

// DeepLink dispatches by producing wa.me deep links. Sending never fails:
// the link opens the customer's own WhatsApp client with the message
// prefilled, and delivery happens on their device, not ours.
type DeepLink struct {
	// Open is invoked with the built link on Send. Nil means link-only
	// usage where callers render the URL themselves.
	Open func(ctx context.Context, link string) error
}

// URL builds the wa.me link for the given destination and message body.
func (d *DeepLink) URL(to, body string) string {
	return "https://wa.me/" + to + "?text=" + url.QueryEscape(body)
}

// Send implements Dispatcher.
func (d *DeepLink) Send(ctx context.Context, to, body string) error {
	if d.Open == nil {
		return nil
	}
	return d.Open(ctx, d.URL(to, body))
}

// Discard is a Dispatcher that drops messages. Used when the Graph API
// credentials are absent: the webhook still acknowledges deliveries, it
// just cannot reply.
type Discard struct {
	Logger *slog.Logger
}

// Send implements Dispatcher.
func (d *Discard) Send(ctx context.Context, to, body string) error {
	if d.Logger != nil {
		d.Logger.Debug("dispatch discarded, graph api not configured", slog.String("to", to))
	}
	return nil
}

// Mock implements Dispatcher for testing.
// Configure via the function field; calls are recorded either way.
type Mock struct {
	SendFunc func(ctx context.Context, to, body string) error

	Sent []SentMessage
}

// SentMessage records one Send call.
type SentMessage struct {
	To   string
	Body string
}

// Send calls the configured SendFunc or succeeds silently.
func (m *Mock) Send(ctx context.Context, to, body string) error {
	m.Sent = append(m.Sent, SentMessage{To: to, Body: body})
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, body)
	}
	return nil
}

// Verify implementations satisfy Dispatcher at compile time.
var (
	_ Dispatcher = (*DeepLink)(nil)
	_ Dispatcher = (*Discard)(nil)
	_ Dispatcher = (*Mock)(nil)
)
