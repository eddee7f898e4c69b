// Package metrics defines the gateway's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// InboundMessages counts webhook messages by classified intent.
	InboundMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_inbound_messages_total",
		Help: "Inbound WhatsApp messages by classified intent.",
	}, []string{"intent"})

	// Dispatches counts outbound message sends by channel and outcome.
	Dispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_dispatches_total",
		Help: "Outbound message dispatches by channel and outcome.",
	}, []string{"channel", "outcome"})

	// MalformedWebhooks counts webhook deliveries that failed to parse.
	MalformedWebhooks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_malformed_webhooks_total",
		Help: "Webhook deliveries with an unparseable payload.",
	})

	// CatalogFallbacks counts catalog reads served from cache or defaults.
	CatalogFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_catalog_fallbacks_total",
		Help: "Catalog reads served by a fallback source.",
	}, []string{"source"})
)

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
