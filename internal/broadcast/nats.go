package broadcast

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// subjectCatalogUpdated is the core NATS subject for catalog changes.
const subjectCatalogUpdated = "catalog.updated"

// NATS is a Broadcaster backed by a NATS connection, used when several
// gateway instances share one product store.
type NATS struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

// NewNATS connects to the given NATS URL.
func NewNATS(url string, logger *slog.Logger) (*NATS, error) {
	conn, err := nats.Connect(url,
		nats.Name("tienda-gateway"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &NATS{conn: conn, logger: logger}, nil
}

// NotifyCatalogUpdated implements Broadcaster.
func (n *NATS) NotifyCatalogUpdated(ctx context.Context) error {
	return n.conn.Publish(subjectCatalogUpdated, nil)
}

// OnCatalogUpdated implements Broadcaster.
func (n *NATS) OnCatalogUpdated(fn func()) error {
	sub, err := n.conn.Subscribe(subjectCatalogUpdated, func(*nats.Msg) {
		fn()
	})
	if err != nil {
		return err
	}
	n.subs = append(n.subs, sub)
	return nil
}

// Close implements Broadcaster.
func (n *NATS) Close() error {
	for _, sub := range n.subs {
		if err := sub.Unsubscribe(); err != nil {
			n.logger.Warn("unsubscribe failed", slog.String("error", err.Error()))
		}
	}
	n.conn.Close()
	return nil
}

var _ Broadcaster = (*NATS)(nil)
