package submit

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/pkg/metrics"
	"github.com/goliatone/go-authform/pkg/storage"
)

// Option configures a Handler.
type Option func(*Handler)

// WithTransport sets the API transport, typically a *client.Client.
func WithTransport(t Transport) Option {
	return func(h *Handler) {
		h.transport = t
	}
}

// WithStore sets the durable store the access credential is written to.
func WithStore(s storage.Store) Option {
	return func(h *Handler) {
		h.store = s
	}
}

// WithNotifier sets where notifications go.
func WithNotifier(n Notifier) Option {
	return func(h *Handler) {
		if n != nil {
			h.notifier = n
		}
	}
}

// WithNavigator sets the route navigator.
func WithNavigator(n Navigator) Option {
	return func(h *Handler) {
		if n != nil {
			h.navigator = n
		}
	}
}

// WithLocalSink receives snapshots of forms handled without the API.
func WithLocalSink(sink LocalSink) Option {
	return func(h *Handler) {
		h.sink = sink
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics records outcomes on the given collectors.
func WithMetrics(m *metrics.Submissions) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}
