package submit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-authform/pkg/authforms"
	"github.com/goliatone/go-authform/pkg/client"
	"github.com/goliatone/go-authform/pkg/form"
	"github.com/goliatone/go-authform/pkg/metrics"
	"github.com/goliatone/go-authform/pkg/storage"
)

var (
	// ErrInFlight is returned when Submit is called while a submission of the
	// same form is still running.
	ErrInFlight = errors.New("submit: submission already in flight")
	// ErrSchemaMismatch is returned when the state was built from another
	// form's schema.
	ErrSchemaMismatch = errors.New("submit: state does not belong to this form")
)

// Transport sends a serialized request to an endpoint.
type Transport interface {
	Submit(ctx context.Context, endpoint string, body any) (*client.Payload, error)
}

// LocalSink receives the snapshot of a form handled without the API.
type LocalSink func(ctx context.Context, values map[string]string) error

// Handler runs the submit operation for one form instance.
type Handler struct {
	def       authforms.Definition
	transport Transport
	store     storage.Store
	notifier  Notifier
	navigator Navigator
	sink      LocalSink
	logger    *zap.Logger
	metrics   *metrics.Submissions
	phase     atomic.Int32
}

// New builds a handler for def. Forms with an endpoint need a Transport and
// forms persisting a credential need a Store.
func New(def authforms.Definition, opts ...Option) (*Handler, error) {
	if def.Schema == nil {
		return nil, fmt.Errorf("submit: form %q has no schema", def.Name)
	}
	h := &Handler{
		def:       def,
		notifier:  nopNotifier{},
		navigator: nopNavigator{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if !def.Local() && h.transport == nil {
		return nil, fmt.Errorf("submit: form %q requires a transport", def.Name)
	}
	if def.PersistCredential && h.store == nil {
		return nil, fmt.Errorf("submit: form %q requires a store", def.Name)
	}
	h.logger = h.logger.With(zap.String("form", def.Name))
	return h, nil
}

// Definition returns the form definition the handler serves.
func (h *Handler) Definition() authforms.Definition {
	return h.def
}

// Phase reports the current pipeline phase.
func (h *Handler) Phase() Phase {
	return Phase(h.phase.Load())
}

// Busy reports whether the submit control is disabled.
func (h *Handler) Busy() bool {
	return h.Phase() == PhaseSubmitting
}

// Submit validates state and, when valid, sends it. Validation failures come
// back as an OutcomeInvalid with the errors left on state. Server and
// transport failures come back as an OutcomeFailure; the returned error is
// reserved for misuse (ErrInFlight, ErrSchemaMismatch).
//
// The request is detached from ctx cancellation: once issued it runs to
// completion and its outcome is applied.
func (h *Handler) Submit(ctx context.Context, state *form.State) (Outcome, error) {
	if state == nil || state.Schema() != h.def.Schema {
		return Outcome{}, ErrSchemaMismatch
	}
	if !h.phase.CompareAndSwap(int32(PhaseIdle), int32(PhaseValidating)) {
		return Outcome{}, ErrInFlight
	}
	defer h.phase.Store(int32(PhaseIdle))

	if !state.Validate() {
		h.logger.Debug("submission blocked by validation", zap.Any("errors", state.Errors()))
		h.metrics.Observe(h.def.Name, string(OutcomeInvalid), 0)
		return Outcome{Kind: OutcomeInvalid, FieldErrors: state.Errors()}, nil
	}

	if h.def.Local() {
		return h.submitLocal(ctx, state), nil
	}

	h.phase.Store(int32(PhaseSubmitting))
	ctx = context.WithoutCancel(ctx)

	body, err := authforms.NewRequest(h.def, state)
	if err != nil {
		return h.fail(ctx, state, err, 0), nil
	}

	start := time.Now()
	payload, err := h.transport.Submit(ctx, h.def.Endpoint, body)
	elapsed := time.Since(start)
	if err != nil {
		return h.fail(ctx, state, err, elapsed), nil
	}
	return h.succeed(ctx, state, payload, elapsed), nil
}

func (h *Handler) succeed(ctx context.Context, state *form.State, payload *client.Payload, elapsed time.Duration) Outcome {
	if h.def.PersistCredential {
		if payload == nil || payload.AccessToken == "" {
			return h.fail(ctx, state, errMissingCredential, elapsed)
		}
		err := h.store.Put(map[string]string{
			storage.KeyAccessToken: payload.AccessToken,
			storage.KeyLoggedIn:    storage.LoggedInValue,
		})
		if err != nil {
			return h.fail(ctx, state, err, elapsed)
		}
	}

	h.notify(ctx, LevelSuccess, h.def.SuccessMessage)
	state.Reset()
	if h.def.Destination != "" {
		if err := h.navigator.Navigate(ctx, h.def.Destination); err != nil {
			h.logger.Warn("navigation failed", zap.String("route", h.def.Destination), zap.Error(err))
		}
	}

	h.logger.Info("submission succeeded", zap.Duration("elapsed", elapsed))
	h.metrics.Observe(h.def.Name, string(OutcomeSuccess), elapsed)
	return Outcome{Kind: OutcomeSuccess, Payload: payload, Message: h.def.SuccessMessage}
}

var errMissingCredential = errors.New("submit: sign-in response carried no access token")

func (h *Handler) fail(ctx context.Context, state *form.State, err error, elapsed time.Duration) Outcome {
	out := Outcome{Kind: OutcomeFailure}

	var se *client.ServerError
	switch {
	case errors.As(err, &se):
		out.Message = se.Message
		if out.Message == "" {
			out.Message = h.def.FailureMessage
		}
		out.FormErrors = state.ApplyServerErrors(se.Errors)
		out.FieldErrors = state.Errors()
		h.logger.Info("submission rejected", zap.Int("status", se.Status), zap.String("message", out.Message))
	case errors.Is(err, errMissingCredential):
		out.Message = h.def.FailureMessage
		h.logger.Warn("submission failed", zap.Error(err))
	default:
		out.Message = client.UnknownErrorMessage
		h.logger.Error("submission failed", zap.Error(err))
	}

	h.notify(ctx, LevelError, out.Message)
	h.metrics.Observe(h.def.Name, string(OutcomeFailure), elapsed)
	return out
}

func (h *Handler) submitLocal(ctx context.Context, state *form.State) Outcome {
	values := state.Snapshot()
	h.logger.Info("local submission", zap.Any("values", authforms.Redact(h.def.Schema, values)))
	if h.sink != nil {
		if err := h.sink(ctx, values); err != nil {
			h.logger.Error("local sink failed", zap.Error(err))
			h.metrics.Observe(h.def.Name, string(OutcomeFailure), 0)
			return Outcome{Kind: OutcomeFailure, Message: client.UnknownErrorMessage}
		}
	}
	h.metrics.Observe(h.def.Name, string(OutcomeSuccess), 0)
	return Outcome{Kind: OutcomeSuccess}
}

func (h *Handler) notify(ctx context.Context, level Level, msg string) {
	if err := h.notifier.Notify(ctx, Notification{Level: level, Message: msg}); err != nil {
		h.logger.Warn("notification failed", zap.Error(err))
	}
}
