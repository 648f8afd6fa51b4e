package submit

import (
	"context"

	"github.com/goliatone/go-authform/pkg/client"
)

// Phase is a step of the submit operation.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// OutcomeKind tags an Outcome.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
	OutcomeInvalid OutcomeKind = "invalid"
)

// Outcome is the result of one submit attempt. Payload is set on success,
// Message on success and failure. FieldErrors holds the field errors left on
// the state and FormErrors any server messages not tied to a field.
type Outcome struct {
	Kind        OutcomeKind
	Payload     *client.Payload
	Message     string
	FieldErrors map[string]string
	FormErrors  []string
}

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a toast-style message shown to the user.
type Notification struct {
	Level   Level
	Message string
}

// Notifier shows notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Navigator moves the user to a client-side route.
type Navigator interface {
	Navigate(ctx context.Context, route string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, route string) error

func (f NavigatorFunc) Navigate(ctx context.Context, route string) error {
	return f(ctx, route)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) error { return nil }

type nopNavigator struct{}

func (nopNavigator) Navigate(context.Context, string) error { return nil }
