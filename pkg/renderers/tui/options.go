package tui

import "go.uber.org/zap"

// Theme captures optional prefixes applied when printing messages.
type Theme struct {
	InfoPrefix     string
	SuccessPrefix  string
	ErrorPrefix    string
	NavigatePrefix string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{
	InfoPrefix:     "",
	SuccessPrefix:  "✔ ",
	ErrorPrefix:    "✖ ",
	NavigatePrefix: "-> ",
}

// defaultMaxAttempts bounds how often a single field is re-prompted.
const defaultMaxAttempts = 5

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithMaxAttempts caps how many answers a field may reject in a row.
func WithMaxAttempts(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithRetryOnFailure asks whether to try again after a rejected submission.
func WithRetryOnFailure(enabled bool) Option {
	return func(r *Runner) {
		r.retry = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
