// Package tui drives the authentication forms from a terminal: it prompts
// each field, feeds answers through the form state and hands the result to
// the submit pipeline.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-authform/pkg/form"
	"github.com/goliatone/go-authform/pkg/submit"
)

// Runner prompts form fields and submits the result.
type Runner struct {
	driver      PromptDriver
	theme       Theme
	maxAttempts int
	retry       bool
	logger      *zap.Logger
}

// NewRunner builds a Runner. Without WithPromptDriver it prompts through
// survey on stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		theme:       DefaultTheme,
		maxAttempts: defaultMaxAttempts,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Fill prompts every field of the state's schema in order.
func (r *Runner) Fill(ctx context.Context, state *form.State) error {
	return r.FillFields(ctx, state, state.Schema().FieldNames())
}

// FillFields prompts the named fields in the given order.
func (r *Runner) FillFields(ctx context.Context, state *form.State, names []string) error {
	for _, name := range names {
		field, ok := state.Schema().Field(name)
		if !ok {
			return fmt.Errorf("tui: %w: %q", form.ErrUnknownField, name)
		}
		if err := r.promptField(ctx, state, field); err != nil {
			return err
		}
	}
	return nil
}

// Run fills the form and submits it through h. Fields rejected by validation
// are prompted again before the next attempt. A failed submission ends the
// run unless retries are enabled and the user asks for one.
func (r *Runner) Run(ctx context.Context, state *form.State, h *submit.Handler) (submit.Outcome, error) {
	if err := r.Fill(ctx, state); err != nil {
		return submit.Outcome{}, err
	}
	for {
		out, err := h.Submit(ctx, state)
		if err != nil {
			return out, err
		}

		switch out.Kind {
		case submit.OutcomeInvalid:
			names := failingFields(state.Schema(), out.FieldErrors)
			r.logger.Debug("re-prompting invalid fields", zap.Strings("fields", names))
			for _, name := range names {
				field, _ := state.Schema().Field(name)
				r.info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, field.Label, out.FieldErrors[name]))
			}
			if err := r.FillFields(ctx, state, names); err != nil {
				return out, err
			}
		case submit.OutcomeFailure:
			for _, msg := range out.FormErrors {
				r.info(ctx, r.theme.ErrorPrefix+msg)
			}
			if !r.retry {
				return out, nil
			}
			again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
			if err != nil {
				return out, err
			}
			if !again {
				return out, nil
			}
			names := failingFields(state.Schema(), out.FieldErrors)
			if len(names) == 0 {
				names = state.Schema().FieldNames()
			}
			if err := r.FillFields(ctx, state, names); err != nil {
				return out, err
			}
		default:
			return out, nil
		}
	}
}

func (r *Runner) promptField(ctx context.Context, state *form.State, field form.Field) error {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		cfg := InputConfig{
			Message: field.Label,
			Help:    fieldHelp(field),
		}

		var (
			answer string
			err    error
		)
		if field.Secret() {
			answer, err = r.driver.Password(ctx, cfg)
		} else {
			cfg.Default = currentValue(state, field)
			if field.Type == form.FieldTypeDate {
				cfg.Validator = dateValidator(field)
			}
			answer, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}

		if err := state.Set(field.Name, answer); err != nil {
			if !form.IsValidationError(err) {
				return err
			}
			r.info(ctx, r.theme.ErrorPrefix+dateProblem(field, err))
			continue
		}
		if msg := state.Error(field.Name); msg != "" {
			r.info(ctx, r.theme.ErrorPrefix+msg)
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
}

func (r *Runner) info(ctx context.Context, msg string) {
	if err := r.driver.Info(ctx, msg); err != nil {
		r.logger.Warn("prompt output failed", zap.Error(err))
	}
}

func currentValue(state *form.State, field form.Field) string {
	if field.Type == form.FieldTypeDate {
		if t := state.Date(field.Name); !t.IsZero() {
			return t.Format(form.DateLayout)
		}
		return ""
	}
	return state.String(field.Name)
}

func fieldHelp(field form.Field) string {
	var parts []string
	if field.Placeholder != "" {
		parts = append(parts, field.Placeholder)
	}
	if field.Type == form.FieldTypeDate {
		parts = append(parts, dateRangeHint(field))
	}
	return strings.Join(parts, ". ")
}

func dateRangeHint(field form.Field) string {
	if field.Dates == nil || field.Dates.Min.IsZero() {
		return "YYYY-MM-DD, up to today"
	}
	return fmt.Sprintf("YYYY-MM-DD, from %s to today", field.Dates.Min.Format(form.DateLayout))
}

// dateValidator rejects dates the field cannot select. Empty answers pass so
// the required rule reports them.
func dateValidator(field form.Field) func(string) error {
	return func(answer string) error {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return nil
		}
		t, err := time.Parse(form.DateLayout, answer)
		if err != nil {
			return errors.New("use the YYYY-MM-DD format")
		}
		if !field.Selectable(t) {
			return fmt.Errorf("pick a date %s", strings.TrimPrefix(dateRangeHint(field), "YYYY-MM-DD, "))
		}
		return nil
	}
}

func dateProblem(field form.Field, err error) string {
	if errors.Is(err, form.ErrInvalidDate) {
		return "Use the YYYY-MM-DD format"
	}
	return "Pick a date " + strings.TrimPrefix(dateRangeHint(field), "YYYY-MM-DD, ")
}

func failingFields(schema *form.Schema, errs map[string]string) []string {
	var names []string
	for _, name := range schema.FieldNames() {
		if _, ok := errs[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
