package tui

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-authform/pkg/authforms"
	"github.com/goliatone/go-authform/pkg/client"
	"github.com/goliatone/go-authform/pkg/form"
	"github.com/goliatone/go-authform/pkg/routes"
	"github.com/goliatone/go-authform/pkg/storage"
	"github.com/goliatone/go-authform/pkg/submit"
	"github.com/goliatone/go-authform/pkg/testsupport"
)

var now = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	infoMessages []string
	prompts      []InputConfig
	inputPos     int
	passPos      int
	confirmPos   int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.prompts = append(s.prompts, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.prompts = append(s.prompts, cfg)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestFill_RepromptsUntilFieldIsValid(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"a", "ab"},
		passwords: []string{"abc", "abcdef"},
	}
	def := authforms.SignIn()
	state := form.NewState(def.Schema)

	if err := NewRunner(WithPromptDriver(driver)).Fill(context.Background(), state); err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]string{"username": "ab", "password": "abcdef"}
	if diff := cmp.Diff(want, state.Snapshot()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{
		"✖ Username must be at least 2 characters.",
		"✖ Password must be at least 6 characters.",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_SignUpDateAndConfirmation(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"alice", "alice@example.com", "1899-12-31", "1990-05-17"},
		passwords: []string{"secret1", "secret2", "secret1"},
	}
	def := authforms.SignUp(authforms.WithClock(func() time.Time { return now }))
	state := form.NewState(def.Schema)

	if err := NewRunner(WithPromptDriver(driver)).Fill(context.Background(), state); err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]string{
		"username":        "alice",
		"email":           "alice@example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"dateOfBirth":     "1990-05-17",
	}
	if diff := cmp.Diff(want, state.Snapshot()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{
		"✖ Passwords do not match",
		"✖ Pick a date from 1900-01-01 to today",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}

	last := driver.prompts[len(driver.prompts)-1]
	if last.Message != "Date of birth" || last.Validator == nil {
		t.Fatalf("expected restricted date prompt, got %+v", last)
	}
	if !strings.Contains(last.Help, "from 1900-01-01 to today") {
		t.Fatalf("expected range hint, got %q", last.Help)
	}
}

func TestFill_SecretPromptsHaveNoDefault(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"ab"},
		passwords: []string{"abcdef"},
	}
	def := authforms.SignIn()
	state := form.NewState(def.Schema)
	_ = state.Set(authforms.FieldUsername, "prefilled")
	_ = state.Set(authforms.FieldPassword, "hunter22")

	if err := NewRunner(WithPromptDriver(driver)).Fill(context.Background(), state); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if driver.prompts[0].Default != "prefilled" {
		t.Fatalf("expected current username as default, got %q", driver.prompts[0].Default)
	}
	if driver.prompts[1].Default != "" {
		t.Fatalf("secret prompt leaked a default")
	}
}

func TestFill_Errors(t *testing.T) {
	t.Run("aborted", func(t *testing.T) {
		driver := &stubDriver{err: ErrAborted}
		state := form.NewState(authforms.SignIn().Schema)
		err := NewRunner(WithPromptDriver(driver)).Fill(context.Background(), state)
		if !errors.Is(err, ErrAborted) {
			t.Fatalf("expected ErrAborted, got %v", err)
		}
	})

	t.Run("too many attempts", func(t *testing.T) {
		driver := &stubDriver{inputs: []string{"a", "b", "c"}}
		state := form.NewState(authforms.SignIn().Schema)
		err := NewRunner(WithPromptDriver(driver), WithMaxAttempts(2)).Fill(context.Background(), state)
		if !errors.Is(err, ErrTooManyAttempts) {
			t.Fatalf("expected ErrTooManyAttempts, got %v", err)
		}
		if driver.inputPos != 2 {
			t.Fatalf("expected two prompts, got %d", driver.inputPos)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		state := form.NewState(authforms.SignIn().Schema)
		err := NewRunner(WithPromptDriver(&stubDriver{})).FillFields(context.Background(), state, []string{"nickname"})
		if !errors.Is(err, form.ErrUnknownField) {
			t.Fatalf("expected ErrUnknownField, got %v", err)
		}
	})
}

func TestDateValidator(t *testing.T) {
	def := authforms.SignUp(authforms.WithClock(func() time.Time { return now }))
	field, _ := def.Schema.Field(authforms.FieldDateOfBirth)
	validate := dateValidator(field)

	cases := map[string]bool{
		"":           true,
		"1900-01-01": true,
		"2025-06-01": true,
		"1899-12-31": false,
		"2025-06-02": false,
		"17/05/1990": false,
	}
	for answer, ok := range cases {
		err := validate(answer)
		if ok && err != nil {
			t.Fatalf("%q: unexpected error %v", answer, err)
		}
		if !ok && err == nil {
			t.Fatalf("%q: expected rejection", answer)
		}
	}
}

func newSignInHandler(t *testing.T, baseURL string, out *bytes.Buffer, nav *Navigator) *submit.Handler {
	t.Helper()
	h, err := submit.New(authforms.SignIn(),
		submit.WithTransport(client.New(client.WithBaseURL(baseURL))),
		submit.WithStore(storage.NewMemory()),
		submit.WithNotifier(NewNotifier(out, DefaultTheme)),
		submit.WithNavigator(nav),
	)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return h
}

func TestRun_SignInSuccess(t *testing.T) {
	srv := testsupport.NewAuthServer(t).
		Reply(authforms.EndpointSignIn, http.StatusOK, map[string]any{"accessToken": "tok123"})

	var out bytes.Buffer
	nav := NewNavigator(&out, DefaultTheme)
	h := newSignInHandler(t, srv.URL, &out, nav)
	driver := &stubDriver{inputs: []string{"ab"}, passwords: []string{"abcdef"}}
	state := form.NewState(h.Definition().Schema)

	outcome, err := NewRunner(WithPromptDriver(driver)).Run(context.Background(), state, h)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome.Kind != submit.OutcomeSuccess {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if nav.Current() != routes.Home {
		t.Fatalf("expected navigation to %q, got %q", routes.Home, nav.Current())
	}
	if got, want := out.String(), "✔ Successfully log in\n-> /\n"; got != want {
		t.Fatalf("unexpected output %q, want %q", got, want)
	}
}

func TestRun_FailureRetry(t *testing.T) {
	srv := testsupport.NewAuthServer(t).
		Reply(authforms.EndpointSignIn, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})

	var out bytes.Buffer
	nav := NewNavigator(nil, DefaultTheme)
	h := newSignInHandler(t, srv.URL, &out, nav)
	driver := &stubDriver{
		inputs:    []string{"ab", "ab"},
		passwords: []string{"abcdef", "abcdefg"},
		confirm:   []bool{true, false},
	}
	state := form.NewState(h.Definition().Schema)

	outcome, err := NewRunner(WithPromptDriver(driver), WithRetryOnFailure(true)).Run(context.Background(), state, h)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome.Kind != submit.OutcomeFailure || outcome.Message != "Invalid credentials" {
		t.Fatalf("expected failure, got %+v", outcome)
	}
	if n := len(srv.Requests()); n != 2 {
		t.Fatalf("expected two attempts, got %d", n)
	}
	if got := strings.Count(out.String(), "✖ Invalid credentials\n"); got != 2 {
		t.Fatalf("expected two error lines, got %q", out.String())
	}
	if len(nav.History()) != 0 {
		t.Fatalf("expected no navigation, got %v", nav.History())
	}
}

func TestRun_FailureWithoutRetryStops(t *testing.T) {
	srv := testsupport.NewAuthServer(t).
		Reply(authforms.EndpointSignIn, http.StatusUnauthorized, map[string]any{
			"message": "Invalid credentials",
			"errors":  map[string][]string{"account": {"Account locked"}},
		})

	var out bytes.Buffer
	h := newSignInHandler(t, srv.URL, &out, NewNavigator(nil, DefaultTheme))
	driver := &stubDriver{inputs: []string{"ab"}, passwords: []string{"abcdef"}}
	state := form.NewState(h.Definition().Schema)

	outcome, err := NewRunner(WithPromptDriver(driver)).Run(context.Background(), state, h)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome.Kind != submit.OutcomeFailure {
		t.Fatalf("expected failure, got %+v", outcome)
	}
	if driver.confirmPos != 0 {
		t.Fatalf("retry prompt shown without WithRetryOnFailure")
	}
	if diff := cmp.Diff([]string{"✖ Account locked"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestFailingFields_SchemaOrder(t *testing.T) {
	schema := authforms.SignUp().Schema
	got := failingFields(schema, map[string]string{
		authforms.FieldDateOfBirth:     "x",
		authforms.FieldUsername:        "x",
		authforms.FieldConfirmPassword: "x",
	})
	want := []string{authforms.FieldUsername, authforms.FieldConfirmPassword, authforms.FieldDateOfBirth}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigator_UsesThemePrefix(t *testing.T) {
	var out bytes.Buffer
	nav := NewNavigator(&out, Theme{NavigatePrefix: "goto "})
	_ = nav.Navigate(context.Background(), routes.SignIn)
	_ = nav.Navigate(context.Background(), routes.Home)

	if got, want := out.String(), "goto /auth/signin\ngoto /\n"; got != want {
		t.Fatalf("unexpected output %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{routes.SignIn, routes.Home}, nav.History()); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
	if DefaultTheme.NavigatePrefix != "-> " {
		t.Fatalf("default navigation prefix must stay ASCII, got %q", DefaultTheme.NavigatePrefix)
	}
}
