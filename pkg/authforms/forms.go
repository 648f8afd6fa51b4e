// Package authforms defines the account forms (sign-in, sign-up and the legacy
// login variant) and the request bodies they serialize into.
package authforms

import (
	"time"

	"github.com/goliatone/go-authform/pkg/form"
	"github.com/goliatone/go-authform/pkg/routes"
)

const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldDateOfBirth     = "dateOfBirth"
)

const (
	EndpointSignIn = "/auth/signin"
	EndpointSignUp = "/auth/signup"
)

// Definition bundles a schema with what happens when the form is submitted.
// An empty Endpoint marks a form that is handled locally without a network
// call.
type Definition struct {
	Name              string
	Title             string
	Schema            *form.Schema
	Endpoint          string
	SuccessMessage    string
	FailureMessage    string
	Destination       string
	PersistCredential bool
}

// Local reports whether the form is handled without contacting the API.
func (d Definition) Local() bool {
	return d.Endpoint == ""
}

// EarliestBirthDate is the first selectable date of birth.
var EarliestBirthDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

type config struct {
	now func() time.Time
}

// Option configures form definitions.
type Option func(*config)

// WithClock overrides the clock bounding the date of birth picker.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func usernameField() form.Field {
	return form.Field{
		Name:        FieldUsername,
		Type:        form.FieldTypeText,
		Label:       "Username",
		Placeholder: "Enter your username",
		Rules: []form.Rule{
			form.MinLength(2, "Username must be at least 2 characters."),
			form.MaxLength(50, "Username must be max 50 characters."),
		},
	}
}

func passwordField() form.Field {
	return form.Field{
		Name:        FieldPassword,
		Type:        form.FieldTypeSecret,
		Label:       "Password",
		Placeholder: "Enter your password",
		Rules: []form.Rule{
			form.MinLength(6, "Password must be at least 6 characters."),
			form.MaxLength(15, "Password must be max 15 characters."),
		},
	}
}

// SignIn defines the sign-in form.
func SignIn() Definition {
	return Definition{
		Name:              "signin",
		Title:             "SignIn",
		Schema:            form.MustSchema("signin", []form.Field{usernameField(), passwordField()}),
		Endpoint:          EndpointSignIn,
		SuccessMessage:    "Successfully log in",
		FailureMessage:    "Sign in failed. Try again.",
		Destination:       routes.Home,
		PersistCredential: true,
	}
}

// SignUp defines the account creation form.
func SignUp(opts ...Option) Definition {
	return Definition{
		Name:           "signup",
		Title:          "SignUp",
		Schema:         registrationSchema("signup", newConfig(opts)),
		Endpoint:       EndpointSignUp,
		SuccessMessage: "Successfully created account",
		FailureMessage: "Sign up failed. Try again.",
		Destination:    routes.SignIn,
	}
}

// Login defines the legacy login page. It shares the registration schema but
// never leaves the client.
func Login(opts ...Option) Definition {
	return Definition{
		Name:   "login",
		Title:  "LOGIN",
		Schema: registrationSchema("login", newConfig(opts)),
	}
}

func registrationSchema(name string, cfg config) *form.Schema {
	fields := []form.Field{
		usernameField(),
		{
			Name:        FieldEmail,
			Type:        form.FieldTypeEmail,
			Label:       "Email",
			Placeholder: "Enter your email",
			Rules:       []form.Rule{form.Email("Please enter a valid email address.")},
		},
		passwordField(),
		{
			Name:        FieldConfirmPassword,
			Type:        form.FieldTypeSecret,
			Label:       "Confirm Password",
			Placeholder: "Enter your Confirm password",
		},
		{
			Name:        FieldDateOfBirth,
			Type:        form.FieldTypeDate,
			Label:       "Date of birth",
			Placeholder: "Pick a date",
			Rules:       []form.Rule{form.Required("A date of birth is required.")},
			Dates: &form.DateRange{
				Min: EarliestBirthDate,
				Now: cfg.now,
			},
		},
	}
	return form.MustSchema(name, fields,
		form.Equal(FieldPassword, FieldConfirmPassword, "Passwords do not match"),
	)
}
