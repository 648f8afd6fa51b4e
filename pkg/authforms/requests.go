package authforms

import (
	"fmt"

	"github.com/goliatone/go-authform/pkg/form"
)

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUpRequest is the body of POST /auth/signup. DateOfBirth uses
// form.DateLayout.
type SignUpRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	DateOfBirth     string `json:"dateOfBirth"`
}

// NewRequest serializes a state snapshot into the request body the
// definition's endpoint expects.
func NewRequest(def Definition, state *form.State) (any, error) {
	snap := state.Snapshot()
	switch def.Endpoint {
	case EndpointSignIn:
		return SignInRequest{
			Username: snap[FieldUsername],
			Password: snap[FieldPassword],
		}, nil
	case EndpointSignUp:
		return SignUpRequest{
			Username:        snap[FieldUsername],
			Email:           snap[FieldEmail],
			Password:        snap[FieldPassword],
			ConfirmPassword: snap[FieldConfirmPassword],
			DateOfBirth:     snap[FieldDateOfBirth],
		}, nil
	case "":
		return snap, nil
	default:
		return nil, fmt.Errorf("authforms: no request shape for endpoint %q", def.Endpoint)
	}
}

// Redact returns a copy of a snapshot with secret fields masked, suitable for
// logging.
func Redact(schema *form.Schema, snapshot map[string]string) map[string]string {
	out := make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		if f, ok := schema.Field(k); ok && f.Secret() && v != "" {
			out[k] = "[redacted]"
			continue
		}
		out[k] = v
	}
	return out
}
