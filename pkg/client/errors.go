package client

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// UnknownErrorMessage is shown for any failure that is not a structured server
// response. Raw transport errors never reach the user.
const UnknownErrorMessage = "An unknown error occurred. Please try again."

// ServerError is a non-2xx response carrying a decodable JSON body. Message is
// empty when the server did not provide one.
type ServerError struct {
	Status  int
	Message string
	Errors  map[string][]string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: server responded %d", e.Status)
	}
	return fmt.Sprintf("client: server responded %d: %s", e.Status, e.Message)
}

// TransportError covers requests that never produced a usable response:
// connection failures, undecodable bodies and contract violations.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("client: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage is the text to show for a TransportError.
func (e *TransportError) UserMessage() string {
	return UnknownErrorMessage
}

var (
	messagePolicy = bluemonday.StrictPolicy()
	// markupPattern matches a closing or self-closing element, which plain
	// messages such as "Username <admin> is reserved" never contain.
	markupPattern = regexp.MustCompile(`</[a-zA-Z][a-zA-Z0-9]*\s*>|<[a-zA-Z][a-zA-Z0-9]*(\s[^<>]*)?/>`)
)

// SanitizeMessage returns a server-provided message as sent. Messages carrying
// HTML elements are reduced to their text.
func SanitizeMessage(msg string) string {
	if !markupPattern.MatchString(msg) {
		return strings.TrimSpace(msg)
	}
	clean := messagePolicy.Sanitize(msg)
	return strings.TrimSpace(html.UnescapeString(clean))
}
