package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goliatone/go-authform/pkg/submit"
)

// Notifier prints submission notifications as themed lines.
type Notifier struct {
	out   io.Writer
	theme Theme
}

// NewNotifier writes to out, or stdout when out is nil.
func NewNotifier(out io.Writer, theme Theme) *Notifier {
	if out == nil {
		out = os.Stdout
	}
	return &Notifier{out: out, theme: theme}
}

// Notify implements submit.Notifier.
func (n *Notifier) Notify(_ context.Context, note submit.Notification) error {
	prefix := n.theme.InfoPrefix
	switch note.Level {
	case submit.LevelSuccess:
		prefix = n.theme.SuccessPrefix
	case submit.LevelError:
		prefix = n.theme.ErrorPrefix
	}
	_, err := fmt.Fprintln(n.out, prefix+note.Message)
	return err
}

// Navigator records the current route of the terminal session.
type Navigator struct {
	mu      sync.Mutex
	out     io.Writer
	prefix  string
	history []string
}

// NewNavigator prints each navigation to out behind theme.NavigatePrefix; a
// nil out only records.
func NewNavigator(out io.Writer, theme Theme) *Navigator {
	return &Navigator{out: out, prefix: theme.NavigatePrefix}
}

// Navigate implements submit.Navigator.
func (n *Navigator) Navigate(_ context.Context, route string) error {
	n.mu.Lock()
	n.history = append(n.history, route)
	n.mu.Unlock()

	if n.out == nil {
		return nil
	}
	_, err := fmt.Fprintln(n.out, n.prefix+route)
	return err
}

// Current returns the last route navigated to, or "".
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) == 0 {
		return ""
	}
	return n.history[len(n.history)-1]
}

// History returns every route navigated to, oldest first.
func (n *Navigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}
