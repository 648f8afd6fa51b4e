package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/pkg/authforms"
	"github.com/goliatone/go-authform/pkg/form"
	"github.com/goliatone/go-authform/pkg/renderers/tui"
	"github.com/goliatone/go-authform/pkg/submit"
)

type formFlags struct {
	retry bool
}

func signInCmd(flags *rootFlags) *cobra.Command {
	return formCmd(flags, "signin", "Sign in and store the access token", func() authforms.Definition {
		return authforms.SignIn()
	})
}

func signUpCmd(flags *rootFlags) *cobra.Command {
	return formCmd(flags, "signup", "Create an account", func() authforms.Definition {
		return authforms.SignUp()
	})
}

func loginCmd(flags *rootFlags) *cobra.Command {
	return formCmd(flags, "login", "Fill the legacy login form (nothing is sent)", func() authforms.Definition {
		return authforms.Login()
	})
}

func formCmd(flags *rootFlags, use, short string, define func() authforms.Definition) *cobra.Command {
	ff := &formFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close()
			return runForm(ctx, a, define(), ff)
		},
	}
	cmd.Flags().BoolVar(&ff.retry, "retry", true, "offer to try again after a rejected submission")
	return cmd
}

func runForm(ctx context.Context, a *app, def authforms.Definition, ff *formFlags) error {
	logger := a.logger.Named("form")
	out := a.out

	fmt.Fprintln(out, def.Title)

	opts := []submit.Option{
		submit.WithTransport(a.client),
		submit.WithStore(a.store),
		submit.WithNotifier(tui.NewNotifier(out, tui.DefaultTheme)),
		submit.WithNavigator(tui.NewNavigator(out, tui.DefaultTheme)),
		submit.WithLogger(logger),
		submit.WithMetrics(a.metrics),
	}
	if def.Local() {
		opts = append(opts, submit.WithLocalSink(printSink(out, def.Schema)))
	}
	h, err := submit.New(def, opts...)
	if err != nil {
		return err
	}

	runner := tui.NewRunner(
		tui.WithPromptDriver(tui.NewSurveyDriver(out)),
		tui.WithRetryOnFailure(ff.retry),
		tui.WithLogger(logger),
	)
	outcome, err := runner.Run(ctx, form.NewState(def.Schema), h)
	if errors.Is(err, tui.ErrAborted) {
		logger.Debug("aborted by user")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("form finished", zap.String("outcome", string(outcome.Kind)))
	if outcome.Kind != submit.OutcomeSuccess {
		return errSubmissionFailed
	}
	return nil
}

// printSink shows the submitted values of a local form with secrets masked.
func printSink(out io.Writer, schema *form.Schema) submit.LocalSink {
	return func(_ context.Context, values map[string]string) error {
		redacted := authforms.Redact(schema, values)
		for _, f := range schema.Fields() {
			if _, err := fmt.Fprintf(out, "%s: %s\n", f.Label, redacted[f.Name]); err != nil {
				return err
			}
		}
		return nil
	}
}
