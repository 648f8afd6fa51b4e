package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errSubmissionFailed ends the process with a non-zero status after the
// failure has already been shown to the user.
var errSubmissionFailed = errors.New("submission failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errSubmissionFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "authform",
		Short: "Sign in to or create an account from the terminal",
		Long: `authform prompts the account forms (sign in, sign up and the legacy
login page), validates every answer and submits them to the
authentication API. A successful sign in stores the access token
for later commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "authform.yaml", "configuration file")
	pf.StringVar(&flags.baseURL, "base-url", "", "API origin, overrides base_url")
	pf.StringVar(&flags.storePath, "store", "", "credential store path, overrides store_path")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level, overrides log_level")
	pf.BoolVar(&flags.metrics, "metrics", false, "print submission counters on exit")

	rootCmd.AddCommand(
		signInCmd(flags),
		signUpCmd(flags),
		loginCmd(flags),
		statusCmd(flags),
		logoutCmd(flags),
		reviewCmd(),
		contractCmd(),
	)
	return rootCmd
}
