package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/pkg/routes"
	"github.com/goliatone/go-authform/pkg/session"
)

func statusCmd(flags *rootFlags) *cobra.Command {
	var probe string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a sign-in credential is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			mgr := session.New(a.store)
			if !mgr.LoggedIn() {
				fmt.Fprintf(a.out, "Not logged in. Run \"authform signin\" (%s).\n", routes.SignIn)
				return nil
			}
			fmt.Fprintln(a.out, "Logged in")
			if probe == "" {
				return nil
			}

			hc, err := mgr.Client(ctx)
			if err != nil {
				return err
			}
			url := a.cfg.BaseURL + "/" + strings.TrimLeft(probe, "/")
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := hc.Do(req)
			if err != nil {
				return fmt.Errorf("probe %s: %w", url, err)
			}
			defer resp.Body.Close()
			a.logger.Debug("probe response", zap.String("url", url), zap.Int("status", resp.StatusCode))
			fmt.Fprintf(a.out, "GET %s: %s\n", url, resp.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&probe, "probe", "", "API path to GET with the stored credential")
	return cmd
}

func logoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			mgr := session.New(a.store)
			if _, err := mgr.AccessToken(); errors.Is(err, session.ErrNotLoggedIn) {
				fmt.Fprintln(a.out, "Not logged in")
				return nil
			}
			if err := mgr.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}
