package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-authform/pkg/contract"
	"github.com/goliatone/go-authform/pkg/routes"
)

func reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <blogID> <reviewID>",
		Short: "Show the review detail placeholder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, routes.ReviewPath(args[0], args[1]))
			fmt.Fprintln(out, routes.ReviewHeading(args[0], args[1]))
			return nil
		},
	}
}

func contractCmd() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "contract",
		Short: "List the API operations the forms are checked against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if dump {
				_, err := out.Write(contract.Document())
				return err
			}
			v, err := contract.New(cmd.Context())
			if err != nil {
				return err
			}
			for _, op := range v.Operations() {
				fmt.Fprintln(out, op)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "print the embedded OpenAPI document")
	return cmd
}
