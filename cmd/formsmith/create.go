package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/formsmith/pkg/types"
)

func newCreateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "create <schema.json>",
		Short: "Provision storage for a form schema",
		Long: `Create reads a schema document, provisions its storage and prints the
form identifier. New forms are live. "-" reads the schema from stdin.

Example:
  formsmith create feedback.json`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			schema, err := types.ParseSchema(data)
			if err != nil {
				return err
			}

			svc, closeStore, err := c.attachStore(cmd.Context(), c.logger(cmd, false))
			if err != nil {
				return err
			}
			defer closeStore()

			identifier, err := svc.CreateSchema(cmd.Context(), *schema)
			if err != nil {
				return err
			}
			if c.flagJSON {
				return printJSON(cmd.OutOrStdout(), map[string]string{"identifier": identifier})
			}
			fmt.Fprintln(cmd.OutOrStdout(), identifier)
			return nil
		},
	}
}
