package main

import (
	"github.com/spf13/cobra"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <identifier>",
		Short: "Show a live form",
		Long: `Show prints the fields a client would draw for the form, as YAML. With
--json it prints the stored schema document instead.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.attachStore(cmd.Context(), c.logger(cmd, false))
			if err != nil {
				return err
			}
			defer closeStore()

			if c.flagJSON {
				schema, err := svc.GetSchema(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), schema)
			}
			view, err := svc.Render(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), view)
		},
	}
}
