package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResponsesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "responses [identifier]",
		Short: "List response tables, or the responses of one form",
		Args:  userArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.attachStore(cmd.Context(), c.logger(cmd, false))
			if err != nil {
				return err
			}
			defer closeStore()

			if len(args) == 0 {
				tables, err := svc.ResponseTables(cmd.Context())
				if err != nil {
					return err
				}
				if c.flagJSON {
					return printJSON(cmd.OutOrStdout(), tables)
				}
				for _, t := range tables {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			}

			records, err := svc.Responses(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.output(cmd, records)
		},
	}
}
