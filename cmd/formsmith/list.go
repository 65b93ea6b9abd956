package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List provisioned forms and their activation state",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.attachStore(cmd.Context(), c.logger(cmd, false))
			if err != nil {
				return err
			}
			defer closeStore()

			entries, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if c.flagJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "IDENTIFIER\tTITLE\tACTIVE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", e.Identifier, e.Title, e.IsActive)
			}
			return tw.Flush()
		},
	}
}
