package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newStatusCmd builds activate or deactivate. The title is every argument
// joined by single spaces, so quoting is optional.
func newStatusCmd(c *cli, name string, active bool) *cobra.Command {
	verb := "Activated"
	if !active {
		verb = "Deactivated"
	}
	return &cobra.Command{
		Use:   name + " <title>",
		Short: fmt.Sprintf("%s every form whose title matches exactly", strings.TrimSuffix(verb, "d")),
		Args:  userArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := c.attachStore(cmd.Context(), c.logger(cmd, false))
			if err != nil {
				return err
			}
			defer closeStore()

			updated, err := svc.SetActive(cmd.Context(), strings.Join(args, " "), active)
			if err != nil {
				return err
			}
			if c.flagJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{"updated": updated})
			}
			for _, id := range updated {
				fmt.Fprintln(cmd.OutOrStdout(), verb, id)
			}
			return nil
		},
	}
}
