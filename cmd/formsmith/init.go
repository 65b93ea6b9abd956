package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize formsmith configuration and storage",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			// PersistentPreRunE has already written the default config.yaml.
			svc, closeStore, err := c.attachStore(cmd.Context(), c.logger(cmd, false))
			if err != nil {
				return err
			}
			defer closeStore()

			if err := svc.Ping(cmd.Context()); err != nil {
				return err
			}

			dataDir, err := c.resolveDataDir()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "formsmith initialized successfully")
			fmt.Fprintln(out, "  config:", c.configDir)
			fmt.Fprintln(out, "  backend:", storeConfig(c.cfg, dataDir).Backend)
			fmt.Fprintln(out, "  data:   ", dataDir)
			return nil
		},
	}
}
