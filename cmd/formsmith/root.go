package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/formsmith/internal/paths"
)

// cli holds global flag values and the loaded configuration for one run.
type cli struct {
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool

	configDir string
	cfg       *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "formsmith",
		Short:         "formsmith provisions forms and stores their responses",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			configDir, err := c.resolveConfigDir()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configDir)
			if err != nil {
				return err
			}
			c.configDir, c.cfg = configDir, cfg
			return nil
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&c.flagConfigDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/formsmith)")
	flags.StringVar(&c.flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.formsmith-db)")
	flags.BoolVar(&c.flagJSON, "json", false, "output as JSON")
	flags.BoolVarP(&c.flagVerbose, "verbose", "v", false, "log storage activity to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(c),
		newCreateCmd(c),
		newListCmd(c),
		newStatusCmd(c, "activate", true),
		newStatusCmd(c, "deactivate", false),
		newShowCmd(c),
		newSubmitCmd(c),
		newResponsesCmd(c),
		newServeCmd(c),
	)
	return root
}

// resolveDataDir returns the data directory:
// --data-dir flag > config.yaml data_dir > FORMSMITH_DATA_DIR env > $(CWD)/.formsmith-db.
func (c *cli) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(c.flagDataDir, c.cfg.GetString(cfgKeyDataDir))
}

// resolveConfigDir returns the configuration directory:
// --config-dir flag > FORMSMITH_CONFIG_DIR env > DefaultConfigDir().
func (c *cli) resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(c.flagConfigDir)
}

// exactArgs wraps cobra.ExactArgs so a wrong argument count exits as a
// user error.
func exactArgs(n int) cobra.PositionalArgs {
	return userArgs(cobra.ExactArgs(n))
}

func userArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}
