package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/formsmith/internal/forms"
	"github.com/mesh-intelligence/formsmith/internal/sqlstore"
)

const logPrefix = "[formsmith] "

// logger writes to stderr when verbose or when always is set; otherwise it
// discards.
func (c *cli) logger(cmd *cobra.Command, always bool) *log.Logger {
	if !always && !c.flagVerbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), logPrefix, log.LstdFlags)
}

// attachStore resolves the data directory, opens the configured store and
// returns a form service over it. The caller must call the returned close
// function.
func (c *cli) attachStore(ctx context.Context, logger *log.Logger) (*forms.Service, func() error, error) {
	dataDir, err := c.resolveDataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := storeConfig(c.cfg, dataDir)
	if err := cfg.Validate(); err != nil {
		return nil, nil, userErrorf("config %s: %w", c.configDir, err)
	}

	store, err := sqlstore.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("attach store: %w", err)
	}

	svc := forms.New(store,
		forms.WithLogger(logger),
		forms.WithConcurrency(cfg.GetConcurrency()),
	)
	return svc, store.Close, nil
}

// readInput returns the contents of path, or of stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, userErrorf("read %s: %w", path, err)
		}
		return nil, err
	}
	return data, nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	return enc.Close()
}

// output writes v as JSON with --json and as YAML otherwise.
func (c *cli) output(cmd *cobra.Command, v any) error {
	if c.flagJSON {
		return printJSON(cmd.OutOrStdout(), v)
	}
	return printYAML(cmd.OutOrStdout(), v)
}
