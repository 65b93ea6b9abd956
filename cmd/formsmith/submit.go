package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSubmitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <identifier> <json>",
		Short: "Record a response to a live form",
		Long: `Submit validates a JSON object of answers against the form and stores it.
The answers argument is a JSON object literal, @file to read a file, or "-"
for stdin.

Example:
  formsmith submit Feedback_Form '{"Name": "Ada", "Rating": 9}'`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := answersInput(cmd, args[1])
			if err != nil {
				return err
			}
			raw, err := decodeAnswers(data)
			if err != nil {
				return err
			}

			svc, closeStore, err := c.attachStore(cmd.Context(), c.logger(cmd, false))
			if err != nil {
				return err
			}
			defer closeStore()

			id, err := svc.Submit(cmd.Context(), args[0], raw)
			if err != nil {
				return err
			}
			if c.flagJSON {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"insertedId": id})
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func answersInput(cmd *cobra.Command, arg string) ([]byte, error) {
	switch {
	case arg == "-":
		return readInput(cmd, arg)
	case strings.HasPrefix(arg, "@"):
		return readInput(cmd, strings.TrimPrefix(arg, "@"))
	default:
		return []byte(arg), nil
	}
}

// decodeAnswers parses a JSON object, keeping numbers as written.
func decodeAnswers(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, userErrorf("answers must be a JSON object")
	}
	return raw, nil
}
