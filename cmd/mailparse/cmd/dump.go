package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zostay/go-mailparse/internal/config"
)

func (a *app) dumpCmd() *cobra.Command {
	var format string

	dumpCmd := &cobra.Command{
		Use:   "dump [message]",
		Short: "Print the message and its parts as JSON or YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				a.cfg.Output.Format = format
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			return a.dump(cmd, args)
		},
	}

	dumpCmd.Flags().StringVarP(&format, "format", "f", config.FormatJSON, "output format: json or yaml")

	return dumpCmd
}

func (a *app) dump(cmd *cobra.Command, args []string) error {
	m, err := a.load(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rec := m.Record()

	switch a.cfg.Output.Format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("unable to write YAML: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("unable to write JSON: %w", err)
		}
		return nil
	}
}
