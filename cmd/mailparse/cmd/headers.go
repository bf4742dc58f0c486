package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) headersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "headers [message]",
		Short: "Print the decoded envelope header in wire order",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.headers,
	}
}

func (a *app) headers(cmd *cobra.Command, args []string) error {
	m, err := a.load(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range m.Fields() {
		if _, err := fmt.Fprintln(out, f.String()); err != nil {
			return err
		}
	}

	return nil
}
