package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) partsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parts [message]",
		Short: "List the leaf parts of the message",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.parts,
	}
}

func (a *app) parts(cmd *cobra.Command, args []string) error {
	m, err := a.load(cmd, args)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tTYPE\tSIZE\tDISPOSITION\tFILENAME")
	for i, p := range m.Parts() {
		mt := p.MediaType()
		if mt == "" {
			mt = "-"
		}

		disp := "inline"
		if p.IsAttachment() {
			disp = "attachment"
		}

		fn := p.Filename()
		if fn == "" {
			fn = "-"
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", i, mt, p.Size(), disp, fn)
	}

	return tw.Flush()
}
