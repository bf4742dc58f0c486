package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) extractCmd() *cobra.Command {
	var dir string

	extractCmd := &cobra.Command{
		Use:   "extract [message]",
		Short: "Write the decoded attachments of the message to a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("dir") {
				a.cfg.Output.Dir = dir
			}
			return a.extract(cmd, args)
		},
	}

	extractCmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write attachments to")

	return extractCmd
}

// attachmentName picks a safe file name for the n-th attachment. Directory
// parts of the name given in the message are dropped.
func attachmentName(filename string, n int) string {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." {
		return fmt.Sprintf("part-%d.bin", n)
	}
	return name
}

func (a *app) extract(cmd *cobra.Command, args []string) error {
	m, err := a.load(cmd, args)
	if err != nil {
		return err
	}

	dir := a.cfg.Output.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	out := cmd.OutOrStdout()
	for i, p := range m.Attachments() {
		path := filepath.Join(dir, attachmentName(p.Filename(), i+1))
		content := p.Content()
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("unable to write attachment: %w", err)
		}

		a.logger.Info("extracted attachment",
			zap.String("path", path),
			zap.String("content_type", p.MediaType()),
			zap.Int("size", len(content)))

		_, _ = fmt.Fprintln(out, path)
	}

	return nil
}
