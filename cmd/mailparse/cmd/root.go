package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zostay/go-mailparse/internal/config"
	"github.com/zostay/go-mailparse/message"
)

// app holds the global flags and the state built from them before any
// subcommand runs.
type app struct {
	configFile   string
	maxDepth     int
	decodeQP     bool
	lenientDates bool
	verbose      bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the mailparse command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "mailparse",
		Short:             "Take email messages apart",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML configuration file")
	flags.IntVar(&a.maxDepth, "max-depth", message.DefaultMaxMultipartDepth, "deepest multipart nesting to split (negative for no limit)")
	flags.BoolVar(&a.decodeQP, "decode-qp", false, "decode quoted-printable part content")
	flags.BoolVar(&a.lenientDates, "lenient-dates", false, "accept any recognizable Date format")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log recovered malformations to stderr")

	rootCmd.AddCommand(
		a.dumpCmd(),
		a.partsCmd(),
		a.headersCmd(),
		a.extractCmd(),
	)

	return rootCmd
}

// Execute runs the mailparse command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads the configuration, applies the flags given on the command line
// over it, and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.configFile != "" {
		a.cfg, err = config.LoadFromFile(a.configFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		a.cfg.Parser.MaxDepth = a.maxDepth
	}
	if flags.Changed("decode-qp") {
		a.cfg.Parser.DecodeQuotedPrintable = a.decodeQP
	}
	if flags.Changed("lenient-dates") {
		a.cfg.Parser.LenientDates = a.lenientDates
	}
	if a.verbose {
		a.cfg.Logging.Level = "debug"
	}

	a.logger, err = a.cfg.Logger()
	return err
}

// load parses the message named by the first argument, or standard input when
// there is no argument or it is "-".
func (a *app) load(cmd *cobra.Command, args []string) (*message.Message, error) {
	opts := a.cfg.ParseOptions(a.logger)

	if len(args) == 0 || args[0] == "-" {
		m, err := message.ParseReader(cmd.InOrStdin(), opts...)
		if err != nil {
			return nil, fmt.Errorf("unable to read message from stdin: %w", err)
		}
		return m, nil
	}

	m, err := message.ParseFile(args[0], opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to read message: %w", err)
	}

	a.logger.Debug("parsed message",
		zap.String("path", args[0]),
		zap.Int("size", m.Size()),
		zap.Int("parts", len(m.Parts())))

	return m, nil
}
