// Package config loads the settings of the mailparse command from an optional
// YAML file and MAILPARSE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/zostay/go-mailparse/message"
)

// Output formats understood by the dump command.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Errors returned by Validate.
var (
	ErrBadFormat   = errors.New("unknown output format")
	ErrBadLogLevel = errors.New("unknown log level")
)

// Config holds the complete command configuration.
type Config struct {
	Parser  ParserConfig  `yaml:"parser"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParserConfig holds the options handed to message.Parse.
type ParserConfig struct {
	MaxDepth              int  `yaml:"max_depth"`
	DecodeQuotedPrintable bool `yaml:"decode_quoted_printable"`
	LenientDates          bool `yaml:"lenient_dates"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Format string `yaml:"format"`
	Dir    string `yaml:"dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load returns the defaults overridden by environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, cfg.Validate()
}

// LoadFromFile loads configuration from a YAML file on top of the defaults,
// then overrides it with environment variables.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvVars()

	return cfg, cfg.Validate()
}

// Validate checks the values that have a fixed set of choices.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: %q", ErrBadFormat, c.Output.Format)
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrBadLogLevel, c.Logging.Level)
	}

	return nil
}

// ParseOptions turns the parser settings into options for message.Parse. The
// logger is passed along to the parser.
func (c *Config) ParseOptions(logger *zap.Logger) []message.ParseOption {
	opts := []message.ParseOption{
		message.WithMaxDepth(c.Parser.MaxDepth),
		message.WithLogger(logger),
	}

	if c.Parser.DecodeQuotedPrintable {
		opts = append(opts, message.DecodeQuotedPrintable())
	}

	if c.Parser.LenientDates {
		opts = append(opts, message.WithLenientDates())
	}

	return opts
}

// Logger builds the JSON logger of the command, writing to stderr at the
// configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadLogLevel, c.Logging.Level)
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Sampling = nil
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}

func (c *Config) applyDefaults() {
	c.Parser.MaxDepth = message.DefaultMaxMultipartDepth
	c.Output.Format = FormatJSON
	c.Output.Dir = "."
	c.Logging.Level = "warn"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values. Values that
// do not parse are ignored.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("MAILPARSE_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Parser.MaxDepth = n
		}
	}
	if v := os.Getenv("MAILPARSE_DECODE_QP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Parser.DecodeQuotedPrintable = b
		}
	}
	if v := os.Getenv("MAILPARSE_LENIENT_DATES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Parser.LenientDates = b
		}
	}

	if v := os.Getenv("MAILPARSE_FORMAT"); v != "" {
		c.Output.Format = strings.ToLower(v)
	}
	if v := os.Getenv("MAILPARSE_DIR"); v != "" {
		c.Output.Dir = v
	}

	if v := os.Getenv("MAILPARSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}
