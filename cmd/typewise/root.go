package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/amp-labs/typewise/codec"
	"github.com/amp-labs/typewise/config"
	"github.com/amp-labs/typewise/logger"
	"github.com/amp-labs/typewise/typewise"
	"github.com/spf13/cobra"
)

const appName = "typewise"

// rootOptions holds the global flags and the state every subcommand shares once
// PersistentPreRunE has run.
type rootOptions struct {
	configPath string
	input      string
	collation  string

	cfg config.Config
	cmp *typewise.Comparator
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Order heterogeneous values under one total order",
		Long: `Sort, classify and compare JSON or YAML values of mixed types.

Values order first by category (absent, null, boolean, numeric, temporal, binary,
textual, sequence, keyed-map, pattern, callable) and then by content. Objects with a
single "$" key carry the categories plain JSON lacks, such as {"$date": "..."}.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.StringVar(&opts.input, "input", "", "input format (json|yaml), default from the file extension")
	flags.StringVar(&opts.collation, "collation", "", "string collation, overrides the config")

	cmd.AddCommand(newSortCommand(opts))
	cmd.AddCommand(newClassifyCommand(opts))
	cmd.AddCommand(newCompareCommand(opts))

	return cmd
}

// setup loads the config, applies the global overrides and installs a logger on the
// command context.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return usageError("%w", err)
	}

	if cmd.Flags().Changed("collation") {
		cfg.Collation = o.collation

		if err := cfg.Validate(); err != nil {
			return usageError("%w", err)
		}
	}

	logOpts, err := cfg.LoggerOptions(appName, cmd.ErrOrStderr())
	if err != nil {
		return usageError("%w", err)
	}

	cmp, err := cfg.Comparator()
	if err != nil {
		return usageError("%w", err)
	}

	o.cfg = cfg
	o.cmp = cmp

	ctx := logger.WithLogger(cmd.Context(), slog.New(logger.NewHandler(logOpts)))
	cmd.SetContext(logger.WithSubsystem(ctx, cmd.Name()))

	return nil
}

// format resolves --input, falling back to the extension of path and then to JSON.
func (o *rootOptions) format(path string) (codec.Format, error) {
	if o.input != "" {
		f, err := codec.ParseFormat(o.input)
		if err != nil {
			return "", usageError("%w", err)
		}

		return f, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return codec.YAML, nil
	default:
		return codec.JSON, nil
	}
}

// readValues decodes the sequence in the named file, or stdin when no file or "-" is given.
func (o *rootOptions) readValues(cmd *cobra.Command, args []string) ([]any, error) {
	var (
		path string
		data []byte
		err  error
	)

	if len(args) > 0 && args[0] != "-" {
		path = args[0]
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}

	if err != nil {
		return nil, usageError("reading input: %w", err)
	}

	format, err := o.format(path)
	if err != nil {
		return nil, err
	}

	values, err := codec.DecodeValues(format, data)
	if err != nil {
		return nil, usageError("%w", err)
	}

	logger.Get(cmd.Context()).Debug("decoded input",
		"file", path, "format", string(format), "values", len(values))

	return values, nil
}

func write(cmd *cobra.Command, data []byte) error {
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
