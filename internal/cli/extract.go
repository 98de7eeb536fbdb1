package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mvp-joe/classmeta/internal/config"
	"github.com/mvp-joe/classmeta/internal/extract"
	"github.com/mvp-joe/classmeta/internal/logging"
)

// extractFlags holds the extract command's flag values.
type extractFlags struct {
	filters   []string
	output    string
	format    string
	indent    int
	workers   int
	nonStrict bool
	watch     bool
	quiet     bool
}

// newExtractCmd creates the extract command with its own flag set.
func newExtractCmd() *cobra.Command {
	opts := &extractFlags{}
	cmd := &cobra.Command{
		Use:   "extract [paths...]",
		Short: "Extract type metadata into a JSON document",
		Long: `Extract parses the given files and directories and writes one document
listing every record type found, with the type and qualified name of each
data member. Directories are searched with the configured include and ignore
globs; files named explicitly are always analyzed.

Examples:
  # Extract from the current directory to stdout
  classmeta extract

  # Only types whose qualified name contains "ns::"
  classmeta extract src --filter ns:: -o types.json

  # Regenerate types.json whenever a source file changes
  classmeta extract src -o types.json --watch
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runExtract(ctx, cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.filters, "filter", nil, "Only record types whose qualified name contains this text (repeatable)")
	flags.StringVarP(&opts.output, "output", "o", "", `Output file ("-" for stdout)`)
	flags.StringVar(&opts.format, "format", "", "Document format: json or yaml")
	flags.IntVar(&opts.indent, "indent", 0, "Spaces per nesting level (yaml: 2 to 9)")
	flags.IntVar(&opts.workers, "workers", 0, "Parallel parsers (0 = number of CPUs)")
	flags.BoolVar(&opts.nonStrict, "non-strict", false, "Warn about syntax errors instead of failing")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Watch for file changes and regenerate the document")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Disable progress bars and non-error output")

	return cmd
}

func init() {
	rootCmd.AddCommand(newExtractCmd())
}

func runExtract(ctx context.Context, cmd *cobra.Command, opts *extractFlags, args []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	logger := logging.New(stderr, verbose, opts.quiet)
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := opts.apply(cmd, cfg); err != nil {
		return err
	}

	extractor, err := extract.New(cfg, args,
		extract.WithLogger(logger),
		extract.WithProgress(NewCLIProgressReporter(stderr, opts.quiet)),
		extract.WithStdout(stdout),
	)
	if err != nil {
		return err
	}
	defer extractor.Close()

	if opts.watch {
		return extractor.Watch(ctx)
	}

	db, err := extractor.Emit(ctx)
	if err != nil {
		return err
	}
	logger.Debug("extraction finished", zap.Int("types", db.Len()))
	return nil
}

// loadConfig reads the --config file when given, otherwise the project
// configuration of the working directory.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.NewFileLoader(cfgFile).Load()
	}
	rootDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.LoadConfigFromDir(rootDir)
}

// apply overrides cfg with every flag set on the command line and validates
// the result.
func (opts *extractFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("filter") {
		cfg.Filter.Patterns = opts.filters
	}
	if flags.Changed("output") {
		cfg.Output.Destination = opts.output
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("indent") {
		cfg.Output.Indent = opts.indent
	}
	if flags.Changed("workers") {
		cfg.Analysis.Workers = opts.workers
	}
	if flags.Changed("non-strict") {
		cfg.Analysis.Strict = !opts.nonStrict
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
