// Command pretune generates constructors, property change notification and
// structural equality for annotated Go types.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ioklo/Pretune/internal/cli"
	"github.com/ioklo/Pretune/internal/errors"
	"github.com/ioklo/Pretune/internal/logging"
	"github.com/ioklo/Pretune/internal/pipeline"
)

// Flags are parsed by cli.ParseArgs after response files are expanded, so
// cobra only dispatches.
var rootCmd = &cobra.Command{
	Use:   cli.Usage,
	Short: "Generate Go source for annotated types",
	Long: `pretune reads Go source files, finds types carrying pretune markers and
writes a generated companion file for each input that needs one.

Markers:
  _ pretune.AutoConstructor               constructor taking every member
  pretune.ImplementNotifyPropertyChanged  accessors raising change events
  _ pretune.ImplementEquatable            Equal, EqualAny and Hash

Examples:
  pretune . model/person.go model/order.go
  pretune @pretune.rsp
  pretune watch -C ./model`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.ParseArgs(args)
		if err != nil {
			return err
		}
		if cfg.ShowVersion {
			fmt.Fprintln(cmd.OutOrStdout(), cli.Version)
			return nil
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		_, err = newRunner(cfg, logger).Run(cfg)
		return err
	},
}

var watchCmd = &cobra.Command{
	Use:                "watch [flags] <generated-dir> <input.go>...",
	Short:              "Regenerate whenever an input or the config file changes",
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.ParseArgs(args)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		load := func() (*cli.Config, error) { return cli.ParseArgs(args) }
		watcher := cli.NewWatcher(newRunner(cfg, logger), load, logger)
		logger.Infow("watching", "dir", cfg.Dir)
		return watcher.Watch(ctx)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the pretune version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), cli.Version)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger(cfg *cli.Config) (*zap.SugaredLogger, error) {
	logger, err := logging.New(logging.Options{JSON: cfg.JSONLog, Verbose: cfg.Verbose})
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}
	return logger, nil
}

func newRunner(cfg *cli.Config, logger *zap.SugaredLogger) cli.Runner {
	processor := pipeline.New(pipeline.NewOSProvider(cfg.Dir), pipeline.WithLogger(logger))
	return cli.NewRunner(processor, logger)
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}

	fmt.Fprintf(os.Stderr, "pretune: %v\n", err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
	}
	os.Exit(1)
}
