package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/mathdoc/internal/config"
	"github.com/iw2rmb/mathdoc/internal/logging"
)

// env is the state every subcommand shares, built once the flags are
// parsed.
type env struct {
	cfg    config.Config
	logger *logging.Logger
	log    *slog.Logger
}

type rootFlags struct {
	configPath string
	logLevel   string
	quiet      bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	e := &env{}

	root := &cobra.Command{
		Use:           "mathdoc",
		Short:         "Edit and check rich-text question files with embedded formulas",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd, flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.logger != nil {
				return e.logger.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "Discard log output")

	root.AddCommand(
		newEditCmd(e),
		newRenderCmd(e),
		newCheckCmd(e),
		newFmtCmd(e),
		newVersionCmd(),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	lc := cfg.Logging()
	lc.Quiet = flags.quiet
	lc.Stderr = cmd.ErrOrStderr()
	// Full-screen editing owns the terminal; without a log file it logs
	// nowhere.
	if cmd.Name() == "edit" && lc.File == "" {
		lc.Quiet = true
	}
	logger, err := logging.New(lc)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.logger = logger
	e.log = logger.Slog().With("command", cmd.Name())
	return nil
}
