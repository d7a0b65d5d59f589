package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iquod/wod"
	"github.com/iquod/wod/internal/config"
	"github.com/iquod/wod/internal/logging"
)

// app is the state shared by every subcommand.
type app struct {
	configFile string
	logLevel   string
	workers    int

	cfg    config.Config
	log    *logrus.Logger
	closer io.Closer

	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "wodcat",
		Short: "Inspect and convert World Ocean Database cast files.",
		Long: `wodcat reads WOD ASCII cast files in the classic and IQuOD dialects.
Input files may be gzip, zstd, S2 or LZ4 compressed; "-" reads standard input.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.startup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "configuration file (.yaml, .yml or .toml)")
	pf.StringVar(&a.logLevel, "log-level", "", "override the configured log level")
	pf.IntVar(&a.workers, "workers", 0, "number of decode workers (default from config)")

	root.AddCommand(
		newDumpCmd(a),
		newIndexCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newConvertCmd(a),
		newGenCmd(a),
		newVersionCmd(a),
	)

	return root
}

// startup reads the configuration file and sets up logging.
func (a *app) startup() error {
	cfg := config.Default()
	if a.configFile != "" {
		var err error
		if cfg, err = config.Load(a.configFile); err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.Logs.Level = a.logLevel
	}
	if a.workers > 0 {
		cfg.Workers.Concurrency = a.workers
	}

	log, closer, err := logging.New(cfg.Logs, a.errOut)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	a.cfg = cfg
	a.log = log
	a.closer = closer
	a.log.WithFields(logrus.Fields{
		"version": wod.Version,
		"workers": cfg.Workers.Concurrency,
		"config":  a.configFile,
	}).Debug("wodcat started")

	return nil
}

func (a *app) shutdown() error {
	if a.closer == nil {
		return nil
	}

	return a.closer.Close()
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of wodcat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.out, "wodcat v%s\n", wod.Version)
			return err
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
}
