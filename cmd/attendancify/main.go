// Command attendancify reconciles meeting attendance exports against rosters.
//
//	attendancify extract meeting.xlsx            -> meeting-RAW.xlsx
//	attendancify match --roster r.csv --raw w.csv
//	attendancify batch --roster a.csv --raw a-raw.xlsx --roster b.csv --raw b-raw.xlsx --zip out.zip
//	attendancify serve
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"attendancify/internal/config"
	"attendancify/internal/infrastructure"
	"attendancify/internal/services"
)

// cli holds the state shared by every subcommand
type cli struct {
	configFile string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
	stderr io.Writer
}

func newRootCmd() *cobra.Command {
	c := &cli{stderr: os.Stderr}

	root := &cobra.Command{
		Use:   "attendancify",
		Short: "Reconcile meeting attendance exports against class rosters",
		Long: `attendancify matches the participant names of meeting attendance exports
against a roster of known participants using fuzzy name matching, and writes
per-session present/absent reports as a workbook or a set of CSV files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default: attendancify.yaml in the working or executable directory)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newExtractCmd(c),
		newMatchCmd(c),
		newBatchCmd(c),
		newServeCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}
	c.cfg = cfg
	c.stderr = cmd.ErrOrStderr()
	c.logger = infrastructure.NewLogger(c.stderr, cfg.Logging.Level, cfg.Logging.Format)
	cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
	return nil
}

// reconcileService builds the service from the loaded configuration
func (c *cli) reconcileService() *services.ReconcileService {
	opts := services.OptionsFromConfig(c.cfg.Reconcile)
	opts.Logger = c.logger
	return services.NewReconcileService(opts)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
