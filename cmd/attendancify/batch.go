package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"attendancify/internal/exporter"
	"attendancify/internal/files"
	"attendancify/internal/services"
)

func newBatchCmd(c *cli) *cobra.Command {
	var (
		rosters, raws          []string
		rosterDir, rawDir      string
		format, outDir, zipOut string
		continueOnError        bool
	)

	cmd := &cobra.Command{
		Use:   "batch --roster R1 --raw W1 [--roster R2 --raw W2 ...]",
		Short: "Match several roster/raw pairs",
		Long: `Pairs the i-th roster with the i-th raw file; unpaired files are ignored.
Directories given with --roster-dir and --raw-dir are listed in name order and
appended to the explicit files.

By default any failure aborts the batch and no report is kept. With
--continue-on-error every pair is attempted and failures are listed at the end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if rosters, err = appendDir(rosters, rosterDir); err != nil {
				return err
			}
			if raws, err = appendDir(raws, rawDir); err != nil {
				return err
			}
			pairs := services.PairFiles(rosters, raws)
			if len(pairs) == 0 {
				return fmt.Errorf("no roster/raw pairs given")
			}
			if !cmd.Flags().Changed("continue-on-error") {
				continueOnError = c.cfg.Reconcile.ContinueOnError
			}

			f, err := outputFormat(c, format)
			if err != nil {
				return err
			}

			results, err := c.reconcileService().RunBatch(cmd.Context(), pairs, f, services.BatchOptions{
				ContinueOnError: continueOnError,
				OutputDir:       outDir,
			})
			if err != nil {
				return err
			}

			var outputs []string
			for _, a := range services.Artifacts(results) {
				outputs = append(outputs, a.Files...)
			}

			if zipOut != "" && len(outputs) > 0 {
				if err := exporter.BundleZip(zipOut, outputs); err != nil {
					return err
				}
				outputs = []string{zipOut}
			}
			for _, out := range outputs {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(c.stderr, "failed: %s + %s: %v\n", r.Pair.RosterPath, r.Pair.RawPath, r.Err)
				}
			}
			if failed > 0 {
				c.logger.Warn("Batch finished with failures",
					slog.Int("failed", failed),
					slog.Int("pairs", len(pairs)))
				return fmt.Errorf("%d of %d pairs failed", failed, len(pairs))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&rosters, "roster", nil, "roster file (repeatable)")
	cmd.Flags().StringArrayVar(&raws, "raw", nil, "raw attendance file (repeatable)")
	cmd.Flags().StringVar(&rosterDir, "roster-dir", "", "directory of roster files")
	cmd.Flags().StringVar(&rawDir, "raw-dir", "", "directory of raw attendance files")
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: xlsx or csv (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: each roster's directory)")
	cmd.Flags().StringVar(&zipOut, "zip", "", "bundle every report into this zip archive")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "keep the reports of successful pairs when others fail")
	return cmd
}

func appendDir(paths []string, dir string) ([]string, error) {
	if dir == "" {
		return paths, nil
	}
	found, err := files.NewDiscovery("").FindTabularFiles(dir)
	if err != nil {
		return nil, err
	}
	return append(paths, files.Paths(found)...), nil
}
