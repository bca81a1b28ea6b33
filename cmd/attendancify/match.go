package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attendancify/pkg/contracts/domain"
)

func newMatchCmd(c *cli) *cobra.Command {
	var (
		roster, raw, format, outDir string
		exclusive                   bool
		threshold                   int
	)

	cmd := &cobra.Command{
		Use:   "match --roster ROSTER --raw RAW",
		Short: "Match one roster against one raw attendance file",
		Long: `Matches every roster entry to its best raw row and writes the report next to
the roster, or into --out. The xlsx format produces
<roster>_matched_with_<raw>_attendance.xlsx; csv produces
<roster>_matched_with_<raw>_{matched,unmatched,summary}.csv.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("threshold") {
				c.cfg.Reconcile.Threshold = threshold
			}
			if cmd.Flags().Changed("exclusive") {
				c.cfg.Reconcile.Exclusive = exclusive
			}
			f, err := outputFormat(c, format)
			if err != nil {
				return err
			}

			artifact, err := c.reconcileService().MatchAndWriteTo(cmd.Context(), roster, raw, f, outDir)
			if err != nil {
				return err
			}
			for _, out := range artifact.Files {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&roster, "roster", "", "roster file with Email and Participant Name columns")
	cmd.Flags().StringVar(&raw, "raw", "", "raw attendance file with a Name column")
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: xlsx or csv (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: the roster directory)")
	cmd.Flags().BoolVar(&exclusive, "exclusive", false, "never match one raw row to more than one roster entry")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "minimum similarity score (0-100)")
	_ = cmd.MarkFlagRequired("roster")
	_ = cmd.MarkFlagRequired("raw")
	return cmd
}

// outputFormat resolves the --format flag, falling back to the configured default
func outputFormat(c *cli, flag string) (domain.OutputFormat, error) {
	if flag == "" {
		flag = c.cfg.Reconcile.OutputFormat
	}
	return domain.ParseOutputFormat(flag)
}
