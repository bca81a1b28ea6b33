package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attendancify/internal/files"
)

func newExtractCmd(c *cli) *cobra.Command {
	var outDir, dir string

	cmd := &cobra.Command{
		Use:   "extract [workbook.xlsx...]",
		Short: "Convert meeting exports into raw attendance tables",
		Long: `Reads the "Attendance" sheet of every workbook and writes <name>-RAW.xlsx
with the Name column and one column per detected session. Cells other than
P or A become N/A. Nothing is kept if any file fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if dir != "" {
				found, err := files.NewDiscovery("").FindExcelFiles(dir)
				if err != nil {
					return err
				}
				paths = append(paths, files.Paths(found)...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no workbooks given")
			}

			outputs, err := c.reconcileService().ExtractAllAndWrite(cmd.Context(), paths, outDir)
			if err != nil {
				return err
			}
			for _, out := range outputs {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: next to each source)")
	cmd.Flags().StringVar(&dir, "dir", "", "also extract every workbook in this directory")
	return cmd
}
