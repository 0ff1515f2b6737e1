package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/export"
)

var (
	exportFilters      filterFlags
	exportOut          string
	exportCombinations bool
	exportSort         string
	exportAscending    bool
)

// exportCmd writes the filtered view, or its combination table, to CSV.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered records to CSV",
	Long: `Load the data file, apply the filter flags and write the matching records
in file order under the canonical header. With --combinations the
provider-site statistics table is written instead.

Without --out a timestamped file is created in EXPORT_DIR. Use --out - for
standard output.`,
	Example: `  cdt export --provider AI --hours 0-11 --out morning.csv
  cdt export --combinations --sort delay_avg --ascending --out -`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportFilters.register(exportCmd.Flags())
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, - for stdout (default EXPORT_DIR/<timestamped name>)")
	exportCmd.Flags().BoolVarP(&exportCombinations, "combinations", "c", false, "write provider-site combinations")
	exportCmd.Flags().StringVar(&exportSort, "sort", aggregate.SortTPHAvg.String(), "combination sort column")
	exportCmd.Flags().BoolVar(&exportAscending, "ascending", false, "sort combinations ascending")
}

func runExport(cmd *cobra.Command, _ []string) error {
	sortBy, err := aggregate.ParseCombinationSort(exportSort)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ds, err := loadDataset(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	_, view, err := exportFilters.view(ds)
	if err != nil {
		return err
	}

	prefix := export.RecordsPrefix
	rows := len(view)
	write := func(w io.Writer) error { return export.WriteRecords(w, view) }
	if exportCombinations {
		combos := aggregate.Combinations(view, sortBy, exportAscending)
		prefix = export.CombinationsPrefix
		rows = len(combos)
		write = func(w io.Writer) error { return export.WriteCombinations(w, combos) }
	}

	if exportOut == "-" {
		return write(cmd.OutOrStdout())
	}

	path, err := writeExport(cfg.ExportDir, prefix, write)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s rows to %s\n",
		color.GreenString("Exported"), humanize.Comma(int64(rows)), path)
	return err
}

// writeExport writes to exportOut, or to a timestamped file in dir.
func writeExport(dir, prefix string, write func(io.Writer) error) (string, error) {
	if exportOut == "" {
		return export.ToFile(dir, prefix, time.Now(), write)
	}

	f, err := os.Create(exportOut) //nolint:gosec // path is given by the user
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(exportOut)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return exportOut, nil
}
