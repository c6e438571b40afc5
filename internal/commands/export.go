package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	"github.com/lachiem1/tallyUp/internal/invoice"
	"github.com/lachiem1/tallyUp/internal/report"
)

// exportRow is one line of the export file. Amounts are fixed to cents.
type exportRow struct {
	Customer    string `csv:"Customer full name"`
	Date        string `csv:"Invoice date"`
	Number      string `csv:"Invoice number"`
	Amount      string `csv:"Amount"`
	OpenBalance string `csv:"Open balance"`
	Status      string `csv:"Status"`
}

func newExportCommand(a *app) *cobra.Command {
	var out string
	var all bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write open invoices as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			defer a.close()
			return a.runExport(cmd, out, all)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().BoolVar(&all, "all", false, "include paid invoices")

	return cmd
}

func (a *app) runExport(cmd *cobra.Command, out string, all bool) error {
	src, err := a.activeSource()
	if err != nil {
		return err
	}
	table, err := src.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading %s: %w", src.Name(), err)
	}

	snap := report.Build(table)
	if snap.Err != nil {
		return snap.Err
	}
	rows := snap.Partition.Open
	if all {
		rows = snap.Partition.All()
	}

	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := writeExport(w, rows.Records()); err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d invoices to %s\n", rows.Len(), out)
	}
	return nil
}

func writeExport(w io.Writer, records []invoice.Record) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(exportRow{}); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}
	for i, r := range records {
		status := "paid"
		if r.IsOpen() {
			status = "open"
		}
		row := exportRow{
			Customer:    r.Customer,
			Date:        r.Date,
			Number:      r.Number,
			Amount:      r.Amount.StringFixed(2),
			OpenBalance: r.OpenBalance.StringFixed(2),
			Status:      status,
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}
	return nil
}
