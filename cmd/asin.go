package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ppc-cli/internal/analyzer"
	"github.com/sells-group/ppc-cli/internal/export"
	"github.com/sells-group/ppc-cli/internal/model"
)

var asinCmd = &cobra.Command{
	Use:   "asin <report.csv|report.xlsx>",
	Short: "Show performance of product-targeted (ASIN) search terms",
	Args:  cobra.ExactArgs(1),
	RunE:  runASIN,
}

func init() {
	f := asinCmd.Flags()
	f.String("sort", "clicks", "sort order: clicks or spend, highest first")
	f.String("format", "table", "output format: table or csv")
	f.String("output", "", "output file path (default: stdout)")

	rootCmd.AddCommand(asinCmd)
}

func runASIN(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate("analyze"); err != nil {
		return err
	}

	sortBy, _ := cmd.Flags().GetString("sort")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	if err := checkFormat(format, "table", "csv"); err != nil {
		return err
	}
	if sortBy != "clicks" && sortBy != "spend" {
		return eris.Errorf("asin: unknown sort %q (want clicks or spend)", sortBy)
	}

	res, err := runReport(cmd, args[0])
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd, outputPath)
	if err != nil {
		return err
	}
	details := sortedAsinDetails(res.ASIN.AsinPerformance.AsinDetails, sortBy)
	if format == "csv" {
		err = export.WriteCSV(w, export.ASIN(details))
	} else {
		err = writeASINTable(w, res.ASIN, details)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return eris.Wrap(err, "asin: write output")
}

// sortedAsinDetails orders a copy of details by clicks or spend, highest
// first. Clicks matches the asin export.
func sortedAsinDetails(details []model.AsinDetail, by string) []model.AsinDetail {
	out := append([]model.AsinDetail(nil), details...)
	if by == "spend" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Spend > out[j].Spend })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Clicks > out[j].Clicks })
	}
	return out
}

func writeASINTable(w io.Writer, a model.AsinAnalysis, details []model.AsinDetail) error {
	p := a.AsinPerformance
	if p.UniqueAsinCount == 0 {
		_, err := fmt.Fprintln(w, "No ASIN-targeted search terms found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ASIN terms\t%d\n", len(a.AsinTerms))
	fmt.Fprintf(tw, "Keyword terms\t%d\n", len(a.NonAsinTerms))
	fmt.Fprintf(tw, "Unique ASINs\t%d\n", p.UniqueAsinCount)
	fmt.Fprintf(tw, "Spend\t$%.2f\n", p.TotalSpend)
	fmt.Fprintf(tw, "Sales\t$%.2f\n\n", p.TotalSales)

	fmt.Fprintf(tw, "ASIN\tTerms\tClicks\tSpend\tSales\tOrders\tACOS\tConv\n")
	for _, d := range details {
		fmt.Fprintf(tw, "%s\t%d\t%.0f\t$%.2f\t$%.2f\t%.0f\t%s\t%.2f%%\n",
			d.ASIN, len(d.SearchTerms), d.Clicks, d.Spend, d.Sales, d.Orders,
			analyzer.FormatACOS(d.ACOS, 2), d.ConversionRate*100)
	}
	return tw.Flush()
}
