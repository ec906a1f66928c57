package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ppc-cli/internal/model"
)

var wordsCmd = &cobra.Command{
	Use:   "words <report.csv|report.xlsx>",
	Short: "Show word-level performance of a report",
	Long: `Splits every search term into words and prints the per-word totals.
In enhanced mode the table adds the word's category, main position and
final weight.

Examples:
  # Top 20 words by spend
  ppc-cli words report.xlsx --sort spend --limit 20

  # Enhanced columns, written as CSV
  ppc-cli words report.csv --enhanced --format csv --output words.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runWords,
}

// wordSortColumns maps --sort values to frame columns. Word sorts ascending,
// the rest descending.
var wordSortColumns = map[string]string{
	"word":        "Word",
	"occurrences": "Occurrences",
	"impressions": "Impressions",
	"clicks":      "Clicks",
	"spend":       "Spend",
	"sales":       "Sales",
	"orders":      "Orders",
	"acos":        "ACOS",
	"weight":      "FinalWeight",
}

func init() {
	f := wordsCmd.Flags()
	f.Bool("enhanced", false, "add category, position and weight columns (default from config)")
	f.String("sort", "occurrences", "sort column: word, occurrences, impressions, clicks, spend, sales, orders, acos or weight")
	f.Int("limit", 0, "maximum number of words (0 = all)")
	f.String("format", "table", "output format: table or csv")
	f.String("output", "", "output file path (default: stdout)")
	addSettingsFlags(f)

	rootCmd.AddCommand(wordsCmd)
}

func runWords(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate("analyze"); err != nil {
		return err
	}

	sortBy, _ := cmd.Flags().GetString("sort")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if err := checkFormat(format, "table", "csv"); err != nil {
		return err
	}

	res, err := runReport(cmd, args[0])
	if err != nil {
		return err
	}
	if len(res.SplitWords) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No words found.")
		return nil
	}

	df, err := sortWords(wordsFrame(res.SplitWords, res.Enhanced), sortBy, limit)
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd, outputPath)
	if err != nil {
		return err
	}
	if format == "csv" {
		err = df.WriteCSV(w)
	} else {
		err = writeFrame(w, df)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return eris.Wrap(err, "words: write output")
}

// wordsFrame loads word stats into a dataframe with typed columns.
func wordsFrame(words []model.WordStat, enhanced bool) dataframe.DataFrame {
	header := []string{"Word", "Occurrences", "Impressions", "Clicks", "Spend", "Sales", "Orders", "CTR", "ConvRate", "ACOS", "Reliability"}
	types := map[string]series.Type{
		"Word":        series.String,
		"Occurrences": series.Int,
		"Impressions": series.Float,
		"Clicks":      series.Float,
		"Spend":       series.Float,
		"Sales":       series.Float,
		"Orders":      series.Float,
		"CTR":         series.Float,
		"ConvRate":    series.Float,
		"ACOS":        series.Float,
		"Reliability": series.Float,
	}
	if enhanced {
		header = append(header, "Category", "MainPosition", "FinalWeight")
		types["Category"] = series.String
		types["MainPosition"] = series.String
		types["FinalWeight"] = series.Float
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	records := make([][]string, 0, len(words)+1)
	records = append(records, header)
	for _, w := range words {
		rec := []string{
			w.Word,
			strconv.Itoa(w.Occurrences),
			f(w.Impressions),
			f(w.Clicks),
			f(w.Spend),
			f(w.Sales),
			f(w.Orders),
			f(w.CTR),
			f(w.ConvRate),
			f(w.ACOS),
			f(w.Reliability),
		}
		if enhanced {
			rec = append(rec, string(w.Category), string(w.MainPosition), f(w.FinalWeight))
		}
		records = append(records, rec)
	}

	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.WithTypes(types),
	)
}

// sortWords orders the frame by one column and keeps the first limit rows.
func sortWords(df dataframe.DataFrame, by string, limit int) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return df, eris.Wrap(df.Err, "words: load frame")
	}
	col, ok := wordSortColumns[by]
	if !ok {
		return df, eris.Errorf("words: unknown sort column %q", by)
	}
	if !containsString(df.Names(), col) {
		return df, eris.Errorf("words: --sort %s needs --enhanced", by)
	}

	order := dataframe.RevSort(col)
	if col == "Word" {
		order = dataframe.Sort(col)
	}
	df = df.Arrange(order)
	if df.Err != nil {
		return df, eris.Wrap(df.Err, "words: sort")
	}

	if limit > 0 && limit < df.Nrow() {
		idx := make([]int, limit)
		for i := range idx {
			idx[i] = i
		}
		df = df.Subset(idx)
	}
	return df, nil
}

// writeFrame prints the frame as an aligned table, floats to two places.
func writeFrame(w io.Writer, df dataframe.DataFrame) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	names := df.Names()
	for i, n := range names {
		sep := "\t"
		if i == len(names)-1 {
			sep = "\n"
		}
		fmt.Fprint(tw, n+sep)
	}

	cols := make([]series.Series, len(names))
	for i, n := range names {
		cols[i] = df.Col(n)
	}
	for r := 0; r < df.Nrow(); r++ {
		for i, c := range cols {
			sep := "\t"
			if i == len(cols)-1 {
				sep = "\n"
			}
			e := c.Elem(r)
			if c.Type() == series.Float {
				fmt.Fprintf(tw, "%.2f%s", e.Float(), sep)
			} else {
				fmt.Fprint(tw, e.String()+sep)
			}
		}
	}
	return tw.Flush()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
