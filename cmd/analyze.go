package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/analyzer"
	"github.com/sells-group/ppc-cli/internal/export"
	"github.com/sells-group/ppc-cli/internal/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <report.csv|report.xlsx>",
	Short: "Analyze a search term report and print recommendations",
	Long: `Reads an Amazon search term report and prints the summary and
recommendation lists. Settings come from the settings store; any
--<setting> flag overrides the saved value for this run only.

Examples:
  # Standard analysis
  ppc-cli analyze report.xlsx

  # Enhanced mode with a 25% target ACOS
  ppc-cli analyze report.csv --enhanced --target-acos-index 0.25

  # JSON to a file, plus every CSV export opened afterwards
  ppc-cli analyze report.csv --format json --output result.json --export all --open`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.Bool("enhanced", false, "add time, funnel, tier and decision analysis (default from config)")
	f.String("format", "table", "output format: table, json or csv")
	f.String("output", "", "output file path (default: stdout)")
	f.StringSlice("export", nil, "CSV exports to write: "+kindList()+" or all")
	f.String("export-dir", "", "directory for --export files (default from config)")
	f.Bool("open", false, "open exported files with the system viewer")
	addSettingsFlags(f)

	rootCmd.AddCommand(analyzeCmd)
}

func kindList() string {
	kinds := export.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate("analyze"); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	exports, _ := cmd.Flags().GetStringSlice("export")
	exportDir, _ := cmd.Flags().GetString("export-dir")
	openFiles, _ := cmd.Flags().GetBool("open")

	if err := checkFormat(format, "table", "json", "csv"); err != nil {
		return err
	}
	kinds, err := parseKinds(exports)
	if err != nil {
		return err
	}

	res, err := runReport(cmd, args[0])
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd, outputPath)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		err = writeAnalysisJSON(w, res)
	case "csv":
		err = export.WriteCSV(w, export.Recommendations(res.Recommendations))
	default:
		err = writeAnalysisTable(w, filepath.Base(args[0]), res)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		return eris.Wrap(err, "analyze: write output")
	}

	if exportDir == "" {
		exportDir = cfg.Export.Dir
	}
	paths, err := writeExports(exportDir, kinds, res)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", p)
		if openFiles {
			export.Open(export.DefaultOpener, p)
		}
	}
	return nil
}

// parseKinds expands the --export list. "all" selects every kind.
func parseKinds(names []string) ([]export.Kind, error) {
	var kinds []export.Kind
	seen := map[export.Kind]bool{}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if n == "all" {
			return export.Kinds(), nil
		}
		k, err := export.ParseKind(n)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// writeExports writes each kind into dir. Kinds that need enhanced results
// are skipped with a warning in standard mode.
func writeExports(dir string, kinds []export.Kind, res *analyzer.Result) ([]string, error) {
	var paths []string
	for _, k := range kinds {
		table, err := export.Build(k, res)
		if eris.Is(err, export.ErrNotAvailable) {
			zap.L().Warn("skipping export", zap.String("kind", string(k)), zap.Error(err))
			continue
		}
		if err != nil {
			return paths, err
		}
		p, err := export.WriteFile(dir, table)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeAnalysisJSON(w io.Writer, res *analyzer.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func writeAnalysisTable(w io.Writer, name string, res *analyzer.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	mode := "standard"
	if res.Enhanced {
		mode = "enhanced"
	}
	fmt.Fprintf(tw, "Report:\t%s\n", name)
	fmt.Fprintf(tw, "Mode:\t%s\n", mode)
	fmt.Fprintf(tw, "Target ACOS:\t%.0f%%\n", res.Settings.TargetACOS())

	writeSummary(tw, "Summary", res.Summary)

	if res.Empty() || !res.HasRecommendations() {
		fmt.Fprintf(tw, "\n%s\n", analyzer.NoRecommendationsMessage)
	} else {
		writeRecommendations(tw, res.Recommendations)
	}

	if res.TimeComparison != nil {
		tc := res.TimeComparison
		fmt.Fprintf(tw, "\n--- Time comparison ---\n")
		fmt.Fprintf(tw, "\tRecent\tPrevious\tTrend\n")
		fmt.Fprintf(tw, "ACOS\t%s\t%s\t%+.1f%%\n",
			analyzer.FormatACOS(tc.Current.AverageACOS, 1), analyzer.FormatACOS(tc.Previous.AverageACOS, 1), tc.Trends.ACOSTrend)
		fmt.Fprintf(tw, "CTR\t%.2f%%\t%.2f%%\t%+.1f%%\n",
			tc.Current.ClickThroughRate*100, tc.Previous.ClickThroughRate*100, tc.Trends.CTRTrend)
		fmt.Fprintf(tw, "Conversion\t%.2f%%\t%.2f%%\t%+.1f%%\n",
			tc.Current.ConversionRate*100, tc.Previous.ConversionRate*100, tc.Trends.ConversionTrend)
		fmt.Fprintf(tw, "CPC\t$%.2f\t$%.2f\t%+.1f%%\n",
			tc.Current.AverageCPC, tc.Previous.AverageCPC, tc.Trends.CPCTrend)
	}

	if res.FunnelAnalysis != nil {
		fa := res.FunnelAnalysis
		fmt.Fprintf(tw, "\n--- Funnel ---\n")
		fmt.Fprintf(tw, "Top\t%d\n", len(fa.Top))
		fmt.Fprintf(tw, "Middle\t%d\n", len(fa.Middle))
		fmt.Fprintf(tw, "Bottom\t%d\n", len(fa.Bottom))
	}

	if res.Decisions != nil {
		writeDecisions(tw, *res.Decisions)
	}

	return tw.Flush()
}

func writeSummary(w io.Writer, title string, s model.Summary) {
	fmt.Fprintf(w, "\n--- %s ---\n", title)
	fmt.Fprintf(w, "Keywords\t%d\n", s.ProcessedKeywords)
	fmt.Fprintf(w, "Impressions\t%.0f\n", s.TotalImpressions)
	fmt.Fprintf(w, "Clicks\t%.0f\n", s.TotalClicks)
	fmt.Fprintf(w, "Orders\t%.0f\n", s.TotalOrders)
	fmt.Fprintf(w, "Spend\t$%.2f\n", s.TotalSpend)
	fmt.Fprintf(w, "Sales\t$%.2f\n", s.TotalSales)
	fmt.Fprintf(w, "ACOS\t%s\n", analyzer.FormatACOS(s.AverageACOS, 2))
	fmt.Fprintf(w, "CPC\t$%.2f\n", s.AverageCPC)
	fmt.Fprintf(w, "CTR\t%.2f%%\n", s.ClickThroughRate*100)
	fmt.Fprintf(w, "Conversion\t%.2f%%\n", s.ConversionRate*100)
	fmt.Fprintf(w, "ROAS\t%.2f\n", s.ROAS)
}

func writeRecommendations(w io.Writer, rec model.Recommendations) {
	words := func(title string, list []model.WordStat) {
		if len(list) == 0 {
			return
		}
		fmt.Fprintf(w, "\n--- %s (%d) ---\n", title, len(list))
		fmt.Fprintf(w, "Word\tClicks\tSpend\tOrders\tACOS\n")
		for _, ws := range list {
			fmt.Fprintf(w, "%s\t%.0f\t$%.2f\t%.0f\t%s\n",
				ws.Word, ws.Clicks, ws.Spend, ws.Orders, analyzer.FormatACOS(ws.ACOS, 1))
		}
	}
	terms := func(title string, list []model.MetricRow) {
		if len(list) == 0 {
			return
		}
		fmt.Fprintf(w, "\n--- %s (%d) ---\n", title, len(list))
		fmt.Fprintf(w, "Search term\tClicks\tSpend\tOrders\tACOS\n")
		for _, m := range list {
			fmt.Fprintf(w, "%s\t%.0f\t$%.2f\t%.0f\t%s\n",
				truncate(m.SearchTerm, 50), m.Clicks, m.Spend, m.Orders, analyzer.FormatACOS(m.ACOS, 1))
		}
	}

	words("Exact negative", rec.ExactNegative)
	words("Phrase negative", rec.PhraseNegative)
	terms("Increase bid", rec.IncreaseBid)
	terms("Decrease bid", rec.DecreaseBid)
}

func writeDecisions(w io.Writer, d model.Decisions) {
	fmt.Fprintf(w, "\n--- Decisions ---\n")
	fmt.Fprintf(w, "Group\tTerm\tAction\tBid\tPriority\tMatch\n")
	for _, tier := range model.Tiers {
		for _, dec := range d.ByTier[tier] {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				tier, truncate(dec.Term, 40), dec.Action, dec.BidAdjustment, dec.Priority, dec.MatchType)
		}
	}
	for _, dec := range d.StopTargeting {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			model.DecisionGroupStopTargeting, truncate(dec.Term, 40), dec.Action, dec.BidAdjustment, dec.Priority, dec.MatchType)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
