package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ppc-cli/internal/analyzer"
	"github.com/sells-group/ppc-cli/internal/export"
	"github.com/sells-group/ppc-cli/internal/fetcher"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze every report in a directory",
	Long: `Runs an enhanced analysis over each .csv and .xlsx file in --dir and
writes the selected exports into <out>/<report name>_<ext>/, so week1.csv
and week1.xlsx land in week1_csv/ and week1_xlsx/.

Examples:
  ppc-cli batch --dir reports/ --out results/
  ppc-cli batch --dir reports/ --kinds all --concurrency 8`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.String("dir", "", "directory of reports (required)")
	f.String("out", "", "output directory (default from config)")
	f.StringSlice("kinds", []string{string(export.KindRecommendations), string(export.KindDecisions)}, "exports per report: "+kindList()+" or all")
	f.Int("concurrency", 0, "reports analyzed at once (default from config)")
	f.Bool("no-progress", false, "hide the progress bar")
	addSettingsFlags(f)
	_ = batchCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("batch"); err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("dir")
	outDir, _ := cmd.Flags().GetString("out")
	kindNames, _ := cmd.Flags().GetStringSlice("kinds")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	if outDir == "" {
		outDir = cfg.Export.Dir
	}
	if concurrency <= 0 {
		concurrency = cfg.Batch.Concurrency
	}
	kinds, err := parseKinds(kindNames)
	if err != nil {
		return err
	}

	s, err := resolveSettings(ctx, cmd)
	if err != nil {
		return err
	}

	files, err := discoverReports(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		zap.L().Info("no reports found", zap.String("dir", dir))
		return nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("analyzing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetVisibility(!noProgress),
		progressbar.OptionClearOnFinish(),
	)

	stats, err := processBatch(ctx, files, outDir, kinds, concurrency, bar,
		func(ctx context.Context, path string) (*analyzer.Result, error) {
			return analyzeReport(ctx, path, s, true)
		})
	if err != nil {
		return err
	}
	if stats.failed > 0 {
		return eris.Errorf("batch: %d of %d reports failed", stats.failed, len(files))
	}
	return nil
}

// discoverReports lists the loadable reports directly inside dir, sorted.
func discoverReports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: read dir %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") || !fetcher.IsReport(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// analyzeFunc analyses one report file.
type analyzeFunc func(ctx context.Context, path string) (*analyzer.Result, error)

type batchStats struct {
	succeeded int64
	failed    int64
}

// processBatch analyses files concurrently and writes each report's exports
// into its own subdirectory of outDir. A failing report is logged and
// counted; it does not stop the others.
func processBatch(ctx context.Context, files []string, outDir string, kinds []export.Kind, concurrency int, bar *progressbar.ProgressBar, analyze analyzeFunc) (batchStats, error) {
	zap.L().Info("processing batch",
		zap.Int("reports", len(files)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, path := range files {
		g.Go(func() error {
			defer bar.Add(1) //nolint:errcheck
			log := zap.L().With(zap.String("report", path))

			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := analyze(gctx, path)
			if err != nil {
				failed.Add(1)
				log.Error("analysis failed", zap.Error(err))
				return nil
			}

			dest := filepath.Join(outDir, reportDir(path))
			written, err := writeExports(dest, kinds, res)
			if err != nil {
				failed.Add(1)
				log.Error("export failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("report complete",
				zap.Int("rows", len(res.ProcessedData)),
				zap.Int("exports", len(written)),
			)
			return nil
		})
	}

	err := g.Wait()
	stats := batchStats{succeeded: succeeded.Load(), failed: failed.Load()}
	if err != nil {
		return stats, eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", stats.succeeded),
		zap.Int64("failed", stats.failed),
	)
	return stats, nil
}

// reportDir names a report's output directory. The extension is kept so
// reports sharing a stem never write into the same directory.
func reportDir(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + strings.TrimPrefix(ext, ".")
}
