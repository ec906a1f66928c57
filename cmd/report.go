package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/analyzer"
	"github.com/sells-group/ppc-cli/internal/fetcher"
	"github.com/sells-group/ppc-cli/internal/model"
	"github.com/sells-group/ppc-cli/internal/settings"
)

// settingFlag turns a settings key into its flag name.
func settingFlag(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// addSettingsFlags registers one override flag per settings key.
func addSettingsFlags(f *pflag.FlagSet) {
	for _, k := range settings.Keys() {
		f.Float64(settingFlag(k), 0, "override the saved "+k)
	}
}

// settingsOverrides collects the settings flags the user set.
func settingsOverrides(cmd *cobra.Command) map[string]string {
	out := map[string]string{}
	for _, k := range settings.Keys() {
		name := settingFlag(k)
		if cmd.Flags().Changed(name) {
			out[k] = cmd.Flags().Lookup(name).Value.String()
		}
	}
	return out
}

// enhancedMode reads --enhanced, falling back to analysis.enhanced.
func enhancedMode(cmd *cobra.Command) bool {
	if f := cmd.Flags().Lookup("enhanced"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("enhanced")
		return v
	}
	return cfg.Analysis.Enhanced
}

func openStore(ctx context.Context) (settings.Store, error) {
	return settings.Open(ctx, cfg.Settings.Driver, cfg.Settings.Path, cfg.Analysis.Settings)
}

// resolveSettings loads the saved settings and applies flag overrides.
func resolveSettings(ctx context.Context, cmd *cobra.Command) (model.Settings, error) {
	store, err := openStore(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	defer store.Close() //nolint:errcheck

	s, err := store.Load(ctx)
	if err != nil {
		zap.L().Warn("saved settings unreadable, using defaults", zap.Error(err))
	}
	s, err = settings.Apply(s, settingsOverrides(cmd))
	if err != nil {
		return s, err
	}
	if err := analyzer.ValidateSettings(s); err != nil {
		return s, err
	}
	return s, nil
}

// analyzeReport loads one report file and runs the pipeline over it. A report
// without a header row analyses as empty.
func analyzeReport(ctx context.Context, path string, s model.Settings, enhanced bool) (*analyzer.Result, error) {
	raw, err := fetcher.Load(ctx, path)
	if err != nil && !eris.Is(err, fetcher.ErrEmptyReport) {
		return nil, err
	}

	res := analyzer.Analyze(raw, s, analyzer.Options{
		Enhanced:     enhanced,
		RecentWindow: cfg.Analysis.RecentWindow(),
	})
	zap.L().Info("analysis complete",
		zap.String("file", path),
		zap.String("run_id", res.RunID),
		zap.Int("rows", len(res.ProcessedData)),
		zap.Int("words", len(res.SplitWords)),
		zap.Bool("enhanced", enhanced),
	)
	return res, nil
}

// runReport is the shared front half of analyze, words and asin.
func runReport(cmd *cobra.Command, path string) (*analyzer.Result, error) {
	ctx := cmd.Context()
	s, err := resolveSettings(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return analyzeReport(ctx, path, s, enhancedMode(cmd))
}

// openOutput returns stdout, or the file at path.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, f.Close, nil
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return eris.Errorf("--format must be one of %s (got %q)", strings.Join(allowed, ", "), format)
}
