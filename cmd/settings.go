package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ppc-cli/internal/analyzer"
	"github.com/sells-group/ppc-cli/internal/model"
	"github.com/sells-group/ppc-cli/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the saved recommendation thresholds",
	Long: `Thresholds are kept in the store named by settings.driver and
settings.path (a YAML file by default). Keys accept snake_case, camelCase
or kebab-case.

Examples:
  ppc-cli settings show
  ppc-cli settings set target_acos_index=0.25 phraseNegativeLv=8
  ppc-cli settings reset`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("settings"); err != nil {
			return err
		}
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		s, err := store.Load(ctx)
		if err != nil {
			return err
		}
		return writeSettings(cmd.OutOrStdout(), s)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set key=value [key=value...]",
	Short: "Change one or more settings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("settings"); err != nil {
			return err
		}
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		s, err := store.Load(ctx)
		if err != nil {
			return err
		}
		s, err = applyAssignments(s, args)
		if err != nil {
			return err
		}
		if err := store.Save(ctx, s); err != nil {
			return err
		}
		return writeSettings(cmd.OutOrStdout(), s)
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard saved settings and return to the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("settings"); err != nil {
			return err
		}
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		if err := store.Reset(ctx); err != nil {
			return err
		}
		s, err := store.Load(ctx)
		if err != nil {
			return err
		}
		return writeSettings(cmd.OutOrStdout(), s)
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

// applyAssignments applies "key=value" arguments and validates the result.
// Nothing is applied if any argument is bad.
func applyAssignments(s model.Settings, args []string) (model.Settings, error) {
	out := s
	for _, a := range args {
		k, v, err := settings.ParseAssignment(a)
		if err != nil {
			return s, err
		}
		if out, err = settings.Set(out, k, v); err != nil {
			return s, err
		}
	}
	if err := analyzer.ValidateSettings(out); err != nil {
		return s, eris.Wrap(err, "settings: refusing to save")
	}
	return out, nil
}

func writeSettings(w io.Writer, s model.Settings) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, k := range settings.Keys() {
		v, err := settings.Get(s, k)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%g\n", k, v)
	}
	fmt.Fprintf(tw, "\nstore\t%s (%s)\n", cfg.Settings.Path, cfg.Settings.Driver)
	return tw.Flush()
}
