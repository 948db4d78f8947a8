package cli

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/tracksmith-io/tracksmith/internal/journal"
	"github.com/tracksmith-io/tracksmith/internal/lint"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the telemetry artifacts for consistency",
	Long: `Lint the artifacts under .telemetry/: events without file:line
evidence, names that break the declared conventions, duplicate or
untyped properties, and a delta.md older than the artifacts it was
computed from.

Exits non-zero when any error-severity finding is present.

Examples:
  tracksmith lint
  tracksmith lint --json`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().Bool("json", false, "Emit the report as JSON")
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)

	in := lint.Inputs{HasDelta: store.Exists(telemetry.DeltaFile)}

	if store.Exists(telemetry.CurrentStateFile) {
		in.State, err = store.LoadCurrentState()
		if err != nil {
			return err
		}
		in.StateMod, _ = store.ModTime(telemetry.CurrentStateFile)
	}
	if store.Exists(telemetry.TrackingPlanFile) {
		in.Plan, err = store.LoadTrackingPlan()
		if err != nil {
			return err
		}
		in.PlanMod, _ = store.ModTime(telemetry.TrackingPlanFile)
	}
	if in.State == nil && in.Plan == nil {
		return fmt.Errorf("nothing to lint in %s; run %q first", store.Dir(), "tracksmith audit --write")
	}
	if in.HasDelta {
		in.DeltaMod, _ = store.ModTime(telemetry.DeltaFile)
	}

	if cfg.Conventions.EventPattern != "" {
		in.EventRE, err = regexp.Compile(cfg.Conventions.EventPattern)
		if err != nil {
			return fmt.Errorf("conventions.event_pattern: %w", err)
		}
	}
	if cfg.Conventions.PropertyPattern != "" {
		in.PropRE, err = regexp.Compile(cfg.Conventions.PropertyPattern)
		if err != nil {
			return fmt.Errorf("conventions.property_pattern: %w", err)
		}
	}

	report := lint.Run(in)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := report.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(report.Text())
	}

	errors, warnings := report.Counts()
	rec := journal.NewRecord("lint", projectRoot())
	rec.Counters["errors"] = errors
	rec.Counters["warnings"] = warnings
	logRun(cfg, rec.Done(nil))

	if report.HasErrors() {
		return fmt.Errorf("lint found %d error(s)", errors)
	}
	return nil
}
