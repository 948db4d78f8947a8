package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracksmith-io/tracksmith/internal/delta"
	"github.com/tracksmith-io/tracksmith/internal/journal"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

var deltaCmd = &cobra.Command{
	Use:   "delta",
	Short: "Diff the audited current state against the tracking plan",
	Long: `Compute the gap between what the codebase tracks today and what the
tracking plan says it should track: events to add, rename, change, or
remove.

The delta is always recomputed from current-state.yaml and
tracking-plan.yaml, never read back from delta.md.

With --write, a markdown report is saved to .telemetry/delta.md.
With --check, the command exits non-zero when any gap remains, for CI.

Examples:
  tracksmith delta
  tracksmith delta --write
  tracksmith delta --check`,
	RunE: runDelta,
}

func init() {
	rootCmd.AddCommand(deltaCmd)

	deltaCmd.Flags().Bool("write", false, "Save the markdown report to delta.md")
	deltaCmd.Flags().Bool("check", false, "Exit non-zero when the delta is not empty")
}

func runDelta(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)

	if !store.Exists(telemetry.CurrentStateFile) {
		return fmt.Errorf("%s is missing; run %q first", store.Path(telemetry.CurrentStateFile), "tracksmith audit")
	}
	if !store.Exists(telemetry.TrackingPlanFile) {
		return fmt.Errorf("%s is missing; run %q first", store.Path(telemetry.TrackingPlanFile), "tracksmith plan init")
	}

	state, err := store.LoadCurrentState()
	if err != nil {
		return err
	}
	p, err := store.LoadTrackingPlan()
	if err != nil {
		return err
	}

	d := delta.Compute(state, p)
	fmt.Print(delta.Summary(d))

	if write, _ := cmd.Flags().GetBool("write"); write {
		if err := store.WriteText(telemetry.DeltaFile, delta.Render(d)); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", store.Path(telemetry.DeltaFile))
	}

	rec := journal.NewRecord("delta", projectRoot())
	rec.Counters["adds"] = len(d.Adds)
	rec.Counters["renames"] = len(d.Renames)
	rec.Counters["changes"] = len(d.Changes)
	rec.Counters["removes"] = len(d.Removes)
	logRun(cfg, rec.Done(nil))

	if check, _ := cmd.Flags().GetBool("check"); check && !d.Empty() {
		return fmt.Errorf("instrumentation diverges from the tracking plan (%d event difference(s))", d.Total())
	}
	return nil
}
