package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracksmith-io/tracksmith/internal/delta"
	"github.com/tracksmith-io/tracksmith/internal/instrument"
	"github.com/tracksmith-io/tracksmith/internal/journal"
	"github.com/tracksmith-io/tracksmith/internal/scanner"
	"github.com/tracksmith-io/tracksmith/internal/sdks"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

var instrumentCmd = &cobra.Command{
	Use:   "instrument",
	Short: "Generate SDK call snippets for the outstanding delta",
	Long: `Generate implementation guidance for the gap between the current
state and the tracking plan: ready-to-paste track/identify/group snippets
for the chosen SDK, one section per kind of change.

The guide is written to .telemetry/instrument.md between generated
markers; notes added outside the markers survive regeneration.

Examples:
  tracksmith instrument
  tracksmith instrument --sdk posthog --variant node`,
	RunE: runInstrument,
}

func init() {
	rootCmd.AddCommand(instrumentCmd)

	instrumentCmd.Flags().String("sdk", "", "Analytics SDK to emit snippets for")
	instrumentCmd.Flags().String("variant", "", "SDK variant (browser, node)")
}

func runInstrument(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)

	if ok, reason := telemetry.CanAdvanceToPhase(store, telemetry.PhaseInstrument); !ok {
		return fmt.Errorf("%s", reason)
	}

	if name, _ := cmd.Flags().GetString("sdk"); name != "" {
		cfg.SDK.Name = name
	}
	if variant, _ := cmd.Flags().GetString("variant"); variant != "" {
		cfg.SDK.Variant = variant
	}

	root := projectRoot()

	// No SDK configured anywhere: fall back to manifest detection.
	if cfg.SDK.Name == "" {
		info, err := scanner.NewWithOptions(root, scanOptions(cfg)).Scan()
		if err != nil {
			return fmt.Errorf("scan repository: %w", err)
		}
		name, err := instrument.ResolveSDK("", info.DetectedSDKNames())
		if err != nil {
			return err
		}
		cfg.SDK.Name = string(name)
		if cfg.SDK.Variant == "" {
			for _, d := range info.SDKs {
				if d.Name == cfg.SDK.Name && d.Variant != "" {
					cfg.SDK.Variant = d.Variant
					break
				}
			}
		}
		verbosef("detected sdk %s %s", cfg.SDK.Name, cfg.SDK.Variant)
	}

	if err := cfg.ValidateForInstrument(); err != nil {
		return err
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

	gen, err := instrument.NewGenerator(sdks.Name(cfg.SDK.Name), sdks.Variant(cfg.SDK.Variant))
	if err != nil {
		return err
	}
	if err := gen.Write(store, d, p); err != nil {
		return err
	}

	rec := journal.NewRecord("instrument", root)
	rec.Counters["adds"] = len(d.Adds)
	rec.Counters["renames"] = len(d.Renames)
	rec.Counters["changes"] = len(d.Changes)
	rec.Counters["removes"] = len(d.Removes)
	logRun(cfg, rec.Done(nil))

	fmt.Printf("Wrote %s for %s (%s)\n", store.Path(telemetry.InstrumentFile), cfg.SDK.Name, cfg.SDK.Variant)
	if d.Empty() {
		fmt.Println("The delta is empty; the guide only carries the setup section")
	}
	return nil
}
