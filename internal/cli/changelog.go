package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracksmith-io/tracksmith/internal/changelog"
	"github.com/tracksmith-io/tracksmith/internal/delta"
	"github.com/tracksmith-io/tracksmith/internal/journal"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Record and review applied tracking changes",
	Long: `Maintain .telemetry/changelog.md, the dated history of tracking
changes that were actually applied.

'changelog add' records the current delta under a short id, and
'changelog show' prints the history, newest first.`,
}

var changelogAddCmd = &cobra.Command{
	Use:   "add [summary]",
	Short: "Record the current delta as an applied change",
	Args:  cobra.ArbitraryArgs,
	RunE:  runChangelogAdd,
}

var changelogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the recorded changes, newest first",
	RunE:  runChangelogShow,
}

func init() {
	rootCmd.AddCommand(changelogCmd)
	changelogCmd.AddCommand(changelogAddCmd)
	changelogCmd.AddCommand(changelogShowCmd)

	changelogAddCmd.Flags().String("summary", "", "Entry summary (default is built from the delta counts)")
}

func runChangelogAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)

	// The recorded counts come from the live artifacts, not delta.md.
	var d *delta.Delta
	if store.Exists(telemetry.CurrentStateFile) && store.Exists(telemetry.TrackingPlanFile) {
		state, err := store.LoadCurrentState()
		if err != nil {
			return err
		}
		p, err := store.LoadTrackingPlan()
		if err != nil {
			return err
		}
		d = delta.Compute(state, p)
	}

	summary, _ := cmd.Flags().GetString("summary")
	if summary == "" {
		summary = strings.TrimSpace(strings.Join(args, " "))
	}
	if summary == "" {
		if d != nil {
			summary = fmt.Sprintf("applied tracking plan delta (%d event change(s))", d.Total())
		} else {
			summary = "tracking plan update"
		}
	}

	entry, err := changelog.NewLog(store).Add(summary, d)
	if err != nil {
		return err
	}

	rec := journal.NewRecord("changelog add", projectRoot())
	rec.Counters["adds"] = entry.Adds
	rec.Counters["renames"] = entry.Renames
	rec.Counters["changes"] = entry.Changes
	rec.Counters["removes"] = entry.Removes
	logRun(cfg, rec.Done(nil))

	fmt.Printf("Recorded %s (%s) in %s\n", entry.ID, entry.Date.Format("2006-01-02"), store.Path(telemetry.ChangelogFile))
	return nil
}

func runChangelogShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	entries, err := changelog.NewLog(openStore(cfg)).Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No changelog entries yet. Run 'tracksmith changelog add' after applying changes.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s (%s)\n", e.Date.Format("2006-01-02"), e.ID)
		fmt.Printf("  %s\n", e.Summary)
		if e.Adds+e.Renames+e.Changes+e.Removes > 0 {
			fmt.Printf("  add: %d, rename: %d, change: %d, remove: %d\n", e.Adds, e.Renames, e.Changes, e.Removes)
		}
	}
	fmt.Printf("\n%d recorded change(s)\n", len(entries))
	return nil
}
