package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracksmith-io/tracksmith/internal/audit"
	"github.com/tracksmith-io/tracksmith/internal/journal"
	"github.com/tracksmith-io/tracksmith/internal/scanner"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inventory the analytics calls already in the codebase",
	Long: `Audit the repository for analytics instrumentation.

The auditor walks the source files, extracts track/identify/group calls and
event-name constant tables, and reports what is live, what is orphaned, and
which call sites it could not resolve.

With --write, the inventory is saved to .telemetry/current-state.yaml, the
input for 'tracksmith plan init' and 'tracksmith delta'.

Examples:
  tracksmith audit
  tracksmith audit --write`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().Bool("write", false, "Save the inventory to current-state.yaml")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := projectRoot()
	rec := journal.NewRecord("audit", root)

	info, err := scanner.NewWithOptions(root, scanOptions(cfg)).Scan()
	if err != nil {
		logRun(cfg, rec.Done(err))
		return fmt.Errorf("scan repository: %w", err)
	}

	state, err := audit.New(root, info).Run()
	if err != nil {
		logRun(cfg, rec.Done(err))
		return fmt.Errorf("audit repository: %w", err)
	}

	printCurrentState(state)

	if write, _ := cmd.Flags().GetBool("write"); write {
		store := openStore(cfg)
		if err := store.SaveCurrentState(state); err != nil {
			logRun(cfg, rec.Done(err))
			return err
		}
		fmt.Printf("\nWrote %s\n", store.Path(telemetry.CurrentStateFile))
	}

	rec.Counters["events"] = len(state.Events)
	rec.Counters["warnings"] = len(state.Warnings)
	logRun(cfg, rec.Done(nil))
	return nil
}

func printCurrentState(state *audit.CurrentState) {
	live := len(state.LiveEvents())
	orphaned := len(state.Events) - live

	fmt.Printf("Events: %d live, %d orphaned\n", live, orphaned)
	for _, e := range state.Events {
		origin := ""
		if e.Status == audit.StatusOrphaned {
			origin = "  (orphaned)"
		}
		fmt.Printf("  %-40s %d call site(s)%s\n", e.Name, len(e.Locations), origin)
	}

	if len(state.Identify.Locations) > 0 {
		fmt.Printf("Identify: %d call site(s), traits: %v\n", len(state.Identify.Locations), state.Identify.Traits)
	}
	if len(state.Group.Locations) > 0 {
		fmt.Printf("Group: %d call site(s), traits: %v\n", len(state.Group.Locations), state.Group.Traits)
	}

	if state.Patterns.Naming.Dominant != "" {
		fmt.Printf("Naming style: %s\n", state.Patterns.Naming.Dominant)
	}
	if state.Patterns.Centralization.WrapperDetected {
		fmt.Printf("Wrapper module: %v\n", state.Patterns.Centralization.WrapperFiles)
	}

	for _, w := range state.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s:%d: %s\n", w.File, w.Line, w.Message)
	}
}
