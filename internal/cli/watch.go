package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracksmith-io/tracksmith/internal/plan"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
	"github.com/tracksmith-io/tracksmith/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-audit on source changes and report drift live",
	Long: `Watch the repository and re-audit whenever source files change,
reporting drift against the tracking plan as it happens: events that
appear in code but not in the plan, and planned events that lose their
instrumentation.

Without a tracking plan, every observed event is reported as unplanned.
Stop with Ctrl-C.

Examples:
  tracksmith watch
  tracksmith watch --debounce 2s`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("debounce", 500*time.Millisecond, "Settle window after a change burst")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)

	var p *plan.TrackingPlan
	if store.Exists(telemetry.TrackingPlanFile) {
		p, err = store.LoadTrackingPlan()
		if err != nil {
			return err
		}
	} else {
		fmt.Println("No tracking plan found; reporting every observed event as unplanned")
	}

	root := projectRoot()
	debounce, _ := cmd.Flags().GetDuration("debounce")

	w := watch.New(root, p, watch.Options{
		Debounce: debounce,
		Scan:     scanOptions(cfg),
		OnReport: printWatchReport,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nStopping watch")
		cancel()
	}()

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", root)
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printWatchReport(r watch.Report) {
	stamp := r.At.Format("15:04:05")
	for _, line := range r.Lines() {
		fmt.Printf("[%s] %s\n", stamp, line)
	}
}
