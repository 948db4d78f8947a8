package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tracksmith-io/tracksmith/internal/changelog"
	"github.com/tracksmith-io/tracksmith/internal/journal"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

var (
	statusOKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	statusBlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	statusMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show artifact and workflow phase status",
	Long: `Show where the repository is in the instrumentation workflow: which
artifacts exist under .telemetry/, which phases are ready to run, and
what the last recorded run did.

Example:
  tracksmith status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)

	name := cfg.Project.Name
	if name == "" {
		name = filepath.Base(projectRoot())
	}
	if cfg.SDK.Name != "" {
		fmt.Printf("Project: %s (%s %s)\n\n", name, cfg.SDK.Name, cfg.SDK.Variant)
	} else {
		fmt.Printf("Project: %s\n\n", name)
	}

	fmt.Printf("%-22s %-10s %s\n", "ARTIFACT", "STATUS", "MODIFIED")
	fmt.Println(strings.Repeat("-", 56))
	for _, a := range store.Artifacts() {
		if a.Present {
			fmt.Printf("%-22s %-10s %s\n", a.Name, statusOKStyle.Render("present"), a.ModTime.Format("2006-01-02 15:04"))
		} else {
			fmt.Printf("%-22s %s\n", a.Name, statusMutedStyle.Render("-"))
		}
	}

	fmt.Println("\nPhases:")
	for _, phase := range telemetry.Phases() {
		ok, reason := telemetry.CanAdvanceToPhase(store, phase)
		if ok {
			fmt.Printf("  %s %s\n", statusOKStyle.Render("ready"), phase)
		} else {
			fmt.Printf("  %s %s\n", statusBlockedStyle.Render("blocked"), phase)
			fmt.Printf("          %s\n", statusMutedStyle.Render(reason))
		}
	}

	if entry, ok, err := changelog.NewLog(store).Latest(); err == nil && ok {
		fmt.Printf("\nLast change: %s (%s) %s\n", entry.Date.Format("2006-01-02"), entry.ID, entry.Summary)
	}

	if rec, ok := lastRun(filepath.Join(projectRoot(), cfg.Journal.Path)); ok {
		fmt.Printf("\nLast run: %s, %s%s\n", rec.Command, rec.Time.Format("2006-01-02 15:04"), formatCounters(rec.Counters))
	}
	return nil
}

// lastRun reads the final journal record, if the journal exists.
func lastRun(path string) (journal.RunRecord, bool) {
	if _, err := os.Stat(path); err != nil {
		return journal.RunRecord{}, false
	}
	records, err := journal.Read(path)
	if err != nil || len(records) == 0 {
		return journal.RunRecord{}, false
	}
	return records[len(records)-1], true
}

func formatCounters(counters map[string]int) string {
	if len(counters) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counters[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
