package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tracksmith-io/tracksmith/internal/cli/wizard"
	"github.com/tracksmith-io/tracksmith/internal/journal"
	"github.com/tracksmith-io/tracksmith/internal/plan"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Create and validate the tracking plan",
	Long: `Work with the tracking plan, the declaration of what the product
should track.

'plan init' drafts one from the audited current state, 'plan validate'
checks it against the naming conventions, and 'plan template' seeds one
from a product-category starter.`,
}

var planInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Draft a tracking plan from the audited current state",
	Long: `Draft a tracking plan from .telemetry/current-state.yaml.

Observed event and property names are normalized to the naming conventions
(dot.notation events, snake_case properties), and the draft is opened for
review before it is saved.

Examples:
  tracksmith plan init
  tracksmith plan init --yes`,
	RunE: runPlanInit,
}

var planValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the tracking plan against the naming conventions",
	RunE:  runPlanValidate,
}

var planTemplateCmd = &cobra.Command{
	Use:   "template [category]",
	Short: "Seed a tracking plan from a product-category starter",
	Long: `Seed a tracking plan from a starter template.

Without arguments, lists the available categories. With a category, prints
the template to stdout, or saves it with --write.

Examples:
  tracksmith plan template
  tracksmith plan template saas --write`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlanTemplate,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planInitCmd)
	planCmd.AddCommand(planValidateCmd)
	planCmd.AddCommand(planTemplateCmd)

	planInitCmd.Flags().Bool("yes", false, "Save the draft without the review prompt")
	planInitCmd.Flags().Bool("force", false, "Overwrite an existing tracking plan")

	planTemplateCmd.Flags().Bool("write", false, "Save the template as the tracking plan")
	planTemplateCmd.Flags().Bool("force", false, "Overwrite an existing tracking plan")
}

func runPlanInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)

	if ok, reason := telemetry.CanAdvanceToPhase(store, telemetry.PhaseDesign); !ok {
		return fmt.Errorf("%s", reason)
	}

	force, _ := cmd.Flags().GetBool("force")
	if store.Exists(telemetry.TrackingPlanFile) && !force {
		return fmt.Errorf("tracking plan already exists at %s (use --force to overwrite)", store.Path(telemetry.TrackingPlanFile))
	}

	state, err := store.LoadCurrentState()
	if err != nil {
		return err
	}

	draft := plan.FromAudit(state)

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		draft, err = wizard.ReviewDraft(draft)
		if err != nil {
			return err
		}
	}

	if err := store.SaveTrackingPlan(draft); err != nil {
		return err
	}

	rec := journal.NewRecord("plan init", projectRoot())
	rec.Counters["events"] = len(draft.Events)
	logRun(cfg, rec.Done(nil))

	fmt.Printf("Wrote %s with %d event(s)\n", store.Path(telemetry.TrackingPlanFile), len(draft.Events))
	fmt.Println("Review the draft, then run 'tracksmith plan validate'")
	return nil
}

func runPlanValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)

	if !store.Exists(telemetry.TrackingPlanFile) {
		return fmt.Errorf("%s is missing; run %q first", store.Path(telemetry.TrackingPlanFile), "tracksmith plan init")
	}

	p, err := store.LoadTrackingPlan()
	if err != nil {
		return err
	}

	result := plan.Validate(p, plan.Options{
		EventPattern:        cfg.Conventions.EventPattern,
		PropertyPattern:     cfg.Conventions.PropertyPattern,
		RequireDescriptions: cfg.RequireDescriptions(),
	})

	for _, e := range result.Errors {
		fmt.Printf("error: %s: %s\n", e.Field, e.Message)
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	if !result.Valid {
		return fmt.Errorf("tracking plan has %d error(s)", len(result.Errors))
	}

	fmt.Printf("Tracking plan is valid: %d event(s)\n", len(p.Events))
	return nil
}

func runPlanTemplate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("Available categories:")
		for _, c := range plan.Categories() {
			fmt.Printf("  %s\n", c)
		}
		fmt.Println("\nRun 'tracksmith plan template <category>' to see one")
		return nil
	}

	tpl, err := plan.Template(args[0])
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(plan.Categories(), ", "))
	}

	write, _ := cmd.Flags().GetBool("write")
	if !write {
		data, err := yaml.Marshal(tpl)
		if err != nil {
			return fmt.Errorf("marshal template: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)

	force, _ := cmd.Flags().GetBool("force")
	if store.Exists(telemetry.TrackingPlanFile) && !force {
		return fmt.Errorf("tracking plan already exists at %s (use --force to overwrite)", store.Path(telemetry.TrackingPlanFile))
	}
	if err := store.SaveTrackingPlan(tpl); err != nil {
		return err
	}

	rec := journal.NewRecord("plan template", projectRoot())
	rec.Counters["events"] = len(tpl.Events)
	logRun(cfg, rec.Done(nil))

	fmt.Printf("Wrote %s from the %s template (%d events)\n", store.Path(telemetry.TrackingPlanFile), args[0], len(tpl.Events))
	return nil
}
