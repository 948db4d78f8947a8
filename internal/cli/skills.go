package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/tracksmith-io/tracksmith/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage the bundled agent skills",
	Long: `Work with the agent skills bundled into Tracksmith: phase-ordered
playbooks that teach an AI coding agent how to run the instrumentation
workflow against a repository.

'skills list' shows what is bundled, 'skills show' prints one skill, and
'skills install' copies them into .claude/skills/ for agents to pick up.`,
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bundled skills",
	RunE:  runSkillsList,
}

var skillsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print one bundled skill",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkillsShow,
}

var skillsInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the skills into .claude/skills/",
	RunE:  runSkillsInstall,
}

func init() {
	rootCmd.AddCommand(skillsCmd)
	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsShowCmd)
	skillsCmd.AddCommand(skillsInstallCmd)

	skillsListCmd.Flags().String("phase", "", "Only list skills for this workflow phase")
	skillsShowCmd.Flags().Bool("raw", false, "Print the raw markdown without rendering")
	skillsInstallCmd.Flags().Bool("force", false, "Overwrite locally modified skills")
}

func runSkillsList(cmd *cobra.Command, args []string) error {
	manifest, err := skills.LoadManifest()
	if err != nil {
		return err
	}

	phase, _ := cmd.Flags().GetString("phase")

	fmt.Printf("%-15s %-22s %s\n", "NAME", "PHASES", "DESCRIPTION")
	fmt.Println(strings.Repeat("-", 80))

	count := 0
	for _, entry := range manifest.Skills {
		if phase != "" && !entryMatchesPhase(entry, phase) {
			continue
		}
		phases := strings.Join(entry.Phases, ", ")
		if phases == "" {
			phases = "all"
		}
		fmt.Printf("%-15s %-22s %s\n", entry.Name, phases, entry.Description)
		count++
	}

	fmt.Printf("\n%d skill(s)\n", count)
	return nil
}

func entryMatchesPhase(entry skills.SkillEntry, phase string) bool {
	if len(entry.Phases) == 0 {
		return true
	}
	for _, p := range entry.Phases {
		if p == phase {
			return true
		}
	}
	return false
}

func runSkillsShow(cmd *cobra.Command, args []string) error {
	manifest, err := skills.LoadManifest()
	if err != nil {
		return err
	}
	loaded, err := skills.LoadSkills(manifest)
	if err != nil {
		return err
	}
	selector := skills.NewSelector(loaded)

	name := strings.TrimPrefix(args[0], "tracksmith-")
	skill, ok := selector.ByName(name)
	if !ok {
		names := make([]string, 0, len(loaded))
		for _, s := range loaded {
			names = append(names, s.Entry.Name)
		}
		return fmt.Errorf("unknown skill %q (available: %s)", args[0], strings.Join(names, ", "))
	}

	body := skill.Body()
	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		fmt.Print(body)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(body)
		return nil
	}
	out, err := renderer.Render(body)
	if err != nil {
		fmt.Print(body)
		return nil
	}
	fmt.Print(out)
	return nil
}

func runSkillsInstall(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	force, _ := cmd.Flags().GetBool("force")

	if err := skills.InstallProjectSkills(root, force); err != nil {
		return err
	}

	manifest, err := skills.LoadManifest()
	if err != nil {
		return err
	}
	for _, entry := range manifest.Skills {
		fmt.Printf("  %s\n", skills.InstalledName(entry))
	}
	fmt.Printf("Installed %d skill(s) into %s\n", len(manifest.Skills), filepath.Join(root, ".claude", "skills"))
	return nil
}
