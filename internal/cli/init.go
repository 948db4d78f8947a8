package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tracksmith-io/tracksmith/internal/cli/wizard"
	"github.com/tracksmith-io/tracksmith/internal/journal"
	"github.com/tracksmith-io/tracksmith/internal/productmd"
	"github.com/tracksmith-io/tracksmith/internal/scanner"
	"github.com/tracksmith-io/tracksmith/internal/skills"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize tracking configuration for a repository",
	Long: `Initialize Tracksmith for a repository.

This scans the repository, asks you to confirm what it found, and creates
a .tracksmith.yaml config plus the .telemetry/ artifact directory seeded
with business-case.md and product.md.

Example:
  tracksmith init
  tracksmith init --yes --sdk segment`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("name", "", "Project name (default is the repository directory name)")
	initCmd.Flags().String("sdk", "", "Analytics SDK to target (segment, amplitude, mixpanel, posthog, accoil, rudderstack)")
	initCmd.Flags().String("variant", "", "SDK variant (browser, node)")
	initCmd.Flags().Bool("yes", false, "Accept detected values without prompting")
	initCmd.Flags().Bool("skills", false, "Also install agent skills into .claude/skills")
	initCmd.Flags().Bool("force", false, "Overwrite existing config")
}

type fileConfig struct {
	Project struct {
		Name string `yaml:"name"`
	} `yaml:"project"`
	Telemetry struct {
		Dir string `yaml:"dir"`
	} `yaml:"telemetry"`
	SDK struct {
		Name    string `yaml:"name,omitempty"`
		Variant string `yaml:"variant,omitempty"`
	} `yaml:"sdk,omitempty"`
	Conventions struct {
		RequireDescriptions bool `yaml:"require_descriptions"`
	} `yaml:"conventions"`
	Journal struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"journal"`
}

func runInit(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	configPath := filepath.Join(root, ".tracksmith.yaml")

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	info, err := scanner.New(root).Scan()
	if err != nil {
		return fmt.Errorf("scan repository: %w", err)
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		info, err = wizard.ConfirmProjectInfo(info)
		if err != nil {
			return err
		}
	}
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		info.Name = name
	}

	cfg := fileConfig{}
	cfg.Project.Name = info.Name
	cfg.Telemetry.Dir = telemetry.DefaultDir
	cfg.Conventions.RequireDescriptions = false
	cfg.Journal.Enabled = true

	cfg.SDK.Name, _ = cmd.Flags().GetString("sdk")
	cfg.SDK.Variant, _ = cmd.Flags().GetString("variant")
	if cfg.SDK.Name == "" {
		switch {
		case len(info.SDKs) == 1:
			cfg.SDK.Name = info.SDKs[0].Name
			cfg.SDK.Variant = info.SDKs[0].Variant
		case len(info.SDKs) > 1 && !yes:
			name, variant, err := wizard.ChooseSDK(info.SDKs)
			if err != nil {
				return err
			}
			cfg.SDK.Name = string(name)
			cfg.SDK.Variant = string(variant)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := `# Tracksmith Configuration
# See https://github.com/tracksmith-io/tracksmith for documentation

`

	if err := os.WriteFile(configPath, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	store := telemetry.NewStore(root, "")
	if err := store.EnsureDir(); err != nil {
		return fmt.Errorf("create %s: %w", store.Dir(), err)
	}

	gen, err := productmd.NewGenerator()
	if err != nil {
		return err
	}
	if info.FileCount == 0 {
		err = gen.WriteGreenfield(store, info.Name)
	} else {
		err = gen.WriteProduct(store, info)
	}
	if err != nil {
		return err
	}
	if err := gen.WriteBusinessCase(store, info); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Printf("Created %s\n", store.Path(telemetry.ProductFile))
	fmt.Printf("Created %s\n", store.Path(telemetry.BusinessCaseFile))

	if withSkills, _ := cmd.Flags().GetBool("skills"); withSkills {
		if err := skills.InstallProjectSkills(root, force); err != nil {
			return err
		}
		fmt.Printf("Installed agent skills into %s\n", filepath.Join(root, ".claude", "skills"))
	}

	rec := journal.NewRecord("init", root)
	rec.Counters["files"] = info.FileCount
	rec.Counters["sdks"] = len(info.SDKs)
	logRunDefault(rec.Done(nil))

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Fill in the placeholders in business-case.md")
	fmt.Println("  2. Run 'tracksmith audit --write' to inventory existing tracking")
	fmt.Println("  3. Run 'tracksmith plan init' to draft a tracking plan")
	fmt.Println("  4. Run 'tracksmith delta' to see what needs to change")

	return nil
}
