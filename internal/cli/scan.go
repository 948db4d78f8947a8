package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracksmith-io/tracksmith/internal/cli/wizard"
	"github.com/tracksmith-io/tracksmith/internal/journal"
	"github.com/tracksmith-io/tracksmith/internal/productmd"
	"github.com/tracksmith-io/tracksmith/internal/scanner"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Detect languages, frameworks, and analytics SDKs",
	Long: `Scan the repository and report what Tracksmith can see: languages,
framework, package manager, analytics SDKs declared in dependency
manifests, and analytics-looking environment keys.

With --write, the findings are rendered into .telemetry/product.md.

Examples:
  tracksmith scan
  tracksmith scan --write --yes`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("write", false, "Render the findings into product.md")
	scanCmd.Flags().Bool("yes", false, "Skip the confirmation prompt when writing")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := projectRoot()
	rec := journal.NewRecord("scan", root)

	info, err := scanner.NewWithOptions(root, scanOptions(cfg)).Scan()
	if err != nil {
		logRun(cfg, rec.Done(err))
		return fmt.Errorf("scan repository: %w", err)
	}

	printProjectInfo(info)

	write, _ := cmd.Flags().GetBool("write")
	if write {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			info, err = wizard.ConfirmProjectInfo(info)
			if err != nil {
				return err
			}
		}

		gen, err := productmd.NewGenerator()
		if err != nil {
			return err
		}
		store := openStore(cfg)
		if info.FileCount == 0 {
			err = gen.WriteGreenfield(store, info.Name)
		} else {
			err = gen.WriteProduct(store, info)
		}
		if err != nil {
			logRun(cfg, rec.Done(err))
			return err
		}
		fmt.Printf("\nWrote %s\n", store.Path(telemetry.ProductFile))
	}

	rec.Counters["files"] = info.FileCount
	rec.Counters["sdks"] = len(info.SDKs)
	logRun(cfg, rec.Done(nil))
	return nil
}

func printProjectInfo(info *scanner.ProjectInfo) {
	fmt.Printf("Project: %s\n", info.Name)

	if len(info.Languages) > 0 {
		parts := make([]string, 0, len(info.Languages))
		for _, lang := range info.Languages {
			parts = append(parts, fmt.Sprintf("%s (%d files)", lang.Name, lang.FileCount))
		}
		fmt.Printf("Languages: %s\n", strings.Join(parts, ", "))
	}
	if info.Framework != "" {
		fmt.Printf("Framework: %s\n", info.Framework)
	}
	if info.PackageManager != "" {
		fmt.Printf("Package manager: %s\n", info.PackageManager)
	}

	if len(info.SDKs) == 0 {
		fmt.Println("Analytics SDKs: none detected")
	} else {
		fmt.Println("Analytics SDKs:")
		for _, sdk := range info.SDKs {
			variant := sdk.Variant
			if variant == "" {
				variant = "unknown"
			}
			fmt.Printf("  %-12s %-8s via %s\n", sdk.Name, variant, sdk.Manifest)
		}
	}

	if len(info.EnvKeys) > 0 {
		fmt.Printf("Analytics env keys: %s\n", strings.Join(info.EnvKeys, ", "))
	}

	fmt.Printf("Source files: %d\n", info.FileCount)
	if info.Truncated {
		fmt.Println("Note: file list truncated; raise scan.max_files to scan more")
	}
}
