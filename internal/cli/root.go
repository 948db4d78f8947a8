package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tracksmith-io/tracksmith/internal/config"
	"github.com/tracksmith-io/tracksmith/internal/journal"
	"github.com/tracksmith-io/tracksmith/internal/scanner"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
	"github.com/tracksmith-io/tracksmith/internal/version"
)

var (
	cfgFile   string
	targetDir string
)

var rootCmd = &cobra.Command{
	Use:   "tracksmith",
	Short: "Tracksmith - Audit and plan product analytics instrumentation",
	Long: `Tracksmith reads a repository, finds the analytics calls that are already
there, and turns them into reviewable artifacts: a current-state inventory,
a tracking plan, and a delta between the two. It never sends events anywhere;
everything it produces is a file under .telemetry/ that you commit.

Example:
  tracksmith init
  tracksmith audit --write
  tracksmith plan init
  tracksmith delta --check`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .tracksmith.yaml)")
	rootCmd.PersistentFlags().StringVar(&targetDir, "dir", ".", "repository to operate on")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(projectRoot())
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tracksmith")
	}

	viper.SetEnvPrefix("TRACKSMITH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// projectRoot resolves the --dir flag to an absolute path.
func projectRoot() string {
	root, err := filepath.Abs(targetDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error resolving repository directory:", err)
		os.Exit(1)
	}
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) *telemetry.Store {
	return telemetry.NewStore(projectRoot(), cfg.Telemetry.Dir)
}

func scanOptions(cfg *config.Config) scanner.Options {
	return scanner.Options{
		MaxFiles: cfg.Scan.MaxFiles,
		Include:  cfg.Scan.Include,
		Exclude:  cfg.Scan.Exclude,
	}
}

// logRun appends the record to the run journal. Journaling never fails a
// command; problems only surface under --verbose.
func logRun(cfg *config.Config, rec journal.RunRecord) {
	if !cfg.JournalEnabled() {
		return
	}
	sink, err := journal.Open(filepath.Join(projectRoot(), cfg.Journal.Path))
	if err != nil {
		verbosef("journal: %v", err)
		return
	}
	defer func() { _ = sink.Close() }()
	if err := sink.Write(rec); err != nil {
		verbosef("journal: %v", err)
	}
}

// logRunDefault journals under default settings, for commands that run
// before a config file exists.
func logRunDefault(rec journal.RunRecord) {
	cfg, err := loadConfig()
	if err != nil {
		return
	}
	logRun(cfg, rec)
}

func verbosef(format string, args ...interface{}) {
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
