package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/corey/prox/internal/config"
	"github.com/corey/prox/internal/logging"
)

var (
	configPath string
	debugLog   bool

	cfg      *config.Config
	logger   *slog.Logger
	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "prox",
	Short: "prox: find two terms near each other",
	Long: "Finds every occurrence of TERM_A followed by TERM_B within a gap limit,\n" +
		"measured in characters or whole words, on word boundaries.",
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { closeLog() },
	SilenceErrors:     true,
	SilenceUsage:      true,
}

// setup loads the config and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return fail(err)
	}

	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.FilePath = c.Logging.File
	lc.Format = c.Logging.Format
	if debugLog {
		lc.Level = "debug"
	}
	l, cleanup, err := logging.Setup(lc)
	if err != nil {
		return fail(err)
	}

	cfg, logger, closeLog = c, l, cleanup
	logger.Debug("config loaded", "command", cmd.Name(), "explicit", configPath)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (overrides ~/.config/prox/config.yaml and ./"+config.ProjectFile+")")
	pf.BoolVar(&debugLog, "debug", false, "Debug logging, including per-candidate traces")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}
