package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/prox/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  "Prints the merged configuration (defaults, config files, PROX_* environment) as YAML.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	var sources []string
	if user := config.UserFile(); user != "" {
		sources = append(sources, user)
	}
	sources = append(sources, config.ProjectFile)
	if configPath != "" {
		sources = append(sources, configPath)
	}
	for _, s := range sources {
		state := "not found"
		if _, err := os.Stat(s); err == nil {
			state = "loaded"
		}
		fmt.Fprintf(out, "# %s: %s\n", s, state)
	}

	doc, err := cfg.YAML()
	if err != nil {
		return fail(err)
	}
	fmt.Fprint(out, doc)
	return nil
}
