package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/prox/internal/app"
	"github.com/corey/prox/internal/config"
	"github.com/corey/prox/internal/domain/proximity"
)

// queryFlags are shared by search and watch. Unset flags fall back to config.
type queryFlags struct {
	gap        int
	ignoreCase bool
	words      bool
	metric     string
	maxCount   int
	algorithm  string
	workers    int
	color      string
	noColor    bool
}

func (f *queryFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.gap, "gap", "g", 0, "Maximum gap between the terms (default from config)")
	fs.BoolVarP(&f.ignoreCase, "ignore-case", "i", false, "ASCII case-insensitive matching (--ignore-case=false overrides config)")
	fs.BoolVarP(&f.words, "words", "w", false, "Measure the gap in whole words (same as --metric words)")
	fs.StringVar(&f.metric, "metric", "", "Gap metric: chars or words (default from config)")
	fs.IntVarP(&f.maxCount, "max-count", "m", 0, "Stop after N matches per input")
	fs.StringVar(&f.algorithm, "algo", "", "Matcher: auto, naive, skip, automaton")
	fs.IntVar(&f.workers, "workers", 0, "Parallel linker workers per input")
	fs.StringVar(&f.color, "color", "auto", "Color output: auto, always, never")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable color output")
}

// apply copies explicitly set tuning flags onto c and revalidates it.
func (f *queryFlags) apply(cmd *cobra.Command, c *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("max-count") {
		c.Search.MaxMatches = f.maxCount
	}
	if fs.Changed("algo") {
		c.Search.Algorithm = f.algorithm
	}
	if fs.Changed("workers") {
		c.Search.Workers = f.workers
	}
	return c.Validate()
}

// query builds the app query from the two terms, the flags and config defaults.
func (f *queryFlags) query(cmd *cobra.Command, c *config.Config, termA, termB string) (app.Query, error) {
	fs := cmd.Flags()

	gap := c.Search.Gap
	if fs.Changed("gap") {
		gap = f.gap
	}
	if gap < 0 || gap > c.Search.MaxGap {
		return app.Query{}, fmt.Errorf("invalid gap value %d: must be between 0 and %d", gap, c.Search.MaxGap)
	}

	name := c.Search.GapMetric
	if fs.Changed("metric") {
		name = f.metric
	}
	if f.words {
		name = "words"
	}
	metric, err := proximity.ParseGapMetric(name)
	if err != nil {
		return app.Query{}, err
	}

	ci := c.Search.CaseInsensitive
	if fs.Changed("ignore-case") {
		ci = f.ignoreCase
	}

	return app.Query{
		TermA:           termA,
		TermB:           termB,
		Gap:             gap,
		CaseInsensitive: ci,
		Metric:          metric,
	}, nil
}
