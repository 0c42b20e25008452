package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/prox/internal/app"
)

const stdinName = "(standard input)"

var (
	searchQuery  queryFlags
	searchFormat string
	searchCount  bool
	searchQuiet  bool
	searchNames  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <term-a> <term-b> [file ...]",
	Short: "Find term-a followed by term-b within a gap",
	Long: "Reports every occurrence of term-a that is followed by term-b within --gap,\n" +
		"linking each term-a to the nearest qualifying term-b. Reads stdin when no files are given.\n" +
		"Exit status is 0 if a match was found, 1 if none, 2 on error.",
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	searchQuery.register(searchCmd)
	f := searchCmd.Flags()
	f.StringVarP(&searchFormat, "format", "f", formatText, "Output format: text, json, wire")
	f.BoolVarP(&searchCount, "count", "c", false, "Print only the number of matches per input")
	f.BoolVarP(&searchQuiet, "quiet", "q", false, "Quiet mode (exit code only)")
	f.BoolVarP(&searchNames, "with-filename", "H", false, "Prefix each match with its file name")
}

func runSearch(cmd *cobra.Command, args []string) error {
	switch searchFormat {
	case formatText, formatJSON, formatWire:
	default:
		return fail(fmt.Errorf("unknown format %q (want text, json or wire)", searchFormat))
	}
	if err := searchQuery.apply(cmd, cfg); err != nil {
		return fail(err)
	}
	q, err := searchQuery.query(cmd, cfg, args[0], args[1])
	if err != nil {
		return fail(err)
	}
	q.KeepText = searchFormat == formatText && !searchCount && !searchQuiet

	a, err := app.New(cfg, logger)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	files := args[2:]
	var results []app.FileResult
	if len(files) == 0 {
		in := cmd.InOrStdin()
		if in == os.Stdin && !isStdinPipe() {
			return fail(errors.New("no input: pass files or pipe text on stdin"))
		}
		if err := a.Validate(q); err != nil {
			return fail(err)
		}
		results = []app.FileResult{a.SearchReader(stdinName, in, q)}
	} else {
		results, err = a.SearchFiles(cmd.Context(), files, q)
		if err != nil {
			return fail(err)
		}
	}

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), q)
	p.format = searchFormat
	p.color = resolveColor(searchQuery.color, searchQuery.noColor)
	p.withName = searchNames || len(files) > 1
	p.count = searchCount
	p.quiet = searchQuiet
	if err := p.print(results); err != nil {
		return fail(err)
	}
	return exitFor(results)
}
