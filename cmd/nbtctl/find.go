package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jarva/nbtworkbench/batch"
	"github.com/Jarva/nbtworkbench/search"
	"github.com/Jarva/nbtworkbench/snbt"
)

var (
	findRegex         bool
	findPattern       bool
	findCaseSensitive bool
	findWorkers       int
)

func init() {
	cmd := newFindCmd()
	cmd.Flags().BoolVar(&findRegex, "regex", false, "Treat the query as a regular expression")
	cmd.Flags().BoolVar(&findPattern, "snbt", false, "Treat the query as a structural SNBT pattern")
	cmd.Flags().BoolVar(&findCaseSensitive, "case-sensitive", false, "Case-sensitive search")
	cmd.Flags().IntVar(&findWorkers, "workers", 4, "Number of files processed in parallel")
	rootCmd.AddCommand(cmd)
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <query> <file>...",
		Short: "Search keys and values across NBT, SNBT, and region files",
		Long: `The find command searches every given file for the query.
By default the query is a substring matched against keys and scalar values
(case-insensitive). --regex switches to regular-expression matching, and
--snbt matches a partial tag structure instead, e.g. '{health:20s}'.

Example:
  nbtctl find "Steve" level.dat r.0.0.mca
  nbtctl find "^minecraft:" --regex --case-sensitive r.0.0.mca
  nbtctl find '{id:"minecraft:chest"}' --snbt r.0.0.mca`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, args)
		},
	}
}

func buildQuery(raw string) (search.Query, error) {
	switch {
	case findRegex && findPattern:
		return nil, fmt.Errorf("--regex and --snbt are mutually exclusive")
	case findRegex:
		expr := raw
		if !findCaseSensitive {
			expr = "(?i)" + expr
		}
		return search.NewRegex(expr)
	case findPattern:
		want, err := snbt.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		return search.NewPattern(want), nil
	default:
		return search.NewSubstring(raw, findCaseSensitive), nil
	}
}

func runFind(cmd *cobra.Command, args []string) error {
	query, files := args[0], args[1:]

	q, err := buildQuery(query)
	if err != nil {
		return err
	}
	printVerbose("Searching %d file(s) for %q\n", len(files), query)

	r := &batch.Runner{Workers: findWorkers, Log: logger()}
	rep, err := r.Find(cmd.Context(), files, q)
	if err != nil {
		return err
	}

	currentFile := ""
	for _, f := range rep.Findings {
		if f.File != currentFile {
			printInfo("%s\n", f.File)
			currentFile = f.File
		}
		loc := f.Match.Path.String()
		if f.Chunk != "" {
			loc = fmt.Sprintf("chunk(%s)%s", f.Chunk, loc)
		}
		printInfo("  %s\n", loc)
	}

	for _, fe := range rep.Errors {
		printInfo("failed: %s: %v\n", fe.File, fe.Err)
	}
	printInfo("Total: %d match(es) in %d file(s), %d error(s)\n",
		len(rep.Findings), rep.Files, len(rep.Errors))
	if len(rep.Errors) > 0 {
		return fmt.Errorf("%d file(s) failed", len(rep.Errors))
	}
	return nil
}
