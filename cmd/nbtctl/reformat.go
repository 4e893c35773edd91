package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jarva/nbtworkbench/batch"
	"github.com/Jarva/nbtworkbench/nbt"
)

var (
	reformatTo      string
	reformatWorkers int
)

func init() {
	cmd := newReformatCmd()
	cmd.Flags().StringVar(&reformatTo, "to", "gzip", "Target form: gzip, zlib, lz4, none, snbt, snbt-pretty")
	cmd.Flags().IntVar(&reformatWorkers, "workers", 4, "Number of files processed in parallel")
	rootCmd.AddCommand(cmd)
}

func newReformatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reformat <file>...",
		Short: "Rewrite files into a different container or text form",
		Long: `The reformat command rewrites each file in place into the target
form. Standalone files convert freely between compression schemes and SNBT
text; region files recompress every chunk to the target scheme.

Example:
  nbtctl reformat --to zlib level.dat
  nbtctl reformat --to snbt-pretty player.dat
  nbtctl reformat --to lz4 r.0.0.mca r.0.1.mca`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReformat(cmd, args)
		},
	}
}

func parseTarget(s string) (batch.Target, error) {
	switch s {
	case "gzip":
		return batch.Target{Scheme: nbt.CompressionGzip}, nil
	case "zlib":
		return batch.Target{Scheme: nbt.CompressionZlib}, nil
	case "lz4":
		return batch.Target{Scheme: nbt.CompressionLZ4}, nil
	case "none", "raw":
		return batch.Target{Scheme: nbt.CompressionNone}, nil
	case "snbt":
		return batch.Target{Text: true}, nil
	case "snbt-pretty":
		return batch.Target{Text: true, Pretty: true}, nil
	default:
		return batch.Target{}, fmt.Errorf("unknown target %q", s)
	}
}

func runReformat(cmd *cobra.Command, args []string) error {
	target, err := parseTarget(reformatTo)
	if err != nil {
		return err
	}
	printVerbose("Reformatting %d file(s) to %s\n", len(args), reformatTo)

	r := &batch.Runner{Workers: reformatWorkers, Log: logger()}
	rep, err := r.Reformat(cmd.Context(), args, target)
	if err != nil {
		return err
	}

	for _, fe := range rep.Errors {
		printInfo("failed: %s: %v\n", fe.File, fe.Err)
	}
	printInfo("Reformatted %d of %d file(s)\n", rep.Files-len(rep.Errors), rep.Files)
	if len(rep.Errors) > 0 {
		return fmt.Errorf("%d file(s) failed", len(rep.Errors))
	}
	return nil
}
