package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jarva/nbtworkbench/batch"
	"github.com/Jarva/nbtworkbench/internal/format"
	"github.com/Jarva/nbtworkbench/nbt"
	"github.com/Jarva/nbtworkbench/region"
	"github.com/Jarva/nbtworkbench/snbt"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show format and structure statistics for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
}

func runInfo(args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	f := batch.Sniff(data)
	printInfo("File:   %s\n", args[0])
	printInfo("Size:   %d bytes\n", len(data))
	printInfo("Format: %s\n", f)

	switch f {
	case batch.FormatRegion:
		reg, err := region.Open(data)
		if err != nil {
			return err
		}
		printInfo("Chunks:  %d of %d slots\n", reg.Count(), format.RegionSlots)
		printInfo("Sectors: %d\n", reg.Sectors())
		var newest uint32
		for z := 0; z < format.RegionAxis; z++ {
			for x := 0; x < format.RegionAxis; x++ {
				if ts := reg.Timestamp(x, z); ts > newest {
					newest = ts
				}
			}
		}
		if newest > 0 {
			printInfo("Newest:  %s\n", time.Unix(int64(newest), 0).UTC().Format(time.RFC3339))
		}
	case batch.FormatGzip, batch.FormatZlib, batch.FormatRawNBT:
		root, name, scheme, err := nbt.DecodeFile(data)
		if err != nil {
			return err
		}
		printInfo("Scheme:  %s\n", scheme)
		printInfo("Root:    %q, %s\n", name, root.Kind())
		printInfo("Entries: %d\n", root.Len())
	case batch.FormatText:
		root, err := snbt.Decode(string(data))
		if err != nil {
			return err
		}
		printInfo("Root:    %s\n", root.Kind())
		printInfo("Entries: %d\n", root.Len())
	default:
		return batch.ErrUnknownFormat
	}
	return nil
}
