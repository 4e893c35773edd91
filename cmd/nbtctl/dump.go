package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jarva/nbtworkbench/batch"
	"github.com/Jarva/nbtworkbench/nbt"
	"github.com/Jarva/nbtworkbench/region"
	"github.com/Jarva/nbtworkbench/snbt"
)

var (
	dumpCompact bool
	dumpChunkX  int
	dumpChunkZ  int
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().BoolVar(&dumpCompact, "compact", false, "Single-line output instead of pretty")
	cmd.Flags().IntVar(&dumpChunkX, "x", 0, "Chunk x coordinate (region files)")
	cmd.Flags().IntVar(&dumpChunkZ, "z", 0, "Chunk z coordinate (region files)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print a file as SNBT text",
		Long: `The dump command decodes a file and prints its tag tree as SNBT.
Standalone files print their root; for region files, pick one chunk with
--x and --z.

Example:
  nbtctl dump player.dat
  nbtctl dump --compact player.dat
  nbtctl dump --x 3 --z 7 r.0.0.mca`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
}

func runDump(args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var root *nbt.Tag
	switch f := batch.Sniff(data); f {
	case batch.FormatRegion:
		reg, err := region.Open(data)
		if err != nil {
			return err
		}
		chunk, err := reg.ReadChunk(dumpChunkX, dumpChunkZ)
		if err != nil {
			return err
		}
		if chunk == nil {
			return fmt.Errorf("no chunk at (%d,%d)", dumpChunkX, dumpChunkZ)
		}
		root = chunk.Root
	case batch.FormatGzip, batch.FormatZlib, batch.FormatRawNBT:
		root, _, _, err = nbt.DecodeFile(data)
		if err != nil {
			return err
		}
	case batch.FormatText:
		root, err = snbt.Decode(string(data))
		if err != nil {
			return err
		}
	default:
		return batch.ErrUnknownFormat
	}

	fmt.Println(snbt.Encode(root, !dumpCompact))
	return nil
}
