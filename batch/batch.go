package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Jarva/nbtworkbench/internal/format"
	"github.com/Jarva/nbtworkbench/internal/mmfile"
	"github.com/Jarva/nbtworkbench/nbt"
	"github.com/Jarva/nbtworkbench/region"
	"github.com/Jarva/nbtworkbench/search"
	"github.com/Jarva/nbtworkbench/snbt"
	"github.com/Jarva/nbtworkbench/tree"
)

// ErrUnknownFormat indicates input bytes that match no supported variant.
var ErrUnknownFormat = errors.New("batch: unrecognized file format")

// Finding locates one search hit. Chunk is empty for standalone files and
// "x,z" for hits inside a region chunk.
type Finding struct {
	File  string
	Chunk string
	Match search.Match
}

// FileError records a per-file failure that did not stop the batch.
type FileError struct {
	File string
	Err  error
}

// Report aggregates the outcome of one batch run. Findings are ordered by
// file, then chunk, then pre-order position within the tree.
type Report struct {
	Findings []Finding
	Files    int
	Errors   []FileError
}

// Runner executes batch workflows with a bounded worker pool. The zero
// value runs single-threaded with the default logger.
type Runner struct {
	Workers int
	Log     *slog.Logger
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return 1
}

func (r *Runner) log() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// run fans files out to the pool, collecting per-file findings and errors.
// Only context cancellation aborts the batch; processFile failures are
// recorded and the remaining files still run.
func (r *Runner) run(ctx context.Context, files []string, fn func(file string) ([]Finding, error)) (*Report, error) {
	rep := &Report{Files: len(files)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for _, file := range files {
		if err := gctx.Err(); err != nil {
			break
		}
		file := file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found, err := fn(file)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.log().Warn("batch: file failed", "file", file, "err", err)
				rep.Errors = append(rep.Errors, FileError{File: file, Err: err})
				return nil
			}
			rep.Findings = append(rep.Findings, found...)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	sort.SliceStable(rep.Findings, func(i, j int) bool {
		a, b := rep.Findings[i], rep.Findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return chunkLess(a.Chunk, b.Chunk)
	})
	sort.SliceStable(rep.Errors, func(i, j int) bool {
		return rep.Errors[i].File < rep.Errors[j].File
	})
	return rep, err
}

// chunkLess orders chunk labels numerically in region scan order (z-major),
// so "2,0" sorts before "10,0". The empty label of standalone files sorts
// first.
func chunkLess(a, b string) bool {
	ax, az := chunkCoords(a)
	bx, bz := chunkCoords(b)
	if az != bz {
		return az < bz
	}
	return ax < bx
}

func chunkCoords(s string) (int, int) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return -1, -1
	}
	x, _ := strconv.Atoi(xs)
	z, _ := strconv.Atoi(zs)
	return x, z
}

// Find runs a query against every file and returns the aggregated report.
func (r *Runner) Find(ctx context.Context, files []string, q search.Query) (*Report, error) {
	return r.run(ctx, files, func(file string) ([]Finding, error) {
		return r.findInFile(file, q)
	})
}

func (r *Runner) findInFile(file string, q search.Query) ([]Finding, error) {
	// Searching never mutates the input, so the file is mapped rather than
	// copied into memory.
	data, cleanup, err := mmfile.Map(file)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var out []Finding
	switch f := Sniff(data); f {
	case FormatRegion:
		reg, err := region.Open(data)
		if err != nil {
			return nil, err
		}
		// One chunk is decoded, searched, and dropped at a time.
		for z := 0; z < format.RegionAxis; z++ {
			for x := 0; x < format.RegionAxis; x++ {
				if !reg.Has(x, z) {
					continue
				}
				chunk, err := reg.ReadChunk(x, z)
				if err != nil {
					return nil, fmt.Errorf("chunk (%d,%d): %w", x, z, err)
				}
				coords := fmt.Sprintf("%d,%d", x, z)
				for _, m := range search.Run(tree.Wrap(chunk.Root), q) {
					out = append(out, Finding{File: file, Chunk: coords, Match: m})
				}
			}
		}
	case FormatGzip, FormatZlib, FormatRawNBT:
		root, _, _, err := nbt.DecodeFile(data)
		if err != nil {
			return nil, err
		}
		for _, m := range search.Run(tree.Wrap(root), q) {
			out = append(out, Finding{File: file, Match: m})
		}
	case FormatText:
		root, err := snbt.Decode(string(data))
		if err != nil {
			return nil, err
		}
		for _, m := range search.Run(tree.Wrap(root), q) {
			out = append(out, Finding{File: file, Match: m})
		}
	default:
		return nil, ErrUnknownFormat
	}

	r.log().Debug("batch: searched", "file", file, "matches", len(out))
	return out, nil
}

// Target selects the output form of a reformat run: text notation when Text
// is set (Pretty selects the multi-line form), otherwise a binary container
// with the given compression scheme.
type Target struct {
	Text   bool
	Pretty bool
	Scheme nbt.Compression
}

func (t Target) String() string {
	if t.Text {
		if t.Pretty {
			return "text/pretty"
		}
		return "text"
	}
	return t.Scheme.String()
}

// Reformat rewrites every file into the target form in place. Standalone
// files convert freely between binary containers and text notation; region
// files recompress each chunk to the target scheme and reject text targets.
func (r *Runner) Reformat(ctx context.Context, files []string, target Target) (*Report, error) {
	return r.run(ctx, files, func(file string) ([]Finding, error) {
		return nil, r.reformatFile(file, target)
	})
}

func (r *Runner) reformatFile(file string, target Target) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var out []byte
	switch f := Sniff(data); f {
	case FormatRegion:
		if target.Text {
			return fmt.Errorf("%w: region files have no text form", ErrUnknownFormat)
		}
		reg, err := region.Open(data)
		if err != nil {
			return err
		}
		for z := 0; z < format.RegionAxis; z++ {
			for x := 0; x < format.RegionAxis; x++ {
				if !reg.Has(x, z) {
					continue
				}
				chunk, err := reg.ReadChunk(x, z)
				if err != nil {
					return fmt.Errorf("chunk (%d,%d): %w", x, z, err)
				}
				if chunk.Scheme == target.Scheme {
					continue
				}
				chunk.Scheme = target.Scheme
				if err := reg.PutChunk(chunk); err != nil {
					return fmt.Errorf("chunk (%d,%d): %w", x, z, err)
				}
			}
		}
		out = reg.Bytes()
	case FormatGzip, FormatZlib, FormatRawNBT:
		root, name, scheme, err := nbt.DecodeFile(data)
		if err != nil {
			return err
		}
		if !target.Text && scheme == target.Scheme {
			return nil
		}
		out, err = r.encodeTarget(root, name, target)
		if err != nil {
			return err
		}
	case FormatText:
		root, err := snbt.Decode(string(data))
		if err != nil {
			return err
		}
		out, err = r.encodeTarget(root, "", target)
		if err != nil {
			return err
		}
	default:
		return ErrUnknownFormat
	}

	info, err := os.Stat(file)
	if err != nil {
		return err
	}
	if err := os.WriteFile(file, out, info.Mode().Perm()); err != nil {
		return err
	}
	r.log().Info("batch: reformatted", "file", file, "target", target.String())
	return nil
}

func (r *Runner) encodeTarget(root *nbt.Tag, name string, target Target) ([]byte, error) {
	if target.Text {
		return []byte(snbt.Encode(root, target.Pretty)), nil
	}
	return nbt.EncodeFile(root, name, target.Scheme)
}
