package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jarva/nbtworkbench/nbt"
	"github.com/Jarva/nbtworkbench/region"
	"github.com/Jarva/nbtworkbench/search"
	"github.com/Jarva/nbtworkbench/snbt"
)

func playerTag(t *testing.T, name string) *nbt.Tag {
	t.Helper()
	root := nbt.NewCompound()
	require.NoError(t, root.Compound().Append("name", nbt.NewString(name)))
	require.NoError(t, root.Compound().Append("health", nbt.NewShort(20)))
	return root
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

// -----------------------------------------------------------------------------
// Sniffing
// -----------------------------------------------------------------------------

func TestSniff_ClassifiesByContentNotExtension(t *testing.T) {
	gz, err := nbt.EncodeFile(playerTag(t, "Steve"), "", nbt.CompressionGzip)
	require.NoError(t, err)
	require.Equal(t, FormatGzip, Sniff(gz))

	zl, err := nbt.EncodeFile(playerTag(t, "Steve"), "", nbt.CompressionZlib)
	require.NoError(t, err)
	require.Equal(t, FormatZlib, Sniff(zl))

	raw, err := nbt.EncodeFile(playerTag(t, "Steve"), "", nbt.CompressionNone)
	require.NoError(t, err)
	require.Equal(t, FormatRawNBT, Sniff(raw))

	reg := region.New()
	require.NoError(t, reg.WriteChunk(0, 0, playerTag(t, "Steve"), nbt.CompressionZlib))
	require.Equal(t, FormatRegion, Sniff(reg.Bytes()))

	require.Equal(t, FormatText, Sniff([]byte("  \n{name:Steve}")))
	require.Equal(t, FormatUnknown, Sniff([]byte("plain prose, not a tag")))
	require.Equal(t, FormatUnknown, Sniff(nil))
}

// -----------------------------------------------------------------------------
// Find
// -----------------------------------------------------------------------------

func TestFind_AcrossMixedFileFormats(t *testing.T) {
	dir := t.TempDir()

	gz, err := nbt.EncodeFile(playerTag(t, "Steve"), "", nbt.CompressionGzip)
	require.NoError(t, err)
	a := writeFile(t, dir, "a.dat", gz)

	b := writeFile(t, dir, "b.snbt", []byte(snbt.Encode(playerTag(t, "Stevie"), false)))

	reg := region.New()
	require.NoError(t, reg.WriteChunk(3, 7, playerTag(t, "Steven"), nbt.CompressionZlib))
	require.NoError(t, reg.WriteChunk(4, 7, playerTag(t, "Alex"), nbt.CompressionZlib))
	c := writeFile(t, dir, "c.mca", reg.Bytes())

	r := &Runner{Workers: 4}
	rep, err := r.Find(context.Background(), []string{a, b, c}, search.NewSubstring("eve", true))
	require.NoError(t, err)
	require.Empty(t, rep.Errors)
	require.Equal(t, 3, rep.Files)

	require.Len(t, rep.Findings, 3)
	require.Equal(t, a, rep.Findings[0].File)
	require.Equal(t, "", rep.Findings[0].Chunk)
	require.Equal(t, b, rep.Findings[1].File)
	require.Equal(t, c, rep.Findings[2].File)
	require.Equal(t, "3,7", rep.Findings[2].Chunk)
	require.Equal(t, ".name", rep.Findings[2].Match.Path.String())
}

func TestFind_RegionFindingsOrderChunksNumerically(t *testing.T) {
	dir := t.TempDir()

	reg := region.New()
	for _, x := range []int{2, 10, 0} {
		require.NoError(t, reg.WriteChunk(x, 0, playerTag(t, "Steve"), nbt.CompressionZlib))
	}
	require.NoError(t, reg.WriteChunk(1, 2, playerTag(t, "Steve"), nbt.CompressionZlib))
	p := writeFile(t, dir, "r.mca", reg.Bytes())

	r := &Runner{Workers: 2}
	rep, err := r.Find(context.Background(), []string{p}, search.NewSubstring("eve", true))
	require.NoError(t, err)
	require.Empty(t, rep.Errors)

	// Scan order, not lexicographic: "2,0" before "10,0".
	var order []string
	for _, f := range rep.Findings {
		order = append(order, f.Chunk)
	}
	require.Equal(t, []string{"0,0", "2,0", "10,0", "1,2"}, order)
}

func TestFind_CorruptFileIsReportedNotFatal(t *testing.T) {
	dir := t.TempDir()

	bad := writeFile(t, dir, "bad.dat", []byte{0x1F, 0x8B, 0xFF, 0xFF})
	gz, err := nbt.EncodeFile(playerTag(t, "Steve"), "", nbt.CompressionGzip)
	require.NoError(t, err)
	good := writeFile(t, dir, "good.dat", gz)

	r := &Runner{Workers: 2}
	rep, err := r.Find(context.Background(), []string{bad, good}, search.NewSubstring("eve", true))
	require.NoError(t, err)
	require.Len(t, rep.Errors, 1)
	require.Equal(t, bad, rep.Errors[0].File)
	require.Len(t, rep.Findings, 1)
	require.Equal(t, good, rep.Findings[0].File)
}

func TestFind_MissingFileIsReported(t *testing.T) {
	r := &Runner{}
	rep, err := r.Find(context.Background(), []string{"/nonexistent/x.dat"}, search.NewSubstring("x", true))
	require.NoError(t, err)
	require.Len(t, rep.Errors, 1)
}

func TestFind_CancelledContextStopsTheBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{}
	_, err := r.Find(ctx, []string{"/nonexistent/x.dat"}, search.NewSubstring("x", true))
	require.ErrorIs(t, err, context.Canceled)
}

// -----------------------------------------------------------------------------
// Reformat
// -----------------------------------------------------------------------------

func TestReformat_BinaryToTextAndBack(t *testing.T) {
	dir := t.TempDir()
	orig := playerTag(t, "Steve")

	gz, err := nbt.EncodeFile(orig, "", nbt.CompressionGzip)
	require.NoError(t, err)
	p := writeFile(t, dir, "player.dat", gz)

	r := &Runner{}
	rep, err := r.Reformat(context.Background(), []string{p}, Target{Text: true, Pretty: true})
	require.NoError(t, err)
	require.Empty(t, rep.Errors)

	text, err := os.ReadFile(p)
	require.NoError(t, err)
	back, err := snbt.Decode(string(text))
	require.NoError(t, err)
	require.True(t, orig.Equal(back))

	rep, err = r.Reformat(context.Background(), []string{p}, Target{Scheme: nbt.CompressionZlib})
	require.NoError(t, err)
	require.Empty(t, rep.Errors)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, FormatZlib, Sniff(data))
	root, _, scheme, err := nbt.DecodeFile(data)
	require.NoError(t, err)
	require.Equal(t, nbt.CompressionZlib, scheme)
	require.True(t, orig.Equal(root))
}

func TestReformat_RegionRecompressesChunks(t *testing.T) {
	dir := t.TempDir()

	reg := region.New()
	require.NoError(t, reg.WriteChunk(0, 0, playerTag(t, "Steve"), nbt.CompressionGzip))
	require.NoError(t, reg.WriteChunk(1, 0, playerTag(t, "Alex"), nbt.CompressionZlib))
	p := writeFile(t, dir, "r.0.0.mca", reg.Bytes())

	r := &Runner{}
	rep, err := r.Reformat(context.Background(), []string{p}, Target{Scheme: nbt.CompressionZlib})
	require.NoError(t, err)
	require.Empty(t, rep.Errors)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	back, err := region.Open(data)
	require.NoError(t, err)
	for x := 0; x < 2; x++ {
		chunk, err := back.ReadChunk(x, 0)
		require.NoError(t, err)
		require.Equal(t, nbt.CompressionZlib, chunk.Scheme)
	}
}

func TestReformat_RegionToTextIsRejectedPerFile(t *testing.T) {
	dir := t.TempDir()

	reg := region.New()
	require.NoError(t, reg.WriteChunk(0, 0, playerTag(t, "Steve"), nbt.CompressionZlib))
	p := writeFile(t, dir, "r.mca", reg.Bytes())

	r := &Runner{}
	rep, err := r.Reformat(context.Background(), []string{p}, Target{Text: true})
	require.NoError(t, err)
	require.Len(t, rep.Errors, 1)
}
