package snbt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jarva/nbtworkbench/nbt"
)

func playerTag(t *testing.T) *nbt.Tag {
	t.Helper()
	root := nbt.NewCompound()
	c := root.Compound()
	require.NoError(t, c.Append("name", nbt.NewString("Steve")))
	require.NoError(t, c.Append("health", nbt.NewShort(20)))
	pos := nbt.NewList()
	for _, v := range []float64{1.5, 64.0, -3.5} {
		require.NoError(t, pos.List().Append(nbt.NewDouble(v)))
	}
	require.NoError(t, c.Append("pos", pos))
	return root
}

// -----------------------------------------------------------------------------
// Encoding
// -----------------------------------------------------------------------------

func TestEncode_CompactPlayer(t *testing.T) {
	got := Encode(playerTag(t), false)
	require.Equal(t, "{name:Steve,health:20s,pos:[1.5d,64d,-3.5d]}", got)
}

func TestEncode_PrettyPlayer(t *testing.T) {
	want := `{
    name: Steve,
    health: 20s,
    pos: [
        1.5d,
        64d,
        -3.5d
    ]
}`
	require.Equal(t, want, Encode(playerTag(t), true))
}

func TestEncode_QuotesWhereBareWouldMisparse(t *testing.T) {
	root := nbt.NewCompound()
	c := root.Compound()
	require.NoError(t, c.Append("digits", nbt.NewString("123")))
	require.NoError(t, c.Append("bool", nbt.NewString("true")))
	require.NoError(t, c.Append("spaced", nbt.NewString("two words")))
	require.NoError(t, c.Append("empty", nbt.NewString("")))
	require.NoError(t, c.Append("esc", nbt.NewString(`say "hi"\`)))

	got := Encode(root, false)
	require.Equal(t, `{digits:"123",bool:"true",spaced:"two words",empty:"",esc:"say \"hi\"\\"}`, got)
}

func TestEncode_QuotedKeyWhenNotBare(t *testing.T) {
	root := nbt.NewCompound()
	require.NoError(t, root.Compound().Append("with space", nbt.NewInt(1)))
	require.NoError(t, root.Compound().Append("12", nbt.NewInt(2)))
	require.Equal(t, `{"with space":1,12:2}`, Encode(root, false))
}

func TestEncode_TypedArraysStayInlineInPrettyForm(t *testing.T) {
	root := nbt.NewCompound()
	require.NoError(t, root.Compound().Append("raw", nbt.NewByteArray([]int8{1, -2, 3})))
	want := "{\n    raw: [B;1b,-2b,3b]\n}"
	require.Equal(t, want, Encode(root, true))
}

func TestEncode_NonFiniteFloats(t *testing.T) {
	require.Equal(t, "NaNd", Encode(nbt.NewDouble(math.NaN()), false))
	require.Equal(t, "NaNf", Encode(nbt.NewFloat(float32(math.NaN())), false))
	require.Equal(t, "Infinityf", Encode(nbt.NewFloat(float32(math.Inf(1))), false))
	require.Equal(t, "-Infinityd", Encode(nbt.NewDouble(math.Inf(-1)), false))

	// Strings spelling a non-finite literal must quote to keep their kind.
	require.Equal(t, `"NaNd"`, Encode(nbt.NewString("NaNd"), false))
	require.Equal(t, `"-Infinityf"`, Encode(nbt.NewString("-Infinityf"), false))
}

func TestEncode_EmptyContainers(t *testing.T) {
	require.Equal(t, "{}", Encode(nbt.NewCompound(), false))
	require.Equal(t, "[]", Encode(nbt.NewList(), false))
	require.Equal(t, "[B;]", Encode(nbt.NewByteArray(nil), false))
	require.Equal(t, "{}", Encode(nbt.NewCompound(), true))
}

// -----------------------------------------------------------------------------
// Decoding
// -----------------------------------------------------------------------------

func TestDecode_ScalarSuffixesAreCaseInsensitive(t *testing.T) {
	cases := []struct {
		src  string
		want *nbt.Tag
	}{
		{"3b", nbt.NewByte(3)},
		{"3B", nbt.NewByte(3)},
		{"20S", nbt.NewShort(20)},
		{"42", nbt.NewInt(42)},
		{"-9L", nbt.NewLong(-9)},
		{"1.5F", nbt.NewFloat(1.5)},
		{"2.5d", nbt.NewDouble(2.5)},
		{"0.25", nbt.NewDouble(0.25)},
		{"1e3", nbt.NewDouble(1000)},
		{"true", nbt.NewByte(1)},
		{"false", nbt.NewByte(0)},
	}
	for _, tc := range cases {
		got, err := Decode(tc.src)
		require.NoError(t, err, tc.src)
		require.True(t, tc.want.Equal(got), tc.src)
	}
}

func TestDecode_NonFiniteFloats(t *testing.T) {
	got, err := Decode("NaNd")
	require.NoError(t, err)
	require.Equal(t, nbt.KindDouble, got.Kind())
	require.True(t, math.IsNaN(got.Double()))

	got, err = Decode("Infinityf")
	require.NoError(t, err)
	require.Equal(t, nbt.KindFloat, got.Kind())
	require.True(t, math.IsInf(float64(got.Float()), 1))

	got, err = Decode("-InfinityD")
	require.NoError(t, err)
	require.Equal(t, nbt.KindDouble, got.Kind())
	require.True(t, math.IsInf(got.Double(), -1))

	// Without a suffix the token is an ordinary bare string.
	got, err = Decode("NaN")
	require.NoError(t, err)
	require.Equal(t, nbt.KindString, got.Kind())
	require.Equal(t, "NaN", got.Str())
}

func TestDecode_StringsAndQuoting(t *testing.T) {
	got, err := Decode(`"two words"`)
	require.NoError(t, err)
	require.Equal(t, "two words", got.Str())

	got, err = Decode(`'single "inner" quotes'`)
	require.NoError(t, err)
	require.Equal(t, `single "inner" quotes`, got.Str())

	got, err = Decode(`"tab\there\nand \"quote\""`)
	require.NoError(t, err)
	require.Equal(t, "tab\there\nand \"quote\"", got.Str())

	// Bare tokens that are not numbers or booleans decode as strings.
	got, err = Decode("stone.slab+x_1")
	require.NoError(t, err)
	require.Equal(t, nbt.KindString, got.Kind())
	require.Equal(t, "stone.slab+x_1", got.Str())
}

func TestDecode_TypedArrays(t *testing.T) {
	got, err := Decode("[B; 1b, -2, 3B ]")
	require.NoError(t, err)
	require.Equal(t, []int8{1, -2, 3}, got.ByteSlice())

	got, err = Decode("[I;7,-8]")
	require.NoError(t, err)
	require.Equal(t, []int32{7, -8}, got.IntSlice())

	got, err = Decode("[L;1l,-2L,3]")
	require.NoError(t, err)
	require.Equal(t, []int64{1, -2, 3}, got.LongSlice())

	got, err = Decode("[B;]")
	require.NoError(t, err)
	require.Equal(t, nbt.KindByteArray, got.Kind())
	require.Equal(t, 0, got.Len())
}

func TestDecode_ListStartingWithBareBIsAList(t *testing.T) {
	got, err := Decode("[B, C]")
	require.NoError(t, err)
	require.Equal(t, nbt.KindList, got.Kind())
	require.Equal(t, nbt.KindString, got.List().Elem())
}

func TestDecode_WhitespaceIsInsignificant(t *testing.T) {
	got, err := Decode("  {\n\tname : Steve ,\r\n pos:[ 1.5d , 64d,-3.5d ] }  ")
	require.NoError(t, err)
	require.Equal(t, 2, got.Compound().Len())
}

// -----------------------------------------------------------------------------
// Syntax errors carry offsets
// -----------------------------------------------------------------------------

func requireSyntaxErr(t *testing.T, src string, wantOffset int) {
	t.Helper()
	_, err := Decode(src)
	var se *SyntaxError
	require.ErrorAs(t, err, &se, src)
	require.Equal(t, wantOffset, se.Offset, "%s: %v", src, err)
}

func TestDecode_SyntaxErrors(t *testing.T) {
	requireSyntaxErr(t, "{name:Steve", 0)        // unbalanced '{'
	requireSyntaxErr(t, "[1,2", 0)               // unbalanced '['
	requireSyntaxErr(t, `"no end`, 0)            // unterminated string
	requireSyntaxErr(t, `{a:1} trailing`, 6)     // trailing data
	requireSyntaxErr(t, "{a:1,a:2}", 5)          // duplicate key
	requireSyntaxErr(t, "[1,two]", 3)            // mixed list kinds
	requireSyntaxErr(t, "1.5s", 0)               // fractional short
	requireSyntaxErr(t, "999b", 0)               // byte out of range
	requireSyntaxErr(t, "99999999999999999", 0)  // unsuffixed int overflow
	requireSyntaxErr(t, "[B;1b,999b]", 6)        // array element out of range
	requireSyntaxErr(t, "{a 1}", 3)              // missing ':'
	requireSyntaxErr(t, `{a:1 "b":2}`, 5)        // missing ','
	requireSyntaxErr(t, `"bad \q escape"`, 5)    // unknown escape
}

func TestDecode_DeepNestingRejected(t *testing.T) {
	src := ""
	for i := 0; i < 600; i++ {
		src += "["
	}
	_, err := Decode(src)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
}

// -----------------------------------------------------------------------------
// Round trips
// -----------------------------------------------------------------------------

func allKindsTag(t *testing.T) *nbt.Tag {
	t.Helper()
	root := nbt.NewCompound()
	c := root.Compound()
	require.NoError(t, c.Append("b", nbt.NewByte(-7)))
	require.NoError(t, c.Append("s", nbt.NewShort(-300)))
	require.NoError(t, c.Append("i", nbt.NewInt(123456)))
	require.NoError(t, c.Append("l", nbt.NewLong(-1<<40)))
	require.NoError(t, c.Append("f", nbt.NewFloat(0.5)))
	require.NoError(t, c.Append("d", nbt.NewDouble(-2.25)))
	require.NoError(t, c.Append("str", nbt.NewString("hello world")))
	require.NoError(t, c.Append("ba", nbt.NewByteArray([]int8{1, 2, -3})))
	require.NoError(t, c.Append("ia", nbt.NewIntArray([]int32{-1, 0, 1})))
	require.NoError(t, c.Append("la", nbt.NewLongArray([]int64{1 << 40})))
	inner := nbt.NewCompound()
	require.NoError(t, inner.Compound().Append("empty list", nbt.NewList()))
	require.NoError(t, c.Append("nested", inner))
	strs := nbt.NewList()
	require.NoError(t, strs.List().Append(nbt.NewString("a b")))
	require.NoError(t, strs.List().Append(nbt.NewString("c")))
	require.NoError(t, c.Append("strs", strs))
	return root
}

func TestRoundTrip_CompactAndPretty(t *testing.T) {
	orig := allKindsTag(t)
	for _, pretty := range []bool{false, true} {
		text := Encode(orig, pretty)
		back, err := Decode(text)
		require.NoError(t, err, text)
		require.True(t, orig.Equal(back), "pretty=%v:\n%s", pretty, text)
	}
}

func TestRoundTrip_NonFiniteFloatsKeepKind(t *testing.T) {
	root := nbt.NewCompound()
	c := root.Compound()
	require.NoError(t, c.Append("nan", nbt.NewDouble(math.NaN())))
	require.NoError(t, c.Append("inf", nbt.NewFloat(float32(math.Inf(1)))))
	require.NoError(t, c.Append("ninf", nbt.NewDouble(math.Inf(-1))))
	require.NoError(t, c.Append("trap", nbt.NewString("NaNd")))

	for _, pretty := range []bool{false, true} {
		back, err := Decode(Encode(root, pretty))
		require.NoError(t, err, "pretty=%v", pretty)
		bc := back.Compound()
		require.Equal(t, nbt.KindDouble, bc.Get("nan").Kind())
		require.True(t, math.IsNaN(bc.Get("nan").Double()))
		require.Equal(t, nbt.KindFloat, bc.Get("inf").Kind())
		require.True(t, math.IsInf(float64(bc.Get("inf").Float()), 1))
		require.Equal(t, nbt.KindDouble, bc.Get("ninf").Kind())
		require.True(t, math.IsInf(bc.Get("ninf").Double(), -1))
		require.Equal(t, nbt.KindString, bc.Get("trap").Kind())
		require.Equal(t, "NaNd", bc.Get("trap").Str())
	}
}

func TestRoundTrip_PlayerFixtureKeepsEntryOrder(t *testing.T) {
	back, err := Decode(Encode(playerTag(t), false))
	require.NoError(t, err)
	c := back.Compound()
	require.Equal(t, "name", c.Entry(0).Name)
	require.Equal(t, "health", c.Entry(1).Name)
	require.Equal(t, "pos", c.Entry(2).Name)
}
