package nbt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"

	"github.com/Jarva/nbtworkbench/internal/format"
)

// Compression identifies how a standalone tag file or a region chunk payload
// is wrapped.
type Compression uint8

const (
	// CompressionNone stores the encoded tag bytes as-is.
	CompressionNone Compression = iota
	// CompressionGzip wraps the payload in a gzip stream (legacy default).
	CompressionGzip
	// CompressionZlib wraps the payload in a zlib stream.
	CompressionZlib
	// CompressionLZ4 wraps the payload in an LZ4 frame (the newer scheme).
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// lz4FrameMagic is the little-endian LZ4 frame magic number.
var lz4FrameMagic = []byte{0x04, 0x22, 0x4D, 0x18}

// SniffCompression inspects leading magic bytes: gzip 1F 8B, zlib 78 xx,
// LZ4 frame 04 22 4D 18; anything else is treated as uncompressed.
func SniffCompression(data []byte) Compression {
	switch {
	case len(data) >= 2 && data[0] == format.GzipMagic0 && data[1] == format.GzipMagic1:
		return CompressionGzip
	case len(data) >= 2 && data[0] == format.ZlibMagic:
		return CompressionZlib
	case len(data) >= 4 && bytes.Equal(data[:4], lz4FrameMagic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Compress wraps raw in the scheme's container.
func (c Compression) Compress(raw []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return raw, nil
	case CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionZlib:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
}

// Decompress unwraps data according to the scheme.
func (c Compression) Decompress(data []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case CompressionZlib:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
}

// EncodeFile serializes a named root tag and wraps it in the chosen
// container. CompressionGzip is the conventional choice for standalone
// .dat files.
func EncodeFile(root *Tag, name string, c Compression) ([]byte, error) {
	raw, err := Encode(root, name)
	if err != nil {
		return nil, err
	}
	return c.Compress(raw)
}

// DecodeFile sniffs the container of a standalone tag file, unwraps it, and
// decodes the named root tag. The detected scheme is returned so a save can
// preserve it.
func DecodeFile(data []byte) (*Tag, string, Compression, error) {
	c := SniffCompression(data)
	raw, err := c.Decompress(data)
	if err != nil {
		return nil, "", c, fmt.Errorf("%s container: %w: %w", c, err, ErrMalformed)
	}
	root, name, err := Decode(raw)
	if err != nil {
		return nil, "", c, err
	}
	return root, name, c, nil
}
