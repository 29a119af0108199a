// Package png encodes 8-bit truecolor images as minimal PNG files:
// the signature followed by IHDR, one or more IDAT, and IEND chunks.
// Reference: PNG (Portable Network Graphics) Specification, Second Edition.
package png

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/jpfielding/pngcore.go/pkg/compress/deflate"
)

// Signature opens every PNG datastream.
const Signature = "\x89PNG\r\n\x1a\n"

// Compressor turns assembled scanlines into a zlib stream.
type Compressor func([]byte) ([]byte, error)

// Options for encoding
type Options struct {
	// Level is the zlib level: 1-9, -1 zlib default, -2 huffman only.
	// The zero value means DefaultLevel; use NoCompression for stored blocks.
	Level        int
	Compressor   deflate.Compressor // overrides Level when set
	MaxChunkSize int                // split IDAT above this many bytes (0 = single IDAT)
}

// Levels with a meaning specific to Options.Level.
const (
	DefaultLevel  = 6
	NoCompression = -3 // zlib level 0, stored blocks only
)

// DefaultOptions is zlib level 6 with a single IDAT.
var DefaultOptions = Options{}

// zlibLevel maps Options.Level onto the compressor's level scale.
func (o *Options) zlibLevel() int {
	switch o.Level {
	case 0:
		return DefaultLevel
	case NoCompression:
		return deflate.NoCompression
	}
	return o.Level
}

var errNilCompressor = errors.New("png: nil compressor")

// Chunks returns the ordered chunks for r without serialising them.
func Chunks(r *Raster, compress Compressor, maxChunkSize int) ([]Chunk, error) {
	if compress == nil {
		return nil, errNilCompressor
	}
	// validates before anything is built
	raw, err := Assemble(r)
	if err != nil {
		return nil, err
	}
	z, err := compress(raw)
	if err != nil {
		return nil, err
	}

	chunks := []Chunk{chunkOf(header{width: r.Width, height: r.Height})}
	for _, part := range split(z, maxChunkSize) {
		chunks = append(chunks, chunkOf(data(part)))
	}
	return append(chunks, chunkOf(end{})), nil
}

// split cuts z into pieces of at most limit bytes; limit <= 0 keeps it whole.
func split(z []byte, limit int) [][]byte {
	if limit <= 0 {
		return [][]byte{z}
	}
	var parts [][]byte
	for len(z) > limit {
		parts = append(parts, z[:limit])
		z = z[limit:]
	}
	return append(parts, z)
}

// Compose returns a complete PNG for r with a single IDAT chunk. Errors
// from compress are returned as is.
func Compose(r *Raster, compress Compressor) ([]byte, error) {
	return ComposeSplit(r, compress, 0)
}

// ComposeSplit is Compose with the zlib stream spread over IDAT chunks of
// at most maxChunkSize bytes.
func ComposeSplit(r *Raster, compress Compressor, maxChunkSize int) ([]byte, error) {
	chunks, err := Chunks(r, compress, maxChunkSize)
	if err != nil {
		return nil, err
	}
	return Marshal(chunks)
}

// Marshal writes the signature followed by each framed chunk.
func Marshal(chunks []Chunk) ([]byte, error) {
	size := len(Signature)
	for _, c := range chunks {
		size += chunkOverhead + c.Len()
	}
	var buf bytes.Buffer
	buf.Grow(size)
	buf.WriteString(Signature)
	for _, c := range chunks {
		if _, err := c.WriteTo(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// compressorFor resolves the compressor described by opts.
func compressorFor(opts *Options) (Compressor, int, error) {
	if opts == nil {
		opts = &DefaultOptions
	}
	c := opts.Compressor
	if c == nil {
		var err error
		if c, err = deflate.New(opts.zlibLevel()); err != nil {
			return nil, 0, err
		}
	}
	return deflate.Func(c), opts.MaxChunkSize, nil
}

// EncodeRaster writes r to w as a PNG.
func EncodeRaster(w io.Writer, r *Raster, opts *Options) error {
	compress, chunkSize, err := compressorFor(opts)
	if err != nil {
		return err
	}
	b, err := ComposeSplit(r, compress, chunkSize)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Encode writes img to w as an 8-bit RGB PNG. Alpha is discarded.
func Encode(w io.Writer, img image.Image, opts *Options) error {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: empty bounds %v", ErrInvalidRaster, b)
	}
	return EncodeRaster(w, FromImage(img), opts)
}
